// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
)

func TestClientGet(t *testing.T) {
	t.Run("forwards the api key and returns the raw body", func(t *testing.T) {
		var seenKey string
		upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seenKey = request.URL.Query().Get("api_key")
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"results":[{"id":603}]}`))
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "secret-key")
		payload, err := client.Trending(context.Background(), "week", 1)
		require.NoError(t, err)

		assert.Equal(t, "secret-key", seenKey)
		assert.JSONEq(t, `{"results":[{"id":603}]}`, string(payload))
	})

	t.Run("upstream 404 becomes a 404", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "secret-key")
		_, err := client.TitleDetails(context.Background(), "movie", "does-not-exist")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("upstream failure becomes a 503", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "secret-key")
		_, err := client.Search(context.Background(), "matrix", 1)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusServiceUnavailable, appError.HTTPStatus)
	})

	t.Run("unreachable upstream becomes a 503", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "secret-key")
		_, err := client.Trending(context.Background(), "day", 1)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusServiceUnavailable, appError.HTTPStatus)
	})

	t.Run("non-json upstream body is rejected", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = writer.Write([]byte("<html>gateway error</html>"))
		}))
		defer upstream.Close()

		client := NewClient(upstream.URL, "secret-key")
		_, err := client.Trending(context.Background(), "day", 1)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusServiceUnavailable, appError.HTTPStatus)
	})
}
