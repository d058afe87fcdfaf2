// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasferraz/cinevault/internal/auth"
	"github.com/lucasferraz/cinevault/internal/catalog"
	"github.com/lucasferraz/cinevault/internal/library"
	"github.com/lucasferraz/cinevault/internal/platform/config"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
)

// newTestRouter assembles the real router with in-process dependencies.
// Postgres and Redis are left nil, so tests must stay off /readyz and off
// any endpoint that reaches a repository.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{Environment: "development"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := sec.NewTokenService(strings.Repeat("k", 32), "cinevault.test")
	require.NoError(t, err)

	authService := auth.NewService(nil, nil, tokens, nil, "http://localhost:8080")
	authHandler := auth.NewHandler(authService, false)

	catalogHandler := catalog.NewHandler(catalog.NewClient("http://127.0.0.1:0", "test-key"))
	libraryHandler := library.NewHandler(library.NewService(nil))

	return NewRouter(context.Background(), Dependencies{
		Config:  cfg,
		Logger:  logger,
		Tokens:  tokens,
		Auth:    authHandler,
		Catalog: catalogHandler,
		Library: libraryHandler,
	})
}

func TestNewRouterChain(t *testing.T) {
	t.Run("every request runs under a deadline", func(t *testing.T) {
		router := newTestRouter(t)
		mux, ok := router.(chi.Router)
		require.True(t, ok)

		// Rebuild the wired chain around a handler that can observe the
		// request context the domain handlers actually receive.
		var deadline time.Time
		var hasDeadline bool
		chain := mux.Middlewares().HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			deadline, hasDeadline = request.Context().Deadline()
			writer.WriteHeader(http.StatusNoContent)
		})

		recorder := httptest.NewRecorder()
		chain.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		require.True(t, hasDeadline, "request context must carry a deadline")
		assert.WithinDuration(t, time.Now().Add(constants.GlobalRequestTimeout), deadline, 5*time.Second)
	})

	t.Run("redundant slashes are cleaned before routing", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1//auth/session", nil))

		assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	})

	t.Run("liveness passes through the full chain", func(t *testing.T) {
		router := newTestRouter(t)

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
	})
}
