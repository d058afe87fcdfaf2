// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package catalog proxies the upstream movie/TV catalog API.

The upstream is treated as an opaque HTTP collaborator: Cinevault forwards
trending, search, and title-detail requests with its own API key attached,
reshapes nothing beyond the response envelope, and owns no catalog data.
*/
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
)

// requestTimeout bounds a single upstream call.
const requestTimeout = 8 * time.Second

// maxResponseBytes caps how much upstream payload is buffered.
const maxResponseBytes = 4 << 20

// Client calls the upstream catalog API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an upstream catalog client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Trending fetches the trending titles feed for a time window ("day" or "week").
func (client *Client) Trending(ctx context.Context, window string, page int) (json.RawMessage, error) {
	return client.get(ctx, fmt.Sprintf("/trending/all/%s", window), url.Values{
		"page": []string{fmt.Sprintf("%d", page)},
	})
}

// Search runs a multi-type title search against the upstream.
func (client *Client) Search(ctx context.Context, query string, page int) (json.RawMessage, error) {
	return client.get(ctx, "/search/multi", url.Values{
		"query": []string{query},
		"page":  []string{fmt.Sprintf("%d", page)},
	})
}

// TitleDetails fetches the full record for one title.
// mediaType is "movie" or "tv"; id is the upstream's identifier.
func (client *Client) TitleDetails(ctx context.Context, mediaType, id string) (json.RawMessage, error) {
	return client.get(ctx, fmt.Sprintf("/%s/%s", mediaType, id), nil)
}

// get performs one upstream GET and returns the raw JSON body.
//
// Upstream 404s become Cinevault 404s; any other upstream failure becomes a
// 503 since the catalog being down is a dependency outage, not our fault.
func (client *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", client.apiKey)

	requestURL := client.baseURL + path + "?" + params.Encode()

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("catalog_client_build_request_failed: %w", err))
	}
	httpRequest.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Catalog service is temporarily unavailable")
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return nil, apperr.NotFound("Title")
	case response.StatusCode >= 400:
		return nil, apperr.ServiceUnavailable("Catalog service is temporarily unavailable")
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.ServiceUnavailable("Catalog service is temporarily unavailable")
	}

	if !json.Valid(body) {
		return nil, apperr.ServiceUnavailable("Catalog service returned an unreadable response")
	}

	return json.RawMessage(body), nil
}
