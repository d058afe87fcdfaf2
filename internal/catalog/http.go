// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lucasferraz/cinevault/internal/platform/request"
	"github.com/lucasferraz/cinevault/internal/platform/respond"
	"github.com/lucasferraz/cinevault/internal/platform/validate"
)

// Handler exposes the catalog proxy endpoints.
type Handler struct {
	client *Client
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

/*
Routes mounts the catalog endpoints. All of them sit behind the bearer-token
route family: browsing is for signed-in members only.

Endpoints:

	GET /trending                      - trending feed (?window=day|week&page=N)
	GET /search                        - title search  (?q=...&page=N)
	GET /titles/{mediaType}/{id}       - one title's details
*/
func (handler *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/trending", handler.handleTrending)
	router.Get("/search", handler.handleSearch)
	router.Get("/titles/{mediaType}/{id}", handler.handleTitleDetails)

	return router
}

// handleTrending proxies the trending feed.
func (handler *Handler) handleTrending(writer http.ResponseWriter, request *http.Request) {
	window := request.URL.Query().Get("window")
	if window == "" {
		window = "week"
	}

	err := (&validate.Validator{}).
		OneOf("window", window, "day", "week").
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.client.Trending(request.Context(), window, pageParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, payload)
}

// handleSearch proxies a title search.
func (handler *Handler) handleSearch(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")

	err := (&validate.Validator{}).
		Required("q", query).
		MaxLen("q", query, 200).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.client.Search(request.Context(), query, pageParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, payload)
}

// handleTitleDetails proxies one title's full record.
func (handler *Handler) handleTitleDetails(writer http.ResponseWriter, request *http.Request) {
	mediaType := requestutil.Param(request, "mediaType")
	id := requestutil.Param(request, "id")

	err := (&validate.Validator{}).
		OneOf("mediaType", mediaType, "movie", "tv").
		Required("id", id).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.client.TitleDetails(request.Context(), mediaType, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, payload)
}

// pageParam parses the page query parameter, defaulting to 1.
func pageParam(request *http.Request) int {
	page, err := strconv.Atoi(request.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
