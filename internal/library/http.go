// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lucasferraz/cinevault/internal/platform/request"
	"github.com/lucasferraz/cinevault/internal/platform/respond"
	"github.com/lucasferraz/cinevault/internal/platform/validate"
	"github.com/lucasferraz/cinevault/pkg/pagination"
)

// Handler exposes the personal-list endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates the library HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes mounts the list endpoints. All of them sit behind the bearer-token
route family and act on the authenticated member's own lists only.

Endpoints:

	GET    /{list}                            - one page of the list
	POST   /{list}                            - add a title (200, idempotent)
	DELETE /{list}/{mediaType}/{titleID}      - remove a title (204)
	GET    /{list}/{mediaType}/{titleID}      - membership check
*/
func (handler *Handler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/{list}", handler.handlePage)
	router.Post("/{list}", handler.handleSave)
	router.Delete("/{list}/{mediaType}/{titleID}", handler.handleRemove)
	router.Get("/{list}/{mediaType}/{titleID}", handler.handleContains)

	return router
}

type saveRequest struct {
	TitleID    string `json:"title_id"`
	MediaType  string `json:"media_type"`
	TitleName  string `json:"title_name"`
	PosterPath string `json:"poster_path"`
}

// handleSave adds a title to the named list.
func (handler *Handler) handleSave(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload saveRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	list := ListKind(requestutil.Param(request, "list"))
	err = (&validate.Validator{}).
		Custom("list", !list.Valid(), "Unknown list").
		Required("title_id", payload.TitleID).
		OneOf("media_type", payload.MediaType, "movie", "tv").
		Required("title_name", payload.TitleName).
		MaxLen("title_name", payload.TitleName, 500).
		Err()
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Save(request.Context(), SaveInput{
		UserID:     userID,
		TitleID:    payload.TitleID,
		MediaType:  payload.MediaType,
		List:       list,
		TitleName:  payload.TitleName,
		PosterPath: payload.PosterPath,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// handlePage returns one page of the named list.
func (handler *Handler) handlePage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list := ListKind(requestutil.Param(request, "list"))
	entries, meta, err := handler.service.Page(request.Context(), userID, list, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

// handleRemove deletes a title from the named list.
func (handler *Handler) handleRemove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list := ListKind(requestutil.Param(request, "list"))
	titleID := requestutil.Param(request, "titleID")
	mediaType := requestutil.Param(request, "mediaType")

	if err := handler.service.Remove(request.Context(), userID, titleID, mediaType, list); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

type containsResponse struct {
	Saved bool `json:"saved"`
}

// handleContains reports whether a title is on the named list.
func (handler *Handler) handleContains(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list := ListKind(requestutil.Param(request, "list"))
	titleID := requestutil.Param(request, "titleID")
	mediaType := requestutil.Param(request, "mediaType")

	saved, err := handler.service.Contains(request.Context(), userID, titleID, mediaType, list)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, containsResponse{Saved: saved})
}
