// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package library

import (
	"context"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/pkg/pagination"
)

// Service implements the personal-list workflows.
type Service struct {
	entries EntryRepository
}

// NewService wires the library service.
func NewService(entries EntryRepository) *Service {
	return &Service{entries: entries}
}

// SaveInput is the validated payload for adding a title to a list.
type SaveInput struct {
	UserID     string
	TitleID    string
	MediaType  string
	List       ListKind
	TitleName  string
	PosterPath string
}

// Save adds a title to one of the member's lists, idempotently.
func (service *Service) Save(ctx context.Context, input SaveInput) (*Entry, error) {
	if !input.List.Valid() {
		return nil, apperr.ValidationError("Unknown list")
	}

	entry := &Entry{
		UserID:     input.UserID,
		TitleID:    input.TitleID,
		MediaType:  input.MediaType,
		List:       input.List,
		TitleName:  input.TitleName,
		PosterPath: input.PosterPath,
	}
	if err := service.entries.Add(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Remove deletes a title from one of the member's lists.
func (service *Service) Remove(ctx context.Context, userID, titleID, mediaType string, list ListKind) error {
	if !list.Valid() {
		return apperr.ValidationError("Unknown list")
	}

	return service.entries.Remove(ctx, userID, titleID, mediaType, list)
}

// Page returns one page of a member's list with pagination metadata.
func (service *Service) Page(ctx context.Context, userID string, list ListKind, params pagination.Params) ([]Entry, pagination.Meta, error) {
	if !list.Valid() {
		return nil, pagination.Meta{}, apperr.ValidationError("Unknown list")
	}

	entries, total, err := service.entries.ListByUser(ctx, userID, list, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Contains reports whether a title is on the member's list.
func (service *Service) Contains(ctx context.Context, userID, titleID, mediaType string, list ListKind) (bool, error) {
	if !list.Valid() {
		return false, apperr.ValidationError("Unknown list")
	}

	return service.entries.Contains(ctx, userID, titleID, mediaType, list)
}
