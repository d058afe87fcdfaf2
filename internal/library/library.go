// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package library manages each member's personal title lists.

A member keeps three lists: favorites, watched, and watch-later. Entries
snapshot a little display metadata (name, poster) at save time so the lists
render without a catalog round-trip per row.
*/
package library

import (
	"context"
	"time"

	"github.com/lucasferraz/cinevault/pkg/pagination"
)

// # List Kinds

// ListKind identifies which personal list an entry belongs to.
type ListKind string

const (
	ListFavorites  ListKind = "favorites"
	ListWatched    ListKind = "watched"
	ListWatchLater ListKind = "watch_later"
)

// Valid reports whether the kind is one of the three known lists.
func (kind ListKind) Valid() bool {
	switch kind {
	case ListFavorites, ListWatched, ListWatchLater:
		return true
	}
	return false
}

// # Domain Entities

// Entry is one title saved to one of a member's lists.
//
// The (UserID, TitleID, MediaType, List) tuple is unique: saving the same
// title to the same list twice is an idempotent no-op.
type Entry struct {
	ID         string   `json:"id"`
	UserID     string   `json:"-"`
	TitleID    string   `json:"title_id"`
	MediaType  string   `json:"media_type"`
	List       ListKind `json:"list"`
	TitleName  string   `json:"title_name"`
	PosterPath string   `json:"poster_path,omitempty"`

	AddedAt time.Time `json:"added_at"`
}

// # Repository Contract

// EntryRepository defines persistence for library entries.
type EntryRepository interface {
	// Add saves an entry, idempotently: re-adding an existing
	// (user, title, list) tuple succeeds without a duplicate row.
	Add(ctx context.Context, entry *Entry) error

	// Remove deletes an entry from a list. Removing a missing entry
	// surfaces as a 404.
	Remove(ctx context.Context, userID, titleID, mediaType string, list ListKind) error

	// ListByUser returns one page of a member's list, newest first,
	// along with the total entry count for pagination metadata.
	ListByUser(ctx context.Context, userID string, list ListKind, params pagination.Params) ([]Entry, int, error)

	// Contains reports whether the title is on the given list.
	Contains(ctx context.Context, userID, titleID, mediaType string, list ListKind) (bool, error)
}
