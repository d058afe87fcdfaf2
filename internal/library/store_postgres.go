// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package library

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/dberr"
	"github.com/lucasferraz/cinevault/pkg/pagination"
	"github.com/lucasferraz/cinevault/pkg/uuidv7"
)

const resourceEntry = "Library entry"

// PostgresEntryRepository implements [EntryRepository] backed by PostgreSQL.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEntryRepository creates an entry repository on the given pool.
func NewPostgresEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

// Add saves an entry. ON CONFLICT DO NOTHING makes re-adding idempotent and
// absorbs two concurrent adds of the same tuple without an error.
func (repository *PostgresEntryRepository) Add(ctx context.Context, entry *Entry) error {
	entry.ID = uuidv7.New()
	entry.AddedAt = time.Now().UTC()

	query := `
		INSERT INTO library_entries (id, user_id, title_id, media_type, list, title_name, poster_path, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, title_id, media_type, list) DO NOTHING
	`

	_, err := repository.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TitleID,
		entry.MediaType,
		entry.List,
		entry.TitleName,
		entry.PosterPath,
		entry.AddedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceEntry)
	}

	return nil
}

// Remove deletes an entry from a list.
func (repository *PostgresEntryRepository) Remove(ctx context.Context, userID, titleID, mediaType string, list ListKind) error {
	query := `
		DELETE FROM library_entries
		WHERE user_id = $1 AND title_id = $2 AND media_type = $3 AND list = $4
	`

	tag, err := repository.pool.Exec(ctx, query, userID, titleID, mediaType, list)
	if err != nil {
		return dberr.Wrap(err, resourceEntry)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceEntry)
	}

	return nil
}

// ListByUser returns one page of a member's list, newest first.
func (repository *PostgresEntryRepository) ListByUser(ctx context.Context, userID string, list ListKind, params pagination.Params) ([]Entry, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM library_entries WHERE user_id = $1 AND list = $2`
	if err := repository.pool.QueryRow(ctx, countQuery, userID, list).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, resourceEntry)
	}

	query := `
		SELECT id, user_id, title_id, media_type, list, title_name, poster_path, added_at
		FROM library_entries
		WHERE user_id = $1 AND list = $2
		ORDER BY added_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := repository.pool.Query(ctx, query, userID, list, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceEntry)
	}
	defer rows.Close()

	entries := make([]Entry, 0, params.Limit)
	for rows.Next() {
		var entry Entry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.TitleID,
			&entry.MediaType,
			&entry.List,
			&entry.TitleName,
			&entry.PosterPath,
			&entry.AddedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceEntry)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceEntry)
	}

	return entries, total, nil
}

// Contains reports whether the title is on the given list.
func (repository *PostgresEntryRepository) Contains(ctx context.Context, userID, titleID, mediaType string, list ListKind) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM library_entries
			WHERE user_id = $1 AND title_id = $2 AND media_type = $3 AND list = $4
		)
	`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, userID, titleID, mediaType, list).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceEntry)
	}

	return exists, nil
}

// compile-time interface conformance check
var _ EntryRepository = (*PostgresEntryRepository)(nil)
