// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasferraz/cinevault/internal/platform/dberr"
	"github.com/lucasferraz/cinevault/pkg/uuidv7"
)

// resourceUser names the entity in wrapped storage errors
// ("User not found", "User already exists").
const resourceUser = "User"

// userColumns is the canonical SELECT column list for scanUser.
const userColumns = `
	id, email, username, password_hash, avatar_url, is_verified,
	verification_token, token_expiration, created_at, updated_at
`

// PostgresUserRepository implements [UserRepository] backed by PostgreSQL.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a user repository on the given pool.
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create inserts a new user row.
//
// The ID and timestamps are assigned here so the caller receives a fully
// populated entity back. A duplicate email or username loses at the unique
// constraint and is surfaced as a 409 Conflict, which also resolves two
// registrations racing on the same identity.
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	user.ID = uuidv7.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (
			id, email, username, password_hash, avatar_url, is_verified,
			verification_token, token_expiration, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		user.Username,
		user.PasswordHash,
		user.AvatarURL,
		user.IsVerified,
		user.VerificationToken,
		user.TokenExpiration,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}

	return nil
}

// FindByID fetches a user by primary key.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, id))
}

// FindByEmail fetches a user by email address.
//
// Emails are stored lowercased at insert, but the comparison is still
// case-insensitive to tolerate rows imported from before that rule.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, email))
}

// FindByUsername fetches a user by their exact username.
func (repository *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, username))
}

// FindByVerificationToken fetches the user holding a pending verification token.
//
// Expiry is NOT checked here: the service needs the user to distinguish an
// expired token (400 with a specific code) from an unknown one.
func (repository *PostgresUserRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return repository.scanUser(repository.pool.QueryRow(ctx, query, token))
}

// ExistsByID reports whether a user row exists.
//
// This is the authorization gate's hot path, so it reads a single boolean
// instead of hydrating the full entity.
func (repository *PostgresUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resourceUser)
	}

	return exists, nil
}

// SetVerificationToken stores a fresh token/expiration pair on the user.
func (repository *PostgresUserRepository) SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET verification_token = $2, token_expiration = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := repository.pool.Exec(ctx, query, userID, token, expiresAt)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}

	return nil
}

// ConsumeVerificationToken flips the user to verified and clears the pending
// token pair in one conditional UPDATE.
//
// The WHERE clause matches the token itself, so of two requests racing on
// the same token exactly one UPDATE affects a row. The loser sees zero rows
// and returns false; the service maps that to an idempotent success.
func (repository *PostgresUserRepository) ConsumeVerificationToken(ctx context.Context, userID, token string) (bool, error) {
	query := `
		UPDATE users
		SET is_verified = TRUE, verification_token = NULL, token_expiration = NULL, updated_at = NOW()
		WHERE id = $1 AND verification_token = $2
	`

	tag, err := repository.pool.Exec(ctx, query, userID, token)
	if err != nil {
		return false, dberr.Wrap(err, resourceUser)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdatePassword replaces the stored password hash.
func (repository *PostgresUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}

	return nil
}

// scanUser maps a single row into a [User] entity.
func (repository *PostgresUserRepository) scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.AvatarURL,
		&user.IsVerified,
		&user.VerificationToken,
		&user.TokenExpiration,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}

	return &user, nil
}

// compile-time interface conformance check
var _ UserRepository = (*PostgresUserRepository)(nil)
