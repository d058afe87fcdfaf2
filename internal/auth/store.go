// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository defines the persistence operations for [User] records.
//
// Implementations return errors already wrapped as [apperr.AppError]
// (404 for missing rows, 409 for unique violations) so the service layer
// never inspects driver errors.
type UserRepository interface {
	// Create persists a new user. Duplicate email or username surfaces as a
	// 409 Conflict, including the case where two registrations race.
	Create(ctx context.Context, user *User) error

	// FindByID fetches a user by primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail fetches a user by email, case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername fetches a user by their exact username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByVerificationToken fetches the user holding a pending verification
	// token, regardless of whether the token has expired.
	FindByVerificationToken(ctx context.Context, token string) (*User, error)

	// ExistsByID reports whether a user row exists, without loading it.
	ExistsByID(ctx context.Context, id string) (bool, error)

	// SetVerificationToken stores a fresh token/expiration pair on the user,
	// replacing any previous pending token.
	SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ConsumeVerificationToken atomically marks the user verified and clears
	// the token pair, but only if the given token is still the pending one.
	//
	// It returns true when this call performed the transition, false when a
	// concurrent consumer already did. Exactly one of two racing callers
	// observes true.
	ConsumeVerificationToken(ctx context.Context, userID, token string) (bool, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// ResetCodeRepository stores short-lived numeric password-reset codes.
//
// Codes live outside the user row: they are ephemeral, TTL-bound state and
// the cache handles expiry natively.
type ResetCodeRepository interface {
	// Set stores the code for a user, replacing any previous one.
	Set(ctx context.Context, userID, code string, ttl time.Duration) error

	// Get returns the pending code for a user, or "" when none exists
	// (never issued, already consumed, or expired).
	Get(ctx context.Context, userID string) (string, error)

	// Delete removes the pending code. Deleting a missing code is not an error.
	Delete(ctx context.Context, userID string) error
}
