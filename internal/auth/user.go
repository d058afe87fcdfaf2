// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package auth implements the user identity and session-verification core.

It handles registration, secure password hashing, the email-verification
token state machine, session-token issuance, and password recovery.

# Architecture

This layer is the "Truth" of the system. The [User] entity and its
invariants have no transport or storage dependencies; repositories and
handlers adapt around them.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Cinevault platform.
//
// # Invariants
//
//   - Email and Username are each unique across all users (enforced by the store).
//   - VerificationToken and TokenExpiration are both nil or both set.
//   - IsVerified transitions false→true once; later verification attempts are
//     idempotent successes, never errors.
//   - PasswordHash is set at creation and never empty.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	AvatarURL    string `json:"avatar_url,omitempty"`
	IsVerified   bool   `json:"is_verified"`

	// Pending email-verification state. Cleared together on consumption.
	VerificationToken *string    `json:"-"`
	TokenExpiration   *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicUser is the minimal projection returned by login and session checks.
//
// It exists so that a handler physically cannot leak the hash or the pending
// verification token: those fields are not present on the type at all.
type PublicUser struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Public returns the client-safe projection of the user.
func (user *User) Public() PublicUser {
	return PublicUser{
		Email:     user.Email,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldToken       = "token"
	FieldCode        = "code"
	FieldNewPassword = "new_password"
)
