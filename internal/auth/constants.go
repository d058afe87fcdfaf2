// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTokenTTL is the duration a session token remains valid.
	// Seven days is long for a design with no server-side revocation; expiry
	// is the only natural death of a session (logout clears the cookie only).
	SessionTokenTTL = 7 * 24 * time.Hour

	// VerificationTokenTTL is the duration an email verification token remains
	// valid. Long-lived (24 hours) as users might not check email immediately.
	VerificationTokenTTL = 24 * time.Hour

	// VerificationTokenLength is the byte length of the random verification token.
	VerificationTokenLength = 32

	// ResetCodeTTL is the duration a password reset code remains valid.
	// Short-lived (1 hour) for security.
	ResetCodeTTL = 1 * time.Hour

	// ResetCodeDigits is the length of the human-typed numeric reset code.
	ResetCodeDigits = 6

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)
