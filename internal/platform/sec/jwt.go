// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, session token
// signing) from the domain logic. It acts as an Infrastructure service
// injected into the Application layer via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum byte length accepted for the signing secret.
// Anything shorter makes the HMAC trivially brute-forceable.
const MinSecretLength = 32

// Typed verification failures. Callers that need to distinguish an expired
// session from a tampered one (logging, client messaging) match on these;
// both still mean "not authenticated".
var (
	// ErrTokenExpired marks a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("sec: session token expired")

	// ErrTokenInvalid marks a malformed token, a signature mismatch, or an
	// unexpected signing algorithm.
	ErrTokenInvalid = errors.New("sec: session token invalid")
)

// SessionClaims represents the payload embedded inside a session token.
//
// # Why custom claims?
//
// By embedding the UserID and Email directly inside the token, the
// authorization gate can reconstruct the acting identity WITHOUT querying
// the database on every request. The gate still re-checks account existence
// as a separate, cheap repository read.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	UserID   string `json:"uid"`
	Email    string `json:"eml"`
	Username string `json:"unm"`
}

// TokenService handles generation and verification of session tokens using HS256.
//
// The secret is a single process-wide configuration value. There is no
// fallback: [NewTokenService] refuses to construct with a missing or short
// secret, so a misconfigured deployment fails at startup instead of running
// with a known-weak key.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the configured signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("sec: session secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// IssueSessionToken creates a new signed session token for a user.
func (service *TokenService) IssueSessionToken(userID, email, username string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:   userID,
		Email:    email,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifySessionToken checks the signature and validity of a session token string.
//
// # Returns
//   - The embedded [*SessionClaims] when the token is authentic and unexpired.
//   - [ErrTokenExpired] when the signature is valid but the expiry has passed.
//   - [ErrTokenInvalid] for everything else (malformed, re-signed, wrong alg).
//
// Claims are never partially trusted: a failed verification returns no claims.
func (service *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
