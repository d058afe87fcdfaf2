// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
	"github.com/lucasferraz/cinevault/internal/platform/ctxutil"
	"github.com/lucasferraz/cinevault/internal/platform/respond"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the gate from the concrete
// [sec.TokenService], allowing fakes to be injected during unit testing.
type TokenVerifier interface {
	VerifySessionToken(tokenStr string) (*sec.SessionClaims, error)
}

// IdentitySource confirms that a claimed account still exists.
//
// Session tokens are stateless, so claims alone are not proof the account
// is still live: a deleted account keeps a valid token until expiry. The
// gate spends one repository read to close that window.
type IdentitySource interface {
	ExistsByID(ctx context.Context, userID string) (bool, error)
}

// TokenExtractor pulls the raw session token out of an inbound request.
//
// Exactly one extractor is wired per route family: Bearer header for API
// calls, cookie for page navigation. A route family never consults both.
type TokenExtractor func(request *http.Request) (token string, present bool, err error)

// TokenFromBearer extracts the token from an 'Authorization: Bearer <token>' header.
//
// A missing header means anonymous; a present-but-malformed header is an error.
func TokenFromBearer(request *http.Request) (string, bool, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return "", false, nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", true, apperr.Unauthorized("Invalid authorization format")
	}

	return parts[1], true, nil
}

// TokenFromCookie extracts the token from the named session cookie.
func TokenFromCookie(name string) TokenExtractor {
	return func(request *http.Request) (string, bool, error) {
		cookie, err := request.Cookie(name)
		if err != nil || cookie.Value == "" {
			return "", false, nil
		}
		return cookie.Value, true, nil
	}
}

// Authenticate extracts and verifies the session token from the request.
//
// # Flow
//  1. Extract the token via the configured [TokenExtractor].
//  2. If absent, the request proceeds as anonymous ([RequireAuth] decides later).
//  3. If present, verify signature and expiry via [TokenVerifier].
//  4. Re-check that the claimed account still exists via [IdentitySource].
//  5. Inject [*sec.SessionClaims] into the request context for downstream use.
//
// Invalid, expired, and orphaned tokens all terminate with 401. The response
// never distinguishes why authentication failed.
func Authenticate(verifier TokenVerifier, identities IdentitySource, extract TokenExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Extraction ─────────────────────────────────────────────────
			tokenStr, present, err := extract(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifySessionToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Liveness Re-check ──────────────────────────────────────────
			if identities != nil {
				exists, err := identities.ExistsByID(request.Context(), claims.UserID)
				if err != nil {
					respond.Error(writer, request, err)
					return
				}
				if !exists {
					respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
					return
				}
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// AuthenticateCookie is [Authenticate] preconfigured for the session cookie
// route family.
func AuthenticateCookie(verifier TokenVerifier, identities IdentitySource) func(http.Handler) http.Handler {
	return Authenticate(verifier, identities, TokenFromCookie(constants.SessionCookieName))
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.SessionClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
