// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package api assembles the HTTP surface of the Cinevault server.

It owns router construction, the middleware chain, and the split between
the two authentication route families:

  - Bearer family (/api/v1/catalog, /api/v1/library): the session token
    travels in the Authorization header. Cookies are never consulted.
  - Cookie family (/api/v1/auth/session, /api/v1/auth/logout): the session
    token travels in the auth cookie. The header is never consulted.

Each family wires exactly one token extractor, so no route is ambiguous
about where its credential comes from.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lucasferraz/cinevault/internal/auth"
	"github.com/lucasferraz/cinevault/internal/catalog"
	"github.com/lucasferraz/cinevault/internal/library"
	"github.com/lucasferraz/cinevault/internal/platform/config"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
	"github.com/lucasferraz/cinevault/internal/platform/middleware"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
)

// Dependencies carries everything the router assembly needs.
type Dependencies struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Redis   *goredis.Client
	Tokens  *sec.TokenService
	Auth    *auth.Handler
	Users   *auth.PostgresUserRepository
	Catalog *catalog.Handler
	Library *library.Handler
}

// NewRouter builds the full HTTP handler tree.
func NewRouter(ctx context.Context, deps Dependencies) http.Handler {
	router := chi.NewRouter()

	// ── 1. Cross-cutting chain (order matters) ──
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(deps.Logger))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(ctx))
	router.Use(middleware.PanicRecovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config))
	router.Use(chimw.CleanPath)

	// ── 2. Health probes (no auth, no rate-limit exemption needed) ──
	health := NewHealthHandler(deps.Pool, deps.Redis)
	router.Get("/healthz", health.Liveness)
	router.Get("/readyz", health.Readiness)

	// ── 3. Route families ──
	bearerGate := middleware.Authenticate(deps.Tokens, deps.Users, middleware.TokenFromBearer)
	cookieGate := middleware.AuthenticateCookie(deps.Tokens, deps.Users)

	router.Route("/api/v1", func(apiRouter chi.Router) {
		apiRouter.Mount("/auth", deps.Auth.Routes(cookieGate))

		apiRouter.Group(func(protected chi.Router) {
			protected.Use(bearerGate)
			protected.Use(middleware.RequireAuth)
			protected.Mount("/catalog", deps.Catalog.Routes())
			protected.Mount("/library", deps.Library.Routes())
		})
	})

	return router
}

// NewServer wraps the router in an http.Server with production timeouts.
func NewServer(handler http.Handler, port string) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       constants.DefaultReadTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
	}
}
