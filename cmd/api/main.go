// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

// Command api runs the Cinevault API server.
//
// Startup order is strict: configuration, storage, migrations, then the
// token service. A missing or short session secret aborts startup before
// the server binds, since running with a weak signing key is not an option.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucasferraz/cinevault/internal/api"
	"github.com/lucasferraz/cinevault/internal/auth"
	"github.com/lucasferraz/cinevault/internal/catalog"
	"github.com/lucasferraz/cinevault/internal/library"
	"github.com/lucasferraz/cinevault/internal/platform/config"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
	"github.com/lucasferraz/cinevault/internal/platform/mailer"
	"github.com/lucasferraz/cinevault/internal/platform/migration"
	"github.com/lucasferraz/cinevault/internal/platform/postgres"
	"github.com/lucasferraz/cinevault/internal/platform/redis"
	"github.com/lucasferraz/cinevault/internal/platform/sec"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Configuration ──
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)

	logger.Info("starting",
		slog.String("version", constants.AppVersion),
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// ── 2. Storage ──
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// ── 3. Schema migrations ──
	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger); err != nil {
		return err
	}

	// ── 4. Security (fails fast on a missing or short secret) ──
	tokenService, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	if err != nil {
		return err
	}

	// ── 5. Domain wiring ──
	mailClient := mailer.NewClient(cfg.MailerAPIKey, cfg.MailerFromEmail, cfg.MailerFromName, logger)
	if !mailClient.IsConfigured() {
		logger.Warn("mailer running in log-only mode")
	}

	userRepository := auth.NewPostgresUserRepository(pool)
	resetCodeRepository := auth.NewRedisResetCodeRepository(redisClient)
	authService := auth.NewService(userRepository, resetCodeRepository, tokenService, mailClient, cfg.PublicBaseURL)
	authHandler := auth.NewHandler(authService, !cfg.IsDevelopment())

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey)
	catalogHandler := catalog.NewHandler(catalogClient)

	libraryRepository := library.NewPostgresEntryRepository(pool)
	libraryService := library.NewService(libraryRepository)
	libraryHandler := library.NewHandler(libraryService)

	// ── 6. HTTP surface ──
	router := api.NewRouter(ctx, api.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Tokens:  tokenService,
		Auth:    authHandler,
		Users:   userRepository,
		Catalog: catalogHandler,
		Library: libraryHandler,
	})
	server := api.NewServer(router, cfg.ServerPort)

	// ── 7. Serve until signalled ──
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	// ── 8. Graceful shutdown ──
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
