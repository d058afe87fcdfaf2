// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cinevault API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for volatile password-reset codes
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret signs session tokens. Startup fails if it is absent:
	// running with a known default secret would silently void all session
	// integrity guarantees.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Upstream catalog API (TMDB-compatible), proxied by internal/catalog.
	CatalogBaseURL string `env:"CATALOG_BASE_URL" envDefault:"https://api.themoviedb.org/3"`
	CatalogAPIKey  string `env:"CATALOG_API_KEY"`

	// Transactional email delivery. When the key is empty the mailer runs
	// in log-only mode (development).
	MailerAPIKey    string `env:"MAILER_API_KEY"`
	MailerFromEmail string `env:"MAILER_FROM_EMAIL" envDefault:"no-reply@cinevault.app"`
	MailerFromName  string `env:"MAILER_FROM_NAME"  envDefault:"Cinevault"`

	// PublicBaseURL is the externally reachable URL used in verification links.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
