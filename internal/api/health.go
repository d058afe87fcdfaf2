// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lucasferraz/cinevault/internal/platform/constants"
	"github.com/lucasferraz/cinevault/internal/platform/postgres"
	"github.com/lucasferraz/cinevault/internal/platform/redis"
	"github.com/lucasferraz/cinevault/internal/platform/respond"
)

// HealthHandler serves the orchestrator probes.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *goredis.Client
}

// NewHealthHandler creates the health probe handler.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *goredis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Liveness reports that the process is up. It checks no dependencies:
// a broken database must not make the orchestrator restart-loop the API.
func (handler *HealthHandler) Liveness(writer http.ResponseWriter, request *http.Request) {
	respond.JSON(writer, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: constants.AppVersion,
	})
}

// Readiness reports whether the process can serve traffic, checking both
// storage dependencies. Any failure yields 503 so the load balancer drains
// this instance.
func (handler *HealthHandler) Readiness(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	healthy := true

	if err := postgres.Ping(ctx, handler.pool); err != nil {
		checks["postgres"] = "unreachable"
		healthy = false
	}

	if err := redis.Ping(ctx, handler.redis); err != nil {
		checks["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	statusText := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		statusText = "degraded"
	}

	respond.JSON(writer, status, healthResponse{
		Status:  statusText,
		Version: constants.AppVersion,
		Checks:  checks,
	})
}
