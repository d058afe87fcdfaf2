// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: lucas.ferraz.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucasferraz/cinevault/internal/platform/apperr"
	"github.com/lucasferraz/cinevault/internal/platform/constants"
)

// RedisResetCodeRepository implements [ResetCodeRepository] on Redis.
//
// # Why Redis here and not Postgres?
//
// Reset codes are pure ephemera: one code per user, one hour of life, gone on
// use. Redis expires them natively, so there is no cleanup job and no stale
// rows, and the SET overwrite gives last-issued-wins for free.
type RedisResetCodeRepository struct {
	client *redis.Client
}

// NewRedisResetCodeRepository creates a reset-code repository on the given client.
func NewRedisResetCodeRepository(client *redis.Client) *RedisResetCodeRepository {
	return &RedisResetCodeRepository{client: client}
}

// Set stores the code for a user with a TTL, replacing any previous code.
func (repository *RedisResetCodeRepository) Set(ctx context.Context, userID, code string, ttl time.Duration) error {
	err := repository.client.Set(ctx, repository.key(userID), code, ttl).Err()
	if err != nil {
		return apperr.Internal(fmt.Errorf("reset_code_store_set_failed: %w", err))
	}

	return nil
}

// Get returns the pending code for a user, or "" when none exists.
func (repository *RedisResetCodeRepository) Get(ctx context.Context, userID string) (string, error) {
	code, err := repository.client.Get(ctx, repository.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("reset_code_store_get_failed: %w", err))
	}

	return code, nil
}

// Delete removes the pending code. Missing keys are ignored.
func (repository *RedisResetCodeRepository) Delete(ctx context.Context, userID string) error {
	if err := repository.client.Del(ctx, repository.key(userID)).Err(); err != nil {
		return apperr.Internal(fmt.Errorf("reset_code_store_delete_failed: %w", err))
	}

	return nil
}

// key builds the namespaced Redis key for a user's reset code.
func (repository *RedisResetCodeRepository) key(userID string) string {
	return constants.RedisPrefixResetCode + userID
}

// compile-time interface conformance check
var _ ResetCodeRepository = (*RedisResetCodeRepository)(nil)
