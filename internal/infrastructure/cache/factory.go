package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/config"
)

// NewIdempotencyStore returns a Redis store when Redis is enabled and
// reachable, and an in-memory store otherwise.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		log.Info("Using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0)
	}

	store, err := NewRedisIdempotencyStore(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
			"Retries may be applied twice when several instances run.",
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(0)
	}
	log.Info("Using Redis idempotency store", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	return store
}
