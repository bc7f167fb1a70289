package idempotency

import (
	"context"

	"go.uber.org/zap"
)

// NewStore picks Redis when an address is configured and falls back to memory
// when it is absent or unreachable.
func NewStore(ctx context.Context, cfg RedisConfig, log *zap.Logger) Store {
	if cfg.Addr == "" {
		log.Info("REDIS_ADDR not set, using in-memory idempotency store")
		return NewMemoryStore(0)
	}

	store, err := NewRedisStore(ctx, cfg)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
			"Replays are not shared between instances.",
			zap.String("addr", cfg.Addr),
			zap.Error(err),
		)
		return NewMemoryStore(0)
	}

	log.Info("using Redis idempotency store", zap.String("addr", cfg.Addr))
	return store
}
