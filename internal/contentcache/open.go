package contentcache

import (
	"context"
	"fmt"
	"time"

	"easyblog/internal/config"
)

const redisPingTimeout = 3 * time.Second

// Open returns the store selected by cfg.CacheBackend, or nil for "none".
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendNone, "":
		return nil, nil
	case config.CacheBackendMemory:
		store, err := NewMemoryStore()
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendRedis:
		store, err := NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
