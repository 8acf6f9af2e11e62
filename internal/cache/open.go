package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Open returns the store for backend. A redis backend that cannot be reached
// falls back to memory so extraction keeps working.
func Open(ctx context.Context, backend, redisURL string, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch backend {
	case "", BackendMemory:
		return NewExpiringMap(time.Minute), nil
	case BackendRedis:
		store, err := NewRedisStore(ctx, redisURL)
		if err != nil {
			log.Warn("redis extraction cache unavailable, using in-memory cache", zap.Error(err))
			return NewExpiringMap(time.Minute), nil
		}
		log.Info("using redis extraction cache")
		return store, nil
	}
	return nil, fmt.Errorf("unknown extraction cache backend %q", backend)
}
