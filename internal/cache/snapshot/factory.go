package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/Ondalf/spothinta/internal/infrastructure/logging"
)

// Backend names accepted by the factory.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds snapshot store configuration options.
type Config struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewFromConfig creates a snapshot store for the configured backend. The
// Redis backend is pinged before use so a misconfigured address fails at
// startup instead of on the first save.
func NewFromConfig(cfg Config) (Store, error) {
	ctx := context.Background()

	switch cfg.Backend {
	case BackendMemory, "":
		logging.Info(ctx, "Creating memory snapshot store", logging.Fields{
			"backend": BackendMemory,
		})
		return NewMemoryStore(), nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis snapshot store", logging.Fields{
			"backend":  BackendRedis,
			"addr":     cfg.RedisAddr,
			"database": cfg.RedisDB,
		})
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported snapshot backend: %s", cfg.Backend)
	}
}
