package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/ports"
)

// OpenStore builds the RunStore selected by cfg.
// It returns a nil store for the "none" kind; the closer is never nil.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.RunStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Kind {
	case config.StoreNone:
		return nil, noop, nil
	case config.StoreMemory, "":
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.Path), noop, nil
	case config.StoreRedis:
		opts := []redis.Option{redis.WithTTL(cfg.TTL)}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Kind)
}
