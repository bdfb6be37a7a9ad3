package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"muanapay/internal/config"
	mem "muanapay/pkg/memcache"
)

var Module = fx.Provide(provideMemcacheClient)

// provideMemcacheClient uses Redis when REDIS_URL is set so replicas share the
// completion cache, and a process-local store otherwise.
func provideMemcacheClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (mem.Store, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return mem.NewInMemoryStore(), nil
	}

	store, err := mem.NewRedisStore(cfg.RedisURL, "muanapay:")
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := store.Ping(pingCtx); err != nil {
				log.Warn("redis ping failed, cache calls will fail open", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
