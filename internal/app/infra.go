package app

import (
	"context"
	"fmt"

	"logviewer/internal/config"
	"logviewer/internal/logger"
	"logviewer/internal/redis"
	"logviewer/internal/session"
)

type Infra struct {
	Sessions session.Store
	Redis    *redis.Client
}

// setupInfra builds the configured session backend. The memory backend's
// sweeper lives as long as ctx.
func setupInfra(ctx context.Context, cfg *config.Config) (*Infra, error) {
	policy := session.Policy{
		MaxLifetime: cfg.SessionDuration,
		IdleTimeout: cfg.InactivityTimeout,
	}

	switch cfg.SessionStore {
	case config.StoreFile:
		logger.Info("session store ready", map[string]any{
			"backend": cfg.SessionStore,
			"dir":     cfg.SessionDir,
		})
		return &Infra{Sessions: session.NewFileStore(cfg.SessionDir, policy)}, nil

	case config.StoreMemory:
		store := session.NewMemoryStore(policy)
		go store.Run(ctx, cfg.SweepInterval)

		logger.Info("session store ready", map[string]any{
			"backend":        cfg.SessionStore,
			"sweep_interval": cfg.SweepInterval.String(),
		})
		return &Infra{Sessions: store}, nil

	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}

		logger.Info("redis ready", map[string]any{
			"addr": cfg.RedisAddr,
			"db":   cfg.RedisDB,
		})
		return &Infra{
			Sessions: session.NewRedisStore(client.Client, cfg.RedisPrefix, policy),
			Redis:    client,
		}, nil
	}

	return nil, fmt.Errorf("app: unknown session store %q", cfg.SessionStore)
}

func (i *Infra) Close() error {
	if i.Redis != nil {
		return i.Redis.Close()
	}
	return nil
}
