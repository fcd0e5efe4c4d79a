package store

import (
	"context"

	"github.com/angolife/engage/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Persistent survives application restarts.
type Persistent struct{ Store }

// Session lives only as long as the running instance.
type Session struct{ Store }

func NewRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				// Gating degrades to defaults without the persistent
				// store, so an unreachable redis is not fatal.
				log.Warn("redis unreachable, gating state will not persist", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewPersistent(client *redis.Client) Persistent {
	return Persistent{Store: NewRedis(client, "engage")}
}

func NewSession() Session {
	return Session{Store: NewMemory()}
}

// Module wires the persistent (redis) and session (in-memory) stores.
var Module = fx.Module("store",
	fx.Provide(
		NewRedisClient,
		NewPersistent,
		NewSession,
	),
)
