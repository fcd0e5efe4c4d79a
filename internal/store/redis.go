package store

import (
	"context"
	"errors"

	redis "github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a redis instance. Keys are namespaced with a
// fixed prefix so gating state can share a database with other concerns.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	if r == nil || r.client == nil {
		return "", false, errors.New("redis store not configured")
	}
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if r == nil || r.client == nil {
		return errors.New("redis store not configured")
	}
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if r == nil || r.client == nil {
		return errors.New("redis store not configured")
	}
	return r.client.Del(ctx, r.key(key)).Err()
}
