// Package inflight provides a short-lived distributed lock keyed by a
// consumption action, closing the read-then-write race between "check
// entitlement" and "decrement credit" when one action fires twice.
package inflight

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrAlreadyInFlight = errors.New("action already in flight")

// Guard acquires a per-action lock with a TTL. Acquire returns a release
// token; only the holder of the token can release early, otherwise the TTL
// expires the lock.
type Guard struct {
	client *redis.Client
	script *redis.Script
}

func NewGuard(client *redis.Client) *Guard {
	if client == nil {
		return nil
	}
	return &Guard{
		client: client,
		script: redis.NewScript(releaseScript),
	}
}

func (g *Guard) Acquire(ctx context.Context, actionID string, ttl time.Duration) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("guard client not configured")
	}
	if actionID == "" {
		return "", errors.New("action id is empty")
	}
	if ttl <= 0 {
		return "", errors.New("guard ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, "inflight:"+actionID, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAlreadyInFlight
	}
	return token, nil
}

func (g *Guard) Release(ctx context.Context, actionID, token string) error {
	if g == nil || g.client == nil {
		return nil
	}
	if actionID == "" || token == "" {
		return nil
	}
	return g.script.Run(ctx, g.client, []string{"inflight:" + actionID}, token).Err()
}
