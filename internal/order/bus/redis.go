package bus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/angolife/engage/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis publishes status changes on a per-order pub/sub channel.
type Redis struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedis(client *redis.Client, log *zap.Logger) *Redis {
	return &Redis{client: client, log: log}
}

func channelName(orderID snowflake.ID) string {
	return "orders:status:" + orderID.String()
}

func (b *Redis) Publish(ctx context.Context, change domain.StatusChange) error {
	if b == nil || b.client == nil {
		return errors.New("bus client not configured")
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelName(change.OrderID), payload).Err()
}

func (b *Redis) Subscribe(ctx context.Context, orderID snowflake.ID) (<-chan domain.StatusChange, func(), error) {
	if b == nil || b.client == nil {
		return nil, nil, errors.New("bus client not configured")
	}

	sub := b.client.Subscribe(ctx, channelName(orderID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan domain.StatusChange)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var change domain.StatusChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				b.log.Warn("dropping malformed status change", zap.Error(err))
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() { _ = sub.Close() }
	return out, stop, nil
}
