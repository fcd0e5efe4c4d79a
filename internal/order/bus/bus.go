// Package bus carries order status changes from the operator's write to
// any open watch streams.
package bus

import (
	"context"

	"github.com/angolife/engage/internal/order/domain"
	"github.com/bwmarrin/snowflake"
)

type Bus interface {
	Publish(ctx context.Context, change domain.StatusChange) error
	// Subscribe opens a stream of changes for one order. The returned stop
	// function tears the subscription down; the channel closes on
	// subscription failure, which watchers treat as a signal to
	// resubscribe.
	Subscribe(ctx context.Context, orderID snowflake.ID) (<-chan domain.StatusChange, func(), error)
}
