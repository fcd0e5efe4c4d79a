package bus

import (
	"context"
	"sync"

	"github.com/angolife/engage/internal/order/domain"
	"github.com/bwmarrin/snowflake"
)

// Memory is an in-process Bus for tests and single-node setups.
type Memory struct {
	mu   sync.Mutex
	subs map[snowflake.ID][]chan domain.StatusChange
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[snowflake.ID][]chan domain.StatusChange)}
}

func (b *Memory) Publish(_ context.Context, change domain.StatusChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[change.OrderID] {
		select {
		case ch <- change:
		default:
			// Slow watcher: drop rather than block the operator's write.
		}
	}
	return nil
}

func (b *Memory) Subscribe(_ context.Context, orderID snowflake.ID) (<-chan domain.StatusChange, func(), error) {
	ch := make(chan domain.StatusChange, 8)

	b.mu.Lock()
	b.subs[orderID] = append(b.subs[orderID], ch)
	b.mu.Unlock()

	stop := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		current := b.subs[orderID]
		for i, c := range current {
			if c == ch {
				b.subs[orderID] = append(current[:i], current[i+1:]...)
				return
			}
		}
	}
	return ch, stop, nil
}
