// Package countdown implements the presentational timer shown on a pending
// order card. It counts down from a fixed window and holds at zero; it
// never drives the order's actual status.
package countdown

import (
	"time"

	"github.com/angolife/engage/internal/clock"
)

// Timer derives the seconds left from the start instant on every read, so
// it needs no background goroutine and one tick per second falls out of
// wall-clock arithmetic.
type Timer struct {
	start clock.Clock
	began time.Time
	total int
}

// New starts a timer of total seconds at c.Now().
func New(c clock.Clock, total int) *Timer {
	if total < 0 {
		total = 0
	}
	return &Timer{start: c, began: c.Now(), total: total}
}

// Remaining returns the whole seconds left, clamped to zero.
func (t *Timer) Remaining() int {
	elapsed := int(t.start.Now().Sub(t.began) / time.Second)
	if elapsed >= t.total {
		return 0
	}
	return t.total - elapsed
}

// Done reports whether the countdown has reached zero.
func (t *Timer) Done() bool {
	return t.Remaining() == 0
}
