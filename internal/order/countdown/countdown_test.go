package countdown

import (
	"testing"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestCountdownTicksDownAndHoldsAtZero(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	timer := New(fc, 900)

	assert.Equal(t, 900, timer.Remaining())
	assert.False(t, timer.Done())

	for i := 0; i < 900; i++ {
		fc.Advance(time.Second)
	}
	assert.Equal(t, 0, timer.Remaining())
	assert.True(t, timer.Done())

	// Holds at zero, never negative.
	fc.Advance(time.Hour)
	assert.Equal(t, 0, timer.Remaining())
}

func TestCountdownPartialElapse(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	timer := New(fc, 900)

	fc.Advance(5 * time.Minute)
	assert.Equal(t, 600, timer.Remaining())
}

func TestNegativeTotalClampsToZero(t *testing.T) {
	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	timer := New(fc, -10)

	assert.Equal(t, 0, timer.Remaining())
	assert.True(t, timer.Done())
}
