// Package timewindow provides a value type for time-bounded validity checks
// shared by the ad cooldown gate and the reward token.
package timewindow

import "time"

// Window is a span of time starting at Start and lasting Length.
type Window struct {
	Start  time.Time
	Length time.Duration
}

func New(start time.Time, length time.Duration) Window {
	return Window{Start: start, Length: length}
}

// Active reports whether now falls inside the window. The start instant is
// inclusive, the end instant exclusive.
func (w Window) Active(now time.Time) bool {
	if w.Start.IsZero() {
		return false
	}
	if now.Before(w.Start) {
		return false
	}
	return now.Sub(w.Start) < w.Length
}

// Expired reports whether now is strictly past the end of the window. At
// the exact end instant the window is no longer Active but not yet
// Expired; callers pick the check whose boundary they need.
func (w Window) Expired(now time.Time) bool {
	if w.Start.IsZero() {
		return true
	}
	return now.Sub(w.Start) > w.Length
}

// Remaining returns the time left until the window ends, clamped to zero.
func (w Window) Remaining(now time.Time) time.Duration {
	if w.Start.IsZero() {
		return 0
	}
	left := w.Length - now.Sub(w.Start)
	if left < 0 {
		return 0
	}
	return left
}
