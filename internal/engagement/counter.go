package engagement

import (
	"context"
	"strconv"

	"github.com/angolife/engage/internal/store"
)

// Counters tracks per-domain open counts in the session store. Counts only
// ever increase within a session; a fresh session starts every domain at
// zero.
type Counters struct {
	store store.Session
}

func NewCounters(s store.Session) *Counters {
	return &Counters{store: s}
}

func counterKey(domain string) string {
	return "engagement:" + domain + ":opens"
}

// Increment bumps the domain's open count and returns the new value. A
// session-store failure counts from zero, which can only make gating more
// lenient for this single open, never grant a paid feature.
func (c *Counters) Increment(ctx context.Context, domain string) int {
	count := c.Current(ctx, domain) + 1
	_ = c.store.Set(ctx, counterKey(domain), strconv.Itoa(count))
	return count
}

// Current returns the domain's open count without modifying it.
func (c *Counters) Current(ctx context.Context, domain string) int {
	raw, ok, err := c.store.Get(ctx, counterKey(domain))
	if err != nil || !ok {
		return 0
	}
	n, perr := strconv.Atoi(raw)
	if perr != nil || n < 0 {
		return 0
	}
	return n
}
