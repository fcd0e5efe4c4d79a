// Package adgate limits how often interruptive ads run and tracks rewarded
// ad completions. State lives in the injected persistent store; every read
// degrades to its safe default when the store is unavailable, so a storage
// outage shows the gate rather than granting unearned access.
package adgate

import (
	"context"
	"strconv"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/store"
	"github.com/angolife/engage/internal/timewindow"
	"go.uber.org/zap"
)

const keyLastInterstitial = "ads:last_interstitial"

// CooldownGate enforces a single global cooldown between interstitial
// displays. The cap is global, not per content domain: it bounds total
// interruption frequency regardless of which feature triggers it.
type CooldownGate struct {
	store  store.Persistent
	clock  clock.Clock
	window time.Duration
	log    *zap.Logger
}

func NewCooldownGate(s store.Persistent, c clock.Clock, window time.Duration, log *zap.Logger) *CooldownGate {
	return &CooldownGate{store: s, clock: c, window: window, log: log}
}

// CanShowInterstitial reports whether enough time has passed since the last
// display. Pure read, no side effect.
func (g *CooldownGate) CanShowInterstitial(ctx context.Context) bool {
	last, ok := g.lastShownAt(ctx)
	if !ok {
		return true
	}
	return timewindow.New(last, g.window).Expired(g.clock.Now())
}

// RecordShown sets the last-shown instant to now. Call exactly once per
// actual display, never speculatively.
func (g *CooldownGate) RecordShown(ctx context.Context) {
	now := g.clock.Now()
	if last, ok := g.lastShownAt(ctx); ok && last.After(now) {
		// lastShownAt is monotonically non-decreasing.
		return
	}
	if err := g.store.Set(ctx, keyLastInterstitial, formatTime(now)); err != nil {
		g.log.Warn("failed to record interstitial display", zap.Error(err))
	}
}

// TimeUntilNextAllowed returns how long until the next interstitial may be
// shown, zero if one may be shown now.
func (g *CooldownGate) TimeUntilNextAllowed(ctx context.Context) time.Duration {
	last, ok := g.lastShownAt(ctx)
	if !ok {
		return 0
	}
	return timewindow.New(last, g.window).Remaining(g.clock.Now())
}

func (g *CooldownGate) lastShownAt(ctx context.Context) (time.Time, bool) {
	raw, ok, err := g.store.Get(ctx, keyLastInterstitial)
	if err != nil {
		g.log.Warn("cooldown read failed, treating as never shown", zap.Error(err))
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	t, perr := parseTime(raw)
	if perr != nil {
		return time.Time{}, false
	}
	return t, true
}

func formatTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseTime(raw string) (time.Time, error) {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
