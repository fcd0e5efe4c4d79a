package adgate

import (
	"context"
	"time"

	"github.com/angolife/engage/internal/adprovider"
	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/store"
	"github.com/angolife/engage/internal/timewindow"
	"go.uber.org/zap"
)

const (
	keyRewardCompleted = "ads:reward_completed"
	keyRewardTimestamp = "ads:reward_timestamp"
)

// Outcome of a rewarded-ad request.
type Outcome string

const (
	OutcomeGranted  Outcome = "granted"
	OutcomeDeclined Outcome = "declined"
)

// RewardToken tracks a rewarded-ad completion and its validity window. A
// completion unlocks gated content until the window lapses or the token is
// consumed, whichever comes first.
type RewardToken struct {
	store    store.Persistent
	clock    clock.Clock
	provider adprovider.Provider
	validity time.Duration
	log      *zap.Logger
}

func NewRewardToken(s store.Persistent, c clock.Clock, p adprovider.Provider, validity time.Duration, log *zap.Logger) *RewardToken {
	return &RewardToken{store: s, clock: c, provider: p, validity: validity, log: log}
}

// MarkCompleted records a completion at now, overwriting any prior record.
func (r *RewardToken) MarkCompleted(ctx context.Context) {
	now := r.clock.Now()
	if err := r.store.Set(ctx, keyRewardCompleted, "true"); err != nil {
		r.log.Warn("failed to mark reward completed", zap.Error(err))
		return
	}
	if err := r.store.Set(ctx, keyRewardTimestamp, formatTime(now)); err != nil {
		r.log.Warn("failed to record reward timestamp", zap.Error(err))
	}
}

// HasActiveReward reports whether a completion exists inside its validity
// window. Store failures read as no reward.
func (r *RewardToken) HasActiveReward(ctx context.Context) bool {
	completed, ok, err := r.store.Get(ctx, keyRewardCompleted)
	if err != nil || !ok || completed != "true" {
		return false
	}
	raw, ok, err := r.store.Get(ctx, keyRewardTimestamp)
	if err != nil || !ok {
		return false
	}
	at, perr := parseTime(raw)
	if perr != nil {
		return false
	}
	return timewindow.New(at, r.validity).Active(r.clock.Now())
}

// Reset clears the record. Call immediately after the reward is consumed so
// a single view cannot keep unlocking unrelated actions within its window.
func (r *RewardToken) Reset(ctx context.Context) {
	if err := r.store.Remove(ctx, keyRewardCompleted); err != nil {
		r.log.Warn("failed to clear reward flag", zap.Error(err))
	}
	if err := r.store.Remove(ctx, keyRewardTimestamp); err != nil {
		r.log.Warn("failed to clear reward timestamp", zap.Error(err))
	}
}

// RequestRewardedView runs the provider's rewarded flow and, on completion,
// marks the reward. It suspends until the provider reports an outcome;
// decline and provider failure both resolve to OutcomeDeclined.
func (r *RewardToken) RequestRewardedView(ctx context.Context) Outcome {
	completed, err := r.provider.ShowRewardedAd(ctx)
	if err != nil {
		r.log.Warn("rewarded ad failed", zap.Error(err))
		return OutcomeDeclined
	}
	if !completed {
		return OutcomeDeclined
	}
	r.MarkCompleted(ctx)
	return OutcomeGranted
}
