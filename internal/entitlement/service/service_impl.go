package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/entitlement/domain"
	"github.com/angolife/engage/internal/inflight"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// consumeGuardTTL bounds how long one consumption action can hold the
// in-flight lock before a crashed caller stops blocking retries.
const consumeGuardTTL = 30 * time.Second

type svc struct {
	db    *gorm.DB
	repo  domain.Repository
	guard *inflight.Guard
	clock clock.Clock
	genID *snowflake.Node
	log   *zap.Logger
}

func New(db *gorm.DB, repo domain.Repository, guard *inflight.Guard, c clock.Clock, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &svc{db: db, repo: repo, guard: guard, clock: c, genID: genID, log: log}
}

func (s *svc) Resolve(ctx context.Context, userID string) (domain.Decision, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Decision{}, domain.ErrInvalidUser
	}

	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.Decision{}, err
	}
	if profile == nil {
		return domain.Decision{Granted: false, Basis: domain.BasisNone}, nil
	}

	balance := profile.CreditBalance
	if balance < 0 {
		// Corrupted external data reads as no credit, never as access.
		balance = 0
	}

	if s.subscriptionValid(profile) {
		return domain.Decision{Granted: true, Basis: domain.BasisSubscription, CreditBalance: balance}, nil
	}
	if balance > 0 {
		return domain.Decision{Granted: true, Basis: domain.BasisCredit, CreditBalance: balance}, nil
	}
	return domain.Decision{Granted: false, Basis: domain.BasisNone, CreditBalance: balance}, nil
}

func (s *svc) ConsumeCredit(ctx context.Context, userID, actionID string) (int, error) {
	userID = strings.TrimSpace(userID)
	actionID = strings.TrimSpace(actionID)
	if userID == "" {
		return 0, domain.ErrInvalidUser
	}
	if actionID == "" {
		return 0, domain.ErrInvalidAction
	}

	token, err := s.guard.Acquire(ctx, actionID, consumeGuardTTL)
	if errors.Is(err, inflight.ErrAlreadyInFlight) {
		return 0, domain.ErrConsumeInFlight
	}
	if err != nil {
		// The guard lives in redis; without it we still consume, the lock
		// is an extra safety net rather than a correctness dependency
		// because the decrement itself is a conditional update.
		s.log.Warn("consume guard unavailable", zap.Error(err))
	} else {
		defer func() { _ = s.guard.Release(ctx, actionID, token) }()
	}

	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, domain.ErrNotFound
	}
	if s.subscriptionValid(profile) {
		// Unlimited use: consuming a credit here would be a caller bug.
		return 0, domain.ErrNotConsumable
	}

	ok, err := s.repo.DecrementCredit(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, domain.ErrNoCredit
	}

	updated, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}
	remaining := 0
	if updated != nil && updated.CreditBalance > 0 {
		remaining = updated.CreditBalance
	}
	s.log.Info("credit consumed",
		zap.String("user_id", userID),
		zap.String("action_id", actionID),
		zap.Int("remaining", remaining),
	)
	return remaining, nil
}

func (s *svc) GrantCredits(ctx context.Context, userID string, credits int) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, domain.ErrInvalidUser
	}
	if credits <= 0 {
		return 0, domain.ErrInvalidCredits
	}

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := s.repo.AddCredits(ctx, s.db, userID, credits); err != nil {
		return 0, err
	}
	return profile.CreditBalance + credits, nil
}

func (s *svc) ExtendPremium(ctx context.Context, userID string, d time.Duration) (time.Time, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return time.Time{}, domain.ErrInvalidUser
	}
	if d <= 0 {
		return time.Time{}, domain.ErrInvalidDuration
	}

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return time.Time{}, err
	}

	base := s.clock.Now()
	if profile.PremiumExpiry != nil && profile.PremiumExpiry.After(base) {
		base = *profile.PremiumExpiry
	}
	expiry := base.Add(d)
	if err := s.repo.SetPremiumExpiry(ctx, s.db, userID, expiry); err != nil {
		return time.Time{}, err
	}
	return expiry, nil
}

func (s *svc) subscriptionValid(p *domain.UserProfile) bool {
	return p.PremiumExpiry != nil && p.PremiumExpiry.After(s.clock.Now())
}

func (s *svc) ensureProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}
	profile = &domain.UserProfile{
		ID:        s.genID.Generate(),
		UserID:    userID,
		CreatedAt: s.clock.Now(),
		UpdatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
