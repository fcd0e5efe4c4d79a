package service

import (
	"context"
	"testing"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/entitlement/domain"
	"github.com/angolife/engage/internal/entitlement/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.UserProfile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := New(db, repository.Provide(), nil, fc, node, zap.NewNop())
	return svc, db, fc
}

func seedProfile(t *testing.T, db *gorm.DB, userID string, expiry *time.Time, credits int) {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.UserProfile{
		ID:            node.Generate(),
		UserID:        userID,
		PremiumExpiry: expiry,
		CreditBalance: credits,
	}).Error)
}

func TestResolveSubscriptionFirst(t *testing.T) {
	svc, db, fc := newTestService(t)
	ctx := context.Background()

	expiry := fc.Now().Add(24 * time.Hour)
	seedProfile(t, db, "u1", &expiry, 0)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, domain.BasisSubscription, d.Basis)
}

func TestResolveSubscriptionBeatsCredits(t *testing.T) {
	svc, db, fc := newTestService(t)
	ctx := context.Background()

	expiry := fc.Now().Add(24 * time.Hour)
	seedProfile(t, db, "u1", &expiry, 5)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.BasisSubscription, d.Basis)
	assert.Equal(t, 5, d.CreditBalance)

	// A valid subscription never consumes.
	_, err = svc.ConsumeCredit(ctx, "u1", "a1")
	assert.ErrorIs(t, err, domain.ErrNotConsumable)

	d, _ = svc.Resolve(ctx, "u1")
	assert.Equal(t, 5, d.CreditBalance)
}

func TestResolveExpiredSubscriptionFallsBackToCredits(t *testing.T) {
	svc, db, fc := newTestService(t)
	ctx := context.Background()

	expiry := fc.Now().Add(-24 * time.Hour)
	seedProfile(t, db, "u1", &expiry, 2)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, domain.BasisCredit, d.Basis)

	remaining, err := svc.ConsumeCredit(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestResolveNothing(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedProfile(t, db, "u1", nil, 0)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, domain.BasisNone, d.Basis)

	// Unknown user resolves to none rather than an error.
	d, err = svc.Resolve(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, d.Granted)
}

func TestResolveIsIdempotent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedProfile(t, db, "u1", nil, 3)

	for i := 0; i < 5; i++ {
		d, err := svc.Resolve(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, d.CreditBalance)
	}
}

func TestNegativeBalanceReadsAsNoCredit(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedProfile(t, db, "u1", nil, 0)
	require.NoError(t, db.Exec(`UPDATE user_profiles SET credit_balance = -3 WHERE user_id = ?`, "u1").Error)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, domain.BasisNone, d.Basis)
	assert.Equal(t, 0, d.CreditBalance)
}

func TestConsumeNeverGoesNegative(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	seedProfile(t, db, "u1", nil, 1)

	remaining, err := svc.ConsumeCredit(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = svc.ConsumeCredit(ctx, "u1", "a2")
	assert.ErrorIs(t, err, domain.ErrNoCredit)

	var balance int
	require.NoError(t, db.Raw(`SELECT credit_balance FROM user_profiles WHERE user_id = ?`, "u1").Scan(&balance).Error)
	assert.Equal(t, 0, balance)
}

func TestGrantCreditsAndExtendPremium(t *testing.T) {
	svc, _, fc := newTestService(t)
	ctx := context.Background()

	balance, err := svc.GrantCredits(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, balance)

	expiry, err := svc.ExtendPremium(ctx, "u1", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fc.Now().Add(30*24*time.Hour), expiry)

	// Extending again stacks on the current expiry, not on now.
	expiry, err = svc.ExtendPremium(ctx, "u1", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fc.Now().Add(60*24*time.Hour), expiry)

	d, err := svc.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.BasisSubscription, d.Basis)
}

func TestValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = svc.ConsumeCredit(ctx, "u1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	_, err = svc.GrantCredits(ctx, "u1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCredits)

	_, err = svc.ExtendPremium(ctx, "u1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}
