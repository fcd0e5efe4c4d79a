package service

import (
	"context"
	"testing"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/order/bus"
	"github.com/angolife/engage/internal/order/domain"
	"github.com/angolife/engage/internal/order/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *bus.Memory, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := bus.NewMemory()
	svc := New(db, repository.Provide(), b, fc, node, zap.NewNop())
	return svc, b, fc
}

func TestCreateOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, domain.CreateRequest{
		UserID:       "u1",
		AmountIn:     100,
		CurrencyIn:   "usd",
		CurrencyOut:  "aoa",
		ExchangeRate: 825.5,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "USD", order.CurrencyIn)
	assert.Equal(t, "AOA", order.CurrencyOut)
	assert.InDelta(t, 82550.0, order.AmountOut, 0.001)
	assert.NotEmpty(t, order.Reference)

	got, err := svc.GetByID(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.Reference, got.Reference)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{AmountIn: 100, CurrencyIn: "USD", CurrencyOut: "AOA", ExchangeRate: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)

	_, err = svc.Create(ctx, domain.CreateRequest{UserID: "u1", AmountIn: 0, CurrencyIn: "USD", CurrencyOut: "AOA", ExchangeRate: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Create(ctx, domain.CreateRequest{UserID: "u1", AmountIn: 10, CurrencyIn: "USD", CurrencyOut: "USD", ExchangeRate: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestStatusTransitionsForwardOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, domain.CreateRequest{
		UserID: "u1", AmountIn: 10, CurrencyIn: "USD", CurrencyOut: "AOA", ExchangeRate: 800,
	})
	require.NoError(t, err)
	id := order.ID.String()

	updated, err := svc.UpdateStatus(ctx, id, domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	_, err = svc.UpdateStatus(ctx, id, domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, id, domain.StatusProcessing)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, id, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestWatchDeliversSnapshotThenChanges(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	order, err := svc.Create(ctx, domain.CreateRequest{
		UserID: "u1", AmountIn: 10, CurrencyIn: "USD", CurrencyOut: "AOA", ExchangeRate: 800,
	})
	require.NoError(t, err)

	changes, err := svc.Watch(ctx, order.ID.String())
	require.NoError(t, err)

	first := <-changes
	assert.Equal(t, domain.StatusPending, first.Status)

	_, err = svc.UpdateStatus(ctx, order.ID.String(), domain.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, (<-changes).Status)

	_, err = svc.UpdateStatus(ctx, order.ID.String(), domain.StatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, (<-changes).Status)

	// completed ends the stream.
	_, err = svc.UpdateStatus(ctx, order.ID.String(), domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, (<-changes).Status)

	_, open := <-changes
	assert.False(t, open)
}

func TestWatchUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Watch(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
