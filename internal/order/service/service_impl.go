package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/angolife/engage/internal/clock"
	"github.com/angolife/engage/internal/order/bus"
	"github.com/angolife/engage/internal/order/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	watchBackoffInitial = time.Second
	watchBackoffMax     = 30 * time.Second
)

type svc struct {
	db    *gorm.DB
	repo  domain.Repository
	bus   bus.Bus
	clock clock.Clock
	genID *snowflake.Node
	log   *zap.Logger
}

func New(db *gorm.DB, repo domain.Repository, b bus.Bus, c clock.Clock, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &svc{db: db, repo: repo, bus: b, clock: c, genID: genID, log: log}
}

func (s *svc) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	if req.AmountIn <= 0 || req.ExchangeRate <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	currencyIn := strings.ToUpper(strings.TrimSpace(req.CurrencyIn))
	currencyOut := strings.ToUpper(strings.TrimSpace(req.CurrencyOut))
	if len(currencyIn) != 3 || len(currencyOut) != 3 || currencyIn == currencyOut {
		return nil, domain.ErrInvalidCurrency
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:           s.genID.Generate(),
		Reference:    ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:       userID,
		AmountIn:     req.AmountIn,
		CurrencyIn:   currencyIn,
		AmountOut:    req.AmountIn * req.ExchangeRate,
		CurrencyOut:  currencyOut,
		ExchangeRate: req.ExchangeRate,
		Status:       domain.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, order); err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("reference", order.Reference),
		zap.String("user_id", userID),
	)
	return order, nil
}

func (s *svc) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *svc) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, s.db, order.ID, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.UpdatedAt = s.clock.Now()

	change := domain.StatusChange{
		OrderID:    order.ID,
		Reference:  order.Reference,
		Status:     status,
		OccurredAt: order.UpdatedAt,
	}
	if err := s.bus.Publish(ctx, change); err != nil {
		// The row is already updated; watchers catch up on resubscribe or
		// a fresh GET.
		s.log.Warn("failed to publish status change",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	return order, nil
}

func (s *svc) Watch(ctx context.Context, id string) (<-chan domain.StatusChange, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.StatusChange, 8)

	// Watchers first see the current status, then live changes.
	out <- domain.StatusChange{
		OrderID:    order.ID,
		Reference:  order.Reference,
		Status:     order.Status,
		OccurredAt: order.UpdatedAt,
	}
	if order.Status == domain.StatusCompleted {
		close(out)
		return out, nil
	}

	// Subscribe before returning so no change between Watch and the first
	// read is lost.
	changes, stop, err := s.bus.Subscribe(ctx, order.ID)
	go s.watchLoop(ctx, order.ID, changes, stop, err, out)
	return out, nil
}

func (s *svc) watchLoop(ctx context.Context, orderID snowflake.ID, changes <-chan domain.StatusChange, stop func(), subErr error, out chan<- domain.StatusChange) {
	defer close(out)

	backoff := watchBackoffInitial
	for {
		if subErr != nil {
			s.log.Warn("status subscription failed, backing off",
				zap.String("order_id", orderID.String()),
				zap.Duration("backoff", backoff),
				zap.Error(subErr),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			if backoff *= 2; backoff > watchBackoffMax {
				backoff = watchBackoffMax
			}
		} else {
			backoff = watchBackoffInitial
			if s.forward(ctx, changes, stop, out) {
				return
			}
			// Subscription dropped mid-stream: resubscribe.
		}
		changes, stop, subErr = s.bus.Subscribe(ctx, orderID)
	}
}

// forward relays changes until the stream ends. It returns true when the
// watch is finished (ctx done or order completed), false to resubscribe.
func (s *svc) forward(ctx context.Context, changes <-chan domain.StatusChange, stop func(), out chan<- domain.StatusChange) bool {
	defer stop()
	for {
		select {
		case <-ctx.Done():
			return true
		case change, ok := <-changes:
			if !ok {
				return false
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return true
			}
			if change.Status == domain.StatusCompleted {
				return true
			}
		}
	}
}
