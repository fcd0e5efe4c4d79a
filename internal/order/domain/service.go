package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("order_not_found")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidCurrency   = errors.New("invalid_currency")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
)

type CreateRequest struct {
	UserID       string  `json:"user_id"`
	AmountIn     float64 `json:"amount_in"`
	CurrencyIn   string  `json:"currency_in"`
	CurrencyOut  string  `json:"currency_out"`
	ExchangeRate float64 `json:"exchange_rate"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	// UpdateStatus is the operator entry point. Transitions are
	// forward-only; each accepted change is published to watchers.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	// Watch streams status changes for one order until ctx is done or the
	// order completes. Transient subscription failures are retried with
	// exponential backoff; the last known status stands in the meantime.
	Watch(ctx context.Context, id string) (<-chan StatusChange, error)
}
