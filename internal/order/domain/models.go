// Package domain contains the exchange-order model and its lifecycle. The
// status is driven by an operator; this service observes and publishes it,
// it never auto-transitions an order.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the lifecycle stage of an exchange order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSent, StatusCompleted:
		return true
	}
	return false
}

// rank orders statuses for forward-only transitions.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusProcessing:
		return 1
	case StatusSent:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

// CanTransitionTo allows only forward moves through the lifecycle.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() > s.rank()
}

// Order is a currency-exchange order.
type Order struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Reference    string       `gorm:"type:text;not null;uniqueIndex"`
	UserID       string       `gorm:"type:text;not null;index"`
	AmountIn     float64      `gorm:"not null"`
	CurrencyIn   string       `gorm:"type:text;not null"`
	AmountOut    float64      `gorm:"not null"`
	CurrencyOut  string       `gorm:"type:text;not null"`
	ExchangeRate float64      `gorm:"not null"`
	Status       Status       `gorm:"type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "exchange_orders" }

// StatusChange is one observed transition, delivered to watchers.
type StatusChange struct {
	OrderID    snowflake.ID `json:"order_id"`
	Reference  string       `json:"reference"`
	Status     Status       `json:"status"`
	OccurredAt time.Time    `json:"occurred_at"`
}
