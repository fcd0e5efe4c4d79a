package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("profile_not_found")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidAction    = errors.New("invalid_action")
	ErrNoCredit         = errors.New("no_credit")
	ErrNotConsumable    = errors.New("not_consumable")
	ErrConsumeInFlight  = errors.New("consume_in_flight")
	ErrInvalidCredits   = errors.New("invalid_credits")
	ErrInvalidDuration  = errors.New("invalid_duration")
)

type Service interface {
	// Resolve decides access with no side effects. Subscription first: a
	// valid subscription grants without touching credits; otherwise a
	// positive balance grants on credit; otherwise no access.
	Resolve(ctx context.Context, userID string) (Decision, error)
	// ConsumeCredit decrements the balance by one for a credit-based
	// grant. actionID identifies the consumption event; repeating the same
	// actionID while it is in flight does not decrement twice.
	ConsumeCredit(ctx context.Context, userID, actionID string) (remaining int, err error)
	// GrantCredits adds purchased credits to the balance.
	GrantCredits(ctx context.Context, userID string, credits int) (balance int, err error)
	// ExtendPremium moves the subscription expiry forward by d, from the
	// current expiry when still valid or from now when lapsed.
	ExtendPremium(ctx context.Context, userID string, d time.Duration) (expiry time.Time, err error)
}
