package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*UserProfile, error)
	Create(ctx context.Context, db *gorm.DB, profile *UserProfile) error
	// DecrementCredit subtracts one credit iff the balance is positive and
	// reports whether a row was updated. The conditional update is what
	// keeps the balance from ever going negative.
	DecrementCredit(ctx context.Context, db *gorm.DB, userID string) (bool, error)
	AddCredits(ctx context.Context, db *gorm.DB, userID string, credits int) error
	SetPremiumExpiry(ctx context.Context, db *gorm.DB, userID string, expiry time.Time) error
}
