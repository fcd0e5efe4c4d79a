package repository

import (
	"context"
	"errors"
	"time"

	"github.com/angolife/engage/internal/entitlement/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, profile *domain.UserProfile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *repo) DecrementCredit(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE user_profiles
		 SET credit_balance = credit_balance - 1, updated_at = ?
		 WHERE user_id = ? AND credit_balance > 0`,
		time.Now().UTC(),
		userID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) AddCredits(ctx context.Context, db *gorm.DB, userID string, credits int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE user_profiles
		 SET credit_balance = credit_balance + ?, updated_at = ?
		 WHERE user_id = ?`,
		credits,
		time.Now().UTC(),
		userID,
	).Error
}

func (r *repo) SetPremiumExpiry(ctx context.Context, db *gorm.DB, userID string, expiry time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE user_profiles
		 SET premium_expiry = ?, updated_at = ?
		 WHERE user_id = ?`,
		expiry,
		time.Now().UTC(),
		userID,
	).Error
}
