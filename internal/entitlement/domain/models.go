// Package domain contains the entitlement model: a user's time-bounded
// premium subscription and consumable document-export credits.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UserProfile owns the entitlement state. PremiumExpiry is set or extended
// by a purchase; CreditBalance is granted by purchase and decremented by
// consumption.
type UserProfile struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	UserID        string       `gorm:"type:text;not null;uniqueIndex"`
	PremiumExpiry *time.Time   `gorm:""`
	CreditBalance int          `gorm:"not null;default:0"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (UserProfile) TableName() string { return "user_profiles" }

// Basis names which entitlement source satisfied a grant.
type Basis string

const (
	BasisSubscription Basis = "subscription"
	BasisCredit       Basis = "credit"
	BasisNone         Basis = "none"
)

// Decision is the outcome of resolving access to a gated feature.
type Decision struct {
	Granted bool  `json:"granted"`
	Basis   Basis `json:"basis"`
	// CreditBalance is the balance observed at resolution time, before any
	// consumption.
	CreditBalance int `json:"credit_balance"`
}
