package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleCustomer        = "customer"
	RoleAdmin           = "admin"
	RoleDeliveryPartner = "delivery_partner"
)

// Loyalty tiers, derived from cumulative lifetime EARN points.
const (
	TierBasic  = "BASIC"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
)

// User holds the loyalty-relevant account fields. PointsBalance is a
// denormalized counter kept consistent with the LoyaltyTransaction ledger by
// writing both in the same transaction; it never goes negative.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email         string    `gorm:"uniqueIndex;not null"`
	Name          string    `gorm:"not null"`
	PasswordHash  string    `gorm:"not null"`
	Role          string    `gorm:"type:varchar(20);not null;default:'customer'"`
	PointsBalance int       `gorm:"not null;default:0;check:points_balance >= 0"`
	LoyaltyTier   string    `gorm:"type:varchar(10);not null;default:'BASIC'"`
	IsActive      bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
