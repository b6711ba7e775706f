package model

import (
	"time"

	"github.com/google/uuid"
)

// Loyalty transaction types. Points always carry a positive magnitude; the
// type decides the direction.
const (
	LoyaltyEarn   = "EARN"
	LoyaltyRedeem = "REDEEM"
)

// LoyaltyTransaction is an append-only ledger row. Rows are never updated or
// deleted — corrections are new offsetting rows.
type LoyaltyTransaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Type        string     `gorm:"type:varchar(10);not null"`
	Points      int        `gorm:"not null;check:points > 0"`
	Description string
	CreatedAt   time.Time
}

// AppSetting is one string-typed configuration value. Loyalty settings are
// read from here per operation with defaults when a key is absent.
type AppSetting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// Loyalty setting keys.
const (
	SettingPointsPerRupee      = "loyalty.points_per_rupee"
	SettingMinRedeemablePoints = "loyalty.min_redeemable_points"
	SettingPointValueInRupees  = "loyalty.point_value_in_rupees"
	SettingSilverTierThreshold = "loyalty.silver_tier_threshold"
	SettingGoldTierThreshold   = "loyalty.gold_tier_threshold"
)
