package dto

import "github.com/shopspring/decimal"

type LoyaltyBalanceResponse struct {
	UserID        string `json:"user_id"`
	PointsBalance int    `json:"points_balance"`
	LoyaltyTier   string `json:"loyalty_tier"`
}

type LoyaltyTransactionResponse struct {
	ID          string  `json:"id"`
	OrderID     *string `json:"order_id,omitempty"`
	Type        string  `json:"type"`
	Points      int     `json:"points"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type LoyaltyHistoryResponse struct {
	Balance      LoyaltyBalanceResponse       `json:"balance"`
	Transactions []LoyaltyTransactionResponse `json:"transactions"`
}

// UpdateLoyaltySettingsRequest writes the named settings store. Zero-valued
// fields are left unchanged.
type UpdateLoyaltySettingsRequest struct {
	PointsPerRupee      *decimal.Decimal `json:"points_per_rupee"       validate:"omitempty"`
	MinRedeemablePoints *int             `json:"min_redeemable_points"  validate:"omitempty,min=0"`
	PointValueInRupees  *decimal.Decimal `json:"point_value_in_rupees"  validate:"omitempty"`
	SilverTierThreshold *int             `json:"silver_tier_threshold"  validate:"omitempty,min=0"`
	GoldTierThreshold   *int             `json:"gold_tier_threshold"    validate:"omitempty,min=0"`
}
