package dto

import "github.com/shopspring/decimal"

// ─── Checkout ────────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=COD ONLINE"`
	// DeliveryPincode is a locality hint for warehouse selection, not an
	// address — the selector prefers a matching warehouse but does not
	// require one.
	DeliveryPincode *string `json:"delivery_pincode" validate:"omitempty,len=6"`
	// RedeemPoints requests a loyalty redemption applied against the total.
	RedeemPoints int `json:"redeem_points" validate:"min=0"`
	// Bulk/wholesale checkout: gated behind administrative approval.
	IsBulkOrder bool    `json:"is_bulk_order"`
	TaxID       *string `json:"tax_id" validate:"omitempty,min=5"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Items          []OrderItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	PaymentMethod  string              `json:"payment_method"`
	WarehouseID    *string             `json:"warehouse_id,omitempty"`
	PointsRedeemed int                 `json:"points_redeemed"`
	PointsDiscount decimal.Decimal     `json:"points_discount"`
	PointsEarned   int                 `json:"points_earned"`

	IsBulkOrder         bool            `json:"is_bulk_order"`
	BulkDiscountPercent decimal.Decimal `json:"bulk_discount_percent"`
	BulkOrderStatus     *string         `json:"bulk_order_status,omitempty"`

	// GatewayOrderID is returned for ONLINE checkouts so the client can open
	// the payment widget.
	GatewayOrderID *string `json:"gateway_order_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ─── Payment verification callback ───────────────────────────────────────────

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gateway_order_id"   validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature"          validate:"required"`
}

// ─── Status / assignment ─────────────────────────────────────────────────────

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PROCESSING SHIPPED OUT_FOR_DELIVERY DELIVERED CANCELLED"`
}

type AssignPartnerRequest struct {
	DeliveryPartnerID string `json:"delivery_partner_id" validate:"required,uuid"`
}

// ─── Bulk approval ───────────────────────────────────────────────────────────

type RejectBulkRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Filter / list ───────────────────────────────────────────────────────────

type OrderFilter struct {
	UserID            string `form:"-"`
	DeliveryPartnerID string `form:"-"`
	Status            string `form:"status" validate:"omitempty,oneof=PENDING PROCESSING SHIPPED OUT_FOR_DELIVERY DELIVERED CANCELLED"`
	Page              int    `form:"page,default=1"   validate:"min=1"`
	Limit             int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
