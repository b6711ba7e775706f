package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderPending        = "PENDING"
	OrderProcessing     = "PROCESSING"
	OrderShipped        = "SHIPPED"
	OrderOutForDelivery = "OUT_FOR_DELIVERY"
	OrderDelivered      = "DELIVERED"
	OrderCancelled      = "CANCELLED"
)

// Payment status values.
const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// Payment methods.
const (
	MethodCOD    = "COD"
	MethodOnline = "ONLINE"
)

// Bulk order sub-state values.
const (
	BulkPendingApproval  = "PENDING_APPROVAL"
	BulkApproved         = "APPROVED"
	BulkRejected         = "REJECTED"
	BulkInvoiceGenerated = "INVOICE_GENERATED"
)

// Order is created once per checkout; its item list is immutable afterwards.
// Only status fields and derived amounts mutate.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber string    `gorm:"uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Status        string `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentMethod string `gorm:"type:varchar(10);not null"`

	WarehouseID       *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryPartnerID *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryPincode   *string

	PointsEarned   int             `gorm:"not null;default:0"`
	PointsRedeemed int             `gorm:"not null;default:0"`
	PointsDiscount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	IsBulkOrder         bool            `gorm:"not null;default:false"`
	BulkDiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	BulkOrderStatus     *string         `gorm:"type:varchar(20)"`
	BulkRejectReason    *string
	TaxID               *string // buyer GST id; tax applied at invoice time only when present
	InvoicePath         *string

	// External payment gateway references (ONLINE method only)
	GatewayOrderID   *string `gorm:"index"`
	GatewayPaymentID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the price at purchase time; it is never re-read from
// the catalog after creation.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
