package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refund status values. REQUESTED and APPROVED are the only non-terminal
// states; rows transition forward only.
const (
	RefundRequested = "REQUESTED"
	RefundApproved  = "APPROVED"
	RefundRejected  = "REJECTED"
	RefundCompleted = "COMPLETED"
	RefundFailed    = "FAILED"
)

// Refund methods.
const (
	RefundOnline = "ONLINE"
	RefundCOD    = "COD"
)

// Refund is a financial reversal against a paid order. Refunds never touch
// stock. At most one REQUESTED or APPROVED refund may exist per order at a
// time, and the sum of COMPLETED refunds never exceeds the order total.
type Refund struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RefundReason string          `gorm:"not null"`
	RefundMethod string          `gorm:"type:varchar(10);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'REQUESTED';index"`

	// GatewayRefundID is set when the external gateway executes an ONLINE refund.
	GatewayRefundID *string
	// ProcessedBy is the administrative actor who approved or rejected.
	ProcessedBy     *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string
	FailureReason   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
