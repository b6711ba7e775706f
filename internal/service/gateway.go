package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the external payment collaborator consumed by checkout
// and the refund workflow. Amounts cross the boundary in minor units (paise).
// The concrete client lives in internal/infra.
type PaymentGateway interface {
	// CreateOrder registers a payment intent and returns the gateway's order
	// reference the client uses to open the payment widget.
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string, notes map[string]string) (string, error)

	// VerifySignature checks the callback signature for a captured payment.
	VerifySignature(orderRef, paymentRef, signature string) bool

	// InitiateRefund executes a refund against a captured payment and
	// returns the gateway's refund id.
	InitiateRefund(ctx context.Context, paymentRef string, amount decimal.Decimal) (string, error)
}
