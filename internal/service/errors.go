package service

import "errors"

// Sentinel errors for the fulfillment core. Validation and precondition
// failures are always rejected before any mutation; handlers map these onto
// specific HTTP statuses so clients can offer a remedy.
var (
	// ErrInsufficientStock: a reservation or transfer cannot be satisfied.
	// Guaranteed to leave every StockRecord unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientBalance: redemption exceeds the user's points balance.
	ErrInsufficientBalance = errors.New("insufficient points balance")

	// ErrBelowMinimum: redemption below the configured minimum.
	ErrBelowMinimum = errors.New("points below minimum redeemable amount")

	// ErrInvalidTransition: an out-of-order status or refund-state change.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrGatewayFailure: the external payment/refund call failed. Surfaced
	// as a terminal FAILED state, never retried automatically.
	ErrGatewayFailure = errors.New("payment gateway failure")

	// ErrConfiguration: a setting holds an unusable value (e.g. nonpositive
	// point value).
	ErrConfiguration = errors.New("configuration error")
)
