package dto

import "github.com/shopspring/decimal"

type RequestRefundRequest struct {
	OrderID      string          `json:"order_id"      validate:"required,uuid"`
	RefundAmount decimal.Decimal `json:"refund_amount" validate:"required"`
	RefundReason string          `json:"refund_reason" validate:"required,min=5"`
	RefundMethod string          `json:"refund_method" validate:"required,oneof=ONLINE COD"`
}

type RejectRefundRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

type RefundResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	RefundReason    string          `json:"refund_reason"`
	RefundMethod    string          `json:"refund_method"`
	Status          string          `json:"status"`
	GatewayRefundID *string         `json:"gateway_refund_id,omitempty"`
	ProcessedBy     *string         `json:"processed_by,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	FailureReason   *string         `json:"failure_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}
