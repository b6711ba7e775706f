package infra

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// RazorpayClient talks to the hosted payment gateway over its REST API.
// Amounts cross the wire in minor units (paise); decimals stay decimals
// everywhere else in the codebase.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type gatewayOrderRequest struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

type gatewayRefundRequest struct {
	Amount int64  `json:"amount"`
	Speed  string `json:"speed"`
}

type gatewayRefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder registers a payment intent and returns the gateway's order
// reference for the client-side widget.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string, notes map[string]string) (string, error) {
	body := gatewayOrderRequest{
		Amount:   toMinorUnits(amount),
		Currency: "INR",
		Receipt:  receipt,
		Notes:    notes,
	}
	var resp gatewayOrderResponse
	if err := c.post(ctx, "/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("gateway: empty order id in response")
	}
	return resp.ID, nil
}

// VerifySignature checks the callback signature: HMAC-SHA256 over
// "<order_ref>|<payment_ref>" keyed with the API secret, hex encoded.
func (c *RazorpayClient) VerifySignature(orderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// InitiateRefund asks the gateway to return amount against a captured
// payment and returns the gateway refund reference.
func (c *RazorpayClient) InitiateRefund(ctx context.Context, paymentRef string, amount decimal.Decimal) (string, error) {
	body := gatewayRefundRequest{
		Amount: toMinorUnits(amount),
		Speed:  "normal",
	}
	var resp gatewayRefundResponse
	path := fmt.Sprintf("/payments/%s/refund", paymentRef)
	if err := c.post(ctx, path, body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("gateway: empty refund id in response")
	}
	return resp.ID, nil
}

func (c *RazorpayClient) post(ctx context.Context, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("gateway: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("gateway: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

// toMinorUnits converts rupees to paise, the integer unit the gateway expects.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
