//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   - Full checkout cycle (admin seeds catalog → customer COD checkout → stock committed)
//   - Insufficient stock rejected with no side effects
//   - Delivery lifecycle (assign partner → out for delivery → delivered)
//   - Refund cycle (request → approve → order marked refunded)
//   - Bulk order approval (pending hold → approve commits stock, idempotent)
//   - Loyalty earn and redemption across two checkouts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/config"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/infra"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type orderBody struct {
	ID                  string          `json:"id"`
	OrderNumber         string          `json:"order_number"`
	Status              string          `json:"status"`
	PaymentStatus       string          `json:"payment_status"`
	WarehouseID         *string         `json:"warehouse_id"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	PointsRedeemed      int             `json:"points_redeemed"`
	PointsDiscount      decimal.Decimal `json:"points_discount"`
	PointsEarned        int             `json:"points_earned"`
	IsBulkOrder         bool            `json:"is_bulk_order"`
	BulkDiscountPercent decimal.Decimal `json:"bulk_discount_percent"`
	BulkOrderStatus     *string         `json:"bulk_order_status"`
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testUser struct {
	id    string
	token string
}

type testEnv struct {
	server   *httptest.Server
	admin    testUser
	customer testUser
	partner  testUser
}

// All seeded users share this password (bcrypt cost 12).
const (
	seedPassword = "dairyfarm2026"
	seedHash     = "$2a$12$8D72trOYqVpLRiwmeqGyYeYBma4IyE0ncVc05fIsKUzb1LET/.UY."
)

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("dairyfarm_test"),
		tcPostgres.WithUsername("dairyfarm"),
		tcPostgres.WithPassword("dairyfarm"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	// Build config
	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		GatewayBaseURL:        "http://localhost:9999", // COD-only flows in e2e
		WorkerPoolSize:        1,
		InvoiceStoragePath:    t.TempDir(),
		GSTRatePercent:        5.0,
		ReservationTTLMinutes: 30,
	}

	// Connect DB — runs migrations internally
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed one user per role
	seed := func(name, email, role string) {
		err := db.Exec(`INSERT INTO users (id, email, name, password_hash, role, points_balance, loyalty_tier, is_active, created_at, updated_at)
			VALUES (gen_random_uuid(), ?, ?, ?, ?, 0, 'BASIC', true, NOW(), NOW())
			ON CONFLICT DO NOTHING`, email, name, seedHash, role).Error
		require.NoError(t, err)
	}
	seed("Admin E2E", "admin@e2e.test", "admin")
	seed("Customer E2E", "customer@e2e.test", "customer")
	seed("Partner E2E", "partner@e2e.test", "delivery_partner")

	// Build router
	breaker := infra.NewBreaker(5, 2, 30*time.Second)
	r := router.New(cfg, db, rdb, breaker)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	login := func(email string) testUser {
		resp := do(t, srv, "POST", "/v1/auth/login",
			jsonBody(t, map[string]string{"email": email, "password": seedPassword}), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			AccessToken string `json:"access_token"`
			UserID      string `json:"user_id"`
		}
		decodeJSON(t, resp, &body)
		require.NotEmpty(t, body.AccessToken)
		return testUser{id: body.UserID, token: body.AccessToken}
	}

	return &testEnv{
		server:   srv,
		admin:    login("admin@e2e.test"),
		customer: login("customer@e2e.test"),
		partner:  login("partner@e2e.test"),
	}
}

// createStockedProduct seeds a product and stocks it in a fresh warehouse,
// returning both ids.
func createStockedProduct(t *testing.T, env *testEnv, name string, price float64, quantity int) (productID, warehouseID string) {
	t.Helper()

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":     name,
			"category": "dairy",
			"price":    price,
		}), env.admin.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	whResp := do(t, env.server, "POST", "/v1/warehouses",
		jsonBody(t, map[string]any{
			"name":    name + " warehouse",
			"city":    "Pune",
			"pincode": "411038",
		}), env.admin.token)
	require.Equal(t, http.StatusCreated, whResp.StatusCode)
	var wh struct {
		ID string `json:"id"`
	}
	decodeJSON(t, whResp, &wh)

	if quantity > 0 {
		recvResp := do(t, env.server, "POST", "/v1/warehouses/"+wh.ID+"/stock",
			jsonBody(t, map[string]any{"product_id": prod.ID, "quantity": quantity}),
			env.admin.token)
		require.Equal(t, http.StatusNoContent, recvResp.StatusCode)
	}
	return prod.ID, wh.ID
}

func checkout(t *testing.T, env *testEnv, body map[string]any) (*http.Response, orderBody) {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/orders", jsonBody(t, body), env.customer.token)
	var order orderBody
	if resp.StatusCode == http.StatusCreated {
		decodeJSON(t, resp, &order)
	}
	return resp, order
}

func getOrder(t *testing.T, env *testEnv, token, id string) orderBody {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/orders/"+id, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order orderBody
	decodeJSON(t, resp, &order)
	return order
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullCheckoutCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID, warehouseID := createStockedProduct(t, env, "Paneer 200g", 90, 20)

	resp, order := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 3}},
		"payment_method": "COD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, "PENDING", order.Status)
	// COD is captured at checkout time
	assert.Equal(t, "PAID", order.PaymentStatus)
	assert.True(t, decimal.NewFromInt(270).Equal(order.TotalAmount))
	assert.Equal(t, 27, order.PointsEarned)
	require.NotNil(t, order.WarehouseID)
	assert.Equal(t, warehouseID, *order.WarehouseID)

	// The fulfilling warehouse lost exactly the committed quantity
	stockResp := do(t, env.server, "GET", "/v1/warehouses/"+warehouseID+"/stock", nil, env.admin.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var records []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Reserved  int    `json:"reserved_quantity"`
	}
	decodeJSON(t, stockResp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, productID, records[0].ProductID)
	assert.Equal(t, 17, records[0].Quantity)
	assert.Equal(t, 0, records[0].Reserved)

	// Points landed on the customer's balance
	balResp := do(t, env.server, "GET", "/v1/loyalty/balance", nil, env.customer.token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		PointsBalance int `json:"points_balance"`
	}
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, 27, bal.PointsBalance)
}

func TestE2E_InsufficientStockRejected(t *testing.T) {
	env := setupTestEnv(t)

	productID, warehouseID := createStockedProduct(t, env, "Ghee 500ml", 450, 2)

	resp, _ := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 5}},
		"payment_method": "COD",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// No hold was left behind
	stockResp := do(t, env.server, "GET", "/v1/warehouses/"+warehouseID+"/stock", nil, env.admin.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var records []struct {
		Quantity int `json:"quantity"`
		Reserved int `json:"reserved_quantity"`
	}
	decodeJSON(t, stockResp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, 0, records[0].Reserved)
}

func TestE2E_DeliveryLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	productID, _ := createStockedProduct(t, env, "Milk 1L", 60, 50)
	resp, order := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 2}},
		"payment_method": "COD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Admin moves the order forward and hands it to a partner
	stResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "PROCESSING"}), env.admin.token)
	require.Equal(t, http.StatusNoContent, stResp.StatusCode)

	asResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/assign",
		jsonBody(t, map[string]string{"delivery_partner_id": env.partner.id}), env.admin.token)
	require.Equal(t, http.StatusNoContent, asResp.StatusCode)

	// Partner drives the last mile
	ofdResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "OUT_FOR_DELIVERY"}), env.partner.token)
	require.Equal(t, http.StatusNoContent, ofdResp.StatusCode)

	dlvResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "DELIVERED"}), env.partner.token)
	require.Equal(t, http.StatusNoContent, dlvResp.StatusCode)

	final := getOrder(t, env, env.admin.token, order.ID)
	assert.Equal(t, "DELIVERED", final.Status)

	// Delivered orders cannot move backwards, even for admins
	backResp := do(t, env.server, "PATCH", "/v1/orders/"+order.ID+"/status",
		jsonBody(t, map[string]string{"status": "SHIPPED"}), env.admin.token)
	assert.Equal(t, http.StatusConflict, backResp.StatusCode)
	backResp.Body.Close()
}

func TestE2E_RefundCycle(t *testing.T) {
	env := setupTestEnv(t)

	productID, _ := createStockedProduct(t, env, "Curd 1kg", 80, 30)
	resp, order := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 3}},
		"payment_method": "COD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "PAID", order.PaymentStatus)

	// Customer requests a full COD refund
	reqResp := do(t, env.server, "POST", "/v1/refunds",
		jsonBody(t, map[string]any{
			"order_id":      order.ID,
			"refund_amount": "240",
			"refund_reason": "spoiled on arrival",
			"refund_method": "COD",
		}), env.customer.token)
	require.Equal(t, http.StatusCreated, reqResp.StatusCode)
	var refund struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, reqResp, &refund)
	assert.Equal(t, "REQUESTED", refund.Status)

	// Only one refund may be in flight per order
	dupResp := do(t, env.server, "POST", "/v1/refunds",
		jsonBody(t, map[string]any{
			"order_id":      order.ID,
			"refund_amount": "10",
			"refund_reason": "double dipping",
			"refund_method": "COD",
		}), env.customer.token)
	assert.Equal(t, http.StatusBadRequest, dupResp.StatusCode)
	dupResp.Body.Close()

	// Admin approves; COD refunds settle without the gateway
	apResp := do(t, env.server, "POST", "/v1/refunds/"+refund.ID+"/approve", nil, env.admin.token)
	require.Equal(t, http.StatusOK, apResp.StatusCode)
	var approved struct {
		Status string `json:"status"`
	}
	decodeJSON(t, apResp, &approved)
	assert.Equal(t, "COMPLETED", approved.Status)

	// Full coverage flips the order's payment status
	final := getOrder(t, env, env.customer.token, order.ID)
	assert.Equal(t, "REFUNDED", final.PaymentStatus)

	listResp := do(t, env.server, "GET", "/v1/orders/"+order.ID+"/refunds", nil, env.customer.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var refunds []struct {
		Status string `json:"status"`
	}
	decodeJSON(t, listResp, &refunds)
	require.Len(t, refunds, 1)
	assert.Equal(t, "COMPLETED", refunds[0].Status)
}

func TestE2E_BulkApprovalFlow(t *testing.T) {
	env := setupTestEnv(t)

	productID, warehouseID := createStockedProduct(t, env, "Butter 500g", 90, 100)

	resp, order := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 30}},
		"payment_method": "COD",
		"is_bulk_order":  true,
		"tax_id":         "27ABCDE1234F1Z5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.True(t, order.IsBulkOrder)
	require.NotNil(t, order.BulkOrderStatus)
	assert.Equal(t, "PENDING_APPROVAL", *order.BulkOrderStatus)
	// 30 units lands in the 10% wholesale tier: 2700 − 270
	assert.True(t, decimal.NewFromInt(10).Equal(order.BulkDiscountPercent))
	assert.True(t, decimal.NewFromInt(2430).Equal(order.TotalAmount))
	// No stock moves before approval
	assert.Nil(t, order.WarehouseID)

	pendResp := do(t, env.server, "GET", "/v1/bulk-orders/pending", nil, env.admin.token)
	require.Equal(t, http.StatusOK, pendResp.StatusCode)
	var pending []orderBody
	decodeJSON(t, pendResp, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].ID)

	apResp := do(t, env.server, "POST", "/v1/bulk-orders/"+order.ID+"/approve", nil, env.admin.token)
	require.Equal(t, http.StatusNoContent, apResp.StatusCode)

	approved := getOrder(t, env, env.admin.token, order.ID)
	assert.Equal(t, "PROCESSING", approved.Status)
	require.NotNil(t, approved.BulkOrderStatus)
	assert.Equal(t, "APPROVED", *approved.BulkOrderStatus)
	require.NotNil(t, approved.WarehouseID)

	stockResp := do(t, env.server, "GET", "/v1/warehouses/"+warehouseID+"/stock", nil, env.admin.token)
	require.Equal(t, http.StatusOK, stockResp.StatusCode)
	var records []struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, stockResp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, 70, records[0].Quantity)

	// Approval is an idempotency barrier — a second approve must not double-commit
	reApResp := do(t, env.server, "POST", "/v1/bulk-orders/"+order.ID+"/approve", nil, env.admin.token)
	assert.Equal(t, http.StatusConflict, reApResp.StatusCode)
	reApResp.Body.Close()
}

func TestE2E_LoyaltyRedemption(t *testing.T) {
	env := setupTestEnv(t)

	productID, _ := createStockedProduct(t, env, "Shrikhand 500g", 110, 50)

	// First order banks 110 points (1100 × 0.1)
	resp, _ := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 10}},
		"payment_method": "COD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Second order burns 100 of them
	resp, order := checkout(t, env, map[string]any{
		"items":          []map[string]any{{"product_id": productID, "quantity": 2}},
		"payment_method": "COD",
		"redeem_points":  100,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, 100, order.PointsRedeemed)
	assert.True(t, decimal.NewFromInt(100).Equal(order.PointsDiscount))
	assert.True(t, decimal.NewFromInt(220).Equal(order.TotalAmount))
	assert.Equal(t, 12, order.PointsEarned) // earned on the 120 actually paid

	balResp := do(t, env.server, "GET", "/v1/loyalty/balance", nil, env.customer.token)
	require.Equal(t, http.StatusOK, balResp.StatusCode)
	var bal struct {
		PointsBalance int    `json:"points_balance"`
		LoyaltyTier   string `json:"loyalty_tier"`
	}
	decodeJSON(t, balResp, &bal)
	assert.Equal(t, 22, bal.PointsBalance) // 110 − 100 + 12
	assert.Equal(t, "BASIC", bal.LoyaltyTier)
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// Customers cannot touch the catalog's write surface
	resp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Sneaky", "category": "dairy", "price": 1}),
		env.customer.token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Partners cannot place orders
	resp = do(t, env.server, "POST", "/v1/orders",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"product_id": env.partner.id, "quantity": 1}},
			"payment_method": "COD",
		}), env.partner.token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// No token at all
	resp = do(t, env.server, "GET", "/v1/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
