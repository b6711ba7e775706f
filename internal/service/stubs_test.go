package service_test

// stubs_test.go
// In-memory repository and gateway stubs shared by the service tests.
// Services run their transactions through runTx, which calls the closure with
// a nil *gorm.DB when the repository reports no database — so every Tx method
// here accepts a nil handle.

import (
	"context"
	"errors"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errNotFound = errors.New("not found")

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProductRepo) ListAvailable(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsAvailable {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) IncrementAggregateTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock += qty
	return nil
}

func (r *stubProductRepo) DecrementAggregateTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *stubProductRepo) DecrementAggregateGuardedTx(_ *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Warehouses ───────────────────────────────────────────────────────────────

type stubWarehouseRepo struct {
	warehouses []*model.Warehouse
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warehouses = append(r.warehouses, w)
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, errNotFound
}

func (r *stubWarehouseRepo) ListActive(_ context.Context, preferredPincode string) ([]model.Warehouse, error) {
	var preferred, rest []model.Warehouse
	for _, w := range r.warehouses {
		if !w.IsActive {
			continue
		}
		if preferredPincode != "" && w.Pincode == preferredPincode {
			preferred = append(preferred, *w)
		} else {
			rest = append(rest, *w)
		}
	}
	return append(preferred, rest...), nil
}

var _ repository.WarehouseRepository = (*stubWarehouseRepo)(nil)

// ── Stock ────────────────────────────────────────────────────────────────────

type stockKey struct {
	warehouseID uuid.UUID
	productID   uuid.UUID
}

type stubStockRepo struct {
	records      map[stockKey]*model.StockRecord
	reservations map[uuid.UUID]*model.StockReservation
	movements    []model.StockMovement
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{
		records:      make(map[stockKey]*model.StockRecord),
		reservations: make(map[uuid.UUID]*model.StockReservation),
	}
}

func (r *stubStockRepo) seed(warehouseID, productID uuid.UUID, qty, reserved int) {
	r.records[stockKey{warehouseID, productID}] = &model.StockRecord{
		ID:               uuid.New(),
		WarehouseID:      warehouseID,
		ProductID:        productID,
		Quantity:         qty,
		ReservedQuantity: reserved,
	}
}

func (r *stubStockRepo) record(warehouseID, productID uuid.UUID) *model.StockRecord {
	return r.records[stockKey{warehouseID, productID}]
}

func (r *stubStockRepo) FindRecord(_ context.Context, warehouseID, productID uuid.UUID) (*model.StockRecord, error) {
	rec, ok := r.records[stockKey{warehouseID, productID}]
	if !ok {
		return nil, errNotFound
	}
	return rec, nil
}

func (r *stubStockRepo) ListByWarehouse(_ context.Context, warehouseID uuid.UUID) ([]model.StockRecord, error) {
	var out []model.StockRecord
	for _, rec := range r.records {
		if rec.WarehouseID == warehouseID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubStockRepo) UpsertRecord(_ context.Context, rec *model.StockRecord) error {
	r.records[stockKey{rec.WarehouseID, rec.ProductID}] = rec
	return nil
}

func (r *stubStockRepo) ReserveTx(_ *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	rec, ok := r.records[stockKey{warehouseID, productID}]
	if !ok || rec.Quantity-rec.ReservedQuantity < qty {
		return false, nil
	}
	rec.ReservedQuantity += qty
	return true, nil
}

func (r *stubStockRepo) ConfirmTx(_ *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	rec, ok := r.records[stockKey{warehouseID, productID}]
	if !ok || rec.ReservedQuantity < qty || rec.Quantity < qty {
		return false, nil
	}
	rec.Quantity -= qty
	rec.ReservedQuantity -= qty
	return true, nil
}

func (r *stubStockRepo) ReleaseTx(_ *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	rec, ok := r.records[stockKey{warehouseID, productID}]
	if !ok || rec.ReservedQuantity < qty {
		return false, nil
	}
	rec.ReservedQuantity -= qty
	return true, nil
}

func (r *stubStockRepo) TransferOutTx(_ *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	rec, ok := r.records[stockKey{warehouseID, productID}]
	if !ok || rec.Quantity-rec.ReservedQuantity < qty {
		return false, nil
	}
	rec.Quantity -= qty
	return true, nil
}

func (r *stubStockRepo) AddQuantityTx(_ *gorm.DB, warehouseID, productID uuid.UUID, qty int) error {
	key := stockKey{warehouseID, productID}
	if rec, ok := r.records[key]; ok {
		rec.Quantity += qty
		return nil
	}
	r.records[key] = &model.StockRecord{
		ID:          uuid.New(),
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    qty,
	}
	return nil
}

func (r *stubStockRepo) CreateReservationTx(_ *gorm.DB, resv *model.StockReservation) error {
	if resv.ID == uuid.Nil {
		resv.ID = uuid.New()
	}
	r.reservations[resv.ID] = resv
	return nil
}

func (r *stubStockRepo) MarkHoldTx(_ *gorm.DB, holdID uuid.UUID, from, to string, orderID *uuid.UUID) error {
	for _, resv := range r.reservations {
		if resv.HoldID == holdID && resv.Status == from {
			resv.Status = to
			if orderID != nil {
				resv.OrderID = orderID
			}
		}
	}
	return nil
}

func (r *stubStockRepo) MarkReservationTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	resv, ok := r.reservations[id]
	if !ok || resv.Status != from {
		return false, nil
	}
	resv.Status = to
	return true, nil
}

func (r *stubStockRepo) ListExpired(_ context.Context, before time.Time, limit int) ([]model.StockReservation, error) {
	var out []model.StockReservation
	for _, resv := range r.reservations {
		if resv.Status == model.ReservationActive && resv.ExpiresAt.Before(before) {
			out = append(out, *resv)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubStockRepo) CreateMovementTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListMovements(_ context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *stubStockRepo) movementTypes(productID uuid.UUID) []string {
	var out []string
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m.Type)
		}
	}
	return out
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	numbers map[string]bool
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:  make(map[uuid.UUID]*model.Order),
		numbers: make(map[string]bool),
	}
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if r.numbers[o.OrderNumber] {
		return gorm.ErrDuplicatedKey
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	r.orders[o.ID] = o
	r.numbers[o.OrderNumber] = true
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) FindByGatewayOrderID(_ context.Context, ref string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.GatewayOrderID != nil && *o.GatewayOrderID == ref {
			return o, nil
		}
	}
	return nil, errNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if filter.UserID != "" && o.UserID.String() != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.DeliveryPartnerID != "" &&
			(o.DeliveryPartnerID == nil || o.DeliveryPartnerID.String() != filter.DeliveryPartnerID) {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListPendingBulk(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.IsBulkOrder && o.BulkOrderStatus != nil && *o.BulkOrderStatus == model.BulkPendingApproval {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *stubOrderRepo) UpdatePaymentStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.PaymentStatus != from {
		return false, nil
	}
	o.PaymentStatus = to
	return true, nil
}

func (r *stubOrderRepo) UpdateBulkStatusTx(_ *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	o, ok := r.orders[id]
	if !ok || o.BulkOrderStatus == nil || *o.BulkOrderStatus != from {
		return false, nil
	}
	status := to
	o.BulkOrderStatus = &status
	return true, nil
}

func (r *stubOrderRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	o, ok := r.orders[id]
	if !ok {
		return errNotFound
	}
	for key, val := range fields {
		switch key {
		case "delivery_partner_id":
			v := val.(uuid.UUID)
			o.DeliveryPartnerID = &v
		case "warehouse_id":
			v := val.(uuid.UUID)
			o.WarehouseID = &v
		case "gateway_payment_id":
			v := val.(string)
			o.GatewayPaymentID = &v
		case "points_earned":
			o.PointsEarned = val.(int)
		case "tax_amount":
			o.TaxAmount = val.(decimal.Decimal)
		case "total_amount":
			o.TotalAmount = val.(decimal.Decimal)
		case "invoice_path":
			v := val.(string)
			o.InvoicePath = &v
		case "bulk_reject_reason":
			v := val.(string)
			o.BulkRejectReason = &v
		default:
			return errors.New("unhandled field " + key)
		}
	}
	return nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) seed(role string, points int) *model.User {
	u := &model.User{
		ID:            uuid.New(),
		Email:         uuid.NewString() + "@test.local",
		Name:          "Test User",
		Role:          role,
		PointsBalance: points,
		LoyaltyTier:   model.TierBasic,
		IsActive:      true,
	}
	r.users[u.ID] = u
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.IsActive {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *stubUserRepo) IncrementPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.PointsBalance += points
	return nil
}

func (r *stubUserRepo) DecrementPointsGuardedTx(_ *gorm.DB, id uuid.UUID, points int) (bool, error) {
	u, ok := r.users[id]
	if !ok || u.PointsBalance < points {
		return false, nil
	}
	u.PointsBalance -= points
	return true, nil
}

func (r *stubUserRepo) UpdateTierTx(_ *gorm.DB, id uuid.UUID, tier string) error {
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.LoyaltyTier = tier
	return nil
}

func (r *stubUserRepo) DB() *gorm.DB { return nil }

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Loyalty ledger ───────────────────────────────────────────────────────────

type stubLoyaltyRepo struct {
	transactions []model.LoyaltyTransaction
}

func (r *stubLoyaltyRepo) CreateTx(_ *gorm.DB, t *model.LoyaltyTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *stubLoyaltyRepo) SumEarnedTx(_ *gorm.DB, userID uuid.UUID) (int64, error) {
	var total int64
	for _, t := range r.transactions {
		if t.UserID == userID && t.Type == model.LoyaltyEarn {
			total += int64(t.Points)
		}
	}
	return total, nil
}

func (r *stubLoyaltyRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]model.LoyaltyTransaction, error) {
	var out []model.LoyaltyTransaction
	for i := len(r.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if r.transactions[i].UserID == userID {
			out = append(out, r.transactions[i])
		}
	}
	return out, nil
}

var _ repository.LoyaltyRepository = (*stubLoyaltyRepo)(nil)

// ── Settings ─────────────────────────────────────────────────────────────────

type stubSettingsRepo struct {
	values map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{values: make(map[string]string)}
}

func (r *stubSettingsRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := r.values[key]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubSettingsRepo) Set(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// ── Refunds ──────────────────────────────────────────────────────────────────

type stubRefundRepo struct {
	refunds map[uuid.UUID]*model.Refund
	// onFind runs after a FindByID read returns its snapshot, before the
	// caller acts on it — lets tests interleave a concurrent writer.
	onFind func()
	// missOutstanding makes HasOutstanding report nothing, as two concurrent
	// requests would each see before either row lands.
	missOutstanding bool
}

func newStubRefundRepo() *stubRefundRepo {
	return &stubRefundRepo{refunds: make(map[uuid.UUID]*model.Refund)}
}

func (r *stubRefundRepo) Create(_ context.Context, rf *model.Refund) error {
	// Mirrors the partial unique index on outstanding refunds per order.
	if rf.Status == model.RefundRequested || rf.Status == model.RefundApproved {
		for _, existing := range r.refunds {
			if existing.OrderID == rf.OrderID &&
				(existing.Status == model.RefundRequested || existing.Status == model.RefundApproved) {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if rf.ID == uuid.Nil {
		rf.ID = uuid.New()
	}
	rf.CreatedAt = time.Now()
	r.refunds[rf.ID] = rf
	return nil
}

func (r *stubRefundRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Refund, error) {
	rf, ok := r.refunds[id]
	if !ok {
		return nil, errNotFound
	}
	snapshot := *rf
	if r.onFind != nil {
		r.onFind()
	}
	return &snapshot, nil
}

func (r *stubRefundRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]model.Refund, error) {
	var out []model.Refund
	for _, rf := range r.refunds {
		if rf.OrderID == orderID {
			out = append(out, *rf)
		}
	}
	return out, nil
}

func (r *stubRefundRepo) HasOutstanding(_ context.Context, orderID uuid.UUID) (bool, error) {
	if r.missOutstanding {
		return false, nil
	}
	for _, rf := range r.refunds {
		if rf.OrderID == orderID &&
			(rf.Status == model.RefundRequested || rf.Status == model.RefundApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRefundRepo) SumCompleted(_ context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rf := range r.refunds {
		if rf.OrderID == orderID && rf.Status == model.RefundCompleted {
			sum = sum.Add(rf.RefundAmount)
		}
	}
	return sum, nil
}

func (r *stubRefundRepo) Update(_ context.Context, rf *model.Refund) error {
	r.refunds[rf.ID] = rf
	return nil
}

func (r *stubRefundRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from, to string, processedBy uuid.UUID) (bool, error) {
	rf, ok := r.refunds[id]
	if !ok || rf.Status != from {
		return false, nil
	}
	rf.Status = to
	admin := processedBy
	rf.ProcessedBy = &admin
	return true, nil
}

func (r *stubRefundRepo) DB() *gorm.DB { return nil }

var _ repository.RefundRepository = (*stubRefundRepo)(nil)

// ── Payment gateway ──────────────────────────────────────────────────────────

type stubGateway struct {
	createRef   string
	createErr   error
	createCalls int
	lastAmount  decimal.Decimal

	verifyOK bool

	refundRef   string
	refundErr   error
	refundCalls int
}

func (g *stubGateway) CreateOrder(_ context.Context, amount decimal.Decimal, _ string, _ map[string]string) (string, error) {
	g.createCalls++
	g.lastAmount = amount
	if g.createErr != nil {
		return "", g.createErr
	}
	return g.createRef, nil
}

func (g *stubGateway) VerifySignature(_, _, _ string) bool { return g.verifyOK }

func (g *stubGateway) InitiateRefund(_ context.Context, _ string, _ decimal.Decimal) (string, error) {
	g.refundCalls++
	if g.refundErr != nil {
		return "", g.refundErr
	}
	return g.refundRef, nil
}

var _ service.PaymentGateway = (*stubGateway)(nil)
