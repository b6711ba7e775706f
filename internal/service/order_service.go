package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor identifies who is driving a transition; the state machine scopes
// allowed edges by role.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error)
	VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.OrderResponse, error)

	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actor Actor) error
	AssignDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) error
	// CollectCashPayment records a delivery partner collecting cash on the
	// doorstep: payment PENDING → PAID plus the loyalty award.
	CollectCashPayment(ctx context.Context, orderID uuid.UUID, actor Actor) error

	ApproveBulkOrder(ctx context.Context, orderID uuid.UUID, actor Actor) error
	RejectBulkOrder(ctx context.Context, orderID uuid.UUID, reason string, actor Actor) error
	GenerateBulkInvoice(ctx context.Context, orderID uuid.UUID) error

	// GetOrder scopes reads by role: customers see only their own orders,
	// delivery partners only their assignments, admins everything.
	GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	ListPendingBulk(ctx context.Context) ([]dto.OrderResponse, error)
}

type orderService struct {
	repo           repository.OrderRepository
	productRepo    repository.ProductRepository
	stock          StockService
	selector       WarehouseSelector
	loyalty        LoyaltyService
	gateway        PaymentGateway
	dispatcher     *worker.Dispatcher
	reservationTTL time.Duration
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	stock StockService,
	selector WarehouseSelector,
	loyalty LoyaltyService,
	gateway PaymentGateway,
	dispatcher *worker.Dispatcher,
	reservationTTL time.Duration,
) OrderService {
	return &orderService{
		repo:           repo,
		productRepo:    productRepo,
		stock:          stock,
		selector:       selector,
		loyalty:        loyalty,
		gateway:        gateway,
		dispatcher:     dispatcher,
		reservationTTL: reservationTTL,
	}
}

// ── Status transition tables ─────────────────────────────────────────────────

var statusRank = map[string]int{
	model.OrderPending:        0,
	model.OrderProcessing:     1,
	model.OrderShipped:        2,
	model.OrderOutForDelivery: 3,
	model.OrderDelivered:      4,
}

// cancellableFrom: OUT_FOR_DELIVERY can only go to DELIVERED.
var cancellableFrom = map[string]bool{
	model.OrderPending:    true,
	model.OrderProcessing: true,
	model.OrderShipped:    true,
}

// partnerEdges are the only transitions a delivery partner may drive, and
// only on orders assigned to them.
var partnerEdges = map[string][]string{
	model.OrderProcessing:     {model.OrderOutForDelivery},
	model.OrderShipped:        {model.OrderOutForDelivery},
	model.OrderOutForDelivery: {model.OrderDelivered},
}

func allowedTransition(actor Actor, from, to string) bool {
	switch actor.Role {
	case model.RoleAdmin:
		if to == model.OrderCancelled {
			return cancellableFrom[from]
		}
		fromRank, okFrom := statusRank[from]
		toRank, okTo := statusRank[to]
		return okFrom && okTo && toRank > fromRank
	case model.RoleDeliveryPartner:
		for _, t := range partnerEdges[from] {
			if t == to {
				return true
			}
		}
	}
	return false
}

// ── Checkout ─────────────────────────────────────────────────────────────────
// 1. Validate items exist, are available, have positive quantities
// 2. Bulk orders: create PENDING_APPROVAL without touching stock
// 3. Select warehouse → reserve (or legacy aggregate fallback)
// 4. Apply capped points redemption
// 5. Persist order; any failure after a successful reservation releases it
// 6. COD: confirm + redeem + earn + PAID; ONLINE: gateway order + confirm,
//    payment stays PENDING until the verification callback

type resolvedItem struct {
	productID uuid.UUID
	name      string
	price     decimal.Decimal
	quantity  int
	subtotal  decimal.Decimal
}

func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.OrderResponse, error) {
	resolved, subtotal, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if req.IsBulkOrder {
		if req.RedeemPoints > 0 {
			return nil, fmt.Errorf("points redemption is not available on bulk orders")
		}
		return s.checkoutBulk(ctx, userID, req, resolved, subtotal)
	}

	total := subtotal
	lines := toStockLines(resolved)

	// Points redemption is validated and capped up front (fail fast, no
	// mutation); the ledger write happens at payment capture.
	pointsRedeemed := 0
	pointsDiscount := decimal.Zero
	if req.RedeemPoints > 0 {
		pointsRedeemed, pointsDiscount, err = s.loyalty.PrepareRedemption(ctx, userID, req.RedeemPoints, total)
		if err != nil {
			return nil, err
		}
	}

	pincode := ""
	if req.DeliveryPincode != nil {
		pincode = *req.DeliveryPincode
	}
	warehouse, err := s.selector.Select(ctx, lines, pincode)
	if err != nil {
		return nil, err
	}

	var holdID uuid.UUID
	var warehouseID *uuid.UUID
	committed := false
	if warehouse != nil {
		holdID, err = s.stock.Reserve(ctx, warehouse.ID, lines, s.reservationTTL)
		if err != nil {
			return nil, err
		}
		warehouseID = &warehouse.ID
		// Compensating action: the reservation and the order row are not one
		// atomic unit, so every exit path between here and confirm must undo
		// the hold.
		defer func() {
			if !committed {
				_ = s.stock.Release(ctx, warehouse.ID, lines, holdID, "checkout aborted")
			}
		}()
	}

	order := &model.Order{
		UserID:          userID,
		Subtotal:        subtotal,
		TotalAmount:     total,
		Status:          model.OrderPending,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   req.PaymentMethod,
		WarehouseID:     warehouseID,
		DeliveryPincode: req.DeliveryPincode,
		PointsRedeemed:  pointsRedeemed,
		PointsDiscount:  pointsDiscount,
	}
	for _, r := range resolved {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: r.productID,
			Quantity:  r.quantity,
			Price:     r.price,
			Subtotal:  r.subtotal,
		})
	}

	order.OrderNumber = newOrderNumber()
	payable := total.Sub(pointsDiscount)
	if req.PaymentMethod == model.MethodOnline {
		// Gateway order reference is created before persistence so a gateway
		// outage aborts the checkout while the hold can still be released.
		gwRef, err := s.gateway.CreateOrder(ctx, payable, order.OrderNumber, map[string]string{
			"user_id": userID.String(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
		}
		order.GatewayOrderID = &gwRef
	}

	if err := s.persistOrder(ctx, order); err != nil {
		return nil, err
	}

	if warehouse != nil {
		if err := s.stock.Confirm(ctx, warehouse.ID, lines, holdID, &order.ID); err != nil {
			return nil, err
		}
		committed = true
	} else {
		if err := s.stock.CommitAggregate(ctx, lines, &order.ID); err != nil {
			return nil, err
		}
	}

	if req.PaymentMethod == model.MethodCOD {
		if err := s.capturePayment(ctx, order, userID, payable); err != nil {
			return nil, err
		}
	}

	resp := orderToResponse(order)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

func (s *orderService) checkoutBulk(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest, resolved []resolvedItem, subtotal decimal.Decimal) (*dto.OrderResponse, error) {
	totalQty := 0
	for _, r := range resolved {
		totalQty += r.quantity
	}
	pct := BulkDiscountPercent(totalQty)
	discount := subtotal.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
	bulkStatus := model.BulkPendingApproval

	order := &model.Order{
		UserID:              userID,
		Subtotal:            subtotal,
		TotalAmount:         subtotal.Sub(discount),
		Status:              model.OrderPending,
		PaymentStatus:       model.PaymentPending,
		PaymentMethod:       req.PaymentMethod,
		DeliveryPincode:     req.DeliveryPincode,
		IsBulkOrder:         true,
		BulkDiscountPercent: pct,
		BulkOrderStatus:     &bulkStatus,
		TaxID:               req.TaxID,
	}
	for _, r := range resolved {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: r.productID,
			Quantity:  r.quantity,
			Price:     r.price,
			Subtotal:  r.subtotal,
		})
	}

	// Stock is not touched until an administrator approves.
	if err := s.persistOrder(ctx, order); err != nil {
		return nil, err
	}

	resp := orderToResponse(order)
	for i, r := range resolved {
		resp.Items[i].Product = r.name
	}
	return resp, nil
}

// BulkDiscountPercent is the wholesale tier for a total requested quantity.
func BulkDiscountPercent(totalQty int) decimal.Decimal {
	switch {
	case totalQty >= 100:
		return decimal.NewFromInt(20)
	case totalQty >= 50:
		return decimal.NewFromInt(15)
	case totalQty >= 25:
		return decimal.NewFromInt(10)
	case totalQty >= 10:
		return decimal.NewFromInt(5)
	default:
		return decimal.Zero
	}
}

func (s *orderService) resolveItems(ctx context.Context, items []dto.CheckoutItemRequest) ([]resolvedItem, decimal.Decimal, error) {
	resolved := make([]resolvedItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid product_id: %w", err)
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("quantity must be positive for product %s", item.ProductID)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.IsAvailable {
			return nil, decimal.Zero, fmt.Errorf("product %s is not available", p.Name)
		}
		lineSubtotal := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			name:      p.Name,
			price:     p.Price,
			quantity:  item.Quantity,
			subtotal:  lineSubtotal,
		})
	}
	return resolved, subtotal, nil
}

// persistOrder creates the order row, regenerating the order number on a
// unique-index collision. The ledger is addressed by this number in exports
// and invoices, so a silent duplicate is not acceptable.
func (s *orderService) persistOrder(ctx context.Context, order *model.Order) error {
	const maxAttempts = 3
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if order.OrderNumber == "" || attempt > 0 {
			order.OrderNumber = newOrderNumber()
		}
		err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.CreateTx(tx, order)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return fmt.Errorf("order number collision persisted after %d attempts: %w", maxAttempts, err)
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

// capturePayment marks the order paid and settles the loyalty legs: the
// deferred redemption write and the earn award.
func (s *orderService) capturePayment(ctx context.Context, order *model.Order, userID uuid.UUID, paidAmount decimal.Decimal) error {
	if order.PointsRedeemed > 0 {
		if err := s.loyalty.ApplyRedemption(ctx, userID, order.PointsRedeemed, &order.ID); err != nil {
			return err
		}
	}
	if _, err := s.loyalty.Earn(ctx, userID, order.ID, paidAmount); err != nil {
		return err
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdatePaymentStatusTx(tx, order.ID, model.PaymentPending, model.PaymentPaid)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.PaymentStatus = model.PaymentPaid
	return nil
}

// ── Payment verification ─────────────────────────────────────────────────────

func (s *orderService) VerifyPayment(ctx context.Context, req dto.VerifyPaymentRequest) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByGatewayOrderID(ctx, req.GatewayOrderID)
	if err != nil {
		return nil, fmt.Errorf("order not found for gateway reference")
	}
	if order.PaymentStatus != model.PaymentPending {
		return nil, ErrInvalidTransition
	}

	if !s.gateway.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if _, err := s.repo.UpdatePaymentStatusTx(tx, order.ID, model.PaymentPending, model.PaymentFailed); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: signature verification failed", ErrGatewayFailure)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateFieldsTx(tx, order.ID, map[string]interface{}{
			"gateway_payment_id": req.GatewayPaymentID,
		})
	})
	if err != nil {
		return nil, err
	}
	order.GatewayPaymentID = &req.GatewayPaymentID

	payable := order.TotalAmount.Sub(order.PointsDiscount)
	if err := s.capturePayment(ctx, order, order.UserID, payable); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

// ── Status & assignment ──────────────────────────────────────────────────────

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus string, actor Actor) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if actor.Role == model.RoleDeliveryPartner {
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != actor.UserID {
			return fmt.Errorf("order is not assigned to this delivery partner")
		}
	}
	if !allowedTransition(actor, order.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, orderID, order.Status, newStatus)
		if err != nil {
			return err
		}
		if !ok {
			// Someone else moved the order between our read and this write.
			return fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
		}
		return nil
	})
}

func (s *orderService) AssignDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if order.Status == model.OrderDelivered || order.Status == model.OrderCancelled {
		return fmt.Errorf("%w: cannot assign a partner to a %s order", ErrInvalidTransition, order.Status)
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateFieldsTx(tx, orderID, map[string]interface{}{
			"delivery_partner_id": partnerID,
		})
	})
}

func (s *orderService) CollectCashPayment(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if actor.Role == model.RoleDeliveryPartner {
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != actor.UserID {
			return fmt.Errorf("order is not assigned to this delivery partner")
		}
	}
	if order.PaymentStatus != model.PaymentPending {
		return fmt.Errorf("%w: payment is %s", ErrInvalidTransition, order.PaymentStatus)
	}
	payable := order.TotalAmount.Sub(order.PointsDiscount)
	return s.capturePayment(ctx, order, order.UserID, payable)
}

// ── Bulk approval ────────────────────────────────────────────────────────────

func (s *orderService) ApproveBulkOrder(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if !order.IsBulkOrder || order.BulkOrderStatus == nil {
		return fmt.Errorf("order is not a bulk order")
	}

	// Guarded flip is the idempotency barrier: the stock commit below runs
	// at most once per order no matter how many approvals race.
	var flipped bool
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		flipped, err = s.repo.UpdateBulkStatusTx(tx, orderID, model.BulkPendingApproval, model.BulkApproved)
		return err
	})
	if err != nil {
		return err
	}
	if !flipped {
		return fmt.Errorf("%w: bulk order is %s", ErrInvalidTransition, *order.BulkOrderStatus)
	}

	lines := make([]StockLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, StockLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	pincode := ""
	if order.DeliveryPincode != nil {
		pincode = *order.DeliveryPincode
	}

	if err := s.commitBulkStock(ctx, order, lines, pincode); err != nil {
		// Roll the sub-state back so the approval can be retried once stock
		// is transferred in.
		rbErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			_, err := s.repo.UpdateBulkStatusTx(tx, orderID, model.BulkApproved, model.BulkPendingApproval)
			return err
		})
		if rbErr != nil {
			log.Error().
				Str("order_id", orderID.String()).
				Err(rbErr).
				Msg("bulk approval rollback failed — reconciliation incident")
		}
		return err
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, orderID, model.OrderPending, model.OrderProcessing)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order left PENDING during approval", ErrInvalidTransition)
		}
		return nil
	})
}

func (s *orderService) commitBulkStock(ctx context.Context, order *model.Order, lines []StockLine, pincode string) error {
	warehouse, err := s.selector.Select(ctx, lines, pincode)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return s.stock.CommitAggregate(ctx, lines, &order.ID)
	}

	holdID, err := s.stock.Reserve(ctx, warehouse.ID, lines, s.reservationTTL)
	if err != nil {
		return err
	}
	if err := s.stock.Confirm(ctx, warehouse.ID, lines, holdID, &order.ID); err != nil {
		_ = s.stock.Release(ctx, warehouse.ID, lines, holdID, "bulk approval aborted")
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateFieldsTx(tx, order.ID, map[string]interface{}{
			"warehouse_id": warehouse.ID,
		})
	})
}

func (s *orderService) RejectBulkOrder(ctx context.Context, orderID uuid.UUID, reason string, actor Actor) error {
	if reason == "" {
		return fmt.Errorf("rejection requires a reason")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if !order.IsBulkOrder || order.BulkOrderStatus == nil {
		return fmt.Errorf("order is not a bulk order")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateBulkStatusTx(tx, orderID, model.BulkPendingApproval, model.BulkRejected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: bulk order is %s", ErrInvalidTransition, *order.BulkOrderStatus)
		}
		if err := s.repo.UpdateFieldsTx(tx, orderID, map[string]interface{}{
			"bulk_reject_reason": reason,
		}); err != nil {
			return err
		}
		_, err = s.repo.UpdateStatusTx(tx, orderID, model.OrderPending, model.OrderCancelled)
		return err
	})
}

func (s *orderService) GenerateBulkInvoice(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("order not found")
	}
	if !order.IsBulkOrder || order.BulkOrderStatus == nil || *order.BulkOrderStatus != model.BulkApproved {
		return fmt.Errorf("%w: invoice requires an APPROVED bulk order", ErrInvalidTransition)
	}
	if s.dispatcher == nil {
		return fmt.Errorf("invoice worker not configured")
	}
	return s.dispatcher.EnqueueInvoice(ctx, worker.InvoiceJobPayload{OrderID: orderID.String()})
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	switch actor.Role {
	case model.RoleCustomer:
		if order.UserID != actor.UserID {
			return nil, fmt.Errorf("order not found")
		}
	case model.RoleDeliveryPartner:
		if order.DeliveryPartnerID == nil || *order.DeliveryPartnerID != actor.UserID {
			return nil, fmt.Errorf("order not found")
		}
	}
	return orderToResponse(order), nil
}

func (s *orderService) ListOrders(ctx context.Context, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *orderService) ListPendingBulk(ctx context.Context) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListPendingBulk(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return out, nil
}

func toStockLines(resolved []resolvedItem) []StockLine {
	lines := make([]StockLine, 0, len(resolved))
	for _, r := range resolved {
		lines = append(lines, StockLine{ProductID: r.productID, Quantity: r.quantity})
	}
	return lines
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID: item.ProductID.String(),
			Product:   name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		})
	}
	var warehouseID *string
	if o.WarehouseID != nil {
		id := o.WarehouseID.String()
		warehouseID = &id
	}
	return &dto.OrderResponse{
		ID:                  o.ID.String(),
		OrderNumber:         o.OrderNumber,
		Items:               items,
		Subtotal:            o.Subtotal,
		TotalAmount:         o.TotalAmount,
		Status:              o.Status,
		PaymentStatus:       o.PaymentStatus,
		PaymentMethod:       o.PaymentMethod,
		WarehouseID:         warehouseID,
		PointsRedeemed:      o.PointsRedeemed,
		PointsDiscount:      o.PointsDiscount,
		PointsEarned:        o.PointsEarned,
		IsBulkOrder:         o.IsBulkOrder,
		BulkDiscountPercent: o.BulkDiscountPercent,
		BulkOrderStatus:     o.BulkOrderStatus,
		GatewayOrderID:      o.GatewayOrderID,
		CreatedAt:           o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
