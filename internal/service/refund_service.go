package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/infra"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RefundService runs the refund workflow: a customer requests, an
// administrator approves or rejects, and approval settles the money — through
// the gateway for ONLINE orders, as a recorded cash return for COD.
type RefundService interface {
	// Request opens a refund for a paid order. At most one request may be
	// outstanding per order, and completed refunds can never sum past the
	// order total.
	Request(ctx context.Context, userID uuid.UUID, req dto.RequestRefundRequest) (*dto.RefundResponse, error)

	// Approve settles the refund. ONLINE refunds go through the payment
	// gateway behind the circuit breaker; a gateway failure parks the refund
	// as FAILED (terminal — file a new request to retry).
	Approve(ctx context.Context, refundID uuid.UUID, adminID uuid.UUID) (*dto.RefundResponse, error)

	Reject(ctx context.Context, refundID uuid.UUID, adminID uuid.UUID, reason string) (*dto.RefundResponse, error)

	Get(ctx context.Context, refundID uuid.UUID) (*dto.RefundResponse, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.RefundResponse, error)
}

type refundService struct {
	repo       repository.RefundRepository
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
	gateway    PaymentGateway
	breaker    *infra.Breaker
	dispatcher *worker.Dispatcher
}

func NewRefundService(
	repo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	breaker *infra.Breaker,
	dispatcher *worker.Dispatcher,
) RefundService {
	return &refundService{
		repo:       repo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		gateway:    gateway,
		breaker:    breaker,
		dispatcher: dispatcher,
	}
}

func (s *refundService) Request(ctx context.Context, userID uuid.UUID, req dto.RequestRefundRequest) (*dto.RefundResponse, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order_id: %w", err)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order does not belong to this user")
	}
	if order.PaymentStatus != model.PaymentPaid {
		return nil, fmt.Errorf("%w: refunds require a PAID order, payment is %s", ErrInvalidTransition, order.PaymentStatus)
	}
	if req.RefundMethod == model.RefundOnline && order.PaymentMethod != model.MethodOnline {
		return nil, fmt.Errorf("online refund requires an online payment")
	}
	if !req.RefundAmount.IsPositive() {
		return nil, fmt.Errorf("refund amount must be positive")
	}

	outstanding, err := s.repo.HasOutstanding(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if outstanding {
		return nil, fmt.Errorf("a refund request is already outstanding for this order")
	}

	refunded, err := s.repo.SumCompleted(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// What the customer actually paid, net of points discount.
	paid := order.TotalAmount.Sub(order.PointsDiscount)
	if req.RefundAmount.Add(refunded).GreaterThan(paid) {
		return nil, fmt.Errorf("refund amount exceeds the refundable balance of %s", paid.Sub(refunded).StringFixed(2))
	}

	refund := &model.Refund{
		OrderID:      orderID,
		RefundAmount: req.RefundAmount,
		RefundReason: req.RefundReason,
		RefundMethod: req.RefundMethod,
		Status:       model.RefundRequested,
	}
	if err := s.repo.Create(ctx, refund); err != nil {
		// Concurrent requests can both pass the count check above; the partial
		// unique index on outstanding refunds catches the loser here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("a refund request is already outstanding for this order")
		}
		return nil, err
	}
	return refundToResponse(refund), nil
}

func (s *refundService) Approve(ctx context.Context, refundID uuid.UUID, adminID uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, refundID)
	if err != nil {
		return nil, fmt.Errorf("refund not found")
	}
	if refund.Status != model.RefundRequested {
		return nil, fmt.Errorf("%w: refund is %s", ErrInvalidTransition, refund.Status)
	}
	order, err := s.orderRepo.FindByID(ctx, refund.OrderID)
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}

	// The REQUESTED → APPROVED flip is the serialization point: of any number
	// of concurrent approvers, exactly one wins this conditional update, and
	// only the winner may settle money.
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, refund.ID, model.RefundRequested, model.RefundApproved, adminID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: refund is no longer REQUESTED", ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	refund.Status = model.RefundApproved
	refund.ProcessedBy = &adminID

	switch refund.RefundMethod {
	case model.RefundOnline:
		if order.GatewayPaymentID == nil {
			return s.failRefund(ctx, refund, "order has no gateway payment reference")
		}
		var gwRefundID string
		cbErr := s.breaker.Execute(func() error {
			ref, err := s.gateway.InitiateRefund(ctx, *order.GatewayPaymentID, refund.RefundAmount)
			if err != nil {
				return err
			}
			gwRefundID = ref
			return nil
		})
		if cbErr != nil {
			if errors.Is(cbErr, infra.ErrBreakerOpen) {
				return s.failRefund(ctx, refund, "payment gateway unavailable (circuit open)")
			}
			return s.failRefund(ctx, refund, fmt.Sprintf("gateway refund failed: %v", cbErr))
		}
		refund.GatewayRefundID = &gwRefundID
	case model.RefundCOD:
		// Cash returns settle out of band; approval records the completion.
	}

	refund.Status = model.RefundCompleted
	if err := s.repo.Update(ctx, refund); err != nil {
		return nil, err
	}

	if err := s.settleOrderIfFullyRefunded(ctx, order); err != nil {
		log.Error().Str("order_id", order.ID.String()).Err(err).Msg("refund: failed to flip order to REFUNDED")
	}
	s.notifyCompletion(ctx, order, refund)
	return refundToResponse(refund), nil
}

func (s *refundService) failRefund(ctx context.Context, refund *model.Refund, reason string) (*dto.RefundResponse, error) {
	refund.Status = model.RefundFailed
	refund.FailureReason = &reason
	if err := s.repo.Update(ctx, refund); err != nil {
		return nil, err
	}
	log.Warn().
		Str("refund_id", refund.ID.String()).
		Str("reason", reason).
		Msg("refund: settlement failed")
	return refundToResponse(refund), fmt.Errorf("%w: %s", ErrGatewayFailure, reason)
}

// settleOrderIfFullyRefunded flips the order's payment to REFUNDED once the
// completed refunds cover everything the customer paid.
func (s *refundService) settleOrderIfFullyRefunded(ctx context.Context, order *model.Order) error {
	refunded, err := s.repo.SumCompleted(ctx, order.ID)
	if err != nil {
		return err
	}
	paid := order.TotalAmount.Sub(order.PointsDiscount)
	if refunded.LessThan(paid) {
		return nil
	}
	return runTx(ctx, s.orderRepo.DB(), func(tx *gorm.DB) error {
		_, err := s.orderRepo.UpdatePaymentStatusTx(tx, order.ID, model.PaymentPaid, model.PaymentRefunded)
		return err
	})
}

func (s *refundService) notifyCompletion(ctx context.Context, order *model.Order, refund *model.Refund) {
	if s.dispatcher == nil {
		return
	}
	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil || user.Email == "" {
		return
	}
	job := worker.EmailJobPayload{
		ToEmail: user.Email,
		Subject: fmt.Sprintf("Refund processed for order %s", order.OrderNumber),
		Body:    fmt.Sprintf("Your refund of Rs %s has been processed.", refund.RefundAmount.StringFixed(2)),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("refund: failed to enqueue email")
	}
}

func (s *refundService) Reject(ctx context.Context, refundID uuid.UUID, adminID uuid.UUID, reason string) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, refundID)
	if err != nil {
		return nil, fmt.Errorf("refund not found")
	}
	if refund.Status != model.RefundRequested {
		return nil, fmt.Errorf("%w: refund is %s", ErrInvalidTransition, refund.Status)
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, refund.ID, model.RefundRequested, model.RefundRejected, adminID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: refund is no longer REQUESTED", ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	refund.Status = model.RefundRejected
	refund.RejectionReason = &reason
	refund.ProcessedBy = &adminID
	if err := s.repo.Update(ctx, refund); err != nil {
		return nil, err
	}
	return refundToResponse(refund), nil
}

func (s *refundService) Get(ctx context.Context, refundID uuid.UUID) (*dto.RefundResponse, error) {
	refund, err := s.repo.FindByID(ctx, refundID)
	if err != nil {
		return nil, fmt.Errorf("refund not found")
	}
	return refundToResponse(refund), nil
}

func (s *refundService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]dto.RefundResponse, error) {
	refunds, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RefundResponse, 0, len(refunds))
	for i := range refunds {
		out = append(out, *refundToResponse(&refunds[i]))
	}
	return out, nil
}

func refundToResponse(r *model.Refund) *dto.RefundResponse {
	var processedBy *string
	if r.ProcessedBy != nil {
		id := r.ProcessedBy.String()
		processedBy = &id
	}
	return &dto.RefundResponse{
		ID:              r.ID.String(),
		OrderID:         r.OrderID.String(),
		RefundAmount:    r.RefundAmount,
		RefundReason:    r.RefundReason,
		RefundMethod:    r.RefundMethod,
		Status:          r.Status,
		GatewayRefundID: r.GatewayRefundID,
		ProcessedBy:     processedBy,
		RejectionReason: r.RejectionReason,
		FailureReason:   r.FailureReason,
		CreatedAt:       r.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
