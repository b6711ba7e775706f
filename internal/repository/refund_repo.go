package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RefundRepository is the data access contract for refunds.
type RefundRepository interface {
	Create(ctx context.Context, r *model.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Refund, error)
	// HasOutstanding reports whether a REQUESTED or APPROVED refund already
	// exists for the order (single-outstanding-request invariant).
	HasOutstanding(ctx context.Context, orderID uuid.UUID) (bool, error)
	// SumCompleted folds the COMPLETED refund amounts for an order.
	SumCompleted(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
	Update(ctx context.Context, r *model.Refund) error
	// UpdateStatusTx flips status only while the current status matches from,
	// stamping processed_by. Reports whether the row moved — concurrent
	// approvers race on this flip and exactly one wins.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string, processedBy uuid.UUID) (bool, error)

	DB() *gorm.DB
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepository(db *gorm.DB) RefundRepository { return &refundRepo{db: db} }

func (r *refundRepo) Create(ctx context.Context, rf *model.Refund) error {
	return r.db.WithContext(ctx).Create(rf).Error
}

func (r *refundRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	var rf model.Refund
	err := r.db.WithContext(ctx).First(&rf, id).Error
	return &rf, err
}

func (r *refundRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]model.Refund, error) {
	var refunds []model.Refund
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepo) HasOutstanding(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{model.RefundRequested, model.RefundApproved}).
		Count(&count).Error
	return count > 0, err
}

func (r *refundRepo) SumCompleted(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Refund{}).
		Where("order_id = ? AND status = ?", orderID, model.RefundCompleted).
		Select("COALESCE(SUM(refund_amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *refundRepo) Update(ctx context.Context, rf *model.Refund) error {
	return r.db.WithContext(ctx).Save(rf).Error
}

func (r *refundRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string, processedBy uuid.UUID) (bool, error) {
	res := tx.Model(&model.Refund{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "processed_by": processedBy})
	return res.RowsAffected > 0, res.Error
}

func (r *refundRepo) DB() *gorm.DB { return r.db }
