package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is the data access contract for orders.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByGatewayOrderID(ctx context.Context, ref string) (*model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListPendingBulk(ctx context.Context) ([]model.Order, error)

	// UpdateStatusTx moves status only when the current value matches — the
	// guard makes concurrent transition attempts lose cleanly.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	UpdatePaymentStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	// UpdateBulkStatusTx is the idempotency guard for bulk approval: the
	// stock commit triggered by approval runs at most once per order.
	UpdateBulkStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&o, id).Error
	return &o, err
}

func (r *orderRepo) FindByGatewayOrderID(ctx context.Context, ref string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("gateway_order_id = ?", ref).First(&o).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DeliveryPartnerID != "" {
		q = q.Where("delivery_partner_id = ?", filter.DeliveryPartnerID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) ListPendingBulk(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("is_bulk_order = true AND bulk_order_status = ?", model.BulkPendingApproval).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) UpdatePaymentStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) UpdateBulkStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND bulk_order_status = ?", id, from).
		Update("bulk_order_status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.Order{}).Where("id = ?", id).Updates(fields).Error
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
