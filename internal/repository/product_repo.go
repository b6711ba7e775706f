package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository is the minimal catalog surface the fulfillment core needs.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListAvailable(ctx context.Context) ([]model.Product, error)

	// IncrementAggregateTx mirrors inbound stock onto the legacy counter.
	IncrementAggregateTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// DecrementAggregateTx mirrors a warehouse-scoped commit onto the legacy
	// store-wide counter. Clamped at zero — the warehouse ledger is the
	// source of truth, this counter is a read-model.
	DecrementAggregateTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// DecrementAggregateGuardedTx is the no-warehouse fallback: it only
	// succeeds when the aggregate counter can satisfy the quantity. Returns
	// false when the conditional update matched no row.
	DecrementAggregateGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) ListAvailable(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_available = true").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) IncrementAggregateTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

func (r *productRepo) DecrementAggregateTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("stock", gorm.Expr("GREATEST(stock - ?, 0)", qty)).Error
}

func (r *productRepo) DecrementAggregateGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
