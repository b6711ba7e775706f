package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WarehouseRepository lists fulfillment locations for the selector.
type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	// ListActive returns active warehouses, those matching preferredPincode
	// first. Empty pincode means no locality preference.
	ListActive(ctx context.Context, preferredPincode string) ([]model.Warehouse, error)
}

type warehouseRepo struct{ db *gorm.DB }

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository { return &warehouseRepo{db: db} }

func (r *warehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).First(&w, id).Error
	return &w, err
}

func (r *warehouseRepo) ListActive(ctx context.Context, preferredPincode string) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	q := r.db.WithContext(ctx).Where("is_active = true")
	if preferredPincode != "" {
		q = q.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN pincode = ? THEN 0 ELSE 1 END, created_at ASC",
			Vars:               []interface{}{preferredPincode},
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order("created_at ASC")
	}
	err := q.Find(&warehouses).Error
	return warehouses, err
}
