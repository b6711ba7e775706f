package repository

import (
	"context"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockRepository is the data access contract for the per-warehouse stock
// ledger. Every mutating method is a single conditional UPDATE so the
// availability check and the increment/decrement are one atomic statement —
// a false return means the precondition did not hold and nothing changed.
type StockRepository interface {
	FindRecord(ctx context.Context, warehouseID, productID uuid.UUID) (*model.StockRecord, error)
	ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]model.StockRecord, error)
	UpsertRecord(ctx context.Context, rec *model.StockRecord) error

	// ReserveTx increments reserved_quantity only when
	// quantity - reserved_quantity >= qty.
	ReserveTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error)
	// ConfirmTx converts a reservation into a permanent decrement: quantity
	// and reserved_quantity both drop by qty.
	ConfirmTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error)
	// ReleaseTx undoes a reservation without touching quantity.
	ReleaseTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error)
	// TransferOutTx removes unreserved quantity from the source warehouse.
	TransferOutTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error)
	// AddQuantityTx adds quantity at the destination, creating the record if
	// it does not exist yet.
	AddQuantityTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) error

	// Reservation rows (TTL bookkeeping)
	CreateReservationTx(tx *gorm.DB, r *model.StockReservation) error
	MarkHoldTx(tx *gorm.DB, holdID uuid.UUID, from, to string, orderID *uuid.UUID) error
	MarkReservationTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error)
	ListExpired(ctx context.Context, before time.Time, limit int) ([]model.StockReservation, error)

	// Movement ledger (append-only)
	CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error
	ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)

	DB() *gorm.DB
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) FindRecord(ctx context.Context, warehouseID, productID uuid.UUID) (*model.StockRecord, error) {
	var rec model.StockRecord
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&rec).Error
	return &rec, err
}

func (r *stockRepo) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]model.StockRecord, error) {
	var recs []model.StockRecord
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("warehouse_id = ?", warehouseID).
		Find(&recs).Error
	return recs, err
}

func (r *stockRepo) UpsertRecord(ctx context.Context, rec *model.StockRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *stockRepo) ReserveTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.StockRecord{}).
		Where("warehouse_id = ? AND product_id = ? AND quantity - reserved_quantity >= ?",
			warehouseID, productID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) ConfirmTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.StockRecord{}).
		Where("warehouse_id = ? AND product_id = ? AND reserved_quantity >= ? AND quantity >= ?",
			warehouseID, productID, qty, qty).
		Updates(map[string]interface{}{
			"quantity":          gorm.Expr("quantity - ?", qty),
			"reserved_quantity": gorm.Expr("reserved_quantity - ?", qty),
		})
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) ReleaseTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.StockRecord{}).
		Where("warehouse_id = ? AND product_id = ? AND reserved_quantity >= ?",
			warehouseID, productID, qty).
		Update("reserved_quantity", gorm.Expr("reserved_quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) TransferOutTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.StockRecord{}).
		Where("warehouse_id = ? AND product_id = ? AND quantity - reserved_quantity >= ?",
			warehouseID, productID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) AddQuantityTx(tx *gorm.DB, warehouseID, productID uuid.UUID, qty int) error {
	res := tx.Model(&model.StockRecord{}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return tx.Create(&model.StockRecord{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    qty,
		}).Error
	}
	return nil
}

func (r *stockRepo) CreateReservationTx(tx *gorm.DB, resv *model.StockReservation) error {
	return tx.Create(resv).Error
}

// MarkHoldTx flips every reservation row of a hold from one status to another
// and optionally attaches the order created after the hold was taken.
func (r *stockRepo) MarkHoldTx(tx *gorm.DB, holdID uuid.UUID, from, to string, orderID *uuid.UUID) error {
	updates := map[string]interface{}{"status": to}
	if orderID != nil {
		updates["order_id"] = *orderID
	}
	return tx.Model(&model.StockReservation{}).
		Where("hold_id = ? AND status = ?", holdID, from).
		Updates(updates).Error
}

func (r *stockRepo) MarkReservationTx(tx *gorm.DB, id uuid.UUID, from, to string) (bool, error) {
	res := tx.Model(&model.StockReservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (r *stockRepo) ListExpired(ctx context.Context, before time.Time, limit int) ([]model.StockReservation, error) {
	var resvs []model.StockReservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.ReservationActive, before).
		Order("expires_at ASC").
		Limit(limit).
		Find(&resvs).Error
	return resvs, err
}

func (r *stockRepo) CreateMovementTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockRepo) ListMovements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	var movs []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movs).Error
	return movs, err
}

func (r *stockRepo) DB() *gorm.DB { return r.db }
