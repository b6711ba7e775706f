package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyRepository appends to and folds over the loyalty ledger.
// Transactions are immutable — no Update/Delete.
type LoyaltyRepository interface {
	CreateTx(tx *gorm.DB, t *model.LoyaltyTransaction) error
	// SumEarned folds all-time EARN points for tier derivation.
	SumEarnedTx(tx *gorm.DB, userID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoyaltyTransaction, error)
}

type loyaltyRepo struct{ db *gorm.DB }

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository { return &loyaltyRepo{db: db} }

func (r *loyaltyRepo) CreateTx(tx *gorm.DB, t *model.LoyaltyTransaction) error {
	return tx.Create(t).Error
}

func (r *loyaltyRepo) SumEarnedTx(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	var total int64
	err := tx.Model(&model.LoyaltyTransaction{}).
		Where("user_id = ? AND type = ?", userID, model.LoyaltyEarn).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

func (r *loyaltyRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoyaltyTransaction, error) {
	var txs []model.LoyaltyTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}
