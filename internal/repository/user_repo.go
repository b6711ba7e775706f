package repository

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository covers login plus the loyalty-relevant account fields.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	IncrementPointsTx(tx *gorm.DB, id uuid.UUID, points int) error
	// DecrementPointsGuardedTx only succeeds when the balance can cover the
	// redemption; the check and the decrement are one statement.
	DecrementPointsGuardedTx(tx *gorm.DB, id uuid.UUID, points int) (bool, error)
	UpdateTierTx(tx *gorm.DB, id uuid.UUID, tier string) error

	DB() *gorm.DB
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ? AND is_active = true", email).First(&u).Error
	return &u, err
}

func (r *userRepo) IncrementPointsTx(tx *gorm.DB, id uuid.UUID, points int) error {
	return tx.Model(&model.User{}).Where("id = ?", id).
		Update("points_balance", gorm.Expr("points_balance + ?", points)).Error
}

func (r *userRepo) DecrementPointsGuardedTx(tx *gorm.DB, id uuid.UUID, points int) (bool, error) {
	res := tx.Model(&model.User{}).
		Where("id = ? AND points_balance >= ?", id, points).
		Update("points_balance", gorm.Expr("points_balance - ?", points))
	return res.RowsAffected > 0, res.Error
}

func (r *userRepo) UpdateTierTx(tx *gorm.DB, id uuid.UUID, tier string) error {
	return tx.Model(&model.User{}).Where("id = ?", id).Update("loyalty_tier", tier).Error
}

func (r *userRepo) DB() *gorm.DB { return r.db }
