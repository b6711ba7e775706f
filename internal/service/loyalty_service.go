package service

import (
	"context"
	"fmt"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoyaltyResult reports the balance and tier after a ledger operation.
type LoyaltyResult struct {
	PointsEarned  int
	PointsBalance int
	LoyaltyTier   string
}

// LoyaltyService maintains the append-only points ledger and the denormalized
// balance/tier on the user, written together in one transaction.
type LoyaltyService interface {
	// Earn awards floor(orderAmount * pointsPerRupee) points. Zero points
	// writes no transaction and returns the current balance unchanged.
	Earn(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, orderAmount decimal.Decimal) (*LoyaltyResult, error)

	// Redeem burns points for a discount of points * pointValueInRupees.
	Redeem(ctx context.Context, userID uuid.UUID, points int, orderID *uuid.UUID) (decimal.Decimal, error)

	// CapRedemption clamps a requested redemption so the discount never
	// exceeds the order total, recomputing points via ceiling division.
	// Pure computation — no ledger write.
	CapRedemption(points int, total decimal.Decimal, settings LoyaltySettings) (int, decimal.Decimal, error)

	// PrepareRedemption validates a checkout redemption (configuration,
	// minimum, balance — all against the points as requested) and returns
	// the capped points and discount. No ledger write: the write happens at
	// payment capture via ApplyRedemption.
	PrepareRedemption(ctx context.Context, userID uuid.UUID, requestedPoints int, total decimal.Decimal) (int, decimal.Decimal, error)

	// ApplyRedemption performs the ledger write for points already validated
	// and capped by PrepareRedemption. The minimum is not re-checked here —
	// capping may legitimately bring the written amount below it.
	ApplyRedemption(ctx context.Context, userID uuid.UUID, points int, orderID *uuid.UUID) error

	Balance(ctx context.Context, userID uuid.UUID) (*model.User, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoyaltyTransaction, error)
}

type loyaltyService struct {
	repo      repository.LoyaltyRepository
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	settings  SettingsService
}

func NewLoyaltyService(
	repo repository.LoyaltyRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	settings SettingsService,
) LoyaltyService {
	return &loyaltyService{repo: repo, userRepo: userRepo, orderRepo: orderRepo, settings: settings}
}

func (s *loyaltyService) Earn(ctx context.Context, userID uuid.UUID, orderID uuid.UUID, orderAmount decimal.Decimal) (*LoyaltyResult, error) {
	cfg, err := s.settings.LoyaltySettings(ctx)
	if err != nil {
		return nil, err
	}

	pointsEarned := int(orderAmount.Mul(cfg.PointsPerRupee).IntPart()) // floor for nonnegative amounts
	if pointsEarned <= 0 {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &LoyaltyResult{PointsBalance: user.PointsBalance, LoyaltyTier: user.LoyaltyTier}, nil
	}

	var tier string
	err = runTx(ctx, s.userRepo.DB(), func(tx *gorm.DB) error {
		if err := s.userRepo.IncrementPointsTx(tx, userID, pointsEarned); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, &model.LoyaltyTransaction{
			UserID:      userID,
			OrderID:     &orderID,
			Type:        model.LoyaltyEarn,
			Points:      pointsEarned,
			Description: fmt.Sprintf("Earned on order %s", orderID),
		}); err != nil {
			return err
		}

		// Tier derives from cumulative lifetime EARN points, not the
		// spendable balance.
		lifetime, err := s.repo.SumEarnedTx(tx, userID)
		if err != nil {
			return err
		}
		tier = tierFor(lifetime, cfg)
		if err := s.userRepo.UpdateTierTx(tx, userID, tier); err != nil {
			return err
		}
		return s.orderRepo.UpdateFieldsTx(tx, orderID, map[string]interface{}{
			"points_earned": pointsEarned,
		})
	})
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &LoyaltyResult{
		PointsEarned:  pointsEarned,
		PointsBalance: user.PointsBalance,
		LoyaltyTier:   tier,
	}, nil
}

func (s *loyaltyService) Redeem(ctx context.Context, userID uuid.UUID, points int, orderID *uuid.UUID) (decimal.Decimal, error) {
	cfg, err := s.settings.LoyaltySettings(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if !cfg.PointValueInRupees.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: point value must be positive", ErrConfiguration)
	}
	if points < cfg.MinRedeemablePoints {
		return decimal.Zero, ErrBelowMinimum
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if points > user.PointsBalance {
		return decimal.Zero, ErrInsufficientBalance
	}

	discount := decimal.NewFromInt(int64(points)).Mul(cfg.PointValueInRupees)
	if err := s.ApplyRedemption(ctx, userID, points, orderID); err != nil {
		return decimal.Zero, err
	}
	return discount, nil
}

func (s *loyaltyService) CapRedemption(points int, total decimal.Decimal, cfg LoyaltySettings) (int, decimal.Decimal, error) {
	if !cfg.PointValueInRupees.IsPositive() {
		return 0, decimal.Zero, fmt.Errorf("%w: point value must be positive", ErrConfiguration)
	}
	discount := decimal.NewFromInt(int64(points)).Mul(cfg.PointValueInRupees)
	if discount.LessThanOrEqual(total) {
		return points, discount, nil
	}
	// Cap the discount at the order total and recompute points upward to the
	// nearest whole point covering it.
	capped := int(total.Div(cfg.PointValueInRupees).Ceil().IntPart())
	return capped, total, nil
}

func (s *loyaltyService) PrepareRedemption(ctx context.Context, userID uuid.UUID, requestedPoints int, total decimal.Decimal) (int, decimal.Decimal, error) {
	cfg, err := s.settings.LoyaltySettings(ctx)
	if err != nil {
		return 0, decimal.Zero, err
	}
	if !cfg.PointValueInRupees.IsPositive() {
		return 0, decimal.Zero, fmt.Errorf("%w: point value must be positive", ErrConfiguration)
	}
	if requestedPoints < cfg.MinRedeemablePoints {
		return 0, decimal.Zero, ErrBelowMinimum
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	if requestedPoints > user.PointsBalance {
		return 0, decimal.Zero, ErrInsufficientBalance
	}
	return s.CapRedemption(requestedPoints, total, cfg)
}

func (s *loyaltyService) ApplyRedemption(ctx context.Context, userID uuid.UUID, points int, orderID *uuid.UUID) error {
	if points <= 0 {
		return nil
	}
	return runTx(ctx, s.userRepo.DB(), func(tx *gorm.DB) error {
		ok, err := s.userRepo.DecrementPointsGuardedTx(tx, userID, points)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientBalance
		}
		desc := "Points redeemed"
		if orderID != nil {
			desc = fmt.Sprintf("Redeemed on order %s", orderID)
		}
		return s.repo.CreateTx(tx, &model.LoyaltyTransaction{
			UserID:      userID,
			OrderID:     orderID,
			Type:        model.LoyaltyRedeem,
			Points:      points,
			Description: desc,
		})
	})
}

func (s *loyaltyService) Balance(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *loyaltyService) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.LoyaltyTransaction, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func tierFor(lifetimeEarned int64, cfg LoyaltySettings) string {
	switch {
	case lifetimeEarned >= int64(cfg.GoldTierThreshold):
		return model.TierGold
	case lifetimeEarned >= int64(cfg.SilverTierThreshold):
		return model.TierSilver
	default:
		return model.TierBasic
	}
}
