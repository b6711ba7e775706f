package service

import (
	"context"
	"strconv"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// LoyaltySettings is the value object passed into every ledger operation.
// It is loaded fresh from the settings store per request — never cached as
// ambient global state — so an admin update takes effect on the next call.
type LoyaltySettings struct {
	PointsPerRupee      decimal.Decimal
	MinRedeemablePoints int
	PointValueInRupees  decimal.Decimal
	SilverTierThreshold int
	GoldTierThreshold   int
}

// Defaults used when a key is absent from the store.
var defaultLoyaltySettings = LoyaltySettings{
	PointsPerRupee:      decimal.NewFromFloat(0.1), // 1 point per 10 rupees
	MinRedeemablePoints: 100,
	PointValueInRupees:  decimal.NewFromInt(1),
	SilverTierThreshold: 1000,
	GoldTierThreshold:   5000,
}

// SettingsService assembles LoyaltySettings from the string-typed store.
type SettingsService interface {
	LoyaltySettings(ctx context.Context) (LoyaltySettings, error)
	Update(ctx context.Context, key, value string) error
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) LoyaltySettings(ctx context.Context) (LoyaltySettings, error) {
	out := defaultLoyaltySettings

	out.PointsPerRupee = s.decimalOr(ctx, model.SettingPointsPerRupee, out.PointsPerRupee)
	out.MinRedeemablePoints = s.intOr(ctx, model.SettingMinRedeemablePoints, out.MinRedeemablePoints)
	out.PointValueInRupees = s.decimalOr(ctx, model.SettingPointValueInRupees, out.PointValueInRupees)
	out.SilverTierThreshold = s.intOr(ctx, model.SettingSilverTierThreshold, out.SilverTierThreshold)
	out.GoldTierThreshold = s.intOr(ctx, model.SettingGoldTierThreshold, out.GoldTierThreshold)

	return out, nil
}

func (s *settingsService) Update(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, key, value)
}

// decimalOr returns the stored value or fallback when the key is absent or
// unparsable. A present-but-invalid value is treated as absent here; the
// strictly-positive check for point value happens at redemption time where it
// is rejected as ErrConfiguration.
func (s *settingsService) decimalOr(ctx context.Context, key string, fallback decimal.Decimal) decimal.Decimal {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}

func (s *settingsService) intOr(ctx context.Context, key string, fallback int) int {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
