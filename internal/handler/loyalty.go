package handler

import (
	"net/http"
	"strconv"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LoyaltyHandler struct {
	svc      service.LoyaltyService
	settings service.SettingsService
}

func NewLoyaltyHandler(svc service.LoyaltyService, settings service.SettingsService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc, settings: settings}
}

// Balance godoc
// @Summary      Current points balance and tier
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.LoyaltyBalanceResponse
// @Router       /v1/loyalty/balance [get]
func (h *LoyaltyHandler) Balance(c *gin.Context) {
	actor := actorFrom(c)
	user, err := h.svc.Balance(c.Request.Context(), actor.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("user not found"))
		return
	}
	c.JSON(http.StatusOK, dto.LoyaltyBalanceResponse{
		UserID:        user.ID.String(),
		PointsBalance: user.PointsBalance,
		LoyaltyTier:   user.LoyaltyTier,
	})
}

// History godoc
// @Summary      Points ledger history
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.LoyaltyHistoryResponse
// @Router       /v1/loyalty/history [get]
func (h *LoyaltyHandler) History(c *gin.Context) {
	actor := actorFrom(c)
	user, err := h.svc.Balance(c.Request.Context(), actor.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("user not found"))
		return
	}
	txns, err := h.svc.History(c.Request.Context(), actor.UserID, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load history"))
		return
	}

	items := make([]dto.LoyaltyTransactionResponse, 0, len(txns))
	for _, t := range txns {
		var orderID *string
		if t.OrderID != nil {
			id := t.OrderID.String()
			orderID = &id
		}
		items = append(items, dto.LoyaltyTransactionResponse{
			ID:          t.ID.String(),
			OrderID:     orderID,
			Type:        t.Type,
			Points:      t.Points,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, dto.LoyaltyHistoryResponse{
		Balance: dto.LoyaltyBalanceResponse{
			UserID:        user.ID.String(),
			PointsBalance: user.PointsBalance,
			LoyaltyTier:   user.LoyaltyTier,
		},
		Transactions: items,
	})
}

// UserBalance godoc
// @Summary      Balance for any user (admin)
// @Tags         loyalty
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User UUID"
// @Success      200 {object} dto.LoyaltyBalanceResponse
// @Router       /v1/loyalty/users/{id} [get]
func (h *LoyaltyHandler) UserBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	user, err := h.svc.Balance(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("user not found"))
		return
	}
	c.JSON(http.StatusOK, dto.LoyaltyBalanceResponse{
		UserID:        user.ID.String(),
		PointsBalance: user.PointsBalance,
		LoyaltyTier:   user.LoyaltyTier,
	})
}

// UpdateSettings godoc
// @Summary      Update loyalty program settings (admin)
// @Description  Only the fields present in the body are written; changes apply to subsequent operations.
// @Tags         loyalty
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateLoyaltySettingsRequest true "Settings"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/loyalty/settings [patch]
func (h *LoyaltyHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateLoyaltySettingsRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	writes := map[string]*string{}
	if req.PointsPerRupee != nil {
		v := req.PointsPerRupee.String()
		writes[model.SettingPointsPerRupee] = &v
	}
	if req.MinRedeemablePoints != nil {
		v := strconv.Itoa(*req.MinRedeemablePoints)
		writes[model.SettingMinRedeemablePoints] = &v
	}
	if req.PointValueInRupees != nil {
		v := req.PointValueInRupees.String()
		writes[model.SettingPointValueInRupees] = &v
	}
	if req.SilverTierThreshold != nil {
		v := strconv.Itoa(*req.SilverTierThreshold)
		writes[model.SettingSilverTierThreshold] = &v
	}
	if req.GoldTierThreshold != nil {
		v := strconv.Itoa(*req.GoldTierThreshold)
		writes[model.SettingGoldTierThreshold] = &v
	}

	for key, value := range writes {
		if err := h.settings.Update(ctx, key, *value); err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("failed to update settings"))
			return
		}
	}
	c.Status(http.StatusNoContent)
}
