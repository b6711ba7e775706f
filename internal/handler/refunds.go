package handler

import (
	"net/http"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RefundsHandler struct{ svc service.RefundService }

func NewRefundsHandler(svc service.RefundService) *RefundsHandler {
	return &RefundsHandler{svc: svc}
}

// Request godoc
// @Summary      Request a refund
// @Description  Opens a refund request against a paid order. One outstanding request per order.
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RequestRefundRequest true "Refund details"
// @Success      201 {object} dto.RefundResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/refunds [post]
func (h *RefundsHandler) Request(c *gin.Context) {
	var req dto.RequestRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFrom(c)
	resp, err := h.svc.Request(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Approve godoc
// @Summary      Approve and settle a refund
// @Description  ONLINE refunds run through the payment gateway; COD refunds are recorded as settled.
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Refund UUID"
// @Success      200 {object} dto.RefundResponse
// @Failure      409 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/refunds/{id}/approve [post]
func (h *RefundsHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	actor := actorFrom(c)
	resp, err := h.svc.Approve(c.Request.Context(), id, actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject godoc
// @Summary      Reject a refund request
// @Tags         refunds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Refund UUID"
// @Param        body body dto.RejectRefundRequest true "Reason"
// @Success      200 {object} dto.RefundResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/refunds/{id}/reject [post]
func (h *RefundsHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.RejectRefundRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFrom(c)
	resp, err := h.svc.Reject(c.Request.Context(), id, actor.UserID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByOrder godoc
// @Summary      List refunds for an order
// @Tags         refunds
// @Produce      json
// @Security     BearerAuth
// @Param        order_id path string true "Order UUID"
// @Success      200 {array} dto.RefundResponse
// @Router       /v1/orders/{order_id}/refunds [get]
func (h *RefundsHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list refunds"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
