package handler

import (
	"net/http"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BulkOrdersHandler covers the administrative side of wholesale orders:
// the approval queue, approve/reject decisions, and invoice generation.
type BulkOrdersHandler struct{ svc service.OrderService }

func NewBulkOrdersHandler(svc service.OrderService) *BulkOrdersHandler {
	return &BulkOrdersHandler{svc: svc}
}

// ListPending godoc
// @Summary      List bulk orders awaiting approval
// @Tags         bulk-orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.OrderResponse
// @Router       /v1/bulk-orders/pending [get]
func (h *BulkOrdersHandler) ListPending(c *gin.Context) {
	resp, err := h.svc.ListPendingBulk(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list pending bulk orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve godoc
// @Summary      Approve a bulk order
// @Description  Commits stock for the order; fails with 409 when no warehouse can fulfill it.
// @Tags         bulk-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bulk-orders/{id}/approve [post]
func (h *BulkOrdersHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.ApproveBulkOrder(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reject godoc
// @Summary      Reject a bulk order
// @Tags         bulk-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Order UUID"
// @Param        body body dto.RejectBulkRequest true "Reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bulk-orders/{id}/reject [post]
func (h *BulkOrdersHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.RejectBulkRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RejectBulkOrder(c.Request.Context(), id, req.Reason, actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateInvoice godoc
// @Summary      Queue invoice generation for an approved bulk order
// @Tags         bulk-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      202
// @Failure      409 {object} apierror.APIError
// @Router       /v1/bulk-orders/{id}/invoice [post]
func (h *BulkOrdersHandler) GenerateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.GenerateBulkInvoice(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
