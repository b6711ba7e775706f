package handler

import (
	"net/http"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/middleware"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)
	return service.Actor{UserID: userID, Role: claims.Role}
}

// Checkout godoc
// @Summary      Place an order
// @Description  Reserves stock at the selected warehouse, applies loyalty redemption, and for ONLINE payments returns the gateway order reference.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Cart"
// @Success      201  {object} dto.OrderResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor := actorFrom(c)

	resp, err := h.svc.Checkout(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// VerifyPayment godoc
// @Summary      Verify an online payment
// @Description  Validates the gateway callback signature and marks the order paid.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.VerifyPaymentRequest true "Gateway callback fields"
// @Success      200 {object} dto.OrderResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders/verify-payment [post]
func (h *OrdersHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Fetch one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List orders
// @Description  Customers see their own orders, delivery partners their assignments, admins everything.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Per page (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	actor := actorFrom(c)
	switch actor.Role {
	case model.RoleCustomer:
		filter.UserID = actor.UserID.String()
	case model.RoleDeliveryPartner:
		filter.DeliveryPartnerID = actor.UserID.String()
	}

	resp, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Transition an order
// @Description  Admins move orders forward (or cancel before dispatch); delivery partners mark their own orders out-for-delivery and delivered.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Order UUID"
// @Param        body body dto.UpdateStatusRequest true "Target status"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/orders/{id}/status [patch]
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status, actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignPartner godoc
// @Summary      Assign a delivery partner
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Order UUID"
// @Param        body body dto.AssignPartnerRequest true "Partner"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/orders/{id}/assign [patch]
func (h *OrdersHandler) AssignPartner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AssignPartnerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	partnerID, err := uuid.Parse(req.DeliveryPartnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid delivery_partner_id"))
		return
	}
	if err := h.svc.AssignDeliveryPartner(c.Request.Context(), id, partnerID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CollectCash godoc
// @Summary      Record doorstep cash collection
// @Description  Delivery partner confirms COD payment received; awards loyalty points.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/orders/{id}/collect-cash [post]
func (h *OrdersHandler) CollectCash(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.CollectCashPayment(c.Request.Context(), id, actorFrom(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
