package handler

import (
	"net/http"
	"strconv"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Snapshot godoc
// @Summary      Stock records of one warehouse
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Warehouse UUID"
// @Success      200 {array} dto.StockRecordResponse
// @Router       /v1/warehouses/{id}/stock [get]
func (h *StockHandler) Snapshot(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	records, err := h.svc.Snapshot(c.Request.Context(), warehouseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load stock"))
		return
	}

	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		name := ""
		if r.Product != nil {
			name = r.Product.Name
		}
		out = append(out, dto.StockRecordResponse{
			WarehouseID:      r.WarehouseID.String(),
			ProductID:        r.ProductID.String(),
			Product:          name,
			Quantity:         r.Quantity,
			ReservedQuantity: r.ReservedQuantity,
			Available:        r.Quantity - r.ReservedQuantity,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Transfer godoc
// @Summary      Transfer stock between warehouses
// @Description  Moves unreserved quantity; fails with 409 when the source lacks availability.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TransferStockRequest true "Transfer"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/stock/transfer [post]
func (h *StockHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	from, err := uuid.Parse(req.FromWarehouseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid from_warehouse_id"))
		return
	}
	to, err := uuid.Parse(req.ToWarehouseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid to_warehouse_id"))
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}

	if err := h.svc.Transfer(c.Request.Context(), from, to, productID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Movements godoc
// @Summary      Movement ledger for one product
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Product UUID"
// @Param        limit query int    false "Max rows (default 100)"
// @Success      200 {array} dto.StockMovementResponse
// @Router       /v1/products/{id}/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	movements, err := h.svc.Movements(c.Request.Context(), productID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load movements"))
		return
	}

	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var warehouseID *string
		if m.WarehouseID != nil {
			id := m.WarehouseID.String()
			warehouseID = &id
		}
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID.String(),
			WarehouseID: warehouseID,
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	c.JSON(http.StatusOK, out)
}
