package handler

import (
	"net/http"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/apierror"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/dto"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves the thin catalog surface the storefront needs:
// product and warehouse registration for admins, product listing for
// everyone, and inbound stock receipts. Reads go straight to the
// repositories; only receipts carry enough logic to warrant the service.
type CatalogHandler struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	stock         service.StockService
}

func NewCatalogHandler(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	stock service.StockService,
) *CatalogHandler {
	return &CatalogHandler{productRepo: productRepo, warehouseRepo: warehouseRepo, stock: stock}
}

// CreateProduct godoc
// @Summary      Register a product (admin)
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201 {object} dto.ProductResponse
// @Router       /v1/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsAvailable: true,
	}
	if err := h.productRepo.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, productToResponse(p))
}

// ListProducts godoc
// @Summary      List available products
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ProductResponse
// @Router       /v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.productRepo.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	c.JSON(http.StatusOK, out)
}

// GetProduct godoc
// @Summary      Fetch one product
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	p, err := h.productRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, productToResponse(p))
}

// CreateWarehouse godoc
// @Summary      Register a warehouse (admin)
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateWarehouseRequest true "Warehouse"
// @Success      201 {object} dto.WarehouseResponse
// @Router       /v1/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	w := &model.Warehouse{
		Name:     req.Name,
		City:     req.City,
		Pincode:  req.Pincode,
		Zone:     req.Zone,
		IsActive: true,
	}
	if err := h.warehouseRepo.Create(c.Request.Context(), w); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, warehouseToResponse(w))
}

// ListWarehouses godoc
// @Summary      List active warehouses (admin)
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.WarehouseResponse
// @Router       /v1/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouseRepo.ListActive(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list warehouses"))
		return
	}
	out := make([]dto.WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		out = append(out, *warehouseToResponse(&warehouses[i]))
	}
	c.JSON(http.StatusOK, out)
}

// ReceiveStock godoc
// @Summary      Book inbound stock at a warehouse (admin)
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Warehouse UUID"
// @Param        body body dto.ReceiveStockRequest true "Receipt"
// @Success      204
// @Router       /v1/warehouses/{id}/stock [post]
func (h *CatalogHandler) ReceiveStock(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.ReceiveStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	if err := h.stock.Receive(c.Request.Context(), warehouseID, productID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		IsAvailable: p.IsAvailable,
	}
}

func warehouseToResponse(w *model.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:       w.ID.String(),
		Name:     w.Name,
		City:     w.City,
		Pincode:  w.Pincode,
		Zone:     w.Zone,
		IsActive: w.IsActive,
	}
}
