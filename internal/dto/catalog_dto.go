package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2"`
	Description *string         `json:"description" validate:"omitempty"`
	Category    string          `json:"category"    validate:"required"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"is_available"`
}

type CreateWarehouseRequest struct {
	Name    string `json:"name"    validate:"required,min=2"`
	City    string `json:"city"    validate:"required"`
	Pincode string `json:"pincode" validate:"required,len=6"`
	Zone    string `json:"zone"`
}

type WarehouseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Zone     string `json:"zone,omitempty"`
	IsActive bool   `json:"is_active"`
}

type ReceiveStockRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}
