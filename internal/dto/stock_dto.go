package dto

type TransferStockRequest struct {
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id"   validate:"required,uuid"`
	ProductID       string `json:"product_id"        validate:"required,uuid"`
	Quantity        int    `json:"quantity"          validate:"required,min=1"`
}

type StockRecordResponse struct {
	WarehouseID      string `json:"warehouse_id"`
	ProductID        string `json:"product_id"`
	Product          string `json:"product,omitempty"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reserved_quantity"`
	Available        int    `json:"available"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	WarehouseID *string `json:"warehouse_id,omitempty"`
	ProductID   string  `json:"product_id"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	Reason      string  `json:"reason,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
