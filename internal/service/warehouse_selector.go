package service

import (
	"context"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"
)

// WarehouseSelector picks the fulfilling warehouse for a requested item set.
// An order is fulfilled from exactly one warehouse; there is no
// multi-warehouse split, so a selection can fail even when aggregate stock
// across warehouses would suffice.
type WarehouseSelector interface {
	// Select returns the first active warehouse — preferring one matching
	// the pincode hint — whose records can satisfy every line
	// simultaneously. Returns (nil, nil) when none qualifies; callers then
	// fall back to the legacy aggregate counter.
	Select(ctx context.Context, items []StockLine, pincode string) (*model.Warehouse, error)
}

type warehouseSelector struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
}

func NewWarehouseSelector(warehouseRepo repository.WarehouseRepository, stockRepo repository.StockRepository) WarehouseSelector {
	return &warehouseSelector{warehouseRepo: warehouseRepo, stockRepo: stockRepo}
}

func (s *warehouseSelector) Select(ctx context.Context, items []StockLine, pincode string) (*model.Warehouse, error) {
	warehouses, err := s.warehouseRepo.ListActive(ctx, pincode)
	if err != nil {
		return nil, err
	}

	for i := range warehouses {
		w := &warehouses[i]
		if s.canFulfill(ctx, w, items) {
			return w, nil
		}
	}
	// No warehouse qualifies — not an error.
	return nil, nil
}

// canFulfill checks available >= requested for every line. This is a
// pre-flight read; the reservation itself re-checks atomically, so a
// concurrent checkout racing past this point still cannot oversell.
func (s *warehouseSelector) canFulfill(ctx context.Context, w *model.Warehouse, items []StockLine) bool {
	for _, line := range items {
		rec, err := s.stockRepo.FindRecord(ctx, w.ID, line.ProductID)
		if err != nil {
			return false
		}
		if rec.Quantity-rec.ReservedQuantity < line.Quantity {
			return false
		}
	}
	return true
}
