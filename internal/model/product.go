package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item. Price is copied into OrderItem at checkout and
// never re-read afterwards.
//
// Stock is the legacy store-wide counter kept from before warehouses existed.
// The per-warehouse StockRecord ledger is the source of truth; this counter is
// decremented inside the same transaction as every warehouse-scoped commit so
// the two never drift.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Description *string
	Category    string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0"`
	IsAvailable bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
