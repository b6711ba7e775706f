package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a fulfillment location. Orders are fulfilled from exactly one
// warehouse — there is no multi-warehouse split.
type Warehouse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	City      string    `gorm:"not null"`
	Pincode   string    `gorm:"index;not null"`
	Zone      string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockRecord tracks one product's stock at one warehouse.
// Invariant: 0 <= reserved_quantity <= quantity. Available stock is
// quantity - reserved_quantity and is never materialized.
type StockRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product"`
	Quantity         int       `gorm:"not null;default:0"`
	ReservedQuantity int       `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
}

// Reservation status values.
const (
	ReservationActive    = "ACTIVE"
	ReservationConfirmed = "CONFIRMED"
	ReservationReleased  = "RELEASED"
	ReservationExpired   = "EXPIRED"
)

// StockReservation is one held line of a reserve call. A hold that is never
// confirmed or released is reclaimed by the sweeper once expires_at passes,
// so an abandoned checkout cannot leak stock forever.
type StockReservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// HoldID groups the lines of one reserve call; confirm/release flip the
	// whole group at once.
	HoldID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null"`
	Quantity    int        `gorm:"not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	ExpiresAt   time.Time  `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockMovement is an immutable event in the stock ledger. Entries are never
// updated or deleted — corrections append inverse entries.
// Type: "reserve" | "confirm" | "release" | "transfer_in" | "transfer_out" |
// "expired_release" | "aggregate_commit" | "inbound"
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WarehouseID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"not null"`
	Quantity    int        `gorm:"not null"` // positive = into available, negative = out
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // order or reservation id
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
