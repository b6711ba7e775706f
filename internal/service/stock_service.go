package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/model"
	"github.com/ukrocks007/hazare-dairy-farm-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StockLine is one (product, quantity) requirement of a reserve, confirm or
// release call.
type StockLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// StockService is the per-warehouse stock ledger. Reserve/Confirm/Release
// are all-or-nothing: a call either applies to every line or to none.
type StockService interface {
	// Reserve places a hold on every line and returns the hold id. Fails
	// with ErrInsufficientStock (and mutates nothing) when any line cannot
	// be satisfied. The hold expires after ttl unless confirmed or released.
	Reserve(ctx context.Context, warehouseID uuid.UUID, items []StockLine, ttl time.Duration) (uuid.UUID, error)

	// Confirm converts the hold into a permanent decrement and mirrors it
	// onto the legacy aggregate counter in the same transaction.
	Confirm(ctx context.Context, warehouseID uuid.UUID, items []StockLine, holdID uuid.UUID, orderID *uuid.UUID) error

	// Release undoes the hold without touching quantity — the compensating
	// action when a step after a successful reservation fails.
	Release(ctx context.Context, warehouseID uuid.UUID, items []StockLine, holdID uuid.UUID, reason string) error

	// Transfer moves unreserved quantity between warehouses.
	Transfer(ctx context.Context, fromWarehouseID, toWarehouseID, productID uuid.UUID, qty int) error

	// Receive books inbound stock at a warehouse and mirrors it onto the
	// legacy aggregate counter.
	Receive(ctx context.Context, warehouseID, productID uuid.UUID, qty int) error

	// CommitAggregate is the no-warehouse fallback: it decrements the legacy
	// store-wide counter directly, all lines or none.
	CommitAggregate(ctx context.Context, items []StockLine, orderID *uuid.UUID) error

	// ReleaseExpired reclaims ACTIVE holds whose TTL has passed. Called by
	// the sweeper cron; returns how many reservations were released.
	ReleaseExpired(ctx context.Context, before time.Time, limit int) (int, error)

	Snapshot(ctx context.Context, warehouseID uuid.UUID) ([]model.StockRecord, error)
	Movements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type stockService struct {
	repo        repository.StockRepository
	productRepo repository.ProductRepository
}

func NewStockService(repo repository.StockRepository, productRepo repository.ProductRepository) StockService {
	return &stockService{repo: repo, productRepo: productRepo}
}

func (s *stockService) Reserve(ctx context.Context, warehouseID uuid.UUID, items []StockLine, ttl time.Duration) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, fmt.Errorf("reserve: no items")
	}
	holdID := uuid.New()
	expiresAt := time.Now().Add(ttl)

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, line := range items {
			ok, err := s.repo.ReserveTx(tx, warehouseID, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Rolls back every line reserved so far — no partial holds.
				return ErrInsufficientStock
			}
			if err := s.repo.CreateReservationTx(tx, &model.StockReservation{
				HoldID:      holdID,
				WarehouseID: warehouseID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				Status:      model.ReservationActive,
				ExpiresAt:   expiresAt,
			}); err != nil {
				return err
			}
			if err := s.repo.CreateMovementTx(tx, &model.StockMovement{
				WarehouseID: &warehouseID,
				ProductID:   line.ProductID,
				Type:        "reserve",
				Quantity:    -line.Quantity,
				ReferenceID: &holdID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return holdID, nil
}

func (s *stockService) Confirm(ctx context.Context, warehouseID uuid.UUID, items []StockLine, holdID uuid.UUID, orderID *uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, line := range items {
			ok, err := s.repo.ConfirmTx(tx, warehouseID, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("confirm without matching reservation: warehouse=%s product=%s", warehouseID, line.ProductID)
			}
			// Legacy aggregate counter moves in the same transaction — the
			// warehouse ledger stays the source of truth.
			if err := s.productRepo.DecrementAggregateTx(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
			if err := s.repo.CreateMovementTx(tx, &model.StockMovement{
				WarehouseID: &warehouseID,
				ProductID:   line.ProductID,
				Type:        "confirm",
				Quantity:    -line.Quantity,
				ReferenceID: orderID,
			}); err != nil {
				return err
			}
		}
		return s.repo.MarkHoldTx(tx, holdID, model.ReservationActive, model.ReservationConfirmed, orderID)
	})
}

func (s *stockService) Release(ctx context.Context, warehouseID uuid.UUID, items []StockLine, holdID uuid.UUID, reason string) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, line := range items {
			ok, err := s.repo.ReleaseTx(tx, warehouseID, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("release without matching reservation: warehouse=%s product=%s", warehouseID, line.ProductID)
			}
			if err := s.repo.CreateMovementTx(tx, &model.StockMovement{
				WarehouseID: &warehouseID,
				ProductID:   line.ProductID,
				Type:        "release",
				Quantity:    line.Quantity,
				Reason:      reason,
				ReferenceID: &holdID,
			}); err != nil {
				return err
			}
		}
		return s.repo.MarkHoldTx(tx, holdID, model.ReservationActive, model.ReservationReleased, nil)
	})
	if err != nil {
		// The compensating action itself failed — there is no retry queue
		// for it, so flag the hold for manual reconciliation.
		log.Error().
			Str("warehouse_id", warehouseID.String()).
			Str("hold_id", holdID.String()).
			Str("reason", reason).
			Err(err).
			Msg("stock release failed — reconciliation incident")
	}
	return err
}

func (s *stockService) Transfer(ctx context.Context, fromWarehouseID, toWarehouseID, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("transfer: quantity must be positive")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.TransferOutTx(tx, fromWarehouseID, productID, qty)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}
		if err := s.repo.AddQuantityTx(tx, toWarehouseID, productID, qty); err != nil {
			return err
		}
		if err := s.repo.CreateMovementTx(tx, &model.StockMovement{
			WarehouseID: &fromWarehouseID,
			ProductID:   productID,
			Type:        "transfer_out",
			Quantity:    -qty,
		}); err != nil {
			return err
		}
		return s.repo.CreateMovementTx(tx, &model.StockMovement{
			WarehouseID: &toWarehouseID,
			ProductID:   productID,
			Type:        "transfer_in",
			Quantity:    qty,
		})
	})
}

func (s *stockService) Receive(ctx context.Context, warehouseID, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("receive: quantity must be positive")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AddQuantityTx(tx, warehouseID, productID, qty); err != nil {
			return err
		}
		if err := s.productRepo.IncrementAggregateTx(tx, productID, qty); err != nil {
			return err
		}
		return s.repo.CreateMovementTx(tx, &model.StockMovement{
			WarehouseID: &warehouseID,
			ProductID:   productID,
			Type:        "inbound",
			Quantity:    qty,
		})
	})
}

func (s *stockService) CommitAggregate(ctx context.Context, items []StockLine, orderID *uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, line := range items {
			ok, err := s.productRepo.DecrementAggregateGuardedTx(tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
			if err := s.repo.CreateMovementTx(tx, &model.StockMovement{
				ProductID:   line.ProductID,
				Type:        "aggregate_commit",
				Quantity:    -line.Quantity,
				Reason:      "no fulfilling warehouse, legacy counter used",
				ReferenceID: orderID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *stockService) ReleaseExpired(ctx context.Context, before time.Time, limit int) (int, error) {
	expired, err := s.repo.ListExpired(ctx, before, limit)
	if err != nil {
		return 0, err
	}

	released := 0
	for _, resv := range expired {
		resv := resv
		err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			// Guarded flip first: a concurrent confirm/release loses or wins
			// exactly once.
			ok, err := s.repo.MarkReservationTx(tx, resv.ID, model.ReservationActive, model.ReservationExpired)
			if err != nil {
				return err
			}
			if !ok {
				return nil // already confirmed or released meanwhile
			}
			if _, err := s.repo.ReleaseTx(tx, resv.WarehouseID, resv.ProductID, resv.Quantity); err != nil {
				return err
			}
			return s.repo.CreateMovementTx(tx, &model.StockMovement{
				WarehouseID: &resv.WarehouseID,
				ProductID:   resv.ProductID,
				Type:        "expired_release",
				Quantity:    resv.Quantity,
				Reason:      "reservation TTL elapsed",
				ReferenceID: &resv.HoldID,
			})
		})
		if err != nil {
			log.Error().
				Str("reservation_id", resv.ID.String()).
				Err(err).
				Msg("expired reservation release failed — reconciliation incident")
			continue
		}
		released++
	}
	return released, nil
}

func (s *stockService) Snapshot(ctx context.Context, warehouseID uuid.UUID) ([]model.StockRecord, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

func (s *stockService) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	return s.repo.ListMovements(ctx, productID, limit)
}
