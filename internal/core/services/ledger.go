// internal/core/services/ledger.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// Ledger bundles the transaction-scoped stock primitives every service
// mutation is built from. All methods run inside a caller-owned pgx.Tx:
// they lock the counter row, write the new quantities and append the
// matching ledger entry, and never commit on their own. That keeps a POS
// sale, a warehouse reservation and a purchase order receipt each a single
// atomic unit of work no matter how many counters it touches.
type Ledger struct {
	inventory ports.InventoryRepository
	warehouse ports.WarehouseRepository
	movements ports.MovementRepository
	logger    *slog.Logger
}

// NewLedger creates the shared stock ledger primitives
func NewLedger(
	inventory ports.InventoryRepository,
	warehouse ports.WarehouseRepository,
	movements ports.MovementRepository,
	logger *slog.Logger,
) *Ledger {
	return &Ledger{
		inventory: inventory,
		warehouse: warehouse,
		movements: movements,
		logger:    logger.With(slog.String("service", "ledger")),
	}
}

// AdjustStoreParams describes one store counter change inside a
// transaction. MovementType overrides the mode's default ledger entry
// type when set, e.g. a POS sale records "sale" instead of "adjust-out".
type AdjustStoreParams struct {
	StoreID      int64
	ProductID    int64
	Mode         domain.AdjustmentMode
	Quantity     int
	MovementType domain.MovementType
	Reason       string
	ActorID      *int64
}

// AdjustStore applies one adjustment to a (store, product) counter and
// appends the matching ledger entry. Rows are created lazily for in and
// set modes; out on a missing row is ErrNotFound. A result that would go
// negative is ErrInsufficientStock and nothing is written.
func (l *Ledger) AdjustStore(ctx context.Context, tx pgx.Tx, params AdjustStoreParams) (*domain.AdjustmentResult, *domain.StoreInventoryRecord, error) {
	record, err := l.inventory.GetForUpdate(ctx, tx, params.StoreID, params.ProductID)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, nil, err
		}
		if params.Mode == domain.AdjustOut {
			return nil, nil, err
		}

		record = &domain.StoreInventoryRecord{
			StoreID:   params.StoreID,
			ProductID: params.ProductID,
			Quantity:  0,
		}
		if err := l.inventory.Create(ctx, tx, record); err != nil {
			return nil, nil, err
		}
	}

	previous := record.Quantity
	var next int
	switch params.Mode {
	case domain.AdjustIn:
		next = previous + params.Quantity
	case domain.AdjustOut:
		next = previous - params.Quantity
	case domain.AdjustSet:
		next = params.Quantity
	default:
		return nil, nil, domain.ValidationError("unknown adjustment mode")
	}

	if next < 0 {
		return nil, nil, fmt.Errorf("store %d product %d: have %d, need %d: %w",
			params.StoreID, params.ProductID, previous, params.Quantity, domain.ErrInsufficientStock)
	}

	if err := l.inventory.SetQuantity(ctx, tx, params.StoreID, params.ProductID, next); err != nil {
		return nil, nil, err
	}

	movementType := params.MovementType
	if movementType == "" {
		movementType = params.Mode.MovementType()
	}

	storeID := params.StoreID
	movement := &domain.StockMovement{
		Scope:            domain.ScopeStore,
		StoreID:          &storeID,
		ProductID:        params.ProductID,
		Type:             movementType,
		Quantity:         params.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           params.Reason,
		ActorID:          params.ActorID,
	}
	if err := l.movements.Append(ctx, tx, movement); err != nil {
		return nil, nil, err
	}

	record.Quantity = next
	return &domain.AdjustmentResult{Previous: previous, New: next}, record, nil
}

// Reserve puts quantity on hold at the warehouse for a purchase order.
// Fails with ErrInsufficientAvailable when the hold would exceed what is
// free, leaving the counters untouched.
func (l *Ledger) Reserve(ctx context.Context, tx pgx.Tx, productID int64, quantity int, reason string, actorID *int64) (*domain.ReservationResult, error) {
	record, err := l.warehouse.GetForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > record.Available() {
		return nil, fmt.Errorf("product %d: available %d, requested %d: %w",
			productID, record.Available(), quantity, domain.ErrInsufficientAvailable)
	}

	previous := record.ReservedQuantity
	next := previous + quantity

	if err := l.warehouse.SetQuantities(ctx, tx, productID, record.TotalQuantity, next); err != nil {
		return nil, err
	}

	movement := &domain.StockMovement{
		Scope:            domain.ScopeWarehouse,
		ProductID:        productID,
		Type:             domain.MovementReserve,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		ActorID:          actorID,
	}
	if err := l.movements.Append(ctx, tx, movement); err != nil {
		return nil, err
	}

	return &domain.ReservationResult{PreviousReserved: previous, NewReserved: next}, nil
}

// Release returns held quantity to the free pool, e.g. when a purchase
// order is cancelled. Releasing more than is currently held is a
// validation error.
func (l *Ledger) Release(ctx context.Context, tx pgx.Tx, productID int64, quantity int, reason string, actorID *int64) (*domain.ReservationResult, error) {
	record, err := l.warehouse.GetForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > record.ReservedQuantity {
		return nil, domain.ValidationError("product %d: reserved %d, cannot release %d",
			productID, record.ReservedQuantity, quantity)
	}

	previous := record.ReservedQuantity
	next := previous - quantity

	if err := l.warehouse.SetQuantities(ctx, tx, productID, record.TotalQuantity, next); err != nil {
		return nil, err
	}

	movement := &domain.StockMovement{
		Scope:            domain.ScopeWarehouse,
		ProductID:        productID,
		Type:             domain.MovementRelease,
		Quantity:         quantity,
		PreviousQuantity: previous,
		NewQuantity:      next,
		Reason:           reason,
		ActorID:          actorID,
	}
	if err := l.movements.Append(ctx, tx, movement); err != nil {
		return nil, err
	}

	return &domain.ReservationResult{PreviousReserved: previous, NewReserved: next}, nil
}

// Receive moves held quantity out of the warehouse as it arrives at a
// store: total and reserved both shrink by the same amount, so the free
// pool is unchanged.
func (l *Ledger) Receive(ctx context.Context, tx pgx.Tx, productID int64, quantity int, reason string, actorID *int64) (*domain.ReceiptResult, error) {
	record, err := l.warehouse.GetForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if quantity > record.ReservedQuantity {
		return nil, domain.ValidationError("product %d: reserved %d, cannot receive %d",
			productID, record.ReservedQuantity, quantity)
	}

	result := &domain.ReceiptResult{
		PreviousTotal:    record.TotalQuantity,
		NewTotal:         record.TotalQuantity - quantity,
		PreviousReserved: record.ReservedQuantity,
		NewReserved:      record.ReservedQuantity - quantity,
	}

	if err := l.warehouse.SetQuantities(ctx, tx, productID, result.NewTotal, result.NewReserved); err != nil {
		return nil, err
	}

	movement := &domain.StockMovement{
		Scope:            domain.ScopeWarehouse,
		ProductID:        productID,
		Type:             domain.MovementReceive,
		Quantity:         quantity,
		PreviousQuantity: result.PreviousTotal,
		NewQuantity:      result.NewTotal,
		Reason:           reason,
		ActorID:          actorID,
	}
	if err := l.movements.Append(ctx, tx, movement); err != nil {
		return nil, err
	}

	return result, nil
}
