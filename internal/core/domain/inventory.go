// internal/core/domain/inventory.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentMode is a closed set of ways a store quantity can change.
// Keeping it a dedicated type (instead of a free-form string) makes an
// illegal mode unrepresentable past the request boundary.
type AdjustmentMode int

const (
	// AdjustIn adds the given quantity to the current stock.
	AdjustIn AdjustmentMode = iota
	// AdjustOut subtracts the given quantity; the result must stay >= 0.
	AdjustOut
	// AdjustSet overwrites the stock with an absolute value.
	AdjustSet
)

// ParseAdjustmentMode maps the wire representation to an AdjustmentMode.
func ParseAdjustmentMode(s string) (AdjustmentMode, error) {
	switch s {
	case "in":
		return AdjustIn, nil
	case "out":
		return AdjustOut, nil
	case "set":
		return AdjustSet, nil
	default:
		return 0, ValidationError("unknown adjustment mode %q", s)
	}
}

func (m AdjustmentMode) String() string {
	switch m {
	case AdjustIn:
		return "in"
	case AdjustOut:
		return "out"
	case AdjustSet:
		return "set"
	default:
		return "unknown"
	}
}

// MovementType returns the ledger entry type recorded for this mode.
func (m AdjustmentMode) MovementType() MovementType {
	switch m {
	case AdjustIn:
		return MovementAdjustIn
	case AdjustOut:
		return MovementAdjustOut
	default:
		return MovementAdjustSet
	}
}

// StoreInventoryRecord is the current quantity-on-hand for one
// (store, product) pair. Created lazily the first time a store stocks a
// product; the quantity is never negative.
type StoreInventoryRecord struct {
	StoreID      int64     `json:"store_id"`
	ProductID    int64     `json:"product_id"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"min_threshold"`
	MaxThreshold int       `json:"max_threshold"`
	Location     string    `json:"location,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BelowMinimum reports whether the record is in low-stock territory.
func (r *StoreInventoryRecord) BelowMinimum() bool {
	return r.Quantity < r.MinThreshold
}

// MovementScope says which counter family a ledger entry describes.
type MovementScope string

const (
	ScopeStore     MovementScope = "store"
	ScopeWarehouse MovementScope = "warehouse"
)

// MovementType classifies the cause of a single counter change.
type MovementType string

const (
	MovementSale      MovementType = "sale"
	MovementAdjustIn  MovementType = "adjust-in"
	MovementAdjustOut MovementType = "adjust-out"
	MovementAdjustSet MovementType = "adjust-set"
	MovementReserve   MovementType = "reserve"
	MovementRelease   MovementType = "release"
	MovementReceive   MovementType = "receive"
)

// StockMovement is one immutable audit-log entry. Entries are appended in
// the same transaction as the counter change they describe and are never
// updated or deleted; corrections are new entries.
type StockMovement struct {
	ID               uuid.UUID     `json:"id"`
	Scope            MovementScope `json:"scope"`
	StoreID          *int64        `json:"store_id,omitempty"`
	ProductID        int64         `json:"product_id"`
	Type             MovementType  `json:"type"`
	Quantity         int           `json:"quantity"`
	PreviousQuantity int           `json:"previous_quantity"`
	NewQuantity      int           `json:"new_quantity"`
	Reason           string        `json:"reason,omitempty"`
	ActorID          *int64        `json:"actor_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// PrepareForStorage assigns the movement id and timestamp. Ids are
// generated exactly once per committed mutation; the primary key rejects
// any replay of the same id.
func (m *StockMovement) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}

// AdjustmentResult reports the committed before/after quantities of a
// store adjustment.
type AdjustmentResult struct {
	Previous int `json:"previous_stock"`
	New      int `json:"new_stock"`
}
