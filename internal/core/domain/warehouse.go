// internal/core/domain/warehouse.go
package domain

import "time"

// WarehouseRecord is the per-product counter pair at the shared central
// warehouse. Available is always derived, never stored:
// available = total - reserved, and the pair must satisfy
// 0 <= reserved <= total at all times.
type WarehouseRecord struct {
	ProductID        int64      `json:"product_id"`
	TotalQuantity    int        `json:"total_quantity"`
	ReservedQuantity int        `json:"reserved_quantity"`
	Supplier         string     `json:"supplier,omitempty"`
	LastRestock      *time.Time `json:"last_restock,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Available returns the quantity free to be newly reserved.
func (r *WarehouseRecord) Available() int {
	return r.TotalQuantity - r.ReservedQuantity
}

// CheckInvariant validates 0 <= reserved <= total.
func (r *WarehouseRecord) CheckInvariant() error {
	if r.TotalQuantity < 0 || r.ReservedQuantity < 0 {
		return ValidationError("warehouse counters for product %d below zero (total=%d reserved=%d)",
			r.ProductID, r.TotalQuantity, r.ReservedQuantity)
	}
	if r.ReservedQuantity > r.TotalQuantity {
		return ValidationError("warehouse reserved exceeds total for product %d (total=%d reserved=%d)",
			r.ProductID, r.TotalQuantity, r.ReservedQuantity)
	}
	return nil
}

// ReservationResult reports the committed before/after reserved counters.
type ReservationResult struct {
	PreviousReserved int `json:"previous_reserved"`
	NewReserved      int `json:"new_reserved"`
}

// ReceiptResult reports the committed counter changes of a warehouse
// receive, which shrinks total and reserved by the same quantity as the
// stock leaves for a store.
type ReceiptResult struct {
	PreviousTotal    int `json:"previous_total"`
	NewTotal         int `json:"new_total"`
	PreviousReserved int `json:"previous_reserved"`
	NewReserved      int `json:"new_reserved"`
}
