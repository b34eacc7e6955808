// internal/core/domain/purchase_order.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the state of a purchase order
type PurchaseOrderStatus string

// Status constants. pending -> approved -> shipped -> received is the only
// success path; pending and approved may also go to cancelled.
const (
	POPending   PurchaseOrderStatus = "pending"
	POApproved  PurchaseOrderStatus = "approved"
	POShipped   PurchaseOrderStatus = "shipped"
	POReceived  PurchaseOrderStatus = "received"
	POCancelled PurchaseOrderStatus = "cancelled"
)

// ParsePurchaseOrderStatus maps the wire representation to a status.
func ParsePurchaseOrderStatus(s string) (PurchaseOrderStatus, error) {
	switch PurchaseOrderStatus(s) {
	case POPending, POApproved, POShipped, POReceived, POCancelled:
		return PurchaseOrderStatus(s), nil
	default:
		return "", ValidationError("unknown purchase order status %q", s)
	}
}

// CanTransitionTo reports whether moving from s to next is a legal edge of
// the state machine. Terminal states have no outgoing edges and no state
// may be skipped.
func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus) bool {
	switch s {
	case POPending:
		return next == POApproved || next == POCancelled
	case POApproved:
		return next == POShipped || next == POCancelled
	case POShipped:
		return next == POReceived
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are allowed.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == POReceived || s == POCancelled
}

// PurchaseOrderItem is one line of a purchase order. The product name is
// denormalized at creation time so the order stays readable even if the
// catalog changes later.
type PurchaseOrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseOrder is a store's request to draw stock out of the central
// warehouse. Items and the total are frozen at creation; only the status
// field transitions afterwards.
type PurchaseOrder struct {
	ID          uuid.UUID           `json:"id"`
	OrderNumber string              `json:"order_number"`
	StoreID     int64               `json:"store_id"`
	Items       []PurchaseOrderItem `json:"items"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      PurchaseOrderStatus `json:"status"`
	Notes       string              `json:"notes,omitempty"`
	RequestedBy int64               `json:"requested_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Validate performs domain validation on a purchase order before creation.
func (p *PurchaseOrder) Validate() error {
	if p.StoreID <= 0 {
		return ValidationError("store_id is required")
	}
	if len(p.Items) == 0 {
		return ValidationError("purchase order needs at least one item")
	}
	for i := range p.Items {
		if p.Items[i].ProductID <= 0 {
			return ValidationError("item %d: product_id is required", i)
		}
		if p.Items[i].Quantity <= 0 {
			return ValidationError("item %d: quantity must be positive", i)
		}
		if p.Items[i].UnitPrice.IsNegative() {
			return ValidationError("item %d: unit_price cannot be negative", i)
		}
	}
	return nil
}

// ComputeTotals fills item subtotals and the frozen order total.
func (p *PurchaseOrder) ComputeTotals() {
	total := decimal.Zero
	for i := range p.Items {
		p.Items[i].Subtotal = p.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(p.Items[i].Quantity)))
		total = total.Add(p.Items[i].Subtotal)
	}
	p.TotalAmount = total
}

// PrepareForStorage sets the id, initial status and timestamps.
func (p *PurchaseOrder) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = POPending
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.ComputeTotals()
}
