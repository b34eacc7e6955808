// internal/core/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a POS sale was paid
type PaymentMethod string

// Payment method constants
const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

// ParsePaymentMethod maps the wire representation to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return PaymentMethod(s), nil
	default:
		return "", ValidationError("unknown payment method %q", s)
	}
}

// TransactionItem is one line of a completed sale, denormalized with the
// product name and code at commit time.
type TransactionItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	ProductCode string          `json:"product_code,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PosTransaction is one completed point-of-sale checkout. It is created in
// a single atomic step together with its stock decrements and never mutated
// afterwards; refunds and voids are separate future concerns.
type PosTransaction struct {
	ID              uuid.UUID         `json:"id"`
	TransactionCode string            `json:"transaction_code"`
	StoreID         int64             `json:"store_id"`
	CustomerName    string            `json:"customer_name,omitempty"`
	Items           []TransactionItem `json:"items"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	Tax             decimal.Decimal   `json:"tax"`
	Total           decimal.Decimal   `json:"total"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	AmountTendered  decimal.Decimal   `json:"amount_tendered"`
	ChangeDue       decimal.Decimal   `json:"change_due"`
	CashierID       int64             `json:"cashier_id"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Validate performs domain validation on a sale before pricing.
func (t *PosTransaction) Validate() error {
	if t.StoreID <= 0 {
		return ValidationError("store_id is required")
	}
	if t.CashierID <= 0 {
		return ValidationError("cashier_id is required")
	}
	if len(t.Items) == 0 {
		return ValidationError("transaction needs at least one item")
	}
	for i := range t.Items {
		if t.Items[i].ProductID <= 0 {
			return ValidationError("item %d: product_id is required", i)
		}
		if t.Items[i].Quantity <= 0 {
			return ValidationError("item %d: quantity must be positive", i)
		}
	}
	return nil
}

// Price fills item subtotals, the subtotal, tax at the given rate and the
// grand total. Totals are frozen once the transaction commits.
func (t *PosTransaction) Price(taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for i := range t.Items {
		t.Items[i].Subtotal = t.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(t.Items[i].Quantity)))
		subtotal = subtotal.Add(t.Items[i].Subtotal)
	}
	t.Subtotal = subtotal
	t.Tax = subtotal.Mul(taxRate).Round(2)
	t.Total = t.Subtotal.Add(t.Tax)
}

// SettleCash enforces tendered >= total for cash sales and computes the
// change due. Non-cash methods settle exactly.
func (t *PosTransaction) SettleCash() error {
	if t.PaymentMethod != PaymentCash {
		t.ChangeDue = decimal.Zero
		return nil
	}
	if t.AmountTendered.LessThan(t.Total) {
		return ErrInsufficientPayment
	}
	t.ChangeDue = t.AmountTendered.Sub(t.Total)
	return nil
}

// PrepareForStorage sets the id, status and timestamp.
func (t *PosTransaction) PrepareForStorage() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = "completed"
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
}
