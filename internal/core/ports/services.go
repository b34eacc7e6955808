// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gajahnusa/retail-be/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=../../../test/mocks/mock_services.go -package=mocks

// AdjustParams carries one store stock adjustment request.
type AdjustParams struct {
	StoreID   int64
	ProductID int64
	Mode      domain.AdjustmentMode
	Quantity  int
	Reason    string
	ActorID   *int64
}

// InventoryService exposes the store-level stock operations.
type InventoryService interface {
	Adjust(ctx context.Context, params AdjustParams) (*domain.AdjustmentResult, error)
	List(ctx context.Context, filter InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error)
	ListMovements(ctx context.Context, filter MovementListFilter) ([]domain.StockMovement, int64, error)
}

// WarehouseService exposes read access to the central warehouse counters.
// Mutations go through the purchase order workflow only.
type WarehouseService interface {
	Get(ctx context.Context, productID int64) (*domain.WarehouseRecord, error)
	List(ctx context.Context, filter WarehouseListFilter) ([]domain.WarehouseRecord, int64, error)
}

// PurchaseOrderItemParams is one requested line of a new purchase order.
// Pricing comes from the catalog at creation time, not from the caller.
type PurchaseOrderItemParams struct {
	ProductID int64
	Quantity  int
}

// CreatePurchaseOrderParams carries a purchase order creation request.
type CreatePurchaseOrderParams struct {
	StoreID     int64
	Items       []PurchaseOrderItemParams
	Notes       string
	RequestedBy int64
}

// PurchaseOrderService drives the purchase order state machine and the
// warehouse reservations that hang off it.
type PurchaseOrderService interface {
	Create(ctx context.Context, params CreatePurchaseOrderParams) (*domain.PurchaseOrder, error)
	Transition(ctx context.Context, id uuid.UUID, next domain.PurchaseOrderStatus, actorID *int64) (*domain.PurchaseOrder, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderListFilter) ([]domain.PurchaseOrder, int64, error)
}

// SaleItemParams is one requested line of a POS sale.
type SaleItemParams struct {
	ProductID int64
	Quantity  int
}

// CommitSaleParams carries a POS checkout request.
type CommitSaleParams struct {
	StoreID        int64
	CustomerName   string
	Items          []SaleItemParams
	PaymentMethod  domain.PaymentMethod
	AmountTendered decimal.Decimal
	CashierID      int64
}

// PosService commits and reads point-of-sale transactions.
type PosService interface {
	CommitSale(ctx context.Context, params CommitSaleParams) (*domain.PosTransaction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PosTransaction, error)
	List(ctx context.Context, filter TransactionListFilter) ([]domain.PosTransaction, int64, error)
}

// CatalogService exposes the product and store reference data.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, int64, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
}
