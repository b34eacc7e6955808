// internal/core/ports/repositories.go
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
)

//go:generate mockgen -source=repositories.go -destination=../../../test/mocks/mock_repositories.go -package=mocks

// InventoryListFilter narrows an inventory listing.
type InventoryListFilter struct {
	StoreID   int64
	ProductID *int64
	LowStock  bool
	Limit     int
	Offset    int
}

// InventoryRepository persists per-store stock counters. Mutating methods
// take the enclosing transaction so counter changes and their ledger
// entries commit or roll back together.
type InventoryRepository interface {
	Get(ctx context.Context, storeID, productID int64) (*domain.StoreInventoryRecord, error)
	List(ctx context.Context, filter InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error)

	// GetForUpdate locks the (store, product) row for the rest of the
	// transaction. Returns domain.ErrNotFound when no row exists yet.
	GetForUpdate(ctx context.Context, tx pgx.Tx, storeID, productID int64) (*domain.StoreInventoryRecord, error)
	Create(ctx context.Context, tx pgx.Tx, record *domain.StoreInventoryRecord) error
	SetQuantity(ctx context.Context, tx pgx.Tx, storeID, productID int64, quantity int) error
}

// WarehouseListFilter narrows a central warehouse listing.
type WarehouseListFilter struct {
	ProductID *int64
	Limit     int
	Offset    int
}

// WarehouseRepository persists the central warehouse counter pairs.
type WarehouseRepository interface {
	Get(ctx context.Context, productID int64) (*domain.WarehouseRecord, error)
	List(ctx context.Context, filter WarehouseListFilter) ([]domain.WarehouseRecord, int64, error)

	// GetForUpdate locks the product's counter row for the rest of the
	// transaction. Returns domain.ErrNotFound when the product is not
	// stocked at the warehouse.
	GetForUpdate(ctx context.Context, tx pgx.Tx, productID int64) (*domain.WarehouseRecord, error)
	SetQuantities(ctx context.Context, tx pgx.Tx, productID int64, total, reserved int) error
}

// MovementListFilter narrows a stock movement listing.
type MovementListFilter struct {
	Scope     *domain.MovementScope
	StoreID   *int64
	ProductID *int64
	Type      *domain.MovementType
	Limit     int
	Offset    int
}

// MovementRepository appends to and reads the immutable stock ledger.
// There is deliberately no update or delete.
type MovementRepository interface {
	Append(ctx context.Context, tx pgx.Tx, movement *domain.StockMovement) error
	List(ctx context.Context, filter MovementListFilter) ([]domain.StockMovement, int64, error)
}

// PurchaseOrderListFilter narrows a purchase order listing.
type PurchaseOrderListFilter struct {
	StoreID *int64
	Status  *domain.PurchaseOrderStatus
	Limit   int
	Offset  int
}

// PurchaseOrderRepository persists purchase orders and their frozen items.
type PurchaseOrderRepository interface {
	// NextOrderNumber claims the store's next order sequence number inside
	// the creating transaction, so concurrent creations never collide.
	NextOrderNumber(ctx context.Context, tx pgx.Tx, storeID int64) (int64, error)
	Save(ctx context.Context, tx pgx.Tx, po *domain.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PurchaseOrderStatus) error
	List(ctx context.Context, filter PurchaseOrderListFilter) ([]domain.PurchaseOrder, int64, error)
}

// TransactionListFilter narrows a POS transaction listing.
type TransactionListFilter struct {
	StoreID   *int64
	CashierID *int64
	Limit     int
	Offset    int
}

// TransactionRepository persists completed POS transactions. Transactions
// are written once and never mutated.
type TransactionRepository interface {
	Save(ctx context.Context, tx pgx.Tx, txn *domain.PosTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PosTransaction, error)
	List(ctx context.Context, filter TransactionListFilter) ([]domain.PosTransaction, int64, error)
}

// ProductListFilter narrows a product catalog listing.
type ProductListFilter struct {
	Category *domain.ProductCategory
	Search   string
	Limit    int
	Offset   int
}

// ProductRepository reads the product catalog. The catalog is reference
// data here; it is seeded out of band and only read by the stock paths.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context, filter ProductListFilter) ([]domain.Product, int64, error)
}

// StoreRepository reads the store reference data.
type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Store, error)
	List(ctx context.Context) ([]domain.Store, error)
}
