// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// InventoryService handles store-level stock business logic
type InventoryService struct {
	ledger    *Ledger
	inventory ports.InventoryRepository
	movements ports.MovementRepository
	products  ports.ProductRepository
	db        ports.Database
	cache     ports.CacheRepository
	queue     ports.TaskQueue
	alerts    bool
	logger    *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new store inventory service
func NewInventoryService(
	ledger *Ledger,
	inventory ports.InventoryRepository,
	movements ports.MovementRepository,
	products ports.ProductRepository,
	db ports.Database,
	cache ports.CacheRepository,
	queue ports.TaskQueue,
	alerts bool,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		ledger:    ledger,
		inventory: inventory,
		movements: movements,
		products:  products,
		db:        db,
		cache:     cache,
		queue:     queue,
		alerts:    alerts,
		logger:    logger.With(slog.String("service", "inventory")),
	}
}

// Adjust applies one stock adjustment to a (store, product) pair as a
// single unit of work: lock, write, ledger append, commit.
func (s *InventoryService) Adjust(ctx context.Context, params ports.AdjustParams) (*domain.AdjustmentResult, error) {
	if params.StoreID <= 0 {
		return nil, domain.ValidationError("store_id is required")
	}
	if params.ProductID <= 0 {
		return nil, domain.ValidationError("product_id is required")
	}
	switch params.Mode {
	case domain.AdjustIn, domain.AdjustOut:
		if params.Quantity <= 0 {
			return nil, domain.ValidationError("quantity must be positive")
		}
	case domain.AdjustSet:
		if params.Quantity < 0 {
			return nil, domain.ValidationError("quantity cannot be negative")
		}
	default:
		return nil, domain.ValidationError("unknown adjustment mode")
	}

	if _, err := s.products.FindByID(ctx, params.ProductID); err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}

	var result *domain.AdjustmentResult
	var record *domain.StoreInventoryRecord

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		var err error
		result, record, err = s.ledger.AdjustStore(ctx, tx, AdjustStoreParams{
			StoreID:   params.StoreID,
			ProductID: params.ProductID,
			Mode:      params.Mode,
			Quantity:  params.Quantity,
			Reason:    params.Reason,
			ActorID:   params.ActorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.Int64("store_id", params.StoreID),
		slog.Int64("product_id", params.ProductID),
		slog.String("mode", params.Mode.String()),
		slog.Int("previous", result.Previous),
		slog.Int("new", result.New))

	s.invalidateCache(ctx, params.StoreID)
	s.maybeAlertLowStock(ctx, record)

	return result, nil
}

// inventoryPage carries a listing page through the cache in one entry so
// the total stays consistent with the records.
type inventoryPage struct {
	Records []domain.StoreInventoryRecord `json:"records"`
	Total   int64                         `json:"total"`
}

// List retrieves store inventory records with filtering and pagination.
// Pages are cached under the store's inventory:store:<id>:* prefix, which
// Adjust and the sale path invalidate after every committed write.
func (s *InventoryService) List(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
	if filter.StoreID <= 0 {
		return nil, 0, domain.ValidationError("store_id is required")
	}

	if s.cache != nil {
		var page inventoryPage
		err := s.cache.GetOrSet(ctx, inventoryListKey(filter), &page, func() (interface{}, error) {
			records, total, err := s.inventory.List(ctx, filter)
			if err != nil {
				return nil, err
			}
			return inventoryPage{Records: records, Total: total}, nil
		}, time.Minute)
		if err == nil {
			return page.Records, page.Total, nil
		}
		s.logger.WarnContext(ctx, "inventory cache read failed, falling back", "err", err)
	}

	records, total, err := s.inventory.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}
	return records, total, nil
}

func inventoryListKey(filter ports.InventoryListFilter) string {
	var productID int64
	if filter.ProductID != nil {
		productID = *filter.ProductID
	}
	return fmt.Sprintf("inventory:store:%d:list:%d:%t:%d:%d",
		filter.StoreID, productID, filter.LowStock, filter.Limit, filter.Offset)
}

// ListMovements retrieves ledger entries newest-first
func (s *InventoryService) ListMovements(ctx context.Context, filter ports.MovementListFilter) ([]domain.StockMovement, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}

	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return movements, total, nil
}

// invalidateCache drops read-side cache entries for the store after a
// committed write. Invalidation failure is logged, never surfaced.
func (s *InventoryService) invalidateCache(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("inventory:store:%d:*", storeID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("pattern", pattern), "err", err)
	}
}

// maybeAlertLowStock enqueues a low-stock alert after commit when the
// record dropped below its minimum. The operation is already committed;
// an enqueue failure is logged and never propagated.
func (s *InventoryService) maybeAlertLowStock(ctx context.Context, record *domain.StoreInventoryRecord) {
	if !s.alerts || s.queue == nil || record == nil || !record.BelowMinimum() {
		return
	}

	alert := ports.LowStockAlert{
		StoreID:      record.StoreID,
		ProductID:    record.ProductID,
		Quantity:     record.Quantity,
		MinThreshold: record.MinThreshold,
	}
	if product, err := s.products.FindByID(ctx, record.ProductID); err == nil {
		alert.ProductName = product.Name
	}

	if err := s.queue.EnqueueLowStockAlert(ctx, alert); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue low stock alert",
			slog.Int64("store_id", record.StoreID),
			slog.Int64("product_id", record.ProductID),
			"err", err)
	}
}
