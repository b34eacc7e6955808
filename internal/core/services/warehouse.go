// internal/core/services/warehouse.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// warehousePage carries a listing page through the cache in one entry so
// the total stays consistent with the records.
type warehousePage struct {
	Records []domain.WarehouseRecord `json:"records"`
	Total   int64                    `json:"total"`
}

// WarehouseService exposes the central warehouse counters. All mutation
// goes through the purchase order workflow; this service only reads.
// Cached entries live under the warehouse:* prefix the order workflow
// invalidates after every committed counter change.
type WarehouseService struct {
	warehouse ports.WarehouseRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

var _ ports.WarehouseService = (*WarehouseService)(nil)

// NewWarehouseService creates a new warehouse read service
func NewWarehouseService(warehouse ports.WarehouseRepository, cache ports.CacheRepository, logger *slog.Logger) *WarehouseService {
	return &WarehouseService{
		warehouse: warehouse,
		cache:     cache,
		logger:    logger.With(slog.String("service", "warehouse")),
	}
}

// Get retrieves one product's counters with the derived available figure.
func (s *WarehouseService) Get(ctx context.Context, productID int64) (*domain.WarehouseRecord, error) {
	if productID <= 0 {
		return nil, domain.ValidationError("product_id is required")
	}

	if s.cache != nil {
		var record domain.WarehouseRecord
		key := fmt.Sprintf("warehouse:product:%d", productID)
		err := s.cache.GetOrSet(ctx, key, &record, func() (interface{}, error) {
			fresh, err := s.warehouse.Get(ctx, productID)
			if err != nil {
				return nil, err
			}
			return fresh, nil
		}, time.Minute)
		if err == nil {
			return &record, nil
		}
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "warehouse cache read failed, falling back", "err", err)
	}

	record, err := s.warehouse.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse record: %w", err)
	}
	return record, nil
}

// List retrieves warehouse records with pagination
func (s *WarehouseService) List(ctx context.Context, filter ports.WarehouseListFilter) ([]domain.WarehouseRecord, int64, error) {
	if s.cache != nil {
		var page warehousePage
		err := s.cache.GetOrSet(ctx, warehouseListKey(filter), &page, func() (interface{}, error) {
			records, total, err := s.warehouse.List(ctx, filter)
			if err != nil {
				return nil, err
			}
			return warehousePage{Records: records, Total: total}, nil
		}, time.Minute)
		if err == nil {
			return page.Records, page.Total, nil
		}
		s.logger.WarnContext(ctx, "warehouse cache read failed, falling back", "err", err)
	}

	records, total, err := s.warehouse.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list warehouse records: %w", err)
	}
	return records, total, nil
}

func warehouseListKey(filter ports.WarehouseListFilter) string {
	var productID int64
	if filter.ProductID != nil {
		productID = *filter.ProductID
	}
	return fmt.Sprintf("warehouse:list:%d:%d:%d", productID, filter.Limit, filter.Offset)
}
