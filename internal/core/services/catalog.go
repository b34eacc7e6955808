// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// CatalogService exposes the product and store reference data that the
// stock paths price against.
type CatalogService struct {
	products ports.ProductRepository
	stores   ports.StoreRepository
	cache    ports.CacheRepository
	logger   *slog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(
	products ports.ProductRepository,
	stores ports.StoreRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		stores:   stores,
		cache:    cache,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// ListProducts retrieves products with filtering and pagination
func (s *CatalogService) ListProducts(ctx context.Context, filter ports.ProductListFilter) ([]domain.Product, int64, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListStores retrieves all stores, cached briefly since they change
// rarely.
func (s *CatalogService) ListStores(ctx context.Context) ([]domain.Store, error) {
	if s.cache != nil {
		var stores []domain.Store
		err := s.cache.GetOrSet(ctx, "stores:all", &stores, func() (interface{}, error) {
			fresh, err := s.stores.List(ctx)
			if err != nil {
				return nil, err
			}
			return fresh, nil
		}, time.Minute*5)
		if err == nil {
			return stores, nil
		}
		s.logger.WarnContext(ctx, "store cache read failed, falling back", "err", err)
	}

	stores, err := s.stores.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}
