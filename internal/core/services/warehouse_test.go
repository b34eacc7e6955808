// internal/core/services/warehouse_test.go
package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/test/helpers"
	"github.com/gajahnusa/retail-be/test/mocks"
)

func newWarehouseService(ctrl *gomock.Controller) (*services.WarehouseService, *mocks.MockWarehouseRepository, *mocks.MockCacheRepository) {
	warehouse := mocks.NewMockWarehouseRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	svc := services.NewWarehouseService(warehouse, cache, helpers.TestLogger())
	return svc, warehouse, cache
}

func TestWarehouseService_Get(t *testing.T) {
	t.Run("requires_product_id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, _ := newWarehouseService(ctrl)

		_, err := svc.Get(context.Background(), 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("caches_record_under_warehouse_prefix", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, warehouse, cache := newWarehouseService(ctrl)

		passthroughGetOrSet(cache, "warehouse:product:1")
		warehouse.EXPECT().
			Get(gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(), nil)

		record, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.ProductID)
		assert.Equal(t, 500, record.TotalQuantity)
	})

	t.Run("unknown_product_stays_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, warehouse, cache := newWarehouseService(ctrl)

		passthroughGetOrSet(cache, "warehouse:product:404")
		warehouse.EXPECT().
			Get(gomock.Any(), int64(404)).
			Return(nil, domain.NotFoundError("warehouse record", 404))

		_, err := svc.Get(context.Background(), 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("falls_back_to_repository_when_cache_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, warehouse, cache := newWarehouseService(ctrl)

		cache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis down"))
		warehouse.EXPECT().
			Get(gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(), nil)

		record, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), record.ProductID)
	})
}

func TestWarehouseService_List(t *testing.T) {
	t.Run("caches_page_under_warehouse_prefix", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, warehouse, cache := newWarehouseService(ctrl)

		productID := int64(7)
		passthroughGetOrSet(cache, fmt.Sprintf("warehouse:list:%d:20:0", productID))
		warehouse.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, filter ports.WarehouseListFilter) ([]domain.WarehouseRecord, int64, error) {
				require.NotNil(t, filter.ProductID)
				assert.Equal(t, productID, *filter.ProductID)
				return []domain.WarehouseRecord{*helpers.CreateTestWarehouseRecord()}, 1, nil
			})

		records, total, err := svc.List(context.Background(), ports.WarehouseListFilter{
			ProductID: &productID,
			Limit:     20,
		})
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("falls_back_to_repository_when_cache_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, warehouse, cache := newWarehouseService(ctrl)

		cache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis down"))
		warehouse.EXPECT().
			List(gomock.Any(), gomock.Any()).
			Return([]domain.WarehouseRecord{*helpers.CreateTestWarehouseRecord()}, int64(1), nil)

		records, total, err := svc.List(context.Background(), ports.WarehouseListFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int64(1), total)
	})
}
