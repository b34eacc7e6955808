// internal/core/services/inventory_test.go
package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/test/helpers"
	"github.com/gajahnusa/retail-be/test/mocks"
)

type inventoryServiceMocks struct {
	inventory *mocks.MockInventoryRepository
	warehouse *mocks.MockWarehouseRepository
	movements *mocks.MockMovementRepository
	products  *mocks.MockProductRepository
	db        *mocks.MockDatabase
	cache     *mocks.MockCacheRepository
	queue     *mocks.MockTaskQueue
}

func newInventoryService(ctrl *gomock.Controller, alerts bool) (*services.InventoryService, *inventoryServiceMocks) {
	m := &inventoryServiceMocks{
		inventory: mocks.NewMockInventoryRepository(ctrl),
		warehouse: mocks.NewMockWarehouseRepository(ctrl),
		movements: mocks.NewMockMovementRepository(ctrl),
		products:  mocks.NewMockProductRepository(ctrl),
		db:        mocks.NewMockDatabase(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
		queue:     mocks.NewMockTaskQueue(ctrl),
	}
	ledger := services.NewLedger(m.inventory, m.warehouse, m.movements, helpers.TestLogger())
	svc := services.NewInventoryService(
		ledger, m.inventory, m.movements, m.products,
		m.db, m.cache, m.queue, alerts, helpers.TestLogger(),
	)
	return svc, m
}

// passthroughGetOrSet makes the mocked cache behave like a miss: run the
// fetch and decode its result into dest through the same json round trip
// the redis adapter performs.
func passthroughGetOrSet(cache *mocks.MockCacheRepository, key interface{}) *gomock.Call {
	return cache.EXPECT().
		GetOrSet(gomock.Any(), key, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}, fetch func() (interface{}, error), _ time.Duration) error {
			value, err := fetch()
			if err != nil {
				return fmt.Errorf("fetch error: %w", err)
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return err
			}
			return json.Unmarshal(encoded, dest)
		})
}

// passthroughTx makes the mocked Transaction run its callback with a nil
// pgx.Tx, so the ledger's repository calls happen against the mocks.
func passthroughTx(db *mocks.MockDatabase) {
	db.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(pgx.Tx) error) error {
			return fn(nil)
		})
}

func TestInventoryService_Adjust(t *testing.T) {
	tests := []struct {
		name          string
		params        ports.AdjustParams
		alerts        bool
		setupMocks    func(*inventoryServiceMocks)
		expectedError error
		validate      func(*testing.T, *domain.AdjustmentResult)
	}{
		{
			name: "successful_in_adjustment",
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustIn,
				Quantity:  20,
				Reason:    "supplier delivery",
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil)
				passthroughTx(m.db)
				m.inventory.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				m.inventory.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 70).
					Return(nil)
				m.movements.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				m.cache.EXPECT().
					DeletePattern(gomock.Any(), "inventory:store:1:*").
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult) {
				assert.Equal(t, 50, result.Previous)
				assert.Equal(t, 70, result.New)
			},
		},
		{
			name: "missing_store_id",
			params: ports.AdjustParams{
				ProductID: 1,
				Mode:      domain.AdjustIn,
				Quantity:  5,
			},
			setupMocks:    func(m *inventoryServiceMocks) {},
			expectedError: domain.ErrValidation,
		},
		{
			name: "zero_quantity_for_in_mode",
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustIn,
				Quantity:  0,
			},
			setupMocks:    func(m *inventoryServiceMocks) {},
			expectedError: domain.ErrValidation,
		},
		{
			name: "set_mode_accepts_zero",
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustSet,
				Quantity:  0,
				Reason:    "stock opname",
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil)
				passthroughTx(m.db)
				m.inventory.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				m.inventory.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 0).
					Return(nil)
				m.movements.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				m.cache.EXPECT().
					DeletePattern(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult) {
				assert.Equal(t, 0, result.New)
			},
		},
		{
			name: "unknown_product",
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 999,
				Mode:      domain.AdjustIn,
				Quantity:  5,
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(999)).
					Return(nil, domain.NotFoundError("product", 999))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "insufficient_stock_rolls_back",
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustOut,
				Quantity:  999,
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil)
				passthroughTx(m.db)
				m.inventory.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name:   "enqueues_low_stock_alert_when_below_minimum",
			alerts: true,
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustOut,
				Quantity:  45,
				Reason:    "damaged goods",
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil).
					Times(2)
				passthroughTx(m.db)
				m.inventory.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				m.inventory.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 5).
					Return(nil)
				m.movements.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				m.cache.EXPECT().
					DeletePattern(gomock.Any(), gomock.Any()).
					Return(nil)
				m.queue.EXPECT().
					EnqueueLowStockAlert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, alert ports.LowStockAlert) error {
						assert.Equal(t, int64(1), alert.StoreID)
						assert.Equal(t, 5, alert.Quantity)
						assert.Equal(t, 10, alert.MinThreshold)
						return nil
					})
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult) {
				assert.Equal(t, 5, result.New)
			},
		},
		{
			name:   "enqueue_failure_does_not_fail_adjustment",
			alerts: true,
			params: ports.AdjustParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustOut,
				Quantity:  45,
			},
			setupMocks: func(m *inventoryServiceMocks) {
				m.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil).
					Times(2)
				passthroughTx(m.db)
				m.inventory.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				m.inventory.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 5).
					Return(nil)
				m.movements.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
				m.cache.EXPECT().
					DeletePattern(gomock.Any(), gomock.Any()).
					Return(nil)
				m.queue.EXPECT().
					EnqueueLowStockAlert(gomock.Any(), gomock.Any()).
					Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newInventoryService(ctrl, tt.alerts)
			tt.setupMocks(m)

			result, err := svc.Adjust(context.Background(), tt.params)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestInventoryService_List(t *testing.T) {
	t.Run("requires_store_id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newInventoryService(ctrl, false)

		_, _, err := svc.List(context.Background(), ports.InventoryListFilter{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("caches_page_under_store_prefix", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newInventoryService(ctrl, false)

		passthroughGetOrSet(m.cache, "inventory:store:1:list:0:true:0:0")
		m.inventory.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
				assert.Equal(t, int64(1), filter.StoreID)
				assert.True(t, filter.LowStock)
				return []domain.StoreInventoryRecord{*helpers.CreateTestInventoryRecord()}, 1, nil
			})

		records, total, err := svc.List(context.Background(), ports.InventoryListFilter{StoreID: 1, LowStock: true})
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("falls_back_to_repository_when_cache_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newInventoryService(ctrl, false)

		m.cache.EXPECT().
			GetOrSet(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis down"))
		m.inventory.EXPECT().
			List(gomock.Any(), gomock.Any()).
			Return([]domain.StoreInventoryRecord{*helpers.CreateTestInventoryRecord()}, int64(1), nil)

		records, total, err := svc.List(context.Background(), ports.InventoryListFilter{StoreID: 1})
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int64(1), total)
	})
}

func TestInventoryService_ListMovements(t *testing.T) {
	t.Run("clamps_limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newInventoryService(ctrl, false)

		m.movements.EXPECT().
			List(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, filter ports.MovementListFilter) ([]domain.StockMovement, int64, error) {
				assert.Equal(t, 100, filter.Limit)
				return []domain.StockMovement{}, 0, nil
			})

		_, _, err := svc.ListMovements(context.Background(), ports.MovementListFilter{Limit: 9999})
		require.NoError(t, err)
	})
}
