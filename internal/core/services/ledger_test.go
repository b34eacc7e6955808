// internal/core/services/ledger_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/test/helpers"
	"github.com/gajahnusa/retail-be/test/mocks"
)

func newTestLedger(ctrl *gomock.Controller) (*services.Ledger, *mocks.MockInventoryRepository, *mocks.MockWarehouseRepository, *mocks.MockMovementRepository) {
	inventory := mocks.NewMockInventoryRepository(ctrl)
	warehouse := mocks.NewMockWarehouseRepository(ctrl)
	movements := mocks.NewMockMovementRepository(ctrl)
	ledger := services.NewLedger(inventory, warehouse, movements, helpers.TestLogger())
	return ledger, inventory, warehouse, movements
}

func TestLedger_AdjustStore(t *testing.T) {
	tests := []struct {
		name          string
		params        services.AdjustStoreParams
		setupMocks    func(*mocks.MockInventoryRepository, *mocks.MockMovementRepository)
		expectedError error
		validate      func(*testing.T, *domain.AdjustmentResult, *domain.StoreInventoryRecord)
	}{
		{
			name: "in_adds_to_existing_quantity",
			params: services.AdjustStoreParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustIn,
				Quantity:  20,
				Reason:    "supplier delivery",
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				inv.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 70).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
						assert.Equal(t, domain.ScopeStore, m.Scope)
						assert.Equal(t, domain.MovementAdjustIn, m.Type)
						assert.Equal(t, 50, m.PreviousQuantity)
						assert.Equal(t, 70, m.NewQuantity)
						return nil
					})
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult, record *domain.StoreInventoryRecord) {
				assert.Equal(t, 50, result.Previous)
				assert.Equal(t, 70, result.New)
				assert.Equal(t, 70, record.Quantity)
			},
		},
		{
			name: "out_below_zero_fails_without_writes",
			params: services.AdjustStoreParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustOut,
				Quantity:  51,
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name: "out_of_full_quantity_reaches_zero",
			params: services.AdjustStoreParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustOut,
				Quantity:  50,
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				inv.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 0).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult, record *domain.StoreInventoryRecord) {
				assert.Equal(t, 0, result.New)
			},
		},
		{
			name: "in_creates_missing_row_lazily",
			params: services.AdjustStoreParams{
				StoreID:   2,
				ProductID: 9,
				Mode:      domain.AdjustIn,
				Quantity:  15,
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(2), int64(9)).
					Return(nil, domain.NotFoundError("inventory record", "2/9"))
				inv.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, record *domain.StoreInventoryRecord) error {
						assert.Equal(t, int64(2), record.StoreID)
						assert.Equal(t, int64(9), record.ProductID)
						assert.Equal(t, 0, record.Quantity)
						return nil
					})
				inv.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(2), int64(9), 15).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult, record *domain.StoreInventoryRecord) {
				assert.Equal(t, 0, result.Previous)
				assert.Equal(t, 15, result.New)
			},
		},
		{
			name: "out_on_missing_row_is_not_found",
			params: services.AdjustStoreParams{
				StoreID:   2,
				ProductID: 9,
				Mode:      domain.AdjustOut,
				Quantity:  1,
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(2), int64(9)).
					Return(nil, domain.NotFoundError("inventory record", "2/9"))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "set_overwrites_quantity",
			params: services.AdjustStoreParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustSet,
				Quantity:  200,
				Reason:    "stock opname",
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				inv.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 200).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
						assert.Equal(t, domain.MovementAdjustSet, m.Type)
						assert.Equal(t, 50, m.PreviousQuantity)
						assert.Equal(t, 200, m.NewQuantity)
						return nil
					})
			},
			validate: func(t *testing.T, result *domain.AdjustmentResult, record *domain.StoreInventoryRecord) {
				assert.Equal(t, 50, result.Previous)
				assert.Equal(t, 200, result.New)
			},
		},
		{
			name: "movement_type_override_records_sale",
			params: services.AdjustStoreParams{
				StoreID:      1,
				ProductID:    1,
				Mode:         domain.AdjustOut,
				Quantity:     2,
				MovementType: domain.MovementSale,
			},
			setupMocks: func(inv *mocks.MockInventoryRepository, mov *mocks.MockMovementRepository) {
				inv.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
					Return(helpers.CreateTestInventoryRecord(), nil)
				inv.EXPECT().
					SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 48).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
						assert.Equal(t, domain.MovementSale, m.Type)
						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledger, inventory, _, movements := newTestLedger(ctrl)
			tt.setupMocks(inventory, movements)

			result, record, err := ledger.AdjustStore(context.Background(), nil, tt.params)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			require.NotNil(t, record)
			if tt.validate != nil {
				tt.validate(t, result, record)
			}
		})
	}
}

func TestLedger_Reserve(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int
		setupMocks    func(*mocks.MockWarehouseRepository, *mocks.MockMovementRepository)
		expectedError error
		validate      func(*testing.T, *domain.ReservationResult)
	}{
		{
			name:     "reserves_within_available",
			quantity: 100,
			setupMocks: func(wh *mocks.MockWarehouseRepository, mov *mocks.MockMovementRepository) {
				wh.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
					Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
						r.ReservedQuantity = 50
					}), nil)
				wh.EXPECT().
					SetQuantities(gomock.Any(), gomock.Any(), int64(1), 500, 150).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
						assert.Equal(t, domain.ScopeWarehouse, m.Scope)
						assert.Equal(t, domain.MovementReserve, m.Type)
						assert.Nil(t, m.StoreID)
						return nil
					})
			},
			validate: func(t *testing.T, result *domain.ReservationResult) {
				assert.Equal(t, 50, result.PreviousReserved)
				assert.Equal(t, 150, result.NewReserved)
			},
		},
		{
			name:     "reserving_more_than_available_fails",
			quantity: 451,
			setupMocks: func(wh *mocks.MockWarehouseRepository, mov *mocks.MockMovementRepository) {
				wh.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
					Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
						r.ReservedQuantity = 50
					}), nil)
			},
			expectedError: domain.ErrInsufficientAvailable,
		},
		{
			name:     "reserving_exactly_available_succeeds",
			quantity: 500,
			setupMocks: func(wh *mocks.MockWarehouseRepository, mov *mocks.MockMovementRepository) {
				wh.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
					Return(helpers.CreateTestWarehouseRecord(), nil)
				wh.EXPECT().
					SetQuantities(gomock.Any(), gomock.Any(), int64(1), 500, 500).
					Return(nil)
				mov.EXPECT().
					Append(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, result *domain.ReservationResult) {
				assert.Equal(t, 500, result.NewReserved)
			},
		},
		{
			name:     "unknown_product_fails",
			quantity: 1,
			setupMocks: func(wh *mocks.MockWarehouseRepository, mov *mocks.MockMovementRepository) {
				wh.EXPECT().
					GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
					Return(nil, domain.NotFoundError("warehouse record", 1))
			},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledger, _, warehouse, movements := newTestLedger(ctrl)
			tt.setupMocks(warehouse, movements)

			result, err := ledger.Reserve(context.Background(), nil, 1, tt.quantity, "test reservation", nil)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestLedger_Release(t *testing.T) {
	t.Run("releases_held_quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger, _, warehouse, movements := newTestLedger(ctrl)

		warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 120
			}), nil)
		warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), 500, 100).
			Return(nil)
		movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
				assert.Equal(t, domain.MovementRelease, m.Type)
				assert.Equal(t, 120, m.PreviousQuantity)
				assert.Equal(t, 100, m.NewQuantity)
				return nil
			})

		result, err := ledger.Release(context.Background(), nil, 1, 20, "order cancelled", nil)
		require.NoError(t, err)
		assert.Equal(t, 120, result.PreviousReserved)
		assert.Equal(t, 100, result.NewReserved)
	})

	t.Run("releasing_more_than_held_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger, _, warehouse, _ := newTestLedger(ctrl)

		warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 10
			}), nil)

		_, err := ledger.Release(context.Background(), nil, 1, 20, "order cancelled", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLedger_Receive(t *testing.T) {
	t.Run("shrinks_total_and_reserved_together", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger, _, warehouse, movements := newTestLedger(ctrl)

		warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 80
			}), nil)
		warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), 420, 0).
			Return(nil)
		movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, m *domain.StockMovement) error {
				assert.Equal(t, domain.MovementReceive, m.Type)
				return nil
			})

		result, err := ledger.Receive(context.Background(), nil, 1, 80, "order received", nil)
		require.NoError(t, err)
		assert.Equal(t, 500, result.PreviousTotal)
		assert.Equal(t, 420, result.NewTotal)
		assert.Equal(t, 80, result.PreviousReserved)
		assert.Equal(t, 0, result.NewReserved)
	})

	t.Run("receiving_more_than_reserved_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger, _, warehouse, _ := newTestLedger(ctrl)

		warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 5
			}), nil)

		_, err := ledger.Receive(context.Background(), nil, 1, 10, "order received", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("free_pool_is_unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ledger, _, warehouse, movements := newTestLedger(ctrl)

		record := helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
			r.ReservedQuantity = 100
		})
		before := record.Available()

		warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(record, nil)
		warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, _ int64, total, reserved int) error {
				assert.Equal(t, before, total-reserved)
				return nil
			})
		movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		_, err := ledger.Receive(context.Background(), nil, 1, 40, "order received", nil)
		require.NoError(t, err)
	})
}
