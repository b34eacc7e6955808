// internal/core/services/purchase_order_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/test/helpers"
	"github.com/gajahnusa/retail-be/test/mocks"
)

type poServiceMocks struct {
	inventory *mocks.MockInventoryRepository
	warehouse *mocks.MockWarehouseRepository
	movements *mocks.MockMovementRepository
	orders    *mocks.MockPurchaseOrderRepository
	products  *mocks.MockProductRepository
	stores    *mocks.MockStoreRepository
	db        *mocks.MockDatabase
	cache     *mocks.MockCacheRepository
}

func newPurchaseOrderService(ctrl *gomock.Controller) (*services.PurchaseOrderService, *poServiceMocks) {
	m := &poServiceMocks{
		inventory: mocks.NewMockInventoryRepository(ctrl),
		warehouse: mocks.NewMockWarehouseRepository(ctrl),
		movements: mocks.NewMockMovementRepository(ctrl),
		orders:    mocks.NewMockPurchaseOrderRepository(ctrl),
		products:  mocks.NewMockProductRepository(ctrl),
		stores:    mocks.NewMockStoreRepository(ctrl),
		db:        mocks.NewMockDatabase(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
	}
	ledger := services.NewLedger(m.inventory, m.warehouse, m.movements, helpers.TestLogger())
	svc := services.NewPurchaseOrderService(
		ledger, m.orders, m.products, m.stores,
		m.db, m.cache, helpers.TestLogger(),
	)
	return svc, m
}

func TestPurchaseOrderService_Create(t *testing.T) {
	validParams := ports.CreatePurchaseOrderParams{
		StoreID: 1,
		Items: []ports.PurchaseOrderItemParams{
			{ProductID: 1, Quantity: 20},
		},
		Notes:       "restock before weekend",
		RequestedBy: 2,
	}

	t.Run("creates_order_with_reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)

		m.stores.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestStore(), nil)
		m.products.EXPECT().
			FindByIDs(gomock.Any(), []int64{1}).
			Return(testCatalog(), nil)
		passthroughTx(m.db)
		m.orders.EXPECT().
			NextOrderNumber(gomock.Any(), gomock.Any(), int64(1)).
			Return(int64(7), nil)
		m.warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(), nil)
		m.warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), 500, 20).
			Return(nil)
		m.movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, mv *domain.StockMovement) error {
				assert.Equal(t, domain.MovementReserve, mv.Type)
				assert.Equal(t, 20, mv.Quantity)
				return nil
			})
		m.orders.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, po *domain.PurchaseOrder) error {
				assert.NotEqual(t, uuid.Nil, po.ID)
				assert.Equal(t, domain.POPending, po.Status)
				return nil
			})
		m.cache.EXPECT().
			DeletePattern(gomock.Any(), "warehouse:*").
			Return(nil)

		po, err := svc.Create(context.Background(), validParams)
		require.NoError(t, err)

		assert.Equal(t, "PO-JKT01-0007", po.OrderNumber)
		assert.Equal(t, "Semen Gajah 50kg", po.Items[0].ProductName)
		// 20 x 65000 priced from the catalog, not the caller
		assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(1300000)), "total: %s", po.TotalAmount)
	})

	t.Run("reservation_failure_rolls_back_creation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)

		m.stores.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestStore(), nil)
		m.products.EXPECT().
			FindByIDs(gomock.Any(), gomock.Any()).
			Return(testCatalog(), nil)
		passthroughTx(m.db)
		m.orders.EXPECT().
			NextOrderNumber(gomock.Any(), gomock.Any(), int64(1)).
			Return(int64(1), nil)
		m.warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.TotalQuantity = 10
			}), nil)

		_, err := svc.Create(context.Background(), validParams)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientAvailable)
	})

	t.Run("unknown_store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)

		m.stores.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(nil, domain.NotFoundError("store", 1))

		_, err := svc.Create(context.Background(), validParams)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("rejects_empty_items", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newPurchaseOrderService(ctrl)

		_, err := svc.Create(context.Background(), ports.CreatePurchaseOrderParams{
			StoreID:     1,
			RequestedBy: 2,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("rejects_non_positive_quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newPurchaseOrderService(ctrl)

		_, err := svc.Create(context.Background(), ports.CreatePurchaseOrderParams{
			StoreID:     1,
			Items:       []ports.PurchaseOrderItemParams{{ProductID: 1, Quantity: 0}},
			RequestedBy: 2,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestPurchaseOrderService_Transition(t *testing.T) {
	actorID := int64(5)

	t.Run("approves_pending_order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		order := helpers.CreateTestPurchaseOrder()

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), order.ID).
			Return(order, nil)
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), order.ID, domain.POApproved).
			Return(nil)
		m.cache.EXPECT().
			DeletePattern(gomock.Any(), gomock.Any()).
			Return(nil)

		po, err := svc.Transition(context.Background(), order.ID, domain.POApproved, &actorID)
		require.NoError(t, err)
		assert.Equal(t, domain.POApproved, po.Status)
	})

	t.Run("rejects_skipping_states", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		order := helpers.CreateTestPurchaseOrder()

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), order.ID).
			Return(order, nil)

		_, err := svc.Transition(context.Background(), order.ID, domain.POReceived, &actorID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("rejects_leaving_terminal_state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		order := helpers.CreateTestPurchaseOrder(func(po *domain.PurchaseOrder) {
			po.Status = domain.POCancelled
		})

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), order.ID).
			Return(order, nil)

		_, err := svc.Transition(context.Background(), order.ID, domain.POApproved, &actorID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cancel_releases_every_reservation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		order := helpers.CreateTestPurchaseOrder(func(po *domain.PurchaseOrder) {
			po.Status = domain.POApproved
		})

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), order.ID).
			Return(order, nil)
		m.warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 20
			}), nil)
		m.warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), 500, 0).
			Return(nil)
		m.movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, mv *domain.StockMovement) error {
				assert.Equal(t, domain.MovementRelease, mv.Type)
				return nil
			})
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), order.ID, domain.POCancelled).
			Return(nil)
		m.cache.EXPECT().
			DeletePattern(gomock.Any(), gomock.Any()).
			Return(nil)

		po, err := svc.Transition(context.Background(), order.ID, domain.POCancelled, &actorID)
		require.NoError(t, err)
		assert.Equal(t, domain.POCancelled, po.Status)
	})

	t.Run("receive_moves_stock_into_store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		order := helpers.CreateTestPurchaseOrder(func(po *domain.PurchaseOrder) {
			po.Status = domain.POShipped
		})

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), order.ID).
			Return(order, nil)

		// warehouse side: total and reserved both shrink by 20
		m.warehouse.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1)).
			Return(helpers.CreateTestWarehouseRecord(func(r *domain.WarehouseRecord) {
				r.ReservedQuantity = 20
			}), nil)
		m.warehouse.EXPECT().
			SetQuantities(gomock.Any(), gomock.Any(), int64(1), 480, 0).
			Return(nil)

		// store side: quantity grows by 20
		m.inventory.EXPECT().
			GetForUpdate(gomock.Any(), gomock.Any(), int64(1), int64(1)).
			Return(helpers.CreateTestInventoryRecord(), nil)
		m.inventory.EXPECT().
			SetQuantity(gomock.Any(), gomock.Any(), int64(1), int64(1), 70).
			Return(nil)

		movementTypes := make([]domain.MovementType, 0, 2)
		m.movements.EXPECT().
			Append(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ interface{}, mv *domain.StockMovement) error {
				movementTypes = append(movementTypes, mv.Type)
				return nil
			}).
			Times(2)

		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), order.ID, domain.POReceived).
			Return(nil)
		m.cache.EXPECT().
			DeletePattern(gomock.Any(), gomock.Any()).
			Return(nil)

		po, err := svc.Transition(context.Background(), order.ID, domain.POReceived, &actorID)
		require.NoError(t, err)
		assert.Equal(t, domain.POReceived, po.Status)
		assert.Equal(t, []domain.MovementType{domain.MovementReceive, domain.MovementReceive}, movementTypes)
	})

	t.Run("order_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newPurchaseOrderService(ctrl)
		id := uuid.New()

		passthroughTx(m.db)
		m.orders.EXPECT().
			FindByIDForUpdate(gomock.Any(), gomock.Any(), id).
			Return(nil, domain.NotFoundError("purchase order", id))

		_, err := svc.Transition(context.Background(), id, domain.POApproved, &actorID)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}
