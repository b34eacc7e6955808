//go:build integration
// +build integration

package db_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"

	"github.com/gajahnusa/retail-be/internal/adapters/db"
	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/core/services"
	"github.com/gajahnusa/retail-be/test/helpers"
)

type StockRepositoriesSuite struct {
	suite.Suite
	testDB    *helpers.TestDB
	inventory ports.InventoryRepository
	warehouse ports.WarehouseRepository
	movements ports.MovementRepository
	orders    ports.PurchaseOrderRepository
	ledger    *services.Ledger
	ctx       context.Context
}

func (s *StockRepositoriesSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	s.inventory = db.NewInventoryRepository(s.testDB.Database, logger)
	s.warehouse = db.NewWarehouseRepository(s.testDB.Database, logger)
	s.movements = db.NewMovementRepository(s.testDB.Database, logger)
	s.orders = db.NewPurchaseOrderRepository(s.testDB.Database, logger)
	s.ledger = services.NewLedger(s.inventory, s.warehouse, s.movements, logger)
	s.ctx = context.Background()
}

func (s *StockRepositoriesSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *StockRepositoriesSuite) seed(storeQty, warehouseTotal int) {
	helpers.SeedTestData(s.T(), s.testDB.PgxPool,
		helpers.CreateTestStore(), helpers.CreateTestProduct(), storeQty, warehouseTotal)
}

func (s *StockRepositoriesSuite) seedEmployee(id int64) {
	_, err := s.testDB.PgxPool.Exec(s.ctx, `
		INSERT INTO employees (id, store_id, name, role, status)
		VALUES ($1, 1, 'Budi Santoso', 'manager', 'active')`, id)
	s.Require().NoError(err)
}

func (s *StockRepositoriesSuite) countMovements(movementType domain.MovementType) int {
	var count int
	err := s.testDB.PgxPool.QueryRow(s.ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE type = $1`, movementType).Scan(&count)
	s.Require().NoError(err)
	return count
}

func (s *StockRepositoriesSuite) TestAdjustments_SerializeOnRow() {
	s.seed(100, 0)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := s.testDB.Database.Transaction(context.Background(), func(tx pgx.Tx) error {
				_, _, err := s.ledger.AdjustStore(context.Background(), tx, services.AdjustStoreParams{
					StoreID:   1,
					ProductID: 1,
					Mode:      domain.AdjustOut,
					Quantity:  10,
					Reason:    "shrinkage count",
				})
				return err
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	record, err := s.inventory.Get(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Equal(0, record.Quantity)
	s.Equal(workers, s.countMovements(domain.MovementAdjustOut))
}

func (s *StockRepositoriesSuite) TestAdjustments_NeverGoNegative() {
	s.seed(25, 0)

	const workers = 5
	results := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			results <- s.testDB.Database.Transaction(context.Background(), func(tx pgx.Tx) error {
				_, _, err := s.ledger.AdjustStore(context.Background(), tx, services.AdjustStoreParams{
					StoreID:   1,
					ProductID: 1,
					Mode:      domain.AdjustOut,
					Quantity:  10,
				})
				return err
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, domain.ErrInsufficientStock), "unexpected error: %v", err)
	}

	// 25 on hand only covers two withdrawals of 10
	s.Equal(2, succeeded)

	record, err := s.inventory.Get(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Equal(5, record.Quantity)
	s.Equal(succeeded, s.countMovements(domain.MovementAdjustOut))
}

func (s *StockRepositoriesSuite) TestAdjustments_RollBackWithCounter() {
	s.seed(50, 0)

	boom := errors.New("downstream failure")
	err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		_, _, err := s.ledger.AdjustStore(s.ctx, tx, services.AdjustStoreParams{
			StoreID:   1,
			ProductID: 1,
			Mode:      domain.AdjustIn,
			Quantity:  20,
		})
		s.Require().NoError(err)
		return boom
	})
	s.ErrorIs(err, boom)

	record, err := s.inventory.Get(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Equal(50, record.Quantity, "counter change must roll back")
	s.Equal(0, s.countMovements(domain.MovementAdjustIn), "ledger entry must roll back")
}

func (s *StockRepositoriesSuite) TestAdjustments_CreateRowLazily() {
	s.seed(0, 0)

	err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		result, record, err := s.ledger.AdjustStore(s.ctx, tx, services.AdjustStoreParams{
			StoreID:   1,
			ProductID: 1,
			Mode:      domain.AdjustIn,
			Quantity:  15,
		})
		if err != nil {
			return err
		}
		s.Equal(0, result.Previous)
		s.Equal(15, result.New)
		s.Equal(10, record.MinThreshold, "thresholds fall back to schema defaults")
		return nil
	})
	s.Require().NoError(err)

	record, err := s.inventory.Get(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Equal(15, record.Quantity)
}

func (s *StockRepositoriesSuite) TestAdjustments_UnknownStoreIsNotFound() {
	s.seed(0, 0)

	err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		_, _, err := s.ledger.AdjustStore(s.ctx, tx, services.AdjustStoreParams{
			StoreID:   99,
			ProductID: 1,
			Mode:      domain.AdjustIn,
			Quantity:  10,
		})
		return err
	})
	s.Require().Error(err)
	s.True(domain.IsNotFound(err), "unexpected error: %v", err)
}

func (s *StockRepositoriesSuite) TestInventory_ListCountsFilteredRows() {
	s.seed(100, 0)

	records, total, err := s.inventory.List(s.ctx, ports.InventoryListFilter{
		StoreID: 1,
		Limit:   10,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(records, 1)
	s.Equal(100, records[0].Quantity)
}

func (s *StockRepositoriesSuite) TestReservations_NeverOversubscribe() {
	s.seed(0, 100)

	const workers = 5
	results := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			results <- s.testDB.Database.Transaction(context.Background(), func(tx pgx.Tx) error {
				_, err := s.ledger.Reserve(context.Background(), tx, 1, 30, "restock order", nil)
				return err
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.True(errors.Is(err, domain.ErrInsufficientAvailable), "unexpected error: %v", err)
	}

	// 100 free only covers three holds of 30
	s.Equal(3, succeeded)

	record, err := s.warehouse.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(100, record.TotalQuantity)
	s.Equal(90, record.ReservedQuantity)
	s.NoError(record.CheckInvariant())
}

func (s *StockRepositoriesSuite) TestReceive_KeepsFreePoolUnchanged() {
	s.seed(0, 200)

	err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		_, err := s.ledger.Reserve(s.ctx, tx, 1, 60, "restock order", nil)
		return err
	})
	s.Require().NoError(err)

	err = s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		result, err := s.ledger.Receive(s.ctx, tx, 1, 60, "order received", nil)
		if err != nil {
			return err
		}
		s.Equal(140, result.NewTotal)
		s.Equal(0, result.NewReserved)
		return nil
	})
	s.Require().NoError(err)

	record, err := s.warehouse.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(140, record.TotalQuantity)
	s.Equal(0, record.ReservedQuantity)
	s.Equal(140, record.Available())
}

func (s *StockRepositoriesSuite) TestOrderNumbers_AreMonotonicUnderConcurrency() {
	s.seed(0, 0)

	const workers = 10
	seqs := make(chan int64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			err := s.testDB.Database.Transaction(context.Background(), func(tx pgx.Tx) error {
				seq, err := s.orders.NextOrderNumber(context.Background(), tx, 1)
				if err != nil {
					return err
				}
				seqs <- seq
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()
	close(seqs)

	seen := make(map[int64]bool)
	for seq := range seqs {
		s.False(seen[seq], "sequence %d claimed twice", seq)
		s.GreaterOrEqual(seq, int64(1))
		s.LessOrEqual(seq, int64(workers))
		seen[seq] = true
	}
	s.Len(seen, workers)
}

func (s *StockRepositoriesSuite) TestPurchaseOrders_SaveAndFindRoundTrip() {
	s.seed(0, 500)
	s.seedEmployee(7)

	order := helpers.CreateTestPurchaseOrder()
	err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		return s.orders.Save(s.ctx, tx, order)
	})
	s.Require().NoError(err)

	found, err := s.orders.FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(order.OrderNumber, found.OrderNumber)
	s.Equal(domain.POPending, found.Status)
	s.Require().Len(found.Items, 1)
	s.Equal(order.Items[0].ProductID, found.Items[0].ProductID)
	s.Equal(order.Items[0].Quantity, found.Items[0].Quantity)
	s.True(order.TotalAmount.Equal(found.TotalAmount))

	err = s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
		return s.orders.UpdateStatus(s.ctx, tx, order.ID, domain.POApproved)
	})
	s.Require().NoError(err)

	found, err = s.orders.FindByID(s.ctx, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.POApproved, found.Status)
}

func (s *StockRepositoriesSuite) TestMovements_ListNewestFirst() {
	s.seed(100, 0)

	for i := 0; i < 3; i++ {
		err := s.testDB.Database.Transaction(s.ctx, func(tx pgx.Tx) error {
			_, _, err := s.ledger.AdjustStore(s.ctx, tx, services.AdjustStoreParams{
				StoreID:   1,
				ProductID: 1,
				Mode:      domain.AdjustIn,
				Quantity:  5,
			})
			return err
		})
		s.Require().NoError(err)
	}

	scope := domain.ScopeStore
	movements, total, err := s.movements.List(s.ctx, ports.MovementListFilter{
		Scope: &scope,
		Limit: 2,
	})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(movements, 2)
	s.Equal(115, movements[0].NewQuantity, "newest entry first")
	s.Equal(110, movements[1].NewQuantity)
}

func TestStockRepositoriesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(StockRepositoriesSuite))
}
