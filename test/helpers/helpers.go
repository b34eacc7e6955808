// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gajahnusa/retail-be/internal/adapters/db"
	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
	"github.com/gajahnusa/retail-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	// Pull PostgreSQL image
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_retail",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	// Clean up on test completion
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	// Get connection details
	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_retail",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	// Run migrations
	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_retail",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		POS: config.POSConfig{
			TaxRate:        decimal.NewFromFloat(0.11),
			Currency:       "IDR",
			LowStockAlerts: true,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	product := &domain.Product{
		ID:        1,
		Code:      "CEM-001",
		Name:      "Semen Gajah 50kg",
		Category:  domain.CategoryCement,
		Price:     decimal.NewFromInt(65000),
		Unit:      "sak",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(product)
	}

	return product
}

// CreateTestStore creates a test store
func CreateTestStore(overrides ...func(*domain.Store)) *domain.Store {
	store := &domain.Store{
		ID:        1,
		Code:      "JKT01",
		Name:      "Gajah Nusa Kelapa Gading",
		Address:   "Jl. Boulevard Raya No. 18",
		City:      "Jakarta",
		Manager:   "Budi Santoso",
		Phone:     "021-4585-1234",
		Status:    "active",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(store)
	}

	return store
}

// CreateTestInventoryRecord creates a test store inventory record
func CreateTestInventoryRecord(overrides ...func(*domain.StoreInventoryRecord)) *domain.StoreInventoryRecord {
	record := &domain.StoreInventoryRecord{
		StoreID:      1,
		ProductID:    1,
		Quantity:     50,
		MinThreshold: 10,
		MaxThreshold: 1000,
		Location:     "rack A-3",
		UpdatedAt:    time.Now(),
	}

	for _, override := range overrides {
		override(record)
	}

	return record
}

// CreateTestWarehouseRecord creates a test central warehouse record
func CreateTestWarehouseRecord(overrides ...func(*domain.WarehouseRecord)) *domain.WarehouseRecord {
	record := &domain.WarehouseRecord{
		ProductID:        1,
		TotalQuantity:    500,
		ReservedQuantity: 0,
		Supplier:         "PT Semen Nusantara",
		UpdatedAt:        time.Now(),
	}

	for _, override := range overrides {
		override(record)
	}

	return record
}

// CreateTestPurchaseOrder creates a test purchase order
func CreateTestPurchaseOrder(overrides ...func(*domain.PurchaseOrder)) *domain.PurchaseOrder {
	order := &domain.PurchaseOrder{
		ID:          uuid.New(),
		OrderNumber: "PO-JKT01-0001",
		StoreID:     1,
		Items: []domain.PurchaseOrderItem{
			{
				ProductID:   1,
				ProductName: "Semen Gajah 50kg",
				Quantity:    20,
				UnitPrice:   decimal.NewFromInt(65000),
			},
		},
		Status:      domain.POPending,
		RequestedBy: 7,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	order.ComputeTotals()

	for _, override := range overrides {
		override(order)
	}

	return order
}

// CreateTestSaleParams creates test POS checkout params
func CreateTestSaleParams(overrides ...func(*ports.CommitSaleParams)) ports.CommitSaleParams {
	params := ports.CommitSaleParams{
		StoreID:      1,
		CustomerName: "Pak Hartono",
		Items: []ports.SaleItemParams{
			{ProductID: 1, Quantity: 2},
		},
		PaymentMethod:  domain.PaymentCash,
		AmountTendered: decimal.NewFromInt(200000),
		CashierID:      3,
	}

	for _, override := range overrides {
		override(&params)
	}

	return params
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"stock_movements",
		"transaction_items",
		"transactions",
		"purchase_order_items",
		"purchase_orders",
		"po_counters",
		"daily_sales_summaries",
		"central_warehouse",
		"inventory",
		"employees",
		"products",
		"stores",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedTestData seeds the database with a store, a product and opening stock
// on both sides of the chain.
func SeedTestData(t *testing.T, db *pgxpool.Pool, store *domain.Store, product *domain.Product, storeQty, warehouseTotal int) {
	t.Helper()

	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO stores (id, code, name, address, city, manager, phone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, store.ID, store.Code, store.Name, store.Address, store.City,
		store.Manager, store.Phone, store.Status, store.CreatedAt, store.UpdatedAt)
	require.NoError(t, err, "Failed to seed store")

	_, err = db.Exec(ctx, `
		INSERT INTO products (id, code, name, category, price, unit, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, product.ID, product.Code, product.Name, product.Category,
		product.Price, product.Unit, product.Description, product.CreatedAt, product.UpdatedAt)
	require.NoError(t, err, "Failed to seed product")

	if storeQty > 0 {
		_, err = db.Exec(ctx, `
			INSERT INTO inventory (store_id, product_id, quantity, min_threshold, max_threshold, updated_at)
			VALUES ($1, $2, $3, 10, 1000, NOW())
		`, store.ID, product.ID, storeQty)
		require.NoError(t, err, "Failed to seed inventory")
	}

	if warehouseTotal > 0 {
		_, err = db.Exec(ctx, `
			INSERT INTO central_warehouse (product_id, total_quantity, reserved_quantity, supplier, updated_at)
			VALUES ($1, $2, 0, 'PT Semen Nusantara', NOW())
		`, product.ID, warehouseTotal)
		require.NoError(t, err, "Failed to seed warehouse stock")
	}
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
