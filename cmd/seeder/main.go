// cmd/seeder/main.go
//
// Seeds the development database with the Gajah Nusa reference data:
// stores, catalog, employees, per-store inventory and central warehouse
// counters. Safe to run repeatedly; every insert is ON CONFLICT DO NOTHING.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type seedStore struct {
	code    string
	name    string
	address string
	city    string
	manager string
	phone   string
}

type seedProduct struct {
	code     string
	name     string
	category string
	price    int64
	unit     string
}

type seedEmployee struct {
	storeCode string
	name      string
	role      string
}

var stores = []seedStore{
	{code: "JKT01", name: "Gajah Nusa Kelapa Gading", address: "Jl. Boulevard Raya 21", city: "Jakarta", manager: "Hendra Wijaya", phone: "021-4586-1121"},
	{code: "JKT02", name: "Gajah Nusa Kebon Jeruk", address: "Jl. Panjang 88", city: "Jakarta", manager: "Siti Rahma", phone: "021-5366-0404"},
	{code: "BDG01", name: "Gajah Nusa Kopo", address: "Jl. Kopo Bihbul 145", city: "Bandung", manager: "Dedi Kurniawan", phone: "022-5412-7788"},
	{code: "SBY01", name: "Gajah Nusa Rungkut", address: "Jl. Raya Rungkut 9", city: "Surabaya", manager: "Agus Prasetyo", phone: "031-8721-3345"},
	{code: "SMG01", name: "Gajah Nusa Pedurungan", address: "Jl. Majapahit 310", city: "Semarang", manager: "Rina Hartati", phone: "024-6722-9090"},
}

var products = []seedProduct{
	{code: "CEM-001", name: "Semen Gajah 50kg", category: "cement", price: 65000, unit: "sak"},
	{code: "CEM-002", name: "Semen Gajah 40kg", category: "cement", price: 54000, unit: "sak"},
	{code: "CEM-003", name: "Semen Putih 40kg", category: "cement", price: 98000, unit: "sak"},
	{code: "BRK-001", name: "Bata Merah Press", category: "brick", price: 1200, unit: "pcs"},
	{code: "BRK-002", name: "Bata Ringan AAC 10cm", category: "brick", price: 9500, unit: "pcs"},
	{code: "BRK-003", name: "Batako Semen", category: "brick", price: 3500, unit: "pcs"},
	{code: "STL-001", name: "Besi Beton 10mm x 12m", category: "steel", price: 78000, unit: "batang"},
	{code: "STL-002", name: "Besi Beton 12mm x 12m", category: "steel", price: 112000, unit: "batang"},
	{code: "STL-003", name: "Besi Hollow 4x4 Galvanis", category: "steel", price: 34000, unit: "batang"},
	{code: "TIL-001", name: "Keramik Lantai 40x40 Putih", category: "tile", price: 58000, unit: "dus"},
	{code: "TIL-002", name: "Keramik Lantai 60x60 Granit", category: "tile", price: 145000, unit: "dus"},
	{code: "TIL-003", name: "Keramik Dinding 25x40", category: "tile", price: 47000, unit: "dus"},
	{code: "PNT-001", name: "Cat Tembok Interior 5kg Putih", category: "paint", price: 125000, unit: "galon"},
	{code: "PNT-002", name: "Cat Tembok Eksterior 5kg", category: "paint", price: 185000, unit: "galon"},
	{code: "PNT-003", name: "Cat Kayu Besi 1kg", category: "paint", price: 62000, unit: "kaleng"},
	{code: "SND-001", name: "Pasir Cor per m3", category: "aggregate", price: 320000, unit: "m3"},
	{code: "SND-002", name: "Kerikil Split 1-2 per m3", category: "aggregate", price: 365000, unit: "m3"},
	{code: "PLB-001", name: "Pipa PVC 3 inch x 4m", category: "plumbing", price: 68000, unit: "batang"},
	{code: "PLB-002", name: "Pipa PVC 1/2 inch x 4m", category: "plumbing", price: 21000, unit: "batang"},
	{code: "ELC-001", name: "Kabel NYM 2x1.5 50m", category: "electrical", price: 335000, unit: "rol"},
}

var employees = []seedEmployee{
	{storeCode: "JKT01", name: "Hendra Wijaya", role: "manager"},
	{storeCode: "JKT01", name: "Budi Santoso", role: "cashier"},
	{storeCode: "JKT01", name: "Maya Lestari", role: "cashier"},
	{storeCode: "JKT02", name: "Siti Rahma", role: "manager"},
	{storeCode: "JKT02", name: "Andi Firmansyah", role: "cashier"},
	{storeCode: "BDG01", name: "Dedi Kurniawan", role: "manager"},
	{storeCode: "BDG01", name: "Lina Marlina", role: "cashier"},
	{storeCode: "SBY01", name: "Agus Prasetyo", role: "manager"},
	{storeCode: "SBY01", name: "Rudi Hartono", role: "cashier"},
	{storeCode: "SMG01", name: "Rina Hartati", role: "manager"},
	{storeCode: "SMG01", name: "Joko Susilo", role: "cashier"},
}

func main() {
	var (
		dryRun   = flag.Bool("dry-run", false, "Print what would be seeded without writing")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	logger := setupLogger(*logLevel)

	databaseURL := getEnv("DATABASE_URL", fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "gajahnusa"),
		getEnv("DB_PASSWORD", "gajahnusa_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "retail_stock"),
	))

	if *dryRun {
		logger.Info("dry run",
			slog.Int("stores", len(stores)),
			slog.Int("products", len(products)),
			slog.Int("employees", len(employees)))
		for _, s := range stores {
			fmt.Printf("store    %-6s %s (%s)\n", s.code, s.name, s.city)
		}
		for _, p := range products {
			fmt.Printf("product  %-8s %-35s Rp %d/%s\n", p.code, p.name, p.price, p.unit)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database unreachable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	start := time.Now()
	if err := seed(ctx, pool, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding complete", slog.Duration("elapsed", time.Since(start)))
}

func seed(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := seedStores(ctx, tx); err != nil {
		return fmt.Errorf("stores: %w", err)
	}
	if err := seedProducts(ctx, tx); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	if err := seedEmployees(ctx, tx); err != nil {
		return fmt.Errorf("employees: %w", err)
	}
	if err := seedWarehouse(ctx, tx); err != nil {
		return fmt.Errorf("warehouse: %w", err)
	}
	if err := seedInventory(ctx, tx); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logger.Info("seeded reference data",
		slog.Int("stores", len(stores)),
		slog.Int("products", len(products)),
		slog.Int("employees", len(employees)))
	return nil
}

func seedStores(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for _, s := range stores {
		batch.Queue(`
			INSERT INTO stores (code, name, address, city, manager, phone, status)
			VALUES ($1, $2, $3, $4, $5, $6, 'active')
			ON CONFLICT (code) DO NOTHING`,
			s.code, s.name, s.address, s.city, s.manager, s.phone)
	}
	return sendBatch(ctx, tx, batch)
}

func seedProducts(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (code, name, category, price, unit)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (code) DO NOTHING`,
			p.code, p.name, p.category, p.price, p.unit)
	}
	return sendBatch(ctx, tx, batch)
}

func seedEmployees(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for _, e := range employees {
		batch.Queue(`
			INSERT INTO employees (store_id, name, role, status)
			SELECT s.id, $2, $3, 'active'
			FROM stores s
			WHERE s.code = $1
			  AND NOT EXISTS (
				SELECT 1 FROM employees x WHERE x.store_id = s.id AND x.name = $2
			  )`,
			e.storeCode, e.name, e.role)
	}
	return sendBatch(ctx, tx, batch)
}

// Warehouse starts well stocked so purchase orders have something to draw on.
func seedWarehouse(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for i, p := range products {
		quantity := 500 + (i%5)*250
		batch.Queue(`
			INSERT INTO central_warehouse (product_id, total_quantity, reserved_quantity, supplier, last_restock)
			SELECT id, $2, 0, $3, NOW()
			FROM products
			WHERE code = $1
			ON CONFLICT (product_id) DO NOTHING`,
			p.code, quantity, supplierFor(p.category))
	}
	return sendBatch(ctx, tx, batch)
}

// Every store gets the full catalog at a modest starting quantity.
func seedInventory(ctx context.Context, tx pgx.Tx) error {
	batch := &pgx.Batch{}
	for _, s := range stores {
		for i, p := range products {
			quantity := 25 + (i%4)*15
			batch.Queue(`
				INSERT INTO inventory (store_id, product_id, quantity, min_threshold, max_threshold)
				SELECT s.id, p.id, $3, 10, 500
				FROM stores s, products p
				WHERE s.code = $1 AND p.code = $2
				ON CONFLICT (store_id, product_id) DO NOTHING`,
				s.code, p.code, quantity)
		}
	}
	return sendBatch(ctx, tx, batch)
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return results.Close()
}

func supplierFor(category string) string {
	switch category {
	case "cement":
		return "PT Semen Nusantara"
	case "steel":
		return "PT Baja Perkasa"
	case "tile", "brick":
		return "CV Keramindo Jaya"
	case "paint":
		return "PT Warna Prima"
	default:
		return "PT Gajah Nusa Distribusi"
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
