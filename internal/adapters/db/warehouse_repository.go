// internal/adapters/db/warehouse_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// warehouseRepository implements ports.WarehouseRepository
type warehouseRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewWarehouseRepository creates a new central warehouse repository
func NewWarehouseRepository(db *Database, logger *slog.Logger) ports.WarehouseRepository {
	return &warehouseRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "warehouse")),
	}
}

const warehouseColumns = `product_id, total_quantity, reserved_quantity, supplier, last_restock, updated_at`

func scanWarehouseRow(row pgx.Row) (*domain.WarehouseRecord, error) {
	rec := &domain.WarehouseRecord{}
	var supplier sql.NullString
	var lastRestock sql.NullTime

	err := row.Scan(
		&rec.ProductID, &rec.TotalQuantity, &rec.ReservedQuantity,
		&supplier, &lastRestock, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Supplier = supplier.String
	if lastRestock.Valid {
		t := lastRestock.Time
		rec.LastRestock = &t
	}
	return rec, nil
}

// Get retrieves the warehouse counters for one product.
func (r *warehouseRepository) Get(ctx context.Context, productID int64) (*domain.WarehouseRecord, error) {
	query := `
		SELECT ` + warehouseColumns + `
		FROM central_warehouse
		WHERE product_id = $1`

	rec, err := scanWarehouseRow(r.db.QueryRow(ctx, query, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("warehouse record", productID)
		}
		return nil, fmt.Errorf("failed to get warehouse record: %w", err)
	}

	return rec, nil
}

// GetForUpdate locks the product's counter row for the rest of the
// transaction so concurrent reservations serialize on it.
func (r *warehouseRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, productID int64) (*domain.WarehouseRecord, error) {
	query := `
		SELECT ` + warehouseColumns + `
		FROM central_warehouse
		WHERE product_id = $1
		FOR UPDATE`

	rec, err := scanWarehouseRow(tx.QueryRow(ctx, query, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("warehouse record", productID)
		}
		return nil, fmt.Errorf("failed to lock warehouse record: %w", err)
	}

	return rec, nil
}

// SetQuantities writes both counters for an already-locked row in one
// statement, so the reserved <= total invariant never straddles commits.
func (r *warehouseRepository) SetQuantities(ctx context.Context, tx pgx.Tx, productID int64, total, reserved int) error {
	query := `
		UPDATE central_warehouse
		SET total_quantity = $2, reserved_quantity = $3, updated_at = NOW()
		WHERE product_id = $1`

	tag, err := tx.Exec(ctx, query, productID, total, reserved)
	if err != nil {
		return fmt.Errorf("failed to set warehouse quantities: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("warehouse record", productID)
	}

	return nil
}

// List retrieves warehouse records with pagination
func (r *warehouseRepository) List(ctx context.Context, filter ports.WarehouseListFilter) ([]domain.WarehouseRecord, int64, error) {
	var conds []squirrel.Sqlizer
	if filter.ProductID != nil {
		conds = append(conds, squirrel.Eq{"product_id": *filter.ProductID})
	}

	totalCount, err := countRows(ctx, r.db, "central_warehouse", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count warehouse records: %w", err)
	}

	qb := squirrel.Select(
		"product_id", "total_quantity", "reserved_quantity",
		"supplier", "last_restock", "updated_at",
	).
		From("central_warehouse").
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range conds {
		qb = qb.Where(c)
	}

	qb = qb.OrderBy("product_id ASC")
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		qb = qb.Offset(uint64(filter.Offset))
	}

	querySQL, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query warehouse records: %w", err)
	}
	defer rows.Close()

	var records []domain.WarehouseRecord
	for rows.Next() {
		rec := domain.WarehouseRecord{}
		var supplier sql.NullString
		var lastRestock sql.NullTime

		err := rows.Scan(
			&rec.ProductID, &rec.TotalQuantity, &rec.ReservedQuantity,
			&supplier, &lastRestock, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan warehouse record: %w", err)
		}

		rec.Supplier = supplier.String
		if lastRestock.Valid {
			t := lastRestock.Time
			rec.LastRestock = &t
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, totalCount, nil
}
