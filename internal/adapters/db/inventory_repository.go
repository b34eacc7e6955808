// internal/adapters/db/inventory_repository.go
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

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new store inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

const inventoryColumns = `store_id, product_id, quantity, min_threshold, max_threshold, location, updated_at`

func scanInventoryRow(row pgx.Row) (*domain.StoreInventoryRecord, error) {
	rec := &domain.StoreInventoryRecord{}
	var location sql.NullString

	err := row.Scan(
		&rec.StoreID, &rec.ProductID, &rec.Quantity,
		&rec.MinThreshold, &rec.MaxThreshold,
		&location, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Location = location.String
	return rec, nil
}

// Get retrieves the current record for one (store, product) pair.
func (r *inventoryRepository) Get(ctx context.Context, storeID, productID int64) (*domain.StoreInventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE store_id = $1 AND product_id = $2`

	rec, err := scanInventoryRow(r.db.QueryRow(ctx, query, storeID, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("inventory record", fmt.Sprintf("%d/%d", storeID, productID))
		}
		return nil, fmt.Errorf("failed to get inventory record: %w", err)
	}

	return rec, nil
}

// GetForUpdate locks the (store, product) row for the rest of the
// transaction so concurrent adjustments serialize on it.
func (r *inventoryRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, storeID, productID int64) (*domain.StoreInventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE store_id = $1 AND product_id = $2
		FOR UPDATE`

	rec, err := scanInventoryRow(tx.QueryRow(ctx, query, storeID, productID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("inventory record", fmt.Sprintf("%d/%d", storeID, productID))
		}
		return nil, fmt.Errorf("failed to lock inventory record: %w", err)
	}

	return rec, nil
}

// Create inserts a fresh (store, product) row inside the given transaction.
// Thresholds fall back to the schema defaults when left zero.
func (r *inventoryRepository) Create(ctx context.Context, tx pgx.Tx, record *domain.StoreInventoryRecord) error {
	query := `
		INSERT INTO inventory (store_id, product_id, quantity, min_threshold, max_threshold, location)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, 0), 10), COALESCE(NULLIF($5, 0), 1000), $6)
		RETURNING min_threshold, max_threshold, updated_at`

	err := tx.QueryRow(ctx, query,
		record.StoreID, record.ProductID, record.Quantity,
		record.MinThreshold, record.MaxThreshold, record.Location,
	).Scan(&record.MinThreshold, &record.MaxThreshold, &record.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFoundError("store or product", fmt.Sprintf("%d/%d", record.StoreID, record.ProductID))
		}
		return fmt.Errorf("failed to create inventory record: %w", err)
	}

	r.logger.DebugContext(ctx, "inventory record created",
		slog.Int64("store_id", record.StoreID),
		slog.Int64("product_id", record.ProductID))

	return nil
}

// SetQuantity writes the new quantity for an already-locked row.
func (r *inventoryRepository) SetQuantity(ctx context.Context, tx pgx.Tx, storeID, productID int64, quantity int) error {
	query := `
		UPDATE inventory
		SET quantity = $3, updated_at = NOW()
		WHERE store_id = $1 AND product_id = $2`

	tag, err := tx.Exec(ctx, query, storeID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to set inventory quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("inventory record", fmt.Sprintf("%d/%d", storeID, productID))
	}

	return nil
}

// List retrieves inventory records with filtering and pagination
func (r *inventoryRepository) List(ctx context.Context, filter ports.InventoryListFilter) ([]domain.StoreInventoryRecord, int64, error) {
	conds := []squirrel.Sqlizer{squirrel.Eq{"store_id": filter.StoreID}}
	if filter.ProductID != nil {
		conds = append(conds, squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.LowStock {
		conds = append(conds, squirrel.Expr("quantity < min_threshold"))
	}

	totalCount, err := countRows(ctx, r.db, "inventory", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory records: %w", err)
	}

	qb := squirrel.Select(
		"store_id", "product_id", "quantity",
		"min_threshold", "max_threshold", "location", "updated_at",
	).
		From("inventory").
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
		return nil, 0, fmt.Errorf("failed to query inventory records: %w", err)
	}
	defer rows.Close()

	var records []domain.StoreInventoryRecord
	for rows.Next() {
		rec := domain.StoreInventoryRecord{}
		var location sql.NullString

		err := rows.Scan(
			&rec.StoreID, &rec.ProductID, &rec.Quantity,
			&rec.MinThreshold, &rec.MaxThreshold,
			&location, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory record: %w", err)
		}

		rec.Location = location.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, totalCount, nil
}
