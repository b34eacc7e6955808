// internal/adapters/db/purchase_order_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gajahnusa/retail-be/internal/core/domain"
	"github.com/gajahnusa/retail-be/internal/core/ports"
)

// purchaseOrderRepository implements ports.PurchaseOrderRepository
type purchaseOrderRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPurchaseOrderRepository creates a new purchase order repository
func NewPurchaseOrderRepository(db *Database, logger *slog.Logger) ports.PurchaseOrderRepository {
	return &purchaseOrderRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "purchase_orders")),
	}
}

// NextOrderNumber claims the store's next order sequence number. The upsert
// runs inside the creating transaction, so two concurrent creations for the
// same store serialize on the counter row and never see the same value.
func (r *purchaseOrderRepository) NextOrderNumber(ctx context.Context, tx pgx.Tx, storeID int64) (int64, error) {
	query := `
		INSERT INTO po_counters (store_id, seq)
		VALUES ($1, 1)
		ON CONFLICT (store_id) DO UPDATE SET seq = po_counters.seq + 1
		RETURNING seq`

	var seq int64
	if err := tx.QueryRow(ctx, query, storeID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to claim order number: %w", err)
	}

	return seq, nil
}

// Save inserts a purchase order and its frozen items.
func (r *purchaseOrderRepository) Save(ctx context.Context, tx pgx.Tx, po *domain.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (
			id, order_number, store_id, total_amount, status,
			notes, requested_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		po.ID, po.OrderNumber, po.StoreID, po.TotalAmount, po.Status,
		po.Notes, po.RequestedBy, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save purchase order: %w", err)
	}

	itemQuery := `
		INSERT INTO purchase_order_items (
			purchase_order_id, product_id, product_name, quantity, unit_price, subtotal
		) VALUES ($1, $2, $3, $4, $5, $6)`

	batch := &pgx.Batch{}
	for i := range po.Items {
		batch.Queue(itemQuery,
			po.ID, po.Items[i].ProductID, po.Items[i].ProductName,
			po.Items[i].Quantity, po.Items[i].UnitPrice, po.Items[i].Subtotal,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range po.Items {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save purchase order item %d: %w", i, err)
		}
	}

	r.logger.DebugContext(ctx, "purchase order saved",
		slog.String("id", po.ID.String()),
		slog.String("order_number", po.OrderNumber))

	return nil
}

const purchaseOrderColumns = `id, order_number, store_id, total_amount, status, notes, requested_by, created_at, updated_at`

func scanPurchaseOrderRow(row pgx.Row) (*domain.PurchaseOrder, error) {
	po := &domain.PurchaseOrder{}
	var notes sql.NullString

	err := row.Scan(
		&po.ID, &po.OrderNumber, &po.StoreID, &po.TotalAmount, &po.Status,
		&notes, &po.RequestedBy, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	po.Notes = notes.String
	return po, nil
}

// FindByID retrieves a purchase order with its items.
func (r *purchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	query := `
		SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE id = $1`

	po, err := scanPurchaseOrderRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("purchase order", id)
		}
		return nil, fmt.Errorf("failed to find purchase order: %w", err)
	}

	items, err := r.loadItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	po.Items = items

	return po, nil
}

// FindByIDForUpdate locks the purchase order row for the rest of the
// transaction so concurrent transitions serialize on it.
func (r *purchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.PurchaseOrder, error) {
	query := `
		SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE id = $1
		FOR UPDATE`

	po, err := scanPurchaseOrderRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("purchase order", id)
		}
		return nil, fmt.Errorf("failed to lock purchase order: %w", err)
	}

	items, err := r.loadItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	po.Items = items

	return po, nil
}

// queryer lets item loading run on the pool or inside a transaction.
type queryer interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func (r *purchaseOrderRepository) loadItems(ctx context.Context, q queryer, poID uuid.UUID) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT product_id, product_name, quantity, unit_price, subtotal
		FROM purchase_order_items
		WHERE purchase_order_id = $1
		ORDER BY id ASC`

	rows, err := q.Query(ctx, query, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase order items: %w", err)
	}
	defer rows.Close()

	var items []domain.PurchaseOrderItem
	for rows.Next() {
		item := domain.PurchaseOrderItem{}
		var name sql.NullString

		err := rows.Scan(&item.ProductID, &name, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order item: %w", err)
		}

		item.ProductName = name.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// UpdateStatus writes the new status for an already-locked order.
func (r *purchaseOrderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PurchaseOrderStatus) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundError("purchase order", id)
	}

	return nil
}

// List retrieves purchase orders newest-first with filtering and pagination.
// Items are loaded per order; listings are small and paginated.
func (r *purchaseOrderRepository) List(ctx context.Context, filter ports.PurchaseOrderListFilter) ([]domain.PurchaseOrder, int64, error) {
	var conds []squirrel.Sqlizer
	if filter.StoreID != nil {
		conds = append(conds, squirrel.Eq{"store_id": *filter.StoreID})
	}
	if filter.Status != nil {
		conds = append(conds, squirrel.Eq{"status": *filter.Status})
	}

	totalCount, err := countRows(ctx, r.db, "purchase_orders", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase orders: %w", err)
	}

	qb := squirrel.Select(
		"id", "order_number", "store_id", "total_amount", "status",
		"notes", "requested_by", "created_at", "updated_at",
	).
		From("purchase_orders").
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range conds {
		qb = qb.Where(c)
	}

	qb = qb.OrderBy("created_at DESC")
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
		return nil, 0, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.PurchaseOrder
	for rows.Next() {
		po := domain.PurchaseOrder{}
		var notes sql.NullString

		err := rows.Scan(
			&po.ID, &po.OrderNumber, &po.StoreID, &po.TotalAmount, &po.Status,
			&notes, &po.RequestedBy, &po.CreatedAt, &po.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan purchase order: %w", err)
		}

		po.Notes = notes.String
		orders = append(orders, po)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, r.db, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}

	return orders, totalCount, nil
}
