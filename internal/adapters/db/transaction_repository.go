// internal/adapters/db/transaction_repository.go
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

// transactionRepository implements ports.TransactionRepository. Rows are
// written once at checkout and never mutated.
type transactionRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new POS transaction repository
func NewTransactionRepository(db *Database, logger *slog.Logger) ports.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "transactions")),
	}
}

// Save inserts a completed transaction and its items inside the checkout
// transaction, alongside the stock decrements it paid for.
func (r *transactionRepository) Save(ctx context.Context, tx pgx.Tx, txn *domain.PosTransaction) error {
	query := `
		INSERT INTO transactions (
			id, transaction_code, store_id, customer_name,
			subtotal, tax, total, payment_method,
			amount_tendered, change_due, cashier_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		txn.ID, txn.TransactionCode, txn.StoreID, txn.CustomerName,
		txn.Subtotal, txn.Tax, txn.Total, txn.PaymentMethod,
		txn.AmountTendered, txn.ChangeDue, txn.CashierID, txn.Status, txn.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFoundError("store or cashier", fmt.Sprintf("%d/%d", txn.StoreID, txn.CashierID))
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	itemQuery := `
		INSERT INTO transaction_items (
			transaction_id, product_id, product_name, product_code,
			quantity, unit_price, subtotal
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for i := range txn.Items {
		batch.Queue(itemQuery,
			txn.ID, txn.Items[i].ProductID, txn.Items[i].ProductName, txn.Items[i].ProductCode,
			txn.Items[i].Quantity, txn.Items[i].UnitPrice, txn.Items[i].Subtotal,
		)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := range txn.Items {
		if _, err := br.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NotFoundError("product", txn.Items[i].ProductID)
			}
			return fmt.Errorf("failed to save transaction item %d: %w", i, err)
		}
	}

	r.logger.DebugContext(ctx, "transaction saved",
		slog.String("id", txn.ID.String()),
		slog.String("code", txn.TransactionCode))

	return nil
}

// FindByID retrieves a transaction with its items.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PosTransaction, error) {
	query := `
		SELECT id, transaction_code, store_id, customer_name,
			subtotal, tax, total, payment_method,
			amount_tendered, change_due, cashier_id, status, created_at
		FROM transactions
		WHERE id = $1`

	txn := &domain.PosTransaction{}
	var customerName sql.NullString

	err := r.db.QueryRow(ctx, query, id).Scan(
		&txn.ID, &txn.TransactionCode, &txn.StoreID, &customerName,
		&txn.Subtotal, &txn.Tax, &txn.Total, &txn.PaymentMethod,
		&txn.AmountTendered, &txn.ChangeDue, &txn.CashierID, &txn.Status, &txn.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("transaction", id)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	txn.CustomerName = customerName.String

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	txn.Items = items

	return txn, nil
}

func (r *transactionRepository) loadItems(ctx context.Context, txnID uuid.UUID) ([]domain.TransactionItem, error) {
	query := `
		SELECT product_id, product_name, product_code, quantity, unit_price, subtotal
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction items: %w", err)
	}
	defer rows.Close()

	var items []domain.TransactionItem
	for rows.Next() {
		item := domain.TransactionItem{}
		var name, code sql.NullString

		err := rows.Scan(&item.ProductID, &name, &code, &item.Quantity, &item.UnitPrice, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction item: %w", err)
		}

		item.ProductName = name.String
		item.ProductCode = code.String
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// List retrieves transactions newest-first with filtering and pagination.
func (r *transactionRepository) List(ctx context.Context, filter ports.TransactionListFilter) ([]domain.PosTransaction, int64, error) {
	var conds []squirrel.Sqlizer
	if filter.StoreID != nil {
		conds = append(conds, squirrel.Eq{"store_id": *filter.StoreID})
	}
	if filter.CashierID != nil {
		conds = append(conds, squirrel.Eq{"cashier_id": *filter.CashierID})
	}

	totalCount, err := countRows(ctx, r.db, "transactions", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	qb := squirrel.Select(
		"id", "transaction_code", "store_id", "customer_name",
		"subtotal", "tax", "total", "payment_method",
		"amount_tendered", "change_due", "cashier_id", "status", "created_at",
	).
		From("transactions").
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
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.PosTransaction
	for rows.Next() {
		txn := domain.PosTransaction{}
		var customerName sql.NullString

		err := rows.Scan(
			&txn.ID, &txn.TransactionCode, &txn.StoreID, &customerName,
			&txn.Subtotal, &txn.Tax, &txn.Total, &txn.PaymentMethod,
			&txn.AmountTendered, &txn.ChangeDue, &txn.CashierID, &txn.Status, &txn.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.CustomerName = customerName.String
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	for i := range txns {
		items, err := r.loadItems(ctx, txns[i].ID)
		if err != nil {
			return nil, 0, err
		}
		txns[i].Items = items
	}

	return txns, totalCount, nil
}
