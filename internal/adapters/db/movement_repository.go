// internal/adapters/db/movement_repository.go
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

// movementRepository implements ports.MovementRepository. The table is
// append-only; there is no update or delete path.
type movementRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMovementRepository creates a new stock movement repository
func NewMovementRepository(db *Database, logger *slog.Logger) ports.MovementRepository {
	return &movementRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "movements")),
	}
}

// Append inserts one ledger entry inside the transaction that carries the
// counter change it describes. The uuid primary key rejects a replay of
// the same movement id.
func (r *movementRepository) Append(ctx context.Context, tx pgx.Tx, movement *domain.StockMovement) error {
	movement.PrepareForStorage()

	query := `
		INSERT INTO stock_movements (
			id, scope, store_id, product_id, type,
			quantity, previous_quantity, new_quantity,
			reason, actor_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := tx.Exec(ctx, query,
		movement.ID, movement.Scope, movement.StoreID, movement.ProductID, movement.Type,
		movement.Quantity, movement.PreviousQuantity, movement.NewQuantity,
		movement.Reason, movement.ActorID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append stock movement: %w", err)
	}

	r.logger.DebugContext(ctx, "stock movement appended",
		slog.String("id", movement.ID.String()),
		slog.String("type", string(movement.Type)),
		slog.Int64("product_id", movement.ProductID))

	return nil
}

// List retrieves ledger entries newest-first with filtering and pagination
func (r *movementRepository) List(ctx context.Context, filter ports.MovementListFilter) ([]domain.StockMovement, int64, error) {
	var conds []squirrel.Sqlizer
	if filter.Scope != nil {
		conds = append(conds, squirrel.Eq{"scope": *filter.Scope})
	}
	if filter.StoreID != nil {
		conds = append(conds, squirrel.Eq{"store_id": *filter.StoreID})
	}
	if filter.ProductID != nil {
		conds = append(conds, squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.Type != nil {
		conds = append(conds, squirrel.Eq{"type": *filter.Type})
	}

	totalCount, err := countRows(ctx, r.db, "stock_movements", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	qb := squirrel.Select(
		"id", "scope", "store_id", "product_id", "type",
		"quantity", "previous_quantity", "new_quantity",
		"reason", "actor_id", "created_at",
	).
		From("stock_movements").
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range conds {
		qb = qb.Where(c)
	}

	qb = qb.OrderBy("created_at DESC, id DESC")
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
		return nil, 0, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		m := domain.StockMovement{}
		var storeID, actorID sql.NullInt64
		var reason sql.NullString

		err := rows.Scan(
			&m.ID, &m.Scope, &storeID, &m.ProductID, &m.Type,
			&m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
			&reason, &actorID, &m.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan stock movement: %w", err)
		}

		if storeID.Valid {
			v := storeID.Int64
			m.StoreID = &v
		}
		if actorID.Valid {
			v := actorID.Int64
			m.ActorID = &v
		}
		m.Reason = reason.String
		movements = append(movements, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return movements, totalCount, nil
}
