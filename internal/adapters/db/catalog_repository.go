// internal/adapters/db/catalog_repository.go
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

// productRepository implements ports.ProductRepository
type productRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewProductRepository creates a new product catalog repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "products")),
	}
}

const productColumns = `id, code, name, category, price, unit, description, created_at, updated_at`

func scanProductRow(row pgx.Row) (*domain.Product, error) {
	p := &domain.Product{}
	var description sql.NullString

	err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Category, &p.Price,
		&p.Unit, &description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	return p, nil
}

// FindByID retrieves a product by id.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProductRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("product", id)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return p, nil
}

// FindByIDs retrieves products keyed by id. Missing ids are simply absent
// from the result; callers decide whether that is an error.
func (r *productRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		p := domain.Product{}
		var description sql.NullString

		err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Category, &p.Price,
			&p.Unit, &description, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Description = description.String
		products[p.ID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// List retrieves products with filtering and pagination
func (r *productRepository) List(ctx context.Context, filter ports.ProductListFilter) ([]domain.Product, int64, error) {
	var conds []squirrel.Sqlizer
	if filter.Category != nil {
		conds = append(conds, squirrel.Eq{"category": *filter.Category})
	}
	if filter.Search != "" {
		conds = append(conds, squirrel.Expr(
			"(name ILIKE '%' || ? || '%' OR code ILIKE '%' || ? || '%')",
			filter.Search, filter.Search))
	}

	totalCount, err := countRows(ctx, r.db, "products", conds)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	qb := squirrel.Select(
		"id", "code", "name", "category", "price",
		"unit", "description", "created_at", "updated_at",
	).
		From("products").
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range conds {
		qb = qb.Where(c)
	}

	qb = qb.OrderBy("name ASC")
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
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p := domain.Product{}
		var description sql.NullString

		err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Category, &p.Price,
			&p.Unit, &description, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}

		p.Description = description.String
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, totalCount, nil
}

// storeRepository implements ports.StoreRepository
type storeRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewStoreRepository creates a new store reference data repository
func NewStoreRepository(db *Database, logger *slog.Logger) ports.StoreRepository {
	return &storeRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "stores")),
	}
}

const storeColumns = `id, code, name, address, city, manager, phone, status, created_at, updated_at`

// FindByID retrieves a store by id.
func (r *storeRepository) FindByID(ctx context.Context, id int64) (*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	s := &domain.Store{}
	var address, city, manager, phone sql.NullString

	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Code, &s.Name, &address, &city,
		&manager, &phone, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundError("store", id)
		}
		return nil, fmt.Errorf("failed to find store: %w", err)
	}

	s.Address = address.String
	s.City = city.String
	s.Manager = manager.String
	s.Phone = phone.String
	return s, nil
}

// List retrieves all stores.
func (r *storeRepository) List(ctx context.Context) ([]domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		s := domain.Store{}
		var address, city, manager, phone sql.NullString

		err := rows.Scan(
			&s.ID, &s.Code, &s.Name, &address, &city,
			&manager, &phone, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}

		s.Address = address.String
		s.City = city.String
		s.Manager = manager.String
		s.Phone = phone.String
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return stores, nil
}
