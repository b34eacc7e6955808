// internal/adapters/db/listing.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

func buildCountQuery(table string, conds []squirrel.Sqlizer) (string, []interface{}, error) {
	qb := squirrel.Select("COUNT(*)").
		From(table).
		PlaceholderFormat(squirrel.Dollar)
	for _, c := range conds {
		qb = qb.Where(c)
	}
	return qb.ToSql()
}

// countRows totals the rows a page query would match, so pagination
// metadata reflects the same WHERE clause as the page itself.
func countRows(ctx context.Context, db *Database, table string, conds []squirrel.Sqlizer) (int64, error) {
	query, args, err := buildCountQuery(table, conds)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int64
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
