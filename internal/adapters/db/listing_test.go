// internal/adapters/db/listing_test.go
package db

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The count query must select a single column so it scans into one
// destination, and must carry the same WHERE clause as the page query.
func TestBuildCountQuery(t *testing.T) {
	tests := []struct {
		name         string
		table        string
		conds        []squirrel.Sqlizer
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			name:         "no_conditions",
			table:        "central_warehouse",
			conds:        nil,
			expectedSQL:  "SELECT COUNT(*) FROM central_warehouse",
			expectedArgs: nil,
		},
		{
			name:  "equality_conditions",
			table: "inventory",
			conds: []squirrel.Sqlizer{
				squirrel.Eq{"store_id": int64(1)},
				squirrel.Eq{"product_id": int64(7)},
			},
			expectedSQL:  "SELECT COUNT(*) FROM inventory WHERE store_id = $1 AND product_id = $2",
			expectedArgs: []interface{}{int64(1), int64(7)},
		},
		{
			name:  "raw_expression_condition",
			table: "inventory",
			conds: []squirrel.Sqlizer{
				squirrel.Eq{"store_id": int64(1)},
				squirrel.Expr("quantity < min_threshold"),
			},
			expectedSQL:  "SELECT COUNT(*) FROM inventory WHERE store_id = $1 AND quantity < min_threshold",
			expectedArgs: []interface{}{int64(1)},
		},
		{
			name:  "expression_with_arguments",
			table: "products",
			conds: []squirrel.Sqlizer{
				squirrel.Expr("(name ILIKE '%' || ? || '%' OR code ILIKE '%' || ? || '%')", "semen", "semen"),
			},
			expectedSQL:  "SELECT COUNT(*) FROM products WHERE (name ILIKE '%' || $1 || '%' OR code ILIKE '%' || $2 || '%')",
			expectedArgs: []interface{}{"semen", "semen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildCountQuery(tt.table, tt.conds)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedSQL, query)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
