// internal/adapters/db/postgres_test.go
package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "foreign_key_violation",
			err:      &pgconn.PgError{Code: "23503", Message: "insert or update violates foreign key constraint"},
			expected: true,
		},
		{
			name:     "wrapped_foreign_key_violation",
			err:      fmt.Errorf("exec failed: %w", &pgconn.PgError{Code: "23503"}),
			expected: true,
		},
		{
			name:     "unique_violation",
			err:      &pgconn.PgError{Code: "23505"},
			expected: false,
		},
		{
			name:     "plain_error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isForeignKeyViolation(tt.err))
		})
	}
}
