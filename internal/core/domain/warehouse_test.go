package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gajahnusa/retail-be/internal/core/domain"
)

func TestWarehouseRecord_Available(t *testing.T) {
	record := &domain.WarehouseRecord{TotalQuantity: 500, ReservedQuantity: 120}
	assert.Equal(t, 380, record.Available())

	record.ReservedQuantity = 500
	assert.Equal(t, 0, record.Available())
}

func TestWarehouseRecord_CheckInvariant(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		reserved int
		wantErr  bool
	}{
		{name: "valid_counters", total: 500, reserved: 120},
		{name: "fully_reserved", total: 500, reserved: 500},
		{name: "empty", total: 0, reserved: 0},
		{name: "negative_total", total: -1, reserved: 0, wantErr: true},
		{name: "negative_reserved", total: 10, reserved: -1, wantErr: true},
		{name: "reserved_exceeds_total", total: 10, reserved: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &domain.WarehouseRecord{
				ProductID:        1,
				TotalQuantity:    tt.total,
				ReservedQuantity: tt.reserved,
			}
			err := record.CheckInvariant()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
