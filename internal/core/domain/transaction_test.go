package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajahnusa/retail-be/internal/core/domain"
)

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"cash", "card", "transfer"} {
		method, err := domain.ParsePaymentMethod(s)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentMethod(s), method)
	}

	_, err := domain.ParsePaymentMethod("barter")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPosTransaction_Validate(t *testing.T) {
	valid := func() *domain.PosTransaction {
		return &domain.PosTransaction{
			StoreID:   1,
			CashierID: 3,
			Items: []domain.TransactionItem{
				{ProductID: 1, Quantity: 2},
			},
		}
	}

	t.Run("valid_transaction", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing_store", func(t *testing.T) {
		txn := valid()
		txn.StoreID = 0
		assert.ErrorIs(t, txn.Validate(), domain.ErrValidation)
	})

	t.Run("missing_cashier", func(t *testing.T) {
		txn := valid()
		txn.CashierID = 0
		assert.ErrorIs(t, txn.Validate(), domain.ErrValidation)
	})

	t.Run("empty_cart", func(t *testing.T) {
		txn := valid()
		txn.Items = nil
		assert.ErrorIs(t, txn.Validate(), domain.ErrValidation)
	})

	t.Run("zero_quantity_line", func(t *testing.T) {
		txn := valid()
		txn.Items[0].Quantity = 0
		assert.ErrorIs(t, txn.Validate(), domain.ErrValidation)
	})
}

func TestPosTransaction_Price(t *testing.T) {
	txn := &domain.PosTransaction{
		Items: []domain.TransactionItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(65000)},
			{ProductID: 2, Quantity: 10, UnitPrice: decimal.NewFromInt(1200)},
		},
	}

	txn.Price(decimal.NewFromFloat(0.11))

	assert.True(t, txn.Items[0].Subtotal.Equal(decimal.NewFromInt(130000)))
	assert.True(t, txn.Items[1].Subtotal.Equal(decimal.NewFromInt(12000)))
	assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(142000)))
	assert.True(t, txn.Tax.Equal(decimal.NewFromInt(15620)), "tax: %s", txn.Tax)
	assert.True(t, txn.Total.Equal(decimal.NewFromInt(157620)))
}

func TestPosTransaction_Price_RoundsTax(t *testing.T) {
	txn := &domain.PosTransaction{
		Items: []domain.TransactionItem{
			{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromFloat(99.99)},
		},
	}

	txn.Price(decimal.NewFromFloat(0.11))

	// 99.99 * 0.11 = 10.9989, rounded to 11.00
	assert.True(t, txn.Tax.Equal(decimal.NewFromFloat(11.00)), "tax: %s", txn.Tax)
	assert.True(t, txn.Total.Equal(decimal.NewFromFloat(110.99)), "total: %s", txn.Total)
}

func TestPosTransaction_SettleCash(t *testing.T) {
	t.Run("cash_with_change", func(t *testing.T) {
		txn := &domain.PosTransaction{
			PaymentMethod:  domain.PaymentCash,
			Total:          decimal.NewFromInt(144300),
			AmountTendered: decimal.NewFromInt(200000),
		}

		require.NoError(t, txn.SettleCash())
		assert.True(t, txn.ChangeDue.Equal(decimal.NewFromInt(55700)))
	})

	t.Run("cash_exact", func(t *testing.T) {
		txn := &domain.PosTransaction{
			PaymentMethod:  domain.PaymentCash,
			Total:          decimal.NewFromInt(144300),
			AmountTendered: decimal.NewFromInt(144300),
		}

		require.NoError(t, txn.SettleCash())
		assert.True(t, txn.ChangeDue.IsZero())
	})

	t.Run("cash_short", func(t *testing.T) {
		txn := &domain.PosTransaction{
			PaymentMethod:  domain.PaymentCash,
			Total:          decimal.NewFromInt(144300),
			AmountTendered: decimal.NewFromInt(144299),
		}

		assert.ErrorIs(t, txn.SettleCash(), domain.ErrInsufficientPayment)
	})

	t.Run("transfer_settles_exactly", func(t *testing.T) {
		txn := &domain.PosTransaction{
			PaymentMethod:  domain.PaymentTransfer,
			Total:          decimal.NewFromInt(144300),
			AmountTendered: decimal.Zero,
		}

		require.NoError(t, txn.SettleCash())
		assert.True(t, txn.ChangeDue.IsZero())
	})
}

func TestPosTransaction_PrepareForStorage(t *testing.T) {
	txn := &domain.PosTransaction{StoreID: 1, CashierID: 3}

	txn.PrepareForStorage()

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, "completed", txn.Status)
	assert.False(t, txn.CreatedAt.IsZero())
}
