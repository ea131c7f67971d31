package kernel_test

import (
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCurrency(t *testing.T) {
	t.Run("should accept recognized codes", func(t *testing.T) {
		for _, code := range []string{"USD", "EUR", "GBP", "CAD", "AUD", "JPY"} {
			c, err := kernel.NewCurrency(code)
			require.NoError(t, err)
			assert.Equal(t, code, c.String())
		}
	})

	t.Run("should reject unknown code", func(t *testing.T) {
		_, err := kernel.NewCurrency("XYZ")
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject lowercase code", func(t *testing.T) {
		_, err := kernel.NewCurrency("usd")
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var c kernel.Currency
		require.Error(t, c.Validate())
	})
}

func TestNewMoney(t *testing.T) {
	t.Run("should create money with valid currency", func(t *testing.T) {
		m, err := kernel.NewMoney(decimal.NewFromInt(10), kernel.USD)

		require.NoError(t, err)
		require.NoError(t, m.Validate())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(10)))
		assert.Equal(t, kernel.USD, m.Currency())
	})

	t.Run("should allow negative amounts", func(t *testing.T) {
		m, err := kernel.NewMoney(decimal.NewFromInt(-3), kernel.USD)

		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})

	t.Run("should fail with invalid currency", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(10), kernel.Currency("XXX"))
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var m kernel.Money
		require.Error(t, m.Validate())
	})
}

func TestMoneyFromString(t *testing.T) {
	t.Run("should parse decimal strings", func(t *testing.T) {
		m, err := kernel.MoneyFromString("12.34", kernel.EUR)

		require.NoError(t, err)
		assert.Equal(t, "12.34 EUR", m.String())
	})

	t.Run("should reject malformed strings", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve", kernel.EUR)
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	ten, _ := kernel.MoneyFromString("10.00", kernel.USD)
	three, _ := kernel.MoneyFromString("3.00", kernel.USD)
	euro, _ := kernel.MoneyFromString("3.00", kernel.EUR)

	t.Run("Add sums same-currency amounts", func(t *testing.T) {
		sum, err := ten.Add(three)

		require.NoError(t, err)
		assert.Equal(t, "13.00 USD", sum.String())
	})

	t.Run("Add fails across currencies", func(t *testing.T) {
		_, err := ten.Add(euro)

		require.Error(t, err)
		assert.Equal(t, kernel.ErrCurrencyMismatch, err)
	})

	t.Run("Sub subtracts same-currency amounts", func(t *testing.T) {
		diff, err := ten.Sub(three)

		require.NoError(t, err)
		assert.Equal(t, "7.00 USD", diff.String())
	})

	t.Run("Sub fails across currencies", func(t *testing.T) {
		_, err := ten.Sub(euro)
		require.Error(t, err)
	})

	t.Run("MulInt scales by quantity", func(t *testing.T) {
		assert.Equal(t, "30.00 USD", three.MulInt(10).String())
	})

	t.Run("MulDecimal applies a rate", func(t *testing.T) {
		rate := decimal.RequireFromString("0.1")
		assert.Equal(t, "1.00 USD", ten.MulDecimal(rate).String())
	})

	t.Run("Neg flips the sign", func(t *testing.T) {
		assert.Equal(t, "-10.00 USD", ten.Neg().String())
		assert.True(t, ten.Neg().IsNegative())
	})

	t.Run("Round rounds to cents half away from zero", func(t *testing.T) {
		m, _ := kernel.MoneyFromString("1.005", kernel.USD)
		assert.Equal(t, "1.01 USD", m.Round().String())
	})

	t.Run("Cmp orders amounts", func(t *testing.T) {
		cmp, err := ten.Cmp(three)
		require.NoError(t, err)
		assert.Equal(t, 1, cmp)

		cmp, err = three.Cmp(ten)
		require.NoError(t, err)
		assert.Equal(t, -1, cmp)

		cmp, err = ten.Cmp(ten)
		require.NoError(t, err)
		assert.Equal(t, 0, cmp)
	})

	t.Run("Cmp fails across currencies", func(t *testing.T) {
		_, err := ten.Cmp(euro)
		require.Error(t, err)
	})

	t.Run("IsEqual compares value and currency", func(t *testing.T) {
		same, _ := kernel.MoneyFromString("10", kernel.USD)
		assert.True(t, ten.IsEqual(same))
		assert.False(t, ten.IsEqual(three))
		assert.False(t, three.IsEqual(euro))
	})

	t.Run("ZeroMoney is zero", func(t *testing.T) {
		z := kernel.ZeroMoney(kernel.USD)
		assert.True(t, z.IsZero())
		assert.False(t, z.IsNegative())
		assert.False(t, z.IsPositive())
	})
}
