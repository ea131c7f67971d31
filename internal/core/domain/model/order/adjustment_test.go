package order_test

import (
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdjustment(t *testing.T) {
	id := kernel.NewUUID()
	adjustableID := kernel.NewUUID()

	t.Run("should create open promotion adjustment", func(t *testing.T) {
		a, err := order.NewAdjustment(id, adjustableID, order.AdjustmentSourcePromotion,
			usd(t, "-5.00"), "Summer promo", false)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.AdjustableID().IsEqual(adjustableID))
		assert.Equal(t, order.AdjustmentSourcePromotion, a.Source())
		assert.True(t, a.Amount().IsNegative())
		assert.False(t, a.IsFinalized())
		assert.False(t, a.IsIncludedTax())
	})

	t.Run("should allow included tax on tax source", func(t *testing.T) {
		a, err := order.NewAdjustment(id, adjustableID, order.AdjustmentSourceTax,
			usd(t, "2.00"), "VAT 20%", true)

		require.NoError(t, err)
		assert.True(t, a.IsIncludedTax())
	})

	t.Run("should reject included tax on non-tax source", func(t *testing.T) {
		a, err := order.NewAdjustment(id, adjustableID, order.AdjustmentSourcePromotion,
			usd(t, "-5.00"), "Summer promo", true)

		require.Error(t, err)
		assert.Nil(t, a)
		assert.Contains(t, err.Error(), "included-tax flag requires a tax source")
	})

	t.Run("should reject unknown source", func(t *testing.T) {
		a, err := order.NewAdjustment(id, adjustableID, order.AdjustmentSource("gift"),
			usd(t, "-5.00"), "Gift", false)

		require.Error(t, err)
		assert.Nil(t, a)
		assert.Contains(t, err.Error(), `"gift" is not a valid adjustment source`)
	})

	t.Run("should reject empty label", func(t *testing.T) {
		a, err := order.NewAdjustment(id, adjustableID, order.AdjustmentSourceTax,
			usd(t, "2.00"), "", false)

		require.Error(t, err)
		assert.Nil(t, a)
		assert.Contains(t, err.Error(), "value is required: adjustment label")
	})
}

func TestAdjustmentFinalize(t *testing.T) {
	a, err := order.NewAdjustment(kernel.NewUUID(), kernel.NewUUID(),
		order.AdjustmentSourceShipping, usd(t, "1.00"), "Handling", false)
	require.NoError(t, err)

	a.Finalize()

	assert.True(t, a.IsFinalized())
}

func TestRestoreAdjustment(t *testing.T) {
	a, err := order.RestoreAdjustment(kernel.NewUUID(), kernel.NewUUID(),
		order.AdjustmentSourceTax, usd(t, "3.00"), "Sales tax", false, true)

	require.NoError(t, err)
	assert.True(t, a.IsFinalized())
}
