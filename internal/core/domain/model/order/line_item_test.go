package order_test

import (
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(amount, kernel.USD)
	require.NoError(t, err)
	return m
}

func TestNewLineItem(t *testing.T) {
	id := kernel.NewUUID()
	variantID := kernel.NewUUID()
	categoryID := kernel.NewUUID()

	t.Run("should create valid line item", func(t *testing.T) {
		li, err := order.NewLineItem(id, variantID, categoryID, 3, usd(t, "10.00"))

		require.NoError(t, err)
		require.NoError(t, li.Validate())
		assert.True(t, li.ID().IsEqual(id))
		assert.True(t, li.VariantID().IsEqual(variantID))
		assert.True(t, li.ShippingCategoryID().IsEqual(categoryID))
		assert.Equal(t, 3, li.Quantity())
		assert.True(t, li.Amount().IsEqual(usd(t, "30.00")))
		assert.True(t, li.AdjustmentTotal().IsZero())
		assert.True(t, li.AdditionalTaxTotal().IsZero())
		assert.True(t, li.IncludedTaxTotal().IsZero())
	})

	t.Run("should fail with zero quantity", func(t *testing.T) {
		li, err := order.NewLineItem(id, variantID, categoryID, 0, usd(t, "10.00"))

		require.Error(t, err)
		assert.Nil(t, li)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should fail with negative unit price", func(t *testing.T) {
		li, err := order.NewLineItem(id, variantID, categoryID, 1, usd(t, "-1.00"))

		require.Error(t, err)
		assert.Nil(t, li)
		assert.Contains(t, err.Error(), "unit price")
	})

	t.Run("should fail with missing variant", func(t *testing.T) {
		var emptyID kernel.UUID

		li, err := order.NewLineItem(id, emptyID, categoryID, 1, usd(t, "10.00"))

		require.Error(t, err)
		assert.Nil(t, li)
		assert.Contains(t, err.Error(), "value is required: variant")
	})

	t.Run("should fail validation when default constructed", func(t *testing.T) {
		var li order.LineItem

		assert.ErrorIs(t, li.Validate(), order.ErrLineItemIsNotConstructed)
	})
}

func TestLineItemSetQuantity(t *testing.T) {
	li, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 1, usd(t, "5.50"))
	require.NoError(t, err)

	t.Run("should update amount with quantity", func(t *testing.T) {
		require.NoError(t, li.SetQuantity(4))

		assert.Equal(t, 4, li.Quantity())
		assert.True(t, li.Amount().IsEqual(usd(t, "22.00")))
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		err := li.SetQuantity(-2)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "-2 is not greater than 0")
		assert.Equal(t, 4, li.Quantity())
	})
}

func TestRestoreLineItem(t *testing.T) {
	li, err := order.RestoreLineItem(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 2,
		usd(t, "10.00"), usd(t, "1.50"), usd(t, "1.50"), usd(t, "0.00"),
	)

	require.NoError(t, err)
	require.NoError(t, li.Validate())
	assert.True(t, li.AdjustmentTotal().IsEqual(usd(t, "1.50")))
	assert.True(t, li.AdditionalTaxTotal().IsEqual(usd(t, "1.50")))
	assert.True(t, li.IncludedTaxTotal().IsZero())
}
