package shipping_test

import (
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/shipping"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithItems(t *testing.T, quantities []int, unitPrices []string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.USD)
	require.NoError(t, err)
	for i := range quantities {
		li, err := order.NewLineItem(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			quantities[i], usd(t, unitPrices[i]))
		require.NoError(t, err)
		require.NoError(t, o.AddLineItem(li))
	}
	return o
}

func pendingShipment(t *testing.T) *order.Shipment {
	t.Helper()
	s, err := order.NewShipment(kernel.NewUUID(), kernel.NewUUID(), kernel.ZeroMoney(kernel.USD))
	require.NoError(t, err)
	return s
}

func TestFlatRateCalculator(t *testing.T) {
	c, err := shipping.NewFlatRateCalculator(usd(t, "5.00"))
	require.NoError(t, err)

	o := orderWithItems(t, []int{2}, []string{"10.00"})

	assert.True(t, c.Available(o))

	cost, err := c.Compute(o, pendingShipment(t))
	require.NoError(t, err)
	assert.True(t, cost.IsEqual(usd(t, "5.00")))

	t.Run("should fail on currency mismatch", func(t *testing.T) {
		eur, err := order.NewOrder(kernel.NewUUID(), kernel.EUR)
		require.NoError(t, err)

		_, err = c.Compute(eur, pendingShipment(t))

		assert.ErrorIs(t, err, kernel.ErrCurrencyMismatch)
	})

	t.Run("should reject negative rate", func(t *testing.T) {
		_, err := shipping.NewFlatRateCalculator(usd(t, "-1.00"))

		require.Error(t, err)
	})
}

func TestFlatPercentItemTotalCalculator(t *testing.T) {
	c, err := shipping.NewFlatPercentItemTotalCalculator(decimal.NewFromInt(10))
	require.NoError(t, err)

	o := orderWithItems(t, []int{2, 1}, []string{"10.00", "5.50"})

	cost, err := c.Compute(o, pendingShipment(t))

	require.NoError(t, err)
	assert.True(t, cost.IsEqual(usd(t, "2.55")))
}

func TestTieredFlatRateCalculator(t *testing.T) {
	c, err := shipping.NewTieredFlatRateCalculator(
		usd(t, "8.00"),
		[]kernel.Money{usd(t, "50.00"), usd(t, "100.00")},
		[]kernel.Money{usd(t, "4.00"), usd(t, "0.00")},
	)
	require.NoError(t, err)

	t.Run("should charge base below first tier", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"20.00"})

		cost, err := c.Compute(o, pendingShipment(t))

		require.NoError(t, err)
		assert.True(t, cost.IsEqual(usd(t, "8.00")))
	})

	t.Run("should charge highest reached tier", func(t *testing.T) {
		o := orderWithItems(t, []int{2}, []string{"60.00"})

		cost, err := c.Compute(o, pendingShipment(t))

		require.NoError(t, err)
		assert.True(t, cost.IsZero())
	})

	t.Run("should be unavailable for foreign currency orders", func(t *testing.T) {
		eur, err := order.NewOrder(kernel.NewUUID(), kernel.EUR)
		require.NoError(t, err)

		assert.False(t, c.Available(eur))
	})
}
