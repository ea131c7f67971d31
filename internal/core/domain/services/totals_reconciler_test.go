package services_test

import (
	"context"
	"errors"
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"
	"checkout/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, amount string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(amount, kernel.USD)
	require.NoError(t, err)
	return m
}

// noTax is a TaxCalculator producing no adjustments.
type noTax struct{}

func (noTax) ComputeTax(_ context.Context, _ *order.Order) ([]*order.Adjustment, error) {
	return nil, nil
}

// percentTax is a TaxCalculator adding a flat percent of each line item's
// amount as additional tax.
type percentTax struct {
	percent int64
}

func (c percentTax) ComputeTax(_ context.Context, o *order.Order) ([]*order.Adjustment, error) {
	factor := decimal.NewFromInt(c.percent).Div(decimal.NewFromInt(100))
	var adjustments []*order.Adjustment
	for _, li := range o.LineItems() {
		amount := li.Amount().MulDecimal(factor).Round()
		if amount.IsZero() {
			continue
		}
		adj, err := order.NewAdjustment(kernel.NewUUID(), li.ID(),
			order.AdjustmentSourceTax, amount, "Sales tax", false)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

type failingHistory struct{}

func (failingHistory) HasCompletedOrder(_ *order.Order) (bool, error) {
	return false, errors.New("history unavailable")
}

func newReconciler(t *testing.T, taxCalculator services.TaxCalculator) *services.TotalsReconciler {
	t.Helper()
	r, err := services.NewTotalsReconciler(taxCalculator, nil)
	require.NoError(t, err)
	return r
}

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

func addShipment(t *testing.T, o *order.Order, cost string, state order.ShipmentState) *order.Shipment {
	t.Helper()
	s, err := order.NewShipment(kernel.NewUUID(), kernel.NewUUID(), usd(t, cost))
	require.NoError(t, err)
	require.NoError(t, s.SetState(state))
	require.NoError(t, o.AddShipment(s))
	return s
}

func addCompletedPayment(t *testing.T, o *order.Order, amount string) *order.Payment {
	t.Helper()
	p, err := order.NewPayment(kernel.NewUUID(), usd(t, amount))
	require.NoError(t, err)
	require.NoError(t, p.SetState(order.PaymentCompleted))
	require.NoError(t, o.AddPayment(p))
	return p
}

func assertIdentities(t *testing.T, o *order.Order) {
	t.Helper()

	sum, err := o.ItemTotal().Add(o.ShipmentTotal())
	require.NoError(t, err)
	sum, err = sum.Add(o.AdjustmentTotal())
	require.NoError(t, err)
	assert.True(t, o.Total().IsEqual(sum), "grand total identity")

	adjSum, err := o.AdditionalTaxTotal().Add(o.IncludedTaxTotal())
	require.NoError(t, err)
	adjSum, err = adjSum.Add(o.PromoTotal())
	require.NoError(t, err)
	assert.True(t, o.AdjustmentTotal().IsEqual(adjSum), "adjustment total identity")
}

func TestReconcileTotals(t *testing.T) {
	t.Run("should hold both identities with promotions and tax", func(t *testing.T) {
		o := orderWithItems(t, []int{2, 1}, []string{"10.00", "5.00"})
		addShipment(t, o, "4.00", order.ShipmentPending)

		action, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(10))
		require.NoError(t, err)
		promo, err := promotion.NewPromotion(kernel.NewUUID(), "Sale", action)
		require.NoError(t, err)

		r := newReconciler(t, percentTax{percent: 5})

		require.NoError(t, r.Reconcile(context.Background(), o, []*promotion.Promotion{promo}))

		assert.Equal(t, 3, o.ItemCount())
		assert.True(t, o.ItemTotal().IsEqual(usd(t, "25.00")))
		assert.True(t, o.ShipmentTotal().IsEqual(usd(t, "4.00")))
		assert.True(t, o.PromoTotal().IsEqual(usd(t, "-2.50")))
		assert.True(t, o.AdditionalTaxTotal().IsEqual(usd(t, "1.25")))
		assert.True(t, o.Total().IsEqual(usd(t, "27.75")))
		assertIdentities(t, o)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		o := orderWithItems(t, []int{2}, []string{"10.00"})
		addShipment(t, o, "4.00", order.ShipmentPending)

		action, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(15))
		require.NoError(t, err)
		promo, err := promotion.NewPromotion(kernel.NewUUID(), "Sale", action)
		require.NoError(t, err)

		r := newReconciler(t, percentTax{percent: 7})
		ctx := context.Background()

		require.NoError(t, r.Reconcile(ctx, o, []*promotion.Promotion{promo}))
		first := o.Total()
		firstPromo := o.PromoTotal()

		require.NoError(t, r.Reconcile(ctx, o, []*promotion.Promotion{promo}))

		assert.True(t, o.Total().IsEqual(first))
		assert.True(t, o.PromoTotal().IsEqual(firstPromo))
		assert.Len(t, o.OpenAdjustments(), 2, "tax and promo recomputed, not accumulated")
	})

	t.Run("should carry finalized adjustments forward unchanged", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})

		locked, err := order.NewAdjustment(kernel.NewUUID(), o.ID(),
			order.AdjustmentSourcePromotion, usd(t, "-1.00"), "Legacy promo", false)
		require.NoError(t, err)
		locked.Finalize()
		require.NoError(t, o.AddAdjustment(locked))

		r := newReconciler(t, noTax{})

		require.NoError(t, r.Reconcile(context.Background(), o, nil))

		assert.True(t, o.PromoTotal().IsEqual(usd(t, "-1.00")))
		assert.True(t, o.Total().IsEqual(usd(t, "9.00")))
		assertIdentities(t, o)
	})

	t.Run("should treat failing rule as ineligible and keep going", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})

		action, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(50))
		require.NoError(t, err)
		promo, err := promotion.NewPromotion(kernel.NewUUID(), "Broken", action)
		require.NoError(t, err)
		rule, err := promotion.NewFirstOrderRule(failingHistory{})
		require.NoError(t, err)
		require.NoError(t, promo.AddRule(rule))

		r := newReconciler(t, noTax{})

		require.NoError(t, r.Reconcile(context.Background(), o, []*promotion.Promotion{promo}))

		assert.True(t, o.PromoTotal().IsZero())
		assert.True(t, o.Total().IsEqual(usd(t, "10.00")))
	})

	t.Run("should mirror per-line shares onto line items", func(t *testing.T) {
		o := orderWithItems(t, []int{2}, []string{"10.00"})

		r := newReconciler(t, percentTax{percent: 10})

		require.NoError(t, r.Reconcile(context.Background(), o, nil))

		li := o.LineItems()[0]
		assert.True(t, li.AdditionalTaxTotal().IsEqual(usd(t, "2.00")))
		assert.True(t, li.AdjustmentTotal().IsEqual(usd(t, "2.00")))
		assert.True(t, li.IncludedTaxTotal().IsZero())
	})
}

func TestReconcilePaymentStatus(t *testing.T) {
	r := newReconciler(t, noTax{})
	ctx := context.Background()

	t.Run("overpaid order reads credit_owed", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"1.00"})
		addCompletedPayment(t, o, "2.00")

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusCreditOwed, o.PaymentStatus())
	})

	t.Run("underpaid order reads balance_due", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"2.00"})
		addCompletedPayment(t, o, "1.00")

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusBalanceDue, o.PaymentStatus())
	})

	t.Run("fully paid order reads paid", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"30.00"})
		addCompletedPayment(t, o, "30.00")

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus())
	})

	t.Run("order with zero total reads paid", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), kernel.USD)
		require.NoError(t, err)

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus())
	})

	t.Run("fully discounted order reads paid", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})

		action, err := promotion.NewFlatDiscountAction(usd(t, "10.00"))
		require.NoError(t, err)
		promo, err := promotion.NewPromotion(kernel.NewUUID(), "Free order", action)
		require.NoError(t, err)

		require.NoError(t, r.Reconcile(ctx, o, []*promotion.Promotion{promo}))

		assert.True(t, o.Total().IsZero())
		assert.Equal(t, order.PaymentStatusPaid, o.PaymentStatus())
	})

	t.Run("canceled order without payments reads void", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		require.NoError(t, o.Cancel())

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusVoid, o.PaymentStatus())
	})

	t.Run("canceled order holding money reads credit_owed", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		addCompletedPayment(t, o, "10.00")
		require.NoError(t, o.Cancel())

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusCreditOwed, o.PaymentStatus())
	})

	t.Run("only invalid payments read failed", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		p, err := order.NewPayment(kernel.NewUUID(), usd(t, "10.00"))
		require.NoError(t, err)
		require.NoError(t, p.SetState(order.PaymentVoid))
		require.NoError(t, o.AddPayment(p))

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusFailed, o.PaymentStatus())
	})

	t.Run("canceled order with only invalid payments reads failed", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		p, err := order.NewPayment(kernel.NewUUID(), usd(t, "10.00"))
		require.NoError(t, err)
		require.NoError(t, p.SetState(order.PaymentInvalid))
		require.NoError(t, o.AddPayment(p))
		require.NoError(t, o.Cancel())

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.PaymentStatusFailed, o.PaymentStatus())
	})

	t.Run("refund shrinks the payment total", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"30.00"})
		p := addCompletedPayment(t, o, "30.00")
		require.NoError(t, p.Refund(usd(t, "10.00")))

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.True(t, o.PaymentTotal().IsEqual(usd(t, "20.00")))
		assert.Equal(t, order.PaymentStatusBalanceDue, o.PaymentStatus())
	})
}

func TestReconcileShipmentStatus(t *testing.T) {
	r := newReconciler(t, noTax{})
	ctx := context.Background()

	t.Run("uniform state becomes the status", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		addShipment(t, o, "1.00", order.ShipmentShipped)
		addShipment(t, o, "1.00", order.ShipmentShipped)

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.ShipmentStatusShipped, o.ShipmentStatus())
	})

	t.Run("mixed states read partial", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		addShipment(t, o, "1.00", order.ShipmentPending)
		addShipment(t, o, "1.00", order.ShipmentReady)

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.ShipmentStatusPartial, o.ShipmentStatus())
	})

	t.Run("no shipments leave the status absent", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.False(t, o.ShipmentStatus().IsSet())
	})

	t.Run("backorder flag overrides shipment states", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		addShipment(t, o, "1.00", order.ShipmentShipped)
		o.SetBackordered(true)

		require.NoError(t, r.Reconcile(ctx, o, nil))

		assert.Equal(t, order.ShipmentStatusBackorder, o.ShipmentStatus())
	})
}

func TestReconcileAborts(t *testing.T) {
	t.Run("should honor context cancellation", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		r := newReconciler(t, noTax{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := r.Reconcile(ctx, o, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, o.Total().IsZero(), "no partial write")
	})

	t.Run("should surface tax calculator failures", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		r := newReconciler(t, failingTax{})

		err := r.Reconcile(context.Background(), o, nil)

		require.Error(t, err)
		assert.True(t, o.Total().IsZero())
	})
}

type failingTax struct{}

func (failingTax) ComputeTax(_ context.Context, _ *order.Order) ([]*order.Adjustment, error) {
	return nil, errors.New("tax service down")
}
