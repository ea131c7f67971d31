package promotion_test

import (
	"errors"
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"

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

func percentAction(t *testing.T, percent int64) promotion.Action {
	t.Helper()
	a, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(percent))
	require.NoError(t, err)
	return a
}

func newPromotion(t *testing.T) *promotion.Promotion {
	t.Helper()
	p, err := promotion.NewPromotion(kernel.NewUUID(), "Summer sale", percentAction(t, 10))
	require.NoError(t, err)
	return p
}

type stubHistory struct {
	hasCompleted bool
	err          error
}

func (s stubHistory) HasCompletedOrder(_ *order.Order) (bool, error) {
	return s.hasCompleted, s.err
}

func TestPromotionAddRule(t *testing.T) {
	t.Run("should reject second rule of same kind and keep first", func(t *testing.T) {
		p := newPromotion(t)

		first, err := promotion.NewMinimumQuantityRule(2)
		require.NoError(t, err)
		require.NoError(t, p.AddRule(first))

		second, err := promotion.NewMinimumQuantityRule(5)
		require.NoError(t, err)

		err = p.AddRule(second)

		require.Error(t, err)
		assert.ErrorIs(t, err, promotion.ErrDuplicateRule)
		var dup *promotion.DuplicateRuleError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, promotion.RuleMinimumQuantity, dup.Kind)

		require.Len(t, p.Rules(), 1)
		assert.Same(t, first, p.Rules()[0])
	})

	t.Run("should allow one rule per kind", func(t *testing.T) {
		p := newPromotion(t)

		minQty, err := promotion.NewMinimumQuantityRule(2)
		require.NoError(t, err)
		itemTotal, err := promotion.NewItemTotalRule(usd(t, "50.00"))
		require.NoError(t, err)

		require.NoError(t, p.AddRule(minQty))
		require.NoError(t, p.AddRule(itemTotal))
		assert.Len(t, p.Rules(), 2)
	})
}

func TestPromotionEligible(t *testing.T) {
	t.Run("promotion without rules accepts every order", func(t *testing.T) {
		p := newPromotion(t)

		eligible, err := p.Eligible(orderWithItems(t, nil, nil))

		require.NoError(t, err)
		assert.True(t, eligible)
	})

	t.Run("all applicable rules must accept", func(t *testing.T) {
		p := newPromotion(t)
		minQty, err := promotion.NewMinimumQuantityRule(3)
		require.NoError(t, err)
		itemTotal, err := promotion.NewItemTotalRule(usd(t, "25.00"))
		require.NoError(t, err)
		require.NoError(t, p.AddRule(minQty))
		require.NoError(t, p.AddRule(itemTotal))

		eligible, err := p.Eligible(orderWithItems(t, []int{3}, []string{"10.00"}))
		require.NoError(t, err)
		assert.True(t, eligible)

		eligible, err = p.Eligible(orderWithItems(t, []int{2}, []string{"20.00"}))
		require.NoError(t, err)
		assert.False(t, eligible, "quantity rule should veto")
	})

	t.Run("failing rule evaluation reads as ineligible with error", func(t *testing.T) {
		p := newPromotion(t)
		firstOrder, err := promotion.NewFirstOrderRule(stubHistory{err: errors.New("history unavailable")})
		require.NoError(t, err)
		require.NoError(t, p.AddRule(firstOrder))

		eligible, err := p.Eligible(orderWithItems(t, []int{1}, []string{"10.00"}))

		assert.False(t, eligible)
		require.Error(t, err)
		assert.ErrorIs(t, err, promotion.ErrEligibility)
		assert.Contains(t, err.Error(), "history unavailable")
	})
}

func TestRules(t *testing.T) {
	t.Run("minimum quantity sums across line items", func(t *testing.T) {
		r, err := promotion.NewMinimumQuantityRule(4)
		require.NoError(t, err)

		eligible, err := r.Eligible(orderWithItems(t, []int{2, 2}, []string{"1.00", "2.00"}))
		require.NoError(t, err)
		assert.True(t, eligible)

		eligible, err = r.Eligible(orderWithItems(t, []int{3}, []string{"1.00"}))
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("item total rule is inapplicable across currencies", func(t *testing.T) {
		r, err := promotion.NewItemTotalRule(usd(t, "10.00"))
		require.NoError(t, err)

		eur, err := order.NewOrder(kernel.NewUUID(), kernel.EUR)
		require.NoError(t, err)

		assert.False(t, r.Applicable(eur))
		assert.True(t, r.Applicable(orderWithItems(t, nil, nil)))
	})

	t.Run("first order rule consults history", func(t *testing.T) {
		r, err := promotion.NewFirstOrderRule(stubHistory{hasCompleted: true})
		require.NoError(t, err)

		eligible, err := r.Eligible(orderWithItems(t, []int{1}, []string{"1.00"}))
		require.NoError(t, err)
		assert.False(t, eligible)
	})

	t.Run("product in cart restricts actionable line items", func(t *testing.T) {
		o := orderWithItems(t, []int{1, 1}, []string{"10.00", "20.00"})
		wanted := o.LineItems()[0]

		r, err := promotion.NewProductInCartRule([]kernel.UUID{wanted.VariantID()})
		require.NoError(t, err)

		eligible, err := r.Eligible(o)
		require.NoError(t, err)
		assert.True(t, eligible)

		assert.True(t, r.Actionable(wanted))
		assert.False(t, r.Actionable(o.LineItems()[1]))
	})
}

func TestPercentOffItemsAction(t *testing.T) {
	o := orderWithItems(t, []int{2, 1}, []string{"10.00", "5.00"})
	p, err := promotion.NewPromotion(kernel.NewUUID(), "Summer sale", percentAction(t, 10))
	require.NoError(t, err)

	adjustments, err := p.ComputeAdjustments(o)

	require.NoError(t, err)
	require.Len(t, adjustments, 2)
	assert.True(t, adjustments[0].Amount().IsEqual(usd(t, "-2.00")))
	assert.True(t, adjustments[1].Amount().IsEqual(usd(t, "-0.50")))
	for _, a := range adjustments {
		assert.Equal(t, order.AdjustmentSourcePromotion, a.Source())
		assert.Equal(t, "Summer sale", a.Label())
		assert.False(t, a.IsFinalized())
	}
}

func TestFlatDiscountAction(t *testing.T) {
	t.Run("should cap discount at item total", func(t *testing.T) {
		o := orderWithItems(t, []int{1}, []string{"3.00"})
		action, err := promotion.NewFlatDiscountAction(usd(t, "5.00"))
		require.NoError(t, err)

		adjustments, err := action.ComputeAdjustments(o, "Welcome", nil)

		require.NoError(t, err)
		require.Len(t, adjustments, 1)
		assert.True(t, adjustments[0].Amount().IsEqual(usd(t, "-3.00")))
		assert.True(t, adjustments[0].AdjustableID().IsEqual(o.ID()))
	})

	t.Run("should produce nothing for empty order", func(t *testing.T) {
		o := orderWithItems(t, nil, nil)
		action, err := promotion.NewFlatDiscountAction(usd(t, "5.00"))
		require.NoError(t, err)

		adjustments, err := action.ComputeAdjustments(o, "Welcome", nil)

		require.NoError(t, err)
		assert.Empty(t, adjustments)
	})
}
