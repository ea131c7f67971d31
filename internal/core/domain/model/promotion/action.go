package promotion

import (
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Action turns an eligible promotion into candidate adjustments. The
// returned adjustments are open; reconciliation merges them and discards
// them again on the next pass.
type Action interface {
	// ComputeAdjustments produces the discount adjustments for the order.
	// actionable filters the line items a discount may touch, as decided
	// by the promotion's rules.
	ComputeAdjustments(o *order.Order, label string, actionable func(*order.LineItem) bool) ([]*order.Adjustment, error)
}

// PercentOffItemsAction discounts each actionable line item by a
// percentage of its amount.
type PercentOffItemsAction struct {
	percent decimal.Decimal
}

// NewPercentOffItemsAction creates a percent-off action. The percent is a
// whole number in (0, 100].
func NewPercentOffItemsAction(percent decimal.Decimal) (*PercentOffItemsAction, error) {
	if !percent.IsPositive() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errs.NewValueIsInvalidErrorWithCause("percent",
			fmt.Errorf("%s is not in (0, 100]", percent))
	}
	return &PercentOffItemsAction{percent: percent}, nil
}

// Percent returns the configured discount percentage.
func (a *PercentOffItemsAction) Percent() decimal.Decimal { return a.percent }

// ComputeAdjustments attaches one negative adjustment to every actionable
// line item with a non-zero amount.
func (a *PercentOffItemsAction) ComputeAdjustments(o *order.Order, label string, actionable func(*order.LineItem) bool) ([]*order.Adjustment, error) {
	factor := a.percent.Div(decimal.NewFromInt(100))

	var adjustments []*order.Adjustment
	for _, li := range o.LineItems() {
		if actionable != nil && !actionable(li) {
			continue
		}

		discount := li.Amount().MulDecimal(factor).Round()
		if discount.IsZero() {
			continue
		}

		adj, err := order.NewAdjustment(kernel.NewUUID(), li.ID(),
			order.AdjustmentSourcePromotion, discount.Neg(), label, false)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, nil
}

// FlatDiscountAction discounts the order as a whole by a fixed amount,
// capped at the order's item total so a promotion can never push the item
// side of the total negative.
type FlatDiscountAction struct {
	amount kernel.Money
}

// NewFlatDiscountAction creates a flat discount action. The amount is the
// positive discount value.
func NewFlatDiscountAction(amount kernel.Money) (*FlatDiscountAction, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("discount amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}
	return &FlatDiscountAction{amount: amount}, nil
}

// Amount returns the configured discount value.
func (a *FlatDiscountAction) Amount() kernel.Money { return a.amount }

// ComputeAdjustments attaches one negative order-level adjustment.
func (a *FlatDiscountAction) ComputeAdjustments(o *order.Order, label string, _ func(*order.LineItem) bool) ([]*order.Adjustment, error) {
	if a.amount.Currency() != o.Currency() {
		return nil, kernel.ErrCurrencyMismatch
	}

	itemTotal := kernel.ZeroMoney(o.Currency())
	var err error
	for _, li := range o.LineItems() {
		itemTotal, err = itemTotal.Add(li.Amount())
		if err != nil {
			return nil, err
		}
	}
	if itemTotal.IsZero() {
		return nil, nil
	}

	discount := a.amount
	if cmp, err := discount.Cmp(itemTotal); err != nil {
		return nil, err
	} else if cmp > 0 {
		discount = itemTotal
	}

	adj, err := order.NewAdjustment(kernel.NewUUID(), o.ID(),
		order.AdjustmentSourcePromotion, discount.Neg(), label, false)
	if err != nil {
		return nil, err
	}
	return []*order.Adjustment{adj}, nil
}
