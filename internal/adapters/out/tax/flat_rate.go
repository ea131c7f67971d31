// Package tax provides the flat-rate implementation of the reconciler's
// TaxCalculator port. One rate applies to every line item; jurisdiction
// lookup belongs to whatever replaces this adapter in a real deployment.
package tax

import (
	"context"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// FlatRateTaxCalculator taxes every line item at one rate. When the store
// prices include tax, the tax is extracted from the line amount instead of
// added on top, and the produced adjustments carry the included-tax flag.
type FlatRateTaxCalculator struct {
	rate            decimal.Decimal
	label           string
	includedInPrice bool
}

// NewFlatRateTaxCalculator creates a flat-rate calculator. The rate is a
// fraction, e.g. 0.05 for 5%, and must not be negative.
func NewFlatRateTaxCalculator(rate decimal.Decimal, label string, includedInPrice bool) (*FlatRateTaxCalculator, error) {
	if rate.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("tax rate",
			fmt.Errorf("%s is negative", rate))
	}
	if label == "" {
		return nil, errs.NewValueIsRequiredError("tax label")
	}

	return &FlatRateTaxCalculator{
		rate:            rate,
		label:           label,
		includedInPrice: includedInPrice,
	}, nil
}

// ComputeTax produces one adjustment per line item with a non-zero tax
// amount. A zero rate produces none.
func (c *FlatRateTaxCalculator) ComputeTax(_ context.Context, o *order.Order) ([]*order.Adjustment, error) {
	if c.rate.IsZero() {
		return nil, nil
	}

	factor := c.rate
	if c.includedInPrice {
		// Extract the tax portion of a price that already contains it.
		factor = c.rate.Div(decimal.NewFromInt(1).Add(c.rate))
	}

	var adjustments []*order.Adjustment
	for _, li := range o.LineItems() {
		amount := li.Amount().MulDecimal(factor).Round()
		if amount.IsZero() {
			continue
		}

		adj, err := order.NewAdjustment(kernel.NewUUID(), li.ID(),
			order.AdjustmentSourceTax, amount, c.label, c.includedInPrice)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adj)
	}

	return adjustments, nil
}
