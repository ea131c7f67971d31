package shipping

import (
	"fmt"
	"sort"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CostCalculator prices a shipment and reports whether it can serve a given
// order at all. Implementations must be safe for concurrent use.
type CostCalculator interface {
	// Available reports whether the calculator can price the order, e.g.
	// the order total falls inside the calculator's applicable range.
	Available(o *order.Order) bool

	// Compute prices one shipment of the order.
	Compute(o *order.Order, s *order.Shipment) (kernel.Money, error)
}

// FlatRateCalculator charges a fixed cost per shipment.
type FlatRateCalculator struct {
	amount kernel.Money
}

// NewFlatRateCalculator creates a flat rate calculator. The amount must not
// be negative.
func NewFlatRateCalculator(amount kernel.Money) (*FlatRateCalculator, error) {
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("flat rate",
			fmt.Errorf("%s is negative", amount))
	}
	return &FlatRateCalculator{amount: amount}, nil
}

// Amount returns the configured flat cost.
func (c *FlatRateCalculator) Amount() kernel.Money { return c.amount }

// Available always reports true; a flat rate prices any order.
func (c *FlatRateCalculator) Available(_ *order.Order) bool {
	return true
}

// Compute returns the configured flat amount.
func (c *FlatRateCalculator) Compute(o *order.Order, _ *order.Shipment) (kernel.Money, error) {
	if c.amount.Currency() != o.Currency() {
		return kernel.Money{}, kernel.ErrCurrencyMismatch
	}
	return c.amount, nil
}

// FlatPercentItemTotalCalculator charges a percentage of the order's item
// total, rounded to cents.
type FlatPercentItemTotalCalculator struct {
	percent decimal.Decimal
}

// NewFlatPercentItemTotalCalculator creates a percent-of-item-total
// calculator. The percent is expressed as a whole number, e.g. 10 for 10%.
func NewFlatPercentItemTotalCalculator(percent decimal.Decimal) (*FlatPercentItemTotalCalculator, error) {
	if percent.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("flat percent",
			fmt.Errorf("%s is negative", percent))
	}
	return &FlatPercentItemTotalCalculator{percent: percent}, nil
}

// Percent returns the configured percentage.
func (c *FlatPercentItemTotalCalculator) Percent() decimal.Decimal { return c.percent }

// Available always reports true.
func (c *FlatPercentItemTotalCalculator) Available(_ *order.Order) bool {
	return true
}

// Compute returns percent of the summed line item amounts.
func (c *FlatPercentItemTotalCalculator) Compute(o *order.Order, _ *order.Shipment) (kernel.Money, error) {
	itemTotal := kernel.ZeroMoney(o.Currency())
	var err error
	for _, li := range o.LineItems() {
		itemTotal, err = itemTotal.Add(li.Amount())
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return itemTotal.MulDecimal(c.percent.Div(decimal.NewFromInt(100))).Round(), nil
}

// tier is one step of a TieredFlatRateCalculator.
type tier struct {
	minimum kernel.Money
	amount  kernel.Money
}

// TieredFlatRateCalculator charges a base amount, replaced by a tier amount
// once the order's item total reaches the tier's minimum. The calculator is
// unavailable for orders in a currency it was not configured for.
type TieredFlatRateCalculator struct {
	base  kernel.Money
	tiers []tier
}

// NewTieredFlatRateCalculator creates a tiered calculator. Tiers may be
// given in any order; they are evaluated from the highest minimum down.
func NewTieredFlatRateCalculator(base kernel.Money, minimums, amounts []kernel.Money) (*TieredFlatRateCalculator, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if len(minimums) != len(amounts) {
		return nil, errs.NewValueIsInvalidErrorWithCause("tiers",
			fmt.Errorf("%d minimums for %d amounts", len(minimums), len(amounts)))
	}

	tiers := make([]tier, len(minimums))
	for i := range minimums {
		if minimums[i].Currency() != base.Currency() || amounts[i].Currency() != base.Currency() {
			return nil, kernel.ErrCurrencyMismatch
		}
		tiers[i] = tier{minimum: minimums[i], amount: amounts[i]}
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].minimum.Amount().GreaterThan(tiers[j].minimum.Amount())
	})

	return &TieredFlatRateCalculator{base: base, tiers: tiers}, nil
}

// Base returns the cost charged when no tier applies.
func (c *TieredFlatRateCalculator) Base() kernel.Money { return c.base }

// Tiers returns the tier minimums and amounts, ordered from the highest
// minimum down.
func (c *TieredFlatRateCalculator) Tiers() (minimums, amounts []kernel.Money) {
	minimums = make([]kernel.Money, len(c.tiers))
	amounts = make([]kernel.Money, len(c.tiers))
	for i, t := range c.tiers {
		minimums[i] = t.minimum
		amounts[i] = t.amount
	}
	return minimums, amounts
}

// Available reports true only for orders in the calculator's currency.
func (c *TieredFlatRateCalculator) Available(o *order.Order) bool {
	return o.Currency() == c.base.Currency()
}

// Compute returns the amount of the highest tier the item total reaches,
// the base amount when no tier applies.
func (c *TieredFlatRateCalculator) Compute(o *order.Order, _ *order.Shipment) (kernel.Money, error) {
	itemTotal := kernel.ZeroMoney(o.Currency())
	var err error
	for _, li := range o.LineItems() {
		itemTotal, err = itemTotal.Add(li.Amount())
		if err != nil {
			return kernel.Money{}, err
		}
	}

	for _, t := range c.tiers {
		cmp, err := itemTotal.Cmp(t.minimum)
		if err != nil {
			return kernel.Money{}, err
		}
		if cmp >= 0 {
			return t.amount, nil
		}
	}
	return c.base, nil
}
