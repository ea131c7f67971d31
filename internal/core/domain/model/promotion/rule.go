package promotion

import (
	"fmt"

	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"
)

// RuleKind discriminates the closed set of eligibility strategies. A
// promotion may hold at most one rule of each kind.
type RuleKind string

const (
	// RuleMinimumQuantity requires a minimum summed item quantity.
	RuleMinimumQuantity RuleKind = "minimum_quantity"

	// RuleItemTotal requires a minimum order item total.
	RuleItemTotal RuleKind = "item_total"

	// RuleFirstOrder requires the shopper to have no completed orders.
	RuleFirstOrder RuleKind = "first_order"

	// RuleProductInCart requires a specific product variant in the cart.
	RuleProductInCart RuleKind = "product_in_cart"
)

// Validate checks the RuleKind holds one of the defined values.
func (k RuleKind) Validate() error {
	switch k {
	case RuleMinimumQuantity, RuleItemTotal, RuleFirstOrder, RuleProductInCart:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("rule kind",
		fmt.Errorf("%q is not a valid promotion rule kind", string(k)))
}

// String returns the kind name.
func (k RuleKind) String() string {
	return string(k)
}

// Rule is one eligibility strategy of a promotion. Each kind owns its
// applicability and eligibility predicates; Actionable additionally lets a
// kind restrict which line items an associated action may discount and
// defaults to true for kinds without line-level opinions.
type Rule interface {
	// Kind identifies the strategy; the uniqueness invariant keys on it.
	Kind() RuleKind

	// Applicable reports whether the rule has an opinion about the order
	// at all. Inapplicable rules do not veto eligibility.
	Applicable(o *order.Order) bool

	// Eligible reports whether the order satisfies the rule. A returned
	// error is an EligibilityError: the caller treats the rule as
	// ineligible and logs the cause.
	Eligible(o *order.Order) (bool, error)

	// Actionable reports whether an action may discount the line item.
	Actionable(li *order.LineItem) bool
}
