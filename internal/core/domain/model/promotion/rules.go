package promotion

import (
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"
)

// MinimumQuantityRule is eligible when the summed line item quantity
// reaches a configured minimum.
type MinimumQuantityRule struct {
	minimum int
}

// NewMinimumQuantityRule creates a minimum quantity rule.
func NewMinimumQuantityRule(minimum int) (*MinimumQuantityRule, error) {
	if minimum <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("minimum quantity",
			fmt.Errorf("%d is not greater than 0", minimum))
	}
	return &MinimumQuantityRule{minimum: minimum}, nil
}

func (r *MinimumQuantityRule) Kind() RuleKind { return RuleMinimumQuantity }

// Minimum returns the configured quantity threshold.
func (r *MinimumQuantityRule) Minimum() int { return r.minimum }

func (r *MinimumQuantityRule) Applicable(_ *order.Order) bool { return true }

func (r *MinimumQuantityRule) Eligible(o *order.Order) (bool, error) {
	quantity := 0
	for _, li := range o.LineItems() {
		quantity += li.Quantity()
	}
	return quantity >= r.minimum, nil
}

func (r *MinimumQuantityRule) Actionable(_ *order.LineItem) bool { return true }

// ItemTotalRule is eligible when the order's item total reaches a
// configured threshold in the rule's currency.
type ItemTotalRule struct {
	threshold kernel.Money
}

// NewItemTotalRule creates an item total rule.
func NewItemTotalRule(threshold kernel.Money) (*ItemTotalRule, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}
	if threshold.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("item total threshold",
			fmt.Errorf("%s is negative", threshold))
	}
	return &ItemTotalRule{threshold: threshold}, nil
}

func (r *ItemTotalRule) Kind() RuleKind { return RuleItemTotal }

// Threshold returns the configured item total threshold.
func (r *ItemTotalRule) Threshold() kernel.Money { return r.threshold }

// Applicable reports true only for orders in the threshold's currency;
// the rule has no opinion about orders it cannot compare against.
func (r *ItemTotalRule) Applicable(o *order.Order) bool {
	return o.Currency() == r.threshold.Currency()
}

func (r *ItemTotalRule) Eligible(o *order.Order) (bool, error) {
	itemTotal := kernel.ZeroMoney(o.Currency())
	var err error
	for _, li := range o.LineItems() {
		itemTotal, err = itemTotal.Add(li.Amount())
		if err != nil {
			return false, NewEligibilityError(r.Kind(), err)
		}
	}

	cmp, err := itemTotal.Cmp(r.threshold)
	if err != nil {
		return false, NewEligibilityError(r.Kind(), err)
	}
	return cmp >= 0, nil
}

func (r *ItemTotalRule) Actionable(_ *order.LineItem) bool { return true }

// OrderHistory is the collaborator a FirstOrderRule consults for the
// shopper's past completed orders.
type OrderHistory interface {
	// HasCompletedOrder reports whether the shopper behind the order has
	// completed a purchase before, excluding the order itself.
	HasCompletedOrder(o *order.Order) (bool, error)
}

// FirstOrderRule is eligible only for a shopper's first order.
type FirstOrderRule struct {
	history OrderHistory
}

// NewFirstOrderRule creates a first order rule backed by an order history.
func NewFirstOrderRule(history OrderHistory) (*FirstOrderRule, error) {
	if history == nil {
		return nil, errs.NewValueIsRequiredError("order history")
	}
	return &FirstOrderRule{history: history}, nil
}

func (r *FirstOrderRule) Kind() RuleKind { return RuleFirstOrder }

func (r *FirstOrderRule) Applicable(_ *order.Order) bool { return true }

// Eligible asks the order history. A lookup failure is returned as an
// EligibilityError; the rule is then treated as ineligible.
func (r *FirstOrderRule) Eligible(o *order.Order) (bool, error) {
	hasCompleted, err := r.history.HasCompletedOrder(o)
	if err != nil {
		return false, NewEligibilityError(r.Kind(), err)
	}
	return !hasCompleted, nil
}

func (r *FirstOrderRule) Actionable(_ *order.LineItem) bool { return true }

// ProductInCartRule is eligible when at least one line item references one
// of the configured product variants. It also restricts actions to those
// line items.
type ProductInCartRule struct {
	variantIDs map[kernel.UUID]struct{}
}

// NewProductInCartRule creates a product-in-cart rule. At least one variant
// is required.
func NewProductInCartRule(variantIDs []kernel.UUID) (*ProductInCartRule, error) {
	if len(variantIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("variants")
	}

	set := make(map[kernel.UUID]struct{}, len(variantIDs))
	for _, id := range variantIDs {
		if err := id.Validate(); err != nil {
			return nil, errs.NewValueIsRequiredErrorWithCause("variant", err)
		}
		set[id] = struct{}{}
	}
	return &ProductInCartRule{variantIDs: set}, nil
}

func (r *ProductInCartRule) Kind() RuleKind { return RuleProductInCart }

// VariantIDs returns the configured variants in no particular order.
func (r *ProductInCartRule) VariantIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(r.variantIDs))
	for id := range r.variantIDs {
		ids = append(ids, id)
	}
	return ids
}

func (r *ProductInCartRule) Applicable(_ *order.Order) bool { return true }

func (r *ProductInCartRule) Eligible(o *order.Order) (bool, error) {
	for _, li := range o.LineItems() {
		if _, ok := r.variantIDs[li.VariantID()]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Actionable restricts discounts to the line items that made the order
// eligible.
func (r *ProductInCartRule) Actionable(li *order.LineItem) bool {
	_, ok := r.variantIDs[li.VariantID()]
	return ok
}
