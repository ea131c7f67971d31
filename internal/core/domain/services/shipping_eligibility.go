package services

import (
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/shipping"
)

// ShippingEligibility is the domain service deciding whether a fulfillment
// option can serve an order. Availability is the conjunction of four
// independent gates:
//   - the method's cost calculator reports itself usable for the order
//   - the order's shipping address falls inside the method's zone
//   - the method supports the order's currency
//   - the shipping categories of the order's line items satisfy the
//     method's category match policy
type ShippingEligibility struct{}

// NewShippingEligibility creates a ShippingEligibility service.
func NewShippingEligibility() ShippingEligibility {
	return ShippingEligibility{}
}

// IsAvailable reports whether the method can serve the order. An order
// without a shipping address fails the zone gate.
func (s ShippingEligibility) IsAvailable(method *shipping.ShippingMethod, o *order.Order) bool {
	if method.Validate() != nil || o.Validate() != nil {
		return false
	}

	if !method.Calculator().Available(o) {
		return false
	}

	addr := o.ShippingAddress()
	if addr == nil || !method.Zone().Includes(*addr) {
		return false
	}

	if !method.SupportsCurrency(o.Currency()) {
		return false
	}

	return method.MatchesCategories(s.itemCategories(o))
}

// AvailableMethods filters the candidate methods down to those that can
// serve the order, preserving input order.
func (s ShippingEligibility) AvailableMethods(methods []*shipping.ShippingMethod, o *order.Order) []*shipping.ShippingMethod {
	available := make([]*shipping.ShippingMethod, 0, len(methods))
	for _, m := range methods {
		if s.IsAvailable(m, o) {
			available = append(available, m)
		}
	}
	return available
}

func (s ShippingEligibility) itemCategories(o *order.Order) []kernel.UUID {
	items := o.LineItems()
	categories := make([]kernel.UUID, 0, len(items))
	for _, li := range items {
		categories = append(categories, li.ShippingCategoryID())
	}
	return categories
}
