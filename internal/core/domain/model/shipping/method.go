package shipping

import (
	"errors"
	"fmt"
	"strings"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrShippingMethodIsNotConstructed is returned when a ShippingMethod was
// not created through the NewShippingMethod factory function.
var ErrShippingMethodIsNotConstructed = errors.New("ShippingMethod must be created via NewShippingMethod constructor")

// trackingCodePlaceholder is substituted by BuildTrackingURL.
const trackingCodePlaceholder = ":tracking"

// CategoryMatchPolicy governs how a method's eligible-category set is
// compared against the shipping categories of an order's line items.
type CategoryMatchPolicy string

const (
	// MatchAll requires every line item's category to be in the set.
	MatchAll CategoryMatchPolicy = "all"

	// MatchAny requires at least one line item's category to be in the set.
	MatchAny CategoryMatchPolicy = "any"

	// MatchNone requires that no line item's category is in the set.
	MatchNone CategoryMatchPolicy = "none"
)

// Validate checks the CategoryMatchPolicy holds one of the defined values.
func (p CategoryMatchPolicy) Validate() error {
	switch p {
	case MatchAll, MatchAny, MatchNone:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("category match policy",
		fmt.Errorf("%q is not a valid category match policy", string(p)))
}

// ShippingMethod is one fulfillment option a store offers. It is not owned
// by any order; shipments reference it by ID. Pricing and calculator
// availability are delegated to the attached CostCalculator.
type ShippingMethod struct {
	id                  kernel.UUID
	name                string
	zone                Zone
	categories          map[kernel.UUID]struct{}
	matchPolicy         CategoryMatchPolicy
	currencies          map[kernel.Currency]struct{}
	calculator          CostCalculator
	trackingURLTemplate string

	isConstructed bool
}

// NewShippingMethod creates a fulfillment option. The category set may be
// empty, in which case category matching passes vacuously under every
// policy. At least one supported currency is required.
func NewShippingMethod(
	id kernel.UUID,
	name string,
	zone Zone,
	categories []kernel.UUID,
	matchPolicy CategoryMatchPolicy,
	currencies []kernel.Currency,
	calculator CostCalculator,
	trackingURLTemplate string,
) (*ShippingMethod, error) {
	if err := errors.Join(
		id.Validate(),
		zone.Validate(),
		matchPolicy.Validate(),
	); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("shipping method name")
	}
	if len(currencies) == 0 {
		return nil, errs.NewValueIsRequiredError("supported currencies")
	}
	if calculator == nil {
		return nil, errs.NewValueIsRequiredError("cost calculator")
	}

	categorySet := make(map[kernel.UUID]struct{}, len(categories))
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return nil, errs.NewValueIsRequiredErrorWithCause("shipping category", err)
		}
		categorySet[c] = struct{}{}
	}

	currencySet := make(map[kernel.Currency]struct{}, len(currencies))
	for _, c := range currencies {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		currencySet[c] = struct{}{}
	}

	return &ShippingMethod{
		id:                  id,
		name:                name,
		zone:                zone,
		categories:          categorySet,
		matchPolicy:         matchPolicy,
		currencies:          currencySet,
		calculator:          calculator,
		trackingURLTemplate: trackingURLTemplate,
		isConstructed:       true,
	}, nil
}

// Validate ensures the method was created through NewShippingMethod.
func (m *ShippingMethod) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrShippingMethodIsNotConstructed
	}
	return nil
}

// ID returns the method identifier.
func (m *ShippingMethod) ID() kernel.UUID { return m.id }

// Name returns the method name.
func (m *ShippingMethod) Name() string { return m.name }

// Zone returns the eligible delivery zone.
func (m *ShippingMethod) Zone() Zone { return m.zone }

// MatchPolicy returns the category match policy.
func (m *ShippingMethod) MatchPolicy() CategoryMatchPolicy { return m.matchPolicy }

// Calculator returns the attached cost calculator.
func (m *ShippingMethod) Calculator() CostCalculator { return m.calculator }

// Categories returns the eligible shipping categories in no particular order.
func (m *ShippingMethod) Categories() []kernel.UUID {
	categories := make([]kernel.UUID, 0, len(m.categories))
	for c := range m.categories {
		categories = append(categories, c)
	}
	return categories
}

// Currencies returns the supported currencies in no particular order.
func (m *ShippingMethod) Currencies() []kernel.Currency {
	currencies := make([]kernel.Currency, 0, len(m.currencies))
	for c := range m.currencies {
		currencies = append(currencies, c)
	}
	return currencies
}

// TrackingURLTemplate returns the configured URL template, possibly empty.
func (m *ShippingMethod) TrackingURLTemplate() string { return m.trackingURLTemplate }

// SupportsCurrency reports whether the method accepts the currency.
func (m *ShippingMethod) SupportsCurrency(currency kernel.Currency) bool {
	_, ok := m.currencies[currency]
	return ok
}

// MatchesCategories applies the match policy to the shipping categories of
// an order's line items. An empty eligible-category set passes vacuously
// under every policy.
func (m *ShippingMethod) MatchesCategories(itemCategories []kernel.UUID) bool {
	if len(m.categories) == 0 {
		return true
	}

	switch m.matchPolicy {
	case MatchAll:
		for _, c := range itemCategories {
			if _, ok := m.categories[c]; !ok {
				return false
			}
		}
		return true
	case MatchAny:
		for _, c := range itemCategories {
			if _, ok := m.categories[c]; ok {
				return true
			}
		}
		return false
	case MatchNone:
		for _, c := range itemCategories {
			if _, ok := m.categories[c]; ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// BuildTrackingURL substitutes the tracking code into the method's URL
// template. It returns the empty string, never an error, when the template
// is absent or the code is empty.
func (m *ShippingMethod) BuildTrackingURL(trackingCode string) string {
	if m.trackingURLTemplate == "" || trackingCode == "" {
		return ""
	}
	return strings.ReplaceAll(m.trackingURLTemplate, trackingCodePlaceholder, trackingCode)
}
