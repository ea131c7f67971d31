package promotion

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"
)

// ErrPromotionIsNotConstructed is returned when a Promotion was not created
// through the NewPromotion factory function.
var ErrPromotionIsNotConstructed = errors.New("Promotion must be created via NewPromotion constructor")

// Promotion is a named discount with a set of eligibility rules, at most
// one per rule kind, and one action producing the adjustments.
type Promotion struct {
	id     kernel.UUID
	name   string
	rules  map[RuleKind]Rule
	action Action

	isConstructed bool
}

// NewPromotion creates a promotion without rules. A promotion with no
// rules is eligible for every order.
func NewPromotion(id kernel.UUID, name string, action Action) (*Promotion, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.NewValueIsRequiredError("promotion name")
	}
	if action == nil {
		return nil, errs.NewValueIsRequiredError("promotion action")
	}

	return &Promotion{
		id:            id,
		name:          name,
		rules:         make(map[RuleKind]Rule),
		action:        action,
		isConstructed: true,
	}, nil
}

// Validate ensures the promotion was created through NewPromotion.
func (p *Promotion) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPromotionIsNotConstructed
	}
	return nil
}

// ID returns the promotion identifier.
func (p *Promotion) ID() kernel.UUID { return p.id }

// Name returns the promotion name, used as the adjustment label.
func (p *Promotion) Name() string { return p.name }

// Action returns the attached discount action.
func (p *Promotion) Action() Action { return p.action }

// Rules returns the attached rules in no particular order.
func (p *Promotion) Rules() []Rule {
	rules := make([]Rule, 0, len(p.rules))
	for _, r := range p.rules {
		rules = append(rules, r)
	}
	return rules
}

// AddRule attaches a rule. Attaching a second rule of a kind the promotion
// already holds fails with a DuplicateRuleError and leaves the first rule
// untouched.
func (p *Promotion) AddRule(r Rule) error {
	if r == nil {
		return errs.NewValueIsRequiredError("rule")
	}
	if err := r.Kind().Validate(); err != nil {
		return err
	}
	if _, exists := p.rules[r.Kind()]; exists {
		return NewDuplicateRuleError(r.Kind())
	}
	p.rules[r.Kind()] = r
	return nil
}

// Eligible reports whether every applicable rule accepts the order. A rule
// evaluation failure short-circuits to ineligible and is returned as an
// EligibilityError for the caller to log.
func (p *Promotion) Eligible(o *order.Order) (bool, error) {
	for _, r := range p.rules {
		if !r.Applicable(o) {
			continue
		}
		eligible, err := r.Eligible(o)
		if err != nil {
			return false, err
		}
		if !eligible {
			return false, nil
		}
	}
	return true, nil
}

// Actionable reports whether every applicable rule permits discounting the
// line item.
func (p *Promotion) Actionable(li *order.LineItem) bool {
	for _, r := range p.rules {
		if !r.Actionable(li) {
			return false
		}
	}
	return true
}

// ComputeAdjustments runs the promotion's action against the order using
// the rules' combined line item filter. Eligibility is the caller's check.
func (p *Promotion) ComputeAdjustments(o *order.Order) ([]*order.Adjustment, error) {
	return p.action.ComputeAdjustments(o, p.name, p.Actionable)
}
