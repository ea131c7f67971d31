// Package promorepo provides data transfer objects and mapping functions for
// promotion persistence. A promotion is stored as one promotions row plus one
// promotion_rules row per attached rule; rule and action configuration live
// in JSON columns keyed by kind.
package promorepo

import (
	"encoding/json"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/promotion"
	"checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Action kinds as stored in the action_kind column.
const (
	actionPercentOffItems = "percent_off_items"
	actionFlatDiscount    = "flat_discount"
)

// PromotionDTO represents the database structure for persisting promotions.
// The active flag is a persistence concern: deactivated promotions keep
// their rows for completed orders that reference them by label but drop out
// of reconciliation.
type PromotionDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string
	Active bool `gorm:"index"`

	ActionKind   string
	ActionParams string `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for promotion entities.
func (PromotionDTO) TableName() string {
	return "promotions"
}

// RuleDTO represents one eligibility rule row of a promotion.
type RuleDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PromotionID uuid.UUID `gorm:"type:uuid;index"`
	Kind        string
	Params      string `gorm:"type:jsonb"`
}

// TableName specifies the database table name for promotion rule entities.
func (RuleDTO) TableName() string {
	return "promotion_rules"
}

// actionParams holds the configuration of any action kind.
type actionParams struct {
	Currency string          `json:"currency,omitempty"`
	Amount   decimal.Decimal `json:"amount,omitempty"`
	Percent  decimal.Decimal `json:"percent,omitempty"`
}

// ruleParams holds the configuration of any rule kind.
type ruleParams struct {
	Minimum    int             `json:"minimum,omitempty"`
	Currency   string          `json:"currency,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
	VariantIDs []string        `json:"variant_ids,omitempty"`
}

// fromDomain converts a promotion domain aggregate to its database rows.
// Rule rows get fresh identifiers on every write; rules have no identity in
// the domain beyond their kind.
func fromDomain(p *promotion.Promotion) (PromotionDTO, []RuleDTO, error) {
	kind, params, err := actionToParams(p.Action())
	if err != nil {
		return PromotionDTO{}, nil, err
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return PromotionDTO{}, nil, err
	}

	dto := PromotionDTO{
		ID:           p.ID().Bytes(),
		Name:         p.Name(),
		Active:       true,
		ActionKind:   kind,
		ActionParams: string(paramsJSON),
	}

	domainRules := p.Rules()
	rules := make([]RuleDTO, 0, len(domainRules))
	for _, r := range domainRules {
		rParams, rErr := ruleToParams(r)
		if rErr != nil {
			return PromotionDTO{}, nil, rErr
		}
		rParamsJSON, rErr := json.Marshal(rParams)
		if rErr != nil {
			return PromotionDTO{}, nil, rErr
		}
		rules = append(rules, RuleDTO{
			ID:          kernel.NewUUID().Bytes(),
			PromotionID: dto.ID,
			Kind:        r.Kind().String(),
			Params:      string(rParamsJSON),
		})
	}

	return dto, rules, nil
}

// toDomain converts promotion rows back to a domain aggregate. The history
// collaborator backs reconstructed first-order rules.
func toDomain(dto PromotionDTO, rules []RuleDTO, history promotion.OrderHistory) (*promotion.Promotion, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var params actionParams
	if err := json.Unmarshal([]byte(dto.ActionParams), &params); err != nil {
		return nil, err
	}
	action, err := actionFromParams(dto.ActionKind, params)
	if err != nil {
		return nil, err
	}

	p, err := promotion.NewPromotion(id, dto.Name, action)
	if err != nil {
		return nil, err
	}

	for _, ruleDTO := range rules {
		var rParams ruleParams
		if err := json.Unmarshal([]byte(ruleDTO.Params), &rParams); err != nil {
			return nil, err
		}
		rule, rErr := ruleFromParams(promotion.RuleKind(ruleDTO.Kind), rParams, history)
		if rErr != nil {
			return nil, rErr
		}
		if rErr := p.AddRule(rule); rErr != nil {
			return nil, rErr
		}
	}

	return p, nil
}

// actionToParams flattens a discount action into its stored kind and
// configuration.
func actionToParams(action promotion.Action) (string, actionParams, error) {
	switch a := action.(type) {
	case *promotion.PercentOffItemsAction:
		return actionPercentOffItems, actionParams{Percent: a.Percent()}, nil
	case *promotion.FlatDiscountAction:
		return actionFlatDiscount, actionParams{
			Currency: a.Amount().Currency().String(),
			Amount:   a.Amount().Amount(),
		}, nil
	default:
		return "", actionParams{}, errs.NewValueIsInvalidErrorWithCause("promotion action",
			fmt.Errorf("unsupported action type %T", action))
	}
}

// actionFromParams rebuilds a discount action from its stored kind and
// configuration.
func actionFromParams(kind string, params actionParams) (promotion.Action, error) {
	switch kind {
	case actionPercentOffItems:
		return promotion.NewPercentOffItemsAction(params.Percent)
	case actionFlatDiscount:
		amount, err := moneyFromParams(params.Amount, params.Currency)
		if err != nil {
			return nil, err
		}
		return promotion.NewFlatDiscountAction(amount)
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("action kind",
			fmt.Errorf("%q is not a known action kind", kind))
	}
}

// ruleToParams flattens an eligibility rule into its stored configuration.
func ruleToParams(rule promotion.Rule) (ruleParams, error) {
	switch r := rule.(type) {
	case *promotion.MinimumQuantityRule:
		return ruleParams{Minimum: r.Minimum()}, nil
	case *promotion.ItemTotalRule:
		return ruleParams{
			Currency: r.Threshold().Currency().String(),
			Amount:   r.Threshold().Amount(),
		}, nil
	case *promotion.FirstOrderRule:
		return ruleParams{}, nil
	case *promotion.ProductInCartRule:
		ids := r.VariantIDs()
		variantIDs := make([]string, 0, len(ids))
		for _, id := range ids {
			variantIDs = append(variantIDs, id.String())
		}
		return ruleParams{VariantIDs: variantIDs}, nil
	default:
		return ruleParams{}, errs.NewValueIsInvalidErrorWithCause("promotion rule",
			fmt.Errorf("unsupported rule type %T", rule))
	}
}

// ruleFromParams rebuilds an eligibility rule from its stored kind and
// configuration.
func ruleFromParams(kind promotion.RuleKind, params ruleParams, history promotion.OrderHistory) (promotion.Rule, error) {
	switch kind {
	case promotion.RuleMinimumQuantity:
		return promotion.NewMinimumQuantityRule(params.Minimum)
	case promotion.RuleItemTotal:
		threshold, err := moneyFromParams(params.Amount, params.Currency)
		if err != nil {
			return nil, err
		}
		return promotion.NewItemTotalRule(threshold)
	case promotion.RuleFirstOrder:
		return promotion.NewFirstOrderRule(history)
	case promotion.RuleProductInCart:
		variantIDs := make([]kernel.UUID, 0, len(params.VariantIDs))
		for _, s := range params.VariantIDs {
			id, err := kernel.UUIDFromString(s)
			if err != nil {
				return nil, err
			}
			variantIDs = append(variantIDs, id)
		}
		return promotion.NewProductInCartRule(variantIDs)
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("rule kind",
			fmt.Errorf("%q is not a known rule kind", string(kind)))
	}
}

func moneyFromParams(amount decimal.Decimal, currencyCode string) (kernel.Money, error) {
	currency, err := kernel.NewCurrency(currencyCode)
	if err != nil {
		return kernel.Money{}, err
	}
	return kernel.NewMoney(amount, currency)
}
