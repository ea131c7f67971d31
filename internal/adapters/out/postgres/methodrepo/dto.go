// Package methodrepo provides data transfer objects and mapping functions
// for shipping method persistence. A method is one row; its zone is embedded
// and the category, currency, and calculator configuration are stored as
// JSON columns.
package methodrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/shipping"
	"checkout/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Calculator kinds as stored in the calculator_kind column.
const (
	calculatorFlatRate             = "flat_rate"
	calculatorFlatPercentItemTotal = "flat_percent_item_total"
	calculatorTieredFlatRate       = "tiered_flat_rate"
)

// ShippingMethodDTO represents the database structure for persisting
// shipping methods.
type ShippingMethodDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string

	ZoneID        uuid.UUID `gorm:"type:uuid"`
	ZoneName      string
	ZoneCountries string `gorm:"type:jsonb"`

	Categories  string `gorm:"type:jsonb"`
	MatchPolicy string
	Currencies  string `gorm:"type:jsonb"`

	CalculatorKind   string
	CalculatorParams string `gorm:"type:jsonb"`

	TrackingURLTemplate string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for shipping method entities.
func (ShippingMethodDTO) TableName() string {
	return "shipping_methods"
}

// calculatorParams holds the configuration of any calculator kind; unused
// fields stay empty in the JSON.
type calculatorParams struct {
	Currency string            `json:"currency,omitempty"`
	Amount   decimal.Decimal   `json:"amount,omitempty"`
	Percent  decimal.Decimal   `json:"percent,omitempty"`
	Minimums []decimal.Decimal `json:"minimums,omitempty"`
	Amounts  []decimal.Decimal `json:"amounts,omitempty"`
}

// fromDomain converts a shipping method domain entity to its database
// representation.
func fromDomain(method *shipping.ShippingMethod) (ShippingMethodDTO, error) {
	countries, err := json.Marshal(method.Zone().CountryCodes())
	if err != nil {
		return ShippingMethodDTO{}, err
	}

	categoryIDs := method.Categories()
	categories := make([]string, 0, len(categoryIDs))
	for _, c := range categoryIDs {
		categories = append(categories, c.String())
	}
	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return ShippingMethodDTO{}, err
	}

	currencyValues := method.Currencies()
	currencies := make([]string, 0, len(currencyValues))
	for _, c := range currencyValues {
		currencies = append(currencies, c.String())
	}
	currenciesJSON, err := json.Marshal(currencies)
	if err != nil {
		return ShippingMethodDTO{}, err
	}

	kind, params, err := calculatorToParams(method.Calculator())
	if err != nil {
		return ShippingMethodDTO{}, err
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return ShippingMethodDTO{}, err
	}

	return ShippingMethodDTO{
		ID:                  method.ID().Bytes(),
		Name:                method.Name(),
		ZoneID:              method.Zone().ID().Bytes(),
		ZoneName:            method.Zone().Name(),
		ZoneCountries:       string(countries),
		Categories:          string(categoriesJSON),
		MatchPolicy:         string(method.MatchPolicy()),
		Currencies:          string(currenciesJSON),
		CalculatorKind:      kind,
		CalculatorParams:    string(paramsJSON),
		TrackingURLTemplate: method.TrackingURLTemplate(),
	}, nil
}

// toDomain converts a database representation back to a shipping method
// domain entity.
func toDomain(dto ShippingMethodDTO) (*shipping.ShippingMethod, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	zoneID, err := kernel.UUIDFromBytes(dto.ZoneID[:])
	if err != nil {
		return nil, err
	}

	var countries []string
	if err := json.Unmarshal([]byte(dto.ZoneCountries), &countries); err != nil {
		return nil, err
	}
	zone, err := shipping.NewZone(zoneID, dto.ZoneName, countries)
	if err != nil {
		return nil, err
	}

	var categoryStrings []string
	if err := json.Unmarshal([]byte(dto.Categories), &categoryStrings); err != nil {
		return nil, err
	}
	categories := make([]kernel.UUID, 0, len(categoryStrings))
	for _, s := range categoryStrings {
		c, cErr := kernel.UUIDFromString(s)
		if cErr != nil {
			return nil, cErr
		}
		categories = append(categories, c)
	}

	var currencyStrings []string
	if err := json.Unmarshal([]byte(dto.Currencies), &currencyStrings); err != nil {
		return nil, err
	}
	currencies := make([]kernel.Currency, 0, len(currencyStrings))
	for _, s := range currencyStrings {
		c, cErr := kernel.NewCurrency(s)
		if cErr != nil {
			return nil, cErr
		}
		currencies = append(currencies, c)
	}

	var params calculatorParams
	if err := json.Unmarshal([]byte(dto.CalculatorParams), &params); err != nil {
		return nil, err
	}
	calculator, err := calculatorFromParams(dto.CalculatorKind, params)
	if err != nil {
		return nil, err
	}

	return shipping.NewShippingMethod(id, dto.Name, zone, categories,
		shipping.CategoryMatchPolicy(dto.MatchPolicy), currencies, calculator,
		dto.TrackingURLTemplate)
}

// calculatorToParams flattens a cost calculator into its stored kind and
// configuration.
func calculatorToParams(calculator shipping.CostCalculator) (string, calculatorParams, error) {
	switch c := calculator.(type) {
	case *shipping.FlatRateCalculator:
		return calculatorFlatRate, calculatorParams{
			Currency: c.Amount().Currency().String(),
			Amount:   c.Amount().Amount(),
		}, nil
	case *shipping.FlatPercentItemTotalCalculator:
		return calculatorFlatPercentItemTotal, calculatorParams{
			Percent: c.Percent(),
		}, nil
	case *shipping.TieredFlatRateCalculator:
		minimums, amounts := c.Tiers()
		params := calculatorParams{
			Currency: c.Base().Currency().String(),
			Amount:   c.Base().Amount(),
		}
		for i := range minimums {
			params.Minimums = append(params.Minimums, minimums[i].Amount())
			params.Amounts = append(params.Amounts, amounts[i].Amount())
		}
		return calculatorTieredFlatRate, params, nil
	default:
		return "", calculatorParams{}, errs.NewValueIsInvalidErrorWithCause("cost calculator",
			fmt.Errorf("unsupported calculator type %T", calculator))
	}
}

// calculatorFromParams rebuilds a cost calculator from its stored kind and
// configuration.
func calculatorFromParams(kind string, params calculatorParams) (shipping.CostCalculator, error) {
	switch kind {
	case calculatorFlatRate:
		amount, err := moneyFromParams(params.Amount, params.Currency)
		if err != nil {
			return nil, err
		}
		return shipping.NewFlatRateCalculator(amount)
	case calculatorFlatPercentItemTotal:
		return shipping.NewFlatPercentItemTotalCalculator(params.Percent)
	case calculatorTieredFlatRate:
		base, err := moneyFromParams(params.Amount, params.Currency)
		if err != nil {
			return nil, err
		}
		minimums := make([]kernel.Money, 0, len(params.Minimums))
		amounts := make([]kernel.Money, 0, len(params.Amounts))
		for i := range params.Minimums {
			m, mErr := moneyFromParams(params.Minimums[i], params.Currency)
			if mErr != nil {
				return nil, mErr
			}
			minimums = append(minimums, m)
		}
		for i := range params.Amounts {
			a, aErr := moneyFromParams(params.Amounts[i], params.Currency)
			if aErr != nil {
				return nil, aErr
			}
			amounts = append(amounts, a)
		}
		return shipping.NewTieredFlatRateCalculator(base, minimums, amounts)
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("calculator kind",
			fmt.Errorf("%q is not a known calculator kind", kind))
	}
}

func moneyFromParams(amount decimal.Decimal, currencyCode string) (kernel.Money, error) {
	currency, err := kernel.NewCurrency(currencyCode)
	if err != nil {
		return kernel.Money{}, err
	}
	return kernel.NewMoney(amount, currency)
}
