package kernel

import (
	"fmt"

	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch is returned when an arithmetic operation combines
// monetary amounts denominated in different currencies.
var ErrCurrencyMismatch = errs.NewValueIsInvalidError("money operands must share a currency")

// Currency is an ISO 4217 currency code recognized by the store.
// The zero value is invalid; construct via NewCurrency.
type Currency string

// Currencies the engine recognizes. The set is deliberately closed: a store
// configures one of these as its default and shipping methods declare the
// subset they support.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	JPY Currency = "JPY"
)

func validCurrencies() map[Currency]struct{} {
	return map[Currency]struct{}{
		USD: {}, EUR: {}, GBP: {}, CAD: {}, AUD: {}, JPY: {},
	}
}

// NewCurrency parses and validates a currency code.
func NewCurrency(code string) (Currency, error) {
	c := Currency(code)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate checks that the currency is one of the recognized codes.
func (c Currency) Validate() error {
	if _, ok := validCurrencies()[c]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("currency",
			fmt.Errorf("%q is not a recognized currency code", string(c)))
	}
	return nil
}

// String returns the ISO code.
func (c Currency) String() string {
	return string(c)
}

// Money is an immutable monetary amount in a single currency.
// Amounts are exact decimals; all totals math in the engine goes through
// this type so rounding behavior stays in one place.
//
// The zero value carries no currency and fails Validate. Construct via
// NewMoney, MoneyFromString, or ZeroMoney.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a monetary amount in the given currency.
// Negative amounts are allowed: promotions and refunds are represented
// as negative adjustments.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if err := currency.Validate(); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromString parses a decimal string like "12.34" into Money.
func MoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns a zero amount in the given currency.
// Panics are avoided: an invalid currency yields a Money that fails Validate.
func ZeroMoney(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency of the amount.
func (m Money) Currency() Currency {
	return m.currency
}

// Validate checks that the Money was constructed with a recognized currency.
func (m Money) Validate() error {
	return m.currency.Validate()
}

// Add returns the sum of two amounts. Fails with ErrCurrencyMismatch when
// the operands are denominated in different currencies.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns the difference of two amounts in the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// MulInt scales the amount by an integer factor, e.g. quantity times unit price.
func (m Money) MulInt(factor int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(factor))), currency: m.currency}
}

// MulDecimal scales the amount by a decimal factor, e.g. a percentage rate.
func (m Money) MulDecimal(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Round returns the amount rounded to two decimal places, half away from zero.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2), currency: m.currency}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Cmp compares two amounts in the same currency.
// Returns -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, ErrCurrencyMismatch
	}
	return m.amount.Cmp(other.amount), nil
}

// IsEqual reports whether two amounts have the same currency and value.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String formats the amount as "12.34 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
