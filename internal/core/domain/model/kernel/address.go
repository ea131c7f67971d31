package kernel

import (
	"errors"

	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address was not created
// through the NewAddress factory function.
var ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")

// Address is the shipping destination of an order. It is a value object:
// changing any field during checkout replaces the whole address.
//
// Line1, city, and country code are always required. Whether region and
// postal code are required depends on the store configuration, which is
// checked separately via ValidateWith.
type Address struct {
	line1       string
	city        string
	region      string
	postalCode  string
	countryCode string

	guard guard.ConstructorGuard
}

// NewAddress creates a validated shipping address.
// Region and postal code may be empty here; store-level requirements are
// enforced by ValidateWith.
func NewAddress(line1, city, region, postalCode, countryCode string) (Address, error) {
	if line1 == "" {
		return Address{}, errs.NewValueIsRequiredError("address line1")
	}
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("address city")
	}
	if len(countryCode) != 2 {
		return Address{}, errs.NewValueIsInvalidError("address country code")
	}

	return Address{
		line1:       line1,
		city:        city,
		region:      region,
		postalCode:  postalCode,
		countryCode: countryCode,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the address was created through NewAddress.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// ValidateWith checks the address against store-level field requirements.
func (a Address) ValidateWith(cfg StoreConfig) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if cfg.AddressRequiresRegion() && a.region == "" {
		return errs.NewValueIsRequiredError("address region")
	}
	if cfg.AddressRequiresPostalCode() && a.postalCode == "" {
		return errs.NewValueIsRequiredError("address postal code")
	}
	return nil
}

// Line1 returns the first street line.
func (a Address) Line1() string { return a.line1 }

// City returns the city.
func (a Address) City() string { return a.city }

// Region returns the state or province, possibly empty.
func (a Address) Region() string { return a.region }

// PostalCode returns the postal code, possibly empty.
func (a Address) PostalCode() string { return a.postalCode }

// CountryCode returns the two-letter country code used for zone matching.
func (a Address) CountryCode() string { return a.countryCode }
