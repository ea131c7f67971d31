package kernel

import (
	"errors"

	"checkout/internal/pkg/guard"
)

// ErrStoreConfigIsNotConstructed is returned when a StoreConfig was not
// created through NewStoreConfig or DefaultStoreConfig.
var ErrStoreConfigIsNotConstructed = errors.New("StoreConfig must be created via NewStoreConfig constructor")

// StoreConfig carries the store-wide preferences that drive checkout
// behavior: the default currency, which address fields are required, and
// whether backordered shipments may proceed. It is an explicit value passed
// into the services that need it, never read from ambient state.
type StoreConfig struct {
	defaultCurrency           Currency
	addressRequiresRegion     bool
	addressRequiresPostalCode bool
	allowBackorderShipping    bool
	pricesIncludeTax          bool

	guard guard.ConstructorGuard
}

// NewStoreConfig creates a validated store configuration.
func NewStoreConfig(
	defaultCurrency Currency,
	addressRequiresRegion bool,
	addressRequiresPostalCode bool,
	allowBackorderShipping bool,
	pricesIncludeTax bool,
) (StoreConfig, error) {
	if err := defaultCurrency.Validate(); err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{
		defaultCurrency:           defaultCurrency,
		addressRequiresRegion:     addressRequiresRegion,
		addressRequiresPostalCode: addressRequiresPostalCode,
		allowBackorderShipping:    allowBackorderShipping,
		pricesIncludeTax:          pricesIncludeTax,
		guard:                     guard.NewConstructorGuard(),
	}, nil
}

// DefaultStoreConfig returns the configuration a fresh store starts with:
// USD pricing, region required, postal code required, no backorder shipping,
// tax-exclusive prices.
func DefaultStoreConfig() StoreConfig {
	cfg, _ := NewStoreConfig(USD, true, true, false, false)
	return cfg
}

// Validate ensures the configuration was created through a constructor.
func (c StoreConfig) Validate() error {
	return c.guard.Validate(ErrStoreConfigIsNotConstructed)
}

// DefaultCurrency returns the currency new orders are denominated in.
func (c StoreConfig) DefaultCurrency() Currency { return c.defaultCurrency }

// AddressRequiresRegion reports whether a state/province is required.
func (c StoreConfig) AddressRequiresRegion() bool { return c.addressRequiresRegion }

// AddressRequiresPostalCode reports whether a postal code is required.
func (c StoreConfig) AddressRequiresPostalCode() bool { return c.addressRequiresPostalCode }

// AllowBackorderShipping reports whether backordered shipments may advance
// through checkout.
func (c StoreConfig) AllowBackorderShipping() bool { return c.allowBackorderShipping }

// PricesIncludeTax reports whether catalog prices already include tax.
func (c StoreConfig) PricesIncludeTax() bool { return c.pricesIncludeTax }
