package cmd

import "time"

// Config carries everything the application reads from the environment: the
// HTTP and database endpoints, the store preferences, the flat tax rate, and
// the stale cart cleanup policy.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	StoreCurrency             string
	AddressRequiresRegion     bool
	AddressRequiresPostalCode bool
	AllowBackorderShipping    bool
	PricesIncludeTax          bool

	TaxRate  string
	TaxLabel string

	StaleCartTTL time.Duration
}
