package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"checkout/internal/adapters/out/postgres"
	"checkout/internal/adapters/out/tax"
	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/application/usecases/queries"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompositionRoot wires the domain services, unit of work factory, and
// handlers from the configuration. Everything downstream of it receives its
// collaborators explicitly.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	storeConfig kernel.StoreConfig
	reconciler  *services.TotalsReconciler
	machine     *services.CheckoutMachine
	logger      *slog.Logger

	staleCartTTL time.Duration
}

// NewCompositionRoot builds the object graph. Fails when the configuration
// names an unknown currency or an invalid tax rate.
func NewCompositionRoot(config Config, gormDB *gorm.DB) (CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	currency, err := kernel.NewCurrency(config.StoreCurrency)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("store currency: %w", err)
	}

	storeConfig, err := kernel.NewStoreConfig(
		currency,
		config.AddressRequiresRegion,
		config.AddressRequiresPostalCode,
		config.AllowBackorderShipping,
		config.PricesIncludeTax,
	)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("store config: %w", err)
	}

	taxRate, err := decimal.NewFromString(config.TaxRate)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("tax rate: %w", err)
	}
	taxCalculator, err := tax.NewFlatRateTaxCalculator(taxRate, config.TaxLabel, config.PricesIncludeTax)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("tax calculator: %w", err)
	}

	reconciler, err := services.NewTotalsReconciler(taxCalculator, logger)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("totals reconciler: %w", err)
	}

	machine, err := services.NewCheckoutMachine(reconciler, services.NewShippingEligibility(), storeConfig)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("checkout machine: %w", err)
	}

	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		storeConfig:  storeConfig,
		reconciler:   reconciler,
		machine:      machine,
		logger:       logger,
		staleCartTTL: config.StaleCartTTL,
	}, nil
}

// StoreConfig returns the store preferences the graph was built with.
func (c *CompositionRoot) StoreConfig() kernel.StoreConfig {
	return c.storeConfig
}

// StaleCartTTL returns how long a cart may sit untouched before cleanup.
func (c *CompositionRoot) StaleCartTTL() time.Duration {
	return c.staleCartTTL
}

// Logger returns the application logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateAddLineItemCommandHandler() commands.AddLineItemCommandHandler {
	return commands.NewAddLineItemCommandHandler(c.checkoutUoWFactory(), c.reconciler)
}

func (c *CompositionRoot) CreateAdvanceCheckoutCommandHandler() commands.AdvanceCheckoutCommandHandler {
	return commands.NewAdvanceCheckoutCommandHandler(c.checkoutUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateCompleteCheckoutCommandHandler() commands.CompleteCheckoutCommandHandler {
	return commands.NewCompleteCheckoutCommandHandler(c.checkoutUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateUpdateCheckoutCommandHandler() commands.UpdateCheckoutCommandHandler {
	return commands.NewUpdateCheckoutCommandHandler(c.checkoutUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.checkoutUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateResumeOrderCommandHandler() commands.ResumeOrderCommandHandler {
	return commands.NewResumeOrderCommandHandler(c.checkoutUoWFactory(), c.machine)
}

func (c *CompositionRoot) CreateAddPaymentCommandHandler() commands.AddPaymentCommandHandler {
	return commands.NewAddPaymentCommandHandler(c.checkoutUoWFactory(), c.reconciler)
}

func (c *CompositionRoot) CreateCancelStaleCartsCommandHandler() commands.CancelStaleCartsCommandHandler {
	return commands.NewCancelStaleCartsCommandHandler(c.checkoutUoWFactory(), c.machine, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetIncompleteOrdersQueryHandler() queries.GetIncompleteOrdersQueryHandler {
	return queries.NewGetIncompleteOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) checkoutUoWFactory() commands.CheckoutUoWFactory {
	return FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}
