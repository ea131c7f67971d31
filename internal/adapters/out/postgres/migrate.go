package postgres

import (
	"checkout/internal/adapters/out/postgres/methodrepo"
	"checkout/internal/adapters/out/postgres/orderrepo"
	"checkout/internal/adapters/out/postgres/promorepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table of the checkout schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.ShipmentDTO{},
		&orderrepo.PaymentDTO{},
		&orderrepo.AdjustmentDTO{},
		&methodrepo.ShippingMethodDTO{},
		&promorepo.PromotionDTO{},
		&promorepo.RuleDTO{},
	)
}
