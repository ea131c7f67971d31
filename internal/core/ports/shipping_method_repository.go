package ports

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/shipping"
)

// ShippingMethodRepository defines the persistence contract for fulfillment
// options. Methods are reference data: written by store administration,
// read by checkout.
type ShippingMethodRepository interface {
	// Add persists a new shipping method.
	Add(ctx context.Context, method *shipping.ShippingMethod) error

	// Get retrieves a shipping method by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error)

	// GetAll retrieves every configured shipping method.
	GetAll(ctx context.Context) ([]*shipping.ShippingMethod, error)
}
