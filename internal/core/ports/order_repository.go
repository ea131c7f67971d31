// Package ports defines the persistence interfaces of the checkout engine.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Updates use optimistic concurrency: the aggregate carries the version it
// was read at, and a write against a stale version fails with a
// VersionConflictError instead of silently overwriting.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate, checking the
	// aggregate's loaded version against the stored one. Fails with a
	// VersionConflictError when another writer got there first.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier with a
	// complete snapshot of its line items, shipments, payments, and
	// adjustments.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllIncomplete retrieves orders that are neither completed nor
	// canceled. Used by the stale cart cleanup job.
	GetAllIncomplete(ctx context.Context, updatedBefore time.Time) ([]*order.Order, error)

	// HasCompletedOrders reports whether any completed order other than
	// the given one exists for the same payment source. Consulted by the
	// first-order promotion rule.
	HasCompletedOrders(ctx context.Context, excluding *order.Order) (bool, error)
}
