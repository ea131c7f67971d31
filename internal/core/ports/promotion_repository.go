package ports

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/promotion"
)

// PromotionRepository defines the persistence contract for promotions and
// their rules.
type PromotionRepository interface {
	// Add persists a new promotion with its rules. The rule-kind
	// uniqueness invariant is enforced by the aggregate at creation.
	Add(ctx context.Context, p *promotion.Promotion) error

	// Get retrieves a promotion by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*promotion.Promotion, error)

	// GetAllActive retrieves the promotions currently applicable to
	// checkouts, fed into every reconciliation pass.
	GetAllActive(ctx context.Context) ([]*promotion.Promotion, error)
}
