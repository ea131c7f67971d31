package promorepo

import (
	"context"
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/promotion"
	"checkout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPromotionRepository implements PromotionRepository using GORM. The
// history collaborator is threaded into reconstructed first-order rules.
type GormPromotionRepository struct {
	db      *gorm.DB
	history promotion.OrderHistory
}

// NewGormPromotionRepository creates a new GORM promotion repository.
func NewGormPromotionRepository(db *gorm.DB, history promotion.OrderHistory) *GormPromotionRepository {
	return &GormPromotionRepository{
		db:      db,
		history: history,
	}
}

// Add saves a new promotion with its rules to the database. New promotions
// are stored active.
func (r *GormPromotionRepository) Add(ctx context.Context, p *promotion.Promotion) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dto, rules, err := fromDomain(p)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	if len(rules) > 0 {
		if err := r.db.WithContext(ctx).Create(&rules).Error; err != nil {
			return err
		}
	}

	return nil
}

// Get retrieves a promotion by ID with its rules.
func (r *GormPromotionRepository) Get(ctx context.Context, id kernel.UUID) (*promotion.Promotion, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PromotionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promotion", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetAllActive retrieves every active promotion with its rules.
func (r *GormPromotionRepository) GetAllActive(ctx context.Context) ([]*promotion.Promotion, error) {
	var dtos []PromotionDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "active = TRUE").Error; err != nil {
		return nil, err
	}

	promotions := make([]*promotion.Promotion, 0, len(dtos))
	for _, dto := range dtos {
		p, err := r.load(ctx, dto)
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}

	return promotions, nil
}

// load completes a promotions row into a domain aggregate by fetching its
// rule rows.
func (r *GormPromotionRepository) load(ctx context.Context, dto PromotionDTO) (*promotion.Promotion, error) {
	var rules []RuleDTO
	if err := r.db.WithContext(ctx).Find(&rules, "promotion_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, rules, r.history)
}
