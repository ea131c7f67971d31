package methodrepo

import (
	"context"
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/shipping"
	"checkout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShippingMethodRepository implements ShippingMethodRepository using GORM.
type GormShippingMethodRepository struct {
	db *gorm.DB
}

// NewGormShippingMethodRepository creates a new GORM shipping method repository.
func NewGormShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

// Add saves a new shipping method to the database.
func (r *GormShippingMethodRepository) Add(ctx context.Context, method *shipping.ShippingMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(method)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a shipping method by ID.
func (r *GormShippingMethodRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.ShippingMethod, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShippingMethodDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipping method", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every configured shipping method.
func (r *GormShippingMethodRepository) GetAll(ctx context.Context) ([]*shipping.ShippingMethod, error) {
	var dtos []ShippingMethodDTO
	if err := r.db.WithContext(ctx).Find(&dtos).Error; err != nil {
		return nil, err
	}

	methods := make([]*shipping.ShippingMethod, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	return methods, nil
}
