package orderrepo

import (
	"context"
	"errors"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM. Writes replace
// the whole snapshot: the orders row is updated under the optimistic version
// check and the child rows are rewritten.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&s.order).Error; err != nil {
		return err
	}
	if err := r.createChildren(ctx, s); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. The orders row is written
// only when the stored version still equals the version the aggregate was
// loaded at; otherwise the write fails with a VersionConflictError.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", s.order.ID, aggregate.Version()).
		Select("*").Omit("id", "created_at").
		Updates(&s.order)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var current OrderDTO
		err := r.db.WithContext(ctx).Select("version").First(&current, "id = ?", s.order.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		if err != nil {
			return err
		}
		return errs.NewVersionConflictError("order", aggregate.Version(), current.Version)
	}

	if err := r.deleteChildren(ctx, s.order.ID); err != nil {
		return err
	}
	if err := r.createChildren(ctx, s); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID with its complete snapshot.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return r.load(ctx, dto)
}

// GetAllIncomplete retrieves orders that are neither completed nor canceled
// and were last touched before the cutoff.
func (r *GormOrderRepository) GetAllIncomplete(ctx context.Context, updatedBefore time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "completed = FALSE AND canceled = FALSE AND updated_at < ?", updatedBefore).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := r.load(ctx, dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// HasCompletedOrders reports whether a completed order other than the given
// one exists for the same payment source. An order without a payment source
// has no history to match against.
func (r *GormOrderRepository) HasCompletedOrders(ctx context.Context, excluding *order.Order) (bool, error) {
	if err := excluding.Validate(); err != nil {
		return false, err
	}
	if excluding.PaymentSourceRef() == "" {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("completed = TRUE AND payment_source_ref = ? AND id <> ?",
			excluding.PaymentSourceRef(), excluding.ID().Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// load completes an orders row into a domain aggregate by fetching its child
// rows.
func (r *GormOrderRepository) load(ctx context.Context, dto OrderDTO) (*order.Order, error) {
	s := snapshot{order: dto}

	if err := r.db.WithContext(ctx).Find(&s.lineItems, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&s.shipments, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&s.payments, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&s.adjustments, "order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return toDomain(s)
}

// createChildren inserts the snapshot's child rows.
func (r *GormOrderRepository) createChildren(ctx context.Context, s snapshot) error {
	if len(s.lineItems) > 0 {
		if err := r.db.WithContext(ctx).Create(&s.lineItems).Error; err != nil {
			return err
		}
	}
	if len(s.shipments) > 0 {
		if err := r.db.WithContext(ctx).Create(&s.shipments).Error; err != nil {
			return err
		}
	}
	if len(s.payments) > 0 {
		if err := r.db.WithContext(ctx).Create(&s.payments).Error; err != nil {
			return err
		}
	}
	if len(s.adjustments) > 0 {
		if err := r.db.WithContext(ctx).Create(&s.adjustments).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteChildren removes every child row of the order ahead of a rewrite.
func (r *GormOrderRepository) deleteChildren(ctx context.Context, orderID any) error {
	if err := r.db.WithContext(ctx).Delete(&LineItemDTO{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&ShipmentDTO{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&PaymentDTO{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&AdjustmentDTO{}, "order_id = ?", orderID).Error
}
