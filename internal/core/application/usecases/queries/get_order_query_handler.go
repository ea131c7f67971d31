package queries

import (
	"context"

	"checkout/internal/core/domain/model/order"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's reconciled snapshot from the
// database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns an ObjectNotFoundError when no order
// with the given identifier exists.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var row struct {
		Currency           string
		Stage              int
		PaymentStatus      string
		ShipmentStatus     string
		ItemCount          int
		ItemTotal          decimal.Decimal
		ShipmentTotal      decimal.Decimal
		AdjustmentTotal    decimal.Decimal
		AdditionalTaxTotal decimal.Decimal
		IncludedTaxTotal   decimal.Decimal
		PaymentTotal       decimal.Decimal
		PromoTotal         decimal.Decimal
		Total              decimal.Decimal
		Completed          bool
		Canceled           bool
		Version            int64
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			currency,
			stage,
			payment_status,
			shipment_status,
			item_count,
			item_total,
			shipment_total,
			adjustment_total,
			additional_tax_total,
			included_tax_total,
			payment_total,
			promo_total,
			total,
			completed,
			canceled,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&row).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if row.Currency == "" {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return GetOrderQueryResponse{
		ID:                 query.OrderID(),
		Currency:           row.Currency,
		Stage:              order.Stage(row.Stage).String(),
		PaymentStatus:      row.PaymentStatus,
		ShipmentStatus:     row.ShipmentStatus,
		ItemCount:          row.ItemCount,
		ItemTotal:          row.ItemTotal,
		ShipmentTotal:      row.ShipmentTotal,
		AdjustmentTotal:    row.AdjustmentTotal,
		AdditionalTaxTotal: row.AdditionalTaxTotal,
		IncludedTaxTotal:   row.IncludedTaxTotal,
		PaymentTotal:       row.PaymentTotal,
		PromoTotal:         row.PromoTotal,
		Total:              row.Total,
		Completed:          row.Completed,
		Canceled:           row.Canceled,
		Version:            row.Version,
	}, nil
}
