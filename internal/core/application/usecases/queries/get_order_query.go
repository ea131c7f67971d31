// Package queries contains read-only operations of the CQRS architecture.
// Query handlers read the storage directly and return plain response
// structures, bypassing the aggregate model.
package queries

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order's reconciled snapshot: stage, derived
// statuses, and the full set of totals.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is one order's reconciled snapshot.
type GetOrderQueryResponse struct {
	ID             kernel.UUID
	Currency       string
	Stage          string
	PaymentStatus  string
	ShipmentStatus string

	ItemCount          int
	ItemTotal          decimal.Decimal
	ShipmentTotal      decimal.Decimal
	AdjustmentTotal    decimal.Decimal
	AdditionalTaxTotal decimal.Decimal
	IncludedTaxTotal   decimal.Decimal
	PaymentTotal       decimal.Decimal
	PromoTotal         decimal.Decimal
	Total              decimal.Decimal

	Completed bool
	Canceled  bool
	Version   int64
}
