// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The order aggregate is stored as a snapshot across five
// tables: the orders row plus its line items, shipments, payments, and
// adjustments, all keyed by order ID.
package orderrepo

import (
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Carries the reconciled totals and derived statuses alongside the checkout
// state, and the version column backing the optimistic concurrency check.
type OrderDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Currency string

	Stage         int
	PreviousStage int

	ShippingAddress  AddressDTO `gorm:"embedded;embeddedPrefix:ship_"`
	PaymentSourceRef string

	ItemCount          int
	ItemTotal          decimal.Decimal `gorm:"type:numeric"`
	ShipmentTotal      decimal.Decimal `gorm:"type:numeric"`
	AdjustmentTotal    decimal.Decimal `gorm:"type:numeric"`
	AdditionalTaxTotal decimal.Decimal `gorm:"type:numeric"`
	IncludedTaxTotal   decimal.Decimal `gorm:"type:numeric"`
	PaymentTotal       decimal.Decimal `gorm:"type:numeric"`
	PromoTotal         decimal.Decimal `gorm:"type:numeric"`
	Total              decimal.Decimal `gorm:"type:numeric"`

	PaymentStatus  string `gorm:"index"`
	ShipmentStatus string

	Completed   bool `gorm:"index"`
	Canceled    bool
	Backordered bool

	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded shipping address columns within the
// orders table. An empty line1 marks the absent address of an order that has
// not reached the address stage.
type AddressDTO struct {
	Line1       string
	City        string
	Region      string
	PostalCode  string
	CountryCode string
}

// LineItemDTO represents one line item row of an order, including the
// per-line totals written by reconciliation.
type LineItemDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `gorm:"type:uuid;index"`
	VariantID          uuid.UUID `gorm:"type:uuid"`
	ShippingCategoryID uuid.UUID `gorm:"type:uuid"`
	Quantity           int
	UnitPrice          decimal.Decimal `gorm:"type:numeric"`
	AdjustmentTotal    decimal.Decimal `gorm:"type:numeric"`
	AdditionalTaxTotal decimal.Decimal `gorm:"type:numeric"`
	IncludedTaxTotal   decimal.Decimal `gorm:"type:numeric"`
}

// TableName specifies the database table name for line item entities.
func (LineItemDTO) TableName() string {
	return "line_items"
}

// ShipmentDTO represents one shipment row of an order.
type ShipmentDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	MethodID     uuid.UUID `gorm:"type:uuid"`
	Cost         decimal.Decimal `gorm:"type:numeric"`
	State        string
	TrackingCode string
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// PaymentDTO represents one payment row of an order.
type PaymentDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:numeric"`
	State          string
	RefundedAmount decimal.Decimal `gorm:"type:numeric"`
	ResponseRef    string
}

// TableName specifies the database table name for payment entities.
func (PaymentDTO) TableName() string {
	return "payments"
}

// AdjustmentDTO represents one adjustment row of an order. The adjustable ID
// names either the order itself or one of its line items.
type AdjustmentDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	AdjustableID uuid.UUID `gorm:"type:uuid"`
	Source       string
	Amount       decimal.Decimal `gorm:"type:numeric"`
	Label        string
	IncludedTax  bool
	Finalized    bool
}

// TableName specifies the database table name for adjustment entities.
func (AdjustmentDTO) TableName() string {
	return "adjustments"
}

// snapshot groups the order row with its child rows for atomic writes.
type snapshot struct {
	order       OrderDTO
	lineItems   []LineItemDTO
	shipments   []ShipmentDTO
	payments    []PaymentDTO
	adjustments []AdjustmentDTO
}

// fromDomain converts an order domain aggregate to its database snapshot.
// The stored version is the aggregate's loaded version plus one; the write
// path checks the loaded version before persisting.
func fromDomain(aggregate *order.Order) snapshot {
	orderID := aggregate.ID().Bytes()

	var address AddressDTO
	if addr := aggregate.ShippingAddress(); addr != nil {
		address = AddressDTO{
			Line1:       addr.Line1(),
			City:        addr.City(),
			Region:      addr.Region(),
			PostalCode:  addr.PostalCode(),
			CountryCode: addr.CountryCode(),
		}
	}

	s := snapshot{
		order: OrderDTO{
			ID:                 orderID,
			Currency:           aggregate.Currency().String(),
			Stage:              int(aggregate.Stage()),
			PreviousStage:      int(aggregate.PreviousStage()),
			ShippingAddress:    address,
			PaymentSourceRef:   aggregate.PaymentSourceRef(),
			ItemCount:          aggregate.ItemCount(),
			ItemTotal:          aggregate.ItemTotal().Amount(),
			ShipmentTotal:      aggregate.ShipmentTotal().Amount(),
			AdjustmentTotal:    aggregate.AdjustmentTotal().Amount(),
			AdditionalTaxTotal: aggregate.AdditionalTaxTotal().Amount(),
			IncludedTaxTotal:   aggregate.IncludedTaxTotal().Amount(),
			PaymentTotal:       aggregate.PaymentTotal().Amount(),
			PromoTotal:         aggregate.PromoTotal().Amount(),
			Total:              aggregate.Total().Amount(),
			PaymentStatus:      aggregate.PaymentStatus().String(),
			ShipmentStatus:     aggregate.ShipmentStatus().String(),
			Completed:          aggregate.IsCompleted(),
			Canceled:           aggregate.IsCanceled(),
			Backordered:        aggregate.IsBackordered(),
			Version:            aggregate.Version() + 1,
		},
	}

	for _, li := range aggregate.LineItems() {
		s.lineItems = append(s.lineItems, LineItemDTO{
			ID:                 li.ID().Bytes(),
			OrderID:            orderID,
			VariantID:          li.VariantID().Bytes(),
			ShippingCategoryID: li.ShippingCategoryID().Bytes(),
			Quantity:           li.Quantity(),
			UnitPrice:          li.UnitPrice().Amount(),
			AdjustmentTotal:    li.AdjustmentTotal().Amount(),
			AdditionalTaxTotal: li.AdditionalTaxTotal().Amount(),
			IncludedTaxTotal:   li.IncludedTaxTotal().Amount(),
		})
	}
	for _, sh := range aggregate.Shipments() {
		s.shipments = append(s.shipments, ShipmentDTO{
			ID:           sh.ID().Bytes(),
			OrderID:      orderID,
			MethodID:     sh.MethodID().Bytes(),
			Cost:         sh.Cost().Amount(),
			State:        sh.State().String(),
			TrackingCode: sh.TrackingCode(),
		})
	}
	for _, p := range aggregate.Payments() {
		s.payments = append(s.payments, PaymentDTO{
			ID:             p.ID().Bytes(),
			OrderID:        orderID,
			Amount:         p.Amount().Amount(),
			State:          p.State().String(),
			RefundedAmount: p.RefundedAmount().Amount(),
			ResponseRef:    p.ResponseRef(),
		})
	}
	for _, a := range aggregate.Adjustments() {
		s.adjustments = append(s.adjustments, AdjustmentDTO{
			ID:           a.ID().Bytes(),
			OrderID:      orderID,
			AdjustableID: a.AdjustableID().Bytes(),
			Source:       string(a.Source()),
			Amount:       a.Amount().Amount(),
			Label:        a.Label(),
			IncludedTax:  a.IsIncludedTax(),
			Finalized:    a.IsFinalized(),
		})
	}

	return s
}

// toDomain converts a database snapshot to an order domain aggregate,
// reconstructing the complete aggregate through RestoreOrder.
func toDomain(s snapshot) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(s.order.ID[:])
	if err != nil {
		return nil, err
	}
	currency, err := kernel.NewCurrency(s.order.Currency)
	if err != nil {
		return nil, err
	}

	money := func(amount decimal.Decimal) kernel.Money {
		m, _ := kernel.NewMoney(amount, currency)
		return m
	}

	var address *kernel.Address
	if s.order.ShippingAddress.Line1 != "" {
		addr, addrErr := kernel.NewAddress(
			s.order.ShippingAddress.Line1,
			s.order.ShippingAddress.City,
			s.order.ShippingAddress.Region,
			s.order.ShippingAddress.PostalCode,
			s.order.ShippingAddress.CountryCode,
		)
		if addrErr != nil {
			return nil, addrErr
		}
		address = &addr
	}

	lineItems := make([]*order.LineItem, 0, len(s.lineItems))
	for _, dto := range s.lineItems {
		liID, liErr := kernel.UUIDFromBytes(dto.ID[:])
		if liErr != nil {
			return nil, liErr
		}
		variantID, liErr := kernel.UUIDFromBytes(dto.VariantID[:])
		if liErr != nil {
			return nil, liErr
		}
		categoryID, liErr := kernel.UUIDFromBytes(dto.ShippingCategoryID[:])
		if liErr != nil {
			return nil, liErr
		}
		li, liErr := order.RestoreLineItem(liID, variantID, categoryID, dto.Quantity,
			money(dto.UnitPrice), money(dto.AdjustmentTotal),
			money(dto.AdditionalTaxTotal), money(dto.IncludedTaxTotal))
		if liErr != nil {
			return nil, liErr
		}
		lineItems = append(lineItems, li)
	}

	shipments := make([]*order.Shipment, 0, len(s.shipments))
	for _, dto := range s.shipments {
		shID, shErr := kernel.UUIDFromBytes(dto.ID[:])
		if shErr != nil {
			return nil, shErr
		}
		methodID, shErr := kernel.UUIDFromBytes(dto.MethodID[:])
		if shErr != nil {
			return nil, shErr
		}
		sh, shErr := order.RestoreShipment(shID, methodID, money(dto.Cost),
			order.ShipmentState(dto.State), dto.TrackingCode)
		if shErr != nil {
			return nil, shErr
		}
		shipments = append(shipments, sh)
	}

	payments := make([]*order.Payment, 0, len(s.payments))
	for _, dto := range s.payments {
		pID, pErr := kernel.UUIDFromBytes(dto.ID[:])
		if pErr != nil {
			return nil, pErr
		}
		p, pErr := order.RestorePayment(pID, money(dto.Amount),
			order.PaymentState(dto.State), money(dto.RefundedAmount), dto.ResponseRef)
		if pErr != nil {
			return nil, pErr
		}
		payments = append(payments, p)
	}

	adjustments := make([]*order.Adjustment, 0, len(s.adjustments))
	for _, dto := range s.adjustments {
		aID, aErr := kernel.UUIDFromBytes(dto.ID[:])
		if aErr != nil {
			return nil, aErr
		}
		adjustableID, aErr := kernel.UUIDFromBytes(dto.AdjustableID[:])
		if aErr != nil {
			return nil, aErr
		}
		a, aErr := order.RestoreAdjustment(aID, adjustableID,
			order.AdjustmentSource(dto.Source), money(dto.Amount), dto.Label,
			dto.IncludedTax, dto.Finalized)
		if aErr != nil {
			return nil, aErr
		}
		adjustments = append(adjustments, a)
	}

	totals := order.Totals{
		ItemCount:          s.order.ItemCount,
		ItemTotal:          money(s.order.ItemTotal),
		ShipmentTotal:      money(s.order.ShipmentTotal),
		AdjustmentTotal:    money(s.order.AdjustmentTotal),
		AdditionalTaxTotal: money(s.order.AdditionalTaxTotal),
		IncludedTaxTotal:   money(s.order.IncludedTaxTotal),
		PaymentTotal:       money(s.order.PaymentTotal),
		PromoTotal:         money(s.order.PromoTotal),
		Total:              money(s.order.Total),
	}

	return order.RestoreOrder(
		id, currency,
		order.Stage(s.order.Stage), order.Stage(s.order.PreviousStage),
		lineItems, shipments, payments, adjustments,
		address, s.order.PaymentSourceRef,
		totals,
		order.PaymentStatus(s.order.PaymentStatus),
		order.ShipmentStatus(s.order.ShipmentStatus),
		s.order.Completed, s.order.Canceled, s.order.Backordered,
		s.order.Version,
	)
}
