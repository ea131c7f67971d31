package order

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrShipmentIsNotConstructed is returned when a Shipment was not created
// through the NewShipment factory function.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

// ShipmentState is the fulfillment state of a single shipment.
type ShipmentState string

const (
	// ShipmentPending means the shipment awaits processing.
	ShipmentPending ShipmentState = "pending"

	// ShipmentReady means the shipment is packed and awaiting dispatch.
	ShipmentReady ShipmentState = "ready"

	// ShipmentShipped means the shipment left the warehouse.
	ShipmentShipped ShipmentState = "shipped"

	// ShipmentBackorder means at least one unit is not on hand.
	ShipmentBackorder ShipmentState = "backorder"

	// ShipmentCanceled means the shipment will not be fulfilled.
	ShipmentCanceled ShipmentState = "canceled"
)

// Validate checks the ShipmentState holds one of the defined values.
func (s ShipmentState) Validate() error {
	switch s {
	case ShipmentPending, ShipmentReady, ShipmentShipped, ShipmentBackorder, ShipmentCanceled:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("shipment state",
		fmt.Errorf("%q is not a valid shipment state", string(s)))
}

// String returns the state name.
func (s ShipmentState) String() string {
	return string(s)
}

// Shipment is one physical fulfillment unit of an order, bound to a single
// shipping method. Created by fulfillment planning and mutated by shipping
// status events. Owned exclusively by its Order.
type Shipment struct {
	id           kernel.UUID
	methodID     kernel.UUID
	cost         kernel.Money
	state        ShipmentState
	trackingCode string

	isConstructed bool
}

// NewShipment creates a pending shipment bound to a shipping method.
func NewShipment(id, methodID kernel.UUID, cost kernel.Money) (*Shipment, error) {
	s := &Shipment{
		state:         ShipmentPending,
		isConstructed: true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setMethodID(methodID),
		s.setCost(cost),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate ensures the shipment was created through NewShipment.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the shipment identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// MethodID returns the bound shipping method reference.
func (s *Shipment) MethodID() kernel.UUID { return s.methodID }

// Cost returns the shipment cost.
func (s *Shipment) Cost() kernel.Money { return s.cost }

// State returns the current fulfillment state.
func (s *Shipment) State() ShipmentState { return s.state }

// TrackingCode returns the carrier tracking reference, possibly empty.
func (s *Shipment) TrackingCode() string { return s.trackingCode }

// SetState applies a shipping-status event to the shipment.
func (s *Shipment) SetState(state ShipmentState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	s.state = state
	return nil
}

// SetTrackingCode records the carrier tracking reference.
func (s *Shipment) SetTrackingCode(code string) {
	s.trackingCode = code
}

// SelectMethod rebinds the shipment to another shipping method with its
// recomputed cost. Used when the shopper changes delivery options.
func (s *Shipment) SelectMethod(methodID kernel.UUID, cost kernel.Money) error {
	if err := s.setMethodID(methodID); err != nil {
		return err
	}
	return s.setCost(cost)
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setMethodID(methodID kernel.UUID) error {
	if err := methodID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipping method", err)
	}
	s.methodID = methodID
	return nil
}

func (s *Shipment) setCost(cost kernel.Money) error {
	if err := cost.Validate(); err != nil {
		return err
	}
	if cost.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("shipment cost",
			fmt.Errorf("%s is negative", cost))
	}
	s.cost = cost
	return nil
}

// RestoreShipment reconstructs a shipment from persistence.
func RestoreShipment(id, methodID kernel.UUID, cost kernel.Money, state ShipmentState, trackingCode string) (*Shipment, error) {
	s, err := NewShipment(id, methodID, cost)
	if err != nil {
		return nil, err
	}
	if err = s.SetState(state); err != nil {
		return nil, err
	}
	s.trackingCode = trackingCode
	return s, nil
}
