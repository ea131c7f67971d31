package commands

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/guard"
)

var ErrAddPaymentCommandIsNotConstructed = errors.New(
	"AddPaymentCommand must be created via NewAddPaymentCommand constructor",
)

// AddPaymentCommand represents a request to record a payment against an
// order. Payments are accepted even after completion; capture and
// settlement continue past checkout.
type AddPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	amount  kernel.Money

	guard guard.ConstructorGuard
}

// NewAddPaymentCommand creates a payment command.
func NewAddPaymentCommand(orderID kernel.UUID, amount kernel.Money) (AddPaymentCommand, error) {
	cmd := AddPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		amount.Validate(),
	); err != nil {
		return AddPaymentCommand{}, err
	}

	cmd.orderID = orderID
	cmd.amount = amount

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddPaymentCommand) Validate() error {
	return c.guard.Validate(ErrAddPaymentCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c AddPaymentCommand) OrderID() kernel.UUID { return c.orderID }

// Amount returns the payment amount.
func (c AddPaymentCommand) Amount() kernel.Money { return c.amount }
