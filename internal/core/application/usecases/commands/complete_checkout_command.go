package commands

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/guard"
)

var ErrCompleteCheckoutCommandIsNotConstructed = errors.New(
	"CompleteCheckoutCommand must be created via NewCompleteCheckoutCommand constructor",
)

// CompleteCheckoutCommand represents a request to finalize a checkout from
// the confirmation stage. From any other stage the handler fails with
// ErrIncompleteCheckout and nothing is persisted.
type CompleteCheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteCheckoutCommand creates a completion command.
func NewCompleteCheckoutCommand(orderID kernel.UUID) (CompleteCheckoutCommand, error) {
	cmd := CompleteCheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return CompleteCheckoutCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteCheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCompleteCheckoutCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c CompleteCheckoutCommand) OrderID() kernel.UUID { return c.orderID }
