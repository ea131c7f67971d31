package commands

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/guard"
)

var ErrAdvanceCheckoutCommandIsNotConstructed = errors.New(
	"AdvanceCheckoutCommand must be created via NewAdvanceCheckoutCommand constructor",
)

// AdvanceCheckoutCommand represents a request to move an order forward
// through checkout: one stage, or as far as its guards allow.
//
// Example:
//
//	cmd, _ := NewAdvanceCheckoutCommand(orderID, false)
//	handler := NewAdvanceCheckoutCommandHandler(uowFactory, machine)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    var stageErr *order.StageValidationError
//	    if errors.As(err, &stageErr) {
//	        // show the unmet precondition, order kept its stage
//	    }
//	}
type AdvanceCheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	toEnd   bool

	guard guard.ConstructorGuard
}

// NewAdvanceCheckoutCommand creates an advance command. toEnd requests
// repeated advancement until completion or the first failing guard.
func NewAdvanceCheckoutCommand(orderID kernel.UUID, toEnd bool) (AdvanceCheckoutCommand, error) {
	cmd := AdvanceCheckoutCommand{
		toEnd: toEnd,
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return AdvanceCheckoutCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceCheckoutCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceCheckoutCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c AdvanceCheckoutCommand) OrderID() kernel.UUID { return c.orderID }

// ToEnd reports whether advancement should run until completion.
func (c AdvanceCheckoutCommand) ToEnd() bool { return c.toEnd }
