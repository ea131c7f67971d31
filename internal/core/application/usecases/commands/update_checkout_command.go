package commands

import (
	"errors"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

var ErrUpdateCheckoutCommandIsNotConstructed = errors.New(
	"UpdateCheckoutCommand must be created via NewUpdateCheckoutCommand constructor",
)

// UpdateCheckoutCommand represents a request to patch checkout attributes
// (shipping address, selected method, payment source) without advancing
// the order's stage. Attributes outside the checkout whitelist are
// rejected with a ForbiddenAttributeError before anything is applied.
type UpdateCheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	patch   map[string]any

	guard guard.ConstructorGuard
}

// NewUpdateCheckoutCommand creates an update command. The patch must carry
// at least one attribute; whitelisting happens in the checkout machine.
func NewUpdateCheckoutCommand(orderID kernel.UUID, patch map[string]any) (UpdateCheckoutCommand, error) {
	cmd := UpdateCheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return UpdateCheckoutCommand{}, err
	}
	if len(patch) == 0 {
		return UpdateCheckoutCommand{}, errs.NewValueIsRequiredError("patch")
	}

	cmd.orderID = orderID
	cmd.patch = patch

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCheckoutCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCheckoutCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c UpdateCheckoutCommand) OrderID() kernel.UUID { return c.orderID }

// Patch returns the attribute patch.
func (c UpdateCheckoutCommand) Patch() map[string]any { return c.patch }
