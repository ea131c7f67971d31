package commands

import (
	"errors"
	"time"

	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

var ErrCancelStaleCartsCommandIsNotConstructed = errors.New(
	"CancelStaleCartsCommand must be created via NewCancelStaleCartsCommand constructor",
)

// CancelStaleCartsCommand represents a request to cancel every incomplete
// order untouched since the given cutoff. Issued periodically by the
// cleanup job.
type CancelStaleCartsCommand struct { //nolint:recvcheck //using for validation
	updatedBefore time.Time

	guard guard.ConstructorGuard
}

// NewCancelStaleCartsCommand creates a stale cart cleanup command.
func NewCancelStaleCartsCommand(updatedBefore time.Time) (CancelStaleCartsCommand, error) {
	if updatedBefore.IsZero() {
		return CancelStaleCartsCommand{}, errs.NewValueIsRequiredError("updatedBefore")
	}

	return CancelStaleCartsCommand{
		updatedBefore: updatedBefore,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelStaleCartsCommand) Validate() error {
	return c.guard.Validate(ErrCancelStaleCartsCommandIsNotConstructed)
}

// UpdatedBefore returns the staleness cutoff.
func (c CancelStaleCartsCommand) UpdatedBefore() time.Time { return c.updatedBefore }
