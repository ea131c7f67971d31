package commands

import (
	"context"

	"checkout/internal/core/domain/services"
)

// CompleteCheckoutCommandHandler finalizes checkouts: adjustments are
// locked, the completion flag is set, and totals are reconciled one last
// time before the atomic persist.
type CompleteCheckoutCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
}

// NewCompleteCheckoutCommandHandler creates a handler for checkout
// completion.
func NewCompleteCheckoutCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine) CompleteCheckoutCommandHandler {
	return CompleteCheckoutCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle loads the order, completes it through the checkout machine, and
// persists the result under the order's optimistic version check.
func (h *CompleteCheckoutCommandHandler) Handle(ctx context.Context, cmd CompleteCheckoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	promotions, err := uow.PromotionRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}

	if err = h.machine.Complete(ctx, aggregate, promotions); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
