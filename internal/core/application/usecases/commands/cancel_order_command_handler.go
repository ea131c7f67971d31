package commands

import (
	"context"

	"checkout/internal/core/domain/services"
)

// CancelOrderCommandHandler soft-deletes orders through the checkout
// machine, deriving the void or credit_owed payment status.
type CancelOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle loads the order, cancels it, and persists the result under the
// order's optimistic version check.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if err = h.machine.Cancel(ctx, aggregate, promotions); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
