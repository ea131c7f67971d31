package commands

import (
	"context"
	"errors"

	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/services"
)

// AdvanceCheckoutCommandHandler drives an order forward through the
// checkout machine and persists the result.
//
// A stage guard failure is not a transaction failure: the stages already
// reached stay committed, matching the rule that an aborted advance keeps
// its partial progress.
type AdvanceCheckoutCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
}

// NewAdvanceCheckoutCommandHandler creates a handler for checkout
// advancement.
func NewAdvanceCheckoutCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine) AdvanceCheckoutCommandHandler {
	return AdvanceCheckoutCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle loads the order with the shipping methods and active promotions,
// advances it, and persists whatever stage was reached under the order's
// optimistic version check.
func (h *AdvanceCheckoutCommandHandler) Handle(ctx context.Context, cmd AdvanceCheckoutCommand) error {
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
	methods, err := uow.ShippingMethodRepository().GetAll(ctx)
	if err != nil {
		return err
	}
	promotions, err := uow.PromotionRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}

	var advanceErr error
	if cmd.ToEnd() {
		advanceErr = h.machine.AdvanceToEnd(ctx, aggregate, methods, promotions)
	} else {
		advanceErr = h.machine.AdvanceOne(ctx, aggregate, methods, promotions)
	}
	if advanceErr != nil && !errors.Is(advanceErr, order.ErrStageValidation) {
		return advanceErr
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return advanceErr
}
