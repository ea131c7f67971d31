package commands

import (
	"context"

	"checkout/internal/core/domain/services"
)

// UpdateCheckoutCommandHandler applies attribute patches through the
// checkout machine and persists the re-reconciled order.
type UpdateCheckoutCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
}

// NewUpdateCheckoutCommandHandler creates a handler for checkout updates.
func NewUpdateCheckoutCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine) UpdateCheckoutCommandHandler {
	return UpdateCheckoutCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle loads the order, applies the patch, and persists the result under
// the order's optimistic version check. A rejected patch leaves no trace.
func (h *UpdateCheckoutCommandHandler) Handle(ctx context.Context, cmd UpdateCheckoutCommand) error {
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

	if err = h.machine.Update(ctx, aggregate, cmd.Patch(), methods, promotions); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
