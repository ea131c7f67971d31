package commands

import (
	"context"

	"checkout/internal/core/domain/services"
)

// ResumeOrderCommandHandler brings canceled orders back through the
// checkout machine.
type ResumeOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
}

// NewResumeOrderCommandHandler creates a handler for order resumption.
func NewResumeOrderCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine) ResumeOrderCommandHandler {
	return ResumeOrderCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
	}
}

// Handle loads the order, resumes it, and persists the result under the
// order's optimistic version check.
func (h *ResumeOrderCommandHandler) Handle(ctx context.Context, cmd ResumeOrderCommand) error {
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

	if err = h.machine.Resume(ctx, aggregate, promotions); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
