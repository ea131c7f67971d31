package commands

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/services"
)

// AddLineItemCommandHandler puts a variant into a cart and re-reconciles
// the order's totals, so the caller always observes a self-consistent
// order snapshot.
type AddLineItemCommandHandler struct {
	uowFactory CheckoutUoWFactory
	reconciler *services.TotalsReconciler
}

// NewAddLineItemCommandHandler creates a handler for line item addition.
func NewAddLineItemCommandHandler(uowFactory CheckoutUoWFactory, reconciler *services.TotalsReconciler) AddLineItemCommandHandler {
	return AddLineItemCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
	}
}

// Handle loads the order, adds the line item, reconciles totals against
// the active promotions, and persists the result under the order's
// optimistic version check.
func (h *AddLineItemCommandHandler) Handle(ctx context.Context, cmd AddLineItemCommand) error {
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

	lineItem, err := order.NewLineItem(kernel.NewUUID(), cmd.VariantID(),
		cmd.ShippingCategoryID(), cmd.Quantity(), cmd.UnitPrice())
	if err != nil {
		return err
	}
	if err = aggregate.AddLineItem(lineItem); err != nil {
		return err
	}

	promotions, err := uow.PromotionRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}
	if err = h.reconciler.Reconcile(ctx, aggregate, promotions); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
