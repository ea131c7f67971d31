package commands

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/services"
)

// AddPaymentCommandHandler records a payment and re-reconciles, so the
// payment status reflects the new balance immediately.
type AddPaymentCommandHandler struct {
	uowFactory CheckoutUoWFactory
	reconciler *services.TotalsReconciler
}

// NewAddPaymentCommandHandler creates a handler for payment recording.
func NewAddPaymentCommandHandler(uowFactory CheckoutUoWFactory, reconciler *services.TotalsReconciler) AddPaymentCommandHandler {
	return AddPaymentCommandHandler{
		uowFactory: uowFactory,
		reconciler: reconciler,
	}
}

// Handle loads the order, records the payment in the checkout state, and
// persists the re-reconciled order under its optimistic version check.
func (h *AddPaymentCommandHandler) Handle(ctx context.Context, cmd AddPaymentCommand) error {
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

	payment, err := order.NewPayment(kernel.NewUUID(), cmd.Amount())
	if err != nil {
		return err
	}
	if err = aggregate.AddPayment(payment); err != nil {
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
