package commands

import (
	"context"
	"log/slog"

	"checkout/internal/core/domain/services"
)

// CancelStaleCartsCommandHandler cancels incomplete orders abandoned
// before a cutoff. Each order is canceled and persisted independently: one
// failing order is logged and skipped, the sweep continues.
type CancelStaleCartsCommandHandler struct {
	uowFactory CheckoutUoWFactory
	machine    *services.CheckoutMachine
	logger     *slog.Logger
}

// NewCancelStaleCartsCommandHandler creates a handler for the stale cart
// sweep.
func NewCancelStaleCartsCommandHandler(uowFactory CheckoutUoWFactory, machine *services.CheckoutMachine, logger *slog.Logger) CancelStaleCartsCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return CancelStaleCartsCommandHandler{
		uowFactory: uowFactory,
		machine:    machine,
		logger:     logger,
	}
}

// Handle loads the incomplete orders older than the cutoff and cancels
// them one by one.
func (h *CancelStaleCartsCommandHandler) Handle(ctx context.Context, cmd CancelStaleCartsCommand) error {
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

	stale, err := uow.OrderRepository().GetAllIncomplete(ctx, cmd.UpdatedBefore())
	if err != nil {
		return err
	}
	promotions, err := uow.PromotionRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range stale {
		if err = h.machine.Cancel(ctx, aggregate, promotions); err != nil {
			h.logger.WarnContext(ctx, "skipping stale order that refused cancellation",
				slog.String("order_id", aggregate.ID().String()),
				slog.Any("error", err))
			continue
		}
		if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
