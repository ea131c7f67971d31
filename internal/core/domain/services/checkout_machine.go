package services

import (
	"context"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"
	"checkout/internal/core/domain/model/shipping"
	"checkout/internal/pkg/errs"
)

// Patch attribute names the checkout machine accepts in Update. Anything
// else is rejected with a ForbiddenAttributeError.
const (
	PatchShippingAddress = "shipping_address"
	PatchShippingMethod  = "shipping_method"
	PatchPaymentSource   = "payment_source"
)

// CheckoutMachine is the domain service driving an order through the
// checkout stages. Every operation that mutates order content re-invokes
// the TotalsReconciler before returning, so callers always observe a
// self-consistent order.
//
// Stage preconditions:
//   - cart: at least one line item
//   - address: a shipping address valid for the store configuration
//   - delivery: at least one shipment, each bound to an available method
//   - payment: a payment source or at least one valid payment
//
// An unmet precondition fails with a StageValidationError and the order
// stays at its current stage.
type CheckoutMachine struct {
	reconciler  *TotalsReconciler
	eligibility ShippingEligibility
	cfg         kernel.StoreConfig
}

// NewCheckoutMachine creates a CheckoutMachine.
func NewCheckoutMachine(reconciler *TotalsReconciler, eligibility ShippingEligibility, cfg kernel.StoreConfig) (*CheckoutMachine, error) {
	if reconciler == nil {
		return nil, errs.NewValueIsRequiredError("reconciler")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CheckoutMachine{
		reconciler:  reconciler,
		eligibility: eligibility,
		cfg:         cfg,
	}, nil
}

// AdvanceOne moves the order exactly one stage forward if the current
// stage's preconditions hold. Advancing out of confirmation completes the
// checkout. A resumed order returns to its pre-cancellation stage without
// re-running that stage's guard; it was satisfied once already.
func (m *CheckoutMachine) AdvanceOne(ctx context.Context, o *order.Order, methods []*shipping.ShippingMethod, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}

	next, err := o.NextStage()
	if err != nil {
		return order.NewStageValidationError(o.Stage(), "a further stage to advance to")
	}

	if next == order.StageComplete {
		return m.Complete(ctx, o, promotions)
	}

	if o.Stage() != order.StageResumed {
		if err = m.guardStage(o, methods); err != nil {
			return err
		}
	}

	if err = o.MoveTo(next); err != nil {
		return err
	}
	return m.reconciler.Reconcile(ctx, o, promotions)
}

// AdvanceToEnd repeatedly applies AdvanceOne until the order completes or
// a stage guard fails. A failure or a context cancellation halts the order
// at the last successfully reached stage; earlier progress is kept.
func (m *CheckoutMachine) AdvanceToEnd(ctx context.Context, o *order.Order, methods []*shipping.ShippingMethod, promotions []*promotion.Promotion) error {
	for !o.IsCompleted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.AdvanceOne(ctx, o, methods, promotions); err != nil {
			return err
		}
	}
	return nil
}

// Complete finalizes the checkout from the confirmation stage: adjustments
// are finalized, the completion flag is set, and totals are reconciled one
// last time. From any other stage it fails with ErrIncompleteCheckout and
// the order is unchanged.
func (m *CheckoutMachine) Complete(ctx context.Context, o *order.Order, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Stage() != order.StageConfirmation {
		return order.ErrIncompleteCheckout
	}

	if err := m.reconciler.Reconcile(ctx, o, promotions); err != nil {
		return err
	}
	if err := o.Complete(); err != nil {
		return err
	}
	return m.reconciler.Reconcile(ctx, o, promotions)
}

// Cancel soft-deletes the order and re-reconciles, deriving the void or
// credit_owed payment status.
func (m *CheckoutMachine) Cancel(ctx context.Context, o *order.Order, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.Cancel(); err != nil {
		return err
	}
	return m.reconciler.Reconcile(ctx, o, promotions)
}

// Resume brings a canceled order back and re-reconciles.
func (m *CheckoutMachine) Resume(ctx context.Context, o *order.Order, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.Resume(); err != nil {
		return err
	}
	return m.reconciler.Reconcile(ctx, o, promotions)
}

// Update applies an attribute patch to the order without advancing its
// stage, then re-reconciles totals. Unknown attributes are rejected with a
// ForbiddenAttributeError before anything is applied.
func (m *CheckoutMachine) Update(ctx context.Context, o *order.Order, patch map[string]any, methods []*shipping.ShippingMethod, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}

	for attribute := range patch {
		switch attribute {
		case PatchShippingAddress, PatchShippingMethod, PatchPaymentSource:
		default:
			return NewForbiddenAttributeError(attribute)
		}
	}

	if value, ok := patch[PatchShippingAddress]; ok {
		if err := m.applyShippingAddress(o, value); err != nil {
			return err
		}
	}
	if value, ok := patch[PatchShippingMethod]; ok {
		if err := m.applyShippingMethod(o, value, methods); err != nil {
			return err
		}
	}
	if value, ok := patch[PatchPaymentSource]; ok {
		ref, ok := value.(string)
		if !ok {
			return errs.NewValueIsInvalidError(PatchPaymentSource)
		}
		if err := o.SetPaymentSourceRef(ref); err != nil {
			return err
		}
	}

	return m.reconciler.Reconcile(ctx, o, promotions)
}

func (m *CheckoutMachine) applyShippingAddress(o *order.Order, value any) error {
	addr, ok := value.(kernel.Address)
	if !ok {
		return errs.NewValueIsInvalidError(PatchShippingAddress)
	}
	if err := addr.ValidateWith(m.cfg); err != nil {
		return err
	}
	return o.SetShippingAddress(addr)
}

// applyShippingMethod rebinds every shipment of the order to the selected
// method with a freshly computed cost. The method must be available for
// the order.
func (m *CheckoutMachine) applyShippingMethod(o *order.Order, value any, methods []*shipping.ShippingMethod) error {
	methodID, ok := value.(kernel.UUID)
	if !ok {
		return errs.NewValueIsInvalidError(PatchShippingMethod)
	}

	var selected *shipping.ShippingMethod
	for _, candidate := range methods {
		if candidate.ID().IsEqual(methodID) {
			selected = candidate
			break
		}
	}
	if selected == nil {
		return errs.NewObjectNotFoundError("shippingMethod", methodID.String())
	}
	if !m.eligibility.IsAvailable(selected, o) {
		return order.NewStageValidationError(o.Stage(), "an available shipping method")
	}

	for _, s := range o.Shipments() {
		cost, err := selected.Calculator().Compute(o, s)
		if err != nil {
			return err
		}
		if err = s.SelectMethod(selected.ID(), cost); err != nil {
			return err
		}
	}
	return nil
}

// guardStage checks the current stage's precondition for advancing.
func (m *CheckoutMachine) guardStage(o *order.Order, methods []*shipping.ShippingMethod) error {
	switch o.Stage() {
	case order.StageCart:
		if len(o.LineItems()) == 0 {
			return order.NewStageValidationError(o.Stage(), "at least one line item")
		}
	case order.StageAddress:
		addr := o.ShippingAddress()
		if addr == nil {
			return order.NewStageValidationError(o.Stage(), "a shipping address")
		}
		if err := addr.ValidateWith(m.cfg); err != nil {
			return order.NewStageValidationError(o.Stage(), "a shipping address valid for the store")
		}
	case order.StageDelivery:
		if len(o.Shipments()) == 0 {
			return order.NewStageValidationError(o.Stage(), "at least one shipment")
		}
		for _, s := range o.Shipments() {
			if !m.shipmentMethodAvailable(o, s, methods) {
				return order.NewStageValidationError(o.Stage(), "an available shipping method for every shipment")
			}
		}
	case order.StagePayment:
		if o.PaymentSourceRef() == "" && !m.hasValidPayment(o) {
			return order.NewStageValidationError(o.Stage(), "payment information covering the balance")
		}
	}
	return nil
}

func (m *CheckoutMachine) shipmentMethodAvailable(o *order.Order, s *order.Shipment, methods []*shipping.ShippingMethod) bool {
	for _, candidate := range methods {
		if candidate.ID().IsEqual(s.MethodID()) {
			return m.eligibility.IsAvailable(candidate, o)
		}
	}
	return false
}

func (m *CheckoutMachine) hasValidPayment(o *order.Order) bool {
	for _, p := range o.Payments() {
		if p.IsValid() {
			return true
		}
	}
	return false
}
