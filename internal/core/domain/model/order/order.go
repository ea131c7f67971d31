package order

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// Order is the aggregate root representing one customer purchase. It owns
// its line items, shipments, payments, and adjustments, and carries the
// reconciled totals alongside the derived payment and shipment statuses.
//
// Invariants, enforced by ApplyReconciliation:
//   - total == itemTotal + shipmentTotal + adjustmentTotal
//   - adjustmentTotal == additionalTaxTotal + includedTaxTotal + promoTotal
//
// Content becomes immutable once the completion flag is set; statuses and
// payments remain mutable. Cancellation is a soft delete: the aggregate
// keeps its content and can be resumed.
type Order struct {
	id       kernel.UUID
	currency kernel.Currency

	stage         Stage
	previousStage Stage

	lineItems   []*LineItem
	shipments   []*Shipment
	payments    []*Payment
	adjustments []*Adjustment

	shippingAddress  *kernel.Address
	paymentSourceRef string

	itemCount          int
	itemTotal          kernel.Money
	shipmentTotal      kernel.Money
	adjustmentTotal    kernel.Money
	additionalTaxTotal kernel.Money
	includedTaxTotal   kernel.Money
	paymentTotal       kernel.Money
	promoTotal         kernel.Money
	total              kernel.Money

	paymentStatus  PaymentStatus
	shipmentStatus ShipmentStatus

	completed   bool
	canceled    bool
	backordered bool

	version int64

	isConstructed bool
}

// Totals is the full set of reconciled monetary fields written in one
// atomic step by ApplyReconciliation.
type Totals struct {
	ItemCount          int
	ItemTotal          kernel.Money
	ShipmentTotal      kernel.Money
	AdjustmentTotal    kernel.Money
	AdditionalTaxTotal kernel.Money
	IncludedTaxTotal   kernel.Money
	PaymentTotal       kernel.Money
	PromoTotal         kernel.Money
	Total              kernel.Money
}

// NewOrder creates an empty order at the cart stage, denominated in the
// given currency.
func NewOrder(id kernel.UUID, currency kernel.Currency) (*Order, error) {
	o := &Order{
		stage:         StageCart,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCurrency(currency),
	); err != nil {
		return nil, err
	}

	zero := kernel.ZeroMoney(currency)
	o.itemTotal = zero
	o.shipmentTotal = zero
	o.adjustmentTotal = zero
	o.additionalTaxTotal = zero
	o.includedTaxTotal = zero
	o.paymentTotal = zero
	o.promoTotal = zero
	o.total = zero
	o.paymentStatus = PaymentStatusBalanceDue

	return o, nil
}

// Validate ensures the Order instance was properly constructed through
// NewOrder. Call it when reconstructing orders from persistence.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Currency returns the currency the order is denominated in.
func (o *Order) Currency() kernel.Currency { return o.currency }

// Stage returns the current checkout stage.
func (o *Order) Stage() Stage { return o.stage }

// PreviousStage returns the stage held before cancellation, StageUnknown
// if the order was never canceled.
func (o *Order) PreviousStage() Stage { return o.previousStage }

// LineItems returns the order's line items in insertion order.
func (o *Order) LineItems() []*LineItem {
	items := make([]*LineItem, len(o.lineItems))
	copy(items, o.lineItems)
	return items
}

// Shipments returns the order's shipments.
func (o *Order) Shipments() []*Shipment {
	shipments := make([]*Shipment, len(o.shipments))
	copy(shipments, o.shipments)
	return shipments
}

// Payments returns the order's payments.
func (o *Order) Payments() []*Payment {
	payments := make([]*Payment, len(o.payments))
	copy(payments, o.payments)
	return payments
}

// Adjustments returns all adjustments, order-level and per-line.
func (o *Order) Adjustments() []*Adjustment {
	adjustments := make([]*Adjustment, len(o.adjustments))
	copy(adjustments, o.adjustments)
	return adjustments
}

// ShippingAddress returns the shipping destination, nil before the address
// stage is filled in.
func (o *Order) ShippingAddress() *kernel.Address { return o.shippingAddress }

// PaymentSourceRef returns the selected payment source reference,
// empty until the payment stage is filled in.
func (o *Order) PaymentSourceRef() string { return o.paymentSourceRef }

// ItemCount returns the summed quantity across line items.
func (o *Order) ItemCount() int { return o.itemCount }

// ItemTotal returns the reconciled line item total.
func (o *Order) ItemTotal() kernel.Money { return o.itemTotal }

// ShipmentTotal returns the reconciled shipment cost total.
func (o *Order) ShipmentTotal() kernel.Money { return o.shipmentTotal }

// AdjustmentTotal returns the reconciled adjustment total.
func (o *Order) AdjustmentTotal() kernel.Money { return o.adjustmentTotal }

// AdditionalTaxTotal returns the reconciled added-on-top tax total.
func (o *Order) AdditionalTaxTotal() kernel.Money { return o.additionalTaxTotal }

// IncludedTaxTotal returns the reconciled included-in-price tax total.
func (o *Order) IncludedTaxTotal() kernel.Money { return o.includedTaxTotal }

// PaymentTotal returns the reconciled captured payment total net of refunds.
func (o *Order) PaymentTotal() kernel.Money { return o.paymentTotal }

// PromoTotal returns the reconciled promotion total, typically negative.
func (o *Order) PromoTotal() kernel.Money { return o.promoTotal }

// Total returns the reconciled grand total.
func (o *Order) Total() kernel.Money { return o.total }

// PaymentStatus returns the derived payment standing.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// ShipmentStatus returns the derived fulfillment standing,
// ShipmentStatusNone when the order has no shipments.
func (o *Order) ShipmentStatus() ShipmentStatus { return o.shipmentStatus }

// IsCompleted reports whether checkout finished.
func (o *Order) IsCompleted() bool { return o.completed }

// IsCanceled reports whether the order is soft-deleted.
func (o *Order) IsCanceled() bool { return o.canceled }

// IsBackordered reports whether the order is flagged backordered.
func (o *Order) IsBackordered() bool { return o.backordered }

// Version returns the optimistic concurrency token of the loaded snapshot.
func (o *Order) Version() int64 { return o.version }

// ensureContentMutable rejects content mutations on completed orders.
func (o *Order) ensureContentMutable() error {
	if o.completed {
		return ErrOrderContentImmutable
	}
	return nil
}

// AddLineItem appends a line item. The item's currency must match the order.
func (o *Order) AddLineItem(li *LineItem) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	if err := li.Validate(); err != nil {
		return err
	}
	if li.UnitPrice().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}
	o.lineItems = append(o.lineItems, li)
	return nil
}

// RemoveLineItem removes a line item and its per-line adjustments.
func (o *Order) RemoveLineItem(id kernel.UUID) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	for i, li := range o.lineItems {
		if li.ID().IsEqual(id) {
			o.lineItems = append(o.lineItems[:i], o.lineItems[i+1:]...)
			o.removeAdjustmentsFor(id)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("lineItem", id.String())
}

// AddShipment appends a shipment planned by the fulfillment collaborator.
func (o *Order) AddShipment(s *Shipment) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Cost().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}
	o.shipments = append(o.shipments, s)
	return nil
}

// AddPayment appends a payment. Payments may be added after completion;
// capture and settlement continue past checkout.
func (o *Order) AddPayment(p *Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Amount().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}
	o.payments = append(o.payments, p)
	return nil
}

// AddAdjustment appends an adjustment targeting the order or one of its
// line items.
func (o *Order) AddAdjustment(a *Adjustment) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Amount().Currency() != o.currency {
		return kernel.ErrCurrencyMismatch
	}
	if !o.isAdjustable(a.AdjustableID()) {
		return errs.NewObjectNotFoundError("adjustable", a.AdjustableID().String())
	}
	o.adjustments = append(o.adjustments, a)
	return nil
}

// isAdjustable reports whether the ID names this order or one of its line items.
func (o *Order) isAdjustable(id kernel.UUID) bool {
	if id.IsEqual(o.id) {
		return true
	}
	for _, li := range o.lineItems {
		if li.ID().IsEqual(id) {
			return true
		}
	}
	return false
}

func (o *Order) removeAdjustmentsFor(adjustableID kernel.UUID) {
	kept := o.adjustments[:0]
	for _, a := range o.adjustments {
		if !a.AdjustableID().IsEqual(adjustableID) {
			kept = append(kept, a)
		}
	}
	o.adjustments = kept
}

// OpenAdjustments returns the non-finalized adjustments.
func (o *Order) OpenAdjustments() []*Adjustment {
	open := make([]*Adjustment, 0, len(o.adjustments))
	for _, a := range o.adjustments {
		if !a.IsFinalized() {
			open = append(open, a)
		}
	}
	return open
}

// FinalizedAdjustments returns the adjustments locked against recomputation.
func (o *Order) FinalizedAdjustments() []*Adjustment {
	finalized := make([]*Adjustment, 0, len(o.adjustments))
	for _, a := range o.adjustments {
		if a.IsFinalized() {
			finalized = append(finalized, a)
		}
	}
	return finalized
}

// ReplaceOpenAdjustments swaps all non-finalized adjustments for the given
// recomputed set. Finalized adjustments are untouched. Used by the totals
// reconciler; deliberately not guarded by the completion flag, since a
// completed order's adjustments are all finalized and the swap is a no-op.
func (o *Order) ReplaceOpenAdjustments(recomputed []*Adjustment) error {
	for _, a := range recomputed {
		if err := a.Validate(); err != nil {
			return err
		}
		if a.Amount().Currency() != o.currency {
			return kernel.ErrCurrencyMismatch
		}
		if a.IsFinalized() {
			return errs.NewValueIsInvalidErrorWithCause("adjustment",
				fmt.Errorf("recomputed adjustment %s must not be finalized", a.ID()))
		}
		if !o.isAdjustable(a.AdjustableID()) {
			return errs.NewObjectNotFoundError("adjustable", a.AdjustableID().String())
		}
	}

	kept := make([]*Adjustment, 0, len(o.adjustments)+len(recomputed))
	for _, a := range o.adjustments {
		if a.IsFinalized() {
			kept = append(kept, a)
		}
	}
	o.adjustments = append(kept, recomputed...)
	return nil
}

// ApplyLineItemTaxTotals writes the reconciled per-line totals of one
// line item. Used by the totals reconciler together with
// ReplaceOpenAdjustments and ApplyReconciliation.
func (o *Order) ApplyLineItemTaxTotals(lineItemID kernel.UUID, adjustment, additionalTax, includedTax kernel.Money) error {
	for _, m := range []kernel.Money{adjustment, additionalTax, includedTax} {
		if err := m.Validate(); err != nil {
			return err
		}
		if m.Currency() != o.currency {
			return kernel.ErrCurrencyMismatch
		}
	}
	for _, li := range o.lineItems {
		if li.ID().IsEqual(lineItemID) {
			li.applyTaxTotals(adjustment, additionalTax, includedTax)
			return nil
		}
	}
	return errs.NewObjectNotFoundError("lineItem", lineItemID.String())
}

// FinalizeAdjustments locks every adjustment on the order.
func (o *Order) FinalizeAdjustments() {
	for _, a := range o.adjustments {
		a.Finalize()
	}
}

// SetShippingAddress records the shipping destination.
func (o *Order) SetShippingAddress(addr kernel.Address) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return err
	}
	o.shippingAddress = &addr
	return nil
}

// SetPaymentSourceRef records the selected payment source.
func (o *Order) SetPaymentSourceRef(ref string) error {
	if err := o.ensureContentMutable(); err != nil {
		return err
	}
	o.paymentSourceRef = ref
	return nil
}

// SetBackordered flags or unflags the order as backordered.
func (o *Order) SetBackordered(backordered bool) {
	o.backordered = backordered
}

// NextStage returns the stage an advance would move to. A resumed order
// returns to its pre-cancellation stage.
func (o *Order) NextStage() (Stage, error) {
	if o.stage == StageResumed {
		if o.previousStage == StageUnknown {
			return StageUnknown, errs.NewValueIsInvalidError("previous stage")
		}
		return o.previousStage, nil
	}
	return o.stage.Next()
}

// MoveTo transitions the order to the given stage. The transition must be
// permitted by the machine's transition table; stage guards are the
// checkout machine's responsibility.
func (o *Order) MoveTo(next Stage) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if !CanTransition(o.stage, next) {
		return NewStageValidationError(o.stage,
			fmt.Sprintf("a permitted transition, %s is unreachable", next))
	}
	o.stage = next
	return nil
}

// Cancel soft-deletes the order: content is retained, the pre-cancellation
// stage is remembered for resume, and reconciliation derives void or
// credit_owed payment status. Completed orders cannot be canceled here.
func (o *Order) Cancel() error {
	if !o.stage.CanCancel() {
		return NewStageValidationError(o.stage, "a cancelable stage")
	}
	if o.stage != StageResumed {
		o.previousStage = o.stage
	}
	o.stage = StageCanceled
	o.canceled = true
	return nil
}

// Resume brings a canceled order back. The next advance returns it to the
// stage it held before cancellation.
func (o *Order) Resume() error {
	if o.stage != StageCanceled {
		return NewStageValidationError(o.stage, "the canceled stage")
	}
	o.stage = StageResumed
	o.canceled = false
	return nil
}

// Complete finalizes the checkout: only valid from the confirmation stage.
// All adjustments are finalized and content becomes immutable.
func (o *Order) Complete() error {
	if o.stage != StageConfirmation {
		return ErrIncompleteCheckout
	}
	o.FinalizeAdjustments()
	o.completed = true
	o.stage = StageComplete
	return nil
}

// ApplyReconciliation writes the reconciled totals and derived statuses in
// one step, after checking the totals identities. On violation nothing is
// written and a DomainValidationError with field detail is returned.
func (o *Order) ApplyReconciliation(t Totals, paymentStatus PaymentStatus, shipmentStatus ShipmentStatus) error {
	var violations []errs.FieldViolation

	for field, m := range map[string]kernel.Money{
		"itemTotal":          t.ItemTotal,
		"shipmentTotal":      t.ShipmentTotal,
		"adjustmentTotal":    t.AdjustmentTotal,
		"additionalTaxTotal": t.AdditionalTaxTotal,
		"includedTaxTotal":   t.IncludedTaxTotal,
		"paymentTotal":       t.PaymentTotal,
		"promoTotal":         t.PromoTotal,
		"total":              t.Total,
	} {
		if m.Currency() != o.currency {
			violations = append(violations, errs.FieldViolation{
				Field:   field,
				Message: fmt.Sprintf("currency %s does not match order currency %s", m.Currency(), o.currency),
			})
		}
	}
	if len(violations) > 0 {
		return errs.NewDomainValidationError(violations...)
	}

	sum, err := t.ItemTotal.Add(t.ShipmentTotal)
	if err == nil {
		sum, err = sum.Add(t.AdjustmentTotal)
	}
	if err != nil {
		return errs.NewDomainValidationErrorWithCause(err,
			errs.FieldViolation{Field: "total", Message: "could not be cross-checked"})
	}
	if !sum.IsEqual(t.Total) {
		violations = append(violations, errs.FieldViolation{
			Field:   "total",
			Message: fmt.Sprintf("%s does not equal itemTotal + shipmentTotal + adjustmentTotal = %s", t.Total, sum),
		})
	}

	adjSum, err := t.AdditionalTaxTotal.Add(t.IncludedTaxTotal)
	if err == nil {
		adjSum, err = adjSum.Add(t.PromoTotal)
	}
	if err != nil {
		return errs.NewDomainValidationErrorWithCause(err,
			errs.FieldViolation{Field: "adjustmentTotal", Message: "could not be cross-checked"})
	}
	if !adjSum.IsEqual(t.AdjustmentTotal) {
		violations = append(violations, errs.FieldViolation{
			Field:   "adjustmentTotal",
			Message: fmt.Sprintf("%s does not equal additionalTaxTotal + includedTaxTotal + promoTotal = %s", t.AdjustmentTotal, adjSum),
		})
	}

	if t.ItemCount < 0 {
		violations = append(violations, errs.FieldViolation{Field: "itemCount", Message: "is negative"})
	}
	if err = paymentStatus.Validate(); err != nil {
		violations = append(violations, errs.FieldViolation{Field: "paymentStatus", Message: err.Error()})
	}
	if len(violations) > 0 {
		return errs.NewDomainValidationError(violations...)
	}

	o.itemCount = t.ItemCount
	o.itemTotal = t.ItemTotal
	o.shipmentTotal = t.ShipmentTotal
	o.adjustmentTotal = t.AdjustmentTotal
	o.additionalTaxTotal = t.AdditionalTaxTotal
	o.includedTaxTotal = t.IncludedTaxTotal
	o.paymentTotal = t.PaymentTotal
	o.promoTotal = t.PromoTotal
	o.total = t.Total
	o.paymentStatus = paymentStatus
	o.shipmentStatus = shipmentStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCurrency(currency kernel.Currency) error {
	if err := currency.Validate(); err != nil {
		return err
	}
	o.currency = currency
	return nil
}

// RestoreOrder reconstructs the aggregate from a persisted snapshot.
// The version is the optimistic concurrency token the snapshot was read at.
func RestoreOrder(
	id kernel.UUID,
	currency kernel.Currency,
	stage, previousStage Stage,
	lineItems []*LineItem,
	shipments []*Shipment,
	payments []*Payment,
	adjustments []*Adjustment,
	shippingAddress *kernel.Address,
	paymentSourceRef string,
	totals Totals,
	paymentStatus PaymentStatus,
	shipmentStatus ShipmentStatus,
	completed, canceled, backordered bool,
	version int64,
) (*Order, error) {
	o, err := NewOrder(id, currency)
	if err != nil {
		return nil, err
	}
	if err = stage.Validate(); err != nil {
		return nil, err
	}

	o.stage = stage
	o.previousStage = previousStage
	o.shippingAddress = shippingAddress
	o.paymentSourceRef = paymentSourceRef
	o.completed = completed
	o.canceled = canceled
	o.backordered = backordered
	o.version = version

	for _, li := range lineItems {
		if err = li.Validate(); err != nil {
			return nil, err
		}
		o.lineItems = append(o.lineItems, li)
	}
	for _, s := range shipments {
		if err = s.Validate(); err != nil {
			return nil, err
		}
		o.shipments = append(o.shipments, s)
	}
	for _, p := range payments {
		if err = p.Validate(); err != nil {
			return nil, err
		}
		o.payments = append(o.payments, p)
	}
	for _, a := range adjustments {
		if err = a.Validate(); err != nil {
			return nil, err
		}
		o.adjustments = append(o.adjustments, a)
	}

	if err = o.ApplyReconciliation(totals, paymentStatus, shipmentStatus); err != nil {
		return nil, err
	}
	return o, nil
}
