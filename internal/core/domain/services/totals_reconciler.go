package services

import (
	"context"
	"errors"
	"log/slog"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"
)

// TaxCalculator is the external collaborator producing tax adjustments for
// an order. Implementations must return open adjustments with a tax source,
// targeting the order or its line items.
type TaxCalculator interface {
	ComputeTax(ctx context.Context, o *order.Order) ([]*order.Adjustment, error)
}

// TotalsReconciler is the domain service recomputing an order's monetary
// totals and derived status fields from its current constituent parts.
//
// Reconciliation runs as an ordered sequence of passes over an in-memory
// order snapshot:
//  1. item total and item count from line items
//  2. recomputation of non-finalized promotion and tax adjustments;
//     finalized adjustments are carried forward unchanged
//  3. shipment total from shipment costs and shipping-source adjustments
//  4. adjustment total from the tax and promotion totals
//  5. grand total
//  6. payment total from completed payments net of refunds
//  7. derived payment status
//  8. derived shipment status
//
// The computed totals are written back through the aggregate in one step,
// so a validation failure leaves the order untouched. Persisting the
// result is the caller's job.
//
// Reconciliation is idempotent: two consecutive runs with no intervening
// mutation produce identical totals.
type TotalsReconciler struct {
	taxCalculator TaxCalculator
	logger        *slog.Logger
}

// NewTotalsReconciler creates a TotalsReconciler. The tax calculator is
// required; a nil logger falls back to the default.
func NewTotalsReconciler(taxCalculator TaxCalculator, logger *slog.Logger) (*TotalsReconciler, error) {
	if taxCalculator == nil {
		return nil, errors.New("tax calculator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TotalsReconciler{taxCalculator: taxCalculator, logger: logger}, nil
}

// Reconcile recomputes the order's totals and derived statuses against the
// given active promotions. The order must carry a complete in-memory
// snapshot of its parts; the reconciler fetches nothing.
//
// A promotion whose rules fail to evaluate is logged and treated as
// ineligible; the pass continues. Any other error aborts the run with the
// order unchanged.
func (r *TotalsReconciler) Reconcile(ctx context.Context, o *order.Order, promotions []*promotion.Promotion) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	itemCount, itemTotal, err := r.sumLineItems(o)
	if err != nil {
		return err
	}

	if !o.IsCompleted() {
		if err = r.recomputeAdjustments(ctx, o, promotions); err != nil {
			return err
		}
	}

	promoTotal, additionalTax, includedTax, shippingAdj, err := r.sumAdjustments(o)
	if err != nil {
		return err
	}
	if err = r.writeLineItemTotals(o); err != nil {
		return err
	}

	shipmentTotal, err := r.sumShipments(o, shippingAdj)
	if err != nil {
		return err
	}

	adjustmentTotal, err := additionalTax.Add(includedTax)
	if err != nil {
		return err
	}
	adjustmentTotal, err = adjustmentTotal.Add(promoTotal)
	if err != nil {
		return err
	}

	total, err := itemTotal.Add(shipmentTotal)
	if err != nil {
		return err
	}
	total, err = total.Add(adjustmentTotal)
	if err != nil {
		return err
	}

	paymentTotal, err := r.sumPayments(o)
	if err != nil {
		return err
	}

	paymentStatus, err := r.derivePaymentStatus(o, paymentTotal, total)
	if err != nil {
		return err
	}
	shipmentStatus := r.deriveShipmentStatus(o)

	return o.ApplyReconciliation(order.Totals{
		ItemCount:          itemCount,
		ItemTotal:          itemTotal,
		ShipmentTotal:      shipmentTotal,
		AdjustmentTotal:    adjustmentTotal,
		AdditionalTaxTotal: additionalTax,
		IncludedTaxTotal:   includedTax,
		PaymentTotal:       paymentTotal,
		PromoTotal:         promoTotal,
		Total:              total,
	}, paymentStatus, shipmentStatus)
}

func (r *TotalsReconciler) sumLineItems(o *order.Order) (int, kernel.Money, error) {
	count := 0
	total := kernel.ZeroMoney(o.Currency())
	var err error
	for _, li := range o.LineItems() {
		count += li.Quantity()
		total, err = total.Add(li.Amount())
		if err != nil {
			return 0, kernel.Money{}, err
		}
	}
	return count, total, nil
}

// recomputeAdjustments discards the order's open adjustments and rebuilds
// them from eligible promotions and the tax calculator.
func (r *TotalsReconciler) recomputeAdjustments(ctx context.Context, o *order.Order, promotions []*promotion.Promotion) error {
	var recomputed []*order.Adjustment

	for _, p := range promotions {
		eligible, err := p.Eligible(o)
		if err != nil {
			if errors.Is(err, promotion.ErrEligibility) {
				r.logger.WarnContext(ctx, "promotion rule failed to evaluate, treating as ineligible",
					slog.String("order_id", o.ID().String()),
					slog.String("promotion", p.Name()),
					slog.Any("error", err))
				continue
			}
			return err
		}
		if !eligible {
			continue
		}

		adjustments, err := p.ComputeAdjustments(o)
		if err != nil {
			return err
		}
		recomputed = append(recomputed, adjustments...)
	}

	taxes, err := r.taxCalculator.ComputeTax(ctx, o)
	if err != nil {
		return err
	}
	recomputed = append(recomputed, taxes...)

	return o.ReplaceOpenAdjustments(recomputed)
}

// sumAdjustments splits the order's adjustments into the promotion, tax,
// and shipping buckets. Shipping-source adjustments are folded into the
// shipment total rather than the adjustment total.
func (r *TotalsReconciler) sumAdjustments(o *order.Order) (promo, additionalTax, includedTax, shipping kernel.Money, err error) {
	promo = kernel.ZeroMoney(o.Currency())
	additionalTax = kernel.ZeroMoney(o.Currency())
	includedTax = kernel.ZeroMoney(o.Currency())
	shipping = kernel.ZeroMoney(o.Currency())

	for _, a := range o.Adjustments() {
		switch {
		case a.Source() == order.AdjustmentSourcePromotion:
			promo, err = promo.Add(a.Amount())
		case a.Source() == order.AdjustmentSourceShipping:
			shipping, err = shipping.Add(a.Amount())
		case a.IsIncludedTax():
			includedTax, err = includedTax.Add(a.Amount())
		default:
			additionalTax, err = additionalTax.Add(a.Amount())
		}
		if err != nil {
			return kernel.Money{}, kernel.Money{}, kernel.Money{}, kernel.Money{}, err
		}
	}
	return promo, additionalTax, includedTax, shipping, nil
}

// writeLineItemTotals mirrors the per-line share of tax and promotion
// adjustments onto each line item.
func (r *TotalsReconciler) writeLineItemTotals(o *order.Order) error {
	adjustmentsByLine := make(map[kernel.UUID][]*order.Adjustment)
	for _, a := range o.Adjustments() {
		adjustmentsByLine[a.AdjustableID()] = append(adjustmentsByLine[a.AdjustableID()], a)
	}

	for _, li := range o.LineItems() {
		adjustment := kernel.ZeroMoney(o.Currency())
		additionalTax := kernel.ZeroMoney(o.Currency())
		includedTax := kernel.ZeroMoney(o.Currency())
		var err error

		for _, a := range adjustmentsByLine[li.ID()] {
			if a.Source() == order.AdjustmentSourceShipping {
				continue
			}
			adjustment, err = adjustment.Add(a.Amount())
			if err != nil {
				return err
			}
			if a.Source() == order.AdjustmentSourceTax {
				if a.IsIncludedTax() {
					includedTax, err = includedTax.Add(a.Amount())
				} else {
					additionalTax, err = additionalTax.Add(a.Amount())
				}
				if err != nil {
					return err
				}
			}
		}

		if err = o.ApplyLineItemTaxTotals(li.ID(), adjustment, additionalTax, includedTax); err != nil {
			return err
		}
	}
	return nil
}

func (r *TotalsReconciler) sumShipments(o *order.Order, shippingAdjustments kernel.Money) (kernel.Money, error) {
	total := kernel.ZeroMoney(o.Currency())
	var err error
	for _, s := range o.Shipments() {
		total, err = total.Add(s.Cost())
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total.Add(shippingAdjustments)
}

func (r *TotalsReconciler) sumPayments(o *order.Order) (kernel.Money, error) {
	total := kernel.ZeroMoney(o.Currency())
	var err error
	for _, p := range o.Payments() {
		total, err = total.Add(p.EffectiveAmount())
		if err != nil {
			return kernel.Money{}, err
		}
	}
	return total, nil
}

// derivePaymentStatus compares the payment total to the grand total.
// Payments present with none valid read failed, even on a canceled order.
// A canceled order otherwise reads void when holding no money and
// credit_owed when it does. A zero balance reads paid, including an order
// whose total is zero.
func (r *TotalsReconciler) derivePaymentStatus(o *order.Order, paymentTotal, total kernel.Money) (order.PaymentStatus, error) {
	hasPayments := len(o.Payments()) > 0
	hasValid := false
	for _, p := range o.Payments() {
		if p.IsValid() {
			hasValid = true
			break
		}
	}

	if hasPayments && !hasValid {
		return order.PaymentStatusFailed, nil
	}

	if o.IsCanceled() {
		if paymentTotal.IsZero() {
			return order.PaymentStatusVoid, nil
		}
		return order.PaymentStatusCreditOwed, nil
	}

	cmp, err := paymentTotal.Cmp(total)
	if err != nil {
		return "", err
	}

	switch {
	case cmp > 0:
		return order.PaymentStatusCreditOwed, nil
	case cmp == 0:
		return order.PaymentStatusPaid, nil
	default:
		return order.PaymentStatusBalanceDue, nil
	}
}

// deriveShipmentStatus maps the distinct shipment states onto the order.
// Precedence: backorder flag, absence, uniform state, mixed.
func (r *TotalsReconciler) deriveShipmentStatus(o *order.Order) order.ShipmentStatus {
	if o.IsBackordered() {
		return order.ShipmentStatusBackorder
	}

	shipments := o.Shipments()
	if len(shipments) == 0 {
		return order.ShipmentStatusNone
	}

	first := shipments[0].State()
	for _, s := range shipments[1:] {
		if s.State() != first {
			return order.ShipmentStatusPartial
		}
	}

	switch first {
	case order.ShipmentPending:
		return order.ShipmentStatusPending
	case order.ShipmentReady:
		return order.ShipmentStatusReady
	case order.ShipmentShipped:
		return order.ShipmentStatusShipped
	case order.ShipmentBackorder:
		return order.ShipmentStatusBackorder
	case order.ShipmentCanceled:
		return order.ShipmentStatusCanceled
	default:
		return order.ShipmentStatusPartial
	}
}
