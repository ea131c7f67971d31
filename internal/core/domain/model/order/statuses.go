package order

import (
	"fmt"

	"checkout/internal/pkg/errs"
)

// PaymentStatus is the derived payment standing of an order, recomputed on
// every reconciliation by comparing the payment total to the grand total.
// It is never set directly by callers.
type PaymentStatus string

const (
	// PaymentStatusBalanceDue means the payment total is below the grand total.
	PaymentStatusBalanceDue PaymentStatus = "balance_due"

	// PaymentStatusPaid means the payment total equals the grand total.
	PaymentStatusPaid PaymentStatus = "paid"

	// PaymentStatusCreditOwed means the store holds more money than the
	// grand total, including payments held on a canceled order.
	PaymentStatusCreditOwed PaymentStatus = "credit_owed"

	// PaymentStatusFailed means no valid payment exists on the order.
	PaymentStatusFailed PaymentStatus = "failed"

	// PaymentStatusVoid means a canceled order holds no payments.
	PaymentStatusVoid PaymentStatus = "void"
)

// Validate checks the PaymentStatus holds one of the defined values.
func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentStatusBalanceDue, PaymentStatusPaid, PaymentStatusCreditOwed,
		PaymentStatusFailed, PaymentStatusVoid:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", string(p)))
}

// String returns the status name.
func (p PaymentStatus) String() string {
	return string(p)
}

// ShipmentStatus is the derived fulfillment standing of an order. The zero
// value ShipmentStatusNone deliberately represents "absent": an order with
// zero shipments has no shipment status, and downstream callers branch on
// that absence.
type ShipmentStatus string

const (
	// ShipmentStatusNone is the absent status for orders with no shipments.
	ShipmentStatusNone ShipmentStatus = ""

	// ShipmentStatusBackorder takes precedence whenever the order is
	// flagged backordered, regardless of individual shipment states.
	ShipmentStatusBackorder ShipmentStatus = "backorder"

	// ShipmentStatusPartial means the shipments are in mixed states.
	ShipmentStatusPartial ShipmentStatus = "partial"

	// ShipmentStatusPending mirrors a uniform pending shipment set.
	ShipmentStatusPending ShipmentStatus = "pending"

	// ShipmentStatusReady mirrors a uniform ready shipment set.
	ShipmentStatusReady ShipmentStatus = "ready"

	// ShipmentStatusShipped mirrors a uniform shipped shipment set.
	ShipmentStatusShipped ShipmentStatus = "shipped"

	// ShipmentStatusCanceled mirrors a uniform canceled shipment set.
	ShipmentStatusCanceled ShipmentStatus = "canceled"
)

// IsSet reports whether the status carries a value. ShipmentStatusNone is
// the literal absence, not a state of its own.
func (s ShipmentStatus) IsSet() bool {
	return s != ShipmentStatusNone
}

// String returns the status name, empty when absent.
func (s ShipmentStatus) String() string {
	return string(s)
}
