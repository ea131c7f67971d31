package order

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrPaymentIsNotConstructed is returned when a Payment was not created
// through the NewPayment factory function.
var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment constructor")

// PaymentState is the gateway-facing state of a single payment.
type PaymentState string

const (
	// PaymentCheckout means the payment was captured during checkout but
	// not yet processed.
	PaymentCheckout PaymentState = "checkout"

	// PaymentPending means the gateway has the payment in flight.
	PaymentPending PaymentState = "pending"

	// PaymentCompleted means the money was captured.
	PaymentCompleted PaymentState = "completed"

	// PaymentVoid means the payment was voided before capture.
	PaymentVoid PaymentState = "void"

	// PaymentFailed means the gateway rejected the payment.
	PaymentFailed PaymentState = "failed"

	// PaymentInvalid means the payment is unusable for bookkeeping.
	PaymentInvalid PaymentState = "invalid"
)

// Validate checks the PaymentState holds one of the defined values.
func (s PaymentState) Validate() error {
	switch s {
	case PaymentCheckout, PaymentPending, PaymentCompleted, PaymentVoid, PaymentFailed, PaymentInvalid:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("payment state",
		fmt.Errorf("%q is not a valid payment state", string(s)))
}

// String returns the state name.
func (s PaymentState) String() string {
	return string(s)
}

// Payment is one payment attempt against an order. Refunds are netted
// against the payment without changing its recorded state: a completed
// payment with a refund still reads completed, but its effective amount
// shrinks. Owned exclusively by its Order.
type Payment struct {
	id             kernel.UUID
	amount         kernel.Money
	state          PaymentState
	refundedAmount kernel.Money
	responseRef    string

	isConstructed bool
}

// NewPayment creates a payment in the checkout state.
func NewPayment(id kernel.UUID, amount kernel.Money) (*Payment, error) {
	p := &Payment{
		state:         PaymentCheckout,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setAmount(amount),
	); err != nil {
		return nil, err
	}

	p.refundedAmount = kernel.ZeroMoney(amount.Currency())
	return p, nil
}

// Validate ensures the payment was created through NewPayment.
func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

// ID returns the payment identifier.
func (p *Payment) ID() kernel.UUID { return p.id }

// Amount returns the recorded payment amount.
func (p *Payment) Amount() kernel.Money { return p.amount }

// State returns the gateway-facing state.
func (p *Payment) State() PaymentState { return p.state }

// RefundedAmount returns the total refunded against this payment.
func (p *Payment) RefundedAmount() kernel.Money { return p.refundedAmount }

// ResponseRef returns the gateway response reference, possibly empty.
func (p *Payment) ResponseRef() string { return p.responseRef }

// IsValid reports whether the payment counts for payment-status derivation.
// Void and invalid payments do not.
func (p *Payment) IsValid() bool {
	return p.state != PaymentVoid && p.state != PaymentInvalid
}

// EffectiveAmount returns the amount this payment contributes to the
// order's payment total: the captured amount net of refunds for completed
// payments, zero otherwise.
func (p *Payment) EffectiveAmount() kernel.Money {
	if p.state != PaymentCompleted {
		return kernel.ZeroMoney(p.amount.Currency())
	}
	net, err := p.amount.Sub(p.refundedAmount)
	if err != nil {
		return kernel.ZeroMoney(p.amount.Currency())
	}
	return net
}

// SetState applies a gateway event to the payment.
func (p *Payment) SetState(state PaymentState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	p.state = state
	return nil
}

// SetResponseRef records the gateway response reference.
func (p *Payment) SetResponseRef(ref string) {
	p.responseRef = ref
}

// Refund nets a refund against this payment. The refund must be positive
// and must not exceed the unrefunded remainder; the payment state is left
// unchanged.
func (p *Payment) Refund(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("refund amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}

	newRefunded, err := p.refundedAmount.Add(amount)
	if err != nil {
		return err
	}
	cmp, err := newRefunded.Cmp(p.amount)
	if err != nil {
		return err
	}
	if cmp > 0 {
		return errs.NewValueIsInvalidErrorWithCause("refund amount",
			fmt.Errorf("refunds %s would exceed payment amount %s", newRefunded, p.amount))
	}

	p.refundedAmount = newRefunded
	return nil
}

func (p *Payment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Payment) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("payment amount",
			fmt.Errorf("%s is not greater than 0", amount))
	}
	p.amount = amount
	return nil
}

// RestorePayment reconstructs a payment from persistence.
func RestorePayment(id kernel.UUID, amount kernel.Money, state PaymentState, refundedAmount kernel.Money, responseRef string) (*Payment, error) {
	p, err := NewPayment(id, amount)
	if err != nil {
		return nil, err
	}
	if err = p.SetState(state); err != nil {
		return nil, err
	}
	if err = refundedAmount.Validate(); err != nil {
		return nil, err
	}
	p.refundedAmount = refundedAmount
	p.responseRef = responseRef
	return p, nil
}
