package order

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrAdjustmentIsNotConstructed is returned when an Adjustment was not
// created through the NewAdjustment factory function.
var ErrAdjustmentIsNotConstructed = errors.New("Adjustment must be created via NewAdjustment constructor")

// AdjustmentSource discriminates what produced an adjustment.
type AdjustmentSource string

const (
	// AdjustmentSourceTax marks adjustments produced by a tax rate.
	AdjustmentSourceTax AdjustmentSource = "tax"

	// AdjustmentSourcePromotion marks adjustments produced by a promotion
	// action. Their amounts are typically negative.
	AdjustmentSourcePromotion AdjustmentSource = "promotion"

	// AdjustmentSourceShipping marks adjustments produced by a shipping
	// calculator, e.g. a handling surcharge.
	AdjustmentSourceShipping AdjustmentSource = "shipping"
)

// Validate checks the AdjustmentSource holds one of the defined values.
func (s AdjustmentSource) Validate() error {
	switch s {
	case AdjustmentSourceTax, AdjustmentSourcePromotion, AdjustmentSourceShipping:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("adjustment source",
		fmt.Errorf("%q is not a valid adjustment source", string(s)))
}

// Adjustment is a signed monetary modifier attached either to the order
// itself or to one of its line items (the "adjustable"). Non-finalized
// adjustments are discarded and recomputed on every reconciliation pass;
// finalized adjustments are carried forward unchanged and become immutable.
type Adjustment struct {
	id           kernel.UUID
	adjustableID kernel.UUID // order ID or line item ID
	source       AdjustmentSource
	amount       kernel.Money
	label        string
	includedTax  bool
	finalized    bool

	isConstructed bool
}

// NewAdjustment creates an open (non-finalized) adjustment.
// adjustableID names the order or line item it modifies. includedTax marks
// tax amounts already contained in the price rather than added on top.
func NewAdjustment(
	id, adjustableID kernel.UUID,
	source AdjustmentSource,
	amount kernel.Money,
	label string,
	includedTax bool,
) (*Adjustment, error) {
	a := &Adjustment{
		includedTax:   includedTax,
		isConstructed: true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setAdjustableID(adjustableID),
		a.setSource(source),
		a.setAmount(amount),
		a.setLabel(label),
	); err != nil {
		return nil, err
	}

	if includedTax && source != AdjustmentSourceTax {
		return nil, errs.NewValueIsInvalidErrorWithCause("adjustment",
			fmt.Errorf("included-tax flag requires a tax source, got %q", source))
	}

	return a, nil
}

// Validate ensures the adjustment was created through NewAdjustment.
func (a *Adjustment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAdjustmentIsNotConstructed
	}
	return nil
}

// ID returns the adjustment identifier.
func (a *Adjustment) ID() kernel.UUID { return a.id }

// AdjustableID returns the order or line item this adjustment modifies.
func (a *Adjustment) AdjustableID() kernel.UUID { return a.adjustableID }

// Source returns what produced the adjustment.
func (a *Adjustment) Source() AdjustmentSource { return a.source }

// Amount returns the signed monetary amount.
func (a *Adjustment) Amount() kernel.Money { return a.amount }

// Label returns the human-readable description.
func (a *Adjustment) Label() string { return a.label }

// IsIncludedTax reports whether this is tax already contained in the price.
func (a *Adjustment) IsIncludedTax() bool { return a.includedTax }

// IsFinalized reports whether the adjustment is locked against recomputation.
func (a *Adjustment) IsFinalized() bool { return a.finalized }

// Finalize locks the adjustment. Finalized adjustments are carried forward
// unchanged by every subsequent reconciliation.
func (a *Adjustment) Finalize() {
	a.finalized = true
}

func (a *Adjustment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Adjustment) setAdjustableID(adjustableID kernel.UUID) error {
	if err := adjustableID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("adjustable", err)
	}
	a.adjustableID = adjustableID
	return nil
}

func (a *Adjustment) setSource(source AdjustmentSource) error {
	if err := source.Validate(); err != nil {
		return err
	}
	a.source = source
	return nil
}

func (a *Adjustment) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	a.amount = amount
	return nil
}

func (a *Adjustment) setLabel(label string) error {
	if label == "" {
		return errs.NewValueIsRequiredError("adjustment label")
	}
	a.label = label
	return nil
}

// RestoreAdjustment reconstructs an adjustment from persistence.
func RestoreAdjustment(
	id, adjustableID kernel.UUID,
	source AdjustmentSource,
	amount kernel.Money,
	label string,
	includedTax, finalized bool,
) (*Adjustment, error) {
	a, err := NewAdjustment(id, adjustableID, source, amount, label, includedTax)
	if err != nil {
		return nil, err
	}
	a.finalized = finalized
	return a, nil
}
