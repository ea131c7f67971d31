package order

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created
// through the NewLineItem factory function.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one purchasable position of an order. It captures the unit
// price at the moment the variant was added, so later catalog price changes
// do not move an in-flight order. Owned exclusively by its Order.
type LineItem struct {
	id                 kernel.UUID
	variantID          kernel.UUID
	shippingCategoryID kernel.UUID
	quantity           int
	unitPrice          kernel.Money

	// Per-line adjustment totals written during reconciliation.
	adjustmentTotal    kernel.Money
	additionalTaxTotal kernel.Money
	includedTaxTotal   kernel.Money

	isConstructed bool
}

// NewLineItem creates a line item for a product variant.
// Quantity must be positive; the unit price is captured as given.
func NewLineItem(id, variantID, shippingCategoryID kernel.UUID, quantity int, unitPrice kernel.Money) (*LineItem, error) {
	li := &LineItem{isConstructed: true}

	if err := errors.Join(
		li.setID(id),
		li.setVariantID(variantID),
		li.setShippingCategoryID(shippingCategoryID),
		li.setQuantity(quantity),
		li.setUnitPrice(unitPrice),
	); err != nil {
		return nil, err
	}

	li.adjustmentTotal = kernel.ZeroMoney(unitPrice.Currency())
	li.additionalTaxTotal = kernel.ZeroMoney(unitPrice.Currency())
	li.includedTaxTotal = kernel.ZeroMoney(unitPrice.Currency())
	return li, nil
}

// Validate ensures the line item was created through NewLineItem.
func (li *LineItem) Validate() error {
	if li == nil || !li.isConstructed {
		return ErrLineItemIsNotConstructed
	}
	return nil
}

// ID returns the line item identifier.
func (li *LineItem) ID() kernel.UUID { return li.id }

// VariantID returns the referenced product variant.
func (li *LineItem) VariantID() kernel.UUID { return li.variantID }

// ShippingCategoryID returns the shipping category of the variant's product,
// used by shipping method category matching.
func (li *LineItem) ShippingCategoryID() kernel.UUID { return li.shippingCategoryID }

// Quantity returns the ordered quantity.
func (li *LineItem) Quantity() int { return li.quantity }

// UnitPrice returns the price captured when the item was added.
func (li *LineItem) UnitPrice() kernel.Money { return li.unitPrice }

// Amount returns quantity times unit price.
func (li *LineItem) Amount() kernel.Money {
	return li.unitPrice.MulInt(li.quantity)
}

// AdjustmentTotal returns the per-line adjustment total from the last
// reconciliation.
func (li *LineItem) AdjustmentTotal() kernel.Money { return li.adjustmentTotal }

// AdditionalTaxTotal returns the per-line additional tax from the last
// reconciliation.
func (li *LineItem) AdditionalTaxTotal() kernel.Money { return li.additionalTaxTotal }

// IncludedTaxTotal returns the per-line included tax from the last
// reconciliation.
func (li *LineItem) IncludedTaxTotal() kernel.Money { return li.includedTaxTotal }

// SetQuantity changes the ordered quantity. Quantity must stay positive;
// removing an item is an Order-level operation.
func (li *LineItem) SetQuantity(quantity int) error {
	return li.setQuantity(quantity)
}

// applyTaxTotals writes the per-line totals computed during reconciliation.
func (li *LineItem) applyTaxTotals(adjustment, additionalTax, includedTax kernel.Money) {
	li.adjustmentTotal = adjustment
	li.additionalTaxTotal = additionalTax
	li.includedTaxTotal = includedTax
}

func (li *LineItem) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	li.id = id
	return nil
}

func (li *LineItem) setVariantID(variantID kernel.UUID) error {
	if err := variantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("variant", err)
	}
	li.variantID = variantID
	return nil
}

func (li *LineItem) setShippingCategoryID(categoryID kernel.UUID) error {
	if err := categoryID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipping category", err)
	}
	li.shippingCategoryID = categoryID
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%s is negative", unitPrice))
	}
	li.unitPrice = unitPrice
	return nil
}

// RestoreLineItem reconstructs a line item from persistence, including the
// per-line totals written by previous reconciliations.
func RestoreLineItem(
	id, variantID, shippingCategoryID kernel.UUID,
	quantity int,
	unitPrice, adjustmentTotal, additionalTaxTotal, includedTaxTotal kernel.Money,
) (*LineItem, error) {
	li, err := NewLineItem(id, variantID, shippingCategoryID, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	li.applyTaxTotals(adjustmentTotal, additionalTaxTotal, includedTaxTotal)
	return li, nil
}
