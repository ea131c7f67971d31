package commands

import (
	"errors"
	"fmt"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
	"checkout/internal/pkg/guard"
)

var ErrAddLineItemCommandIsNotConstructed = errors.New(
	"AddLineItemCommand must be created via NewAddLineItemCommand constructor",
)

// AddLineItemCommand represents a request to put a product variant into an
// order's cart. The unit price is captured as given; later catalog changes
// do not move the order.
type AddLineItemCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	variantID          kernel.UUID
	shippingCategoryID kernel.UUID
	quantity           int
	unitPrice          kernel.Money

	guard guard.ConstructorGuard
}

// NewAddLineItemCommand creates a command to add a line item to an order.
func NewAddLineItemCommand(
	orderID, variantID, shippingCategoryID kernel.UUID,
	quantity int,
	unitPrice kernel.Money,
) (AddLineItemCommand, error) {
	cmd := AddLineItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setVariantID(variantID),
		cmd.setShippingCategoryID(shippingCategoryID),
		cmd.setQuantity(quantity),
		cmd.setUnitPrice(unitPrice),
	); err != nil {
		return AddLineItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddLineItemCommand) Validate() error {
	return c.guard.Validate(ErrAddLineItemCommandIsNotConstructed)
}

// OrderID returns the target order.
func (c AddLineItemCommand) OrderID() kernel.UUID { return c.orderID }

// VariantID returns the product variant to add.
func (c AddLineItemCommand) VariantID() kernel.UUID { return c.variantID }

// ShippingCategoryID returns the variant's shipping category.
func (c AddLineItemCommand) ShippingCategoryID() kernel.UUID { return c.shippingCategoryID }

// Quantity returns the quantity to add.
func (c AddLineItemCommand) Quantity() int { return c.quantity }

// UnitPrice returns the captured unit price.
func (c AddLineItemCommand) UnitPrice() kernel.Money { return c.unitPrice }

func (c *AddLineItemCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *AddLineItemCommand) setVariantID(variantID kernel.UUID) error {
	if err := variantID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("variant", err)
	}
	c.variantID = variantID
	return nil
}

func (c *AddLineItemCommand) setShippingCategoryID(categoryID kernel.UUID) error {
	if err := categoryID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipping category", err)
	}
	c.shippingCategoryID = categoryID
	return nil
}

func (c *AddLineItemCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	c.quantity = quantity
	return nil
}

func (c *AddLineItemCommand) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return err
	}
	c.unitPrice = unitPrice
	return nil
}
