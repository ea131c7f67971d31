package commands_test

import (
	"testing"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddPaymentCommandHandler_Handle_RecordsPaymentAndReconciles(t *testing.T) {
	ctx := t.Context()
	aggregate := cartOrder(t, true) // one line item, 20.00 USD
	amount, err := kernel.MoneyFromString("20.00", kernel.USD)
	require.NoError(t, err)
	cmd, _ := commands.NewAddPaymentCommand(aggregate.ID(), amount)

	orderRepo := new(MockOrderRepository)
	promoRepo := new(MockPromotionRepository)
	uow := new(MockCheckoutUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("PromotionRepository").Return(promoRepo)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	promoRepo.On("GetAllActive", mock.Anything).Return([]*promotion.Promotion{}, nil).Once()
	orderRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddPaymentCommandHandler(factory, newTestReconciler(t))
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, aggregate.Payments(), 1)
	// A freshly recorded payment sits in the checkout state and does not
	// count toward the payment total yet.
	assert.True(t, aggregate.PaymentTotal().IsZero())
	assert.Equal(t, order.PaymentStatusBalanceDue, aggregate.PaymentStatus())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAddPaymentCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockCheckoutUoWFactory)
	h := commands.NewAddPaymentCommandHandler(factory, newTestReconciler(t))

	err := h.Handle(ctx, commands.AddPaymentCommand{})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrAddPaymentCommandIsNotConstructed)
}
