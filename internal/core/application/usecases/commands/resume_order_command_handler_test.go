package commands_test

import (
	"testing"

	"checkout/internal/core/application/usecases/commands"
	"checkout/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResumeOrderCommandHandler_Handle_BringsOrderBack(t *testing.T) {
	ctx := t.Context()
	aggregate := cartOrder(t, true)
	require.NoError(t, aggregate.Cancel())
	cmd, _ := commands.NewResumeOrderCommand(aggregate.ID())

	orderRepo := new(MockOrderRepository)
	promoRepo := new(MockPromotionRepository)
	uow := new(MockCheckoutUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	expectOrderAndPromotions(uow, orderRepo, promoRepo, aggregate)
	orderRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewResumeOrderCommandHandler(factory, newTestMachine(t))
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, aggregate.IsCanceled())
	assert.Equal(t, order.StageResumed, aggregate.Stage())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestResumeOrderCommandHandler_Handle_ActiveOrderIsRefused(t *testing.T) {
	ctx := t.Context()
	aggregate := cartOrder(t, true)
	cmd, _ := commands.NewResumeOrderCommand(aggregate.ID())

	orderRepo := new(MockOrderRepository)
	promoRepo := new(MockPromotionRepository)
	uow := new(MockCheckoutUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	expectOrderAndPromotions(uow, orderRepo, promoRepo, aggregate)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewResumeOrderCommandHandler(factory, newTestMachine(t))
	err := h.Handle(ctx, cmd)

	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}
