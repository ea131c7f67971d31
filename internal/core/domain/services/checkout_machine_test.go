package services_test

import (
	"context"
	"testing"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/shipping"
	"checkout/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T) *services.CheckoutMachine {
	t.Helper()
	m, err := services.NewCheckoutMachine(
		newReconciler(t, noTax{}),
		services.NewShippingEligibility(),
		kernel.DefaultStoreConfig(),
	)
	require.NoError(t, err)
	return m
}

// checkoutFixture is an order wired up to pass every stage guard, together
// with the method list the guards consult.
type checkoutFixture struct {
	order   *order.Order
	methods []*shipping.ShippingMethod
}

func newCheckoutFixture(t *testing.T) checkoutFixture {
	t.Helper()

	o := orderWithItems(t, []int{2}, []string{"10.00"})
	require.NoError(t, o.SetShippingAddress(usAddress(t)))

	method := buildMethod(t, []string{"US"}, []kernel.Currency{kernel.USD},
		nil, shipping.MatchAll, nil)

	s, err := order.NewShipment(kernel.NewUUID(), method.ID(), usd(t, "5.00"))
	require.NoError(t, err)
	require.NoError(t, o.AddShipment(s))

	require.NoError(t, o.SetPaymentSourceRef("card-1"))

	return checkoutFixture{order: o, methods: []*shipping.ShippingMethod{method}}
}

func TestAdvanceOne(t *testing.T) {
	ctx := context.Background()

	t.Run("should move exactly one stage and reconcile", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))

		assert.Equal(t, order.StageAddress, f.order.Stage())
		assert.True(t, f.order.Total().IsEqual(usd(t, "25.00")))
	})

	t.Run("should refuse to leave an empty cart", func(t *testing.T) {
		m := newMachine(t)
		o, err := order.NewOrder(kernel.NewUUID(), kernel.USD)
		require.NoError(t, err)

		err = m.AdvanceOne(ctx, o, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrStageValidation)
		assert.Equal(t, order.StageCart, o.Stage())
	})

	t.Run("should require a store-valid address to leave the address stage", func(t *testing.T) {
		m := newMachine(t)
		o := orderWithItems(t, []int{1}, []string{"10.00"})
		require.NoError(t, m.AdvanceOne(ctx, o, nil, nil))

		err := m.AdvanceOne(ctx, o, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrStageValidation)
		assert.Equal(t, order.StageAddress, o.Stage())
	})

	t.Run("should require an available method per shipment to leave delivery", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		require.Equal(t, order.StageDelivery, f.order.Stage())

		err := m.AdvanceOne(ctx, f.order, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrStageValidation)
		assert.Equal(t, order.StageDelivery, f.order.Stage())
	})
}

func TestAdvanceToEnd(t *testing.T) {
	ctx := context.Background()

	t.Run("should run a full checkout to completion", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		require.NoError(t, m.AdvanceToEnd(ctx, f.order, f.methods, nil))

		assert.True(t, f.order.IsCompleted())
		assert.Equal(t, order.StageComplete, f.order.Stage())
		assert.Empty(t, f.order.OpenAdjustments())
		assertIdentities(t, f.order)
	})

	t.Run("should halt at the last reached stage on guard failure", func(t *testing.T) {
		m := newMachine(t)
		o := orderWithItems(t, []int{1}, []string{"10.00"})

		err := m.AdvanceToEnd(ctx, o, nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrStageValidation)
		assert.Equal(t, order.StageAddress, o.Stage(), "cart guard passed, address guard halted")
	})

	t.Run("should abort between stages on context cancellation", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err := m.AdvanceToEnd(canceled, f.order, f.methods, nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, order.StageCart, f.order.Stage())
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail from any stage but confirmation", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		require.Equal(t, order.StageDelivery, f.order.Stage())

		err := m.Complete(ctx, f.order, nil)

		assert.ErrorIs(t, err, order.ErrIncompleteCheckout)
		assert.Equal(t, order.StageDelivery, f.order.Stage())
		assert.False(t, f.order.IsCompleted())
	})
}

func TestCancelResume(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel derives void and resume returns to prior stage", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		require.Equal(t, order.StageAddress, f.order.Stage())

		require.NoError(t, m.Cancel(ctx, f.order, nil))
		assert.Equal(t, order.StageCanceled, f.order.Stage())
		assert.Equal(t, order.PaymentStatusVoid, f.order.PaymentStatus())

		require.NoError(t, m.Resume(ctx, f.order, nil))
		require.NoError(t, m.AdvanceOne(ctx, f.order, f.methods, nil))
		assert.Equal(t, order.StageAddress, f.order.Stage())
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject unknown attributes without state change", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		err := m.Update(ctx, f.order, map[string]any{"email": "a@b.c"}, f.methods, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrForbiddenAttribute)
		var forbidden *services.ForbiddenAttributeError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, "email", forbidden.Attribute)
		assert.True(t, f.order.Total().IsZero(), "no reconciliation ran")
	})

	t.Run("should apply whitelisted attributes and reconcile", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		patch := map[string]any{
			services.PatchShippingAddress: usAddress(t),
			services.PatchPaymentSource:   "card-2",
		}

		require.NoError(t, m.Update(ctx, f.order, patch, f.methods, nil))

		assert.Equal(t, "card-2", f.order.PaymentSourceRef())
		assert.Equal(t, order.StageCart, f.order.Stage(), "update never advances the stage")
		assert.True(t, f.order.Total().IsEqual(usd(t, "25.00")))
	})

	t.Run("should rebind shipments to a selected method", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		cheap, err := shipping.NewFlatRateCalculator(usd(t, "2.50"))
		require.NoError(t, err)
		express := buildMethod(t, []string{"US"}, []kernel.Currency{kernel.USD},
			nil, shipping.MatchAll, cheap)
		methods := append(f.methods, express)

		patch := map[string]any{services.PatchShippingMethod: express.ID()}

		require.NoError(t, m.Update(ctx, f.order, patch, methods, nil))

		shipment := f.order.Shipments()[0]
		assert.True(t, shipment.MethodID().IsEqual(express.ID()))
		assert.True(t, shipment.Cost().IsEqual(usd(t, "2.50")))
		assert.True(t, f.order.ShipmentTotal().IsEqual(usd(t, "2.50")))
	})

	t.Run("should refuse an unavailable method", func(t *testing.T) {
		m := newMachine(t)
		f := newCheckoutFixture(t)

		foreign := buildMethod(t, []string{"DE"}, []kernel.Currency{kernel.USD},
			nil, shipping.MatchAll, nil)
		methods := append(f.methods, foreign)

		err := m.Update(ctx, f.order, map[string]any{services.PatchShippingMethod: foreign.ID()}, methods, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrStageValidation)
	})
}
