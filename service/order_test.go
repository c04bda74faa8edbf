package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"foodiehub/apperr"
	"foodiehub/models"
)

func TestOrderCreate_ComputesTotal(t *testing.T) {
	f := newFixture(t)
	svc := f.orders()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	order, err := svc.Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items: []OrderItemInput{
			{ID: f.itemA.ID, Name: "a", Price: ptr(10.00), Quantity: 2},
			{ID: f.itemB.ID, Name: "b", Price: ptr(5.50), Quantity: 1},
		},
		TotalAmount: ptr(25.50),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 25.50, order.TotalAmount)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "India", order.Country)
	assert.Equal(t, f.indiaMember.ID, order.UserID)
	assert.Equal(t, fixed, order.CreatedAt)
	assert.Len(t, order.Items, 2)

	stored, err := f.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestOrderCreate_RejectsMismatchedTotal(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items:        []OrderItemInput{{ID: f.itemA.ID, Quantity: 2}, {ID: f.itemB.ID, Quantity: 1}},
		TotalAmount:  ptr(1.00),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "25.50")

	orders, err := f.store.ListOrders(context.Background(), f.indiaMember.ID, "India")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderCreate_MergesDuplicateItems(t *testing.T) {
	f := newFixture(t)
	order, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items: []OrderItemInput{
			{ID: f.itemA.ID, Quantity: 1},
			{ID: f.itemB.ID, Quantity: 1},
			{ID: f.itemA.ID, Quantity: 1},
		},
		TotalAmount: ptr(25.5),
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, f.itemA.ID, order.Items[0].ID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "a", order.Items[0].Name)
}

func TestOrderCreate_RejectsOversizedMergedQuantity(t *testing.T) {
	tests := map[string][]int{
		"wrapping quantities": {math.MaxInt, math.MaxInt, 2},
		"merged above limit":  {600, 600},
		"single line above":   {MaxItemQuantity + 1},
	}
	for name, quantities := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			items := make([]OrderItemInput, 0, len(quantities))
			for _, q := range quantities {
				items = append(items, OrderItemInput{ID: f.itemA.ID, Quantity: q})
			}
			_, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
				RestaurantID: f.indiaRestaurant.ID,
				Items:        items,
				TotalAmount:  ptr(0.0),
			})
			assert.ErrorIs(t, err, apperr.ErrValidation)

			orders, err := f.store.ListOrders(context.Background(), f.indiaMember.ID, "India")
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestOrderCreate_MergedQuantityAtLimit(t *testing.T) {
	f := newFixture(t)
	order, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items: []OrderItemInput{
			{ID: f.itemA.ID, Quantity: 400},
			{ID: f.itemA.ID, Quantity: MaxItemQuantity - 400},
		},
		TotalAmount: ptr(10000.0),
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, MaxItemQuantity, order.Items[0].Quantity)
}

func TestOrderCreate_TotalMustMatchExactly(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items:        []OrderItemInput{{ID: f.itemA.ID, Quantity: 2}, {ID: f.itemB.ID, Quantity: 1}},
		TotalAmount:  ptr(25.504),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "25.504")
}

func TestOrderCreate_SnapshotsMenuNames(t *testing.T) {
	f := newFixture(t)
	order, err := f.orders().Create(context.Background(), f.indiaMember, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items:        []OrderItemInput{{ID: f.itemB.ID, Name: "something else", Quantity: 3}},
		TotalAmount:  ptr(16.50),
	})
	require.NoError(t, err)
	assert.Equal(t, "b", order.Items[0].Name)
	assert.Equal(t, 5.50, order.Items[0].Price)
}

func TestOrderCreate_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := func() PlaceOrderInput {
		return PlaceOrderInput{
			RestaurantID: f.indiaRestaurant.ID,
			Items:        []OrderItemInput{{ID: f.itemA.ID, Quantity: 1}},
			TotalAmount:  ptr(10.0),
		}
	}

	tests := []struct {
		name   string
		user   models.User
		mutate func(*PlaceOrderInput)
		want   error
	}{
		{"missing restaurant id", f.indiaMember, func(in *PlaceOrderInput) { in.RestaurantID = "" }, apperr.ErrValidation},
		{"unknown restaurant", f.indiaMember, func(in *PlaceOrderInput) { in.RestaurantID = "nope" }, apperr.ErrNotFound},
		{"other country", f.americaMember, func(*PlaceOrderInput) {}, apperr.ErrForbidden},
		{"country before payload", f.americaMember, func(in *PlaceOrderInput) { in.Items = nil }, apperr.ErrForbidden},
		{"no items", f.indiaMember, func(in *PlaceOrderInput) { in.Items = nil }, apperr.ErrValidation},
		{"empty item id", f.indiaMember, func(in *PlaceOrderInput) { in.Items[0].ID = "" }, apperr.ErrValidation},
		{"zero quantity", f.indiaMember, func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 }, apperr.ErrValidation},
		{"negative price", f.indiaMember, func(in *PlaceOrderInput) { in.Items[0].Price = ptr(-1.0) }, apperr.ErrValidation},
		{"stale price", f.indiaMember, func(in *PlaceOrderInput) { in.Items[0].Price = ptr(9.0) }, apperr.ErrValidation},
		{"missing total", f.indiaMember, func(in *PlaceOrderInput) { in.TotalAmount = nil }, apperr.ErrValidation},
		{"item from another menu", f.indiaMember, func(in *PlaceOrderInput) { in.Items[0].ID = f.burger.ID }, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := f.orders().Create(ctx, tt.user, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderCreate_UnknownRoleForbidden(t *testing.T) {
	f := newFixture(t)
	guest := models.User{ID: "g", Role: "guest", Country: "India"}
	_, err := f.orders().Create(context.Background(), guest, PlaceOrderInput{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestOrderCancel(t *testing.T) {
	f := newFixture(t)
	order := f.placeIndiaOrder(t, f.indiaMember)

	cancelled, err := f.orders().Cancel(context.Background(), f.indiaManager, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, order.TotalAmount, cancelled.TotalAmount)
	assert.Nil(t, cancelled.PaidAt)
}

func TestOrderCancel_AdminOfOtherCountryForbidden(t *testing.T) {
	f := newFixture(t)
	order := f.placeIndiaOrder(t, f.indiaMember)

	_, err := f.orders().Cancel(context.Background(), f.americaAdmin, order.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	stored, err := f.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderCancel_MemberForbidden(t *testing.T) {
	f := newFixture(t)
	order := f.placeIndiaOrder(t, f.indiaMember)
	_, err := f.orders().Cancel(context.Background(), f.indiaMember, order.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestOrderCancel_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders().Cancel(context.Background(), f.indiaAdmin, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOrderTransitions_FromTerminalStates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.orders()

	paid := f.placeIndiaOrder(t, f.indiaMember)
	_, err := svc.Checkout(ctx, f.indiaManager, paid.ID, CheckoutInput{PaymentMethodID: f.indiaCard.ID})
	require.NoError(t, err)

	cancelled := f.placeIndiaOrder(t, f.indiaMember)
	_, err = svc.Cancel(ctx, f.indiaManager, cancelled.ID)
	require.NoError(t, err)

	for _, id := range []string{paid.ID, cancelled.ID} {
		_, err = svc.Cancel(ctx, f.indiaAdmin, id)
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
		_, err = svc.Checkout(ctx, f.indiaAdmin, id, CheckoutInput{PaymentMethodID: f.indiaCard.ID})
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	}
}

func TestOrderCheckout(t *testing.T) {
	f := newFixture(t)
	svc := f.orders()
	fixed := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	order := f.placeIndiaOrder(t, f.indiaMember)
	svc.now = func() time.Time { return fixed }

	paid, err := svc.Checkout(context.Background(), f.indiaAdmin, order.ID, CheckoutInput{PaymentMethodID: f.indiaPayPal.ID})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)
	assert.Equal(t, f.indiaPayPal.ID, paid.PaymentMethodID)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, fixed, *paid.PaidAt)
	assert.Equal(t, fixed, paid.UpdatedAt)
}

func TestOrderCheckout_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeIndiaOrder(t, f.indiaMember)

	_, err := f.orders().Checkout(ctx, f.indiaManager, order.ID, CheckoutInput{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.orders().Checkout(ctx, f.indiaManager, order.ID, CheckoutInput{PaymentMethodID: "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.orders().Checkout(ctx, f.indiaManager, order.ID, CheckoutInput{PaymentMethodID: f.americaCard.ID})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.orders().Checkout(ctx, f.americaAdmin, order.ID, CheckoutInput{})
	assert.ErrorIs(t, err, apperr.ErrForbidden, "country is checked before the payload")

	stored, err := f.store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Empty(t, stored.PaymentMethodID)
}

func TestOrderCheckout_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	order := f.placeIndiaOrder(t, f.indiaMember)
	svc := f.orders()

	methods := []string{f.indiaCard.ID, f.indiaPayPal.ID}
	results := make([]error, len(methods))
	var g errgroup.Group
	for i, pmID := range methods {
		g.Go(func() error {
			_, results[i] = svc.Checkout(context.Background(), f.indiaManager, order.ID, CheckoutInput{PaymentMethodID: pmID})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	winner := -1
	for i, err := range results {
		if err == nil {
			require.Equal(t, -1, winner, "more than one checkout succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	}
	require.NotEqual(t, -1, winner, "no checkout succeeded")

	stored, err := f.store.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.Equal(t, methods[winner], stored.PaymentMethodID)
}

func TestOrderList_IsolatedPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.orders()

	first := f.placeIndiaOrder(t, f.indiaMember)
	second := f.placeIndiaOrder(t, f.indiaMember)

	mine, err := svc.List(ctx, f.indiaMember)
	require.NoError(t, err)
	ids := []string{}
	for _, o := range mine {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	theirs, err := svc.List(ctx, f.otherMember)
	require.NoError(t, err)
	assert.NotNil(t, theirs)
	assert.Empty(t, theirs)
}

func TestOrderList_NewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := f.orders()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var placed []string
	for i := range 3 {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		o, err := svc.Create(context.Background(), f.indiaMember, PlaceOrderInput{
			RestaurantID: f.indiaRestaurant.ID,
			Items:        []OrderItemInput{{ID: f.itemB.ID, Quantity: 1}},
			TotalAmount:  ptr(5.5),
		})
		require.NoError(t, err)
		placed = append(placed, o.ID)
	}

	orders, err := svc.List(context.Background(), f.indiaMember)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, placed[2], orders[0].ID)
	assert.Equal(t, placed[0], orders[2].ID)
}
