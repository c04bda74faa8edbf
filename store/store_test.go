package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodiehub/models"
)

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("restaurants", func(t *testing.T) { testRestaurants(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore(t)) })
	t.Run("transition", func(t *testing.T) { testTransition(t, newStore(t)) })
	t.Run("payment methods", func(t *testing.T) { testPaymentMethods(t, newStore(t)) })
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()
	created, err := s.CreateUser(ctx, models.User{
		Name: "Thor", Email: "thor@shield.com", PasswordHash: "hash",
		Role: models.RoleMember, Country: "India",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := s.FindUserByEmail(ctx, "thor@shield.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := s.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "India", byID.Country)

	_, err = s.CreateUser(ctx, models.User{Name: "Other", Email: "thor@shield.com", PasswordHash: "x", Role: models.RoleMember, Country: "India"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.FindUserByEmail(ctx, "THOR@shield.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testRestaurants(t *testing.T, s Store) {
	ctx := context.Background()
	spice, err := s.CreateRestaurant(ctx, models.Restaurant{Name: "Spice Garden", Country: "India", Rating: 4.5})
	require.NoError(t, err)
	_, err = s.CreateRestaurant(ctx, models.Restaurant{Name: "Mumbai Express", Country: "India"})
	require.NoError(t, err)
	_, err = s.CreateRestaurant(ctx, models.Restaurant{Name: "Burger Palace", Country: "America"})
	require.NoError(t, err)

	india, err := s.ListRestaurants(ctx, "India")
	require.NoError(t, err)
	require.Len(t, india, 2)
	assert.Equal(t, "Mumbai Express", india[0].Name)

	none, err := s.ListRestaurants(ctx, "Atlantis")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	got, err := s.GetRestaurant(ctx, spice.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.Rating, 0.0001)
	_, err = s.GetRestaurant(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: spice.ID, Name: "Naan Bread", Price: 3.99})
	require.NoError(t, err)
	_, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: spice.ID, Name: "Biryani", Price: 14.99})
	require.NoError(t, err)
	_, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: "other", Name: "Fries", Price: 4.99})
	require.NoError(t, err)

	menu, err := s.ListMenuItems(ctx, spice.ID)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "Biryani", menu[0].Name)
}

func newTestOrder(userID, country string, createdAt time.Time) models.Order {
	return models.Order{
		UserID:       userID,
		RestaurantID: "r1",
		Items:        []models.OrderItem{{ID: "a", Name: "Burger", Price: 10, Quantity: 2}},
		TotalAmount:  20,
		Status:       models.StatusPending,
		Country:      country,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func testOrders(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	older, err := s.CreateOrder(ctx, newTestOrder("u1", "India", base))
	require.NoError(t, err)
	newer, err := s.CreateOrder(ctx, newTestOrder("u1", "India", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, newTestOrder("u2", "India", base))
	require.NoError(t, err)
	_, err = s.CreateOrder(ctx, newTestOrder("u1", "America", base))
	require.NoError(t, err)

	orders, err := s.ListOrders(ctx, "u1", "India")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)

	got, err := s.GetOrder(ctx, older.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Burger", got.Items[0].Name)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Nil(t, got.PaidAt)

	_, err = s.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testTransition(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	order, err := s.CreateOrder(ctx, newTestOrder("u1", "India", now))
	require.NoError(t, err)

	paidAt := now.Add(time.Hour)
	paid, err := s.TransitionOrder(ctx, order.ID, models.StatusPending, models.OrderTransition{
		Status: models.StatusPaid, PaymentMethodID: "pm1", PaidAt: &paidAt, UpdatedAt: paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, paid.Status)
	assert.Equal(t, "pm1", paid.PaymentMethodID)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, paidAt, *paid.PaidAt, time.Millisecond)
	assert.InDelta(t, 20.0, paid.TotalAmount, 0.0001)

	_, err = s.TransitionOrder(ctx, order.ID, models.StatusPending, models.OrderTransition{
		Status: models.StatusCancelled, UpdatedAt: paidAt,
	})
	assert.ErrorIs(t, err, ErrStatusChanged)

	stored, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, stored.Status)
	assert.Equal(t, "pm1", stored.PaymentMethodID)

	_, err = s.TransitionOrder(ctx, "missing", models.StatusPending, models.OrderTransition{Status: models.StatusCancelled})
	assert.ErrorIs(t, err, ErrNotFound)
}

func testPaymentMethods(t *testing.T, s Store) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	pm, err := s.CreatePaymentMethod(ctx, models.PaymentMethod{
		Type: models.PaymentCreditCard, CardNumber: "**** **** **** 1234", ExpiryDate: "12/27",
		HolderName: "Nick Fury", Country: "America", CreatedAt: created, UpdatedAt: created,
	})
	require.NoError(t, err)
	_, err = s.CreatePaymentMethod(ctx, models.PaymentMethod{
		Type: models.PaymentPayPal, HolderName: "Captain Marvel", Country: "India", CreatedAt: created, UpdatedAt: created,
	})
	require.NoError(t, err)

	america, err := s.ListPaymentMethods(ctx, "America")
	require.NoError(t, err)
	require.Len(t, america, 1)
	assert.Equal(t, pm.ID, america[0].ID)

	updatedAt := created.Add(time.Hour)
	updated, err := s.UpdatePaymentMethod(ctx, models.PaymentMethod{
		ID: pm.ID, Type: models.PaymentDebitCard, CardNumber: "************5678", ExpiryDate: "01/28",
		HolderName: "SHIELD", Country: "India", UpdatedAt: updatedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentDebitCard, updated.Type)
	assert.Equal(t, "************5678", updated.CardNumber)
	assert.Equal(t, "America", updated.Country, "country is never rewritten")
	assert.WithinDuration(t, created, updated.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, updatedAt, updated.UpdatedAt, time.Millisecond)

	_, err = s.UpdatePaymentMethod(ctx, models.PaymentMethod{ID: "missing", Type: models.PaymentPayPal})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeletePaymentMethod(ctx, pm.ID))
	_, err = s.GetPaymentMethod(ctx, pm.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeletePaymentMethod(ctx, pm.ID), ErrNotFound)
}
