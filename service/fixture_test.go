package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"foodiehub/models"
	"foodiehub/store"
)

type fixture struct {
	store *store.Memory

	indiaAdmin    models.User
	indiaManager  models.User
	indiaMember   models.User
	otherMember   models.User
	americaAdmin  models.User
	americaMember models.User

	indiaRestaurant   models.Restaurant
	americaRestaurant models.Restaurant
	itemA             models.MenuItem
	itemB             models.MenuItem
	burger            models.MenuItem

	indiaCard   models.PaymentMethod
	indiaPayPal models.PaymentMethod
	americaCard models.PaymentMethod
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemory()
	f := &fixture{store: s}

	user := func(name string, role models.UserRole, country string) models.User {
		u, err := s.CreateUser(ctx, models.User{Name: name, Email: name + "@shield.com", Role: role, Country: country})
		require.NoError(t, err)
		return u
	}
	f.indiaAdmin = user("india.admin", models.RoleAdmin, "India")
	f.indiaManager = user("marvel", models.RoleManager, "India")
	f.indiaMember = user("thanos", models.RoleMember, "India")
	f.otherMember = user("thor", models.RoleMember, "India")
	f.americaAdmin = user("fury", models.RoleAdmin, "America")
	f.americaMember = user("travis", models.RoleMember, "America")

	var err error
	f.indiaRestaurant, err = s.CreateRestaurant(ctx, models.Restaurant{Name: "Spice Garden", Country: "India"})
	require.NoError(t, err)
	f.americaRestaurant, err = s.CreateRestaurant(ctx, models.Restaurant{Name: "American Diner", Country: "America"})
	require.NoError(t, err)

	f.itemA, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: f.indiaRestaurant.ID, Name: "a", Price: 10.00})
	require.NoError(t, err)
	f.itemB, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: f.indiaRestaurant.ID, Name: "b", Price: 5.50})
	require.NoError(t, err)
	f.burger, err = s.CreateMenuItem(ctx, models.MenuItem{RestaurantID: f.americaRestaurant.ID, Name: "Classic Cheeseburger", Price: 11.99})
	require.NoError(t, err)

	now := time.Now().UTC()
	payment := func(typ models.PaymentType, number, country string, offset time.Duration) models.PaymentMethod {
		pm, err := s.CreatePaymentMethod(ctx, models.PaymentMethod{
			Type: typ, CardNumber: number, ExpiryDate: "12/29", HolderName: "Holder",
			Country: country, CreatedAt: now.Add(offset), UpdatedAt: now.Add(offset),
		})
		require.NoError(t, err)
		return pm
	}
	f.indiaCard = payment(models.PaymentCreditCard, "**** **** **** 9012", "India", 0)
	f.indiaPayPal = payment(models.PaymentPayPal, "", "India", time.Second)
	f.americaCard = payment(models.PaymentDebitCard, "**** **** **** 5678", "America", 0)
	return f
}

func (f *fixture) orders() *OrderService {
	return NewOrderService(f.store, f.store, f.store, nil)
}

func (f *fixture) placeIndiaOrder(t *testing.T, by models.User) models.Order {
	t.Helper()
	order, err := f.orders().Create(context.Background(), by, PlaceOrderInput{
		RestaurantID: f.indiaRestaurant.ID,
		Items:        []OrderItemInput{{ID: f.itemA.ID, Quantity: 2}, {ID: f.itemB.ID, Quantity: 1}},
		TotalAmount:  ptr(25.50),
	})
	require.NoError(t, err)
	return order
}

func ptr[T any](v T) *T { return &v }
