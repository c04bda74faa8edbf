// Package seed loads the sample users, restaurants, menus and payment
// methods used for demos and local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"foodiehub/auth"
	"foodiehub/models"
	"foodiehub/store"
)

// SampleUser is a seeded account. Password is the cleartext login password.
type SampleUser struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
	Country  string          `json:"country"`
}

var sampleUsers = []SampleUser{
	{"Nick Fury", "nick.fury@shield.com", "admin123", models.RoleAdmin, "America"},
	{"Captain Marvel", "captain.marvel@shield.com", "manager123", models.RoleManager, "India"},
	{"Captain America", "captain.america@shield.com", "manager123", models.RoleManager, "America"},
	{"Thanos", "thanos@shield.com", "member123", models.RoleMember, "India"},
	{"Thor", "thor@shield.com", "member123", models.RoleMember, "India"},
	{"Travis", "travis@shield.com", "member123", models.RoleMember, "America"},
}

type sampleRestaurant struct {
	restaurant models.Restaurant
	menu       []models.MenuItem
}

var sampleRestaurants = []sampleRestaurant{
	{
		restaurant: models.Restaurant{Name: "Spice Garden", Cuisine: "Indian", Country: "India", Rating: 4.5, DeliveryTime: "30-45 min",
			Image: "https://images.unsplash.com/photo-1585937421612-70a008356fbe?w=400"},
		menu: []models.MenuItem{
			{Name: "Butter Chicken", Description: "Creamy tomato-based curry with tender chicken", Price: 12.99, Category: "Main Course"},
			{Name: "Biryani", Description: "Fragrant basmati rice with spices and meat", Price: 14.99, Category: "Main Course"},
			{Name: "Naan Bread", Description: "Fresh baked Indian bread", Price: 3.99, Category: "Sides"},
		},
	},
	{
		restaurant: models.Restaurant{Name: "Mumbai Express", Cuisine: "Indian", Country: "India", Rating: 4.2, DeliveryTime: "25-40 min",
			Image: "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=400"},
		menu: []models.MenuItem{
			{Name: "Tandoori Chicken", Description: "Marinated chicken cooked in tandoor oven", Price: 13.99, Category: "Main Course"},
			{Name: "Dal Makhani", Description: "Rich and creamy black lentil curry", Price: 9.99, Category: "Main Course"},
		},
	},
	{
		restaurant: models.Restaurant{Name: "American Diner", Cuisine: "American", Country: "America", Rating: 4.3, DeliveryTime: "20-35 min",
			Image: "https://images.unsplash.com/photo-1571091718767-18b5b1457add?w=400"},
		menu: []models.MenuItem{
			{Name: "Classic Cheeseburger", Description: "Beef patty with cheese, lettuce, tomato", Price: 11.99, Category: "Main Course"},
			{Name: "Caesar Salad", Description: "Fresh romaine lettuce with caesar dressing", Price: 8.99, Category: "Salads"},
			{Name: "French Fries", Description: "Crispy golden french fries", Price: 4.99, Category: "Sides"},
		},
	},
	{
		restaurant: models.Restaurant{Name: "Burger Palace", Cuisine: "Fast Food", Country: "America", Rating: 4.1, DeliveryTime: "15-25 min",
			Image: "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400"},
		menu: []models.MenuItem{
			{Name: "Double Bacon Burger", Description: "Two beef patties with bacon and cheese", Price: 15.99, Category: "Main Course"},
			{Name: "Chicken Wings", Description: "Spicy buffalo chicken wings", Price: 9.99, Category: "Appetizers"},
		},
	},
}

var samplePayments = []models.PaymentMethod{
	{Type: models.PaymentCreditCard, CardNumber: "**** **** **** 1234", ExpiryDate: "12/25", HolderName: "Nick Fury", Country: "America"},
	{Type: models.PaymentDebitCard, CardNumber: "**** **** **** 5678", ExpiryDate: "06/26", HolderName: "SHIELD Organization", Country: "America"},
	{Type: models.PaymentCreditCard, CardNumber: "**** **** **** 9012", ExpiryDate: "03/27", HolderName: "Captain Marvel", Country: "India"},
}

// SampleUsers returns the seeded accounts with their login passwords.
func SampleUsers() []SampleUser {
	out := make([]SampleUser, len(sampleUsers))
	copy(out, sampleUsers)
	return out
}

// Run inserts the sample data unless the first sample user already exists.
// It reports whether anything was inserted.
func Run(ctx context.Context, s store.Store, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	_, err := s.FindUserByEmail(ctx, sampleUsers[0].Email)
	if err == nil {
		logger.InfoContext(ctx, "sample data already present; skipping seed")
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("check existing seed: %w", err)
	}

	now := time.Now().UTC()
	for _, u := range sampleUsers {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return false, fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		_, err = s.CreateUser(ctx, models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         u.Role,
			Country:      u.Country,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	items := 0
	for _, sr := range sampleRestaurants {
		r, err := s.CreateRestaurant(ctx, sr.restaurant)
		if err != nil {
			return false, fmt.Errorf("seed restaurant %s: %w", sr.restaurant.Name, err)
		}
		for _, item := range sr.menu {
			item.RestaurantID = r.ID
			if _, err := s.CreateMenuItem(ctx, item); err != nil {
				return false, fmt.Errorf("seed menu item %s: %w", item.Name, err)
			}
			items++
		}
	}

	for i, pm := range samplePayments {
		// Distinct timestamps keep the listing order stable.
		pm.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		pm.UpdatedAt = pm.CreatedAt
		if _, err := s.CreatePaymentMethod(ctx, pm); err != nil {
			return false, fmt.Errorf("seed payment method %s: %w", pm.CardNumber, err)
		}
	}

	logger.InfoContext(ctx, "sample data seeded",
		slog.Int("users", len(sampleUsers)),
		slog.Int("restaurants", len(sampleRestaurants)),
		slog.Int("menu_items", items),
		slog.Int("payment_methods", len(samplePayments)))
	return true, nil
}
