package service

import (
	"context"
	"fmt"

	"foodiehub/guard"
	"foodiehub/models"
	"foodiehub/store"
)

// CatalogService serves the restaurants and menus of the caller's country.
type CatalogService struct {
	restaurants store.Restaurants
}

func NewCatalogService(restaurants store.Restaurants) *CatalogService {
	return &CatalogService{restaurants: restaurants}
}

// Restaurants lists the restaurants located in the user's country.
func (s *CatalogService) Restaurants(ctx context.Context, user models.User) ([]models.Restaurant, error) {
	restaurants, err := s.restaurants.ListRestaurants(ctx, user.Country)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// Menu lists the menu of a restaurant in the user's country.
func (s *CatalogService) Menu(ctx context.Context, user models.User, restaurantID string) ([]models.MenuItem, error) {
	restaurant, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, lookupErr("restaurant", err)
	}
	if err := guard.AuthorizeCountry(user, restaurant.Country); err != nil {
		return nil, err
	}
	items, err := s.restaurants.ListMenuItems(ctx, restaurant.ID)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}
