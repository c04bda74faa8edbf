package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"foodiehub/apperr"
	"foodiehub/guard"
	"foodiehub/models"
	"foodiehub/statemachine"
	"foodiehub/store"
)

// PlaceOrderInput is the payload of a new order. Item names and prices are
// optional; when a price is sent it must equal the current menu price.
// TotalAmount must equal the computed total exactly, with no rounding.
type PlaceOrderInput struct {
	RestaurantID string           `json:"restaurantId" validate:"required"`
	Items        []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	TotalAmount  *float64         `json:"totalAmount" validate:"required,gte=0"`
}

// MaxItemQuantity bounds the quantity of one order line, after duplicate
// lines are merged.
const MaxItemQuantity = 1000

type OrderItemInput struct {
	ID       string   `json:"id" validate:"required"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity int      `json:"quantity" validate:"gte=1,lte=1000"`
}

type CheckoutInput struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
}

// OrderService places orders and drives them through the status lifecycle.
type OrderService struct {
	restaurants store.Restaurants
	orders      store.Orders
	payments    store.PaymentMethods
	logger      *slog.Logger
	now         func() time.Time
}

func NewOrderService(restaurants store.Restaurants, orders store.Orders, payments store.PaymentMethods, logger *slog.Logger) *OrderService {
	return &OrderService{
		restaurants: restaurants,
		orders:      orders,
		payments:    payments,
		logger:      orDefault(logger),
		now:         utcNow,
	}
}

// Create places a pending order at a restaurant of the user's country. The
// total is recomputed from menu prices and must match the client's total.
func (s *OrderService) Create(ctx context.Context, user models.User, in PlaceOrderInput) (models.Order, error) {
	if err := guard.AuthorizeRole(user, guard.OrderPlacers...); err != nil {
		return models.Order{}, err
	}
	if in.RestaurantID == "" {
		return models.Order{}, fmt.Errorf("%w: restaurantId is required", apperr.ErrValidation)
	}
	restaurant, err := s.restaurants.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return models.Order{}, lookupErr("restaurant", err)
	}
	if err := guard.AuthorizeCountry(user, restaurant.Country); err != nil {
		return models.Order{}, err
	}
	if err := validateStruct(in); err != nil {
		return models.Order{}, err
	}

	menu, err := s.restaurants.ListMenuItems(ctx, restaurant.ID)
	if err != nil {
		return models.Order{}, fmt.Errorf("list menu items: %w", err)
	}
	items, total, err := priceItems(in.Items, menu)
	if err != nil {
		return models.Order{}, err
	}
	if claimed := decimal.NewFromFloat(*in.TotalAmount); !claimed.Equal(total) {
		return models.Order{}, fmt.Errorf("%w: totalAmount %s does not match computed total %s",
			apperr.ErrValidation, claimed.String(), total.StringFixed(2))
	}

	now := s.now()
	order, err := s.orders.CreateOrder(ctx, models.Order{
		UserID:       user.ID,
		RestaurantID: restaurant.ID,
		Items:        items,
		TotalAmount:  total.InexactFloat64(),
		Status:       models.StatusPending,
		Country:      user.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("user_id", user.ID),
		slog.String("restaurant_id", restaurant.ID),
		slog.String("total", total.StringFixed(2)))
	return order, nil
}

// priceItems merges duplicate ids, snapshots names and prices from the menu
// and returns the order total rounded to cents.
func priceItems(in []OrderItemInput, menu []models.MenuItem) ([]models.OrderItem, decimal.Decimal, error) {
	byID := make(map[string]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := make([]models.OrderItem, 0, len(in))
	index := make(map[string]int, len(in))
	for _, it := range in {
		m, ok := byID[it.ID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("%w: item %q is not on this restaurant's menu", apperr.ErrValidation, it.ID)
		}
		menuPrice := decimal.NewFromFloat(m.Price).Round(2)
		if it.Price != nil && !decimal.NewFromFloat(*it.Price).Round(2).Equal(menuPrice) {
			return nil, decimal.Zero, fmt.Errorf("%w: price of %q is %s, not %s",
				apperr.ErrValidation, m.Name, menuPrice.StringFixed(2), decimal.NewFromFloat(*it.Price).StringFixed(2))
		}
		if i, seen := index[it.ID]; seen {
			if items[i].Quantity > MaxItemQuantity-it.Quantity {
				return nil, decimal.Zero, fmt.Errorf("%w: quantity of %q must be at most %d",
					apperr.ErrValidation, m.Name, MaxItemQuantity)
			}
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(items)
		items = append(items, models.OrderItem{
			ID:       m.ID,
			Name:     m.Name,
			Price:    menuPrice.InexactFloat64(),
			Quantity: it.Quantity,
		})
	}

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return items, total.Round(2), nil
}

// Cancel moves a pending order of the user's country to cancelled.
func (s *OrderService) Cancel(ctx context.Context, user models.User, orderID string) (models.Order, error) {
	order, err := s.load(ctx, user, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, user.Role); err != nil {
		return models.Order{}, err
	}
	updated, err := s.transition(ctx, order, models.OrderTransition{
		Status:    models.StatusCancelled,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return models.Order{}, err
	}
	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", order.ID),
		slog.String("by", user.ID))
	return updated, nil
}

// Checkout pays a pending order with a payment method of the user's country.
// Payment is simulated: only the order status and payment fields change.
func (s *OrderService) Checkout(ctx context.Context, user models.User, orderID string, in CheckoutInput) (models.Order, error) {
	order, err := s.load(ctx, user, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if err := validateStruct(in); err != nil {
		return models.Order{}, err
	}
	if err := statemachine.CanTransition(order.Status, models.StatusPaid, user.Role); err != nil {
		return models.Order{}, err
	}
	pm, err := s.payments.GetPaymentMethod(ctx, in.PaymentMethodID)
	if err != nil {
		return models.Order{}, lookupErr("payment method", err)
	}
	if err := guard.AuthorizeCountry(user, pm.Country); err != nil {
		return models.Order{}, err
	}

	now := s.now()
	updated, err := s.transition(ctx, order, models.OrderTransition{
		Status:          models.StatusPaid,
		PaymentMethodID: pm.ID,
		PaidAt:          &now,
		UpdatedAt:       now,
	})
	if err != nil {
		return models.Order{}, err
	}
	s.logger.InfoContext(ctx, "order paid",
		slog.String("order_id", order.ID),
		slog.String("payment_method_id", pm.ID),
		slog.String("by", user.ID))
	return updated, nil
}

// List returns the user's own orders in their country, newest first.
func (s *OrderService) List(ctx context.Context, user models.User) ([]models.Order, error) {
	orders, err := s.orders.ListOrders(ctx, user.ID, user.Country)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// load fetches an order the user may manage: role first, then country.
func (s *OrderService) load(ctx context.Context, user models.User, orderID string) (models.Order, error) {
	if err := guard.AuthorizeRole(user, guard.OrderManagers...); err != nil {
		return models.Order{}, err
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return models.Order{}, lookupErr("order", err)
	}
	if err := guard.AuthorizeCountry(user, order.Country); err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *OrderService) transition(ctx context.Context, order models.Order, t models.OrderTransition) (models.Order, error) {
	updated, err := s.orders.TransitionOrder(ctx, order.ID, order.Status, t)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, store.ErrStatusChanged):
		return models.Order{}, fmt.Errorf("%w: order %s is no longer %s", apperr.ErrInvalidTransition, order.ID, order.Status)
	default:
		return models.Order{}, lookupErr("order", err)
	}
}
