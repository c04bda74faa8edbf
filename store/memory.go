package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"foodiehub/models"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store backed by maps.
// It is intended for tests and local development wiring.
type Memory struct {
	mu sync.RWMutex

	users       map[string]models.User
	restaurants map[string]models.Restaurant
	menuItems   map[string]models.MenuItem
	orders      map[string]models.Order
	payments    map[string]models.PaymentMethod
}

func NewMemory() *Memory {
	return &Memory{
		users:       make(map[string]models.User),
		restaurants: make(map[string]models.Restaurant),
		menuItems:   make(map[string]models.MenuItem),
		orders:      make(map[string]models.Order),
		payments:    make(map[string]models.PaymentMethod),
	}
}

func (m *Memory) Ping(context.Context) error  { return nil }
func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = newID()
	}
	if _, ok := m.users[user.ID]; ok {
		return models.User{}, ErrAlreadyExists
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, ErrAlreadyExists
		}
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *Memory) FindUserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateRestaurant(_ context.Context, r models.Restaurant) (models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = newID()
	}
	if _, ok := m.restaurants[r.ID]; ok {
		return models.Restaurant{}, ErrAlreadyExists
	}
	m.restaurants[r.ID] = r
	return r, nil
}

func (m *Memory) GetRestaurant(_ context.Context, id string) (models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[id]
	if !ok {
		return models.Restaurant{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) ListRestaurants(_ context.Context, country string) ([]models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Restaurant{}
	for _, r := range m.restaurants {
		if r.Country == country {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateMenuItem(_ context.Context, item models.MenuItem) (models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == "" {
		item.ID = newID()
	}
	if _, ok := m.menuItems[item.ID]; ok {
		return models.MenuItem{}, ErrAlreadyExists
	}
	m.menuItems[item.ID] = item
	return item, nil
}

func (m *Memory) ListMenuItems(_ context.Context, restaurantID string) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.MenuItem{}
	for _, item := range m.menuItems {
		if item.RestaurantID == restaurantID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) CreateOrder(_ context.Context, order models.Order) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == "" {
		order.ID = newID()
	}
	if _, ok := m.orders[order.ID]; ok {
		return models.Order{}, ErrAlreadyExists
	}
	order = cloneOrder(order)
	m.orders[order.ID] = order
	return cloneOrder(order), nil
}

func (m *Memory) GetOrder(_ context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (m *Memory) ListOrders(_ context.Context, userID, country string) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if o.UserID == userID && o.Country == country {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) TransitionOrder(_ context.Context, id string, from models.OrderStatus, t models.OrderTransition) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	if o.Status != from {
		return models.Order{}, ErrStatusChanged
	}
	o.Status = t.Status
	o.UpdatedAt = t.UpdatedAt
	if t.PaymentMethodID != "" {
		o.PaymentMethodID = t.PaymentMethodID
	}
	if t.PaidAt != nil {
		paidAt := *t.PaidAt
		o.PaidAt = &paidAt
	}
	m.orders[id] = o
	return cloneOrder(o), nil
}

func (m *Memory) CreatePaymentMethod(_ context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pm.ID == "" {
		pm.ID = newID()
	}
	if _, ok := m.payments[pm.ID]; ok {
		return models.PaymentMethod{}, ErrAlreadyExists
	}
	m.payments[pm.ID] = pm
	return pm, nil
}

func (m *Memory) GetPaymentMethod(_ context.Context, id string) (models.PaymentMethod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pm, ok := m.payments[id]
	if !ok {
		return models.PaymentMethod{}, ErrNotFound
	}
	return pm, nil
}

func (m *Memory) ListPaymentMethods(_ context.Context, country string) ([]models.PaymentMethod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.PaymentMethod{}
	for _, pm := range m.payments {
		if pm.Country == country {
			out = append(out, pm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdatePaymentMethod(_ context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.payments[pm.ID]
	if !ok {
		return models.PaymentMethod{}, ErrNotFound
	}
	existing.Type = pm.Type
	existing.CardNumber = pm.CardNumber
	existing.ExpiryDate = pm.ExpiryDate
	existing.HolderName = pm.HolderName
	existing.UpdatedAt = pm.UpdatedAt
	m.payments[pm.ID] = existing
	return existing, nil
}

func (m *Memory) DeletePaymentMethod(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[id]; !ok {
		return ErrNotFound
	}
	delete(m.payments, id)
	return nil
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	if o.PaidAt != nil {
		paidAt := *o.PaidAt
		o.PaidAt = &paidAt
	}
	return o
}
