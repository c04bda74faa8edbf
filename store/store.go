// Package store persists users, restaurants, menu items, orders and payment
// methods. Three backends implement Store: Mongo (the document database),
// Gorm (SQLite or Postgres) and Memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foodiehub/models"
)

var (
	// ErrNotFound indicates a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness conflict.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrStatusChanged indicates a conditional order update found the order
	// in a different status than expected.
	ErrStatusChanged = errors.New("order status changed")
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Users interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
}

type Restaurants interface {
	CreateRestaurant(ctx context.Context, r models.Restaurant) (models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (models.Restaurant, error)
	ListRestaurants(ctx context.Context, country string) ([]models.Restaurant, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
}

type Orders interface {
	CreateOrder(ctx context.Context, order models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	// ListOrders returns the orders of userID in country, newest first.
	ListOrders(ctx context.Context, userID, country string) ([]models.Order, error)
	// TransitionOrder applies t only if the stored status still equals from.
	// It returns ErrStatusChanged when the order exists in another status.
	TransitionOrder(ctx context.Context, id string, from models.OrderStatus, t models.OrderTransition) (models.Order, error)
}

type PaymentMethods interface {
	CreatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (models.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, country string) ([]models.PaymentMethod, error)
	// UpdatePaymentMethod overwrites type, card number, expiry, holder and
	// updated time. Country and created time are never changed.
	UpdatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id string) error
}

// Store is the full persistence surface used by the services.
type Store interface {
	Users
	Restaurants
	Orders
	PaymentMethods
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Driver        string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	Timeout       time.Duration
}

// Open connects to the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return OpenSQLite(cfg.DatabaseURL, cfg.Timeout)
	case DriverPostgres:
		return OpenPostgres(cfg.DatabaseURL, cfg.Timeout)
	case DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.Timeout)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func newID() string {
	return uuid.NewString()
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
