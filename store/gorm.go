package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"foodiehub/models"
)

var _ Store = (*Gorm)(nil)

// Gorm persists records in a relational database through GORM.
type Gorm struct {
	db      *gorm.DB
	timeout time.Duration
}

// OpenSQLite opens (or creates) a SQLite database at path. Writers are
// serialized over a single connection.
func OpenSQLite(path string, timeout time.Duration) (*Gorm, error) {
	if path == "" {
		path = "foodiehub.db"
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sqlite sql db handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return NewGorm(db, timeout)
}

// OpenPostgres connects to the Postgres database described by dsn.
func OpenPostgres(dsn string, timeout time.Duration) (*Gorm, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	return NewGorm(db, timeout)
}

// NewGorm wraps an open connection and migrates every model.
func NewGorm(db *gorm.DB, timeout time.Duration) (*Gorm, error) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Order{},
		&models.PaymentMethod{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Gorm{db: db, timeout: timeout}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

func (s *Gorm) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Gorm) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Gorm) create(ctx context.Context, value any) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.WithContext(ctx).Create(value).Error; err != nil {
		if isDuplicate(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Gorm) first(ctx context.Context, dest any, query string, args ...any) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Gorm) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := s.create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Gorm) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "email = ?", email); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Gorm) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "id = ?", id); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Gorm) CreateRestaurant(ctx context.Context, r models.Restaurant) (models.Restaurant, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	if err := s.create(ctx, &r); err != nil {
		return models.Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

func (s *Gorm) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	var r models.Restaurant
	if err := s.first(ctx, &r, "id = ?", id); err != nil {
		return models.Restaurant{}, err
	}
	return r, nil
}

func (s *Gorm) ListRestaurants(ctx context.Context, country string) ([]models.Restaurant, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	restaurants := []models.Restaurant{}
	err := s.db.WithContext(ctx).Where("country = ?", country).Order("name").Find(&restaurants).Error
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

func (s *Gorm) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == "" {
		item.ID = newID()
	}
	if err := s.create(ctx, &item); err != nil {
		return models.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (s *Gorm) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	items := []models.MenuItem{}
	err := s.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("name").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

func (s *Gorm) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = newID()
	}
	if err := s.create(ctx, &order); err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *Gorm) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	if err := s.first(ctx, &o, "id = ?", id); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (s *Gorm) ListOrders(ctx context.Context, userID, country string) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND country = ?", userID, country).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Gorm) TransitionOrder(ctx context.Context, id string, from models.OrderStatus, t models.OrderTransition) (models.Order, error) {
	updates := map[string]any{
		"status":     t.Status,
		"updated_at": t.UpdatedAt,
	}
	if t.PaymentMethodID != "" {
		updates["payment_method_id"] = t.PaymentMethodID
	}
	if t.PaidAt != nil {
		updates["paid_at"] = *t.PaidAt
	}

	opCtx, cancel := withTimeout(ctx, s.timeout)
	res := s.db.WithContext(opCtx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	cancel()
	if res.Error != nil {
		return models.Order{}, fmt.Errorf("update order status: %w", res.Error)
	}

	current, err := s.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if res.RowsAffected == 0 {
		return models.Order{}, ErrStatusChanged
	}
	return current, nil
}

func (s *Gorm) CreatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	if pm.ID == "" {
		pm.ID = newID()
	}
	if err := s.create(ctx, &pm); err != nil {
		return models.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}
	return pm, nil
}

func (s *Gorm) GetPaymentMethod(ctx context.Context, id string) (models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := s.first(ctx, &pm, "id = ?", id); err != nil {
		return models.PaymentMethod{}, err
	}
	return pm, nil
}

func (s *Gorm) ListPaymentMethods(ctx context.Context, country string) ([]models.PaymentMethod, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	methods := []models.PaymentMethod{}
	err := s.db.WithContext(ctx).Where("country = ?", country).Order("created_at").Find(&methods).Error
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (s *Gorm) UpdatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	opCtx, cancel := withTimeout(ctx, s.timeout)
	res := s.db.WithContext(opCtx).
		Model(&models.PaymentMethod{}).
		Where("id = ?", pm.ID).
		Updates(map[string]any{
			"type":        pm.Type,
			"card_number": pm.CardNumber,
			"expiry_date": pm.ExpiryDate,
			"holder_name": pm.HolderName,
			"updated_at":  pm.UpdatedAt,
		})
	cancel()
	if res.Error != nil {
		return models.PaymentMethod{}, fmt.Errorf("update payment method: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.PaymentMethod{}, ErrNotFound
	}
	return s.GetPaymentMethod(ctx, pm.ID)
}

func (s *Gorm) DeletePaymentMethod(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return fmt.Errorf("delete payment method: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
