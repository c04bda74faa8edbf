package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"foodiehub/models"
)

var _ Store = (*Mongo)(nil)

const (
	usersCollection          = "users"
	restaurantsCollection    = "restaurants"
	menuItemsCollection      = "menuItems"
	ordersCollection         = "orders"
	paymentMethodsCollection = "paymentMethods"
)

// Mongo persists records as documents in a MongoDB database.
type Mongo struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// OpenMongo connects to uri, verifies the connection and ensures indexes.
func OpenMongo(ctx context.Context, uri, database string, timeout time.Duration) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		database = "foodiehub"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	m := &Mongo{client: client, db: client.Database(database), timeout: timeout}
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		restaurantsCollection: {
			{Keys: bson.D{{Key: "country", Value: 1}}},
		},
		menuItemsCollection: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}}},
		},
		ordersCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "country", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		paymentMethodsCollection: {
			{Keys: bson.D{{Key: "country", Value: 1}}},
		},
	}
	for name, idx := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) insert(ctx context.Context, collection string, doc any) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (m *Mongo) findOne(ctx context.Context, collection string, filter bson.M, dest any) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	if err := m.db.Collection(collection).FindOne(ctx, filter).Decode(dest); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (m *Mongo) find(ctx context.Context, collection string, filter bson.M, sort bson.D, dest any) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := m.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, dest)
}

func (m *Mongo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := m.insert(ctx, usersCollection, user); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := m.findOne(ctx, usersCollection, bson.M{"email": email}, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (m *Mongo) FindUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := m.findOne(ctx, usersCollection, bson.M{"_id": id}, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (m *Mongo) CreateRestaurant(ctx context.Context, r models.Restaurant) (models.Restaurant, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	if err := m.insert(ctx, restaurantsCollection, r); err != nil {
		return models.Restaurant{}, fmt.Errorf("create restaurant: %w", err)
	}
	return r, nil
}

func (m *Mongo) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	var r models.Restaurant
	if err := m.findOne(ctx, restaurantsCollection, bson.M{"_id": id}, &r); err != nil {
		return models.Restaurant{}, err
	}
	return r, nil
}

func (m *Mongo) ListRestaurants(ctx context.Context, country string) ([]models.Restaurant, error) {
	restaurants := []models.Restaurant{}
	sort := bson.D{{Key: "name", Value: 1}}
	if err := m.find(ctx, restaurantsCollection, bson.M{"country": country}, sort, &restaurants); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

func (m *Mongo) CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == "" {
		item.ID = newID()
	}
	if err := m.insert(ctx, menuItemsCollection, item); err != nil {
		return models.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (m *Mongo) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	sort := bson.D{{Key: "name", Value: 1}}
	if err := m.find(ctx, menuItemsCollection, bson.M{"restaurant_id": restaurantID}, sort, &items); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

func (m *Mongo) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	if order.ID == "" {
		order.ID = newID()
	}
	if err := m.insert(ctx, ordersCollection, order); err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (m *Mongo) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	if err := m.findOne(ctx, ordersCollection, bson.M{"_id": id}, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (m *Mongo) ListOrders(ctx context.Context, userID, country string) ([]models.Order, error) {
	orders := []models.Order{}
	filter := bson.M{"user_id": userID, "country": country}
	sort := bson.D{{Key: "created_at", Value: -1}}
	if err := m.find(ctx, ordersCollection, filter, sort, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (m *Mongo) TransitionOrder(ctx context.Context, id string, from models.OrderStatus, t models.OrderTransition) (models.Order, error) {
	set := bson.M{
		"status":     t.Status,
		"updated_at": t.UpdatedAt,
	}
	if t.PaymentMethodID != "" {
		set["payment_method_id"] = t.PaymentMethodID
	}
	if t.PaidAt != nil {
		set["paid_at"] = *t.PaidAt
	}

	opCtx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	var updated models.Order
	err := m.db.Collection(ordersCollection).FindOneAndUpdate(
		opCtx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, fmt.Errorf("update order status: %w", err)
	}
	if _, err := m.GetOrder(ctx, id); err != nil {
		return models.Order{}, err
	}
	return models.Order{}, ErrStatusChanged
}

func (m *Mongo) CreatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	if pm.ID == "" {
		pm.ID = newID()
	}
	if err := m.insert(ctx, paymentMethodsCollection, pm); err != nil {
		return models.PaymentMethod{}, fmt.Errorf("create payment method: %w", err)
	}
	return pm, nil
}

func (m *Mongo) GetPaymentMethod(ctx context.Context, id string) (models.PaymentMethod, error) {
	var pm models.PaymentMethod
	if err := m.findOne(ctx, paymentMethodsCollection, bson.M{"_id": id}, &pm); err != nil {
		return models.PaymentMethod{}, err
	}
	return pm, nil
}

func (m *Mongo) ListPaymentMethods(ctx context.Context, country string) ([]models.PaymentMethod, error) {
	methods := []models.PaymentMethod{}
	sort := bson.D{{Key: "created_at", Value: 1}}
	if err := m.find(ctx, paymentMethodsCollection, bson.M{"country": country}, sort, &methods); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

func (m *Mongo) UpdatePaymentMethod(ctx context.Context, pm models.PaymentMethod) (models.PaymentMethod, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	var updated models.PaymentMethod
	err := m.db.Collection(paymentMethodsCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": pm.ID},
		bson.M{"$set": bson.M{
			"type":        pm.Type,
			"card_number": pm.CardNumber,
			"expiry_date": pm.ExpiryDate,
			"holder_name": pm.HolderName,
			"updated_at":  pm.UpdatedAt,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PaymentMethod{}, ErrNotFound
		}
		return models.PaymentMethod{}, fmt.Errorf("update payment method: %w", err)
	}
	return updated, nil
}

func (m *Mongo) DeletePaymentMethod(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()
	res, err := m.db.Collection(paymentMethodsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
