package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID              string      `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID          string      `json:"userId" gorm:"not null;index" bson:"user_id"`
	RestaurantID    string      `json:"restaurantId" gorm:"not null" bson:"restaurant_id"`
	Items           []OrderItem `json:"items" gorm:"serializer:json" bson:"items"`
	TotalAmount     float64     `json:"totalAmount" bson:"total_amount"`
	Status          OrderStatus `json:"status" gorm:"not null;index" bson:"status"`
	Country         string      `json:"country" gorm:"not null;index" bson:"country"`
	PaymentMethodID string      `json:"paymentMethodId,omitempty" bson:"payment_method_id,omitempty"`
	PaidAt          *time.Time  `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" gorm:"index" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updated_at"`
}

// OrderItem is a line of an order. Name and Price are snapshots taken from
// the menu when the order is placed.
type OrderItem struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// OrderTransition is the set of fields written when an order leaves pending.
type OrderTransition struct {
	Status          OrderStatus
	PaymentMethodID string
	PaidAt          *time.Time
	UpdatedAt       time.Time
}
