package models

type Restaurant struct {
	ID           string  `json:"id" gorm:"primaryKey" bson:"_id"`
	Name         string  `json:"name" gorm:"not null" bson:"name"`
	Cuisine      string  `json:"cuisine" bson:"cuisine"`
	Country      string  `json:"country" gorm:"not null;index" bson:"country"`
	Rating       float64 `json:"rating" bson:"rating"`
	DeliveryTime string  `json:"deliveryTime" bson:"delivery_time"`
	Image        string  `json:"image" bson:"image"`
}

type MenuItem struct {
	ID           string  `json:"id" gorm:"primaryKey" bson:"_id"`
	RestaurantID string  `json:"restaurantId" gorm:"not null;index" bson:"restaurant_id"`
	Name         string  `json:"name" gorm:"not null" bson:"name"`
	Description  string  `json:"description" bson:"description"`
	Price        float64 `json:"price" gorm:"not null" bson:"price"`
	Category     string  `json:"category" bson:"category"`
}
