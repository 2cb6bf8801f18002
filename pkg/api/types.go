package api

import "time"

// Food is one catalog item as returned by GET /foods.
// Items are immutable once fetched; a new fetch replaces the whole set.
type Food struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	PreparationTime int     `json:"preparationTime"`
	Available       bool    `json:"available"`
	Image           string  `json:"image"`
}

// FoodQuery holds the catalog query parameters. Zero-valued fields are
// omitted from the request; filtering, price bounding, and sorting are
// performed by the remote service.
type FoodQuery struct {
	Category string
	MinPrice float64
	MaxPrice float64
	SortBy   string
}

// OrderItem is one line of an order request or record.
type OrderItem struct {
	Food     string `json:"food"`
	Quantity int    `json:"quantity"`
}

// OrderRequest is the body of POST /orders.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
}

// Order is an order record assigned by the remote service.
// Records are never mutated after creation.
type Order struct {
	ID              string      `json:"_id"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// User is the profile returned by the auth endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the body of POST /login and POST /register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by POST /login.
// POST /register returns only the user.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
