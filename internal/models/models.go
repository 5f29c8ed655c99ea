package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
	Role     string `json:"role"`
}

type Product struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Price   int64  `json:"price"` // minor currency units
	InStock int    `json:"inStock"`
}

// Order field names on the wire follow the original storefront API,
// including the historical "adress" spelling.
type Order struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Lastname       string      `json:"lastname"`
	Phone          string      `json:"phone"`
	Email          string      `json:"email"`
	Company        string      `json:"company"`
	Address        string      `json:"adress"`
	Apartment      string      `json:"apartment"`
	PostalCode     string      `json:"postalCode"`
	City           string      `json:"city"`
	Country        string      `json:"country"`
	OrderNotice    string      `json:"orderNotice"`
	PaymentMethod  string      `json:"paymentMethod"`
	PaymentStatus  string      `json:"paymentStatus"`
	Status         OrderStatus `json:"status"`
	TrackingNumber string      `json:"trackingNumber"`
	Total          int64       `json:"total"`  // minor currency units
	UserID         *string     `json:"userId"` // nil for guest checkout
	CreatedAt      time.Time   `json:"dateTime"`

	Products []OrderProduct `json:"products"`
}

// OrderProduct is one line item of an order. Owned by its order and
// removed together with it.
type OrderProduct struct {
	ID        int64    `json:"id"`
	OrderID   string   `json:"customerOrderId"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
