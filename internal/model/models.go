// Package model holds the storefront's persistent record types. Carts
// are deliberately absent: they are session state, owned by the cart
// service, and never persisted.
package model

import "time"

// Product is a catalog entry.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"original_price,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Stock         int       `json:"stock"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsOnSale reports whether the product carries a struck-through price.
func (p *Product) IsOnSale() bool {
	return p.OriginalPrice > p.Price && p.Price > 0
}

// IsOutOfStock reports whether the product cannot be added to a cart.
func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// User is a registered customer account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Order statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Delivery types.
const (
	DeliveryStandard = "standard"
	DeliveryExpress  = "express"
)

// OrderItem is one product line frozen at order time. Price is the
// per-unit price charged; OriginalPrice is set only when the product
// was on sale.
type OrderItem struct {
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`
}

// Order is a placed order with server-computed totals.
type Order struct {
	ID                  string      `json:"id"`
	UserID              string      `json:"user_id"`
	Items               []OrderItem `json:"items"`
	Subtotal            float64     `json:"subtotal"`
	DeliveryFee         float64     `json:"delivery_fee"`
	TaxAmount           float64     `json:"tax_amount"`
	TotalAmount         float64     `json:"total_amount"`
	Status              string      `json:"status"`
	PaymentMethod       string      `json:"payment_method"`
	DeliveryType        string      `json:"delivery_type"`
	DeliveryAddress     string      `json:"delivery_address"`
	PhoneNumber         string      `json:"phone_number"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	EstimatedDelivery   time.Time   `json:"estimated_delivery"`
	CreatedAt           time.Time   `json:"created_at"`
}
