package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderProduct is one line item of an order. Price is a snapshot of the
// product's unit price at order-creation time and never tracks later
// price changes.
type OrderProduct struct {
	ID        uuid.UUID `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Order owns its line items exclusively and references exactly one customer.
// Orders are immutable once created; there is no update or cancel flow.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	CustomerID    uuid.UUID       `json:"customer_id" db:"customer_id"`
	Price         float64         `json:"price" db:"price"`
	Customer      *Customer       `json:"customer,omitempty"`
	OrderProducts []*OrderProduct `json:"order_products"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}
