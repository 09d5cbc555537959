package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StockAdjustment records one product's stock transition after an order has
// been priced: Previous is the quantity the workflow validated against and
// Remaining is the post-decrement value to persist. The pair allows the
// repository to apply the update as a compare-and-set.
type StockAdjustment struct {
	ProductID uuid.UUID `json:"product_id"`
	Previous  int       `json:"previous"`
	Remaining int       `json:"remaining"`
}
