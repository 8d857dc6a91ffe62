package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog. AvailableQuantity is only
// ever mutated through the stock ledger so that every change is journaled.
type Product struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	Category          string    `json:"category" db:"category"`
	AvailableQuantity int       `json:"available_quantity" db:"available_quantity"`
	Price             *float64  `json:"price" db:"price"`
	ImageURL          string    `json:"image_url" db:"image_url"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProductPatch carries a partial product update. Nil fields are left
// untouched. Quantity is deliberately absent: quantity changes go through
// the ledger.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}
