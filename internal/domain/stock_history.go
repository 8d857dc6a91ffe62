package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType is the reason code attached to a stock history entry
type ChangeType string

const (
	ChangeTypeInitialStock     ChangeType = "INITIAL_STOCK"
	ChangeTypeRestock          ChangeType = "RESTOCK"
	ChangeTypeOrder            ChangeType = "ORDER"
	ChangeTypeOrderReference   ChangeType = "ORDER_REFERENCE"
	ChangeTypeCancel           ChangeType = "CANCEL"
	ChangeTypeManualAdjustment ChangeType = "MANUAL_ADJUSTMENT"
)

// Valid reports whether ct is one of the known change types
func (ct ChangeType) Valid() bool {
	switch ct {
	case ChangeTypeInitialStock, ChangeTypeRestock, ChangeTypeOrder,
		ChangeTypeOrderReference, ChangeTypeCancel, ChangeTypeManualAdjustment:
		return true
	}
	return false
}

// StockHistory is an append-only ledger entry recording a single quantity
// change. ProductName is a snapshot taken at write time and is not kept in
// sync with later renames. NewQuantity always equals
// PreviousQuantity + QuantityChanged.
type StockHistory struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	ProductID        uuid.UUID  `json:"product_id" db:"product_id"`
	ProductName      string     `json:"product_name" db:"product_name"`
	ChangeType       ChangeType `json:"change_type" db:"change_type"`
	QuantityChanged  int        `json:"quantity_changed" db:"quantity_changed"`
	PreviousQuantity int        `json:"previous_quantity" db:"previous_quantity"`
	NewQuantity      int        `json:"new_quantity" db:"new_quantity"`
	ReferenceID      *uuid.UUID `json:"reference_id" db:"reference_id"`
	Description      string     `json:"description" db:"description"`
	UserID           *string    `json:"user_id" db:"user_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}
