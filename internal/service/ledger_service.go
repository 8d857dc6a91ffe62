package service

import (
	"context"
	"fmt"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

// InsufficientStockError is returned when a debit would drive a product's
// quantity negative. It carries what was available and what was requested so
// callers can surface both.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	if e.ProductName != "" {
		return fmt.Sprintf("Insufficient stock for product: %s. Available: %d, Requested: %d",
			e.ProductName, e.Available, e.Requested)
	}
	return fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", e.Available, e.Requested)
}

// StockAdjustment describes a single quantity change to apply through the
// ledger. Quantity is a signed delta: negative debits, positive credits,
// zero appends a reference-only entry.
type StockAdjustment struct {
	ProductID   uuid.UUID
	Quantity    int
	ChangeType  domain.ChangeType
	ReferenceID *uuid.UUID
	Description string
	UserID      *string
}

// LedgerService is the single path through which product quantity changes.
// Every successful adjustment updates the product row and appends a
// StockHistory entry atomically; after any sequence of adjustments the
// product quantity equals the sum of its history deltas.
type LedgerService interface {
	AdjustStock(ctx context.Context, adj StockAdjustment) (*domain.Product, error)
	// AdjustStockIn applies an adjustment against the given store, letting
	// callers compose several adjustments inside one enclosing transaction.
	AdjustStockIn(ctx context.Context, store repository.Store, adj StockAdjustment) (*domain.Product, error)
}

type ledgerService struct {
	store repository.Store
}

// NewLedgerService creates a new instance of LedgerService
func NewLedgerService(store repository.Store) LedgerService {
	return &ledgerService{store: store}
}

// AdjustStock applies a single adjustment in its own transaction
func (s *ledgerService) AdjustStock(ctx context.Context, adj StockAdjustment) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		product, err = s.AdjustStockIn(ctx, tx, adj)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStockIn loads the product with a row lock, checks the resulting
// quantity, persists it, and appends the ledger entry. On rejection nothing
// is written: the product stays untouched and no history row appears.
func (s *ledgerService) AdjustStockIn(ctx context.Context, store repository.Store, adj StockAdjustment) (*domain.Product, error) {
	product, err := store.Products().FindByIDForUpdate(ctx, adj.ProductID)
	if err != nil {
		return nil, err
	}

	previousQuantity := product.AvailableQuantity
	newQuantity := previousQuantity + adj.Quantity

	if newQuantity < 0 {
		return nil, &InsufficientStockError{
			Available: previousQuantity,
			Requested: -adj.Quantity,
		}
	}

	now := time.Now().UTC()

	if err := store.Products().UpdateQuantity(ctx, product.ID, newQuantity, now); err != nil {
		return nil, err
	}

	entry := &domain.StockHistory{
		ID:               uuid.New(),
		ProductID:        product.ID,
		ProductName:      product.Name,
		ChangeType:       adj.ChangeType,
		QuantityChanged:  adj.Quantity,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		ReferenceID:      adj.ReferenceID,
		Description:      adj.Description,
		UserID:           adj.UserID,
		CreatedAt:        now,
	}
	if err := store.StockHistory().Create(ctx, entry); err != nil {
		return nil, err
	}

	product.AvailableQuantity = newQuantity
	product.UpdatedAt = now

	return product, nil
}
