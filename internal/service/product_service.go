package service

import (
	"context"
	"errors"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

// ErrNegativeQuantity is returned when a product is created with a negative
// opening quantity.
var ErrNegativeQuantity = errors.New("available quantity cannot be negative")

// ProductService defines the interface for catalog business logic
type ProductService interface {
	GetAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, name string) ([]*domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	Restock(ctx context.Context, id uuid.UUID, quantity int, description string, userID *string) (*domain.Product, error)
}

type productService struct {
	store  repository.Store
	ledger LedgerService
}

// NewProductService creates a new instance of ProductService
func NewProductService(store repository.Store, ledger LedgerService) ProductService {
	return &productService{store: store, ledger: ledger}
}

// GetAll retrieves all products
func (s *productService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return s.store.Products().List(ctx)
}

// GetByID retrieves a product by ID
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.store.Products().FindByID(ctx, id)
}

// Create persists a new product. When it arrives with stock on hand the
// opening balance is journaled as an INITIAL_STOCK entry (previous quantity
// 0) so the ledger accounts for every unit from day one. A product created
// with quantity 0 gets no entry.
func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.AvailableQuantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, product); err != nil {
			return err
		}

		if product.AvailableQuantity > 0 {
			entry := &domain.StockHistory{
				ID:               uuid.New(),
				ProductID:        product.ID,
				ProductName:      product.Name,
				ChangeType:       domain.ChangeTypeInitialStock,
				QuantityChanged:  product.AvailableQuantity,
				PreviousQuantity: 0,
				NewQuantity:      product.AvailableQuantity,
				Description:      "Initial stock entry",
				CreatedAt:        now,
			}
			if err := tx.StockHistory().Create(ctx, entry); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Update merges the non-nil fields of the patch into the product. Quantity
// is never touched here; all quantity changes go through the ledger.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Price != nil {
		product.Price = patch.Price
	}
	if patch.ImageURL != nil {
		product.ImageURL = *patch.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product. Its stock history is left in place: the audit
// trail outlives the product
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Products().Delete(ctx, id)
}

// Search finds products by case-insensitive name substring
func (s *productService) Search(ctx context.Context, name string) ([]*domain.Product, error) {
	return s.store.Products().Search(ctx, name)
}

// GetByCategory retrieves products in a category
func (s *productService) GetByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.store.Products().FindByCategory(ctx, category)
}

// GetLowStock retrieves products with quantity strictly below the threshold
func (s *productService) GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	return s.store.Products().FindBelowQuantity(ctx, threshold)
}

// Restock credits stock through the ledger with a RESTOCK entry
func (s *productService) Restock(ctx context.Context, id uuid.UUID, quantity int, description string, userID *string) (*domain.Product, error) {
	return s.ledger.AdjustStock(ctx, StockAdjustment{
		ProductID:   id,
		Quantity:    quantity,
		ChangeType:  domain.ChangeTypeRestock,
		Description: description,
		UserID:      userID,
	})
}
