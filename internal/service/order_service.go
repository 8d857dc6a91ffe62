package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrEmptyOrder            = errors.New("order must contain at least one item")
)

// OrderLine is one requested line of a new order
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order
type CreateOrderInput struct {
	Items     []OrderLine
	UserID    string
	UserEmail string
}

// OrderService defines the interface for order business logic
type OrderService interface {
	GetAll(ctx context.Context) ([]*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	GetByUserEmail(ctx context.Context, userEmail string) ([]*domain.Order, error)
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	store  repository.Store
	ledger LedgerService
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(store repository.Store, ledger LedgerService) OrderService {
	return &orderService{store: store, ledger: ledger}
}

// GetAll retrieves all orders
func (s *orderService) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.store.Orders().List(ctx)
}

// GetByID retrieves an order by ID
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.store.Orders().FindByID(ctx, id)
}

// GetByStatus retrieves orders with the given status
func (s *orderService) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.store.Orders().FindByStatus(ctx, status)
}

// GetByUserID retrieves orders placed by a user
func (s *orderService) GetByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.store.Orders().FindByUserID(ctx, userID)
}

// GetByUserEmail retrieves orders placed under an email
func (s *orderService) GetByUserEmail(ctx context.Context, userEmail string) ([]*domain.Order, error) {
	return s.store.Orders().FindByUserEmail(ctx, userEmail)
}

// Create places an order. The whole flow runs in one transaction: every line
// is validated against locked product rows before any stock moves, each line
// is debited through the ledger (ORDER entries carry no reference because
// the order id is minted afterwards in the journal's eyes), the order is
// persisted COMPLETED, and a zero-delta ORDER_REFERENCE entry per line
// cross-links the history to the new order id without re-affecting quantity.
// A failure on any line rolls the entire order back; no partial debits
// survive.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var order *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		// Validate every line against locked rows before debiting anything.
		// Duplicate product lines are caught by the debit loop below, which
		// re-reads the row after each adjustment. Names are remembered here so
		// a rejection on that path still identifies the product.
		productNames := make(map[uuid.UUID]string, len(input.Items))
		for _, line := range input.Items {
			product, err := tx.Products().FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return fmt.Errorf("product not found: %s: %w", line.ProductID, err)
				}
				return err
			}
			if product.AvailableQuantity < line.Quantity {
				return &InsufficientStockError{
					ProductName: product.Name,
					Available:   product.AvailableQuantity,
					Requested:   line.Quantity,
				}
			}
			productNames[line.ProductID] = product.Name
		}

		now := time.Now().UTC()
		orderID := uuid.New()

		items := make([]domain.OrderItem, 0, len(input.Items))
		totalAmount := 0.0

		for _, line := range input.Items {
			product, err := s.ledger.AdjustStockIn(ctx, tx, StockAdjustment{
				ProductID:   line.ProductID,
				Quantity:    -line.Quantity,
				ChangeType:  domain.ChangeTypeOrder,
				Description: "Stock reduced for order",
			})
			if err != nil {
				var insufficient *InsufficientStockError
				if errors.As(err, &insufficient) && insufficient.ProductName == "" {
					insufficient.ProductName = productNames[line.ProductID]
				}
				return err
			}

			item := domain.OrderItem{
				ID:          uuid.New(),
				OrderID:     orderID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    line.Quantity,
			}
			if product.Price != nil {
				totalAmount += *product.Price * float64(line.Quantity)
			}
			items = append(items, item)
		}

		order = &domain.Order{
			ID:          orderID,
			Status:      domain.OrderStatusCompleted,
			Items:       items,
			TotalAmount: totalAmount,
			UserID:      input.UserID,
			UserEmail:   input.UserEmail,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		// Cross-link history to the order now that its id exists
		for _, item := range items {
			_, err := s.ledger.AdjustStockIn(ctx, tx, StockAdjustment{
				ProductID:   item.ProductID,
				Quantity:    0,
				ChangeType:  domain.ChangeTypeOrderReference,
				ReferenceID: &orderID,
				Description: fmt.Sprintf("Order reference: %s", orderID),
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Cancel restores each line's stock through the ledger and transitions the
// order to CANCELLED. Cancelling an already cancelled order is rejected.
// Restoring stock only increases quantity, so insufficient stock cannot
// occur here.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if order.Status == domain.OrderStatusCancelled {
			return ErrOrderAlreadyCancelled
		}

		for _, item := range order.Items {
			_, err := s.ledger.AdjustStockIn(ctx, tx, StockAdjustment{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				ChangeType:  domain.ChangeTypeCancel,
				ReferenceID: &order.ID,
				Description: "Stock restored due to order cancellation",
			})
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		if err := tx.Orders().UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled, now); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCancelled
		order.UpdatedAt = now

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Delete hard-deletes an order with no stock compensation. Deleting is not
// cancelling: a deleted COMPLETED order leaves its debits in place.
func (s *orderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		return tx.Orders().Delete(ctx, id)
	})
}
