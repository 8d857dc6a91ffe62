package service

import (
	"context"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

// StockHistoryService exposes read-only projections over the ledger
type StockHistoryService interface {
	ByProduct(ctx context.Context, productID uuid.UUID, order repository.SortOrder) ([]*domain.StockHistory, error)
	ByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error)
	ByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error)
}

type stockHistoryService struct {
	store repository.Store
}

// NewStockHistoryService creates a new instance of StockHistoryService
func NewStockHistoryService(store repository.Store) StockHistoryService {
	return &stockHistoryService{store: store}
}

func (s *stockHistoryService) ByProduct(ctx context.Context, productID uuid.UUID, order repository.SortOrder) ([]*domain.StockHistory, error) {
	return s.store.StockHistory().FindByProduct(ctx, productID, order)
}

func (s *stockHistoryService) ByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error) {
	return s.store.StockHistory().FindByReference(ctx, referenceID)
}

func (s *stockHistoryService) ByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error) {
	return s.store.StockHistory().FindByChangeType(ctx, changeType)
}
