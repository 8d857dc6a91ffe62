package transport

import (
	"context"
	"strings"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

// Mock store for handler tests. WithTx runs the callback directly; handler
// tests assert HTTP behaviour, not transaction boundaries.
type mockStore struct {
	products map[uuid.UUID]*domain.Product
	history  []*domain.StockHistory
	orders   map[uuid.UUID]*domain.Order
}

func newMockStore() *mockStore {
	return &mockStore{
		products: make(map[uuid.UUID]*domain.Product),
		orders:   make(map[uuid.UUID]*domain.Order),
	}
}

func (m *mockStore) Products() repository.ProductRepository {
	return &mockProductRepo{store: m}
}

func (m *mockStore) StockHistory() repository.StockHistoryRepository {
	return &mockHistoryRepo{store: m}
}

func (m *mockStore) Orders() repository.OrderRepository {
	return &mockOrderRepo{store: m}
}

func (m *mockStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

type mockProductRepo struct {
	store *mockStore
}

func (r *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	existing, ok := r.store.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	cp.AvailableQuantity = existing.AvailableQuantity
	r.store.products[product.ID] = &cp
	return nil
}

func (r *mockProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error {
	existing, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.AvailableQuantity = quantity
	existing.UpdatedAt = updatedAt
	return nil
}

func (r *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *mockProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *mockProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *mockProductRepo) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if p.Category == category {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mockProductRepo) Search(ctx context.Context, name string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mockProductRepo) FindBelowQuantity(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if p.AvailableQuantity < threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type mockHistoryRepo struct {
	store *mockStore
}

func (r *mockHistoryRepo) Create(ctx context.Context, entry *domain.StockHistory) error {
	cp := *entry
	r.store.history = append(r.store.history, &cp)
	return nil
}

func (r *mockHistoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID, order repository.SortOrder) ([]*domain.StockHistory, error) {
	var out []*domain.StockHistory
	for _, h := range r.store.history {
		if h.ProductID == productID {
			ch := *h
			out = append(out, &ch)
		}
	}
	if order == repository.SortOrderDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (r *mockHistoryRepo) FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error) {
	var out []*domain.StockHistory
	for _, h := range r.store.history {
		if h.ReferenceID != nil && *h.ReferenceID == referenceID {
			ch := *h
			out = append(out, &ch)
		}
	}
	return out, nil
}

func (r *mockHistoryRepo) FindByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error) {
	var out []*domain.StockHistory
	for _, h := range r.store.history {
		if h.ChangeType == changeType {
			ch := *h
			out = append(out, &ch)
		}
	}
	return out, nil
}

type mockOrderRepo struct {
	store *mockStore
}

func (r *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	co := *order
	co.Items = append([]domain.OrderItem(nil), order.Items...)
	r.store.orders[order.ID] = &co
	return nil
}

func (r *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	co := *o
	co.Items = append([]domain.OrderItem(nil), o.Items...)
	return &co, nil
}

func (r *mockOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		co := *o
		co.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &co)
	}
	return out, nil
}

func (r *mockOrderRepo) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *mockOrderRepo) FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *mockOrderRepo) FindByUserEmail(ctx context.Context, userEmail string) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.UserEmail == userEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, updatedAt time.Time) error {
	o, ok := r.store.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (r *mockOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.orders, id)
	return nil
}
