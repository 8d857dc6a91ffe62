package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
)

// memoryStore is an in-memory Store for service tests. WithTx snapshots the
// state before running the callback and restores it on error, so rollback
// behaviour can be asserted without a database.
type memoryStore struct {
	products map[uuid.UUID]*domain.Product
	history  []*domain.StockHistory
	orders   map[uuid.UUID]*domain.Order
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: make(map[uuid.UUID]*domain.Product),
		orders:   make(map[uuid.UUID]*domain.Order),
	}
}

func (m *memoryStore) Products() repository.ProductRepository {
	return &memoryProductRepo{store: m}
}

func (m *memoryStore) StockHistory() repository.StockHistoryRepository {
	return &memoryHistoryRepo{store: m}
}

func (m *memoryStore) Orders() repository.OrderRepository {
	return &memoryOrderRepo{store: m}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.products = snapshot.products
		m.history = snapshot.history
		m.orders = snapshot.orders
		return err
	}
	return nil
}

func (m *memoryStore) clone() *memoryStore {
	c := newMemoryStore()
	for id, p := range m.products {
		cp := *p
		c.products[id] = &cp
	}
	c.history = make([]*domain.StockHistory, len(m.history))
	for i, h := range m.history {
		ch := *h
		c.history[i] = &ch
	}
	for id, o := range m.orders {
		co := *o
		co.Items = append([]domain.OrderItem(nil), o.Items...)
		c.orders[id] = &co
	}
	return c
}

type memoryProductRepo struct {
	store *memoryStore
}

func (r *memoryProductRepo) Create(ctx context.Context, product *domain.Product) error {
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *domain.Product) error {
	existing, ok := r.store.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	cp := *product
	cp.AvailableQuantity = existing.AvailableQuantity
	r.store.products[product.ID] = &cp
	return nil
}

func (r *memoryProductRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int, updatedAt time.Time) error {
	existing, ok := r.store.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	existing.AvailableQuantity = quantity
	existing.UpdatedAt = updatedAt
	return nil
}

func (r *memoryProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.products, id)
	return nil
}

func (r *memoryProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memoryProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryProductRepo) List(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryProductRepo) FindByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if p.Category == category {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) Search(ctx context.Context, name string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryProductRepo) FindBelowQuantity(ctx context.Context, threshold int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.store.products {
		if p.AvailableQuantity < threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memoryHistoryRepo struct {
	store *memoryStore
}

func (r *memoryHistoryRepo) Create(ctx context.Context, entry *domain.StockHistory) error {
	cp := *entry
	r.store.history = append(r.store.history, &cp)
	return nil
}

func (r *memoryHistoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID, order repository.SortOrder) ([]*domain.StockHistory, error) {
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

func (r *memoryHistoryRepo) FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error) {
	var out []*domain.StockHistory
	for _, h := range r.store.history {
		if h.ReferenceID != nil && *h.ReferenceID == referenceID {
			ch := *h
			out = append(out, &ch)
		}
	}
	return out, nil
}

func (r *memoryHistoryRepo) FindByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error) {
	var out []*domain.StockHistory
	for _, h := range r.store.history {
		if h.ChangeType == changeType {
			ch := *h
			out = append(out, &ch)
		}
	}
	return out, nil
}

type memoryOrderRepo struct {
	store *memoryStore
}

func (r *memoryOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	co := *order
	co.Items = append([]domain.OrderItem(nil), order.Items...)
	r.store.orders[order.ID] = &co
	return nil
}

func (r *memoryOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	co := *o
	co.Items = append([]domain.OrderItem(nil), o.Items...)
	return &co, nil
}

func (r *memoryOrderRepo) List(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		co := *o
		co.Items = append([]domain.OrderItem(nil), o.Items...)
		out = append(out, &co)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryOrderRepo) FindByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) FindByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) FindByUserEmail(ctx context.Context, userEmail string) ([]*domain.Order, error) {
	all, _ := r.List(ctx)
	var out []*domain.Order
	for _, o := range all {
		if o.UserEmail == userEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, updatedAt time.Time) error {
	o, ok := r.store.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (r *memoryOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.store.orders, id)
	return nil
}
