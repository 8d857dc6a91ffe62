package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stock-tracker/internal/domain"

	"github.com/google/uuid"
)

// StockHistoryRepository defines the interface for ledger entry data access.
// Entries are append-only: there is no update or delete.
type StockHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StockHistory) error
	FindByProduct(ctx context.Context, productID uuid.UUID, order SortOrder) ([]*domain.StockHistory, error)
	FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error)
	FindByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error)
}

type stockHistoryRepository struct {
	db DBTX
}

// NewStockHistoryRepository creates a new instance of StockHistoryRepository
func NewStockHistoryRepository(db DBTX) StockHistoryRepository {
	return &stockHistoryRepository{db: db}
}

const stockHistoryColumns = `id, product_id, product_name, change_type, quantity_changed, previous_quantity, new_quantity, reference_id, description, user_id, created_at`

// Create appends a ledger entry
func (r *stockHistoryRepository) Create(ctx context.Context, entry *domain.StockHistory) error {
	query := `
		INSERT INTO stock_history (id, product_id, product_name, change_type, quantity_changed, previous_quantity, new_quantity, reference_id, description, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ProductID,
		entry.ProductName,
		entry.ChangeType,
		entry.QuantityChanged,
		entry.PreviousQuantity,
		entry.NewQuantity,
		entry.ReferenceID,
		entry.Description,
		entry.UserID,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create stock history entry: %w", err)
	}

	return nil
}

// FindByProduct retrieves all ledger entries for a product in chronological
// order (ascending or descending by creation time)
func (r *stockHistoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, order SortOrder) ([]*domain.StockHistory, error) {
	if order != SortOrderAsc && order != SortOrderDesc {
		order = SortOrderAsc
	}

	query := fmt.Sprintf(`SELECT %s FROM stock_history WHERE product_id = $1 ORDER BY created_at %s`, stockHistoryColumns, order)

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock history by product: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// FindByReference retrieves ledger entries cross-linked to a reference id
// (typically an order id)
func (r *stockHistoryRepository) FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*domain.StockHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_history WHERE reference_id = $1 ORDER BY created_at ASC`, stockHistoryColumns)

	rows, err := r.db.QueryContext(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock history by reference: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// FindByChangeType retrieves ledger entries with the given change type
func (r *stockHistoryRepository) FindByChangeType(ctx context.Context, changeType domain.ChangeType) ([]*domain.StockHistory, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_history WHERE change_type = $1 ORDER BY created_at ASC`, stockHistoryColumns)

	rows, err := r.db.QueryContext(ctx, query, changeType)
	if err != nil {
		return nil, fmt.Errorf("failed to find stock history by change type: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *stockHistoryRepository) scanAll(rows *sql.Rows) ([]*domain.StockHistory, error) {
	entries := []*domain.StockHistory{}
	for rows.Next() {
		entry := &domain.StockHistory{}
		err := rows.Scan(
			&entry.ID,
			&entry.ProductID,
			&entry.ProductName,
			&entry.ChangeType,
			&entry.QuantityChanged,
			&entry.PreviousQuantity,
			&entry.NewQuantity,
			&entry.ReferenceID,
			&entry.Description,
			&entry.UserID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock history: %w", err)
	}

	return entries, nil
}
