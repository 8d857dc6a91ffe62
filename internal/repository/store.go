package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql operations the repositories need.
// It is satisfied by both *sql.DB and *sql.Tx so the same repository code
// runs inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Store bundles the three record collections behind a single transaction
// boundary. WithTx runs the callback against a Store whose repositories all
// share one database transaction; returning an error rolls everything back.
type Store interface {
	Products() ProductRepository
	StockHistory() StockHistoryRepository
	Orders() OrderRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}

type sqlStore struct {
	db   DBTX
	conn *sql.DB
}

// NewStore creates a Store backed by the given database connection
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db, conn: db}
}

func (s *sqlStore) Products() ProductRepository {
	return NewProductRepository(s.db)
}

func (s *sqlStore) StockHistory() StockHistoryRepository {
	return NewStockHistoryRepository(s.db)
}

func (s *sqlStore) Orders() OrderRepository {
	return NewOrderRepository(s.db)
}

// WithTx executes fn inside a database transaction. Nested calls reuse the
// enclosing transaction.
func (s *sqlStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.conn == nil {
		return fn(s)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlStore{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
