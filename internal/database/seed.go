package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stock-tracker/internal/domain"
	"stock-tracker/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedProduct struct {
	name        string
	description string
	category    string
	quantity    int
	price       float64
}

var seedProducts = []seedProduct{
	{"iPhone 15 Pro", "Latest Apple flagship smartphone", "Electronics", 50, 999.99},
	{"MacBook Air M3", "Ultra-thin laptop with M3 chip", "Electronics", 30, 1299.99},
	{"Samsung Galaxy S24", "Premium Android smartphone", "Electronics", 75, 849.99},
	{"Sony WH-1000XM5", "Noise-cancelling headphones", "Electronics", 100, 349.99},
	{"iPad Pro 12.9", "Professional tablet", "Electronics", 40, 1099.99},
	{"Nike Air Max 270", "Running shoes", "Footwear", 200, 149.99},
	{"Adidas Ultraboost", "Premium running shoes", "Footwear", 150, 179.99},
	{"Levi's 501 Jeans", "Classic denim", "Clothing", 300, 89.99},
	{"North Face Jacket", "Winter jacket", "Clothing", 80, 249.99},
	{"Canon EOS R6", "Mirrorless camera", "Photography", 25, 2499.99},
	{"GoPro Hero 12", "Action camera", "Photography", 60, 399.99},
	{"Dyson V15", "Cordless vacuum", "Home", 45, 749.99},
	{"Instant Pot Pro", "Pressure cooker", "Kitchen", 120, 149.99},
	{"KitchenAid Mixer", "Stand mixer", "Kitchen", 35, 449.99},
	{"Herman Miller Chair", "Ergonomic chair", "Furniture", 20, 1395.00},
}

// Seed populates the catalog with demo products, each with its opening
// INITIAL_STOCK ledger entry. It is a no-op when products already exist.
func Seed(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Info("Database already has data, skipping seed")
		return nil
	}

	logger.Info("Seeding database with sample data")

	store := repository.NewStore(db)
	err := store.WithTx(ctx, func(tx repository.Store) error {
		now := time.Now().UTC()
		for _, sp := range seedProducts {
			price := sp.price
			product := &domain.Product{
				ID:                uuid.New(),
				Name:              sp.name,
				Description:       sp.description,
				Category:          sp.category,
				AvailableQuantity: sp.quantity,
				Price:             &price,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := tx.Products().Create(ctx, product); err != nil {
				return err
			}

			entry := &domain.StockHistory{
				ID:               uuid.New(),
				ProductID:        product.ID,
				ProductName:      product.Name,
				ChangeType:       domain.ChangeTypeInitialStock,
				QuantityChanged:  sp.quantity,
				PreviousQuantity: 0,
				NewQuantity:      sp.quantity,
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
		return fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Info("Database seeding completed", zap.Int("products", len(seedProducts)))
	return nil
}
