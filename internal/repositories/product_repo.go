package repositories

import (
	"context"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Implementations hold no business rules; existence checks belong to the caller.
type ProductRepository interface {
	// FindAll returns every stored product ordered by ID.
	FindAll(ctx context.Context) ([]models.Product, error)
	// FindByID reports false when no product has the given ID.
	FindByID(ctx context.Context, id uint) (*models.Product, bool, error)
	// Save inserts the product when its ID is zero and overwrites it otherwise.
	// The returned copy carries the store-assigned ID.
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	// DeleteByID removes the product permanently. Deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id uint) error
	// FindByNameContainingIgnoreCase matches name as a case-insensitive substring.
	FindByNameContainingIgnoreCase(ctx context.Context, name string) ([]models.Product, error)
	// FindByStockLessThan returns products with stock strictly below threshold.
	FindByStockLessThan(ctx context.Context, threshold int) ([]models.Product, error)
}
