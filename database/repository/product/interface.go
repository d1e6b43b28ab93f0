package productRepo

import (
	"context"

	"datex/models"
)

// ProductRepository defines methods for product data access. All reads and
// writes except ListAll are scoped by the owning user's ID.
type ProductRepository interface {
	// Create inserts a new product record.
	Create(ctx context.Context, product *models.Product) error
	// GetByID retrieves one of the user's products by its unique ID.
	GetByID(ctx context.Context, userID, id string) (*models.Product, error)
	// ListByUser retrieves all products belonging to a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Product, error)
	// ListAll retrieves every product across all users (sweep job only).
	ListAll(ctx context.Context) ([]models.Product, error)
	// Update overwrites the mutable fields of an existing product.
	Update(ctx context.Context, product *models.Product) error
	// Delete removes one of the user's products by its ID.
	Delete(ctx context.Context, userID, id string) error
	// MarkNotified flips notified to true only if it is currently false.
	// Returns false when another writer already claimed the flag.
	MarkNotified(ctx context.Context, id string) (bool, error)
}
