package product

import (
	"context"
	"time"

	"datex/models"
)

// ProductInput carries the user-editable fields of a product. The same
// shape serves create and edit; edits overwrite all of them.
type ProductInput struct {
	Name         string
	Expiry       time.Time
	Category     string
	Quantity     int
	Comment      string
	RemindBefore string
}

// ProductService defines the product operations exposed to handlers.
type ProductService interface {
	// Create persists a new product for the user and synchronously runs
	// the in-app reminder policy.
	Create(ctx context.Context, user *models.User, in ProductInput) (*models.Product, error)
	// List returns the user's products, newest first, falling back to
	// the cached snapshot when the store is unreachable.
	List(ctx context.Context, userID string) ([]models.Product, error)
	// Update overwrites the mutable fields of one of the user's products.
	Update(ctx context.Context, userID, id string, in ProductInput) (*models.Product, error)
	// Delete removes one of the user's products.
	Delete(ctx context.Context, userID, id string) error
	// Summary returns the dashboard counters (total / near expiry / expired).
	Summary(ctx context.Context, userID string) (*models.ProductSummary, error)
}
