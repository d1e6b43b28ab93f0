package userRepo

import (
	"context"

	"datex/models"
)

// UserRepository defines methods for user account data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address. Returns nil
	// without error when no account exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// SetFCMToken stores the user's device token for push delivery.
	SetFCMToken(ctx context.Context, id, token string) error
}
