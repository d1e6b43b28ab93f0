package user

import (
	"context"

	"datex/models"
)

// AuthResponse is returned by every sign-in path.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService defines authentication and account operations.
type UserService interface {
	// Register creates an email/password account and signs the user in.
	Register(ctx context.Context, email, password string) (*AuthResponse, error)
	// Authenticate verifies email/password credentials and signs the user in.
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	// GoogleSignIn verifies a Google ID token and signs the user in,
	// creating the account on first use.
	GoogleSignIn(ctx context.Context, idToken string) (*AuthResponse, error)
	// Logout revokes the session and clears the user's cached product snapshot.
	Logout(ctx context.Context, userID string) error
	// GetUserByID retrieves an account by its ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// RegisterDeviceToken stores an FCM device token for push delivery.
	RegisterDeviceToken(ctx context.Context, userID, token string) error
}
