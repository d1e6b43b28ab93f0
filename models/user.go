package models

import "time"

// Auth providers recorded on a user account.
const (
	AuthProviderPassword = "password"
	AuthProviderGoogle   = "google.com"
)

// User is an authenticated account. PasswordHash is empty for accounts
// created through federated sign-in.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	AuthProvider string    `bson:"authProvider" json:"authProvider"`
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
