package models

import "time"

// Notification is an in-app expiry reminder. Uniqueness is checked per
// (userId, title) at creation time only, never enforced globally.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	ProductID string    `bson:"productId,omitempty" json:"productId,omitempty"`
	Title     string    `bson:"title" json:"title"`
	Seen      bool      `bson:"seen" json:"seen"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
