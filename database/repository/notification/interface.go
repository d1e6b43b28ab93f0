package notificationRepo

import (
	"context"

	"datex/models"
)

// NotificationRepository defines methods for notification data access.
// All operations are scoped by the owning user's ID.
type NotificationRepository interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, notification *models.Notification) error
	// ListByUser retrieves all of a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	// ExistsByTitle reports whether the user already has a notification
	// with the given title.
	ExistsByTitle(ctx context.Context, userID, title string) (bool, error)
	// CountUnseen counts the user's notifications with seen=false.
	CountUnseen(ctx context.Context, userID string) (int64, error)
	// MarkSeen sets seen=true on one of the user's notifications.
	MarkSeen(ctx context.Context, userID, id string) error
	// MarkAllSeen sets seen=true on all of the user's notifications.
	MarkAllSeen(ctx context.Context, userID string) error
	// Delete removes one of the user's notifications by its ID.
	Delete(ctx context.Context, userID, id string) error
}
