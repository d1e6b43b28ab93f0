package notification

import (
	"context"

	"datex/models"
)

// NotificationService defines operations over a user's in-app notifications.
type NotificationService interface {
	// List retrieves all of the user's notifications, newest first.
	List(ctx context.Context, userID string) ([]models.Notification, error)
	// UnreadCount returns the number of notifications with seen=false.
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkSeen flags a single notification as seen.
	MarkSeen(ctx context.Context, userID, id string) error
	// MarkAllSeen flags every notification of the user as seen.
	MarkAllSeen(ctx context.Context, userID string) error
	// Delete removes a notification.
	Delete(ctx context.Context, userID, id string) error
	// Watch emits the unread count whenever notification state changes,
	// starting with the current value. The stream closes when ctx ends.
	Watch(ctx context.Context, userID string) <-chan int64
}
