package notification

import (
	"context"
	"fmt"

	notificationRepo "datex/database/repository/notification"
	"datex/models"
	"datex/utils"

	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo notificationRepo.NotificationRepository
	Hub  *Hub
}

func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, hub *Hub) (*DefaultNotificationService, error) {
	if repo == nil || hub == nil {
		return nil, fmt.Errorf("notification service initialization error: repository or hub is nil")
	}
	return &DefaultNotificationService{Repo: repo, Hub: hub}, nil
}

// List retrieves all of the user's notifications, newest first.
func (s *DefaultNotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// UnreadCount returns the number of notifications with seen=false.
func (s *DefaultNotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.CountUnseen(ctx, userID)
}

// MarkSeen flags a single notification as seen and signals watchers.
func (s *DefaultNotificationService) MarkSeen(ctx context.Context, userID, id string) error {
	if err := s.Repo.MarkSeen(ctx, userID, id); err != nil {
		return err
	}
	s.Hub.Publish(ctx, userID)
	return nil
}

// MarkAllSeen flags every notification of the user as seen and signals watchers.
func (s *DefaultNotificationService) MarkAllSeen(ctx context.Context, userID string) error {
	if err := s.Repo.MarkAllSeen(ctx, userID); err != nil {
		return err
	}
	s.Hub.Publish(ctx, userID)
	return nil
}

// Delete removes a notification and signals watchers.
func (s *DefaultNotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.Hub.Publish(ctx, userID)
	return nil
}

// Watch emits the unread count whenever notification state changes. The
// first value is emitted immediately, which also absorbs any signal
// published while no watcher was attached; the persisted flag is cleared
// after each refresh.
func (s *DefaultNotificationService) Watch(ctx context.Context, userID string) <-chan int64 {
	out := make(chan int64, 1)
	signal, cancel := s.Hub.Subscribe(userID)

	refresh := func() {
		count, err := s.Repo.CountUnseen(ctx, userID)
		if err != nil {
			utils.GetLogger().Warn("Watch: failed to recompute unread count",
				zap.String("userId", userID), zap.Error(err))
			return
		}
		s.Hub.Clear(ctx, userID)
		select {
		case out <- count:
		case <-ctx.Done():
		}
	}

	go func() {
		defer cancel()
		defer close(out)

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				refresh()
			}
		}
	}()
	return out
}
