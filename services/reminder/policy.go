// Package reminder decides whether a freshly created product warrants an
// in-app notification. The email path has its own window and flag and
// lives in the sweep job.
package reminder

import (
	"context"
	"fmt"
	"time"

	notificationRepo "datex/database/repository/notification"
	"datex/models"
	"datex/services/expiry"
	"datex/services/notification"

	"github.com/google/uuid"
)

// TitleFor builds the notification title for a product nearing expiry,
// e.g. "Milk is expiring on Fri Jan 05 2024".
func TitleFor(name string, expiryDate time.Time) string {
	return fmt.Sprintf("%s is expiring on %s", name, expiryDate.Format("Mon Jan 02 2006"))
}

// Policy creates in-app reminders for products created inside the
// reminder window. De-duplication is by (user, title): re-running the
// policy for the same product never creates a second notification.
type Policy struct {
	Repo       notificationRepo.NotificationRepository
	Hub        *notification.Hub
	WindowDays int
	Now        func() time.Time
}

// NewPolicy builds a Policy with a live clock.
func NewPolicy(repo notificationRepo.NotificationRepository, hub *notification.Hub, windowDays int) *Policy {
	return &Policy{
		Repo:       repo,
		Hub:        hub,
		WindowDays: windowDays,
		Now:        time.Now,
	}
}

// OnProductCreated runs once, synchronously, right after a new product is
// persisted. It is never invoked on edit; products that drift into the
// window later are covered by the scheduled sweep instead.
func (p *Policy) OnProductCreated(ctx context.Context, product *models.Product) error {
	now := p.Now()
	daysLeft := expiry.DaysLeft(product.Expiry, now)
	if daysLeft < 0 || daysLeft > p.WindowDays {
		return nil
	}

	title := TitleFor(product.Name, product.Expiry)
	exists, err := p.Repo.ExistsByTitle(ctx, product.UserID, title)
	if err != nil {
		return fmt.Errorf("reminder policy: existence check failed: %w", err)
	}
	if exists {
		return nil
	}

	notif := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    product.UserID,
		ProductID: product.ID,
		Title:     title,
		Seen:      false,
		CreatedAt: now,
	}
	if err := p.Repo.Create(ctx, notif); err != nil {
		return fmt.Errorf("reminder policy: failed to create notification: %w", err)
	}

	if p.Hub != nil {
		p.Hub.Publish(ctx, product.UserID)
	}
	return nil
}
