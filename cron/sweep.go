package cron

import (
	"context"
	"time"

	productRepo "datex/database/repository/product"
	userRepo "datex/database/repository/user"
	"datex/models"
	"datex/services/expiry"
	"datex/services/mailer"
	"datex/services/notification"
	"datex/services/reminder"
	"datex/utils"

	"go.uber.org/zap"
)

// Sweeper scans every stored product and alerts owners whose products
// fall inside the email reminder window and have not been alerted yet.
type Sweeper struct {
	Products   productRepo.ProductRepository
	Users      userRepo.UserRepository
	Mailer     mailer.Mailer
	WindowDays int
	Now        func() time.Time
}

// NewSweeper builds a Sweeper with a live clock.
func NewSweeper(products productRepo.ProductRepository, users userRepo.UserRepository, m mailer.Mailer, windowDays int) *Sweeper {
	return &Sweeper{
		Products:   products,
		Users:      users,
		Mailer:     m,
		WindowDays: windowDays,
		Now:        time.Now,
	}
}

// Run executes one sweep over all products. A send failure skips the
// product and leaves its flag untouched so the next run retries; one
// failing product never aborts the sweep. The notified flag is persisted
// only after a confirmed send, through a conditional update, so
// overlapping runs cannot claim the same product twice.
func (s *Sweeper) Run(ctx context.Context) error {
	logger := utils.GetLogger()

	products, err := s.Products.ListAll(ctx)
	if err != nil {
		return err
	}

	now := s.Now()
	for _, p := range products {
		if p.Notified {
			continue
		}
		if expiry.DaysLeft(p.Expiry, now) > s.WindowDays {
			continue
		}

		vars := map[string]string{
			"product":  p.Name,
			"expiry":   p.Expiry.Format("Mon Jan 02 2006"),
			"to_email": p.Owner,
			"to_name":  "User",
		}
		if err := s.Mailer.Send(ctx, mailer.TemplateExpiryAlert, vars); err != nil {
			logger.Warn("sweep: email delivery failed, will retry next run",
				zap.String("productId", p.ID), zap.String("owner", p.Owner), zap.Error(err))
			continue
		}

		flagged, err := s.Products.MarkNotified(ctx, p.ID)
		if err != nil {
			logger.Warn("sweep: failed to persist notified flag",
				zap.String("productId", p.ID), zap.Error(err))
			continue
		}
		if !flagged {
			// A concurrent run claimed the product between our read and write.
			logger.Debug("sweep: product already flagged", zap.String("productId", p.ID))
			continue
		}

		s.pushAlert(ctx, p)
		logger.Info("sweep: alert sent",
			zap.String("product", p.Name), zap.String("owner", p.Owner))
	}
	return nil
}

// pushAlert delivers a best-effort FCM push alongside the email.
func (s *Sweeper) pushAlert(ctx context.Context, p models.Product) {
	if utils.FCMClient == nil {
		return
	}
	owner, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil || owner.FCMToken == "" {
		return
	}

	title := reminder.TitleFor(p.Name, p.Expiry)
	if err := notification.SendPush(ctx, owner.FCMToken, title, "Check your DateX dashboard.", map[string]string{
		"productId": p.ID,
	}); err != nil {
		utils.GetLogger().Debug("sweep: push delivery failed",
			zap.String("productId", p.ID), zap.Error(err))
	}
}
