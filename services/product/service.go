package product

import (
	"context"
	"fmt"
	"time"

	productRepo "datex/database/repository/product"
	"datex/models"
	"datex/services/expiry"
	"datex/services/reminder"
	"datex/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProductService is the production implementation.
type DefaultProductService struct {
	Repo     productRepo.ProductRepository
	Cache    *SnapshotCache
	Reminder *reminder.Policy
	Now      func() time.Time
}

func NewDefaultProductService(repo productRepo.ProductRepository, cache *SnapshotCache, policy *reminder.Policy) *DefaultProductService {
	return &DefaultProductService{
		Repo:     repo,
		Cache:    cache,
		Reminder: policy,
		Now:      time.Now,
	}
}

// Create persists a new product, then synchronously runs the reminder
// policy. A reminder failure is logged but does not undo the creation:
// the product is already stored and the sweep job covers the email path.
func (s *DefaultProductService) Create(ctx context.Context, user *models.User, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Name:         in.Name,
		Expiry:       in.Expiry,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Comment:      in.Comment,
		RemindBefore: in.RemindBefore,
		Owner:        user.Email,
		Notified:     false,
		CreatedAt:    s.Now(),
	}

	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.Reminder.OnProductCreated(ctx, product); err != nil {
		utils.GetLogger().Warn("Create: reminder policy failed",
			zap.String("productId", product.ID), zap.Error(err))
	}

	s.refreshSnapshot(ctx, user.ID)
	return product, nil
}

// List returns the user's products, newest first. When the store is
// unreachable the last snapshot is served instead, matching the
// read-from-cache-before-fresh-fetch behavior of the client.
func (s *DefaultProductService) List(ctx context.Context, userID string) ([]models.Product, error) {
	products, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		cached, cacheErr := s.Cache.Get(ctx, userID)
		if cacheErr == nil && cached != nil {
			utils.GetLogger().Warn("List: store unreachable, serving cached snapshot",
				zap.String("userId", userID), zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	if cacheErr := s.Cache.Set(ctx, userID, products); cacheErr != nil {
		utils.GetLogger().Warn("List: failed to refresh snapshot",
			zap.String("userId", userID), zap.Error(cacheErr))
	}
	return products, nil
}

// Update overwrites the mutable fields of one of the user's products.
// Edits never re-run the reminder policy.
func (s *DefaultProductService) Update(ctx context.Context, userID, id string, in ProductInput) (*models.Product, error) {
	existing, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("product with id %s not found", id)
	}

	existing.Name = in.Name
	existing.Expiry = in.Expiry
	existing.Category = in.Category
	existing.Quantity = in.Quantity
	existing.Comment = in.Comment
	existing.RemindBefore = in.RemindBefore

	if err := s.Repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.refreshSnapshot(ctx, userID)
	return existing, nil
}

// Delete removes one of the user's products.
func (s *DefaultProductService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.refreshSnapshot(ctx, userID)
	return nil
}

// Summary computes the dashboard counters from the same classification
// used to render each row.
func (s *DefaultProductService) Summary(ctx context.Context, userID string) (*models.ProductSummary, error) {
	products, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	summary := &models.ProductSummary{Total: len(products)}
	for _, p := range products {
		switch expiry.Classify(p.Expiry, now) {
		case expiry.StatusExpiringSoon:
			summary.NearExpiry++
		case expiry.StatusExpired:
			summary.Expired++
		}
	}
	return summary, nil
}

// refreshSnapshot rewrites the user's cached product list after a
// mutation. Best effort: the store remains the source of truth.
func (s *DefaultProductService) refreshSnapshot(ctx context.Context, userID string) {
	products, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("refreshSnapshot: failed to list products",
			zap.String("userId", userID), zap.Error(err))
		return
	}
	if err := s.Cache.Set(ctx, userID, products); err != nil {
		utils.GetLogger().Warn("refreshSnapshot: failed to store snapshot",
			zap.String("userId", userID), zap.Error(err))
	}
}
