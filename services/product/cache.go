package product

import (
	"context"
	"encoding/json"
	"fmt"

	"datex/models"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "cachedProducts:"

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

// SnapshotCache mirrors a user's full product list into Redis. It is a
// stale-read allowance, not a consistency mechanism: the snapshot is
// rewritten on every successful fetch and mutation, served when the
// store is unreachable, and cleared on sign-out so one user's data never
// leaks into another session.
type SnapshotCache struct {
	Client *redis.Client
}

// NewSnapshotCache creates a snapshot cache over the given Redis client.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{Client: client}
}

// Set replaces the user's snapshot with the given product list.
func (c *SnapshotCache) Set(ctx context.Context, userID string, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode product snapshot: %w", err)
	}
	if err := c.Client.Set(ctx, cacheKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store product snapshot: %w", err)
	}
	return nil
}

// Get returns the user's cached snapshot, or nil when none exists.
func (c *SnapshotCache) Get(ctx context.Context, userID string) ([]models.Product, error) {
	data, err := c.Client.Get(ctx, cacheKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read product snapshot: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode product snapshot: %w", err)
	}
	return products, nil
}

// Clear removes the user's snapshot. Called on sign-out.
func (c *SnapshotCache) Clear(ctx context.Context, userID string) error {
	if err := c.Client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear product snapshot: %w", err)
	}
	return nil
}
