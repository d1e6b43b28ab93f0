package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const signalKeyPrefix = "noti-update:"

func signalKey(userID string) string {
	return signalKeyPrefix + userID
}

// Hub broadcasts "notification state changed" signals to subscribers.
// Subscribers are woken synchronously on Publish; a per-user flag
// persisted in Redis backs the channel so a consumer that attaches after
// a publish still observes the pending change. The flag's value is a
// timestamp but only its presence carries meaning; it persists until a
// consumer clears it after refreshing.
type Hub struct {
	cache *redis.Client

	mu   sync.Mutex
	next int
	subs map[string]map[int]chan struct{}
}

// NewHub creates a Hub backed by the given Redis client.
func NewHub(cache *redis.Client) *Hub {
	return &Hub{
		cache: cache,
		subs:  make(map[string]map[int]chan struct{}),
	}
}

// Publish records a pending signal for the user and wakes all current
// subscribers. Never blocks: a subscriber that already has a pending
// wake-up is skipped.
func (h *Hub) Publish(ctx context.Context, userID string) {
	// Best effort: the in-process wake-up below still fires if the flag
	// write fails, only the catch-up path is lost.
	h.cache.Set(ctx, signalKey(userID), fmt.Sprint(time.Now().UnixMilli()), 0)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a listener for the user's signals. The returned
// cancel function must be called when the listener goes away.
func (h *Hub) Subscribe(userID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	id := h.next
	h.next++
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan struct{})
	}
	h.subs[userID][id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[userID], id)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Pending reports whether a signal was published for the user and not
// yet cleared.
func (h *Hub) Pending(ctx context.Context, userID string) bool {
	n, err := h.cache.Exists(ctx, signalKey(userID)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Clear removes the user's pending signal once a consumer has refreshed.
func (h *Hub) Clear(ctx context.Context, userID string) {
	h.cache.Del(ctx, signalKey(userID))
}
