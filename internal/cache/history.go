package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "txhistory:user:"

// History caches transaction history responses in Redis. All methods are
// nil-safe and fail open: a cache outage degrades to store reads, never to
// request failures.
type History struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHistory builds a history cache with the given TTL.
func NewHistory(client *redis.Client, ttl time.Duration) *History {
	return &History{client: client, ttl: ttl}
}

// Get loads the cached history for a user into dest. The boolean reports
// whether a cached value was found.
func (h *History) Get(ctx context.Context, userID string, dest any) bool {
	if h == nil || h.client == nil {
		return false
	}
	val, err := h.client.Get(ctx, historyKeyPrefix+userID).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

// Set stores the history for a user.
func (h *History) Set(ctx context.Context, userID string, value any) error {
	if h == nil || h.client == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return h.client.Set(ctx, historyKeyPrefix+userID, b, h.ttl).Err()
}

// Invalidate drops the cached history for the given users. Called after every
// balance mutation so stale history is never served past the mutation.
func (h *History) Invalidate(ctx context.Context, userIDs ...string) error {
	if h == nil || h.client == nil || len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, historyKeyPrefix+id)
	}
	if err := h.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
