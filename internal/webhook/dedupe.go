package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper filters duplicate webhook deliveries by message ID. The gateway
// retries deliveries, so the same message can arrive more than once.
type Deduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduper creates a Redis-backed deduper. A nil client disables
// deduplication; every message is then treated as first delivery.
func NewDeduper(client *redis.Client, ttl time.Duration) *Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduper{client: client, ttl: ttl}
}

// FirstDelivery claims the message ID atomically with SETNX. It returns
// false when the ID was already seen inside the TTL window. Redis errors
// fail open; the quote path has its own state guard.
func (d *Deduper) FirstDelivery(ctx context.Context, messageID string) bool {
	if d == nil || d.client == nil || messageID == "" {
		return true
	}

	key := fmt.Sprintf("webhook:msg:%s", messageID)
	ok, err := d.client.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
