package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vitanav/wellness-engine/internal/core/domain"
)

const patternTTL = 30 * time.Minute

// PatternCache holds the latest mined pattern per user. A miss or any redis
// failure falls through to a full recompute, never to an error.
type PatternCache struct {
	client *redis.Client
}

func NewPatternCache(client *redis.Client) *PatternCache {
	return &PatternCache{client: client}
}

func (c *PatternCache) key(userID string) string {
	return fmt.Sprintf("patterns:%s", userID)
}

func (c *PatternCache) Get(ctx context.Context, userID string) (*domain.UserPattern, bool) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[CACHE] Redis read error: %v", err)
		}
		return nil, false
	}

	var pattern domain.UserPattern
	if err := json.Unmarshal([]byte(val), &pattern); err != nil {
		log.Printf("[CACHE] Corrupted pattern for user %s, cleaning up key", userID)
		c.client.Del(ctx, c.key(userID))
		return nil, false
	}
	return &pattern, true
}

func (c *PatternCache) Set(ctx context.Context, userID string, pattern domain.UserPattern) {
	data, err := json.Marshal(pattern)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(userID), data, patternTTL).Err(); err != nil {
		log.Printf("[CACHE] Redis set error: %v", err)
	}
}

func (c *PatternCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate patterns for user %s: %v", userID, err)
	}
}
