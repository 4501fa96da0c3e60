package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore backs the fixed-window counter with Redis INCR + EXPIRE so
// every instance sees the same count.
func NewRedisStore(client *redis.Client) CounterStore {
	return &redisStore{client: client}
}

func (s *redisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// expiry a window past the boundary keeps the key from lingering
	pipe.Expire(ctx, key, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	return incr.Val(), nil
}
