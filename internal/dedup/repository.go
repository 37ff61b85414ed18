package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kassa/internal/constants"
)

// Repository claims message IDs in a shared store. A successful claim means
// no other worker has seen the ID within the TTL window.
type Repository interface {
	Claim(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
}

type RedisRepository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) Repository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Claim(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := constants.CacheKeyPrefixDedup + messageID
	claimed, err := r.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return claimed, nil
}
