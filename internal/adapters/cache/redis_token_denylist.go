package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTokenDenylist stores revoked-token flags with TTL. Entries expire on
// their own once the token itself would have expired.
type RedisTokenDenylist struct {
	client *redis.Client
}

// NewRedisTokenDenylist creates a token denylist backed by Redis.
func NewRedisTokenDenylist(client *redis.Client) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

func (d *RedisTokenDenylist) Revoke(ctx context.Context, tokenID uuid.UUID, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		ttl = time.Hour
	}
	return d.client.Set(ctx, "ledger:revoked:"+tokenID.String(), "1", ttl).Err()
}

func (d *RedisTokenDenylist) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	n, err := d.client.Exists(ctx, "ledger:revoked:"+tokenID.String()).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
