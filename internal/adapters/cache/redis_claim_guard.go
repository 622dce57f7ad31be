package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClaimGuard suppresses duplicate claim attempts with a short-lived
// SETNX key per account and day. It is a front-line filter only: when Redis
// is down or the key expires mid-flight, the daily-claims unique index still
// rejects the duplicate.
type RedisClaimGuard struct {
	client *redis.Client
}

// NewRedisClaimGuard creates a claim guard backed by Redis.
func NewRedisClaimGuard(client *redis.Client) *RedisClaimGuard {
	return &RedisClaimGuard{client: client}
}

func (g *RedisClaimGuard) TryAcquire(ctx context.Context, accountID uuid.UUID, dayKey string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return g.client.SetNX(ctx, claimGuardKey(accountID, dayKey), "1", ttl).Result()
}

func (g *RedisClaimGuard) Release(ctx context.Context, accountID uuid.UUID, dayKey string) error {
	return g.client.Del(ctx, claimGuardKey(accountID, dayKey)).Err()
}

func claimGuardKey(accountID uuid.UUID, dayKey string) string {
	return "ledger:claim:" + accountID.String() + ":" + dayKey
}
