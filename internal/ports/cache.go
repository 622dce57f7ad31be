package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClaimGuard is a best-effort duplicate suppressor in front of the claim
// transaction. It absorbs double-clicks cheaply; the database unique index
// remains the authority for at-most-once payout.
type ClaimGuard interface {
	// TryAcquire returns false when another claim attempt for the same
	// account and day already holds the guard.
	TryAcquire(ctx context.Context, accountID uuid.UUID, dayKey string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, accountID uuid.UUID, dayKey string) error
}

// TokenDenylist revokes bearer tokens on logout until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID uuid.UUID, until time.Time) error
	IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)
}
