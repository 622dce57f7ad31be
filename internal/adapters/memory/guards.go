package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClaimGuard is the in-process variant of the Redis claim guard.
type ClaimGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewClaimGuard() *ClaimGuard {
	return &ClaimGuard{held: make(map[string]time.Time)}
}

func (g *ClaimGuard) TryAcquire(_ context.Context, accountID uuid.UUID, dayKey string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := accountID.String() + ":" + dayKey
	now := time.Now().UTC()
	if expiry, ok := g.held[key]; ok && now.Before(expiry) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

func (g *ClaimGuard) Release(_ context.Context, accountID uuid.UUID, dayKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, accountID.String()+":"+dayKey)
	return nil
}

// TokenDenylist is the in-process variant of the Redis token denylist.
type TokenDenylist struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]time.Time
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{revoked: make(map[uuid.UUID]time.Time)}
}

func (d *TokenDenylist) Revoke(_ context.Context, tokenID uuid.UUID, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = until
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID uuid.UUID) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	until, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(until) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
