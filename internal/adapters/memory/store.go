// Package memory implements the persistence ports on in-process maps. It
// backs unit tests and local development without a database; the invariants
// the Postgres schema enforces with unique indexes and conditional updates
// are enforced here with a single store-wide mutex.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

type Store struct {
	mu sync.Mutex

	accounts     map[uuid.UUID]domain.Account
	accountOrder []uuid.UUID
	passwordHash map[uuid.UUID]string
	plans        map[uuid.UUID]domain.Plan
	planOrder    []uuid.UUID
	videos       map[uuid.UUID]domain.Video
	videoOrder   []uuid.UUID
	watches      map[watchKey]domain.WatchedVideo
	claims       map[claimKey]domain.DailyClaim
	transactions map[uuid.UUID]domain.Transaction
	txOrder      []uuid.UUID
	withdrawals  map[uuid.UUID]domain.Withdrawal
	wdOrder      []uuid.UUID
	outbox       []outboxRow
}

type watchKey struct {
	AccountID uuid.UUID
	VideoID   uuid.UUID
	Day       string
}

type claimKey struct {
	AccountID uuid.UUID
	Day       string
}

type outboxRow struct {
	record     ports.OutboxRecord
	claimToken string
	claimUntil time.Time
	deadLetter bool
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]domain.Account),
		passwordHash: make(map[uuid.UUID]string),
		plans:        make(map[uuid.UUID]domain.Plan),
		videos:       make(map[uuid.UUID]domain.Video),
		watches:      make(map[watchKey]domain.WatchedVideo),
		claims:       make(map[claimKey]domain.DailyClaim),
		transactions: make(map[uuid.UUID]domain.Transaction),
		withdrawals:  make(map[uuid.UUID]domain.Withdrawal),
	}
}

func (s *Store) Accounts() ports.AccountRepository       { return &accountRepo{s: s} }
func (s *Store) Plans() ports.PlanRepository             { return &planRepo{s: s} }
func (s *Store) Videos() ports.VideoRepository           { return &videoRepo{s: s} }
func (s *Store) Watches() ports.WatchRepository          { return &watchRepo{s: s} }
func (s *Store) Claims() ports.ClaimRepository           { return &claimRepo{s: s} }
func (s *Store) Purchases() ports.TransactionRepository  { return &transactionRepo{s: s} }
func (s *Store) Withdrawals() ports.WithdrawalRepository { return &withdrawalRepo{s: s} }
func (s *Store) Outbox() ports.OutboxRepository          { return &outboxRepo{s: s} }

// OutboxEvents returns the enqueued event types in order, for assertions.
func (s *Store) OutboxEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.outbox))
	for _, row := range s.outbox {
		out = append(out, row.record.EventType)
	}
	return out
}

func (s *Store) enqueueLocked(event ports.OutboxEvent) {
	if event.EventType == "" {
		return
	}
	s.outbox = append(s.outbox, outboxRow{record: ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
	}})
}

func paginate[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
