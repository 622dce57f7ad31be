package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

type CreateAccountParams struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Role         string
	ReferralCode string
	ReferredBy   *uuid.UUID
	RegisteredAt time.Time
}

// PlanActivationParams applies a transaction approval: the status flip and
// the account plan fields change in one database transaction.
type PlanActivationParams struct {
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	PlanID        uuid.UUID
	DecidedBy     uuid.UUID
	ActivatedAt   time.Time
}

// WithdrawalApprovalParams applies a withdrawal approval: status flip,
// conditional balance deduction, and last-withdrawal stamp in one database
// transaction. The repository re-checks balance >= amount at write time.
type WithdrawalApprovalParams struct {
	WithdrawalID uuid.UUID
	AccountID    uuid.UUID
	Amount       float64
	DecidedBy    uuid.UUID
	DecidedAt    time.Time
}

type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams, outboxEvent OutboxEvent) (domain.Account, error)
	GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByReferralCode(ctx context.Context, code string) (domain.Account, error)
	GetPasswordHash(ctx context.Context, accountID uuid.UUID) (string, error)
	List(ctx context.Context, limit, offset int) ([]domain.Account, int, error)
	CountReferred(ctx context.Context, referrerID uuid.UUID) (int, error)
	SetBanned(ctx context.Context, accountID uuid.UUID, banned bool, updatedAt time.Time) error
	// CreditReferralBonus atomically increments the referrer's balance and
	// referral earnings. Best-effort caller; must not be part of the
	// approval transaction.
	CreditReferralBonus(ctx context.Context, referrerID uuid.UUID, amount float64, creditedAt time.Time, outboxEvent OutboxEvent) error
}

type PlanRepository interface {
	Create(ctx context.Context, plan domain.Plan) error
	GetByID(ctx context.Context, planID uuid.UUID) (domain.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Plan, error)
}

type VideoRepository interface {
	Create(ctx context.Context, video domain.Video) error
	GetByID(ctx context.Context, videoID uuid.UUID) (domain.Video, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Video, error)
}

type WatchRepository interface {
	// Record inserts a watch fact and enqueues its event in the same
	// transaction. A duplicate (account, video, day) must surface
	// domain.ErrAlreadyWatched with no partial state, so retries fail
	// cleanly.
	Record(ctx context.Context, watch domain.WatchedVideo, outboxEvent OutboxEvent) error
	CountForDay(ctx context.Context, accountID uuid.UUID, dayKey string) (int, error)
	ListForDay(ctx context.Context, accountID uuid.UUID, dayKey string) ([]domain.WatchedVideo, error)
}

type ClaimRepository interface {
	// InsertAndCredit inserts the claim row and credits the account balance
	// in one database transaction. The (account, day) unique index makes the
	// payout at-most-once: a duplicate attempt returns
	// domain.ErrAlreadyClaimed and credits nothing.
	InsertAndCredit(ctx context.Context, claim domain.DailyClaim, outboxEvent OutboxEvent) error
	HasClaimForDay(ctx context.Context, accountID uuid.UUID, dayKey string) (bool, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyClaim, int, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, tx domain.Transaction) error
	GetByID(ctx context.Context, transactionID uuid.UUID) (domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error)
	ListByStatus(ctx context.Context, status domain.TransactionStatus, limit, offset int) ([]domain.Transaction, int, error)
	// ApproveAndActivatePlan flips pending->approved and activates the plan
	// on the account atomically. A transaction already in a terminal state
	// returns domain.ErrTransactionNotPending untouched.
	ApproveAndActivatePlan(ctx context.Context, params PlanActivationParams, outboxEvent OutboxEvent) error
	Reject(ctx context.Context, transactionID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent OutboxEvent) error
}

type WithdrawalRepository interface {
	Create(ctx context.Context, w domain.Withdrawal, outboxEvent OutboxEvent) error
	GetByID(ctx context.Context, withdrawalID uuid.UUID) (domain.Withdrawal, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Withdrawal, int, error)
	ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]domain.Withdrawal, int, error)
	HasPendingForAccount(ctx context.Context, accountID uuid.UUID) (bool, error)
	// ApproveAndDebit flips pending->approved, deducts the balance with an
	// in-UPDATE balance re-check, and stamps last_withdrawal_at, all in one
	// database transaction. Insufficient balance at approval time returns
	// domain.ErrInsufficientBalance and leaves the withdrawal pending.
	ApproveAndDebit(ctx context.Context, params WithdrawalApprovalParams, outboxEvent OutboxEvent) error
	Reject(ctx context.Context, withdrawalID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent OutboxEvent) error
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
	RetryCount   int
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, reason string, at time.Time, maxRetries int) error
}
