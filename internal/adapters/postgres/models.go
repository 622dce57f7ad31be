package postgres

import (
	"time"

	"github.com/google/uuid"
)

type accountModel struct {
	AccountID            uuid.UUID  `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email                string     `gorm:"column:email"`
	PasswordHash         string     `gorm:"column:password_hash"`
	DisplayName          string     `gorm:"column:display_name"`
	Role                 string     `gorm:"column:role"`
	Banned               bool       `gorm:"column:banned"`
	Balance              float64    `gorm:"column:balance"`
	ReferralEarnings     float64    `gorm:"column:referral_earnings"`
	ReferralCode         *string    `gorm:"column:referral_code"`
	ReferredBy           *uuid.UUID `gorm:"column:referred_by"`
	ActivePlanID         *uuid.UUID `gorm:"column:active_plan_id"`
	PlanActivatedAt      *time.Time `gorm:"column:plan_activated_at"`
	FirstPlanActivatedAt *time.Time `gorm:"column:first_plan_activated_at"`
	LastWithdrawalAt     *time.Time `gorm:"column:last_withdrawal_at"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

type planModel struct {
	PlanID       uuid.UUID `gorm:"column:plan_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"column:name"`
	Price        float64   `gorm:"column:price"`
	DailyEarning float64   `gorm:"column:daily_earning"`
	VideosPerDay int       `gorm:"column:videos_per_day"`
	ValidityDays int       `gorm:"column:validity_days"`
	Active       bool      `gorm:"column:active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (planModel) TableName() string { return "plans" }

type videoModel struct {
	VideoID         uuid.UUID `gorm:"column:video_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string    `gorm:"column:title"`
	Description     string    `gorm:"column:description"`
	SourceURL       string    `gorm:"column:source_url"`
	DurationSeconds int       `gorm:"column:duration_seconds"`
	Active          bool      `gorm:"column:active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (videoModel) TableName() string { return "videos" }

type watchedVideoModel struct {
	WatchID   uuid.UUID `gorm:"column:watch_id;type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id"`
	VideoID   uuid.UUID `gorm:"column:video_id"`
	WatchDay  string    `gorm:"column:watch_day"`
	WatchedAt time.Time `gorm:"column:watched_at"`
}

func (watchedVideoModel) TableName() string { return "watched_videos" }

type dailyClaimModel struct {
	ClaimID   uuid.UUID `gorm:"column:claim_id;type:uuid;primaryKey"`
	AccountID uuid.UUID `gorm:"column:account_id"`
	ClaimDay  string    `gorm:"column:claim_day"`
	Amount    float64   `gorm:"column:amount"`
	ClaimedAt time.Time `gorm:"column:claimed_at"`
}

func (dailyClaimModel) TableName() string { return "daily_claims" }

type transactionModel struct {
	TransactionID    uuid.UUID  `gorm:"column:transaction_id;type:uuid;primaryKey"`
	AccountID        uuid.UUID  `gorm:"column:account_id"`
	PlanID           uuid.UUID  `gorm:"column:plan_id"`
	Amount           float64    `gorm:"column:amount"`
	PaymentReference string     `gorm:"column:payment_reference"`
	ProofURL         string     `gorm:"column:proof_url"`
	Status           string     `gorm:"column:status"`
	DecidedBy        *uuid.UUID `gorm:"column:decided_by"`
	DecidedAt        *time.Time `gorm:"column:decided_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (transactionModel) TableName() string { return "transactions" }

type withdrawalModel struct {
	WithdrawalID      uuid.UUID  `gorm:"column:withdrawal_id;type:uuid;primaryKey"`
	AccountID         uuid.UUID  `gorm:"column:account_id"`
	Amount            float64    `gorm:"column:amount"`
	Method            string     `gorm:"column:method"`
	DestinationNumber string     `gorm:"column:destination_number"`
	DestinationName   string     `gorm:"column:destination_name"`
	Status            string     `gorm:"column:status"`
	DecidedBy         *uuid.UUID `gorm:"column:decided_by"`
	DecidedAt         *time.Time `gorm:"column:decided_at"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (withdrawalModel) TableName() string { return "withdrawals" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "ledger_outbox" }
