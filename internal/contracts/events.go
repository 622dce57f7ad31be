package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PartitionKey  string          `json:"partition_key"`
	SourceService string          `json:"source_service"`
	SchemaVersion string          `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

type AccountRegisteredPayload struct {
	AccountID    string `json:"account_id"`
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
	ReferredBy   string `json:"referred_by,omitempty"`
	RegisteredAt string `json:"registered_at"`
}

type WatchRecordedPayload struct {
	WatchID   string `json:"watch_id"`
	AccountID string `json:"account_id"`
	VideoID   string `json:"video_id"`
	WatchDay  string `json:"watch_day"`
	WatchedAt string `json:"watched_at"`
}

type ClaimPaidPayload struct {
	ClaimID   string  `json:"claim_id"`
	AccountID string  `json:"account_id"`
	ClaimDay  string  `json:"claim_day"`
	Amount    float64 `json:"amount"`
	ClaimedAt string  `json:"claimed_at"`
}

type PlanActivatedPayload struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	PlanID        string `json:"plan_id"`
	FirstPlan     bool   `json:"first_plan"`
	ActivatedAt   string `json:"activated_at"`
}

type TransactionRejectedPayload struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	RejectedAt    string `json:"rejected_at"`
}

type ReferralBonusCreditedPayload struct {
	ReferrerID    string  `json:"referrer_id"`
	ReferredID    string  `json:"referred_id"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	CreditedAt    string  `json:"credited_at"`
}

type ReferralCreditFailedPayload struct {
	ReferrerID    string `json:"referrer_id"`
	ReferredID    string `json:"referred_id"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
	FailedAt      string `json:"failed_at"`
}

type WithdrawalRequestedPayload struct {
	WithdrawalID string  `json:"withdrawal_id"`
	AccountID    string  `json:"account_id"`
	Amount       float64 `json:"amount"`
	Method       string  `json:"method"`
	RequestedAt  string  `json:"requested_at"`
}

type WithdrawalSettledPayload struct {
	WithdrawalID string  `json:"withdrawal_id"`
	AccountID    string  `json:"account_id"`
	Amount       float64 `json:"amount"`
	Status       string  `json:"status"`
	DecidedAt    string  `json:"decided_at"`
}
