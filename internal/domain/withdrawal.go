package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

type Withdrawal struct {
	WithdrawalID      uuid.UUID        `json:"withdrawal_id"`
	AccountID         uuid.UUID        `json:"account_id"`
	Amount            float64          `json:"amount"`
	Method            string           `json:"method"`
	DestinationNumber string           `json:"destination_number"`
	DestinationName   string           `json:"destination_name"`
	Status            WithdrawalStatus `json:"status"`
	DecidedBy         *uuid.UUID       `json:"decided_by,omitempty"`
	DecidedAt         *time.Time       `json:"decided_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// WithdrawalAvailability is the weekly-gate read model. One approved
// withdrawal is allowed per calendar week (Sunday through Saturday).
type WithdrawalAvailability struct {
	Available      bool       `json:"available"`
	NextEligibleAt *time.Time `json:"next_eligible_at,omitempty"`
}

// EvaluateWithdrawalGate applies the weekly cadence rule. The gate closes
// when last_withdrawal_at falls inside the current calendar week and reopens
// at the next Sunday 00:00 in the business timezone. Pure.
func EvaluateWithdrawalGate(lastWithdrawalAt *time.Time, now time.Time, loc *time.Location) WithdrawalAvailability {
	if lastWithdrawalAt == nil {
		return WithdrawalAvailability{Available: true}
	}
	weekStart := StartOfWeek(now, loc)
	if lastWithdrawalAt.Before(weekStart) {
		return WithdrawalAvailability{Available: true}
	}
	next := NextWeekStart(now, loc)
	return WithdrawalAvailability{Available: false, NextEligibleAt: &next}
}

// ValidateWithdrawalRequest covers the pure input checks; balance and weekly
// gate are preconditions evaluated against persisted state by the caller.
func ValidateWithdrawalRequest(amount, minimum float64, method, destinationNumber, destinationName string) error {
	if amount <= 0 {
		return ErrInvalidInput
	}
	if amount < minimum {
		return ErrBelowMinimumWithdrawal
	}
	if strings.TrimSpace(method) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(destinationNumber) == "" || strings.TrimSpace(destinationName) == "" {
		return ErrInvalidInput
	}
	return nil
}
