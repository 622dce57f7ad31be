package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	AccountID            uuid.UUID  `json:"account_id"`
	Email                string     `json:"email"`
	DisplayName          string     `json:"display_name"`
	Role                 string     `json:"role"`
	Banned               bool       `json:"banned"`
	Balance              float64    `json:"balance"`
	ReferralEarnings     float64    `json:"referral_earnings"`
	ReferralCode         string     `json:"referral_code"`
	ReferredBy           *uuid.UUID `json:"referred_by,omitempty"`
	ActivePlanID         *uuid.UUID `json:"active_plan_id,omitempty"`
	PlanActivatedAt      *time.Time `json:"plan_activated_at,omitempty"`
	FirstPlanActivatedAt *time.Time `json:"first_plan_activated_at,omitempty"`
	LastWithdrawalAt     *time.Time `json:"last_withdrawal_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// HadPlanBefore reports whether any plan purchase was ever activated for the
// account. A lapsed plan still counts: first-purchase referral bonuses must
// not re-trigger on repurchase after expiry.
func (a Account) HadPlanBefore() bool {
	return a.FirstPlanActivatedAt != nil
}

func ValidateRegistrationInput(email, password, displayName string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return ErrInvalidInput
	}
	if len(password) < 8 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(displayName) == "" {
		return ErrInvalidInput
	}
	return nil
}
