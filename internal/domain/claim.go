package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyClaim marks that the daily reward was paid for one calendar day.
// At most one claim per (account, day) exists; the persistence layer enforces
// this with a unique index, which is the authority for at-most-once payout.
type DailyClaim struct {
	ClaimID   uuid.UUID `json:"claim_id"`
	AccountID uuid.UUID `json:"account_id"`
	ClaimDay  string    `json:"claim_day"`
	Amount    float64   `json:"amount"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// ClaimEligibility is the read model behind the claim button.
type ClaimEligibility struct {
	PlanActive     bool `json:"plan_active"`
	WatchedToday   int  `json:"watched_today"`
	RequiredPerDay int  `json:"required_per_day"`
	ClaimedToday   bool `json:"claimed_today"`
	CanClaim       bool `json:"can_claim"`
}

// EvaluateClaim computes claim eligibility from explicit inputs. Pure.
func EvaluateClaim(account Account, plan Plan, watchedToday int, claimedToday bool, now time.Time) ClaimEligibility {
	active := IsPlanActive(account, plan, now)
	return ClaimEligibility{
		PlanActive:     active,
		WatchedToday:   watchedToday,
		RequiredPerDay: plan.VideosPerDay,
		ClaimedToday:   claimedToday,
		CanClaim:       active && watchedToday >= plan.VideosPerDay && !claimedToday,
	}
}

// ClaimPreconditionError maps a failed eligibility snapshot to the most
// specific precondition error, checked in user-actionable order.
func ClaimPreconditionError(e ClaimEligibility) error {
	switch {
	case !e.PlanActive:
		return ErrPlanNotActive
	case e.ClaimedToday:
		return ErrAlreadyClaimed
	case e.WatchedToday < e.RequiredPerDay:
		return ErrQuotaNotMet
	default:
		return nil
	}
}
