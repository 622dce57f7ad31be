package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	PlanID       uuid.UUID `json:"plan_id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	DailyEarning float64   `json:"daily_earning"`
	VideosPerDay int       `json:"videos_per_day"`
	ValidityDays int       `json:"validity_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlanExpiry returns the instant the activation lapses. The plan is active on
// [activatedAt, activatedAt + validity_days).
func PlanExpiry(activatedAt time.Time, validityDays int) time.Time {
	return activatedAt.AddDate(0, 0, validityDays)
}

// IsPlanActive is the plan-activity evaluator. It is time-dependent and must
// be recomputed on every read rather than cached.
func IsPlanActive(account Account, plan Plan, now time.Time) bool {
	if account.ActivePlanID == nil || account.PlanActivatedAt == nil {
		return false
	}
	if *account.ActivePlanID != plan.PlanID {
		return false
	}
	return now.Before(PlanExpiry(*account.PlanActivatedAt, plan.ValidityDays))
}

func ValidatePlanInput(name string, price, dailyEarning float64, videosPerDay, validityDays int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if price < 0 || dailyEarning < 0 {
		return ErrInvalidInput
	}
	if videosPerDay <= 0 || validityDays <= 0 {
		return ErrInvalidInput
	}
	return nil
}
