package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

func TestIsPlanActiveWindow(t *testing.T) {
	t.Parallel()

	activatedAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	plan := domain.Plan{PlanID: uuid.New(), ValidityDays: 30, Active: true}
	planID := plan.PlanID
	account := domain.Account{
		AccountID:       uuid.New(),
		ActivePlanID:    &planID,
		PlanActivatedAt: &activatedAt,
	}
	expiry := activatedAt.AddDate(0, 0, 30)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"at activation", activatedAt, true},
		{"mid window", activatedAt.AddDate(0, 0, 15), true},
		{"one second before expiry", expiry.Add(-time.Second), true},
		{"exactly at expiry", expiry, false},
		{"after expiry", expiry.Add(time.Hour), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.IsPlanActive(account, plan, tc.now); got != tc.want {
				t.Fatalf("IsPlanActive at %v = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestIsPlanActiveRequiresActivation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	plan := domain.Plan{PlanID: uuid.New(), ValidityDays: 30}

	if domain.IsPlanActive(domain.Account{}, plan, now) {
		t.Fatal("account without an activated plan must not be active")
	}

	otherID := uuid.New()
	activatedAt := now.AddDate(0, 0, -1)
	account := domain.Account{ActivePlanID: &otherID, PlanActivatedAt: &activatedAt}
	if domain.IsPlanActive(account, plan, now) {
		t.Fatal("activation for a different plan must not count")
	}
}

func TestPlanExpiryUsesCalendarDays(t *testing.T) {
	t.Parallel()

	// AddDate arithmetic keeps the time-of-day component.
	activatedAt := time.Date(2025, 2, 27, 18, 45, 0, 0, time.UTC)
	want := time.Date(2025, 3, 6, 18, 45, 0, 0, time.UTC)
	if got := domain.PlanExpiry(activatedAt, 7); !got.Equal(want) {
		t.Fatalf("PlanExpiry = %v, want %v", got, want)
	}
}

func TestValidatePlanInput(t *testing.T) {
	t.Parallel()

	if err := domain.ValidatePlanInput("Starter", 500, 25, 3, 30); err != nil {
		t.Fatalf("valid plan input rejected: %v", err)
	}

	cases := []struct {
		name         string
		planName     string
		price        float64
		dailyEarning float64
		videosPerDay int
		validityDays int
	}{
		{"blank name", "  ", 500, 25, 3, 30},
		{"negative price", "Starter", -1, 25, 3, 30},
		{"negative earning", "Starter", 500, -1, 3, 30},
		{"zero quota", "Starter", 500, 25, 0, 30},
		{"zero validity", "Starter", 500, 25, 3, 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := domain.ValidatePlanInput(tc.planName, tc.price, tc.dailyEarning, tc.videosPerDay, tc.validityDays)
			if err != domain.ErrInvalidInput {
				t.Fatalf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}
