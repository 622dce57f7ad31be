package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

func activeAccountAndPlan(now time.Time, videosPerDay int) (domain.Account, domain.Plan) {
	plan := domain.Plan{PlanID: uuid.New(), VideosPerDay: videosPerDay, ValidityDays: 30, Active: true}
	planID := plan.PlanID
	activatedAt := now.AddDate(0, 0, -1)
	account := domain.Account{
		AccountID:       uuid.New(),
		ActivePlanID:    &planID,
		PlanActivatedAt: &activatedAt,
	}
	return account, plan
}

func TestEvaluateClaim(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	account, plan := activeAccountAndPlan(now, 3)

	cases := []struct {
		name         string
		watchedToday int
		claimedToday bool
		wantCanClaim bool
	}{
		{"quota met", 3, false, true},
		{"over quota", 5, false, true},
		{"quota short", 2, false, false},
		{"already claimed", 3, true, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := domain.EvaluateClaim(account, plan, tc.watchedToday, tc.claimedToday, now)
			if got.CanClaim != tc.wantCanClaim {
				t.Fatalf("CanClaim = %v, want %v", got.CanClaim, tc.wantCanClaim)
			}
			if got.RequiredPerDay != 3 || got.WatchedToday != tc.watchedToday {
				t.Fatalf("eligibility snapshot mismatch: %+v", got)
			}
		})
	}
}

func TestEvaluateClaimInactivePlanBlocksEverything(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	account, plan := activeAccountAndPlan(now, 3)
	expired := now.AddDate(0, 0, 60)

	got := domain.EvaluateClaim(account, plan, 10, false, expired)
	if got.PlanActive || got.CanClaim {
		t.Fatalf("expired plan must block claims: %+v", got)
	}
}

func TestClaimPreconditionErrorOrdering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		e       domain.ClaimEligibility
		wantErr error
	}{
		{
			"plan inactive wins over everything",
			domain.ClaimEligibility{PlanActive: false, ClaimedToday: true, WatchedToday: 0, RequiredPerDay: 3},
			domain.ErrPlanNotActive,
		},
		{
			"claimed wins over quota",
			domain.ClaimEligibility{PlanActive: true, ClaimedToday: true, WatchedToday: 0, RequiredPerDay: 3},
			domain.ErrAlreadyClaimed,
		},
		{
			"quota short",
			domain.ClaimEligibility{PlanActive: true, ClaimedToday: false, WatchedToday: 2, RequiredPerDay: 3},
			domain.ErrQuotaNotMet,
		},
		{
			"eligible",
			domain.ClaimEligibility{PlanActive: true, ClaimedToday: false, WatchedToday: 3, RequiredPerDay: 3},
			nil,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := domain.ClaimPreconditionError(tc.e)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}
