package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

func TestReferralEligible(t *testing.T) {
	t.Parallel()

	referrer := uuid.New()
	firstActivation := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		purchaser domain.Account
		want      bool
	}{
		{
			"referred, first plan",
			domain.Account{ReferredBy: &referrer},
			true,
		},
		{
			"not referred",
			domain.Account{},
			false,
		},
		{
			"referred, repurchase after lapse",
			domain.Account{ReferredBy: &referrer, FirstPlanActivatedAt: &firstActivation},
			false,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := domain.ReferralEligible(tc.purchaser); got != tc.want {
				t.Fatalf("ReferralEligible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewReferralCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for n := 0; n < 100; n++ {
		code := domain.NewReferralCode()
		if len(code) != 8 {
			t.Fatalf("code %q has length %d, want 8", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r) {
				t.Fatalf("code %q contains disallowed character %q", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Fatalf("expected mostly unique codes, got %d distinct out of 100", len(seen))
	}
}
