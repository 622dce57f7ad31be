package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/videarn/ledger-service/internal/domain"
)

func TestEvaluateWithdrawalGate(t *testing.T) {
	t.Parallel()

	// 2025-03-10 is a Monday; its week runs Sunday 03-09 through Saturday 03-15.
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	nextSunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	t.Run("never withdrew", func(t *testing.T) {
		t.Parallel()
		got := domain.EvaluateWithdrawalGate(nil, now, time.UTC)
		if !got.Available || got.NextEligibleAt != nil {
			t.Fatalf("expected open gate, got %+v", got)
		}
	})

	t.Run("withdrew last week", func(t *testing.T) {
		t.Parallel()
		last := time.Date(2025, 3, 8, 23, 59, 59, 0, time.UTC)
		got := domain.EvaluateWithdrawalGate(&last, now, time.UTC)
		if !got.Available {
			t.Fatalf("withdrawal before this week's Sunday must not lock the gate: %+v", got)
		}
	})

	t.Run("withdrew this week", func(t *testing.T) {
		t.Parallel()
		last := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
		got := domain.EvaluateWithdrawalGate(&last, now, time.UTC)
		if got.Available {
			t.Fatalf("withdrawal on Sunday of the current week must lock the gate: %+v", got)
		}
		if got.NextEligibleAt == nil || !got.NextEligibleAt.Equal(nextSunday) {
			t.Fatalf("NextEligibleAt = %v, want %v", got.NextEligibleAt, nextSunday)
		}
	})

	t.Run("gate reopens on sunday", func(t *testing.T) {
		t.Parallel()
		last := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		got := domain.EvaluateWithdrawalGate(&last, nextSunday, time.UTC)
		if !got.Available {
			t.Fatalf("last week's withdrawal must not lock the new week: %+v", got)
		}
	})
}

func TestValidateWithdrawalRequest(t *testing.T) {
	t.Parallel()

	const minimum = 200

	if err := domain.ValidateWithdrawalRequest(200, minimum, "bank_transfer", "0123456789", "Jane Doe"); err != nil {
		t.Fatalf("amount equal to minimum rejected: %v", err)
	}
	if err := domain.ValidateWithdrawalRequest(500, minimum, "bank_transfer", "0123456789", "Jane Doe"); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name              string
		amount            float64
		method            string
		destinationNumber string
		destinationName   string
		wantErr           error
	}{
		{"zero amount", 0, "bank_transfer", "0123456789", "Jane Doe", domain.ErrInvalidInput},
		{"negative amount", -50, "bank_transfer", "0123456789", "Jane Doe", domain.ErrInvalidInput},
		{"below minimum", 150, "bank_transfer", "0123456789", "Jane Doe", domain.ErrBelowMinimumWithdrawal},
		{"blank method", 500, "  ", "0123456789", "Jane Doe", domain.ErrInvalidInput},
		{"blank destination number", 500, "bank_transfer", "", "Jane Doe", domain.ErrInvalidInput},
		{"blank destination name", 500, "bank_transfer", "0123456789", "", domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := domain.ValidateWithdrawalRequest(tc.amount, minimum, tc.method, tc.destinationNumber, tc.destinationName)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}
