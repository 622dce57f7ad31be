package domain_test

import (
	"testing"
	"time"

	"github.com/videarn/ledger-service/internal/domain"
)

func TestDayKeyUsesBusinessTimezone(t *testing.T) {
	t.Parallel()

	jakarta := time.FixedZone("WIB", 7*3600)
	// 2025-03-10 20:00 UTC is already 2025-03-11 03:00 in WIB.
	at := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	if got := domain.DayKey(at, time.UTC); got != "2025-03-10" {
		t.Fatalf("DayKey UTC = %q, want 2025-03-10", got)
	}
	if got := domain.DayKey(at, jakarta); got != "2025-03-11" {
		t.Fatalf("DayKey WIB = %q, want 2025-03-11", got)
	}
}

func TestStartOfWeekIsSunday(t *testing.T) {
	t.Parallel()

	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
	}{
		{"sunday itself", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"saturday night", time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := domain.StartOfWeek(tc.at, time.UTC)
			if !got.Equal(sunday) {
				t.Fatalf("StartOfWeek(%v) = %v, want %v", tc.at, got, sunday)
			}
			if got.Weekday() != time.Sunday {
				t.Fatalf("StartOfWeek returned %v, want Sunday", got.Weekday())
			}
		})
	}
}

func TestNextWeekStartIsStrictlyAfter(t *testing.T) {
	t.Parallel()

	// Saturday 23:59:59 rolls over one second later; the next week must
	// still start at the upcoming Sunday midnight.
	saturday := time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
	want := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if got := domain.NextWeekStart(saturday, time.UTC); !got.Equal(want) {
		t.Fatalf("NextWeekStart = %v, want %v", got, want)
	}

	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	want = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
	if got := domain.NextWeekStart(sunday, time.UTC); !got.Equal(want) {
		t.Fatalf("NextWeekStart(sunday midnight) = %v, want %v", got, want)
	}
}

func TestSameCalendarDay(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	if !domain.SameCalendarDay(a, b, time.UTC) {
		t.Fatal("expected a and b to share a calendar day")
	}
	if domain.SameCalendarDay(b, c, time.UTC) {
		t.Fatal("midnight boundary must start a new calendar day")
	}
}
