package core

import (
	"testing"
	"time"
)

func TestCurrentPeriodAnchor15(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			now:       time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 14, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			now:       time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 4, 14, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			// Exactly on the anchor day belongs to the new period.
			now:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 4, 14, 23, 59, 59, 999_000_000, time.UTC),
		},
	}
	for i, tc := range cases {
		start, end := CurrentPeriod(tc.now, 15)
		if !start.Equal(tc.wantStart) {
			t.Fatalf("case %d start = %v, want %v", i, start, tc.wantStart)
		}
		if !end.Equal(tc.wantEnd) {
			t.Fatalf("case %d end = %v, want %v", i, end, tc.wantEnd)
		}
	}
}

func TestCurrentPeriodClampsShortMonths(t *testing.T) {
	// Anchor 31 applied to February clamps to the last day instead of
	// rolling into March.
	start, end := CurrentPeriod(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), 31)
	if got := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC); !start.Equal(got) {
		t.Fatalf("start = %v, want %v", start, got)
	}
	// 2024 is a leap year: next anchor is Feb 29, so the period ends Feb 28.
	if got := time.Date(2024, 2, 28, 23, 59, 59, 999_000_000, time.UTC); !end.Equal(got) {
		t.Fatalf("end = %v, want %v", end, got)
	}

	// Feb 28 of a non-leap year is the clamped anchor itself and starts the
	// new period.
	start, end = CurrentPeriod(time.Date(2023, 2, 28, 8, 0, 0, 0, time.UTC), 31)
	if got := time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC); !start.Equal(got) {
		t.Fatalf("start = %v, want %v", start, got)
	}
	if got := time.Date(2023, 3, 30, 23, 59, 59, 999_000_000, time.UTC); !end.Equal(got) {
		t.Fatalf("end = %v, want %v", end, got)
	}
}

func TestCurrentPeriodContainsNow(t *testing.T) {
	// Every safe anchor day must produce a window around now, for nows
	// spread across month boundaries and a year boundary.
	nows := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC),
	}
	for day := 1; day <= 28; day++ {
		for _, now := range nows {
			start, end := CurrentPeriod(now, day)
			if now.Before(start) || now.After(end) {
				t.Fatalf("day %d now %v outside period [%v, %v]", day, now, start, end)
			}
			if !start.Before(end) {
				t.Fatalf("day %d degenerate period [%v, %v]", day, start, end)
			}
		}
	}
}
