package util

import (
	"testing"
	"time"
)

func TestNextMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 5, 2026, 6},   // May -> June
		{2026, 11, 2026, 12}, // Nov -> Dec
		{2026, 1, 2026, 2},   // Jan -> Feb
	}

	for _, tt := range tests {
		gotYear, gotMonth := NextMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("NextMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestNextMonth_YearBoundary(t *testing.T) {
	// December -> January of next year
	gotYear, gotMonth := NextMonth(2025, 12)
	if gotYear != 2026 || gotMonth != 1 {
		t.Errorf("NextMonth(2025, 12) = (%d, %d), want (2026, 1)", gotYear, gotMonth)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
	}{
		{"31-day month", 2025, 1, "2025-01-01", "2025-01-31"},
		{"30-day month", 2025, 4, "2025-04-01", "2025-04-30"},
		{"february non-leap", 2025, 2, "2025-02-01", "2025-02-28"},
		{"february leap", 2024, 2, "2024-02-01", "2024-02-29"},
		{"february century non-leap", 2100, 2, "2100-02-01", "2100-02-28"},
		{"february 400-year leap", 2000, 2, "2000-02-01", "2000-02-29"},
		{"december", 2025, 12, "2025-12-01", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestCurrentMonthRange(t *testing.T) {
	now := time.Date(2024, 2, 17, 15, 30, 0, 0, time.UTC)
	start, end := CurrentMonthRange(now)
	if start.Format("2006-01-02") != "2024-02-01" || end.Format("2006-01-02") != "2024-02-29" {
		t.Errorf("CurrentMonthRange = %s..%s, want 2024-02-01..2024-02-29",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2025, 7, 4, 22, 15, 0, 0, loc)
	got := DateOnly(in)
	want := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func TestValidMonth(t *testing.T) {
	for _, m := range []int{1, 6, 12} {
		if !ValidMonth(m) {
			t.Errorf("ValidMonth(%d) = false, want true", m)
		}
	}
	for _, m := range []int{0, 13, -1} {
		if ValidMonth(m) {
			t.Errorf("ValidMonth(%d) = true, want false", m)
		}
	}
}
