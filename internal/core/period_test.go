package core

import (
	"testing"
	"time"
)

func TestWindowFor(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, tz)

	cases := []struct {
		period string
		start  time.Time
	}{
		{"today", time.Date(2025, 3, 15, 0, 0, 0, 0, tz)},
		{"week", time.Date(2025, 3, 8, 18, 30, 0, 0, tz)},
		{"month", time.Date(2025, 3, 1, 0, 0, 0, 0, tz)},
		{"all", time.Time{}},
		{"", time.Time{}},
		{"fortnight", time.Time{}}, // unrecognized falls back to all
	}
	for _, tc := range cases {
		w := WindowFor(tc.period, now)
		if !w.Start.Equal(tc.start) {
			t.Fatalf("WindowFor(%q).Start = %v, want %v", tc.period, w.Start, tc.start)
		}
	}
}

func TestWindowContainsInclusiveLowerBound(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, tz)
	w := WindowFor("month", now)
	if !w.Contains(w.Start) {
		t.Fatalf("lower bound must be inclusive")
	}
	if w.Contains(w.Start.Add(-time.Second)) {
		t.Fatalf("instant before start must be excluded")
	}
	if !WindowFor("all", now).Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, tz)) {
		t.Fatalf("all-time window must have no lower bound")
	}
}

// Windows narrow monotonically: all ⊇ month ⊇ week ⊇ today for a fixed now.
func TestFilterByPeriodMonotonic(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 30, 0, 0, tz)
	records := []Record{
		mkRecord(now.Add(-time.Hour), Expense, "feed", 100),
		mkRecord(now.AddDate(0, 0, -3), Income, "eggs", 200),
		mkRecord(now.AddDate(0, 0, -10), Expense, "fuel", 300),
		mkRecord(now.AddDate(0, -2, 0), Income, "goat", 400),
	}
	periods := []string{"all", "month", "week", "today"}
	prev := len(records) + 1
	for _, p := range periods {
		got := len(FilterByPeriod(records, WindowFor(p, now)))
		if got > prev {
			t.Fatalf("window %q kept %d records, more than the wider one (%d)", p, got, prev)
		}
		prev = got
	}
	if n := len(FilterByPeriod(records, WindowFor("all", now))); n != len(records) {
		t.Fatalf("all-time filter dropped records: %d", n)
	}
	if n := len(FilterByPeriod(records, WindowFor("today", now))); n != 1 {
		t.Fatalf("today filter kept %d records, want 1", n)
	}
}

func mkRecord(ts time.Time, dir Direction, item string, cents int64) Record {
	return Record{
		Timestamp: ts,
		Direction: dir,
		Item:      item,
		Category:  item,
		Amount:    Money{Cents: cents},
		Actor:     "tester",
	}
}
