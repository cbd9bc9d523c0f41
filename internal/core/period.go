package core

import (
	"strings"
	"time"
)

// Period names recognized by WindowFor.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// PeriodWindow is a named time range with an inclusive lower bound and
// no upper bound. A zero Start means all time. Windows are computed
// fresh per query; they are never cached because "now" moves.
type PeriodWindow struct {
	Start time.Time
	Label string
}

// Contains reports whether t passes the window's inclusive lower bound.
func (w PeriodWindow) Contains(t time.Time) bool {
	return w.Start.IsZero() || !t.Before(w.Start)
}

// WindowFor computes the window for a named period. now must already be
// in the operating timezone (a fixed offset configured once per process,
// never the host zone) or period boundaries drift.
//
//	today  midnight of now's calendar date
//	week   rolling seven days back from now, not calendar-aligned
//	month  first calendar day of now's month, 00:00
//	all    no lower bound; unrecognized names fall back here
func WindowFor(period string, now time.Time) PeriodWindow {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case PeriodToday:
		y, m, d := now.Date()
		return PeriodWindow{
			Start: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
			Label: "today",
		}
	case PeriodWeek:
		return PeriodWindow{Start: now.AddDate(0, 0, -7), Label: "last 7 days"}
	case PeriodMonth:
		y, m, _ := now.Date()
		return PeriodWindow{
			Start: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
			Label: "this month",
		}
	default:
		return PeriodWindow{Label: "all time"}
	}
}
