package core

import (
	"sort"
	"strings"
)

// Aggregation over record slices. Everything here is pure and
// deterministic: no shared state, safe to call concurrently over
// independent slices.

// Totals holds income and expense sums for a record set.
type Totals struct {
	Income  Money
	Expense Money
}

// CategoryAmount is an amount aggregated under a category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// FilterByPeriod keeps the records that pass the window's inclusive
// lower bound. There is no upper bound; queries always run up to now.
func FilterByPeriod(records []Record, w PeriodWindow) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// TotalsOf sums amounts grouped by direction. A record with an unknown
// direction (which validation should have prevented) is counted on
// neither side rather than silently landing on one of them.
func TotalsOf(records []Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Direction {
		case Income:
			t.Income.Cents += r.Amount.Cents
		case Expense:
			t.Expense.Cents += r.Amount.Cents
		}
	}
	return t
}

// Profit is income minus expense; it may be negative.
func Profit(records []Record) Money {
	t := TotalsOf(records)
	return Money{Cents: t.Income.Cents - t.Expense.Cents}
}

// CategoryTotal sums the records whose category OR item matches the
// label, case-insensitively and ignoring surrounding space. Users refer
// to the same thing by either field, so the OR is deliberate.
func CategoryTotal(records []Record, label string) Money {
	label = strings.TrimSpace(label)
	var m Money
	for _, r := range records {
		if equalFoldTrim(r.Category, label) || equalFoldTrim(r.Item, label) {
			m.Cents += r.Amount.Cents
		}
	}
	return m
}

// Recent returns at most n records, newest first. The sort is stable so
// records sharing a timestamp keep their original relative order.
func Recent(records []Record, n int) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryBreakdown sums amounts per category for one direction,
// largest first. Categories tied on amount keep first-seen order.
func CategoryBreakdown(records []Record, dir Direction) []CategoryAmount {
	sums := map[string]int64{}
	var order []string
	for _, r := range records {
		if r.Direction != dir {
			continue
		}
		cat := strings.TrimSpace(r.Category)
		if cat == "" {
			cat = strings.TrimSpace(r.Item)
		}
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		sums[cat] += r.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}
