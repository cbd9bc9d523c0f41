package core

import (
	"testing"
	"time"
)

func TestTotalsAndProfit(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	records := []Record{
		mkRecord(t0, Expense, "feed", 50000),
		mkRecord(t0.AddDate(0, 0, 1), Income, "goat", 120000),
	}
	totals := TotalsOf(FilterByPeriod(records, WindowFor("all", t0.AddDate(0, 0, 2))))
	if totals.Income.Cents != 120000 || totals.Expense.Cents != 50000 {
		t.Fatalf("totals = %+v", totals)
	}
	if p := Profit(records); p.Cents != 70000 {
		t.Fatalf("profit = %d, want 70000", p.Cents)
	}
}

func TestProfitEqualsIncomeMinusExpense(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	records := []Record{
		mkRecord(t0, Expense, "feed", 300),
		mkRecord(t0, Expense, "fuel", 500),
		mkRecord(t0, Income, "eggs", 200),
	}
	totals := TotalsOf(records)
	if got := Profit(records).Cents; got != totals.Income.Cents-totals.Expense.Cents {
		t.Fatalf("profit %d != income-expense %d", got, totals.Income.Cents-totals.Expense.Cents)
	}
	if Profit(records).Cents >= 0 {
		t.Fatalf("expected negative profit, got %d", Profit(records).Cents)
	}
}

func TestTotalsExcludesUnknownDirection(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	records := []Record{
		mkRecord(t0, Income, "eggs", 100),
		mkRecord(t0, "garbage", "mystery", 999),
	}
	totals := TotalsOf(records)
	if totals.Income.Cents != 100 || totals.Expense.Cents != 0 {
		t.Fatalf("unknown direction leaked into totals: %+v", totals)
	}
}

func TestCategoryTotalMatchesItemOrCategory(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	// category left empty at the source; the validated record carries
	// the item as its category.
	rec, err := ValidateRecord(Record{
		Timestamp: t0,
		Direction: Expense,
		Item:      "feed",
		Amount:    Money{Cents: 500},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	records := []Record{
		rec,
		mkRecord(t0, Expense, "pellets", 300), // category "pellets"
		{Timestamp: t0, Direction: Income, Item: "eggs", Category: "Feed", Amount: Money{Cents: 200}, Actor: "x"},
	}
	if got := CategoryTotal(records, " FEED "); got.Cents != 700 {
		t.Fatalf("CategoryTotal = %d, want 700", got.Cents)
	}
	if got := CategoryTotal(records, "pellets"); got.Cents != 300 {
		t.Fatalf("CategoryTotal(pellets) = %d", got.Cents)
	}
}

func TestRecentNewestFirstAndStable(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	records := []Record{
		mkRecord(t0, Expense, "first", 1),
		mkRecord(t0.Add(time.Hour), Income, "newest", 2),
		mkRecord(t0, Expense, "second", 3), // same instant as "first"
	}
	got := Recent(records, 5)
	if len(got) != 3 {
		t.Fatalf("expected all records back, got %d", len(got))
	}
	if got[0].Item != "newest" {
		t.Fatalf("newest first, got %q", got[0].Item)
	}
	// ties keep original relative order
	if got[1].Item != "first" || got[2].Item != "second" {
		t.Fatalf("tie order not stable: %q, %q", got[1].Item, got[2].Item)
	}
	if n := len(Recent(records, 2)); n != 2 {
		t.Fatalf("limit not applied: %d", n)
	}
	// input order untouched
	if records[0].Item != "first" {
		t.Fatalf("Recent mutated its input")
	}
}

func TestCategoryBreakdown(t *testing.T) {
	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, tz)
	records := []Record{
		mkRecord(t0, Expense, "feed", 800),
		mkRecord(t0, Expense, "fuel", 200),
		mkRecord(t0, Expense, "feed", 100),
		mkRecord(t0, Income, "eggs", 5000),
	}
	got := CategoryBreakdown(records, Expense)
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Name != "feed" || got[0].Amount.Cents != 900 {
		t.Fatalf("largest category first, got %+v", got[0])
	}
	if got[1].Name != "fuel" || got[1].Amount.Cents != 200 {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}
