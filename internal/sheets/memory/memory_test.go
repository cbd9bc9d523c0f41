package memory

import (
	"context"
	"testing"
	"time"

	"ezba/internal/core"
)

var tz = time.FixedZone("UTC+4", 4*3600)

func TestAppendAndRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, core.Record{
		Timestamp: time.Date(2025, 3, 10, 9, 0, 0, 0, tz),
		Direction: core.Expense,
		Item:      "feed",
		Amount:    core.Money{Cents: 50000},
		Actor:     "Khaled",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected a row reference")
	}

	recs, err := s.Records(ctx)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 1 || recs[0].Category != "feed" {
		t.Fatalf("unexpected records: %+v", recs)
	}

	// returned slice is a copy
	recs[0].Item = "tampered"
	recs2, _ := s.Records(ctx)
	if recs2[0].Item != "feed" {
		t.Fatalf("store mutated through returned slice")
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), core.Record{
		Timestamp: time.Date(2025, 3, 10, 9, 0, 0, 0, tz),
		Direction: core.Expense,
		Item:      "feed",
		Amount:    core.Money{Cents: 0},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if recs, _ := s.Records(context.Background()); len(recs) != 0 {
		t.Fatalf("invalid record was stored")
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()

	q, err := s.Adjust(ctx, "goat", "livestock", 5, "")
	if err != nil || q != 5 {
		t.Fatalf("adjust = %d, %v", q, err)
	}
	q, _ = s.Adjust(ctx, "GOAT", "", -8, "")
	if q != 0 {
		t.Fatalf("expected clamp at zero, got %d", q)
	}
	q, _ = s.Adjust(ctx, "goat", "", 3, "")
	if q != 3 {
		t.Fatalf("expected 3 after restock, got %d", q)
	}

	inv, _ := s.Inventory(ctx)
	if len(inv) != 1 || inv[0].Quantity != 3 {
		t.Fatalf("unexpected inventory: %+v", inv)
	}
}
