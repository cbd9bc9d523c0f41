package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ezba/internal/core"
)

var tz = time.FixedZone("UTC+4", 4*3600)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "ledger.db"), tz)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testRecord(item string, cents int64) core.Record {
	return core.Record{
		Timestamp: time.Date(2025, 3, 10, 9, 30, 0, 0, tz),
		Direction: core.Expense,
		Item:      item,
		Amount:    core.Money{Cents: cents},
		Actor:     "Khaled",
	}
}

func TestAppendAndRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ref, err := repo.Append(ctx, testRecord("feed", 50000))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref == "" {
		t.Fatalf("expected a row reference")
	}

	recs, err := repo.Records(ctx)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	got := recs[0]
	if got.Item != "feed" || got.Category != "feed" || got.Amount.Cents != 50000 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.Timestamp.Equal(time.Date(2025, 3, 10, 9, 30, 0, 0, tz)) {
		t.Fatalf("timestamp round trip failed: %v", got.Timestamp)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.Append(context.Background(), testRecord("", 100)); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := repo.Append(context.Background(), testRecord("feed", 0)); err == nil {
		t.Fatalf("expected validation error for zero amount")
	}
}

func TestMirrorIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord("feed", 50000)

	inserted, err := repo.Mirror(ctx, rec)
	if err != nil {
		t.Fatalf("mirror: %v", err)
	}
	if !inserted {
		t.Fatalf("first mirror should insert")
	}
	inserted, err = repo.Mirror(ctx, rec)
	if err != nil {
		t.Fatalf("mirror again: %v", err)
	}
	if inserted {
		t.Fatalf("second mirror of the same row must be a no-op")
	}
	recs, _ := repo.Records(ctx)
	if len(recs) != 1 {
		t.Fatalf("expected 1 mirrored record, got %d", len(recs))
	}
}

func TestAdjustInventory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	q, err := repo.Adjust(ctx, "goat", "livestock", 10, "")
	if err != nil || q != 10 {
		t.Fatalf("adjust = %d, %v", q, err)
	}
	q, err = repo.Adjust(ctx, "Goat", "", -15, "")
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if q != 0 {
		t.Fatalf("expected clamp at zero, got %d", q)
	}

	inv, err := repo.Inventory(ctx)
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if len(inv) != 1 || inv[0].Quantity != 0 || inv[0].Kind != "livestock" {
		t.Fatalf("unexpected inventory: %+v", inv)
	}
}
