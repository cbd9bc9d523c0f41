// Package memory is an in-process store used by tests and local runs.
// It enforces the same append invariants as the real backends.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ezba/internal/core"
)

type Store struct {
	mu      sync.Mutex
	records []core.Record
	inv     []core.InventoryRecord
}

func New() *Store {
	return &Store{}
}

// Seed loads initial records without validation, for test fixtures.
func (s *Store) Seed(records ...core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

func (s *Store) SeedInventory(items ...core.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv = append(s.inv, items...)
}

// Append stores a validated record and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	r, err := core.ValidateRecord(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return fmt.Sprintf("mem:%d", len(s.records)), nil
}

// Records returns a copy; callers may not mutate the store through it.
func (s *Store) Records(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.records...), nil
}

func (s *Store) Inventory(_ context.Context) ([]core.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.InventoryRecord(nil), s.inv...), nil
}

// Adjust applies a delta to an item, creating it when missing. Stored
// quantities clamp at zero.
func (s *Store) Adjust(_ context.Context, item, kind string, delta int, notes string) (int, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, core.ErrEmptyItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.inv {
		if !strings.EqualFold(s.inv[i].Item, item) {
			continue
		}
		q := s.inv[i].Quantity + delta
		if q < 0 {
			q = 0
		}
		s.inv[i].Quantity = q
		return q, nil
	}
	q := delta
	if q < 0 {
		q = 0
	}
	s.inv = append(s.inv, core.InventoryRecord{Item: item, Kind: kind, Quantity: q, Notes: notes})
	return q, nil
}
