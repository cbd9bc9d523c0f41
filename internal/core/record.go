package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Direction = "income"
	Expense Direction = "expense"
)

type (
	// Direction classifies a ledger record as money coming in or going out.
	Direction string

	// Record is one immutable ledger entry. Corrections are made by
	// appending an offsetting record, never by editing history.
	Record struct {
		Timestamp time.Time
		Direction Direction
		Item      string
		Category  string // falls back to Item when unspecified
		Amount    Money
		Actor     string
		Notes     string
	}

	// InventoryRecord is a stock count. Quantity is always the stored
	// absolute count; negative values only ever appear as delta intent
	// on adjustment, never in a stored record.
	InventoryRecord struct {
		Item     string
		Kind     string
		Quantity int
		Notes    string
	}
)

var (
	ErrEmptyItem        = errors.New("empty item")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingDirection = errors.New("missing direction")
	ErrZeroTimestamp    = errors.New("zero timestamp")
)

// ValidateRecord normalizes a candidate record and checks the append
// invariants: non-zero timestamp, a known direction, a non-empty item and a
// strictly positive amount. The category fallback to the item is applied
// here, so an accepted record never carries an empty category.
func ValidateRecord(r Record) (Record, error) {
	r.Item = strings.TrimSpace(r.Item)
	r.Category = strings.TrimSpace(r.Category)
	r.Actor = strings.TrimSpace(r.Actor)

	if r.Timestamp.IsZero() {
		return Record{}, ErrZeroTimestamp
	}
	if r.Direction != Income && r.Direction != Expense {
		return Record{}, ErrMissingDirection
	}
	if r.Item == "" {
		return Record{}, ErrEmptyItem
	}
	if err := r.Amount.Validate(); err != nil {
		return Record{}, err
	}
	if r.Category == "" {
		r.Category = r.Item
	}
	return r, nil
}

func (r Record) Validate() error {
	_, err := ValidateRecord(r)
	return err
}

func (ir InventoryRecord) Validate() error {
	if strings.TrimSpace(ir.Item) == "" {
		return ErrEmptyItem
	}
	if ir.Quantity < 0 {
		return errors.New("negative stored quantity")
	}
	return nil
}
