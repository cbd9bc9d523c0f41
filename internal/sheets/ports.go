package sheets

import (
	"context"

	"ezba/internal/core"
)

// Ports for the tabular store. The store is the single source of truth:
// callers re-read through LedgerReader before trusting totals and never
// hold an authoritative cache across requests.
type (
	LedgerReader interface {
		Records(ctx context.Context) ([]core.Record, error)
	}

	LedgerAppender interface {
		Append(ctx context.Context, r core.Record) (rowRef string, err error)
	}

	InventoryReader interface {
		Inventory(ctx context.Context) ([]core.InventoryRecord, error)
	}

	// InventoryAdjuster applies a quantity delta to an item, creating
	// the row when it does not exist. Stored quantities clamp at zero.
	InventoryAdjuster interface {
		Adjust(ctx context.Context, item, kind string, delta int, notes string) (newQty int, err error)
	}
)
