package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ezba/internal/amqp"
	"ezba/internal/sheets"
	"ezba/internal/storage"
)

// MirrorWorker copies ledger rows from the spreadsheet of record into
// the local SQLite replica. It serves two paths: live audit events from
// AMQP, and a full resync that repairs gaps left by missed messages.
type MirrorWorker struct {
	replica *storage.Repository
	source  sheets.LedgerReader
}

func NewMirrorWorker(replica *storage.Repository, source sheets.LedgerReader) *MirrorWorker {
	return &MirrorWorker{
		replica: replica,
		source:  source,
	}
}

// HandleRecordAppended mirrors a single appended record from an audit event.
func (w *MirrorWorker) HandleRecordAppended(ctx context.Context, msg *amqp.RecordAppendedMessage) error {
	slog.InfoContext(ctx, "processing record audit event",
		"item", msg.Item,
		"direction", msg.Direction,
		"row_ref", msg.RowRef)

	inserted, err := w.replica.Mirror(ctx, msg.Record())
	if err != nil {
		return fmt.Errorf("mirror record: %w", err)
	}

	if !inserted {
		slog.InfoContext(ctx, "record already mirrored, skipping",
			"item", msg.Item,
			"row_ref", msg.RowRef)
	}

	return nil
}

// Resync reads the full ledger from the source and mirrors every row.
// Rows already present in the replica are left untouched.
func (w *MirrorWorker) Resync(ctx context.Context) error {
	records, err := w.source.Records(ctx)
	if err != nil {
		return fmt.Errorf("read ledger from source: %w", err)
	}

	if len(records) == 0 {
		slog.InfoContext(ctx, "ledger source is empty, nothing to mirror")
		return nil
	}

	insertedCount := 0
	errorCount := 0

	for _, record := range records {
		inserted, err := w.replica.Mirror(ctx, record)
		if err != nil {
			slog.ErrorContext(ctx, "failed to mirror record during resync",
				"item", record.Item,
				"error", err)
			errorCount++
			continue
		}
		if inserted {
			insertedCount++
		}
	}

	slog.InfoContext(ctx, "resync completed",
		"total", len(records),
		"inserted", insertedCount,
		"errors", errorCount)

	if errorCount > 0 {
		return fmt.Errorf("resync finished with %d failed rows", errorCount)
	}
	return nil
}
