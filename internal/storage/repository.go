// Package storage is the sqlite replica of the ledger. It serves as a
// standalone backend for local runs and as the mirror target the audit
// worker writes into.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ezba/internal/core"

	_ "modernc.org/sqlite"
)

// recordedAtLayout is how timestamps are stored; they are written and
// read back in the operating timezone.
const recordedAtLayout = "2006-01-02 15:04:05"

type Repository struct {
	db  *sql.DB
	loc *time.Location
}

func NewRepository(dbPath string, loc *time.Location) (*Repository, error) {
	if loc == nil {
		loc = time.UTC
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, loc: loc}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements sheets.LedgerAppender.
func (r *Repository) Append(ctx context.Context, rec core.Record) (string, error) {
	rec, err := core.ValidateRecord(rec)
	if err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (recorded_at, direction, item, category, amount_cents, actor, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.In(r.loc).Format(recordedAtLayout),
		string(rec.Direction), rec.Item, rec.Category, rec.Amount.Cents, rec.Actor, rec.Notes)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "record saved to sqlite",
		"id", id, "direction", rec.Direction, "item", rec.Item,
		"amount_cents", rec.Amount.Cents)
	return strconv.FormatInt(id, 10), nil
}

// Mirror inserts a record keyed by its content, skipping rows already
// mirrored. Both the audit-event path and full resyncs go through here,
// so at-least-once delivery cannot double a row.
func (r *Repository) Mirror(ctx context.Context, rec core.Record) (bool, error) {
	rec, err := core.ValidateRecord(rec)
	if err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (recorded_at, direction, item, category, amount_cents, actor, notes, mirror_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(mirror_key) DO NOTHING`,
		rec.Timestamp.In(r.loc).Format(recordedAtLayout),
		string(rec.Direction), rec.Item, rec.Category, rec.Amount.Cents, rec.Actor, rec.Notes,
		mirrorKey(rec, r.loc))
	if err != nil {
		return false, fmt.Errorf("mirror transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// mirrorKey identifies a ledger row by its content. Two legitimate
// identical transactions in the same minute collapse to one mirrored
// row; acceptable for a reporting replica.
func mirrorKey(rec core.Record, loc *time.Location) string {
	return strings.Join([]string{
		rec.Timestamp.In(loc).Format(recordedAtLayout),
		string(rec.Direction),
		rec.Item,
		strconv.FormatInt(rec.Amount.Cents, 10),
		rec.Actor,
	}, "|")
}

// Records implements sheets.LedgerReader. Insertion order is preserved
// so timestamp ties keep their original relative order downstream.
func (r *Repository) Records(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT recorded_at, direction, item, category, amount_cents, actor, notes
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var recordedAt, direction, item, category, actor, notes string
		var cents int64
		if err := rows.Scan(&recordedAt, &direction, &item, &category, &cents, &actor, &notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		ts, err := time.ParseInLocation(recordedAtLayout, recordedAt, r.loc)
		if err != nil {
			// tolerate rows written by older layouts
			ts, err = time.ParseInLocation("2006-01-02 15:04", recordedAt, r.loc)
			if err != nil {
				continue
			}
		}
		out = append(out, core.Record{
			Timestamp: ts,
			Direction: core.ParseDirection(direction),
			Item:      item,
			Category:  category,
			Amount:    core.Money{Cents: cents},
			Actor:     actor,
			Notes:     notes,
		})
	}
	return out, rows.Err()
}

// Inventory implements sheets.InventoryReader.
func (r *Repository) Inventory(ctx context.Context) ([]core.InventoryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item, kind, quantity, notes FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select inventory: %w", err)
	}
	defer rows.Close()

	var out []core.InventoryRecord
	for rows.Next() {
		var ir core.InventoryRecord
		if err := rows.Scan(&ir.Item, &ir.Kind, &ir.Quantity, &ir.Notes); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, ir)
	}
	return out, rows.Err()
}

// Adjust implements sheets.InventoryAdjuster.
func (r *Repository) Adjust(ctx context.Context, item, kind string, delta int, notes string) (int, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, core.ErrEmptyItem
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var qty int
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE item = ? COLLATE NOCASE`, item).Scan(&qty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		qty = delta
		if qty < 0 {
			qty = 0
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO inventory (item, kind, quantity, notes) VALUES (?, ?, ?, ?)`,
			item, kind, qty, notes)
		if err != nil {
			return 0, fmt.Errorf("insert inventory: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("select inventory item: %w", err)
	default:
		qty += delta
		if qty < 0 {
			qty = 0
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE inventory SET quantity = ? WHERE item = ? COLLATE NOCASE`, qty, item)
		if err != nil {
			return 0, fmt.Errorf("update inventory: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return qty, nil
}
