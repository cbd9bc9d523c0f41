// Package google adapts the Google Sheets API to the store ports. The
// spreadsheet has two tabs: Transactions (date, direction, item, amount,
// actor, category, notes, in any of the layouts the reader accepts) and
// Inventory (item, kind, quantity, notes).
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ezba/internal/core"
	ports "ezba/internal/sheets"
)

// timestampLayout is the format appended rows write; the reader accepts
// this plus the older date-only and seconds variants.
const timestampLayout = "2006-01-02 15:04"

type Config struct {
	SpreadsheetID     string
	TransactionsSheet string // default "Transactions"
	InventorySheet    string // default "Inventory"

	// Service account credentials: inline JSON wins over a file path.
	ServiceAccountJSON string
	ServiceAccountFile string

	Location *time.Location
}

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	inventorySheet    string
	loc               *time.Location
}

// Ensure interface conformance
var (
	_ ports.LedgerReader      = (*Client)(nil)
	_ ports.LedgerAppender    = (*Client)(nil)
	_ ports.InventoryReader   = (*Client)(nil)
	_ ports.InventoryAdjuster = (*Client)(nil)
)

// New creates a Sheets client from explicit configuration. Credentials
// and sheet names are injected rather than read from ambient globals so
// tests and callers stay in control.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if cfg.TransactionsSheet == "" {
		cfg.TransactionsSheet = "Transactions"
	}
	if cfg.InventorySheet == "" {
		cfg.InventorySheet = "Inventory"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     cfg.SpreadsheetID,
		transactionsSheet: cfg.TransactionsSheet,
		inventorySheet:    cfg.InventorySheet,
		loc:               cfg.Location,
	}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		b, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Records reads the whole transactions tab and runs it through the
// schema-adaptive reader. The read starts at A1 on purpose: whether the
// first row is a header is the reader's call, not ours.
func (c *Client) Records(ctx context.Context) ([]core.Record, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A1:G", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		grid = append(grid, toStrings(row))
	}
	return core.ParseRecords(grid, c.loc), nil
}

// Append validates and appends one record. Canonical direction labels
// and the canonical timestamp layout are always written, whatever
// layout the surrounding rows use.
func (c *Client) Append(ctx context.Context, r core.Record) (string, error) {
	r, err := core.ValidateRecord(r)
	if err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := []any{
		r.Timestamp.In(c.loc).Format(timestampLayout),
		string(r.Direction),
		r.Item,
		core.FormatAmount(r.Amount),
		r.Actor,
		r.Category,
		r.Notes,
	}
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("%s!A1", c.transactionsSheet), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.transactionsSheet, err)
	}

	ref := fmt.Sprintf("%s!A1", c.transactionsSheet)
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "record appended to sheet",
		"sheet", c.transactionsSheet, "ref", ref,
		"direction", r.Direction, "item", r.Item, "amount", core.FormatAmount(r.Amount))
	return ref, nil
}

// Inventory reads the inventory tab.
func (c *Client) Inventory(ctx context.Context) ([]core.InventoryRecord, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	grid, err := c.inventoryGrid(ctx)
	if err != nil {
		return nil, err
	}
	return core.ParseInventory(grid), nil
}

// Adjust applies a quantity delta to an item row, appending a new row
// when the item is not present. The stored count never goes below zero.
func (c *Client) Adjust(ctx context.Context, item, kind string, delta int, notes string) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, core.ErrEmptyItem
	}

	grid, err := c.inventoryGrid(ctx)
	if err != nil {
		return 0, err
	}
	for i, row := range grid {
		if len(row) == 0 || !strings.EqualFold(strings.TrimSpace(row[0]), item) {
			continue
		}
		oldQty := 0
		if len(row) > 2 {
			if q, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil {
				oldQty = q
			}
		}
		newQty := oldQty + delta
		if newQty < 0 {
			newQty = 0
		}
		// data starts at row 1 of the sheet; grid index 0 is row 1
		cellRng := fmt.Sprintf("%s!C%d", c.inventorySheet, i+1)
		vr := &gsheet.ValueRange{Values: [][]any{{newQty}}}
		_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRng, vr).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return 0, fmt.Errorf("update %s: %w", cellRng, err)
		}
		return newQty, nil
	}

	newQty := delta
	if newQty < 0 {
		newQty = 0
	}
	vr := &gsheet.ValueRange{Values: [][]any{{item, kind, newQty, notes}}}
	_, err = c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("%s!A1", c.inventorySheet), vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", c.inventorySheet, err)
	}
	return newQty, nil
}

func (c *Client) inventoryGrid(ctx context.Context) ([][]string, error) {
	rng := fmt.Sprintf("%s!A1:D", c.inventorySheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		grid = append(grid, toStrings(row))
	}
	return grid, nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
