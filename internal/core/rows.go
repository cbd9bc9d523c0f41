package core

import (
	"strconv"
	"strings"
	"time"
)

// The ledger sheet has lived through several column layouts: an early
// headerless one with fixed positions, and two header styles (English
// action words and the Arabic field names of the legacy sheet). The
// reader recognizes all of them and maps every row onto the canonical
// Record, skipping rows it cannot make sense of rather than failing the
// whole read.

// Field names used by the column map.
const (
	fieldDate      = "date"
	fieldDirection = "direction"
	fieldItem      = "item"
	fieldAmount    = "amount"
	fieldActor     = "actor"
	fieldCategory  = "category"
	fieldNotes     = "notes"
)

// headerLabels maps each canonical field to the header labels observed
// across the sheet variants, compared case-insensitively.
var headerLabels = map[string][]string{
	fieldDate:      {"date", "التاريخ"},
	fieldDirection: {"type", "direction", "النوع"},
	fieldItem:      {"item", "البند"},
	fieldAmount:    {"amount", "المبلغ"},
	fieldActor:     {"user", "actor", "المستخدم"},
	fieldCategory:  {"category", "التصنيف"},
	fieldNotes:     {"notes", "ملاحظات"},
}

// legacyIndex is the fixed-position fallback for headerless sheets and
// for any field whose label is missing from a header row.
var legacyIndex = map[string]int{
	fieldDate:      0,
	fieldDirection: 1,
	fieldItem:      2,
	fieldAmount:    3,
	fieldActor:     4,
	fieldCategory:  5,
	fieldNotes:     6,
}

// Direction tokens accepted when reading rows. Appends always write the
// canonical income/expense labels; the legacy Arabic and in/out tokens
// remain readable. Anything else defaults to Expense, so callers can
// rely on every parsed row carrying one of the two directions.
var (
	incomeTokens  = []string{"income", "in", "دخل"}
	expenseTokens = []string{"expense", "out", "صرف", "مصروف"}
)

// timestampLayouts are tried in order when parsing the date column.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// ParseDirection normalizes a direction cell. Unknown tokens map to
// Expense; this is a documented reader policy, not a guess.
func ParseDirection(s string) Direction {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tok := range incomeTokens {
		if s == tok {
			return Income
		}
	}
	return Expense
}

// ParseRecords converts a raw grid read from the transactions table into
// canonical records. The first row is treated as a header when at least
// two of its cells match known labels; otherwise every row is data in
// the legacy fixed positions. Rows lacking an item, with a non-numeric
// amount, or with an unreadable date are dropped silently so one
// malformed historical row cannot poison an aggregate.
func ParseRecords(grid [][]string, loc *time.Location) []Record {
	if len(grid) == 0 {
		return nil
	}
	cols, dataStart := columnMap(grid[0])

	out := make([]Record, 0, len(grid))
	for _, row := range grid[dataStart:] {
		rec, ok := parseRecordRow(row, cols, loc)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func parseRecordRow(row []string, cols map[string]int, loc *time.Location) (Record, bool) {
	item := strings.TrimSpace(cell(row, cols[fieldItem]))
	if item == "" {
		return Record{}, false
	}
	cents, err := ParseDecimalToCents(cell(row, cols[fieldAmount]))
	if err != nil {
		return Record{}, false
	}
	ts, ok := parseTimestamp(cell(row, cols[fieldDate]), loc)
	if !ok {
		return Record{}, false
	}
	category := strings.TrimSpace(cell(row, cols[fieldCategory]))
	if category == "" {
		category = item
	}
	return Record{
		Timestamp: ts,
		Direction: ParseDirection(cell(row, cols[fieldDirection])),
		Item:      item,
		Category:  category,
		Amount:    Money{Cents: cents},
		Actor:     strings.TrimSpace(cell(row, cols[fieldActor])),
		Notes:     strings.TrimSpace(cell(row, cols[fieldNotes])),
	}, true
}

// ParseInventory converts a raw grid read from the inventory table. The
// layout is item, kind, quantity, notes; a header row is skipped when
// its first cell matches a known item label. Rows without an item are
// dropped; an unreadable quantity reads as zero.
func ParseInventory(grid [][]string) []InventoryRecord {
	var out []InventoryRecord
	for i, row := range grid {
		item := strings.TrimSpace(cell(row, 0))
		if item == "" {
			continue
		}
		if i == 0 && isInventoryHeader(item) {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(cell(row, 2)))
		if err != nil || qty < 0 {
			qty = 0
		}
		out = append(out, InventoryRecord{
			Item:     item,
			Kind:     strings.TrimSpace(cell(row, 1)),
			Quantity: qty,
			Notes:    strings.TrimSpace(cell(row, 3)),
		})
	}
	return out
}

func isInventoryHeader(first string) bool {
	switch strings.ToLower(first) {
	case "item", "البند":
		return true
	}
	return false
}

// columnMap resolves field positions for a grid. When the first row is a
// recognizable header, labels win and anything unrecognized keeps its
// legacy position; dataStart then skips the header row.
func columnMap(first []string) (cols map[string]int, dataStart int) {
	cols = make(map[string]int, len(legacyIndex))
	for field, idx := range legacyIndex {
		cols[field] = idx
	}
	if !looksLikeHeader(first) {
		return cols, 0
	}
	for field, labels := range headerLabels {
		if idx := findLabel(first, labels); idx >= 0 {
			cols[field] = idx
		}
	}
	return cols, 1
}

// looksLikeHeader reports whether a row matches a known header-label
// set. Two recognized labels are required so a data row that happens to
// contain one label-like cell is not mistaken for a header.
func looksLikeHeader(row []string) bool {
	matches := 0
	for _, labels := range headerLabels {
		if findLabel(row, labels) >= 0 {
			matches++
		}
	}
	return matches >= 2
}

func findLabel(row []string, labels []string) int {
	for i, c := range row {
		c = strings.ToLower(strings.TrimSpace(c))
		for _, l := range labels {
			if c == l {
				return i
			}
		}
	}
	return -1
}

func parseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
