// Package ledger is the request engine: one inbound message in, exactly
// one reply out. Every branch, including internal failure, terminates
// in a reply; nothing here panics a request.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ezba/internal/core"
	"ezba/internal/nlu"
	"ezba/internal/sheets"
)

// Resolver turns free text into a validated action. It never fails:
// classifier trouble comes back as a clarify action.
type Resolver interface {
	Resolve(ctx context.Context, text, actorHint string) nlu.Action
}

// Store is the tabular record store the service orchestrates. It is the
// single source of truth; the service re-reads through it before every
// totals reply instead of caching across requests.
type Store interface {
	sheets.LedgerReader
	sheets.LedgerAppender
	sheets.InventoryReader
	sheets.InventoryAdjuster
}

// AuditPublisher emits an event after each successful append. A nil
// publisher disables auditing; publish failures never fail the request.
type AuditPublisher interface {
	PublishRecordAppended(ctx context.Context, r core.Record, rowRef string) error
}

// Message is one inbound request from the transport.
type Message struct {
	ActorID int64
	ChatID  int64
	Text    string
}

// Reply is the single outbound response for a message.
type Reply struct {
	ChatID int64
	Text   string
}

type Config struct {
	// AllowedActors maps actor IDs to display names. Anyone else gets a
	// fixed refusal and no further processing.
	AllowedActors map[int64]string

	// Location is the operating timezone, a fixed offset configured
	// once. Period windows and record timestamps use it, never the
	// host zone.
	Location *time.Location

	// StoreTimeout bounds every store read and append.
	StoreTimeout time.Duration

	// RecentLimit is how many rows a recent query returns.
	RecentLimit int
}

type Service struct {
	resolver Resolver
	store    Store
	audit    AuditPublisher
	cfg      Config
	clock    func() time.Time
}

func NewService(resolver Resolver, store Store, audit AuditPublisher, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.FixedZone("UTC+4", 4*3600)
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 15 * time.Second
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	return &Service{
		resolver: resolver,
		store:    store,
		audit:    audit,
		cfg:      cfg,
		clock:    time.Now,
	}
}

// Handle processes one message to completion. It always returns a reply
// for the message's chat, even when a collaborator fails.
func (s *Service) Handle(ctx context.Context, msg Message) Reply {
	actor, ok := s.cfg.AllowedActors[msg.ActorID]
	if !ok {
		slog.WarnContext(ctx, "rejected message from unknown actor",
			"actor_id", msg.ActorID,
			"error", ErrAuthDenied)
		return Reply{ChatID: msg.ChatID, Text: deniedReply}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Reply{ChatID: msg.ChatID, Text: clarifyReply}
	}

	if strings.HasPrefix(text, "/") {
		return Reply{ChatID: msg.ChatID, Text: s.handleCommand(ctx, text)}
	}

	action := s.resolver.Resolve(ctx, text, actor)

	var reply string
	switch action.Kind {
	case nlu.KindRecord:
		reply = s.handleRecord(ctx, actor, action.Record)
	case nlu.KindQuery:
		reply = s.handleQuery(ctx, action.Query)
	case nlu.KindSmallTalk:
		reply = smallTalkReply
	default:
		reply = clarifyReply
	}
	return Reply{ChatID: msg.ChatID, Text: reply}
}

func (s *Service) handleRecord(ctx context.Context, actor string, intent nlu.RecordIntent) string {
	// Absent item or amount means the classifier could not extract the
	// transaction. Ask again instead of appending a broken row.
	if strings.TrimSpace(intent.Item) == "" || intent.Amount.Cents <= 0 {
		slog.InfoContext(ctx, "record candidate incomplete, asking for clarification",
			"item", intent.Item,
			"amount_cents", intent.Amount.Cents,
			"error", ErrValidationFailed)
		return clarifyRecordReply
	}

	candidate := core.Record{
		Timestamp: s.clock().In(s.cfg.Location),
		Direction: intent.Direction,
		Item:      intent.Item,
		Category:  intent.Category,
		Amount:    intent.Amount,
		Actor:     actor,
		Notes:     intent.Notes,
	}
	record, err := core.ValidateRecord(candidate)
	if err != nil {
		slog.WarnContext(ctx, "record candidate failed validation",
			"item", intent.Item,
			"error", fmt.Errorf("%w: %w", ErrValidationFailed, err))
		return clarifyRecordReply
	}

	appendCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	rowRef, err := s.store.Append(appendCtx, record)
	cancel()
	if err != nil {
		// The resolved content survives the failure: the reply echoes
		// it so the user can retry without re-describing everything.
		slog.ErrorContext(ctx, "append failed",
			"item", record.Item,
			"error", fmt.Errorf("%w: %w", ErrPersistenceFailed, err))
		return persistenceFailedReply(record)
	}

	if s.audit != nil {
		if err := s.audit.PublishRecordAppended(ctx, record, rowRef); err != nil {
			slog.ErrorContext(ctx, "audit publish failed",
				"row_ref", rowRef,
				"error", err)
		}
	}

	// Re-read before composing totals. Other actors may have appended
	// between our write and now; the store is the source of truth.
	records, err := s.readRecords(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "post-append read failed", "error", err)
		return recordedNoTotalsReply(record)
	}

	window := core.WindowFor(core.PeriodMonth, s.clock().In(s.cfg.Location))
	totals := core.TotalsOf(core.FilterByPeriod(records, window))
	return recordedReply(record, totals)
}

func (s *Service) handleQuery(ctx context.Context, q nlu.QueryIntent) string {
	// category_total without a label cannot be answered. Bail before
	// touching the store.
	if q.Kind == nlu.QueryCategoryTotal && strings.TrimSpace(q.Category) == "" {
		slog.InfoContext(ctx, "category query without a label",
			"error", ErrInputIncomplete)
		return clarifyCategoryReply
	}

	records, err := s.readRecords(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "ledger read failed",
			"error", fmt.Errorf("%w: %w", ErrPersistenceFailed, err))
		return ledgerUnavailableReply
	}

	now := s.clock().In(s.cfg.Location)
	window := core.WindowFor(q.Period, now)
	filtered := core.FilterByPeriod(records, window)

	switch q.Kind {
	case nlu.QueryIncomeTotal:
		return totalReply("💰", "Income", window, core.TotalsOf(filtered).Income)
	case nlu.QueryExpenseTotal:
		return totalReply("📤", "Expenses", window, core.TotalsOf(filtered).Expense)
	case nlu.QueryProfit:
		return profitReply(window, core.TotalsOf(filtered))
	case nlu.QueryCategoryTotal:
		return categoryTotalReply(strings.TrimSpace(q.Category), window, core.CategoryTotal(filtered, q.Category))
	case nlu.QueryRecent:
		return recentReply(core.Recent(filtered, s.cfg.RecentLimit))
	default:
		slog.WarnContext(ctx, "unknown query kind", "kind", q.Kind)
		return clarifyReply
	}
}

// handleCommand serves the fixed command surface. Commands never reach
// the classifier.
func (s *Service) handleCommand(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/start", "/help":
		return helpReply
	case "/report":
		return s.report(ctx)
	case "/inventory":
		items, err := s.readInventory(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "inventory read failed", "error", err)
			return ledgerUnavailableReply
		}
		return inventoryReply(items)
	case "/stock":
		return s.adjustStock(ctx, fields[1:])
	default:
		return helpReply
	}
}

func (s *Service) adjustStock(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return "❌ Usage: /stock <item> <±count>\nExample: /stock chickens -2"
	}

	delta, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return "❌ Usage: /stock <item> <±count>\nExample: /stock chickens -2"
	}
	item := strings.Join(args[:len(args)-1], " ")

	adjCtx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	qty, err := s.store.Adjust(adjCtx, item, "", delta, "")
	if err != nil {
		slog.ErrorContext(ctx, "stock adjust failed",
			"item", item,
			"error", fmt.Errorf("%w: %w", ErrPersistenceFailed, err))
		return ledgerUnavailableReply
	}
	return stockAdjustedReply(item, qty)
}

func (s *Service) report(ctx context.Context) string {
	records, err := s.readRecords(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "ledger read failed", "error", err)
		return ledgerUnavailableReply
	}
	items, err := s.readInventory(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "inventory read failed", "error", err)
		return ledgerUnavailableReply
	}

	now := s.clock().In(s.cfg.Location)
	todayRecords := core.FilterByPeriod(records, core.WindowFor(core.PeriodToday, now))
	monthRecords := core.FilterByPeriod(records, core.WindowFor(core.PeriodMonth, now))

	return reportReply(
		now.Format("2006-01-02"),
		core.TotalsOf(todayRecords),
		core.TotalsOf(monthRecords),
		core.CategoryBreakdown(monthRecords, core.Expense),
		items,
	)
}

func (s *Service) readRecords(ctx context.Context) ([]core.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.store.Records(ctx)
}

func (s *Service) readInventory(ctx context.Context) ([]core.InventoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StoreTimeout)
	defer cancel()
	return s.store.Inventory(ctx)
}
