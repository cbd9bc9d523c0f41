package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"ezba/internal/core"
)

// Classifier is the raw model boundary: one message in, the model's text
// out. Kept narrow so tests can substitute a canned classifier.
type Classifier interface {
	Classify(ctx context.Context, text, actorHint string) (string, error)
}

// AnthropicClassifier calls the Anthropic Messages API.
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClassifier(client anthropic.Client, model string) *AnthropicClassifier {
	return &AnthropicClassifier{client: client, model: model}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, text, actorHint string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 512,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text, actorHint))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("classifier api call: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("empty classifier response")
	}
	return msg.Content[0].Text, nil
}

// wirePayload is the classifier's JSON contract (see buildPrompt).
type wirePayload struct {
	Intent    string  `json:"intent"`
	Direction string  `json:"direction"`
	Item      string  `json:"item"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Period    string  `json:"period"`
}

// Resolver validates classifier output against the closed Action schema.
type Resolver struct {
	classifier Classifier
	timeout    time.Duration
}

func NewResolver(classifier Classifier, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Resolver{classifier: classifier, timeout: timeout}
}

// Resolve classifies free text into an Action. Transport failures,
// malformed JSON and out-of-schema values all resolve to Clarify; this
// method never returns an error, so a flaky classifier can degrade a
// single reply but not crash a request.
func (r *Resolver) Resolve(ctx context.Context, text, actorHint string) Action {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.classifier.Classify(ctx, text, actorHint)
	if err != nil {
		slog.WarnContext(ctx, "classifier call failed, clarifying",
			"error", err, "prompt_version", promptVersion)
		return Clarify()
	}

	jsonStr, err := extractJSON(raw)
	if err != nil || !json.Valid([]byte(jsonStr)) {
		slog.WarnContext(ctx, "classifier returned no valid JSON, clarifying",
			"prompt_version", promptVersion)
		return Clarify()
	}

	var p wirePayload
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		slog.WarnContext(ctx, "classifier JSON did not match contract, clarifying", "error", err)
		return Clarify()
	}

	action, err := actionFromWire(p)
	if err != nil {
		slog.WarnContext(ctx, "classifier output failed schema validation, clarifying",
			"intent", p.Intent, "error", err)
		return Clarify()
	}
	return action
}

// actionFromWire checks the payload against the closed schema and maps
// it onto an Action. The intent is authoritative; the direction field
// only needs to be one of its three allowed values.
func actionFromWire(p wirePayload) (Action, error) {
	switch p.Direction {
	case "in", "out", "none", "":
	default:
		return Action{}, fmt.Errorf("direction %q out of schema", p.Direction)
	}
	switch p.Period {
	case core.PeriodToday, core.PeriodWeek, core.PeriodMonth, core.PeriodAll, "":
	default:
		return Action{}, fmt.Errorf("period %q out of schema", p.Period)
	}
	if p.Amount < 0 {
		return Action{}, fmt.Errorf("negative amount %v", p.Amount)
	}

	item := strings.TrimSpace(p.Item)
	category := strings.TrimSpace(p.Category)

	switch p.Intent {
	case "add_income":
		return recordAction(core.Income, item, category, p.Amount), nil
	case "add_expense":
		return recordAction(core.Expense, item, category, p.Amount), nil
	case "income_total":
		return queryAction(QueryIncomeTotal, p.Period, ""), nil
	case "expense_total":
		return queryAction(QueryExpenseTotal, p.Period, ""), nil
	case "profit":
		return queryAction(QueryProfit, p.Period, ""), nil
	case "category_total":
		label := category
		if label == "" {
			label = item
		}
		return queryAction(QueryCategoryTotal, p.Period, label), nil
	case "recent":
		return queryAction(QueryRecent, p.Period, ""), nil
	case "smalltalk":
		return Action{Kind: KindSmallTalk}, nil
	case "clarify":
		return Clarify(), nil
	default:
		return Action{}, fmt.Errorf("intent %q out of schema", p.Intent)
	}
}

func recordAction(dir core.Direction, item, category string, amount float64) Action {
	return Action{
		Kind: KindRecord,
		Record: RecordIntent{
			Direction: dir,
			Item:      item,
			Category:  category,
			Amount:    core.MoneyFromFloat(amount),
		},
	}
}

func queryAction(kind QueryKind, period, category string) Action {
	return Action{
		Kind:  KindQuery,
		Query: QueryIntent{Kind: kind, Period: period, Category: category},
	}
}

// extractJSON finds the first complete JSON object in the model's reply,
// tolerating prose or fencing around it.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
