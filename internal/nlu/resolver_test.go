package nlu

import (
	"context"
	"errors"
	"testing"
	"time"

	"ezba/internal/core"
)

type cannedClassifier struct {
	reply string
	err   error
}

func (c cannedClassifier) Classify(ctx context.Context, text, actorHint string) (string, error) {
	return c.reply, c.err
}

func resolve(t *testing.T, reply string, err error) Action {
	t.Helper()
	r := NewResolver(cannedClassifier{reply: reply, err: err}, time.Second)
	return r.Resolve(context.Background(), "whatever", "Khaled")
}

func TestResolveRecordAction(t *testing.T) {
	a := resolve(t, `{"intent":"add_expense","direction":"out","item":"feed","category":"feed","amount":500,"period":"month"}`, nil)
	if a.Kind != KindRecord {
		t.Fatalf("kind = %q", a.Kind)
	}
	if a.Record.Direction != core.Expense || a.Record.Item != "feed" {
		t.Fatalf("record = %+v", a.Record)
	}
	if a.Record.Amount.Cents != 50000 {
		t.Fatalf("amount cents = %d", a.Record.Amount.Cents)
	}
}

func TestResolveQueryActions(t *testing.T) {
	cases := []struct {
		intent string
		want   QueryKind
	}{
		{"income_total", QueryIncomeTotal},
		{"expense_total", QueryExpenseTotal},
		{"profit", QueryProfit},
		{"recent", QueryRecent},
	}
	for _, tc := range cases {
		a := resolve(t, `{"intent":"`+tc.intent+`","direction":"none","item":"","category":"","amount":0,"period":"week"}`, nil)
		if a.Kind != KindQuery || a.Query.Kind != tc.want {
			t.Fatalf("%s: got %+v", tc.intent, a)
		}
		if a.Query.Period != "week" {
			t.Fatalf("%s: period = %q", tc.intent, a.Query.Period)
		}
	}
}

func TestResolveCategoryTotalFallsBackToItem(t *testing.T) {
	a := resolve(t, `{"intent":"category_total","direction":"out","item":"feed","category":"","amount":0,"period":"all"}`, nil)
	if a.Query.Kind != QueryCategoryTotal || a.Query.Category != "feed" {
		t.Fatalf("got %+v", a.Query)
	}
}

func TestResolveTolerantOfSurroundingProse(t *testing.T) {
	a := resolve(t, "Sure, here you go:\n```json\n{\"intent\":\"smalltalk\",\"direction\":\"none\",\"item\":\"\",\"category\":\"\",\"amount\":0,\"period\":\"all\"}\n```", nil)
	if a.Kind != KindSmallTalk {
		t.Fatalf("kind = %q", a.Kind)
	}
}

func TestResolveClarifiesOnFailure(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		err   error
	}{
		{"transport error", "", errors.New("boom")},
		{"no json", "I could not understand that.", nil},
		{"broken json", `{"intent":"add_income",`, nil},
		{"unknown intent", `{"intent":"daily_report","direction":"none","item":"","category":"","amount":0,"period":"all"}`, nil},
		{"bad direction", `{"intent":"add_income","direction":"sideways","item":"x","category":"","amount":1,"period":"all"}`, nil},
		{"bad period", `{"intent":"profit","direction":"none","item":"","category":"","amount":0,"period":"decade"}`, nil},
		{"negative amount", `{"intent":"add_expense","direction":"out","item":"feed","category":"","amount":-5,"period":"all"}`, nil},
		{"declared clarify", `{"intent":"clarify","direction":"none","item":"","category":"","amount":0,"period":"all"}`, nil},
	}
	for _, tc := range cases {
		if a := resolve(t, tc.reply, tc.err); a.Kind != KindClarify {
			t.Fatalf("%s: kind = %q, want clarify", tc.name, a.Kind)
		}
	}
}

func TestResolveKeepsAbsentFieldsAbsent(t *testing.T) {
	// Classifier declined to state item and amount; the action must not
	// invent them, so the ledger service can refuse to append.
	a := resolve(t, `{"intent":"add_expense","direction":"out","item":"","category":"","amount":0,"period":"month"}`, nil)
	if a.Kind != KindRecord {
		t.Fatalf("kind = %q", a.Kind)
	}
	if a.Record.Item != "" || a.Record.Amount.Cents != 0 {
		t.Fatalf("fields invented: %+v", a.Record)
	}
}
