// Package nlu turns free-text messages into structured actions by way of
// an external language-model classifier. The classifier's output is
// validated against a closed schema before anything downstream sees it;
// a classifier failure of any kind degrades to a clarify action, never
// to an error.
package nlu

import (
	"ezba/internal/core"
)

// ActionKind is the closed set of action variants. Every resolved
// message maps to exactly one of these.
type ActionKind string

const (
	KindRecord    ActionKind = "record"
	KindQuery     ActionKind = "query"
	KindSmallTalk ActionKind = "smalltalk"
	KindClarify   ActionKind = "clarify"
)

// QueryKind selects the aggregate a query action asks for.
type QueryKind string

const (
	QueryIncomeTotal   QueryKind = "income_total"
	QueryExpenseTotal  QueryKind = "expense_total"
	QueryProfit        QueryKind = "profit"
	QueryCategoryTotal QueryKind = "category_total"
	QueryRecent        QueryKind = "recent"
)

// Action is the schema-validated result of classifying one message. It
// is built per message, consumed once, and never persisted.
type Action struct {
	Kind   ActionKind
	Record RecordIntent // set when Kind == KindRecord
	Query  QueryIntent  // set when Kind == KindQuery
}

// RecordIntent carries the fields of a requested ledger append. Item or
// Amount may be absent (empty / zero cents) when the classifier could
// not extract them; the ledger service treats that as insufficient to
// record and never appends such a candidate.
type RecordIntent struct {
	Direction core.Direction
	Item      string
	Category  string
	Amount    core.Money
	Notes     string
}

// QueryIntent carries an aggregate question. Period is one of the
// window names from core (unknown values read as all time). Category is
// only meaningful for category_total.
type QueryIntent struct {
	Kind     QueryKind
	Period   string
	Category string
}

// Clarify is the action every failure path converges on.
func Clarify() Action {
	return Action{Kind: KindClarify}
}
