package amqp

import (
	"encoding/json"
	"time"

	"ezba/internal/core"
)

// RecordAppendedMessage is the audit event published after a successful
// ledger append. It carries the full row so the mirror worker does not
// have to read the sheet back.
type RecordAppendedMessage struct {
	RecordedAt  time.Time `json:"recorded_at"`
	Direction   string    `json:"direction"`
	Item        string    `json:"item"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Actor       string    `json:"actor"`
	Notes       string    `json:"notes"`
	RowRef      string    `json:"row_ref"`
	PublishedAt time.Time `json:"published_at"`
}

func NewRecordAppendedMessage(r core.Record, rowRef string) *RecordAppendedMessage {
	return &RecordAppendedMessage{
		RecordedAt:  r.Timestamp,
		Direction:   string(r.Direction),
		Item:        r.Item,
		Category:    r.Category,
		AmountCents: r.Amount.Cents,
		Actor:       r.Actor,
		Notes:       r.Notes,
		RowRef:      rowRef,
		PublishedAt: time.Now(),
	}
}

// Record rebuilds the ledger record the message describes.
func (m *RecordAppendedMessage) Record() core.Record {
	return core.Record{
		Timestamp: m.RecordedAt,
		Direction: core.ParseDirection(m.Direction),
		Item:      m.Item,
		Category:  m.Category,
		Amount:    core.Money{Cents: m.AmountCents},
		Actor:     m.Actor,
		Notes:     m.Notes,
	}
}

func (m *RecordAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordAppendedMessageFromJSON(data []byte) (*RecordAppendedMessage, error) {
	var msg RecordAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
