package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ezba/internal/ledger"
)

type echoHandler struct {
	got []ledger.Message
}

func (h *echoHandler) Handle(_ context.Context, msg ledger.Message) ledger.Reply {
	h.got = append(h.got, msg)
	return ledger.Reply{ChatID: msg.ChatID, Text: "echo: " + msg.Text}
}

type recordingSender struct {
	chatIDs []int64
	texts   []string
}

func (s *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.chatIDs = append(s.chatIDs, chatID)
	s.texts = append(s.texts, text)
	return nil
}

func TestWebhookHandler(t *testing.T) {
	handler := &echoHandler{}
	sender := &recordingSender{}
	srv := httptest.NewServer(WebhookHandler(handler, sender))
	defer srv.Close()

	body := `{"update_id":1,"message":{"message_id":10,"from":{"id":47329648},"chat":{"id":99},"text":"sold eggs for 200"}}`
	resp, err := http.Post(srv.URL, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if len(handler.got) != 1 {
		t.Fatalf("handler saw %d messages, want 1", len(handler.got))
	}
	msg := handler.got[0]
	if msg.ActorID != 47329648 || msg.ChatID != 99 || msg.Text != "sold eggs for 200" {
		t.Errorf("decoded message = %+v", msg)
	}

	if len(sender.texts) != 1 || sender.texts[0] != "echo: sold eggs for 200" {
		t.Errorf("sent replies = %v", sender.texts)
	}
	if sender.chatIDs[0] != 99 {
		t.Errorf("reply chat = %d, want 99", sender.chatIDs[0])
	}
}

func TestWebhookHandlerDropsNonText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"update_id":`},
		{"no message", `{"update_id":2}`},
		{"no text", `{"update_id":3,"message":{"message_id":1,"from":{"id":1},"chat":{"id":2}}}`},
		{"no sender", `{"update_id":4,"message":{"message_id":1,"chat":{"id":2},"text":"hi"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &echoHandler{}
			sender := &recordingSender{}
			srv := httptest.NewServer(WebhookHandler(handler, sender))
			defer srv.Close()

			resp, err := http.Post(srv.URL, "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST error = %v", err)
			}
			resp.Body.Close()
			// Telegram redelivers on non-200, so even junk is acknowledged.
			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200", resp.StatusCode)
			}
			if len(handler.got) != 0 {
				t.Errorf("handler saw %d messages, want 0", len(handler.got))
			}
			if len(sender.texts) != 0 {
				t.Errorf("sender sent %v, want nothing", sender.texts)
			}
		})
	}
}

func TestSenderSendMessage(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer api.Close()

	s := NewSender("TOKEN", WithBaseURL(api.URL))
	if err := s.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotReq.ChatID != 42 || gotReq.Text != "hello" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestSenderSendMessageAPIError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	s := NewSender("TOKEN", WithBaseURL(api.URL))
	if err := s.SendMessage(context.Background(), 42, "hello"); err == nil {
		t.Fatal("SendMessage() error = nil, want non-nil on 502")
	}
}
