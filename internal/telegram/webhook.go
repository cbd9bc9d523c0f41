package telegram

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ezba/internal/ledger"
	"ezba/internal/middleware/security"
	"ezba/internal/middleware/trace"
)

// Handler processes one ledger message into a reply.
type Handler interface {
	Handle(ctx context.Context, msg ledger.Message) ledger.Reply
}

// ReplySender delivers a reply text to a chat.
type ReplySender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Server hosts the webhook endpoint. The webhook always answers 200:
// Telegram redelivers updates on any other status, and a redelivered
// record message would double-append.
type Server struct {
	http.Server
}

// NewServer wires the webhook behind tracing and, when webhookSecret is
// set, the Telegram secret-token check.
func NewServer(addr string, handler Handler, sender ReplySender, webhookSecret string) *Server {
	check := security.NewSecretTokenCheck(webhookSecret)

	mux := http.NewServeMux()
	mux.Handle("POST /webhook/telegram", check.Middleware(WebhookHandler(handler, sender)))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	tracer := trace.NewMiddleware()

	return &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           tracer.Middleware(mux),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
	}
}

// WebhookHandler decodes a Bot API update, hands it to the ledger
// handler, and sends the reply. Malformed or non-text updates are
// acknowledged and dropped.
func WebhookHandler(handler Handler, sender ReplySender) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}()

		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			slog.WarnContext(r.Context(), "dropping undecodable update", "error", err)
			return
		}

		msg := update.Message
		if msg == nil || msg.Text == "" || msg.From == nil || msg.Chat == nil {
			return
		}

		reply := handler.Handle(r.Context(), ledger.Message{
			ActorID: msg.From.ID,
			ChatID:  msg.Chat.ID,
			Text:    msg.Text,
		})

		if err := sender.SendMessage(r.Context(), reply.ChatID, reply.Text); err != nil {
			slog.ErrorContext(r.Context(), "failed to send reply",
				"chat_id", reply.ChatID,
				"error", err)
		}
	})
}
