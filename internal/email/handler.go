// Package email is a stand-in email service for local runs and tests. It
// accepts messages over HTTP, logs them and keeps the most recent ones in
// memory so they can be inspected.
package email

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joao-fontenele/order-notifier/internal/mail"
)

const defaultOutboxSize = 100

// Delivered is a message accepted by the service.
type Delivered struct {
	ID         string       `json:"id"`
	Message    mail.Message `json:"message"`
	AcceptedAt time.Time    `json:"accepted_at"`
}

type Handler struct {
	logger *slog.Logger

	mu     sync.Mutex
	outbox []Delivered
	limit  int
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		limit:  defaultOutboxSize,
	}
}

type sendResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var msg mail.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg.To == "" || msg.From == "" {
		h.writeError(w, http.StatusUnprocessableEntity, "from and to are required")
		return
	}

	d := Delivered{
		ID:         uuid.NewString(),
		Message:    msg,
		AcceptedAt: time.Now().UTC(),
	}
	h.store(d)

	h.logger.Info("email sent", "id", d.ID, "to", msg.To, "subject", msg.Subject)

	h.writeJSON(w, http.StatusOK, sendResponse{Status: "sent", ID: d.ID})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Messages())
}

// Messages returns a snapshot of the outbox, oldest first.
func (h *Handler) Messages() []Delivered {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Delivered{}, h.outbox...)
}

func (h *Handler) store(d Delivered) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.outbox = append(h.outbox, d)
	if len(h.outbox) > h.limit {
		h.outbox = h.outbox[len(h.outbox)-h.limit:]
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
