// Package stream bridges the event log's live subscription onto a WebSocket
// so clients can follow a booking's progress in real time. The stream is a
// pure read-side tap: dropping the connection never affects the transaction.
package stream

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/clinicbook/booking-saga/pkg/mapping"
	"github.com/clinicbook/booking-saga/pkg/storage"
)

// Handler streams a transaction's events over a WebSocket.
type Handler struct {
	log    storage.EventLog
	logger *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(log storage.EventLog, logger *slog.Logger) *Handler {
	return &Handler{log: log, logger: logger}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP upgrades the connection and forwards events until the stream
// terminates or the client goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		http.Error(w, "Missing booking id", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	events, err := h.log.Subscribe(ctx, bookingID)
	if err != nil {
		h.logger.Error("failed to subscribe to events",
			slog.String("booking_id", bookingID),
			slog.Any("error", err))
		return
	}

	for ev := range events {
		if err := conn.WriteJSON(mapping.ToApiBookingEvent(&ev)); err != nil {
			h.logger.Info("client disconnected",
				slog.String("booking_id", bookingID),
				slog.Any("error", err))
			return
		}
	}

	// Terminal event observed; tell the client the stream is complete.
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "booking reached a terminal state")
	_ = conn.WriteMessage(websocket.CloseMessage, closeMsg)
}
