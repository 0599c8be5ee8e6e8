package stream

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/booking-saga/pkg/api"
	"github.com/clinicbook/booking-saga/pkg/clock"
	"github.com/clinicbook/booking-saga/pkg/config"
	"github.com/clinicbook/booking-saga/pkg/models"
	"github.com/clinicbook/booking-saga/pkg/storage/memory"
)

func TestStreamReplaysEventsAndCloses(t *testing.T) {
	// Arrange: a booking whose saga already finished.
	cfg, err := config.Load()
	require.NoError(t, err)
	clk := clock.NewFixed(time.Date(2026, time.March, 15, 10, 0, 0, 0, cfg.Location()))
	store := memory.New(cfg, clk)
	ctx := context.Background()

	_, err = store.AppendEvent(ctx, "A1B2C3D4", models.EventBookingInitiated, "Booking request received", nil)
	require.NoError(t, err)
	_, err = store.AppendEvent(ctx, "A1B2C3D4", models.EventBookingCompleted, "Booking confirmed", nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Get("/bookings/{bookingId}/events", NewHandler(store, logger).ServeHTTP)
	srv := httptest.NewServer(router)
	defer srv.Close()

	// Act
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/bookings/A1B2C3D4/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Assert: both events arrive in order, then the server closes normally.
	var first api.BookingEvent
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, string(models.EventBookingInitiated), first.Type)
	assert.Equal(t, int64(1), first.Sequence)

	var second api.BookingEvent
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, string(models.EventBookingCompleted), second.Type)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
