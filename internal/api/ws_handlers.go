package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/middleware"
	"github.com/jaldikaro/jaldikaro/internal/notify"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the configured CORS origins in production
		return true
	},
}

// WebSocketHandlers holds dependencies for booking update subscriptions.
type WebSocketHandlers struct {
	bookings booking.Repository
	hub      *notify.Hub
}

// NewWebSocketHandlers creates a new WebSocketHandlers instance.
func NewWebSocketHandlers(bookings booking.Repository, hub *notify.Hub) *WebSocketHandlers {
	return &WebSocketHandlers{bookings: bookings, hub: hub}
}

// SubscribeToBookingEvents handles WebSocket connections for real-time
// booking status updates.
// GET /ws/bookings/{id}
func (h *WebSocketHandlers) SubscribeToBookingEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bookingID := strings.TrimPrefix(r.URL.Path, "/ws/bookings/")
	if bookingID == "" || strings.Contains(bookingID, "/") {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid URL path")
		return
	}

	// Verify the booking exists before upgrading.
	if _, err := h.bookings.GetByID(ctx, bookingID); err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeBookingNotFound, "Booking not found")
		} else {
			slog.ErrorContext(ctx, "failed to get booking for subscription", "error", err)
			writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error")
		}
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade websocket connection",
			"error", err,
			"booking_id", bookingID,
		)
		return
	}

	h.hub.Subscribe(bookingID, conn)

	requestID := middleware.GetRequestID(ctx)
	slog.InfoContext(ctx, "websocket client subscribed to booking updates",
		"booking_id", bookingID,
		"request_id", requestID,
	)

	defer func() {
		h.hub.Unsubscribe(conn)
		conn.Close()
		slog.InfoContext(ctx, "websocket client unsubscribed",
			"booking_id", bookingID,
			"request_id", requestID,
		)
	}()

	// Clients don't send messages; reading just detects disconnection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.WarnContext(ctx, "websocket connection closed unexpectedly",
					"error", err,
					"booking_id", bookingID,
				)
			}
			break
		}
	}
}
