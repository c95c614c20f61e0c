// Package notify provides WebSocket broadcasting of booking status updates
// to subscribed customers.
package notify

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jaldikaro/jaldikaro/internal/cache"
)

// BookingEvent is one status update pushed to subscribers of a booking.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	Message       string    `json:"message,omitempty"`
	URL           string    `json:"url,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Notification converts the event into a displayable push notification,
// applying the standard defaults for fields the event leaves empty.
func (e *BookingEvent) Notification() cache.Notification {
	payload, _ := json.Marshal(cache.PushPayload{Body: e.Message, URL: e.URL})
	return cache.ParsePush(payload)
}

// Hub manages WebSocket connections and broadcasts booking events.
// Connections subscribe per booking ID.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*websocket.Conn]bool // bookingID -> connections
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*websocket.Conn]bool),
	}
}

// Subscribe registers a WebSocket connection for a booking's updates.
func (h *Hub) Subscribe(bookingID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[bookingID] == nil {
		h.connections[bookingID] = make(map[*websocket.Conn]bool)
	}
	h.connections[bookingID][conn] = true
}

// Unsubscribe removes a WebSocket connection from all bookings.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for bookingID, conns := range h.connections {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.connections, bookingID)
		}
	}
}

// Broadcast sends a booking event to all of the booking's subscribers.
func (h *Hub) Broadcast(event *BookingEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, exists := h.connections[event.BookingID]
	if !exists || len(conns) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal booking event", "error", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("failed to send booking update to websocket client",
				"error", err,
				"booking_id", event.BookingID,
			)
			// Connection is cleaned up when the client disconnects.
		}
	}
}

// ConnectionCount returns the number of subscribers for a booking.
func (h *Hub) ConnectionCount(bookingID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if conns, exists := h.connections[bookingID]; exists {
		return len(conns)
	}
	return 0
}
