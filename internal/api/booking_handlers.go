package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/notify"
	"github.com/jaldikaro/jaldikaro/internal/service"
	"github.com/jaldikaro/jaldikaro/internal/validate"
)

// CreateBookingRequest represents the request body for creating a booking.
type CreateBookingRequest struct {
	UserPhone           string     `json:"user_phone"`
	ProviderID          string     `json:"provider_id"`
	ServiceID           string     `json:"service_id"`
	ServiceAddress      string     `json:"service_address"`
	PinCode             string     `json:"pin_code"`
	ScheduledDatetime   *time.Time `json:"scheduled_datetime,omitempty"`
	DurationMinutes     int        `json:"duration_minutes,omitempty"`
	PaymentMethod       string     `json:"payment_method"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
}

// UpdateBookingStatusRequest represents the request body for a status change.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// BookingHandlers holds dependencies for booking HTTP handlers.
type BookingHandlers struct {
	repo    booking.Repository
	catalog service.Catalog
	hub     *notify.Hub
}

// NewBookingHandlers creates a new BookingHandlers instance.
func NewBookingHandlers(repo booking.Repository, catalog service.Catalog, hub *notify.Hub) *BookingHandlers {
	return &BookingHandlers{repo: repo, catalog: catalog, hub: hub}
}

// extractBookingID extracts the booking ID from the URL path, along with any
// trailing action segment ("status").
func extractBookingID(r *http.Request) (id, action string, err error) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tables/bookings/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", fmt.Errorf("booking ID is required")
	}
	if len(parts) > 1 {
		action = parts[1]
	}
	return parts[0], action, nil
}

// validPaymentMethods for booking submission.
var validPaymentMethods = map[string]bool{
	booking.MethodCash: true,
	booking.MethodUPI:  true,
	booking.MethodCard: true,
}

// validateCreateBooking checks the submission fields.
// Returns an error message, or empty string if valid.
func validateCreateBooking(req *CreateBookingRequest) string {
	if !validate.IndianMobile(req.UserPhone) {
		return "user_phone must be a valid Indian mobile number"
	}
	if req.ProviderID == "" {
		return "provider_id is required"
	}
	if req.ServiceID == "" {
		return "service_id is required"
	}
	if strings.TrimSpace(req.ServiceAddress) == "" {
		return "service_address is required"
	}
	if !validate.PinCode(req.PinCode) {
		return "pin_code must be a 6-digit PIN code"
	}
	if !validPaymentMethods[req.PaymentMethod] {
		return "payment_method must be one of cash, upi, card"
	}
	return ""
}

// Bookings routes /tables/bookings by method.
func (h *BookingHandlers) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listBookings(w, r)
	case http.MethodPost:
		h.createBooking(w, r)
	default:
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

// listBookings handles GET /tables/bookings, optionally filtered by ?phone=.
func (h *BookingHandlers) listBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		bookings []booking.Booking
		err      error
	)
	if phone := r.URL.Query().Get("phone"); phone != "" {
		bookings, err = h.repo.ListByPhone(ctx, phone)
	} else {
		bookings, err = h.repo.List(ctx)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to list bookings", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to list bookings")
		return
	}

	writeList(w, r, bookings, len(bookings))
}

// createBooking handles POST /tables/bookings.
// The estimated price is always computed server-side from the catalog so a
// tampered client cannot post its own price.
func (h *BookingHandlers) createBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if msg := validateCreateBooking(&req); msg != "" {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}

	svc, err := h.catalog.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			writeErr(w, r, http.StatusBadRequest, ErrCodeServiceNotFound, "Unknown service")
			return
		}
		slog.ErrorContext(ctx, "failed to resolve service for booking", "service_id", req.ServiceID, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create booking")
		return
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = svc.DurationMinutes
	}

	b := &booking.Booking{
		UserPhone:           req.UserPhone,
		ProviderID:          req.ProviderID,
		ServiceID:           req.ServiceID,
		ServiceAddress:      validate.SanitizeHTML(strings.TrimSpace(req.ServiceAddress)),
		PinCode:             req.PinCode,
		ScheduledDatetime:   req.ScheduledDatetime,
		EstimatedPrice:      h.catalog.EstimatePrice(ctx, svc.ID, duration),
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: validate.SanitizeHTML(strings.TrimSpace(req.SpecialInstructions)),
		Status:              booking.StatusPending,
		PaymentStatus:       booking.PaymentPending,
	}

	if err := h.repo.Insert(ctx, b); err != nil {
		slog.ErrorContext(ctx, "failed to create booking", "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to create booking")
		return
	}

	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"reference", b.Reference(),
		"service_id", b.ServiceID,
		"payment_method", b.PaymentMethod)

	writeData(w, r, http.StatusCreated, b)
}

// BookingByID routes /tables/bookings/{id} and /tables/bookings/{id}/status.
func (h *BookingHandlers) BookingByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := extractBookingID(r)
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Booking ID is required")
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getBooking(w, r, id)
	case action == "status" && r.Method == http.MethodPatch:
		h.updateStatus(w, r, id)
	default:
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
	}
}

// getBooking handles GET /tables/bookings/{id}.
func (h *BookingHandlers) getBooking(w http.ResponseWriter, r *http.Request, id string) {
	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeBookingNotFound, "Booking not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to get booking", "id", id, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to get booking")
		return
	}

	writeData(w, r, http.StatusOK, b)
}

// updateStatus handles PATCH /tables/bookings/{id}/status.
// On success the new status is broadcast to subscribed clients.
func (h *BookingHandlers) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	var req UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}
	if !booking.ValidStatus(req.Status) {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "Unknown booking status")
		return
	}

	b, err := h.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			writeErr(w, r, http.StatusNotFound, ErrCodeBookingNotFound, "Booking not found")
		case errors.Is(err, booking.ErrInvalidTransition):
			writeErr(w, r, http.StatusConflict, ErrCodeInvalidTransition, err.Error())
		default:
			slog.ErrorContext(ctx, "failed to update booking status", "id", id, "error", err)
			writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update booking status")
		}
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(&notify.BookingEvent{
			BookingID:     b.ID,
			Status:        b.Status,
			PaymentStatus: b.PaymentStatus,
			Message:       "Booking " + b.Reference() + " is now " + b.Status,
			OccurredAt:    time.Now(),
		})
	}

	writeData(w, r, http.StatusOK, b)
}
