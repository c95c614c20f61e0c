package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/jaldikaro/jaldikaro/internal/booking"
	"github.com/jaldikaro/jaldikaro/internal/payment"
	"github.com/jaldikaro/jaldikaro/internal/service"
)

// maxWebhookBodyBytes caps Stripe webhook payloads.
const maxWebhookBodyBytes = 64 * 1024

// CheckoutRequest represents the request body for starting a payment.
type CheckoutRequest struct {
	BookingID string `json:"booking_id"`
}

// PaymentHandlers holds dependencies for payment HTTP handlers.
type PaymentHandlers struct {
	payments      *payment.Service
	bookings      booking.Repository
	catalog       service.Catalog
	webhookRepo   payment.WebhookRepository
	webhookSecret string
}

// NewPaymentHandlers creates a new PaymentHandlers instance.
func NewPaymentHandlers(payments *payment.Service, bookings booking.Repository, catalog service.Catalog, webhookRepo payment.WebhookRepository, webhookSecret string) *PaymentHandlers {
	return &PaymentHandlers{
		payments:      payments,
		bookings:      bookings,
		catalog:       catalog,
		webhookRepo:   webhookRepo,
		webhookSecret: webhookSecret,
	}
}

// Checkout handles POST /payments/checkout, starting payment for a booking.
func (h *PaymentHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}
	if req.BookingID == "" {
		writeErr(w, r, http.StatusBadRequest, ErrCodeValidation, "booking_id is required")
		return
	}

	b, err := h.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			writeErr(w, r, http.StatusNotFound, ErrCodeBookingNotFound, "Booking not found")
			return
		}
		slog.ErrorContext(ctx, "failed to load booking for checkout", "booking_id", req.BookingID, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to start checkout")
		return
	}

	serviceName := b.ServiceID
	if svc, err := h.catalog.GetByID(ctx, b.ServiceID); err == nil {
		serviceName = svc.NameEN
	}

	result, err := h.payments.Checkout(ctx, b.ID, serviceName)
	if err != nil {
		if b.PaymentMethod == booking.MethodCard {
			slog.WarnContext(ctx, "card checkout failed", "booking_id", b.ID, "error", err)
			writeErr(w, r, http.StatusServiceUnavailable, ErrCodePaymentsNotConfigured, "Card payments are currently unavailable")
			return
		}
		slog.ErrorContext(ctx, "failed to start checkout", "booking_id", b.ID, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to start checkout")
		return
	}

	slog.InfoContext(ctx, "checkout started",
		"booking_id", b.ID,
		"method", b.PaymentMethod,
		"redirect", result.RedirectURL != "")

	writeData(w, r, http.StatusOK, result)
}

// StripeWebhook handles POST /internal/stripe. The signature is verified
// against the webhook secret and events are recorded before processing so
// Stripe's retries cannot double-settle a payment. Processing failures
// still acknowledge with 200; Stripe retries are handled by the recorded
// event IDs.
func (h *PaymentHandlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		writeErr(w, r, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeErr(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body")
		return
	}

	event, err := webhook.ConstructEvent(body, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		slog.WarnContext(ctx, "stripe webhook signature verification failed", "error", err)
		writeErr(w, r, http.StatusBadRequest, ErrCodeAuthFailed, "Invalid webhook signature")
		return
	}

	if err := h.webhookRepo.RecordEvent(event.ID, string(event.Type)); err != nil {
		if errors.Is(err, payment.ErrEventAlreadyProcessed) {
			w.WriteHeader(http.StatusOK)
			return
		}
		slog.ErrorContext(ctx, "failed to record webhook event", "event_id", event.ID, "error", err)
		writeErr(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to record event")
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			slog.ErrorContext(ctx, "failed to parse checkout session", "event_id", event.ID, "error", err)
			break
		}
		if err := h.payments.CompleteBySession(ctx, sess.ID); err != nil {
			slog.ErrorContext(ctx, "failed to complete payment", "session_id", sess.ID, "error", err)
		}
	default:
		slog.DebugContext(ctx, "ignoring webhook event", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
