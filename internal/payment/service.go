package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jaldikaro/jaldikaro/internal/booking"
)

// CheckoutResult is the outcome of starting payment for a booking. For
// card bookings RedirectURL points at Stripe Checkout; cash and UPI
// bookings settle on completion and have no redirect.
type CheckoutResult struct {
	Record      *Record `json:"record"`
	RedirectURL string  `json:"redirect_url,omitempty"`
}

// Service coordinates payment flows against bookings.
type Service struct {
	records  Repository
	bookings booking.Repository
	stripe   Client
	logger   *slog.Logger

	successURL string
	cancelURL  string
}

// NewService creates a payment service. The stripe client may be nil when
// card payments are disabled; card checkouts then fail cleanly.
func NewService(records Repository, bookings booking.Repository, stripe Client, successURL, cancelURL string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		records:    records,
		bookings:   bookings,
		stripe:     stripe,
		logger:     logger,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// Checkout starts payment for a booking according to its payment method.
// Cash and UPI create a pending record and return immediately; card
// creates a Stripe Checkout Session and returns its URL.
func (s *Service) Checkout(ctx context.Context, bookingID, serviceName string) (*CheckoutResult, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("loading booking %s: %w", bookingID, err)
	}

	record := &Record{
		BookingID: b.ID,
		Method:    b.PaymentMethod,
		Status:    StatusPending,
		Amount:    int64(b.EstimatedPrice) * 100,
	}

	if b.PaymentMethod != booking.MethodCard {
		if err := s.records.Insert(record); err != nil {
			return nil, err
		}
		s.logger.Info("payment deferred to completion",
			"booking_id", b.ID,
			"method", b.PaymentMethod)
		return &CheckoutResult{Record: record}, nil
	}

	if s.stripe == nil {
		return nil, fmt.Errorf("card payments are not configured")
	}

	sess, err := s.stripe.CreateCheckoutSession(&CheckoutParams{
		BookingID:   b.ID,
		ServiceName: serviceName,
		AmountPaise: record.Amount,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout session for booking %s: %w", b.ID, err)
	}

	record.SessionID = sess.ID
	if err := s.records.Insert(record); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		"booking_id", b.ID,
		"session_id", sess.ID,
		"amount_paise", record.Amount)
	return &CheckoutResult{Record: record, RedirectURL: sess.URL}, nil
}

// CompleteBySession marks the payment for a Stripe session as succeeded
// and flips the booking's payment status to paid. Used by the checkout
// webhook.
func (s *Service) CompleteBySession(ctx context.Context, sessionID string) error {
	record, err := s.records.GetBySessionID(sessionID)
	if err != nil {
		return fmt.Errorf("resolving session %s: %w", sessionID, err)
	}
	return s.complete(ctx, record)
}

// CompleteBooking settles a cash or UPI payment after the provider marks
// the job done.
func (s *Service) CompleteBooking(ctx context.Context, bookingID string) error {
	record, err := s.records.GetByBookingID(bookingID)
	if err != nil {
		return fmt.Errorf("resolving booking %s: %w", bookingID, err)
	}
	return s.complete(ctx, record)
}

func (s *Service) complete(ctx context.Context, record *Record) error {
	record.Status = StatusSucceeded
	if err := s.records.Update(record); err != nil {
		return err
	}
	if err := s.bookings.UpdatePaymentStatus(ctx, record.BookingID, booking.PaymentPaid); err != nil {
		return fmt.Errorf("updating booking payment status: %w", err)
	}
	s.logger.Info("payment completed",
		"booking_id", record.BookingID,
		"method", record.Method)
	return nil
}
