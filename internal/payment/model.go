// Package payment handles booking payments: Stripe Checkout for card
// bookings, pay-on-completion for cash and UPI, and the payment records
// tracking both.
package payment

import "time"

// Payment record statuses.
const (
	StatusPending   = "pending"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Record tracks one payment attempt for a booking. Card payments carry a
// Stripe Checkout Session ID; cash and UPI records have none and settle
// on service completion.
type Record struct {
	ID        string     `json:"id"`
	BookingID string     `json:"booking_id"`
	SessionID string     `json:"session_id,omitempty"` // Stripe Checkout Session ID, card only
	Method    string     `json:"method"`               // cash, upi, card
	Status    string     `json:"status"`
	Amount    int64      `json:"amount"` // In paise
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
