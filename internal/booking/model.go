// Package booking provides the booking model, persistence, status
// transitions, CSV export, and the dashboard aggregates built over them.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned by booking operations.
var (
	// ErrBookingNotFound is returned when a booking is not found.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// Booking lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Payment methods.
const (
	MethodCash = "cash"
	MethodUPI  = "upi"
	MethodCard = "card"
)

// Booking is one service booking made by a customer.
type Booking struct {
	ID                  string     `json:"id"`
	UserPhone           string     `json:"user_phone"`
	ProviderID          string     `json:"provider_id"`
	ServiceID           string     `json:"service_id"`
	ServiceAddress      string     `json:"service_address"`
	PinCode             string     `json:"pin_code"`
	ScheduledDatetime   *time.Time `json:"scheduled_datetime,omitempty"`
	EstimatedPrice      int        `json:"estimated_price"`
	PaymentMethod       string     `json:"payment_method"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	Status              string     `json:"status"`
	PaymentStatus       string     `json:"payment_status"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

// allowedTransitions maps a status to the statuses it may move to.
// Cancellation is allowed any time before work starts completing;
// completed and cancelled are terminal.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether a booking may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the booking to a new status, enforcing the lifecycle.
func (b *Booking) Transition(to string) error {
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	return nil
}

// Reference returns the short customer-facing booking reference, e.g.
// "#JDK3F9A2C", derived from the last six characters of the ID.
func (b *Booking) Reference() string {
	id := b.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	out := []rune(id)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - ('a' - 'A')
		}
	}
	return "#JDK" + string(out)
}
