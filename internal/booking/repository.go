package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines booking persistence.
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
	ListByPhone(ctx context.Context, phone string) ([]Booking, error)
	UpdateStatus(ctx context.Context, id, status string) (*Booking, error)
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error
}

// InMemoryRepository implements Repository with in-memory storage.
// Thread-safe. Listing returns bookings in insertion order.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
	order    []string

	timeNow func() time.Time
}

// NewInMemoryRepository creates an empty in-memory booking repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
		timeNow:  time.Now,
	}
}

// Insert adds a new booking, assigning an ID, default statuses, and
// timestamps where missing.
func (r *InMemoryRepository) Insert(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Status == "" {
		b.Status = StatusPending
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = PaymentPending
	}
	if b.PaymentMethod == "" {
		b.PaymentMethod = MethodCash
	}

	now := r.timeNow()
	if b.CreatedAt == nil {
		b.CreatedAt = &now
	}
	if b.UpdatedAt == nil {
		b.UpdatedAt = &now
	}

	copied := *b
	r.bookings[b.ID] = &copied
	r.order = append(r.order, b.ID)
	return nil
}

// GetByID retrieves a booking by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// List returns all bookings in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.bookings[id])
	}
	return out, nil
}

// ListByPhone returns the customer's bookings in insertion order.
func (r *InMemoryRepository) ListByPhone(ctx context.Context, phone string) ([]Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Booking
	for _, id := range r.order {
		if r.bookings[id].UserPhone == phone {
			out = append(out, *r.bookings[id])
		}
	}
	return out, nil
}

// UpdateStatus transitions a booking to a new status, enforcing the
// lifecycle, and returns the updated booking.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if err := b.Transition(status); err != nil {
		return nil, err
	}
	now := r.timeNow()
	b.UpdatedAt = &now

	copied := *b
	return &copied, nil
}

// UpdatePaymentStatus sets a booking's payment status.
func (r *InMemoryRepository) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.PaymentStatus = paymentStatus
	now := r.timeNow()
	b.UpdatedAt = &now
	return nil
}
