package payment

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEventAlreadyProcessed is returned when a webhook event was already
// handled. Stripe retries deliveries, so handlers must dedupe by event ID.
var ErrEventAlreadyProcessed = errors.New("webhook event already processed")

// WebhookEvent records one processed Stripe event.
type WebhookEvent struct {
	ID          string
	EventID     string // Stripe event ID
	EventType   string
	ProcessedAt time.Time
}

// WebhookRepository tracks processed webhook events for idempotency.
type WebhookRepository interface {
	// RecordEvent marks an event processed. A repeat event ID returns
	// ErrEventAlreadyProcessed.
	RecordEvent(eventID, eventType string) error

	// HasProcessed reports whether the event was already handled.
	HasProcessed(eventID string) (bool, error)
}

// InMemoryWebhookRepository implements WebhookRepository in memory.
type InMemoryWebhookRepository struct {
	mu     sync.RWMutex
	events map[string]*WebhookEvent
}

// NewInMemoryWebhookRepository creates an empty webhook event repository.
func NewInMemoryWebhookRepository() *InMemoryWebhookRepository {
	return &InMemoryWebhookRepository{
		events: make(map[string]*WebhookEvent),
	}
}

// RecordEvent marks an event processed.
func (r *InMemoryWebhookRepository) RecordEvent(eventID, eventType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.events[eventID]; exists {
		return ErrEventAlreadyProcessed
	}

	r.events[eventID] = &WebhookEvent{
		ID:          uuid.New().String(),
		EventID:     eventID,
		EventType:   eventType,
		ProcessedAt: time.Now(),
	}
	return nil
}

// HasProcessed reports whether the event was already handled.
func (r *InMemoryWebhookRepository) HasProcessed(eventID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.events[eventID]
	return exists, nil
}
