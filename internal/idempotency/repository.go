package idempotency

import (
	"sync"
	"time"
)

// InMemoryRepository implements Repository with in-memory storage. Records
// are copied on the way in and out so callers can never mutate stored state.
type InMemoryRepository struct {
	mu   sync.RWMutex
	keys map[string]*IdempotencyKey
}

// NewInMemoryRepository creates a new in-memory idempotency key repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{keys: make(map[string]*IdempotencyKey)}
}

// Get retrieves a key, or ErrKeyNotFound.
func (r *InMemoryRepository) Get(key string) (*IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.keys[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return record.clone(), nil
}

// Store saves a new key, or ErrKeyExists when one is already recorded. The
// exists check and the write hold one lock, so two racing first requests
// cannot both claim the key.
func (r *InMemoryRepository) Store(record *IdempotencyKey) error {
	if err := ValidateKey(record.Key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[record.Key]; exists {
		return ErrKeyExists
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.keys[record.Key] = record.clone()
	return nil
}

// DeleteOlderThan removes keys created before now minus duration and reports
// how many were dropped.
func (r *InMemoryRepository) DeleteOlderThan(duration time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-duration)
	var deleted int64
	for key, record := range r.keys {
		if record.CreatedAt.Before(cutoff) {
			delete(r.keys, key)
			deleted++
		}
	}
	return deleted, nil
}

func (k *IdempotencyKey) clone() *IdempotencyKey {
	if k == nil {
		return nil
	}
	out := *k
	if k.BookingID != nil {
		id := *k.BookingID
		out.BookingID = &id
	}
	return &out
}
