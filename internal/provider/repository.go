package provider

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines storage operations for providers. The ranking engine
// never touches storage directly; it trusts whatever candidate list the
// caller loads from here or from the upstream table endpoint.
type Repository interface {
	// GetByID returns the provider with the given ID.
	GetByID(ctx context.Context, id string) (*Provider, error)

	// List returns providers offering the given service ID. An empty
	// serviceID returns all providers.
	List(ctx context.Context, serviceID string) ([]Provider, error)

	// Create stores a new provider and returns it with its assigned ID.
	Create(ctx context.Context, p Provider) (*Provider, error)

	// SetOnline flips the provider's availability flag.
	SetOnline(ctx context.Context, id string, online bool) error
}

// InMemoryRepository is an in-memory Repository implementation.
// Thread-safe for concurrent access.
type InMemoryRepository struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string // Insertion order for deterministic listings
	timeNow   func() time.Time
}

// NewInMemoryRepository creates an empty in-memory provider repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		providers: make(map[string]Provider),
		timeNow:   time.Now,
	}
}

// NewSeededRepository creates an in-memory repository pre-populated with
// the demo provider list.
func NewSeededRepository() *InMemoryRepository {
	return NewRepositoryWith(DefaultProviders())
}

// NewRepositoryWith creates an in-memory repository pre-populated with the
// given providers, preserving their order and IDs. The Loader's output
// seeds a repository this way.
func NewRepositoryWith(providers []Provider) *InMemoryRepository {
	r := NewInMemoryRepository()
	for _, p := range providers {
		r.providers[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// GetByID returns the provider with the given ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[id]
	if !ok {
		return nil, ErrProviderNotFound
	}
	cp := p
	return &cp, nil
}

// List returns providers offering the given service ID, in insertion order.
func (r *InMemoryRepository) List(ctx context.Context, serviceID string) ([]Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		p := r.providers[id]
		if serviceID == "" || slices.Contains(p.Services, serviceID) {
			result = append(result, p)
		}
	}
	return result, nil
}

// Create stores a new provider, assigning a UUID when no ID is given.
func (r *InMemoryRepository) Create(ctx context.Context, p Provider) (*Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.timeNow()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, exists := r.providers[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.providers[p.ID] = p

	cp := p
	return &cp, nil
}

// SetOnline flips the provider's availability flag.
func (r *InMemoryRepository) SetOnline(ctx context.Context, id string, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.providers[id]
	if !ok {
		return ErrProviderNotFound
	}
	p.IsOnline = online
	p.UpdatedAt = r.timeNow()
	r.providers[id] = p
	return nil
}
