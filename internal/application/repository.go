package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines application persistence.
type Repository interface {
	Insert(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*Application, error)
}

// InMemoryRepository implements Repository with in-memory storage.
// Thread-safe. Listing returns applications in submission order.
type InMemoryRepository struct {
	mu           sync.RWMutex
	applications map[string]*Application
	order        []string

	timeNow func() time.Time
}

// NewInMemoryRepository creates an empty in-memory application repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		applications: make(map[string]*Application),
		timeNow:      time.Now,
	}
}

// Insert adds a new application with an assigned ID, submitted status, and
// timestamps.
func (r *InMemoryRepository) Insert(ctx context.Context, a *Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = StatusSubmitted
	}

	now := r.timeNow()
	if a.CreatedAt == nil {
		a.CreatedAt = &now
	}
	if a.UpdatedAt == nil {
		a.UpdatedAt = &now
	}

	copied := *a
	r.applications[a.ID] = &copied
	r.order = append(r.order, a.ID)
	return nil
}

// GetByID retrieves an application by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	copied := *a
	return &copied, nil
}

// List returns all applications in submission order.
func (r *InMemoryRepository) List(ctx context.Context) ([]Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Application, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.applications[id])
	}
	return out, nil
}

// UpdateStatus moves an application through the review lifecycle.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status string) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.applications[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	if err := a.Review(status); err != nil {
		return nil, err
	}
	now := r.timeNow()
	a.UpdatedAt = &now

	copied := *a
	return &copied, nil
}
