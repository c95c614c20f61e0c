package service

import (
	"context"
	"math"
	"strings"
	"sync"
)

// emergencyCategories are offered with priority dispatch.
var emergencyCategories = map[string]bool{
	"electrician": true,
	"plumber":     true,
	"security":    true,
}

// Catalog is the read model over the service catalog.
type Catalog interface {
	// List returns all active services in catalog order.
	List(ctx context.Context) ([]Service, error)

	// GetByID returns a service by ID regardless of active flag, or
	// ErrServiceNotFound.
	GetByID(ctx context.Context, id string) (Service, error)

	// ByCategory returns active services in the category.
	ByCategory(ctx context.Context, category string) ([]Service, error)

	// Search returns active services matching the query against names,
	// category, and descriptions in either language.
	Search(ctx context.Context, query string) ([]Service, error)

	// Categories returns the categories represented by active services,
	// in first-appearance order.
	Categories(ctx context.Context) ([]Category, error)

	// Emergency returns active services in categories offered with
	// priority dispatch.
	Emergency(ctx context.Context) ([]Service, error)

	// EstimatePrice returns the price for a service at the requested
	// duration, or 0 when the service is unknown.
	EstimatePrice(ctx context.Context, id string, durationMinutes int) int
}

// InMemoryCatalog is a Catalog backed by an in-memory slice. Thread-safe.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	services []Service
}

// NewCatalog creates a catalog with the given services. Nil seeds the
// default catalog.
func NewCatalog(services []Service) *InMemoryCatalog {
	if services == nil {
		services = DefaultServices()
	}
	cp := make([]Service, len(services))
	copy(cp, services)
	return &InMemoryCatalog{services: cp}
}

// List returns all active services in catalog order.
func (c *InMemoryCatalog) List(ctx context.Context) ([]Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Service, 0, len(c.services))
	for _, s := range c.services {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

// GetByID returns a service by ID, active or not.
func (c *InMemoryCatalog) GetByID(ctx context.Context, id string) (Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.services {
		if s.ID == id {
			return s, nil
		}
	}
	return Service{}, ErrServiceNotFound
}

// ByCategory returns active services in the category.
func (c *InMemoryCatalog) ByCategory(ctx context.Context, category string) ([]Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Service
	for _, s := range c.services {
		if s.IsActive && s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

// Search returns active services whose names, category, or descriptions
// contain the query. English fields match case-insensitively; Hindi
// fields match as-is.
func (c *InMemoryCatalog) Search(ctx context.Context, query string) ([]Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	term := strings.ToLower(query)
	var out []Service
	for _, s := range c.services {
		if !s.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(s.NameEN), term) ||
			strings.Contains(s.NameHI, query) ||
			strings.Contains(strings.ToLower(s.Category), term) ||
			strings.Contains(strings.ToLower(s.DescriptionEN), term) ||
			strings.Contains(s.DescriptionHI, query) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Categories returns the categories of active services in the order they
// first appear in the catalog.
func (c *InMemoryCatalog) Categories(ctx context.Context) ([]Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var out []Category
	for _, s := range c.services {
		if !s.IsActive || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, categoryFor(s.Category))
	}
	return out, nil
}

// Emergency returns active services in categories offered with priority
// dispatch.
func (c *InMemoryCatalog) Emergency(ctx context.Context) ([]Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Service
	for _, s := range c.services {
		if s.IsActive && emergencyCategories[s.Category] {
			out = append(out, s)
		}
	}
	return out, nil
}

// EstimatePrice returns the price for a service at the requested duration.
// Zero or the service's standard duration yields the base price; any other
// duration is prorated from the implied hourly rate and rounded to the
// nearest rupee. Unknown services estimate to zero.
func (c *InMemoryCatalog) EstimatePrice(ctx context.Context, id string, durationMinutes int) int {
	s, err := c.GetByID(ctx, id)
	if err != nil {
		return 0
	}
	if durationMinutes == 0 || durationMinutes == s.DurationMinutes {
		return s.BasePrice
	}
	hourlyRate := float64(s.BasePrice) / float64(s.DurationMinutes) * 60
	return int(math.Round(hourlyRate * float64(durationMinutes) / 60))
}
