package cache

import (
	"context"
	"sort"
	"sync"
)

// MemoryStoreProvider is an in-memory StoreProvider implementation.
// Thread-safe for concurrent access. Suitable for tests and single-node
// deployments; use RedisStoreProvider when entries must survive restarts.
type MemoryStoreProvider struct {
	mu     sync.RWMutex
	stores map[string]*memoryStore
}

// NewMemoryStoreProvider creates an empty in-memory store provider.
func NewMemoryStoreProvider() *MemoryStoreProvider {
	return &MemoryStoreProvider{
		stores: make(map[string]*memoryStore),
	}
}

// Open returns the named store, creating it if needed.
func (p *MemoryStoreProvider) Open(name string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[name]; ok {
		return s
	}
	s := &memoryStore{
		name:    name,
		entries: make(map[string]*Entry),
	}
	p.stores[name] = s
	return s
}

// Names returns the names of all opened stores, sorted for determinism.
func (p *MemoryStoreProvider) Names(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.stores))
	for name := range p.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Drop removes a store and all of its entries.
func (p *MemoryStoreProvider) Drop(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.stores[name]; !ok {
		return ErrStoreNotFound
	}
	delete(p.stores, name)
	return nil
}

// memoryStore is one named in-memory store.
type memoryStore struct {
	name    string
	mu      sync.RWMutex
	entries map[string]*Entry
}

func (s *memoryStore) Name() string { return s.name }

func (s *memoryStore) Get(ctx context.Context, url string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[url]
	if !ok {
		return nil, ErrEntryNotFound
	}
	// Return a copy to avoid external modification
	return e.Clone(), nil
}

func (s *memoryStore) Put(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[e.URL] = e.Clone()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, url)
	return nil
}
