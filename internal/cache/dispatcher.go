// Package cache implements the offline caching layer for the app shell:
// two named durable stores (static and runtime), a request classifier
// driven by a data manifest, and the four caching strategies that decide
// how each request class is satisfied from network versus cache.
//
// The dispatcher is the single entry point: every outbound resource
// request from the shell goes through Dispatcher.Do, which classifies the
// request and executes the matching strategy. Strategies are documented on
// their methods in strategy.go.
//
// No cross-request ordering is guaranteed or required. All store mutations
// are whole-entry replace-by-key, so concurrent refreshes of the same URL
// are last-write-wins, which is acceptable because entries are idempotent
// representations of the same resource.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// Fetcher performs a single network fetch for a request. One attempt per
// strategy invocation; retries and backoff are deliberately absent.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Entry, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req Request) (*Entry, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, req Request) (*Entry, error) {
	return f(ctx, req)
}

// HTTPFetcher is the production Fetcher backed by an *http.Client. Wrap
// the client's transport with otelhttp to get traced outbound fetches.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a Fetcher around the given client. A nil client
// uses http.DefaultClient.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{client: client}
}

// Fetch issues the request and drains the response into an Entry.
func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (*Entry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building fetch request for %s: %w", req.URL, err)
	}
	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.URL, err)
	}
	return EntryFromResponse(req.URL, resp)
}

// Config holds the dispatcher's dependencies.
type Config struct {
	// Stores is the durable cache backend.
	Stores StoreProvider

	// Fetcher performs network fetches.
	Fetcher Fetcher

	// Manifest drives precaching and request classification.
	// Nil uses the default manifest.
	Manifest *Manifest

	// Origin is the app shell's own origin, e.g. "https://jaldikaro.example".
	// Relative precache paths are resolved against it during Install.
	Origin string

	// Logger for strategy decisions and best-effort failures.
	// Nil uses slog.Default.
	Logger *slog.Logger

	// Metrics is optional; nil disables metric recording.
	Metrics *Metrics
}

// Dispatcher intercepts resource requests and satisfies them via the
// strategy matching their class, maintaining the static and runtime
// stores. Construct with NewDispatcher and share freely: all methods are
// safe for concurrent use.
type Dispatcher struct {
	static     Store
	runtime    Store
	stores     StoreProvider
	fetcher    Fetcher
	classifier *Classifier
	manifest   *Manifest
	origin     string
	logger     *slog.Logger
	metrics    *Metrics

	// revalidations tracks in-flight stale-while-revalidate refreshes so
	// shutdown can drain them.
	revalidations sync.WaitGroup

	syncMu        sync.RWMutex
	syncCallbacks map[string][]SyncCallback
}

// NewDispatcher creates a dispatcher with its two versioned stores opened
// from the provider.
func NewDispatcher(cfg Config) *Dispatcher {
	manifest := cfg.Manifest
	if manifest == nil {
		manifest = DefaultManifest()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		static:        cfg.Stores.Open(StaticStoreName(manifest.Version)),
		runtime:       cfg.Stores.Open(RuntimeStoreName(manifest.Version)),
		stores:        cfg.Stores,
		fetcher:       cfg.Fetcher,
		classifier:    NewClassifier(manifest),
		manifest:      manifest,
		origin:        cfg.Origin,
		logger:        logger,
		metrics:       cfg.Metrics,
		syncCallbacks: make(map[string][]SyncCallback),
	}
}

// StaticStore returns the current static store.
func (d *Dispatcher) StaticStore() Store { return d.static }

// RuntimeStore returns the current runtime store.
func (d *Dispatcher) RuntimeStore() Store { return d.runtime }

// Do classifies the request and executes the matching strategy, returning
// the response entry. The error is non-nil only when both network and
// cache failed and no synthesized fallback applies.
func (d *Dispatcher) Do(ctx context.Context, req Request) (*Entry, error) {
	class := d.classifier.Classify(req)
	d.metrics.recordRequest(class)

	switch class {
	case ClassNavigation:
		return d.navigation(ctx, req)
	case ClassStatic:
		return d.cacheFirst(ctx, req)
	case ClassCDN:
		return d.staleWhileRevalidate(ctx, req)
	default:
		// API endpoints and everything unclassified are network-first.
		return d.networkFirst(ctx, req, class)
	}
}

// Flush waits for all in-flight background revalidations to finish. Call
// during shutdown so fire-and-forget refreshes are not abandoned mid-write.
func (d *Dispatcher) Flush() {
	d.revalidations.Wait()
}

// put writes an entry into a store, best-effort: quota or backend failures
// are logged and counted, never surfaced to the caller.
func (d *Dispatcher) put(ctx context.Context, store Store, e *Entry) {
	if err := store.Put(ctx, e); err != nil {
		d.metrics.recordWriteFailure(store.Name())
		d.logger.Warn("cache write failed",
			"store", store.Name(),
			"url", e.URL,
			"error", err)
	}
}
