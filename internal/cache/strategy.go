package cache

import (
	"context"
	"errors"
)

// networkFirst attempts the network, caching successful responses into the
// runtime store. On network failure it falls back to the runtime store by
// exact URL; if no entry exists the original failure is returned.
func (d *Dispatcher) networkFirst(ctx context.Context, req Request, class Class) (*Entry, error) {
	entry, err := d.fetcher.Fetch(ctx, req)
	if err == nil {
		if entry.OK() {
			d.put(ctx, d.runtime, entry)
		}
		return entry, nil
	}

	d.metrics.recordNetworkFailure(class)
	d.logger.Debug("network failed, trying cache", "url", req.URL, "error", err)

	cached, cacheErr := d.runtime.Get(ctx, req.URL)
	if cacheErr == nil {
		d.metrics.recordHit(class, d.runtime.Name())
		return cached, nil
	}
	d.metrics.recordMiss(class, d.runtime.Name())

	return nil, err
}

// cacheFirst serves local static assets from the static store, fetching
// and populating it only on a miss. A matching entry never touches the
// network. Network failures on a miss are propagated.
func (d *Dispatcher) cacheFirst(ctx context.Context, req Request) (*Entry, error) {
	cached, err := d.static.Get(ctx, req.URL)
	if err == nil {
		d.metrics.recordHit(ClassStatic, d.static.Name())
		return cached, nil
	}
	if !errors.Is(err, ErrEntryNotFound) {
		d.logger.Warn("static store lookup failed", "url", req.URL, "error", err)
	}
	d.metrics.recordMiss(ClassStatic, d.static.Name())

	entry, err := d.fetcher.Fetch(ctx, req)
	if err != nil {
		d.metrics.recordNetworkFailure(ClassStatic)
		return nil, err
	}
	if entry.OK() {
		d.put(ctx, d.static, entry)
	}
	return entry, nil
}

// staleWhileRevalidate returns a cached runtime entry immediately while a
// background fetch refreshes the store for next time. The refresh is fire
// and forget: the caller never waits on it, and a failed refresh leaves
// the stale entry in place. On a miss the network fetch is awaited.
func (d *Dispatcher) staleWhileRevalidate(ctx context.Context, req Request) (*Entry, error) {
	cached, err := d.runtime.Get(ctx, req.URL)
	if err == nil {
		d.metrics.recordHit(ClassCDN, d.runtime.Name())
		d.revalidate(ctx, req)
		return cached, nil
	}
	d.metrics.recordMiss(ClassCDN, d.runtime.Name())

	entry, err := d.fetcher.Fetch(ctx, req)
	if err != nil {
		d.metrics.recordNetworkFailure(ClassCDN)
		return nil, err
	}
	if entry.OK() {
		d.put(ctx, d.runtime, entry)
	}
	return entry, nil
}

// revalidate refreshes a runtime entry in the background. The refresh
// outlives the request that triggered it, so it runs on a context detached
// from the caller's cancellation.
func (d *Dispatcher) revalidate(ctx context.Context, req Request) {
	bgCtx := context.WithoutCancel(ctx)
	d.revalidations.Add(1)
	go func() {
		defer d.revalidations.Done()

		entry, err := d.fetcher.Fetch(bgCtx, req)
		if err != nil {
			d.metrics.recordNetworkFailure(ClassCDN)
			d.logger.Debug("background revalidation failed", "url", req.URL, "error", err)
			return
		}
		if entry.OK() {
			d.put(bgCtx, d.runtime, entry)
		}
	}()
}

// navigation handles full-page loads: network-first with a cached app
// shell as the second choice and the synthesized offline page as the
// guaranteed last resort. Navigation never returns an error.
func (d *Dispatcher) navigation(ctx context.Context, req Request) (*Entry, error) {
	entry, err := d.fetcher.Fetch(ctx, req)
	if err == nil {
		if entry.OK() {
			d.put(ctx, d.runtime, entry)
		}
		return entry, nil
	}

	d.metrics.recordNetworkFailure(ClassNavigation)
	d.logger.Debug("navigation network failed, trying cache", "url", req.URL, "error", err)

	if cached, cacheErr := d.runtime.Get(ctx, req.URL); cacheErr == nil {
		d.metrics.recordHit(ClassNavigation, d.runtime.Name())
		return cached, nil
	}

	// Fall back to the cached app shell before synthesizing anything.
	for _, shell := range []string{d.origin + "/index.html", d.origin + "/"} {
		if cached, cacheErr := d.static.Get(ctx, shell); cacheErr == nil {
			d.metrics.recordHit(ClassNavigation, d.static.Name())
			return cached, nil
		}
	}

	d.metrics.recordOfflinePage()
	return OfflineEntry(req.URL), nil
}
