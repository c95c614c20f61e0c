package cache

import (
	"context"
	"fmt"
)

// Background sync tags. Deferred work queued while offline is replayed
// under one of these tags once connectivity returns.
const (
	SyncTagBooking             = "booking-sync"
	SyncTagProviderApplication = "provider-sync"
)

// SyncCallback is invoked when a sync tag fires. Callbacks should be
// idempotent: a tag may fire more than once for the same queued work.
type SyncCallback func(ctx context.Context) error

// RegisterSync associates a callback with a sync tag. Multiple callbacks
// may be registered for the same tag; they run in registration order.
func (d *Dispatcher) RegisterSync(tag string, cb SyncCallback) {
	d.syncMu.Lock()
	defer d.syncMu.Unlock()
	d.syncCallbacks[tag] = append(d.syncCallbacks[tag], cb)
}

// TriggerSync fires all callbacks registered for the tag, collecting
// failures. A tag with no callbacks is a no-op, matching the behavior of
// a sync event arriving before any work was queued.
func (d *Dispatcher) TriggerSync(ctx context.Context, tag string) error {
	d.syncMu.RLock()
	callbacks := d.syncCallbacks[tag]
	d.syncMu.RUnlock()

	if len(callbacks) == 0 {
		d.logger.Debug("sync fired with no registered work", "tag", tag)
		return nil
	}

	var firstErr error
	for _, cb := range callbacks {
		if err := cb(ctx); err != nil {
			d.logger.Warn("sync callback failed", "tag", tag, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("sync %s: %w", tag, err)
			}
		}
	}
	return firstErr
}
