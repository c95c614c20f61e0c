package cache

import (
	"context"
	"strings"
)

// Install precaches the manifest's asset list into the static store.
// Cross-origin manifest entries are skipped: they are picked up lazily by
// the stale-while-revalidate path on first use instead. Individual fetch
// failures abort the install so a partial shell is never reported as
// installed.
func (d *Dispatcher) Install(ctx context.Context) error {
	for _, path := range d.manifest.Precache {
		if strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
			d.logger.Debug("skipping cross-origin precache entry", "url", path)
			continue
		}

		req := Request{URL: d.origin + path}
		entry, err := d.fetcher.Fetch(ctx, req)
		if err != nil {
			return err
		}
		if !entry.OK() {
			d.logger.Warn("precache fetch returned non-success, skipping",
				"url", req.URL, "status", entry.Status)
			continue
		}
		if err := d.static.Put(ctx, entry); err != nil {
			return err
		}
	}

	d.logger.Info("install complete",
		"store", d.static.Name(),
		"assets", len(d.manifest.Precache))
	return nil
}

// Activate garbage-collects stores left behind by previous versions:
// every store whose name is not one of the current two is dropped.
// Stores that vanish concurrently are ignored.
func (d *Dispatcher) Activate(ctx context.Context) error {
	names, err := d.stores.Names(ctx)
	if err != nil {
		return err
	}

	keep := map[string]bool{
		d.static.Name():  true,
		d.runtime.Name(): true,
	}

	for _, name := range names {
		if keep[name] {
			continue
		}
		d.logger.Info("dropping stale cache store", "store", name)
		if err := d.stores.Drop(ctx, name); err != nil && err != ErrStoreNotFound {
			return err
		}
	}
	return nil
}
