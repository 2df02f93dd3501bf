package appdirectory

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/errors"
)

// Directory holds the application catalog, its cache record in a Store, and
// the URL of the remote source it refreshes from.
//
// The catalog is replaced wholesale on every successful refresh and never
// modified in place. Concurrent stale reads each fetch independently; the
// last successful refresh wins.
type Directory struct {
	options *options
	store   Store
	fetcher Fetcher
	hooks   *hooks

	// mu guards the catalog, the configured URL, and the two store keys so a
	// catalog is never observable without the URL it came from.
	mu        sync.RWMutex
	catalog   apps.Catalog
	sourceURL string

	// auto refresh state
	refreshMu     sync.Mutex
	refreshTicker *time.Ticker
	refreshCancel context.CancelFunc
	refreshDone   chan struct{}
}

// New creates a Directory configured to refresh from sourceURL and seeds its
// catalog from store. It performs no network I/O and never fails: a missing
// cached catalog yields an empty one, and a corrupt cached catalog is
// reported, reset to empty, and the reset is written back to the store.
func New(sourceURL string, store Store, fetcher Fetcher, opts ...Option) *Directory {
	d := &Directory{
		options:   defaults().apply(opts...),
		store:     store,
		fetcher:   fetcher,
		hooks:     newHooks(),
		sourceURL: sourceURL,
	}
	d.catalog = d.load()

	d.options.logger.Debug().
		Str("source_url", sourceURL).
		Int("apps", len(d.catalog)).
		Msg("App directory loaded from cache")

	return d
}

// load reads the cached catalog from the store.
func (d *Directory) load() apps.Catalog {
	raw, ok := d.store.Get(d.options.catalogKey)
	if !ok {
		return apps.Catalog{}
	}

	catalog, err := apps.ParseString(raw)
	if err != nil {
		err = errors.WrapParse("json", "store key "+d.options.catalogKey, err)
		d.options.reporter.CacheCorrupted(d.options.catalogKey, err)

		empty, _ := apps.Encode(nil)
		d.store.Set(d.options.catalogKey, empty)
		return apps.Catalog{}
	}

	return catalog
}

// SourceURL returns the currently configured source URL.
func (d *Directory) SourceURL() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sourceURL
}

// SetSourceURL changes the configured source URL. The cached catalog stays in
// use until the next read notices the change and refreshes.
func (d *Directory) SetSourceURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sourceURL != url {
		d.options.logger.Info().
			Str("from", d.sourceURL).
			Str("to", url).
			Msg("App directory source URL changed")
	}
	d.sourceURL = url
}

// AllApps returns the catalog. If the store records that the cached catalog
// came from the configured URL, the cached catalog is returned without any
// network access. Otherwise the catalog is fetched from the configured URL;
// on success it replaces the cache, on failure the failure is reported and the
// current catalog is returned unchanged.
func (d *Directory) AllApps(ctx context.Context) apps.Catalog {
	d.mu.RLock()
	url := d.sourceURL
	cachedURL, ok := d.store.Get(d.options.urlKey)
	if ok && cachedURL == url {
		catalog := d.catalog.Clone()
		d.mu.RUnlock()
		return catalog
	}
	d.mu.RUnlock()

	return d.refresh(ctx, url)
}

// Cached returns the in-memory catalog without checking the source URL.
func (d *Directory) Cached() apps.Catalog {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.catalog.Clone()
}

// refresh fetches the catalog from url and installs it. It returns the
// catalog the caller should see, which is the current one on failure.
// A fetch, once issued, runs to completion or failure even if the caller
// gives up; only ctx values are carried over.
func (d *Directory) refresh(ctx context.Context, url string) apps.Catalog {
	logger := d.options.logger.With().Str("source_url", url).Logger()
	logger.Debug().Msg("Cached app directory is stale, refreshing")

	fresh, err := d.fetch(context.WithoutCancel(ctx), url)
	if err == nil {
		var encoded string
		if encoded, err = apps.Encode(fresh); err == nil {
			return d.install(url, fresh, encoded)
		}
	}

	d.options.reporter.RefreshFailed(url, err)
	return d.Cached()
}

// fetch requests and decodes the catalog at url.
func (d *Directory) fetch(ctx context.Context, url string) (apps.Catalog, error) {
	resp, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Close(); cerr != nil {
			d.options.logger.Debug().Err(cerr).Msg("Failed to close catalog response")
		}
	}()

	if !resp.OK() {
		return nil, errors.NewFetchError(url, resp.Status(), "non-success response", nil)
	}

	catalog, err := resp.Decode(ctx)
	if err != nil {
		return nil, errors.WrapParse("json", url, err)
	}
	return catalog, nil
}

// install replaces the catalog and writes both halves of the cache record.
func (d *Directory) install(url string, fresh apps.Catalog, encoded string) apps.Catalog {
	d.mu.Lock()
	previous := d.catalog
	d.catalog = fresh
	d.store.Set(d.options.catalogKey, encoded)
	d.store.Set(d.options.urlKey, url)
	d.mu.Unlock()

	d.options.reporter.RefreshSucceeded(url, len(fresh))
	d.hooks.triggerCatalogUpdate(previous.Clone(), fresh.Clone())

	return fresh.Clone()
}
