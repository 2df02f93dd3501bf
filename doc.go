// Package appdirectory provides the application directory: a catalog of
// registered applications and the intents they declare, cached in a local
// key-value store and refreshed from a remote source.
//
// The cache is authoritative until the configured source URL changes. When it
// does, the next read fetches the catalog from the new URL; if that fails the
// previous catalog keeps being served. Callers never see an error from the
// directory, only a catalog (possibly empty, possibly stale) or, for lookups
// by name, a not-found result.
//
// Example usage:
//
//	store := memory.New()
//	fetcher := fetch.NewHTTP()
//	dir := appdirectory.New("https://apps.example.com/v1/apps", store, fetcher,
//	    appdirectory.WithLogger(logging.Default()),
//	)
//
//	for _, group := range dir.AppIntentsByContext(ctx, "fdc3.instrument") {
//	    fmt.Println(group.Intent.Name, len(group.Apps))
//	}
package appdirectory
