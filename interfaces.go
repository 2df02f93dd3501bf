package appdirectory

import (
	"context"

	"github.com/agentstation/appdirectory/pkg/apps"
)

// Store is a synchronous string key-value store that survives restarts.
// Implementations absorb their own failures: Get reports a missing value as
// absent and Set never fails from the caller's point of view.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Fetcher requests a catalog from a remote source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Response, error)
}

// Response is the result of a Fetch.
type Response interface {
	// OK reports whether the response carries a success status.
	OK() bool

	// Status returns the transport status code, for diagnostics.
	Status() int

	// Decode reads the body as a JSON catalog.
	Decode(ctx context.Context) (apps.Catalog, error)

	// Close releases the response body.
	Close() error
}
