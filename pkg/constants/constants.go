// Package constants provides shared constants used throughout the application
// directory. This includes store keys, timeouts, limits, and file permissions
// that should be consistent across stores, fetchers, and the server.
package constants

import "time"

// Store keys for the two independently persisted halves of the cache record.
const (
	// SourceURLKey holds the URL the cached catalog was fetched from
	SourceURLKey = "appDirectoryUrl"

	// CatalogKey holds the JSON-encoded cached catalog
	CatalogKey = "appDirectory"

	// EmptyCatalog is the encoding persisted when a corrupt catalog is reset
	EmptyCatalog = "[]"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single catalog fetch attempt
	DefaultHTTPTimeout = 30 * time.Second

	// StoreTimeout bounds a single get/set against a networked store
	StoreTimeout = 5 * time.Second

	// DefaultRefreshInterval is the default interval between automatic refresh checks
	DefaultRefreshInterval = 5 * time.Minute

	// ShutdownTimeout is how long the server gets to drain on shutdown
	ShutdownTimeout = 5 * time.Second

	// RetryBackoff is the base backoff duration for fetch retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for fetch retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the default number of retry attempts for a failed fetch
	MaxRetries = 3

	// MaxCatalogBytes caps how much of a response body is read when decoding a catalog
	MaxCatalogBytes = 32 << 20
)
