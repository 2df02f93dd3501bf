// Package store holds the key-value stores the application directory keeps
// its cache record in. Each subpackage implements the directory's Store
// contract: synchronous Get/Set that never fail from the caller's side.
// Backends that can fail (disk, database, network) log the failure and
// behave as if the value were absent or the write lost.
package store

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)
