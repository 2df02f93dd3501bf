// Package sqlite provides a key-value store persisted in a SQLite database
// through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/constants"
	pkgerrors "github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed key-value store.
type Store struct {
	db     *sql.DB
	owned  bool
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report query failures.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens (creating if needed) the database file at path and prepares the
// key-value table. The returned store owns the connection; Close releases it.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, pkgerrors.WrapIO("create", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, pkgerrors.WrapResource("open", "store", path, err)
	}
	// a single connection serializes writers and keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New wraps an existing database handle and prepares the key-value table.
// The caller keeps ownership of db.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.migrate(); err != nil {
		return nil, pkgerrors.WrapResource("migrate", "store", "sqlite", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL
    );`
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Get returns the value stored under key. Query failures are logged and
// reported as a missing value.
func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to read from sqlite store")
		}
		return "", false
	}
	return value, true
}

// Set stores value under key. Write failures are logged.
func (s *Store) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()

	query := `
        INSERT INTO kv (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to write to sqlite store")
	}
}

// Close releases the database if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
