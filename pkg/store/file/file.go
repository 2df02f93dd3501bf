// Package file provides a key-value store persisted as a single YAML
// document on disk. Every Set rewrites the document through a temporary file
// and rename, so a crash leaves either the old or the new document.
package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/constants"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// Store is a YAML-file-backed key-value store.
type Store struct {
	path   string
	logger *zerolog.Logger

	mu     sync.RWMutex
	values map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report I/O failures.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New opens the store at path. A missing file is an empty store. An
// unreadable or undecodable file is logged and treated as empty; the next Set
// replaces it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: logging.Default(),
		values: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.read(); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Ignoring unreadable store file")
	}
	return s
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and rewrites the file. A failed write is logged;
// the value stays visible to this process.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	if err := s.write(); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Str("key", key).Msg("Failed to persist store file")
	}
}

func (s *Store) read() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapIO("read", s.path, err)
	}

	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}
	if values != nil {
		s.values = values
	}
	return nil
}

func (s *Store) write() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return errors.WrapParse("yaml", s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}
