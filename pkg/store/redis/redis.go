// Package redis provides a key-value store backed by a Redis server. Keys are
// namespaced with a configurable prefix so several directories can share one
// server.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/constants"
	pkgerrors "github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// DefaultPrefix namespaces directory keys when no prefix is configured.
const DefaultPrefix = "appdir:"

// Store is a Redis-backed key-value store.
type Store struct {
	client *goredis.Client
	owned  bool
	prefix string
	logger *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLogger sets the logger used to report command failures.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps an existing client. The caller keeps ownership of client.
func New(client *goredis.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: DefaultPrefix,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to the server at addr and verifies it with PING. The returned
// store owns the client; Close releases it.
func Dial(ctx context.Context, addr, password string, db int, opts ...Option) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, constants.StoreTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, pkgerrors.WrapResource("connect", "store", addr, err)
	}

	s := New(client, opts...)
	s.owned = true
	return s, nil
}

// Get returns the value stored under key. Command failures are logged and
// reported as a missing value.
func (s *Store) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()

	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logger.Error().Err(err).Str("key", s.prefix+key).Msg("Failed to read from redis store")
		}
		return "", false
	}
	return v, true
}

// Set stores value under key without expiry. Command failures are logged.
func (s *Store) Set(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", s.prefix+key).Msg("Failed to write to redis store")
	}
}

// Close releases the client if the store created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
