package store

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
	"github.com/agentstation/appdirectory/pkg/store/file"
	"github.com/agentstation/appdirectory/pkg/store/memory"
	"github.com/agentstation/appdirectory/pkg/store/redis"
	"github.com/agentstation/appdirectory/pkg/store/sqlite"
)

// Store is the key-value contract every backend satisfies.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Config selects and configures a backend.
type Config struct {
	Backend string // memory, file, sqlite, redis
	Path    string // file and sqlite

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string // redis key prefix
}

// Open creates the backend named by cfg.Backend. The returned closer
// releases any connection the backend holds and is never nil.
func Open(ctx context.Context, cfg Config, logger *zerolog.Logger) (Store, io.Closer, error) {
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return memory.New(), nopCloser{}, nil

	case BackendFile:
		if cfg.Path == "" {
			return nil, nil, errors.NewValidationError("store.path", cfg.Path, "required for file backend")
		}
		return file.New(cfg.Path, file.WithLogger(logger)), nopCloser{}, nil

	case BackendSQLite:
		if cfg.Path == "" {
			return nil, nil, errors.NewValidationError("store.path", cfg.Path, "required for sqlite backend")
		}
		s, err := sqlite.Open(cfg.Path, sqlite.WithLogger(logger))
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, nil, errors.NewValidationError("store.redis_addr", cfg.RedisAddr, "required for redis backend")
		}
		opts := []redis.Option{redis.WithLogger(logger)}
		if cfg.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Prefix))
		}
		s, err := redis.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	default:
		return nil, nil, errors.NewValidationError("store.backend", cfg.Backend, "unknown backend")
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
