// Package server provides the HTTP read API for the application directory.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/internal/server/handlers"
	"github.com/agentstation/appdirectory/pkg/constants"
	pkgerrors "github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
	"github.com/agentstation/appdirectory/pkg/metrics"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	dir     handlers.Directory
	config  Config
	logger  *zerolog.Logger
	metrics *metrics.Metrics
	ready   handlers.ReadyFunc
	version string

	mu        sync.Mutex
	addr      net.Addr
	listening chan struct{}
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records request metrics and serves them at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithReadyFunc sets the readiness check behind the ready endpoint.
func WithReadyFunc(fn handlers.ReadyFunc) Option {
	return func(s *Server) {
		s.ready = fn
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a new server instance with the given configuration.
func New(dir handlers.Directory, cfg Config, opts ...Option) *Server {
	cfg.PathPrefix = strings.TrimRight(cfg.PathPrefix, "/")

	s := &Server{
		dir:       dir,
		config:    cfg,
		logger:    logging.Default(),
		version:   "dev",
		listening: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Ready is closed once the server is accepting connections.
func (s *Server) Ready() <-chan struct{} {
	return s.listening
}

// Addr returns the address the server listens on, or nil before Ready.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// StartTime returns when the server started listening.
func (s *Server) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// ListenAndServe serves the API until ctx is canceled, then shuts down
// gracefully within constants.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	address := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return pkgerrors.WrapResource("listen", "server", address, err)
	}

	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.startTime = time.Now()
	s.mu.Unlock()
	close(s.listening)

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Str("prefix", s.config.PathPrefix).
		Msg("Application directory API listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("Shutting down application directory API")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pkgerrors.WrapResource("shutdown", "server", address, err)
	}
	return nil
}
