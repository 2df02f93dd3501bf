// Package app wires the appdir CLI: configuration, logging, the cache store,
// the catalog fetcher, metrics, the directory itself and the HTTP server.
// Construction happens in that order and only when a command needs it.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory"
	"github.com/agentstation/appdirectory/internal/config"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/fetch"
	"github.com/agentstation/appdirectory/pkg/logging"
	"github.com/agentstation/appdirectory/pkg/metrics"
	"github.com/agentstation/appdirectory/pkg/store"
)

// Service is a component with asynchronous setup.
type Service interface {
	Ready() <-chan struct{}
}

// flags holds the persistent command-line flags.
type flags struct {
	configFile string
	verbose    bool
	quiet      bool
	format     string
	logLevel   string
	sourceURL  string
}

// App holds the appdir dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	loader *config.Loader
	config *config.Config
	flags  flags
	logger *zerolog.Logger
	out    io.Writer

	mu       sync.Mutex
	dir      *appdirectory.Directory
	metrics  *metrics.Metrics
	closer   io.Closer
	services []Service
}

// New creates a new App with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) *App {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		loader:  config.NewLoader(),
		logger:  logging.Default(),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Option is a functional option for configuring the App.
type Option func(*App)

// WithConfig sets the configuration instead of loading it. An explicit
// --config flag still reloads from that file.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithOutput sets where command results are written.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration. It is nil until a command
// has started.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Metrics returns the metrics collector, or nil before Directory.
func (a *App) Metrics() *metrics.Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics
}

// Directory returns the application directory, building it and its store
// and fetcher on first use.
func (a *App) Directory(ctx context.Context) (*appdirectory.Directory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dir != nil {
		return a.dir, nil
	}
	if a.config == nil {
		return nil, errors.NewConfigError("", "configuration not loaded", nil)
	}
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	st, closer, err := store.Open(ctx, a.config.StoreOptions(), a.logger)
	if err != nil {
		return nil, errors.WrapResource("open", "store", a.config.Store.Backend, err)
	}

	auth, err := fetch.NewAuthenticator(a.config.Fetch.AuthScheme, a.config.Fetch.AuthName)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	fetcher := fetch.New(
		fetch.WithTimeout(a.config.Fetch.Timeout),
		fetch.WithRetries(a.config.Fetch.Retries),
		fetch.WithAPIKey(a.config.Fetch.APIKey),
		fetch.WithAuthenticator(auth),
		fetch.WithLogger(a.logger),
	)

	m := metrics.New()
	dir := appdirectory.New(a.config.SourceURL, st, fetcher,
		appdirectory.WithLogger(a.logger),
		appdirectory.WithReporter(appdirectory.MultiReporter(
			appdirectory.NewLogReporter(a.logger),
			m,
		)),
	)

	m.SetCatalogApps(dir.Cached().Len())

	a.logger.Debug().
		Str("backend", a.config.Store.Backend).
		Str("source_url", a.config.SourceURL).
		Msg("Application directory initialized")

	a.dir = dir
	a.metrics = m
	a.closer = closer
	return dir, nil
}

// register adds a service App.Ready waits for.
func (a *App) register(s Service) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.services = append(a.services, s)
}

// Ready blocks until every registered service is ready or ctx is done.
func (a *App) Ready(ctx context.Context) error {
	a.mu.Lock()
	services := append([]Service(nil), a.services...)
	a.mu.Unlock()

	for _, s := range services {
		select {
		case <-s.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// IsReady reports without blocking whether every registered service is
// ready.
func (a *App) IsReady() bool {
	a.mu.Lock()
	services := append([]Service(nil), a.services...)
	a.mu.Unlock()

	for _, s := range services {
		select {
		case <-s.Ready():
		default:
			return false
		}
	}
	return true
}

// Shutdown stops background refresh and releases the store.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	dir, closer := a.dir, a.closer
	a.dir, a.closer = nil, nil
	a.mu.Unlock()

	if dir != nil {
		dir.AutoRefreshOff()
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return errors.WrapResource("close", "store", "", err)
		}
	}
	return nil
}
