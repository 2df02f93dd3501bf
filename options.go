package appdirectory

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/constants"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// options holds the optional configuration of a Directory.
type options struct {
	logger     *zerolog.Logger
	reporter   Reporter
	urlKey     string
	catalogKey string
}

// Option configures a Directory.
type Option func(*options)

func defaults() *options {
	return &options{
		logger:     logging.Default(),
		urlKey:     constants.SourceURLKey,
		catalogKey: constants.CatalogKey,
	}
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	if o.reporter == nil {
		o.reporter = NewLogReporter(o.logger)
	}
	return o
}

// WithLogger sets the logger used for debug output and, unless WithReporter
// is also given, for reporting cache and refresh failures.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithReporter sets where cache corruption and refresh outcomes are reported.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithStoreKeys overrides the store keys holding the cached source URL and
// the cached catalog. Empty values keep the defaults.
func WithStoreKeys(urlKey, catalogKey string) Option {
	return func(o *options) {
		if urlKey != "" {
			o.urlKey = urlKey
		}
		if catalogKey != "" {
			o.catalogKey = catalogKey
		}
	}
}
