// Package handlers provides HTTP request handlers for the application
// directory API.
package handlers

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/appdirectory/pkg/apps"
)

// Directory is the read surface of the application directory the handlers
// serve.
type Directory interface {
	AllApps(ctx context.Context) apps.Catalog
	AppByName(ctx context.Context, name string) (apps.Application, bool)
	AppsByIntent(ctx context.Context, intent string) apps.Catalog
	AppIntentsByContext(ctx context.Context, contextType string) []apps.IntentGroup
	SourceURL() string
}

// ReadyFunc reports whether the service has finished starting up.
type ReadyFunc func() bool

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	dir     Directory
	ready   ReadyFunc
	logger  *zerolog.Logger
	version string
}

// New creates a new Handlers instance. A nil ready reports ready.
func New(dir Directory, ready ReadyFunc, logger *zerolog.Logger, version string) *Handlers {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Handlers{
		dir:     dir,
		ready:   ready,
		logger:  logger,
		version: version,
	}
}
