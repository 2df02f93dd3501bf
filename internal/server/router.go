package server

import (
	"net/http"

	"github.com/agentstation/appdirectory/internal/server/handlers"
	"github.com/agentstation/appdirectory/internal/server/middleware"
	"github.com/agentstation/appdirectory/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.dir, s.ready, s.logger, s.version)
	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// return 204 to keep browsers from logging 404s
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /health", h.HandleHealth)
	if prefix != "" {
		mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	}
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	mux.HandleFunc("GET "+prefix+"/apps", h.HandleListApps)
	mux.HandleFunc("GET "+prefix+"/apps/{name}", h.HandleGetApp)
	mux.HandleFunc("GET "+prefix+"/intents/{intent}/apps", h.HandleAppsByIntent)
	mux.HandleFunc("GET "+prefix+"/contexts/{context}/intents", h.HandleIntentsByContext)

	if s.config.MetricsEnabled && s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	// everything else gets the JSON envelope instead of the plain text 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "No route for "+r.Method+" "+r.URL.Path)
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	// metrics must sit directly on the mux to see the matched route pattern
	if s.metrics != nil {
		handler = middleware.Metrics(s.metrics)(handler)
	}

	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		corsConfig.AllowedOrigins = s.config.CORSOrigins
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
