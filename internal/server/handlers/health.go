package handlers

import (
	"net/http"

	"github.com/agentstation/appdirectory/internal/server/response"
)

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "appdir",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready.
// @Summary Readiness check
// @Description Ready once startup has finished; reports the cached catalog size
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !h.ready() {
		response.ServiceUnavailable(w, "Application directory is starting")
		return
	}

	response.OK(w, map[string]any{
		"status":     "ready",
		"source_url": h.dir.SourceURL(),
		"apps":       len(h.dir.AllApps(r.Context())),
	})
}
