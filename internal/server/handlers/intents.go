package handlers

import (
	"net/http"

	"github.com/agentstation/appdirectory/internal/server/response"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// HandleAppsByIntent handles GET /api/v1/intents/{intent}/apps.
// @Summary Applications for an intent
// @Description Applications declaring the intent, in catalog order
// @Tags intents
// @Produce json
// @Param intent path string true "Intent name"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/intents/{intent}/apps [get].
func (h *Handlers) HandleAppsByIntent(w http.ResponseWriter, r *http.Request) {
	intent := r.PathValue("intent")
	catalog := h.dir.AppsByIntent(logging.WithIntent(r.Context(), intent), intent)

	response.OK(w, map[string]any{
		"intent": intent,
		"apps":   catalog,
		"count":  len(catalog),
	})
}

// HandleIntentsByContext handles GET /api/v1/contexts/{context}/intents.
// @Summary Intents for a context
// @Description Intents accepting the context type, each with its applications, sorted by intent name
// @Tags intents
// @Produce json
// @Param context path string true "Context type"
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/contexts/{context}/intents [get].
func (h *Handlers) HandleIntentsByContext(w http.ResponseWriter, r *http.Request) {
	contextType := r.PathValue("context")
	groups := h.dir.AppIntentsByContext(logging.WithContextType(r.Context(), contextType), contextType)

	response.OK(w, map[string]any{
		"context": contextType,
		"intents": groups,
		"count":   len(groups),
	})
}
