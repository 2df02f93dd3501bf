package handlers

import (
	"net/http"

	"github.com/agentstation/appdirectory/internal/server/response"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// HandleListApps handles GET /api/v1/apps.
// @Summary List applications
// @Description Every application in catalog order
// @Tags apps
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/apps [get].
func (h *Handlers) HandleListApps(w http.ResponseWriter, r *http.Request) {
	catalog := h.dir.AllApps(r.Context())
	response.OK(w, map[string]any{
		"apps":  catalog,
		"count": len(catalog),
	})
}

// HandleGetApp handles GET /api/v1/apps/{name}.
// @Summary Get application
// @Description The first application whose name matches exactly
// @Tags apps
// @Produce json
// @Param name path string true "Application name"
// @Success 200 {object} response.Response{data=apps.Application}
// @Failure 404 {object} response.Response{error=response.Error}
// @Router /api/v1/apps/{name} [get].
func (h *Handlers) HandleGetApp(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ctx := logging.WithApp(r.Context(), name)

	app, ok := h.dir.AppByName(ctx, name)
	if !ok {
		response.ErrorFromType(w, errors.NewNotFoundError("app", name))
		return
	}
	response.OK(w, app)
}
