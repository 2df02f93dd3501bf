package appdirectory

import (
	"reflect"
	"sync"

	"github.com/agentstation/appdirectory/pkg/apps"
)

// Hook function types for catalog change events
type (
	// AppAddedHook is called when a refresh adds an application
	AppAddedHook func(app apps.Application)

	// AppUpdatedHook is called when a refresh changes an application
	AppUpdatedHook func(old, new apps.Application)

	// AppRemovedHook is called when a refresh drops an application
	AppRemovedHook func(app apps.Application)
)

// hooks manages event callbacks for catalog changes
type hooks struct {
	mu           sync.RWMutex
	onAppAdded   []AppAddedHook
	onAppUpdated []AppUpdatedHook
	onAppRemoved []AppRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnAppAdded registers a callback for applications added by a refresh.
func (d *Directory) OnAppAdded(fn AppAddedHook) {
	d.hooks.mu.Lock()
	defer d.hooks.mu.Unlock()
	d.hooks.onAppAdded = append(d.hooks.onAppAdded, fn)
}

// OnAppUpdated registers a callback for applications changed by a refresh.
func (d *Directory) OnAppUpdated(fn AppUpdatedHook) {
	d.hooks.mu.Lock()
	defer d.hooks.mu.Unlock()
	d.hooks.onAppUpdated = append(d.hooks.onAppUpdated, fn)
}

// OnAppRemoved registers a callback for applications removed by a refresh.
func (d *Directory) OnAppRemoved(fn AppRemovedHook) {
	d.hooks.mu.Lock()
	defer d.hooks.mu.Unlock()
	d.hooks.onAppRemoved = append(d.hooks.onAppRemoved, fn)
}

// triggerCatalogUpdate compares old and new catalogs by appId and triggers
// the matching hooks. Hooks run in catalog order: additions and updates in
// the order of the new catalog, removals in the order of the old one.
func (h *hooks) triggerCatalogUpdate(oldCatalog, newCatalog apps.Catalog) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onAppAdded)+len(h.onAppUpdated)+len(h.onAppRemoved) == 0 {
		return
	}

	oldApps := make(map[string]apps.Application, len(oldCatalog))
	for _, app := range oldCatalog {
		oldApps[app.AppID] = app
	}

	newApps := make(map[string]apps.Application, len(newCatalog))
	for _, app := range newCatalog {
		newApps[app.AppID] = app
	}

	for _, app := range newCatalog {
		old, exists := oldApps[app.AppID]
		if !exists {
			for _, hook := range h.onAppAdded {
				hook(app)
			}
			continue
		}
		if !reflect.DeepEqual(old, app) {
			for _, hook := range h.onAppUpdated {
				hook(old, app)
			}
		}
	}

	for _, app := range oldCatalog {
		if _, exists := newApps[app.AppID]; !exists {
			for _, hook := range h.onAppRemoved {
				hook(app)
			}
		}
	}
}
