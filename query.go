package appdirectory

import (
	"context"

	"github.com/agentstation/appdirectory/internal/index"
	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// AppByName returns the first application whose name is exactly name. The
// boolean is false when no application matches.
func (d *Directory) AppByName(ctx context.Context, name string) (apps.Application, bool) {
	app, ok := d.AllApps(ctx).ByName(name)
	if !ok {
		logging.FromContext(logging.WithApp(ctx, name)).Debug().Msg("App not found in directory")
	}
	return app, ok
}

// AppsByIntent returns every application declaring an intent named intent,
// in catalog order. It returns an empty catalog when none do.
func (d *Directory) AppsByIntent(ctx context.Context, intent string) apps.Catalog {
	return index.ByIntent(d.AllApps(ctx), intent)
}

// AppIntentsByContext returns, for each intent that accepts contextType, the
// applications declaring it. Groups are sorted by intent name and
// applications keep catalog order. It returns an empty slice when nothing
// matches.
func (d *Directory) AppIntentsByContext(ctx context.Context, contextType string) []apps.IntentGroup {
	return index.ByContext(d.AllApps(ctx), contextType)
}

// Intents returns the distinct intent names declared in the catalog, sorted.
func (d *Directory) Intents(ctx context.Context) []string {
	return index.Intents(d.AllApps(ctx))
}
