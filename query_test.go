package appdirectory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/constants"
)

func freshDirectory(t *testing.T, catalog string) (*Directory, *testFetcher) {
	t.Helper()
	store := newTestStore(map[string]string{
		constants.CatalogKey:   catalog,
		constants.SourceURLKey: testURL,
	})
	fetcher := catalogFetcher(`[]`)
	d, _ := newTestDirectory(t, testURL, store, fetcher)
	return d, fetcher
}

func names(catalog []apps.Application) []string {
	out := make([]string, 0, len(catalog))
	for _, app := range catalog {
		out = append(out, app.Name)
	}
	return out
}

func TestAppByName(t *testing.T) {
	d, fetcher := freshDirectory(t, catalogAB)
	ctx := context.Background()

	app, ok := d.AppByName(ctx, "B")
	require.True(t, ok)
	assert.Equal(t, "b", app.AppID)

	_, ok = d.AppByName(ctx, "b")
	assert.False(t, ok, "names match exactly")

	_, ok = d.AppByName(ctx, "Z")
	assert.False(t, ok)

	assert.Zero(t, fetcher.count())
}

func TestAppByName_FirstMatchWins(t *testing.T) {
	d, _ := freshDirectory(t, `[
		{"appId":"first","name":"Dup","intents":[]},
		{"appId":"second","name":"Dup","intents":[]}
	]`)

	app, ok := d.AppByName(context.Background(), "Dup")
	require.True(t, ok)
	assert.Equal(t, "first", app.AppID)
}

func TestAppByName_EmptyCatalog(t *testing.T) {
	d, _ := newTestDirectory(t, testURL, newTestStore(nil), &testFetcher{err: errNetwork})

	_, ok := d.AppByName(context.Background(), "A")
	assert.False(t, ok)
}

func TestAppsByIntent(t *testing.T) {
	d, _ := freshDirectory(t, catalogAB)
	ctx := context.Background()

	assert.Equal(t, []string{"A", "B"}, names(d.AppsByIntent(ctx, "StartChat")))
	assert.Equal(t, []string{"A"}, names(d.AppsByIntent(ctx, "SendEmail")))
	assert.Equal(t, []string{"B"}, names(d.AppsByIntent(ctx, "ShowChart")))

	none := d.AppsByIntent(ctx, "ViewNews")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAppIntentsByContext(t *testing.T) {
	d, _ := freshDirectory(t, catalogAB)
	ctx := context.Background()

	groups := d.AppIntentsByContext(ctx, "fdc3.contact")
	require.Len(t, groups, 2)
	assert.Equal(t, apps.IntentRef{Name: "SendEmail", DisplayName: "SendEmail"}, groups[0].Intent)
	assert.Equal(t, []string{"A"}, names(groups[0].Apps))
	assert.Equal(t, apps.IntentRef{Name: "StartChat", DisplayName: "StartChat"}, groups[1].Intent)
	assert.Equal(t, []string{"A", "B"}, names(groups[1].Apps))

	groups = d.AppIntentsByContext(ctx, "fdc3.instrument")
	require.Len(t, groups, 2)
	assert.Equal(t, "ShowChart", groups[0].Intent.Name)
	assert.Equal(t, []string{"B"}, names(groups[0].Apps))
	assert.Equal(t, "StartChat", groups[1].Intent.Name)
	assert.Equal(t, []string{"A"}, names(groups[1].Apps))

	none := d.AppIntentsByContext(ctx, "fdc3.unknown")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestQueries_RefreshWhenStale(t *testing.T) {
	store := newTestStore(nil)
	fetcher := catalogFetcher(catalogAB)
	d, _ := newTestDirectory(t, testURL, store, fetcher)

	assert.Equal(t, []string{"A", "B"}, names(d.AppsByIntent(context.Background(), "StartChat")))
	assert.Equal(t, 1, fetcher.count())

	assert.Equal(t, []string{"SendEmail", "ShowChart", "StartChat"}, d.Intents(context.Background()))
	assert.Equal(t, 1, fetcher.count())
}
