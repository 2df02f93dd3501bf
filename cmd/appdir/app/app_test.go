package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/appdirectory/internal/config"
	"github.com/agentstation/appdirectory/pkg/apps"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

const catalogJSON = `[
  {"appId":"a","name":"A","manifest":"","manifestType":"",
   "intents":[{"name":"SendEmail","contexts":["contact"]},{"name":"StartChat","contexts":["contact","instrument"]}]},
  {"appId":"b","name":"B","manifest":"","manifestType":"",
   "intents":[{"name":"StartChat","contexts":["contact"]},{"name":"ShowChart","contexts":["instrument"]}]}
]`

// catalogServer serves catalogJSON and counts requests.
func catalogServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogJSON))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfig(sourceURL string) *config.Config {
	return &config.Config{
		SourceURL: sourceURL,
		Store:     config.StoreConfig{Backend: "memory"},
		Fetch:     config.FetchConfig{Timeout: 5 * time.Second},
		Server:    config.ServerConfig{Host: "127.0.0.1", PathPrefix: "/api/v1"},
		Log:       config.LogConfig{Level: "error", Format: "json", Output: "discard"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := New("1.2.3", "abc123", "2026-01-01", "test",
		WithConfig(cfg),
		WithOutput(&out),
		WithLogger(logging.NewNopLogger()),
	)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a, &out
}

func TestApp_New(t *testing.T) {
	cfg := testConfig("http://example.invalid")
	a, _ := newTestApp(t, cfg)

	assert.Equal(t, "1.2.3", a.Version())
	assert.Same(t, cfg, a.Config())
	assert.NotNil(t, a.Logger())
	assert.Nil(t, a.Metrics())
}

func TestApp_Directory_Singleton(t *testing.T) {
	srv, _ := catalogServer(t)
	a, _ := newTestApp(t, testConfig(srv.URL))

	d1, err := a.Directory(context.Background())
	require.NoError(t, err)
	d2, err := a.Directory(context.Background())
	require.NoError(t, err)

	assert.Same(t, d1, d2)
	assert.NotNil(t, a.Metrics())
}

func TestApp_Directory_SeedsCatalogGaugeFromCache(t *testing.T) {
	srv, calls := catalogServer(t)
	cfg := testConfig(srv.URL)
	cfg.Store = config.StoreConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "store.yaml")}

	first, _ := newTestApp(t, cfg)
	dir, err := first.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, dir.AllApps(context.Background()), 2)
	require.NoError(t, first.Shutdown(context.Background()))

	second, _ := newTestApp(t, cfg)
	_, err = second.Directory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(second.Metrics().CatalogApps))
	assert.Equal(t, int32(1), calls.Load())
}

func TestApp_Directory_InvalidConfig(t *testing.T) {
	a, _ := newTestApp(t, testConfig(""))

	_, err := a.Directory(context.Background())
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestApp_Directory_AuthScheme(t *testing.T) {
	tests := []struct {
		name   string
		scheme string
		check  func(t *testing.T, r *http.Request)
	}{
		{name: "bearer", scheme: "bearer", check: func(t *testing.T, r *http.Request) {
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		}},
		{name: "header", scheme: "header", check: func(t *testing.T, r *http.Request) {
			assert.Equal(t, "secret", r.Header.Get("X-Directory-Key"))
			assert.Empty(t, r.Header.Get("Authorization"))
		}},
		{name: "query", scheme: "query", check: func(t *testing.T, r *http.Request) {
			assert.Equal(t, "secret", r.URL.Query().Get("X-Directory-Key"))
		}},
		{name: "none", scheme: "none", check: func(t *testing.T, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			assert.Empty(t, r.URL.RawQuery)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(chan *http.Request, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen <- r.Clone(context.Background())
				_, _ = w.Write([]byte(catalogJSON))
			}))
			defer srv.Close()

			cfg := testConfig(srv.URL)
			cfg.Fetch.APIKey = "secret"
			cfg.Fetch.AuthScheme = tt.scheme
			cfg.Fetch.AuthName = "X-Directory-Key"
			a, _ := newTestApp(t, cfg)

			dir, err := a.Directory(context.Background())
			require.NoError(t, err)
			require.Len(t, dir.AllApps(context.Background()), 2)
			tt.check(t, <-seen)
		})
	}
}

func TestCommand_AppsJSON(t *testing.T) {
	srv, calls := catalogServer(t)
	a, out := newTestApp(t, testConfig(srv.URL))

	require.NoError(t, a.Execute(context.Background(), []string{"apps", "-o", "json"}))

	var catalog apps.Catalog
	require.NoError(t, json.Unmarshal(out.Bytes(), &catalog))
	require.Len(t, catalog, 2)
	assert.Equal(t, "A", catalog[0].Name)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCommand_AppsTable(t *testing.T) {
	srv, _ := catalogServer(t)
	a, out := newTestApp(t, testConfig(srv.URL))

	require.NoError(t, a.Execute(context.Background(), []string{"apps", "--format", "table"}))
	assert.Contains(t, out.String(), "SendEmail, StartChat")
}

func TestCommand_AppsNameFilter(t *testing.T) {
	srv, _ := catalogServer(t)

	t.Run("glob", func(t *testing.T) {
		a, out := newTestApp(t, testConfig(srv.URL))
		require.NoError(t, a.Execute(context.Background(), []string{"apps", "--name", "b", "-i", "-o", "json"}))

		var catalog apps.Catalog
		require.NoError(t, json.Unmarshal(out.Bytes(), &catalog))
		require.Len(t, catalog, 1)
		assert.Equal(t, "B", catalog[0].Name)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		a, _ := newTestApp(t, testConfig(srv.URL))
		err := a.Execute(context.Background(), []string{"apps", "--name", "["})
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestCommand_App(t *testing.T) {
	srv, _ := catalogServer(t)

	t.Run("found", func(t *testing.T) {
		a, out := newTestApp(t, testConfig(srv.URL))
		require.NoError(t, a.Execute(context.Background(), []string{"app", "B", "-o", "yaml"}))
		assert.Contains(t, out.String(), "appId: b")
	})

	t.Run("not found", func(t *testing.T) {
		a, _ := newTestApp(t, testConfig(srv.URL))
		err := a.Execute(context.Background(), []string{"app", "Z"})
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestCommand_Intent(t *testing.T) {
	srv, _ := catalogServer(t)
	a, out := newTestApp(t, testConfig(srv.URL))

	require.NoError(t, a.Execute(context.Background(), []string{"intent", "StartChat", "-o", "json"}))

	var catalog apps.Catalog
	require.NoError(t, json.Unmarshal(out.Bytes(), &catalog))
	require.Len(t, catalog, 2)
	assert.Equal(t, "A", catalog[0].Name)
	assert.Equal(t, "B", catalog[1].Name)
}

func TestCommand_Intents(t *testing.T) {
	srv, _ := catalogServer(t)
	a, out := newTestApp(t, testConfig(srv.URL))

	require.NoError(t, a.Execute(context.Background(), []string{"intents", "-o", "json"}))

	var names []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &names))
	assert.Equal(t, []string{"SendEmail", "ShowChart", "StartChat"}, names)
}

func TestCommand_Context(t *testing.T) {
	srv, _ := catalogServer(t)
	a, out := newTestApp(t, testConfig(srv.URL))

	require.NoError(t, a.Execute(context.Background(), []string{"context", "instrument", "-o", "json"}))

	var groups []apps.IntentGroup
	require.NoError(t, json.Unmarshal(out.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "ShowChart", groups[0].Intent.Name)
	assert.Equal(t, "StartChat", groups[1].Intent.Name)
	require.Len(t, groups[1].Apps, 1)
	assert.Equal(t, "A", groups[1].Apps[0].Name)
}

func TestCommand_SourceURLFlag(t *testing.T) {
	srv, calls := catalogServer(t)
	a, out := newTestApp(t, testConfig("http://example.invalid"))

	require.NoError(t, a.Execute(context.Background(), []string{"apps", "-o", "json", "--source-url", srv.URL}))
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, out.String(), `"appId": "a"`)
}

func TestCommand_UnreachableSourceReturnsEmpty(t *testing.T) {
	srv, _ := catalogServer(t)
	url := srv.URL
	srv.Close()

	cfg := testConfig(url)
	a, out := newTestApp(t, cfg)

	require.NoError(t, a.Execute(context.Background(), []string{"apps", "-o", "json"}))
	assert.JSONEq(t, `[]`, out.String())
}

func TestCommand_InvalidFormat(t *testing.T) {
	a, _ := newTestApp(t, testConfig("http://example.invalid"))

	err := a.Execute(context.Background(), []string{"apps", "-o", "csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestCommand_MissingConfigFile(t *testing.T) {
	a, _ := newTestApp(t, testConfig("http://example.invalid"))

	err := a.Execute(context.Background(), []string{"apps", "--config", t.TempDir() + "/missing.yaml"})
	require.Error(t, err)

	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestCommand_Version(t *testing.T) {
	a, out := newTestApp(t, testConfig(""))

	require.NoError(t, a.Execute(context.Background(), []string{"version", "-v"}))
	assert.Contains(t, out.String(), "appdir 1.2.3")
	assert.Contains(t, out.String(), "commit:   abc123")
}

func TestApp_Ready_NoServices(t *testing.T) {
	a, _ := newTestApp(t, testConfig(""))

	assert.True(t, a.IsReady())
	assert.NoError(t, a.Ready(context.Background()))
}

func TestApp_Ready_WaitsForServices(t *testing.T) {
	a, _ := newTestApp(t, testConfig(""))
	w := &warmup{done: make(chan struct{})}
	a.register(w)

	assert.False(t, a.IsReady())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, a.Ready(ctx), context.DeadlineExceeded)

	close(w.done)
	assert.True(t, a.IsReady())
	assert.NoError(t, a.Ready(context.Background()))
}
