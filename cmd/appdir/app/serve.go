package app

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/appdirectory"
	"github.com/agentstation/appdirectory/internal/config"
	"github.com/agentstation/appdirectory/internal/server"
)

// serveFlags holds serve command flags. Zero values defer to the config.
type serveFlags struct {
	host        string
	port        int
	prefix      string
	interval    time.Duration
	cors        bool
	corsOrigins []string
	metrics     bool
}

// NewServeCommand starts the HTTP API.
func (a *App) NewServeCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "server",
		Short:   "Serve the directory over HTTP",
		Long: `Serve starts an HTTP server exposing the directory as a read-only JSON API:

  GET /health
  GET {prefix}/ready
  GET {prefix}/apps
  GET {prefix}/apps/{name}
  GET {prefix}/intents/{intent}/apps
  GET {prefix}/contexts/{context}/intents
  GET /metrics

Changes to source_url in the config file are applied without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("host") {
				f.host = a.config.Server.Host
			}
			if !cmd.Flags().Changed("port") {
				f.port = a.config.Server.Port
			}
			if !cmd.Flags().Changed("prefix") {
				f.prefix = a.config.Server.PathPrefix
			}
			if !cmd.Flags().Changed("refresh-interval") {
				f.interval = a.config.Refresh.Interval
			}
			return a.serve(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVar(&f.host, "host", "", "bind address (default from server.host)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "listen port (default from server.port)")
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "API path prefix (default from server.path_prefix)")
	cmd.Flags().DurationVar(&f.interval, "refresh-interval", 0, "background refresh interval, 0 disables (default from refresh.interval)")
	cmd.Flags().BoolVar(&f.cors, "cors", false, "enable CORS for all origins")
	cmd.Flags().StringSliceVar(&f.corsOrigins, "cors-origins", nil, "allowed CORS origins (comma-separated)")
	cmd.Flags().BoolVar(&f.metrics, "metrics", true, "expose Prometheus metrics at /metrics")

	return cmd
}

// serve runs the HTTP API until ctx is canceled.
func (a *App) serve(ctx context.Context, f serveFlags) error {
	dir, err := a.Directory(ctx)
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Host = f.host
	cfg.Port = f.port
	cfg.PathPrefix = f.prefix
	cfg.CORSEnabled = f.cors || len(f.corsOrigins) > 0
	cfg.CORSOrigins = f.corsOrigins
	cfg.MetricsEnabled = f.metrics

	srv := server.New(dir, cfg,
		server.WithLogger(a.logger),
		server.WithMetrics(a.Metrics()),
		server.WithVersion(a.version),
		server.WithReadyFunc(a.IsReady),
	)

	warm := a.warmUp(ctx, dir)
	a.register(srv)
	a.register(warm)

	if f.interval > 0 {
		if err := dir.AutoRefreshOn(f.interval); err != nil {
			return err
		}
		defer dir.AutoRefreshOff()
	}

	a.loader.Watch(
		func(cfg *config.Config) {
			if a.flags.sourceURL == "" {
				dir.SetSourceURL(cfg.SourceURL)
			}
		},
		func(err error) {
			a.logger.Warn().Err(err).Msg("Ignoring invalid config change")
		},
	)

	return srv.ListenAndServe(ctx)
}

// warmup is ready once the first catalog read has completed.
type warmup struct {
	done chan struct{}
}

func (w *warmup) Ready() <-chan struct{} {
	return w.done
}

// warmUp reads the catalog in the background so a stale cache is refreshed
// before the first request arrives.
func (a *App) warmUp(ctx context.Context, dir *appdirectory.Directory) *warmup {
	w := &warmup{done: make(chan struct{})}
	go func() {
		defer close(w.done)
		catalog := dir.AllApps(ctx)
		a.logger.Info().Int("apps", catalog.Len()).Msg("Application directory warmed up")
	}()
	return w
}
