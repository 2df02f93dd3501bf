package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/appdirectory/internal/cmd/output"
)

// Execute runs the appdir CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "appdir",
		Short:   "Application directory CLI",
		Version: a.version,
		Long: `appdir keeps a local cache of an application directory catalog and
answers queries about it: which applications exist, which handle an intent,
and which intents can act on a context type.

The catalog is downloaded from the configured source URL only when the
cache was filled from a different URL. If the download fails, the cached
catalog keeps being served.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "server", Title: "Server Commands:"})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "config file (default is $HOME/.appdir.yaml)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.StringVarP(&a.flags.format, "format", "o", "", "output format: table, json, yaml")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	pf.StringVar(&a.flags.sourceURL, "source-url", "", "catalog source URL (overrides source_url)")

	rootCmd.SetVersionTemplate("appdir {{.Version}}\n")
	rootCmd.SetOut(a.out)

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand loads configuration and rebuilds the logger before any
// command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if _, err := output.ParseFormat(a.flags.format); err != nil {
		return err
	}

	if a.config == nil || a.flags.configFile != "" {
		cfg, err := a.loader.Load(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = cfg
	}
	if a.flags.sourceURL != "" {
		a.config.SourceURL = a.flags.sourceURL
	}

	logger := NewLogger(a.flags, a.config.Log)
	a.logger = &logger

	if a.config.ConfigFile != "" {
		a.logger.Debug().Str("file", a.config.ConfigFile).Msg("Using config file")
	}
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.NewAppsCommand())
	rootCmd.AddCommand(a.NewAppCommand())
	rootCmd.AddCommand(a.NewIntentCommand())
	rootCmd.AddCommand(a.NewIntentsCommand())
	rootCmd.AddCommand(a.NewContextCommand())
	rootCmd.AddCommand(a.NewServeCommand())
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError prints err and exits with status 1. It does nothing for a nil
// error.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
