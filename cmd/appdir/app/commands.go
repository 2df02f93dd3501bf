package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/appdirectory/internal/cmd/output"
	"github.com/agentstation/appdirectory/internal/matcher"
	"github.com/agentstation/appdirectory/pkg/errors"
	"github.com/agentstation/appdirectory/pkg/logging"
)

// render writes data in the selected format. tabular is what the table
// format shows; JSON and YAML encode data directly.
func (a *App) render(data any, tabular output.Tabular) error {
	format := output.DetectFormat(a.flags.format)
	if format == output.FormatTable {
		return output.NewFormatter(format).Format(a.out, tabular)
	}
	return output.NewFormatter(format).Format(a.out, data)
}

// NewAppsCommand lists every application in the catalog, optionally
// filtered by name.
func (a *App) NewAppsCommand() *cobra.Command {
	var (
		pattern    string
		ignoreCase bool
	)

	cmd := &cobra.Command{
		Use:     "apps",
		GroupID: "query",
		Short:   "List all applications",
		Example: `  appdir apps
  appdir apps --name 'Chat*'
  appdir apps --name '^(Mail|Chat)$' -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m matcher.Matcher
			if pattern != "" {
				var err error
				m, err = matcher.New(matcher.Auto, pattern, matcher.Options{CaseInsensitive: ignoreCase})
				if err != nil {
					return errors.NewValidationError("name", pattern, err.Error())
				}
			}

			dir, err := a.Directory(cmd.Context())
			if err != nil {
				return err
			}
			catalog := dir.AllApps(cmd.Context())
			if m != nil {
				catalog = matcher.FilterApps(catalog, m)
			}
			return a.render(catalog, output.Catalog(catalog))
		},
	}

	cmd.Flags().StringVar(&pattern, "name", "", "only list applications whose name matches a glob or regex")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "match --name case-insensitively")

	return cmd
}

// NewAppCommand shows one application by name.
func (a *App) NewAppCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "app <name>",
		GroupID: "query",
		Short:   "Show an application by name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.Directory(cmd.Context())
			if err != nil {
				return err
			}
			ctx := logging.WithApp(cmd.Context(), args[0])
			app, ok := dir.AppByName(ctx, args[0])
			if !ok {
				return errors.NewNotFoundError("app", args[0])
			}
			return a.render(app, output.Application(app))
		},
	}
}

// NewIntentCommand lists the applications that handle an intent.
func (a *App) NewIntentCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "intent <name>",
		GroupID: "query",
		Short:   "List applications that handle an intent",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.Directory(cmd.Context())
			if err != nil {
				return err
			}
			ctx := logging.WithIntent(cmd.Context(), args[0])
			catalog := dir.AppsByIntent(ctx, args[0])
			return a.render(catalog, output.Catalog(catalog))
		},
	}
}

// NewIntentsCommand lists every intent declared in the catalog.
func (a *App) NewIntentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "intents",
		GroupID: "query",
		Short:   "List all declared intents",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := a.Directory(cmd.Context())
			if err != nil {
				return err
			}
			names := dir.Intents(cmd.Context())
			if names == nil {
				names = []string{}
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name})
			}
			return a.render(names, output.Data{Headers: []string{"intent"}, Rows: rows})
		},
	}
}

// NewContextCommand lists the intents that accept a context type, with the
// applications that handle each.
func (a *App) NewContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "context <type>",
		GroupID: "query",
		Short:   "List intents that accept a context type",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.Directory(cmd.Context())
			if err != nil {
				return err
			}
			ctx := logging.WithContextType(cmd.Context(), args[0])
			groups := dir.AppIntentsByContext(ctx, args[0])
			return a.render(groups, output.IntentGroups(groups))
		},
	}
}

// NewVersionCommand shows version information.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("appdir %s\n", a.version)
			if a.flags.verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
