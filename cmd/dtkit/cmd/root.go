// Package cmd implements the dtkit CLI commands.
//
// The root command loads configuration once, before any subcommand runs,
// and hands the result to subcommands through an App.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/dtkit/pkg/config"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// App is the state shared by subcommands once configuration is loaded.
type App struct {
	Config *config.Config
	Log    *logging.Logger
}

// Errors returns a handler that logs runtime errors through the app logger.
func (a *App) Errors() errors.Handler {
	return &errors.LogHandler{Logger: a.Log}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	app := &App{}
	root := &cobra.Command{
		Use:   "dtkit",
		Short: "dtkit - design toolkit component runtime",
		Long: `dtkit runs the design toolkit components (checkbox, dropdown, modal,
toast, tooltip) on their event-loop runtime.

Use "dtkit demo" to replay scripted scenarios on a fake clock, "dtkit play"
for an interactive gallery, and "dtkit theme" to manage the stored theme.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", config.DefaultPath, "Config file path")
	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error, disabled)")
	pf.Bool("log-human", false, "Human-readable log output")
	pf.Int("reentrancy-cap", 3, "Maximum re-entrant render cycles per component")
	pf.String("theme-store", "memory", "Theme store (memory, file, sqlite)")
	pf.String("theme-path", "", "Theme store path for file and sqlite stores")

	root.AddCommand(
		newDemoCommand(app),
		newThemeCommand(app),
		newPlayCommand(app),
		newVersionCommand(),
	)
	return root
}

func (a *App) load(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	opts := cfg.Logging()
	opts.Writer = cmd.ErrOrStderr()
	log, err := logging.New(opts)
	if err != nil {
		return err
	}
	a.Config = cfg
	a.Log = log
	log.Zerolog().Debug().Str("config", path).Str("theme_store", cfg.Theme.Store).Msg("configuration loaded")
	return nil
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
