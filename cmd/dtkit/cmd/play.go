package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/go-drift/dtkit/cmd/dtkit/internal/gallery"
	"github.com/go-drift/dtkit/pkg/errors"
	"github.com/go-drift/dtkit/pkg/logging"
	"github.com/go-drift/dtkit/pkg/theme"
)

func newPlayCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Open the interactive component gallery",
		Long: `Open an interactive terminal gallery running the components in real
time. Keys drive the checkbox, dropdown, modal, toast and tooltip; the
event log shows what each component emitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kv, err := app.Config.OpenStore()
			if err != nil {
				return err
			}
			defer kv.Close()

			// The TUI owns the terminal, so runtime logs are discarded while
			// it runs.
			log := logging.Nop()
			errs := &errors.LogHandler{Logger: log}
			tm := theme.NewManager(cmd.Context(), theme.Options{
				Store:   kv,
				Key:     app.Config.Theme.Key,
				Default: theme.Brightness(app.Config.Theme.Default),
				Errors:  errs,
				Logger:  log,
			})
			m, err := gallery.New(cmd.Context(), gallery.Options{
				Theme:         tm,
				Errors:        errs,
				Logger:        log,
				Timing:        app.Config.Timing(),
				ReentrancyCap: app.Config.Render.ReentrancyCap,
			})
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}
