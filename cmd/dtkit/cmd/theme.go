package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/dtkit/pkg/theme"
)

func newThemeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the stored theme",
		Long: `Show or change the theme stored in the configured theme store.

The memory store forgets the choice on exit; configure theme.store as file
or sqlite (with theme.path) to keep it.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withTheme(cmd, func(m *theme.Manager) error {
					fmt.Fprintln(cmd.OutOrStdout(), m.Current())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "set <light|dark>",
			Short:     "Store a theme",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(theme.BrightnessLight), string(theme.BrightnessDark)},
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := theme.ParseBrightness(args[0])
				if err != nil {
					return err
				}
				return app.withTheme(cmd, func(m *theme.Manager) error {
					if err := m.Set(cmd.Context(), b); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), b)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.withTheme(cmd, func(m *theme.Manager) error {
					b, err := m.Toggle(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), b)
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *App) withTheme(cmd *cobra.Command, fn func(*theme.Manager) error) error {
	kv, err := a.Config.OpenStore()
	if err != nil {
		return err
	}
	defer kv.Close()
	m := theme.NewManager(cmd.Context(), theme.Options{
		Store:   kv,
		Key:     a.Config.Theme.Key,
		Default: theme.Brightness(a.Config.Theme.Default),
		Errors:  a.Errors(),
		Logger:  a.Log,
	})
	return fn(m)
}
