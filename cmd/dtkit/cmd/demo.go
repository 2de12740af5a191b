package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/dtkit/cmd/dtkit/internal/scenario"
	dttest "github.com/go-drift/dtkit/pkg/testing"
	"github.com/go-drift/dtkit/pkg/theme"
)

func newDemoCommand(app *App) *cobra.Command {
	var markup bool
	cmd := &cobra.Command{
		Use:   "demo [" + strings.Join(scenario.Names(), "|") + "|all]",
		Short: "Replay scripted component scenarios",
		Long: `Replay scripted component scenarios on a fake clock.

Each scenario mounts real components, drives them through clicks, keys and
timers, and prints the events they emitted with their clock offsets.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: append(scenario.Names(), "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}
			names := []string{name}
			if name == "all" {
				names = scenario.Names()
			}
			for _, n := range names {
				sc, ok := scenario.Lookup(n)
				if !ok {
					return fmt.Errorf("unknown scenario %q (want one of %s, all)", n, strings.Join(scenario.Names(), ", "))
				}
				if err := app.runScenario(cmd, sc, markup); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markup, "markup", false, "Print the rendered markup after each scenario")
	return cmd
}

func (a *App) runScenario(cmd *cobra.Command, sc scenario.Scenario, markup bool) error {
	out := cmd.OutOrStdout()
	res, err := scenario.Run(sc, dttest.Options{
		Theme:         theme.Brightness(a.Config.Theme.Default),
		Timing:        a.Config.Timing(),
		ReentrancyCap: a.Config.Render.ReentrancyCap,
		Logger:        a.Log,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, TitleStyle.Render(sc.Name)+" "+DimStyle.Render(sc.Description))
	for _, e := range res.Entries {
		fmt.Fprintln(out, "  "+EventStyle.Render(e.String()))
	}
	for _, p := range res.Problems {
		fmt.Fprintln(out, "  "+ErrorStyle.Render(p))
	}
	if markup {
		fmt.Fprintln(out, DimStyle.Render(res.Markup))
	}
	fmt.Fprintln(out)
	return nil
}
