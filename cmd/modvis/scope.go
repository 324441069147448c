// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/modvis/pkg/resolve"
)

func newScopeCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "scope FILE NAMESPACE",
		Short: "List the names usable without qualification in a namespace",
		Long: `List the names usable without qualification in a namespace.

Names come from the namespace's own declarations, then its use imports,
then its glob imports. A glob name provided by two different sources is
listed with its conflict.`,
		Example: `  modvis scope restaurant.cue restaurant::patio`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.newSession(cmd.Context(), rootFlags); err != nil {
				return err
			}
			compiled, err := loadCompiled(args[0])
			if err != nil {
				return err
			}
			checker := compiled.Checker()
			ns, err := namespaceArg(checker.World(), args[1])
			if err != nil {
				return err
			}

			entries := checker.Scope(ns)
			if len(entries) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no names in scope)"))
				return nil
			}
			writeScope(app.stdout, entries)
			return nil
		},
	}
}

func writeScope(w io.Writer, entries []resolve.ScopeEntry) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("NAME", "FROM", "VISIBILITY", "TARGET")

	failed := make(map[int]bool)
	for i, e := range entries {
		vis := "private"
		if e.Public {
			vis = "pub"
		}
		from := e.Source.String()
		if e.Import != "" {
			from += " " + e.Import
		}
		target := e.Target.Path
		if e.Err != nil {
			target = e.Err.Error()
			failed[i] = true
		}
		t.Row(string(e.Name), from, vis, target)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return TitleStyle.Padding(0, 1)
		case failed[row] && col == 3:
			return ErrorStyle.Padding(0, 1)
		case col == 0:
			return CmdStyle.Padding(0, 1)
		default:
			return lipgloss.NewStyle().Padding(0, 1)
		}
	})

	fmt.Fprintln(w, t.String())
}
