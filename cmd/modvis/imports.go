// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/check"
)

func newImportsCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "imports FILE",
		Short: "List use imports in link order",
		Long: `List use imports in link order.

An import is listed after every import its resolution went through. When
imports form a cycle they are listed in declaration order instead.`,
		Example: `  modvis imports restaurant.cue`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			compiled, err := loadCompiled(args[0])
			if err != nil {
				return err
			}
			checker := compiled.Checker()
			linked := checker.Imports()
			if len(linked) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no imports)"))
				return nil
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(SubtitleStyle).
				Headers("#", "IMPORT", "OUTCOME", "TARGET")
			failed := make(map[int]bool)
			for i, li := range linked {
				outcome := check.Classify(li.Err)
				target := li.Target.Path
				if li.Err != nil {
					failed[i] = true
					target = li.Err.Error()
				}
				t.Row(strconv.Itoa(li.Index), li.Key, outcome.String(), target)
				s.logger.Debug("import", "key", li.Key, "declared", compiled.Imports[li.Index].Location)
			}
			t.StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return TitleStyle.Padding(0, 1)
				case failed[row] && col >= 2:
					return WarningStyle.Padding(0, 1)
				default:
					return lipgloss.NewStyle().Padding(0, 1)
				}
			})
			fmt.Fprintln(app.stdout, t.String())
			return nil
		},
	}
}
