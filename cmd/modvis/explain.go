// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/issue"
)

func newExplainCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [KIND]",
		Short: "Explain an error kind",
		Long: `Explain an error kind.

Without an argument, lists the kinds that can be explained.`,
		Example: `  modvis explain access_denied
  modvis explain`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return issue.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Error kinds"))
				for _, name := range issue.Names() {
					fmt.Fprintf(app.stdout, "  %s\n", CmdStyle.Render(name))
				}
				return nil
			}

			is, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Known kinds: " + strings.Join(issue.Names(), ", ")).
					Wrap(fmt.Errorf("unknown error kind %q", args[0])).
					BuildError()
			}

			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			rendered, err := is.Render(s.markdownStyle(app.stdout))
			if err != nil {
				return fmt.Errorf("failed to render explanation: %w", err)
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}
}
