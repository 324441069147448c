// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/restaurant"
	"github.com/invowk/modvis/pkg/cratefile"
)

type exampleFlagValues struct {
	format string
	menu   bool
	toast  string
}

func newExampleCommand(app *App) *cobra.Command {
	flags := &exampleFlagValues{}

	exampleCmd := &cobra.Command{
		Use:   "example",
		Short: "Print the restaurant example declaration file",
		Long: `Print the restaurant example declaration file.

The example models a restaurant crate with a private front of house, a back
of house with a struct whose fields differ in visibility, and sites that
show every error kind. --menu prints what the kitchen serves instead.`,
		Example: `  modvis example > restaurant.cue
  modvis example --format yaml > restaurant.yaml
  modvis example --menu --toast Wheat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.menu {
				for _, line := range restaurant.Menu(flags.toast) {
					fmt.Fprintln(app.stdout, line)
				}
				return nil
			}

			f, err := cratefile.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			data, err := restaurant.Encode(f)
			if err != nil {
				return fmt.Errorf("failed to encode example: %w", err)
			}
			_, err = app.stdout.Write(data)
			return err
		},
	}

	exampleCmd.Flags().StringVarP(&flags.format, "format", "f", string(cratefile.FormatCUE), "output format (cue, json, toml, yaml)")
	exampleCmd.Flags().BoolVar(&flags.menu, "menu", false, "print the menu instead of the declaration file")
	exampleCmd.Flags().StringVar(&flags.toast, "toast", "Rye", "toast served with the summer breakfast")

	return exampleCmd
}
