// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/issue"
	"github.com/invowk/modvis/pkg/resolve"
)

type (
	resolveFlagValues struct {
		from string
	}

	constructFlagValues struct {
		from   string
		fields []string
	}
)

func newResolveCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &resolveFlagValues{}

	resolveCmd := &cobra.Command{
		Use:   "resolve FILE PATH",
		Short: "Resolve one path as written inside a namespace",
		Long: `Resolve one path as written inside a namespace.

The path is written the way it would appear in source: relative
(hosting::add_to_waitlist), or anchored with crate::, self:: or super::.
--from names the namespace the path is written in as an absolute path; it
defaults to the root of the first crate.`,
		Example: `  modvis resolve restaurant.cue crate::front_of_house::hosting::add_to_waitlist
  modvis resolve restaurant.cue super::hosting::seat_at_table --from restaurant::front_of_house::serving`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.newSession(cmd.Context(), rootFlags); err != nil {
				return err
			}
			compiled, err := loadCompiled(args[0])
			if err != nil {
				return err
			}
			checker := compiled.Checker()
			origin, err := namespaceArg(checker.World(), flags.from)
			if err != nil {
				return err
			}

			target, err := checker.Resolve(origin, args[1])
			if err != nil {
				return resolutionError("resolve "+args[1], checker.World().PathOf(origin), err)
			}
			writeTarget(app.stdout, args[1], target)
			return nil
		},
	}

	resolveCmd.Flags().StringVar(&flags.from, "from", "", "namespace the path is written in (default: root of the first crate)")

	return resolveCmd
}

func newConstructCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &constructFlagValues{}

	constructCmd := &cobra.Command{
		Use:   "construct FILE STRUCT",
		Short: "Check a struct literal written inside a namespace",
		Long: `Check a struct literal written inside a namespace.

The struct path must resolve, every --field must exist and be visible from
--from, and every field of the struct must be named.`,
		Example: `  modvis construct restaurant.cue back_of_house::Breakfast --field toast --field seasonal_fruit`,
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
			origin, err := namespaceArg(checker.World(), flags.from)
			if err != nil {
				return err
			}

			literal := fmt.Sprintf("%s { %s }", args[1], strings.Join(flags.fields, ", "))
			target, err := checker.CheckConstruct(origin, args[1], flags.fields)
			if err != nil {
				return resolutionError("construct "+literal, checker.World().PathOf(origin), err)
			}
			writeTarget(app.stdout, literal, target)
			return nil
		},
	}

	constructCmd.Flags().StringVar(&flags.from, "from", "", "namespace the literal is written in (default: root of the first crate)")
	constructCmd.Flags().StringSliceVar(&flags.fields, "field", nil, "field named by the literal (repeatable)")

	return constructCmd
}

func writeTarget(w io.Writer, written string, t resolve.Target) {
	fmt.Fprintf(w, "%s %s %s %s\n",
		CmdStyle.Render(written),
		SubtitleStyle.Render("→"),
		SuccessStyle.Render(t.Path),
		SubtitleStyle.Render("("+t.Kind.String()+")"))
	for _, v := range t.Via {
		fmt.Fprintf(w, "  %s %s\n", VerboseStyle.Render("via"), v)
	}
}

func resolutionError(operation, origin string, err error) error {
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource("from " + origin).
		Wrap(err).
		BuildError()
}
