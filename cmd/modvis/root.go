// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// newRootCommand creates the root command and all subcommands, bound to app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "modvis",
		Short: "Check module visibility and name resolution",
		Long: TitleStyle.Render("modvis") + SubtitleStyle.Render(" - module visibility and name resolution checker") + `

modvis builds a tree of crates, modules, functions, structs and enums from
a declaration file, links the use imports written in it, and checks every
path reference against the visibility and resolution rules: private items
are visible only inside their owner module, imports shadow glob imports,
and re-exports make imported names reachable from outside.

Declaration files are written in CUE, JSON, TOML or YAML.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Write the example with: modvis example > restaurant.cue
  2. Check it with: modvis check restaurant.cue
  3. Explain an error kind with: modvis explain access_denied

` + SubtitleStyle.Render("Examples:") + `
  modvis check .                                Check every declaration file below .
  modvis resolve restaurant.cue hosting::add_to_waitlist --from restaurant
  modvis tree restaurant.cue                    Show the namespace tree
  modvis scope restaurant.cue restaurant::patio Show the names visible in patio
  modvis config show                            Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/modvis/config.cue)")

	rootCmd.AddCommand(
		newCheckCommand(app, flags),
		newResolveCommand(app, flags),
		newConstructCommand(app, flags),
		newTreeCommand(app, flags),
		newScopeCommand(app, flags),
		newImportsCommand(app, flags),
		newExampleCommand(app),
		newExplainCommand(app, flags),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the CLI and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	// fang overrides rootCmd.Version, so pass it via fang.WithVersion().
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// handleError prints actionable errors with their suggestions, and their
// error chain when the failed command ran verbose. Everything else goes to
// fang's default handler. Mismatch exits have already been reported by the
// check output.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitMismatch {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
