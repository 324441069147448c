// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/invowk/modvis/internal/check"
	"github.com/invowk/modvis/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and
	// reaches configuration and output through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
		// verbose is the verbosity of the last session, read by handleError
		// once the command has returned.
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session is the per-invocation state shared by command handlers.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// newSession loads configuration and builds the logger for one command run.
// The --verbose flag wins over ui.verbose and forces debug logging.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	a.verbose = flags.verbose
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	a.verbose = verbose
	level, err := log.ParseLevel(string(cfg.Log.Level))
	if err != nil {
		level = log.WarnLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "modvis",
		Level:  level,
	})

	return &session{cfg: cfg, logger: logger, verbose: verbose}, nil
}

// runner returns a check runner logging through the session logger.
func (s *session) runner() *check.Runner {
	return check.NewRunner(s.logger)
}

// markdownStyle picks the glamour style for w from the configured color scheme.
// "auto" renders plain text unless w is a terminal.
func (s *session) markdownStyle(w io.Writer) string {
	switch s.cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
