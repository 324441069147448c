// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/modvis/internal/check"
	"github.com/invowk/modvis/internal/config"
	"github.com/invowk/modvis/internal/watch"
)

type (
	checkFlagValues struct {
		format string
		watch  bool
	}

	// checkRun is the combined result of checking several files.
	checkRun struct {
		reports    []*check.Report
		failures   []error
		mismatches int
	}
)

func newCheckCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &checkFlagValues{}

	checkCmd := &cobra.Command{
		Use:   "check [FILE|DIR]...",
		Short: "Check every import and reference site of declaration files",
		Long: `Check every import and reference site of declaration files.

Each site states the outcome it expects (ok by default). The command reports
every site whose actual outcome differs and exits with status 2 when any do.
Directories are searched with the configured watch patterns.`,
		Example: `  modvis check restaurant.cue
  modvis check . --format json
  modvis check restaurant.cue --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			format := s.cfg.Check.Format
			if cmd.Flags().Changed("format") {
				format = config.OutputFormat(flags.format)
				if valid, errs := format.IsValid(); !valid {
					return errs[0]
				}
			}
			if flags.watch {
				return runCheckWatch(cmd.Context(), app, s, args, format)
			}
			return runCheck(cmd.Context(), app, s, args, format)
		},
	}

	checkCmd.Flags().StringVarP(&flags.format, "format", "f", string(config.OutputFormatText), "output format (text, json)")
	checkCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-run the check when declaration files change")

	return checkCmd
}

func runCheck(ctx context.Context, app *App, s *session, args []string, format config.OutputFormat) error {
	files, err := collectFiles(args, s.cfg)
	if err != nil {
		return err
	}
	run, err := checkFiles(ctx, s, files)
	if err != nil {
		return err
	}
	if err := writeCheckRun(app, s, run, format); err != nil {
		return err
	}
	return run.exitError(s.cfg.Check.FailOnMismatch)
}

// checkFiles checks each file in turn. A file that cannot be loaded is
// recorded as a failure and does not stop the others.
func checkFiles(ctx context.Context, s *session, files []string) (*checkRun, error) {
	runner := s.runner()
	run := &checkRun{}
	for _, f := range files {
		report, err := runner.RunFile(ctx, f)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			run.failures = append(run.failures, declarationError("check declaration file", f, err))
			continue
		}
		run.reports = append(run.reports, report)
		run.mismatches += report.Summary().Mismatches
	}
	return run, nil
}

func (r *checkRun) exitError(failOnMismatch bool) error {
	if len(r.failures) > 0 {
		return &ExitError{Code: ExitFailure, Err: errors.Join(r.failures...)}
	}
	if r.mismatches > 0 && failOnMismatch {
		return &ExitError{
			Code: ExitMismatch,
			Err:  fmt.Errorf("%d unexpected outcome(s): %w", r.mismatches, check.ErrMismatch),
		}
	}
	return nil
}

func writeCheckRun(app *App, s *session, run *checkRun, format config.OutputFormat) error {
	if format == config.OutputFormatJSON {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		reports := run.reports
		if reports == nil {
			reports = []*check.Report{}
		}
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode check reports: %w", err)
		}
		for _, f := range run.failures {
			fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(f, s.verbose))
		}
		return nil
	}

	for i, report := range run.reports {
		if i > 0 {
			fmt.Fprintln(app.stdout)
		}
		renderReport(app.stdout, report, s.verbose)
	}
	for _, f := range run.failures {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(f, s.verbose))
	}
	if run.mismatches > 0 {
		fmt.Fprintf(app.stdout, "\n%s\n", SubtitleStyle.Render("Run 'modvis explain mismatch' to learn how expectations are declared"))
	}
	return nil
}

// renderReport writes a text report. Matched results print one line each;
// mismatches add the expectation and the error. Verbose output adds
// import chains, notes and the duration.
func renderReport(w io.Writer, r *check.Report, verbose bool) {
	fmt.Fprintln(w, TitleStyle.Render(r.Name))
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), warn)
	}

	if len(r.Imports) > 0 {
		fmt.Fprintf(w, "\n  %s\n", SubtitleStyle.Render("Imports:"))
		for _, imp := range r.Imports {
			detail := imp.Target
			if imp.Error != "" {
				detail = imp.Error
			}
			writeResultLine(w, imp.Matched(), imp.Key, "", string(imp.Expect.OrDefault()), imp.Outcome, detail, imp.Note, nil, verbose)
		}
	}

	if len(r.Sites) > 0 {
		fmt.Fprintf(w, "\n  %s\n", SubtitleStyle.Render("Sites:"))
		for _, site := range r.Sites {
			detail := site.Target
			if site.Error != "" {
				detail = site.Error
			}
			writeResultLine(w, site.Matched(), site.Location, site.Path, string(site.Expect), site.Outcome, detail, site.Note, site.Via, verbose)
		}
	}

	sum := r.Summary()
	line := fmt.Sprintf("%d imports, %d sites, %d mismatches", sum.Imports, sum.Sites, sum.Mismatches)
	if verbose {
		line += fmt.Sprintf(" (%s)", r.Duration)
	}
	fmt.Fprintln(w)
	if sum.Mismatches == 0 {
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("✓"), line)
	} else {
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("✗"), line)
	}
}

func writeResultLine(w io.Writer, matched bool, location, path, expect string, outcome check.Outcome, detail, note string, via []string, verbose bool) {
	var sb strings.Builder
	sb.WriteString("    ")
	if matched {
		sb.WriteString(SuccessStyle.Render("✓"))
	} else {
		sb.WriteString(ErrorStyle.Render("✗"))
	}
	sb.WriteString(" ")
	sb.WriteString(location)
	if path != "" {
		sb.WriteString(" ")
		sb.WriteString(CmdStyle.Render(path))
	}
	sb.WriteString(" ")

	switch {
	case !matched:
		fmt.Fprintf(&sb, "%s, expected %s", ErrorStyle.Render(outcome.String()), expect)
		if detail != "" {
			sb.WriteString(": ")
			sb.WriteString(detail)
		}
	case outcome == check.OutcomeOK:
		sb.WriteString("→ ")
		sb.WriteString(SuccessStyle.Render(detail))
	default:
		sb.WriteString(WarningStyle.Render(outcome.String()))
		if verbose && detail != "" {
			sb.WriteString(": ")
			sb.WriteString(VerboseStyle.Render(detail))
		}
	}
	fmt.Fprintln(w, sb.String())

	if !verbose {
		return
	}
	for _, v := range via {
		fmt.Fprintf(w, "        %s %s\n", VerboseStyle.Render("via"), VerboseStyle.Render(v))
	}
	if note != "" {
		fmt.Fprintf(w, "        %s %s\n", VerboseStyle.Render("note:"), VerboseStyle.Render(note))
	}
}

// runCheckWatch checks once, then re-checks whenever a named file or a
// file matching the watch patterns under a directory argument changes,
// until ctx is cancelled. Each directory argument gets its own watcher and
// named files share one more.
func runCheckWatch(ctx context.Context, app *App, s *session, args []string, format config.OutputFormat) error {
	var mu sync.Mutex
	recheck := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		if err := runCheck(ctx, app, s, args, format); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Code == ExitMismatch {
				return
			}
			fmt.Fprintf(app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, s.verbose))
		}
	}

	var named, dirs []string
	if len(args) == 0 {
		dirs = []string{"."}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err != nil:
		case info.IsDir():
			dirs = append(dirs, arg)
		default:
			named = append(named, arg)
		}
	}

	recheck(ctx)
	fmt.Fprintf(app.stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"))

	base := watch.Config{
		Patterns:    config.Strings(s.cfg.Watch.Patterns),
		Ignore:      config.Strings(s.cfg.Watch.Ignore),
		Debounce:    s.cfg.Watch.Debounce,
		ClearScreen: s.cfg.Watch.ClearScreen,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(app.stdout, "%s Detected %d change(s): %s\n", CmdStyle.Render("→"), len(changed), strings.Join(changed, ", "))
			recheck(ctx)
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", CmdStyle.Render("→"))
			return nil
		},
		Stdout: app.stdout,
		Logger: s.logger,
	}

	var configs []watch.Config
	for _, dir := range dirs {
		cfg := base
		cfg.BaseDir = dir
		configs = append(configs, cfg)
	}
	if len(named) > 0 {
		cfg := base
		cfg.Files = named
		cfg.FilesOnly = true
		configs = append(configs, cfg)
	}

	watchers := make([]*watch.Watcher, 0, len(configs))
	for _, cfg := range configs {
		w, err := watch.New(cfg)
		if err != nil {
			for _, started := range watchers {
				if closeErr := started.Close(); closeErr != nil {
					s.logger.Error("close watcher", "err", closeErr)
				}
			}
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		watchers = append(watchers, w)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range watchers {
		g.Go(func() error { return w.Run(gctx) })
	}
	return g.Wait()
}
