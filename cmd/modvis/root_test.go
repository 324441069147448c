// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"

	"github.com/invowk/modvis/internal/config"
	"github.com/invowk/modvis/internal/issue"
	"github.com/invowk/modvis/pkg/resolve"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{"with cause", &ExitError{Code: ExitFailure, Err: cause}, "boom"},
		{"code only", &ExitError{Code: ExitMismatch}, "exit status 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := errors.Unwrap(tt.err); got != tt.err.Err {
				t.Errorf("Unwrap() = %v, want %v", got, tt.err.Err)
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	denied := &resolve.AccessDeniedError{Path: "a::b", Segment: "b", Origin: "c", Target: "a::b", Owner: "a"}
	ae := issue.NewErrorContext().
		WithOperation("resolve a::b").
		WithSuggestion("Mark b pub").
		Wrap(denied).
		BuildError()

	got := formatErrorForDisplay(ae, false)
	for _, want := range []string{"failed to resolve a::b", "• Mark b pub", "modvis explain access_denied"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatted error missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Error chain:") {
		t.Error("non-verbose output should not include the error chain")
	}
	if !strings.Contains(formatErrorForDisplay(ae, true), "Error chain:") {
		t.Error("verbose output should include the error chain")
	}

	plain := errors.New("plain")
	if got := formatErrorForDisplay(plain, true); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	chained := issue.NewErrorContext().
		WithOperation("load declaration file").
		WithSuggestion("Try again").
		Wrap(errors.New("nope")).
		BuildError()

	tests := []struct {
		name     string
		err      error
		verbose  bool
		contains []string
		excludes []string
	}{
		{"mismatch is silent", &ExitError{Code: ExitMismatch, Err: errors.New("2 unexpected outcome(s)")}, false, nil, nil},
		{"actionable", chained, false, []string{"• Try again"}, []string{"Error chain:"}},
		{"actionable verbose", chained, true, []string{"• Try again", "Error chain:", "1. nope"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := &App{verbose: tt.verbose}
			var buf bytes.Buffer
			app.handleError(&buf, fang.Styles{}, tt.err)
			if tt.contains == nil && buf.Len() != 0 {
				t.Errorf("handleError wrote %q", buf.String())
			}
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("handleError output missing %q:\n%s", s, buf.String())
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(buf.String(), s) {
					t.Errorf("handleError output should not contain %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestHandleError_VerboseFlag(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.cue")
	tests := []struct {
		name      string
		args      []string
		wantChain bool
	}{
		{"quiet", []string{"resolve", missing, "crate::x"}, false},
		{"verbose flag", []string{"--verbose", "resolve", missing, "crate::x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out, errOut bytes.Buffer
			app := NewApp(Dependencies{
				Config: staticConfig{cfg: config.DefaultConfig()},
				Stdout: &out,
				Stderr: &errOut,
			})
			root := newRootCommand(app)
			root.SetArgs(tt.args)
			root.SetOut(&out)
			root.SetErr(&errOut)
			root.SilenceErrors = true
			err := root.ExecuteContext(context.Background())
			if err == nil {
				t.Fatal("expected an error for a missing declaration file")
			}

			var buf bytes.Buffer
			app.handleError(&buf, fang.Styles{}, err)
			if got := strings.Contains(buf.String(), "Error chain:"); got != tt.wantChain {
				t.Errorf("error chain shown = %v, want %v:\n%s", got, tt.wantChain, buf.String())
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     config.LogLevel
		uiVerbose bool
		flag      bool
		want      log.Level
	}{
		{"configured level", config.LogLevelError, false, false, log.ErrorLevel},
		{"verbose flag", config.LogLevelError, false, true, log.DebugLevel},
		{"verbose config", config.LogLevelWarn, true, false, log.DebugLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Log.Level = tt.level
			cfg.UI.Verbose = tt.uiVerbose
			app := NewApp(Dependencies{Config: staticConfig{cfg: cfg}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})

			s, err := app.newSession(context.Background(), &rootFlagValues{verbose: tt.flag})
			if err != nil {
				t.Fatalf("newSession() error = %v", err)
			}
			if got := s.logger.GetLevel(); got != tt.want {
				t.Errorf("logger level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSession_ConfigError(t *testing.T) {
	t.Parallel()

	want := errors.New("broken config")
	app := NewApp(Dependencies{Config: staticConfig{err: want}})
	if _, err := app.newSession(context.Background(), &rootFlagValues{}); !errors.Is(err, want) {
		t.Errorf("newSession() error = %v, want %v", err, want)
	}
}

func TestMarkdownStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme config.ColorScheme
		want   string
	}{
		{config.ColorSchemeDark, "dark"},
		{config.ColorSchemeLight, "light"},
		{config.ColorSchemeAuto, "notty"},
	}
	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.UI.ColorScheme = tt.scheme
			s := &session{cfg: cfg}
			if got := s.markdownStyle(&bytes.Buffer{}); got != tt.want {
				t.Errorf("markdownStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}
