// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// LogLevelDebug logs every linked import and checked site.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs one line per checked file.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs unexpected outcomes and declaration warnings.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// OutputFormatText renders reports for terminals.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON renders reports as JSON documents.
	OutputFormatJSON OutputFormat = "json"

	// minDebounce keeps the watcher from re-running on every write of a save.
	minDebounce = 10 * time.Millisecond
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidOutputFormat is returned when an OutputFormat value is not recognized.
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidWatchPattern is the sentinel error wrapped by InvalidWatchPatternError.
	ErrInvalidWatchPattern = errors.New("invalid watch pattern")
	// ErrInvalidDebounce is the sentinel error wrapped by InvalidDebounceError.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of log lines written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// OutputFormat selects how check reports are rendered.
	OutputFormat string

	// InvalidOutputFormatError is returned when an OutputFormat value is not recognized.
	// It wraps ErrInvalidOutputFormat for errors.Is() compatibility.
	InvalidOutputFormatError struct {
		Value OutputFormat
	}

	// WatchPattern is a doublestar glob matched against paths relative to
	// the watched directory.
	WatchPattern string

	// InvalidWatchPatternError is returned when a WatchPattern is empty or
	// not a valid doublestar pattern.
	InvalidWatchPatternError struct {
		Value WatchPattern
	}

	// InvalidDebounceError is returned when the watch debounce is shorter
	// than the minimum.
	InvalidDebounceError struct {
		Value time.Duration
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Log configures diagnostic logging
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Check configures `modvis check`
		Check CheckConfig `json:"check" mapstructure:"check"`
		// Watch configures `modvis check --watch`
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// LogConfig configures diagnostic logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose prints every site and full error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// CheckConfig configures report rendering and exit status.
	CheckConfig struct {
		Format OutputFormat `json:"format" mapstructure:"format"`
		// FailOnMismatch makes a mismatching check exit with a non-zero status
		FailOnMismatch bool `json:"fail_on_mismatch" mapstructure:"fail_on_mismatch"`
	}

	// WatchConfig configures the file watcher.
	WatchConfig struct {
		// Patterns selects the files whose changes trigger a re-run
		Patterns []WatchPattern `json:"patterns" mapstructure:"patterns"`
		// Ignore excludes files even when a pattern matches
		Ignore []WatchPattern `json:"ignore" mapstructure:"ignore"`
		// Debounce is how long the watcher waits for writes to settle
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// ClearScreen clears the terminal before each re-run
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidOutputFormatError.
func (e *InvalidOutputFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: text, json)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidOutputFormatError) Unwrap() error { return ErrInvalidOutputFormat }

// String returns the string representation of the OutputFormat.
func (f OutputFormat) String() string { return string(f) }

// IsValid returns whether the OutputFormat is one of the defined formats.
func (f OutputFormat) IsValid() (bool, []error) {
	switch f {
	case OutputFormatText, OutputFormatJSON:
		return true, nil
	default:
		return false, []error{&InvalidOutputFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidWatchPatternError.
func (e *InvalidWatchPatternError) Error() string {
	return fmt.Sprintf("invalid watch pattern %q", e.Value)
}

// Unwrap returns ErrInvalidWatchPattern for errors.Is() compatibility.
func (e *InvalidWatchPatternError) Unwrap() error { return ErrInvalidWatchPattern }

// String returns the string representation of the WatchPattern.
func (p WatchPattern) String() string { return string(p) }

// IsValid returns whether the pattern is non-empty and parses as a
// doublestar pattern.
func (p WatchPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidWatchPatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %s: must be at least %s", e.Value, minDebounce)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the WatchConfig has valid fields. Every
// pattern must parse and the debounce must reach the minimum.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.Patterns {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, p := range c.Ignore {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Debounce < minDebounce {
		errs = append(errs, &InvalidDebounceError{Value: c.Debounce})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidWatchConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Check.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Watch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so
// errors.Is() matches both the sentinel and the specific field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{Level: LogLevelWarn},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Check: CheckConfig{
			Format:         OutputFormatText,
			FailOnMismatch: true,
		},
		Watch: WatchConfig{
			Patterns:    []WatchPattern{"**/*.cue", "**/*.json", "**/*.toml", "**/*.yaml", "**/*.yml"},
			Ignore:      []WatchPattern{"**/.git/**", "**/node_modules/**"},
			Debounce:    200 * time.Millisecond,
			ClearScreen: false,
		},
	}
}

// Strings converts watch patterns for APIs that take plain strings.
func Strings(patterns []WatchPattern) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = string(p)
	}
	return out
}
