// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/modvis/internal/config"
)

// configKeys lists the keys accepted by `modvis config set`.
var configKeys = []string{
	"log.level",
	"ui.color_scheme",
	"ui.verbose",
	"check.format",
	"check.fail_on_mismatch",
	"watch.patterns",
	"watch.ignore",
	"watch.debounce",
	"watch.clear_screen",
}

// newConfigCommand creates the `modvis config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modvis configuration",
		Long: `Manage modvis configuration.

Configuration is stored in:
  - Linux: ~/.config/modvis/config.cue
  - macOS: ~/Library/Application Support/modvis/config.cue
  - Windows: %APPDATA%\modvis\config.cue

MODVIS_* environment variables override file values, e.g. MODVIS_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath(rootFlags)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Long:      "Set a configuration value.\n\nValid keys: " + strings.Join(configKeys, ", ") + "\nList values are comma-separated.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, rootFlags, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// configFilePath is the --config file, or config.cue in the config directory.
func configFilePath(rootFlags *rootFlagValues) (string, error) {
	if rootFlags.configPath != "" {
		return rootFlags.configPath, nil
	}
	return config.FilePath("")
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	path, err := configFilePath(rootFlags)
	if err == nil && fileExistsCheck(path) {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(out, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("check"))
	fmt.Fprintf(out, "  format: %s\n", valueStyle.Render(cfg.Check.Format.String()))
	fmt.Fprintf(out, "  fail_on_mismatch: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Check.FailOnMismatch)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("watch"))
	writePatternList(out, "patterns", config.Strings(cfg.Watch.Patterns))
	writePatternList(out, "ignore", config.Strings(cfg.Watch.Ignore))
	fmt.Fprintf(out, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))
	fmt.Fprintf(out, "  clear_screen: %s\n", valueStyle.Render(strconv.FormatBool(cfg.Watch.ClearScreen)))

	return nil
}

func writePatternList(out io.Writer, name string, patterns []string) {
	if len(patterns) == 0 {
		fmt.Fprintf(out, "  %s: %s\n", name, SubtitleStyle.Render("(none configured)"))
		return
	}
	fmt.Fprintf(out, "  %s:\n", name)
	for _, p := range patterns {
		fmt.Fprintf(out, "    - %s\n", SuccessStyle.Render(p))
	}
}

func initConfig(out io.Writer) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(out, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(out, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func setConfigValue(ctx context.Context, app *App, rootFlags *rootFlagValues, key, value string) error {
	path, err := configFilePath(rootFlags)
	if err != nil {
		return err
	}
	opts := config.LoadOptions{}
	if fileExistsCheck(path) {
		opts.ConfigFilePath = path
	}
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return err
	}

	switch key {
	case "log.level":
		cfg.Log.Level = config.LogLevel(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		if cfg.UI.Verbose, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid ui.verbose: %w", err)
		}
	case "check.format":
		cfg.Check.Format = config.OutputFormat(value)
	case "check.fail_on_mismatch":
		if cfg.Check.FailOnMismatch, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid check.fail_on_mismatch: %w", err)
		}
	case "watch.patterns":
		cfg.Watch.Patterns = splitPatterns(value)
	case "watch.ignore":
		cfg.Watch.Ignore = splitPatterns(value)
	case "watch.debounce":
		if cfg.Watch.Debounce, err = time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid watch.debounce: %w", err)
		}
	case "watch.clear_screen":
		if cfg.Watch.ClearScreen, err = strconv.ParseBool(value); err != nil {
			return fmt.Errorf("invalid watch.clear_screen: %w", err)
		}
	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(configKeys, ", "))
	}

	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func splitPatterns(value string) []config.WatchPattern {
	var out []config.WatchPattern
	for p := range strings.SplitSeq(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, config.WatchPattern(p))
		}
	}
	return out
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
