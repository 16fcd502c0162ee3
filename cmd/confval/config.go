// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/config"
	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/keyed"
)

// newConfigCommand creates the `confval config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage confval configuration",
		Long: `Manage confval configuration.

Configuration is stored in:
  - Linux: ~/.config/confval/config.cue
  - macOS: ~/Library/Application Support/confval/config.cue
  - Windows: %APPDATA%\confval\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by its dotted key.

Keys address the configuration the same way document paths address
documents: output.format, output.indent, ui.color_scheme, ui.verbose,
watch.debounce_ms, watch.clear_screen.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				return err
			}

			cueContent, err := config.GenerateCUE(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, cueContent)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, path, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(app.stdout, "  format: %s\n", valueStyle.Render(string(cfg.Output.Format)))
	fmt.Fprintf(app.stdout, "  indent: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Output.Indent)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(app.stdout, "  debounce_ms: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Watch.Debounce)))
	fmt.Fprintf(app.stdout, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	return nil
}

func initConfigFile(app *App) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

// setConfigValue updates one configuration key through the same value model
// the CLI applies to documents: the loaded config is represented as a Value,
// the keyed write lands on it, and the result is decoded and validated
// before being saved.
func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, _, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	path, err := keyed.ParsePath(key)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}

	doc, err := confval.Represent(cfg)
	if err != nil {
		return fmt.Errorf("failed to bridge configuration: %w", err)
	}

	// A keyed write would silently materialize unknown keys, so check the
	// key exists before writing.
	if _, ok := doc.Get(path...); !ok {
		return fmt.Errorf("unknown configuration key %q\nValid keys: output.format, output.indent, ui.color_scheme, ui.verbose, watch.debounce_ms, watch.clear_screen", key)
	}

	literal, err := parseLiteral(value, typeAuto)
	if err != nil {
		return err
	}

	updated, err := confval.Decode[config.Config](doc.Set(literal, path...))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if ok, errs := updated.IsValid(); !ok {
		return errors.Join(errs...)
	}

	if err := config.Save(&updated); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
