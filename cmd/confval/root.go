// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/config"
	"github.com/confval/confval/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// colorScheme is the resolved UI color scheme, used for issue rendering.
	colorScheme = config.ColorSchemeAuto

	// appInstance is the production App shared by all command factories.
	appInstance = NewApp(Dependencies{})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "confval",
		Short: "Inspect and edit structured configuration documents",
		Long: TitleStyle.Render("confval") + SubtitleStyle.Render(" - Inspect and edit structured configuration documents") + `

confval reads JSON, YAML, TOML, and CUE documents into one dynamic value
model, addresses values inside them with keyed paths, and writes them
back in any supported format.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Point confval at a document with -f (or pipe it on stdin)
  2. Address values with dotted paths: server.ports[0].name
  3. Re-run automatically on file changes with --watch

` + SubtitleStyle.Render("Examples:") + `
  confval get -f app.yaml server.port        Print a single value
  confval get -f app.yaml -o toml server     Re-encode a subtree as TOML
  confval set -f app.yaml server.port 8080   Update a value in place
  confval convert -f app.yaml --to json      Convert the whole document
  confval config show                        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/confval/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newGetCommand(appInstance))
	rootCmd.AddCommand(newSetCommand(appInstance))
	rootCmd.AddCommand(newConvertCommand(appInstance))
	rootCmd.AddCommand(newConfigCommand(appInstance))
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			renderServiceError(os.Stderr, svcErr, colorScheme)
		}

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig installs the default logger and reads the config file.
func initRootConfig() {
	// Install a charmbracelet handler behind the slog API. Library packages
	// never log; everything routed through slog comes from the CLI layer or
	// internal packages reporting non-fatal conditions.
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "confval",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))

	// Load configuration
	cfg, cfgPath, err := appInstance.Config.Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}

	// Apply verbose from config if not set via flag
	if !verbose && cfg.UI.Verbose {
		verbose = true
		logger.SetLevel(log.DebugLevel)
	}

	if verbose {
		source := "built-in defaults"
		if cfgPath != "" {
			source = cfgPath
		}
		fmt.Fprintln(os.Stderr, VerboseStyle.Render("Config: "+source))
	}

	colorScheme = cfg.UI.ColorScheme
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

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
