// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/confval/confval/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and reach configuration and the standard streams through it.
	App struct {
		Config config.Provider
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// buffers and mock providers to observe command behavior.
	Dependencies struct {
		Config config.Provider
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
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
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfigOrDefault loads the CLI configuration through the App's provider.
//
// Failure handling depends on how the config was requested. An explicit
// --config path that cannot be loaded is a hard error: the user named that
// file and silently ignoring it would be worse than stopping. A broken or
// unreadable default-location config only degrades output defaults, so it is
// reported as a warning on stderr and replaced with DefaultConfig to keep
// document operations working.
func loadConfigOrDefault(ctx context.Context, app *App, configPath string) (*config.Config, string, error) {
	cfg, path, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, path, nil
	}

	if configPath != "" {
		return nil, "", err
	}

	fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, GetVerbose()))
	return config.DefaultConfig(), "", nil
}
