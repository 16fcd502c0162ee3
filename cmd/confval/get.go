// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/config"
	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/internal/watch"
	"github.com/confval/confval/pkg/codec"
	"github.com/confval/confval/pkg/keyed"
)

// errNoValue reports that the document holds no value at the requested path.
// It is not a hard failure: get exits 1 without an error card.
var errNoValue = errors.New("no value at path")

// outputRaw is the pseudo-format that prints scalars bare.
const outputRaw = "raw"

// getOptions holds the flag values for `confval get`.
type getOptions struct {
	file       string
	format     string
	output     string
	indent     int
	watch      bool
	configPath string
}

// newGetCommand creates the `confval get` command.
func newGetCommand(app *App) *cobra.Command {
	opts := getOptions{}

	getCmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the value at a path inside a document",
		Long: `Print the value at a keyed path inside a structured document.

Paths use dotted keys with bracketed indexes: server.ports[0].name.
Keys containing metacharacters go in bracketed quotes: settings["a.b"].
A lone '.' addresses the whole document.

The input format is detected from the file extension; --format overrides
the detection, and stdin defaults to json. The output format defaults to
the configured one. The 'raw' output format prints scalars bare, which
is what shell scripts usually want.

Exit status is 1 when the document has no value at the path.

Examples:
  confval get -f app.yaml server.port
  confval get -f app.yaml -o toml server
  confval get -f app.toml -o raw title
  cat app.json | confval get users[0].name
  confval get -f app.yaml --watch server`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = cfgFile
			return runGet(cmd, app, opts, args[0])
		},
	}

	getCmd.Flags().StringVarP(&opts.file, "file", "f", stdinName, "document to read ('-' for stdin)")
	getCmd.Flags().StringVar(&opts.format, "format", "", "input format: json, yaml, toml, cue (default: detect from extension)")
	getCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: json, yaml, toml, cue, raw (default: from config)")
	getCmd.Flags().IntVar(&opts.indent, "indent", -1, "indentation width (default: from config)")
	getCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-print the value whenever the document changes")

	return getCmd
}

func runGet(cmd *cobra.Command, app *App, opts getOptions, pathArg string) error {
	ctx := cmd.Context()

	path, err := keyed.ParsePath(pathArg)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cfg, _, err := loadConfigOrDefault(ctx, app, opts.configPath)
	if err != nil {
		return err
	}

	inFormat, err := resolveFormat(opts.format, opts.file)
	if err != nil {
		return err
	}

	raw := opts.output == outputRaw
	outFormat := inFormat
	switch {
	case raw:
		// renderValue ignores the format for scalars.
	case opts.output != "":
		outFormat, err = codec.ParseFormat(opts.output)
		if err != nil {
			return newServiceError(err, issue.UnknownFormatId, "")
		}
	default:
		outFormat, err = cfg.Output.Format.Format()
		if err != nil {
			return err
		}
	}

	indent := opts.indent
	if indent < 0 {
		indent = int(cfg.Output.Indent)
	}

	render := func(ctx context.Context) error {
		doc, err := readDocument(app, opts.file, inFormat)
		if err != nil {
			return err
		}

		v, ok := doc.Get(path...)
		if !ok {
			fmt.Fprintln(app.stderr, SubtitleStyle.Render(fmt.Sprintf("no value at path %q", path.String())))
			return errNoValue
		}

		out, err := renderValue(v, raw, outFormat, indent)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(out)
		return err
	}

	if !opts.watch {
		err := render(ctx)
		if errors.Is(err, errNoValue) {
			// The styled message already went to stderr.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 1, Err: err}
		}
		return err
	}

	return runGetWatch(ctx, app, cfg.Watch, opts.file, render)
}

// runGetWatch renders once, then re-renders on every document change until
// the context is cancelled. Render failures (a half-saved edit that does not
// parse, a path that no longer resolves) are reported and the loop keeps
// going so the user can fix the document and save again.
func runGetWatch(ctx context.Context, app *App, watchCfg config.WatchConfig, file string, render func(context.Context) error) error {
	if file == stdinName {
		return fmt.Errorf("--watch requires a file (-f)")
	}

	reportedRender := func(ctx context.Context) error {
		if err := render(ctx); err != nil && !errors.Is(err, errNoValue) {
			fmt.Fprintf(app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
		}
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Watching %s (Ctrl+C to stop)\n\n", VerboseHighlightStyle.Render("→"), file)
	_ = reportedRender(ctx)

	w, err := watch.New(watch.Config{
		Files:       []string{file},
		Debounce:    watchCfg.Debounce.Duration(),
		ClearScreen: watchCfg.ClearScreen,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(ctx context.Context, _ []string) error {
			return reportedRender(ctx)
		},
	})
	if err != nil {
		return newServiceError(err, issue.WatchFailedId, "")
	}
	return w.Run(ctx)
}
