// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/config"
	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/internal/watch"
	"github.com/confval/confval/pkg/codec"
)

// convertOptions holds the flag values for `confval convert`.
type convertOptions struct {
	file       string
	format     string
	to         string
	output     string
	write      bool
	watch      bool
	configPath string
}

// conversion is one input document and where its converted form goes.
// An empty output means stdout.
type conversion struct {
	input     string
	output    string
	inFormat  codec.Format
	outFormat codec.Format
}

// newConvertCommand creates the `confval convert` command.
func newConvertCommand(app *App) *cobra.Command {
	opts := convertOptions{}

	convertCmd := &cobra.Command{
		Use:   "convert [pattern...]",
		Short: "Convert documents between formats",
		Long: `Convert structured documents between json, yaml, toml, and cue.

A single document comes from -f (or stdin) and goes to -o or stdout; the
target format is taken from --to or from -o's extension.

Glob patterns select multiple documents instead of -f. Batch conversion
requires --write, which places each converted document next to its
source with the new extension. Patterns support ** for recursive
matching.

With --watch, confval keeps converting: whenever a source document
changes, its converted form is rewritten. All inputs and outputs must be
files for --watch to work.

Examples:
  confval convert -f app.yaml --to json
  confval convert -f app.yaml -o app.toml
  confval convert --write --to yaml 'configs/**/*.json'
  confval convert --write --to yaml --watch 'configs/**/*.json'`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = cfgFile
			return runConvert(cmd, app, opts, args)
		},
	}

	convertCmd.Flags().StringVarP(&opts.file, "file", "f", stdinName, "document to convert ('-' for stdin)")
	convertCmd.Flags().StringVar(&opts.format, "format", "", "input format: json, yaml, toml, cue (default: detect from extension)")
	convertCmd.Flags().StringVar(&opts.to, "to", "", "target format: json, yaml, toml, cue")
	convertCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	convertCmd.Flags().BoolVar(&opts.write, "write", false, "write each converted document next to its source")
	convertCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-convert whenever a source document changes")

	return convertCmd
}

func runConvert(cmd *cobra.Command, app *App, opts convertOptions, patterns []string) error {
	ctx := cmd.Context()

	cfg, _, err := loadConfigOrDefault(ctx, app, opts.configPath)
	if err != nil {
		return err
	}
	indent := int(cfg.Output.Indent)

	if len(patterns) > 0 {
		return runBatchConvert(ctx, app, cfg.Watch, opts, patterns, indent)
	}
	return runSingleConvert(ctx, app, cfg.Watch, opts, indent)
}

// runSingleConvert converts one document from -f or stdin.
func runSingleConvert(ctx context.Context, app *App, watchCfg config.WatchConfig, opts convertOptions, indent int) error {
	if opts.write {
		return fmt.Errorf("--write requires glob patterns; use -o for a single document")
	}

	inFormat, err := resolveFormat(opts.format, opts.file)
	if err != nil {
		return err
	}

	var target codec.Format
	switch {
	case opts.to != "":
		target, err = codec.ParseFormat(opts.to)
		if err != nil {
			return newServiceError(err, issue.UnknownFormatId, "")
		}
	case opts.output != "":
		var ok bool
		target, ok = codec.DetectFormat(opts.output)
		if !ok {
			return newServiceError(
				fmt.Errorf("cannot detect the target format of %q from its extension", opts.output),
				issue.UnknownFormatId, "")
		}
	default:
		return fmt.Errorf("either --to or -o with a recognizable extension is required")
	}

	conv := conversion{input: opts.file, output: opts.output, inFormat: inFormat, outFormat: target}

	if !opts.watch {
		return convertOne(app, conv, indent)
	}

	if conv.input == stdinName {
		return fmt.Errorf("--watch requires a file (-f)")
	}
	if conv.output == "" {
		return fmt.Errorf("--watch requires a file output (-o)")
	}

	if err := convertOne(app, conv, indent); err != nil {
		fmt.Fprintf(app.stderr, "%s %s: %v\n", ErrorStyle.Render("✗"), conv.input, err)
	}
	return watchConversions(ctx, app, watchCfg, []conversion{conv}, indent)
}

// runBatchConvert converts every document matched by the glob patterns,
// writing each result next to its source with the target extension.
func runBatchConvert(ctx context.Context, app *App, watchCfg config.WatchConfig, opts convertOptions, patterns []string, indent int) error {
	if opts.file != stdinName {
		return fmt.Errorf("-f cannot be combined with glob patterns")
	}
	if opts.output != "" {
		return fmt.Errorf("-o cannot be combined with glob patterns; batch conversion uses --write")
	}
	if !opts.write {
		return fmt.Errorf("batch conversion requires --write")
	}
	if opts.to == "" {
		return fmt.Errorf("batch conversion requires --to")
	}

	target, err := codec.ParseFormat(opts.to)
	if err != nil {
		return newServiceError(err, issue.UnknownFormatId, "")
	}

	convs, err := expandPatterns(opts, patterns, target)
	if err != nil {
		return err
	}

	var errs []error
	for _, conv := range convs {
		if err := convertOne(app, conv, indent); err != nil {
			fmt.Fprintf(app.stderr, "%s %s: %v\n", ErrorStyle.Render("✗"), conv.input, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(app.stdout, "%s %s %s %s\n", SuccessStyle.Render("✓"), conv.input, SubtitleStyle.Render("to"), conv.output)
	}

	if !opts.watch {
		return errors.Join(errs...)
	}

	// Initial conversion failures are not fatal in watch mode; the watcher
	// picks the file up again on the next save.
	return watchConversions(ctx, app, watchCfg, convs, indent)
}

// expandPatterns resolves glob patterns into a deduplicated conversion list.
// Sources already carrying the target extension are skipped, so a pattern
// like 'configs/**/*' does not rewrite files onto themselves.
func expandPatterns(opts convertOptions, patterns []string, target codec.Format) ([]conversion, error) {
	var (
		convs []conversion
		seen  = make(map[string]bool)
	)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			output := siblingPath(match, target)
			if output == match {
				continue
			}

			inFormat, err := resolveFormat(opts.format, match)
			if err != nil {
				return nil, err
			}
			convs = append(convs, conversion{input: match, output: output, inFormat: inFormat, outFormat: target})
		}
	}

	if len(convs) == 0 {
		return nil, fmt.Errorf("no files to convert matched %s", strings.Join(patterns, ", "))
	}
	return convs, nil
}

// siblingPath swaps a file's extension for the target format's.
func siblingPath(path string, target codec.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + target.String()
}

// convertOne decodes a single document and re-encodes it at its destination.
func convertOne(app *App, c conversion, indent int) error {
	doc, err := readDocument(app, c.input, c.inFormat)
	if err != nil {
		return err
	}

	out, err := codec.Encode(doc, c.outFormat, codec.WithIndent(indent))
	if err != nil {
		return newServiceError(err, issue.EncodeFailedId, "")
	}

	if c.output == "" {
		_, err = app.stdout.Write(out)
		return err
	}
	return writeFileAtomic(c.output, out)
}

// watchConversions re-converts each source document whenever it changes,
// until the context is cancelled. Per-file failures are reported and the
// loop keeps going.
func watchConversions(ctx context.Context, app *App, watchCfg config.WatchConfig, convs []conversion, indent int) error {
	byInput := make(map[string]conversion, len(convs))
	files := make([]string, 0, len(convs))
	for _, conv := range convs {
		byInput[conv.input] = conv
		files = append(files, conv.input)
	}

	fmt.Fprintf(app.stdout, "\n%s Watching %d file(s) (Ctrl+C to stop)\n\n", VerboseHighlightStyle.Render("→"), len(files))

	w, err := watch.New(watch.Config{
		Files:       files,
		Debounce:    watchCfg.Debounce.Duration(),
		ClearScreen: watchCfg.ClearScreen,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(_ context.Context, changed []string) error {
			for _, input := range changed {
				conv, ok := byInput[input]
				if !ok {
					continue
				}
				if err := convertOne(app, conv, indent); err != nil {
					fmt.Fprintf(app.stderr, "%s %s: %v\n", ErrorStyle.Render("✗"), conv.input, err)
					continue
				}
				fmt.Fprintf(app.stdout, "%s %s %s %s\n", SuccessStyle.Render("✓"), conv.input, SubtitleStyle.Render("to"), conv.output)
			}
			return nil
		},
	})
	if err != nil {
		return newServiceError(err, issue.WatchFailedId, "")
	}
	return w.Run(ctx)
}
