// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/pkg/codec"
	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/keyed"
)

// Value interpretation modes for --type.
const (
	typeAuto   = "auto"
	typeString = "string"
	typeInt    = "int"
	typeFloat  = "float"
	typeBool   = "bool"
	typeNull   = "null"
	typeJSON   = "json"
)

// setOptions holds the flag values for `confval set`.
type setOptions struct {
	file       string
	format     string
	valueType  string
	configPath string
}

// newSetCommand creates the `confval set` command.
func newSetCommand(app *App) *cobra.Command {
	opts := setOptions{}

	setCmd := &cobra.Command{
		Use:   "set <path> [value]",
		Short: "Write a value at a path inside a document",
		Long: `Write a value at a keyed path inside a structured document.

The value argument is read as a JSON literal when possible (42, true,
null, "text", [1, 2], {"a": 1}) and falls back to a plain string; --type
forces one interpretation. Setting null writes an explicit null, which
is how keys are cleared.

Missing intermediate dictionaries are created on the way to the path.
Writes through an out-of-range array index change nothing: the command
succeeds and the document is rewritten unchanged.

With -f the file is rewritten in place; with stdin the updated document
goes to stdout. The document is re-encoded in its own format.

Examples:
  confval set -f app.yaml server.port 8080
  confval set -f app.yaml server.name prod-1
  confval set -f app.json features '["fast", "safe"]'
  confval set -f app.yaml idle_timeout --type null
  cat app.json | confval set debug true > app-debug.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath = cfgFile
			value := ""
			if len(args) > 1 {
				value = args[1]
			} else if opts.valueType != typeNull {
				return fmt.Errorf("a value argument is required unless --type null is given")
			}
			return runSet(cmd, app, opts, args[0], value)
		},
	}

	setCmd.Flags().StringVarP(&opts.file, "file", "f", stdinName, "document to rewrite ('-' reads stdin and writes stdout)")
	setCmd.Flags().StringVar(&opts.format, "format", "", "document format: json, yaml, toml, cue (default: detect from extension)")
	setCmd.Flags().StringVarP(&opts.valueType, "type", "t", typeAuto, "value interpretation: auto, string, int, float, bool, null, json")

	return setCmd
}

func runSet(cmd *cobra.Command, app *App, opts setOptions, pathArg, valueArg string) error {
	ctx := cmd.Context()

	path, err := keyed.ParsePath(pathArg)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	value, err := parseLiteral(valueArg, opts.valueType)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfigOrDefault(ctx, app, opts.configPath)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, opts.file)
	if err != nil {
		return err
	}

	doc, err := readDocument(app, opts.file, format)
	if err != nil {
		return err
	}

	updated := doc.Set(value, path...)

	out, err := codec.Encode(updated, format, codec.WithIndent(int(cfg.Output.Indent)))
	if err != nil {
		return newServiceError(err, issue.EncodeFailedId, "")
	}

	if opts.file == stdinName {
		_, err = app.stdout.Write(out)
		return err
	}

	if err := writeFileAtomic(opts.file, out); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s Set %s in %s\n", SuccessStyle.Render("✓"), path.String(), opts.file)
	return nil
}

// parseLiteral interprets a command-line value argument as a Value.
//
// Auto mode tries the text as a JSON literal first, so numbers, booleans,
// null, quoted strings, arrays, and objects all read naturally; text that is
// not valid JSON becomes a plain string. The typed modes force one
// interpretation, with cast accepting the usual spellings ("1", "t", "TRUE"
// all make a true bool).
func parseLiteral(text, valueType string) (confval.Value, error) {
	switch valueType {
	case typeAuto:
		var v confval.Value
		if err := json.Unmarshal([]byte(text), &v); err == nil {
			return v, nil
		}
		return confval.String(text), nil

	case typeJSON:
		var v confval.Value
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			return confval.Value{}, fmt.Errorf("invalid JSON literal %q: %w", text, err)
		}
		return v, nil

	case typeString:
		return confval.String(text), nil

	case typeInt:
		i, err := cast.ToIntE(text)
		if err != nil {
			return confval.Value{}, fmt.Errorf("invalid int %q: %w", text, err)
		}
		return confval.Int(i), nil

	case typeFloat:
		f, err := cast.ToFloat64E(text)
		if err != nil {
			return confval.Value{}, fmt.Errorf("invalid float %q: %w", text, err)
		}
		return confval.Float(f), nil

	case typeBool:
		b, err := cast.ToBoolE(text)
		if err != nil {
			return confval.Value{}, fmt.Errorf("invalid bool %q: %w", text, err)
		}
		return confval.Bool(b), nil

	case typeNull:
		return confval.Null(), nil

	default:
		return confval.Value{}, fmt.Errorf("unknown value type %q (valid: %s, %s, %s, %s, %s, %s, %s)",
			valueType, typeAuto, typeString, typeInt, typeFloat, typeBool, typeNull, typeJSON)
	}
}
