// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/cueval"
	"github.com/confval/confval/pkg/keyed"
)

// Decode parses data in the given format into a confval.Value.
//
// Number classification follows each format's own syntax: integer literals
// become int Values and everything else numeric becomes a float. Empty YAML
// input decodes as null and empty TOML input as an empty dictionary, per
// those formats' semantics.
func Decode(data []byte, f Format, opts ...Option) (confval.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatJSON:
		var v confval.Value
		if err := json.Unmarshal(data, &v); err != nil {
			return confval.Value{}, decodeError(o, "JSON", err)
		}
		return v, nil

	case FormatYAML:
		// An empty document is null in YAML.
		if len(bytes.TrimSpace(data)) == 0 {
			return confval.Null(), nil
		}
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return confval.Value{}, decodeError(o, "YAML", err)
		}
		v, err := confval.FromNative(raw)
		if err != nil {
			return confval.Value{}, decodeError(o, "YAML", err)
		}
		return v, nil

	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return confval.Value{}, decodeError(o, "TOML", err)
		}
		if raw == nil {
			// An empty document is an empty table in TOML.
			return confval.EmptyDict(), nil
		}
		v, err := confval.FromNative(normalizeTOML(raw))
		if err != nil {
			return confval.Value{}, decodeError(o, "TOML", err)
		}
		return v, nil

	case FormatCUE:
		// cueval reports the filename itself.
		return cueval.Parse(data, cueval.WithFilename(o.filename))

	default:
		return confval.Value{}, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// Encode renders a confval.Value in the given format. Output is
// deterministic (sorted dictionary keys) and always ends with a newline.
//
// TOML cannot represent every Value: the root must be a dictionary and null
// must not appear anywhere; violations are reported as ConversionErrors
// carrying the offending path.
func Encode(v confval.Value, f Format, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var (
		out []byte
		err error
	)
	switch f {
	case FormatJSON:
		if o.indent > 0 {
			out, err = json.MarshalIndent(v, "", strings.Repeat(" ", o.indent))
		} else {
			out, err = json.Marshal(v)
		}

	case FormatYAML:
		indent := o.indent
		if indent <= 0 {
			indent = DefaultIndent
		}
		out, err = yaml.MarshalWithOptions(yamlNode(v), yaml.Indent(indent))

	case FormatTOML:
		if v.Kind() != confval.KindDict {
			return nil, &confval.ConversionError{
				Target: "TOML",
				Got:    v.Kind(),
				Detail: "top level must be a dictionary",
			}
		}
		if path, found := findNull(v, nil); found {
			return nil, &confval.ConversionError{
				Path:   path,
				Target: "TOML",
				Detail: "null is not representable",
			}
		}
		out, err = toml.Marshal(v.ToNative())

	case FormatCUE:
		out, err = cueval.Source(v)

	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}

	if err != nil {
		return nil, err
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

func decodeError(o codecOptions, format string, err error) error {
	if o.filename != "" {
		return fmt.Errorf("%s: invalid %s: %w", o.filename, format, err)
	}
	return fmt.Errorf("invalid %s: %w", format, err)
}

// yamlNode converts a Value into the shape handed to the YAML encoder,
// using ordered maps so dictionary keys come out sorted.
func yamlNode(v confval.Value) any {
	switch v.Kind() {
	case confval.KindArray:
		elems, _ := v.AsArray()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = yamlNode(e)
		}
		return out
	case confval.KindDict:
		dict, _ := v.AsDict()
		out := make(yaml.MapSlice, 0, len(dict))
		for _, k := range v.Keys() {
			out = append(out, yaml.MapItem{Key: k, Value: yamlNode(dict[k])})
		}
		return out
	default:
		return v.ToNative()
	}
}

// normalizeTOML rewrites decoder-specific date types into their string
// forms so the generic bridge can classify them.
func normalizeTOML(in any) any {
	switch x := in.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeTOML(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalizeTOML(e)
		}
		return x
	case toml.LocalDate:
		return x.String()
	case toml.LocalDateTime:
		return x.String()
	case toml.LocalTime:
		return x.String()
	default:
		return x
	}
}

// findNull locates the first null in the Value, walking dictionaries in
// sorted key order so the reported path is stable.
func findNull(v confval.Value, prefix keyed.Path) (keyed.Path, bool) {
	switch v.Kind() {
	case confval.KindNull:
		return prefix, true
	case confval.KindArray:
		elems, _ := v.AsArray()
		for i, e := range elems {
			if path, found := findNull(e, append(prefix, keyed.Index(i))); found {
				return path, true
			}
		}
	case confval.KindDict:
		dict, _ := v.AsDict()
		for _, k := range v.Keys() {
			if path, found := findNull(dict[k], append(prefix, keyed.Key(k))); found {
				return path, true
			}
		}
	}
	return nil, false
}
