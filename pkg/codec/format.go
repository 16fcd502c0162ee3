// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for names outside the
// supported set.
var ErrUnknownFormat = errors.New("unknown format")

// Format identifies a configuration file format.
type Format uint8

const (
	// FormatJSON is JSON as read by encoding/json.
	FormatJSON Format = iota
	// FormatYAML is YAML 1.2.
	FormatYAML
	// FormatTOML is TOML 1.0.
	FormatTOML
	// FormatCUE is CUE source, evaluated to concrete data.
	FormatCUE
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatCUE:
		return "cue"
	default:
		return "invalid"
	}
}

// FormatNames lists the accepted format names in display order, for flag
// help and error messages.
func FormatNames() []string {
	return []string{"json", "yaml", "toml", "cue"}
}

// ParseFormat maps a format name to its Format. "yml" is accepted as an
// alias for YAML. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "cue":
		return FormatCUE, nil
	default:
		return 0, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, s, strings.Join(FormatNames(), ", "))
	}
}

// DetectFormat infers the format from a file path's extension. The second
// result is false when the extension is not recognized.
func DetectFormat(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".cue":
		return FormatCUE, true
	default:
		return 0, false
	}
}
