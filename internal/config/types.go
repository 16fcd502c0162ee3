// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/confval/confval/pkg/codec"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MinIndentWidth is the smallest accepted indent width.
	MinIndentWidth IndentWidth = 0
	// MaxIndentWidth is the largest accepted indent width.
	MaxIndentWidth IndentWidth = 16
)

var (
	// ErrInvalidFormatName is returned when a FormatName value is not recognized.
	ErrInvalidFormatName = errors.New("invalid format name")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidIndentWidth is returned when an IndentWidth value is out of range.
	ErrInvalidIndentWidth = errors.New("invalid indent width")
	// ErrInvalidDebounce is returned when a DebounceMillis value is negative.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidOutputConfig is the sentinel error wrapped by InvalidOutputConfigError.
	ErrInvalidOutputConfig = errors.New("invalid output config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// FormatName names a document format in configuration ("json", "yaml",
	// "toml", "cue"). Only the canonical names validate; the codec's "yml"
	// flag alias is not a valid configuration value, matching the schema
	// enum in config_schema.cue.
	FormatName string

	// InvalidFormatNameError is returned when a FormatName value is not recognized.
	// It wraps ErrInvalidFormatName for errors.Is() compatibility.
	InvalidFormatNameError struct {
		Value FormatName
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// IndentWidth is the number of spaces used per indentation level when
	// rendering JSON or YAML. Valid values range from MinIndentWidth to
	// MaxIndentWidth inclusive.
	IndentWidth int

	// InvalidIndentWidthError is returned when an IndentWidth value is out of range.
	// It wraps ErrInvalidIndentWidth for errors.Is() compatibility.
	InvalidIndentWidthError struct {
		Value IndentWidth
	}

	// DebounceMillis is the quiet period, in milliseconds, between a watched
	// file changing and the output re-rendering. Must not be negative.
	DebounceMillis int

	// InvalidDebounceError is returned when a DebounceMillis value is negative.
	// It wraps ErrInvalidDebounce for errors.Is() compatibility.
	InvalidDebounceError struct {
		Value DebounceMillis
	}

	// InvalidOutputConfigError is returned when an OutputConfig has invalid fields.
	// It wraps ErrInvalidOutputConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidOutputConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidWatchConfigError is returned when a WatchConfig has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility and collects
	// field-level validation errors.
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
		// Output configures how documents are rendered.
		Output OutputConfig `confval:"output" mapstructure:"output"`
		// UI configures the user interface.
		UI UIConfig `confval:"ui" mapstructure:"ui"`
		// Watch configures watch mode.
		Watch WatchConfig `confval:"watch" mapstructure:"watch"`
	}

	// OutputConfig configures how documents are rendered.
	OutputConfig struct {
		// Format is the default output format for get, convert, and config dump.
		Format FormatName `confval:"format" mapstructure:"format"`
		// Indent is the indent width for JSON and YAML output.
		Indent IndentWidth `confval:"indent" mapstructure:"indent"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `confval:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `confval:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is the quiet period between a file change and a re-render.
		Debounce DebounceMillis `confval:"debounce_ms" mapstructure:"debounce_ms"`
		// ClearScreen clears the terminal before each re-render.
		ClearScreen bool `confval:"clear_screen" mapstructure:"clear_screen"`
	}
)

// String returns the string representation of the FormatName.
func (f FormatName) String() string { return string(f) }

// Format resolves the name to a codec.Format.
func (f FormatName) Format() (codec.Format, error) {
	return codec.ParseFormat(string(f))
}

// IsValid returns whether the FormatName is one of the canonical format
// names, and a list of validation errors if it is not.
func (f FormatName) IsValid() (bool, []error) {
	if !slices.Contains(codec.FormatNames(), string(f)) {
		return false, []error{&InvalidFormatNameError{Value: f}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFormatNameError.
func (e *InvalidFormatNameError) Error() string {
	return fmt.Sprintf("invalid format name %q (valid: %s)", e.Value, strings.Join(codec.FormatNames(), ", "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFormatNameError) Unwrap() error {
	return ErrInvalidFormatName
}

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

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// IsValid returns whether the IndentWidth lies within the accepted range,
// and a list of validation errors if it does not.
func (w IndentWidth) IsValid() (bool, []error) {
	if w < MinIndentWidth || w > MaxIndentWidth {
		return false, []error{&InvalidIndentWidthError{Value: w}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIndentWidthError.
func (e *InvalidIndentWidthError) Error() string {
	return fmt.Sprintf("invalid indent width %d (valid: %d through %d)", e.Value, MinIndentWidth, MaxIndentWidth)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIndentWidthError) Unwrap() error {
	return ErrInvalidIndentWidth
}

// Duration converts the debounce to a time.Duration.
func (d DebounceMillis) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// IsValid returns whether the DebounceMillis is non-negative,
// and a list of validation errors if it is not.
func (d DebounceMillis) IsValid() (bool, []error) {
	if d < 0 {
		return false, []error{&InvalidDebounceError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid debounce %dms: must not be negative", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error {
	return ErrInvalidDebounce
}

// IsValid returns whether the OutputConfig has valid fields.
// It delegates to Format.IsValid() and Indent.IsValid().
func (c OutputConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Indent.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidOutputConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputConfigError.
func (e *InvalidOutputConfigError) Error() string {
	return fmt.Sprintf("invalid output config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidOutputConfig for errors.Is() compatibility.
func (e *InvalidOutputConfigError) Unwrap() error { return ErrInvalidOutputConfig }

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

// IsValid returns whether the WatchConfig has valid fields.
// It delegates to Debounce.IsValid(); bool fields need no validation.
func (c WatchConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Debounce.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
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
// It delegates to Output.IsValid(), UI.IsValid(), and Watch.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Output.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
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
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatName(codec.FormatJSON.String()),
			Indent: IndentWidth(codec.DefaultIndent),
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce:    500,
			ClearScreen: false,
		},
	}
}
