// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/confval/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/confval/config.cue on macOS, %APPDATA%\confval\config.cue
// on Windows). The package provides type-safe access to output formatting, UI, and watch
// mode settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations. The loaded file
// travels the same parsing pipeline as user documents, so schema errors read the same way
// document errors do.
package config
