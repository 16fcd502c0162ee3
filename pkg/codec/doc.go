// SPDX-License-Identifier: MPL-2.0

// Package codec encodes and decodes confval Values in the configuration
// formats the tool speaks: JSON, YAML, TOML, and CUE.
//
// All syntax handling is delegated to the format libraries; this package
// only maps between their native shapes and the Value data model. Decoding
// classifies numbers by syntax, so 1 is an int and 1.0 is a float in every
// format that makes the distinction. Encoding is deterministic: dictionary
// keys are emitted in sorted order.
//
// The formats differ in expressiveness. TOML has no null and requires a
// table at the top level, so Encode reports a ConversionError with the
// offending path instead of silently dropping values.
package codec
