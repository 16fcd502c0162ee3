// SPDX-License-Identifier: MPL-2.0

// Package confval implements Value, a dynamically shaped configuration value:
// a closed union of string, int, float, bool, array, dictionary, and null.
//
// Value is the in-memory currency for configuration documents. Format codecs
// parse JSON, YAML, TOML, and CUE into it, path expressions address into it,
// and typed Go code converts out of it. Three layers build on the core union:
//
//   - Accessors. Each variant has a comma-ok accessor (AsString, AsInt,
//     AsFloat, AsBool, AsArray, AsDict) that matches only its own variant.
//     There is no implicit coercion anywhere: an int Value is not a float,
//     "true" is not a bool, and absence is distinct from null.
//
//   - Conversion. The Marshaler and Unmarshaler interfaces let domain types
//     describe themselves as Values and rebuild themselves from Values.
//     Decoder and Encoder function values compose element-wise over slices,
//     maps, and pointers, and Decode/Represent bridge whole structs through
//     mapstructure. Failures are reported as ConversionError values carrying
//     the path, the target type, and the offending variant.
//
//   - Paths. Value implements the keyed capability, so keyed paths read and
//     write nested values: Get resolves a path with comma-ok semantics, and
//     Set returns an updated copy, materializing empty dictionaries for
//     missing intermediate levels. Values are never mutated in place.
//
// The sibling package mapval defines a structurally identical value type used
// as a neutral interchange shape; FromMap and ToMap convert between the two
// without loss in either direction.
package confval
