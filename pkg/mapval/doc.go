// SPDX-License-Identifier: MPL-2.0

// Package mapval defines Value, a dynamic, JSON-shaped value type: a closed
// union of string, int, float, bool, array, dictionary, and null.
//
// mapval is the neutral interchange shape other value types bridge through.
// It deliberately stays small: variant constructors and accessors, structural
// equality, the Marshaler/Unmarshaler conversion pair, and the keyed path
// capability. Richer affordances (format codecs, typed decoding, native Go
// bridging) belong to the packages that build on it.
package mapval
