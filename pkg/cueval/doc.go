// SPDX-License-Identifier: MPL-2.0

// Package cueval bridges CUE documents and confval Values.
//
// Parse compiles CUE source, optionally unifies it against a schema, and
// walks the resulting cue.Value into a confval.Value. FromCue and ToCue
// expose the structural conversion directly for callers that already hold a
// cue.Value or a *cue.Context. Source renders a Value back to formatted CUE
// text.
//
// CUE is a superset of the Value data model (constraints, disjunctions,
// arbitrary-precision numbers), so the bridge is partial in that direction:
// non-concrete values and integers wider than the int payload are reported
// as errors rather than approximated.
package cueval
