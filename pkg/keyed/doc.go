// SPDX-License-Identifier: MPL-2.0

// Package keyed provides path-based access to nested keyed structures.
//
// A path is an ordered sequence of components, each addressing one level of
// nesting: a string key into a dictionary-like level or a non-negative integer
// index into an array-like level. The package defines the path representation
// (Component, Path), a text syntax for paths ("servers[0].host"), and generic
// Get/Set algorithms over any type that implements the Keyed capability.
//
// Paths are ephemeral: they carry no reference to the structure they address.
// Set never mutates the structure it is given; it returns a rebuilt copy with
// the change applied, so callers can share values freely across goroutines.
package keyed
