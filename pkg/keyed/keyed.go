// SPDX-License-Identifier: MPL-2.0

package keyed

// Keyed is the capability a value type implements to support path-based
// access. T is the implementing type itself, so implementations read like
//
//	func (v Value) KeyedGet(c keyed.Component) (Value, bool)
//	func (v Value) KeyedSet(c keyed.Component, child Value) Value
//	func (v Value) KeyedEmpty() Value
//
// KeyedGet resolves a single component against the receiver, reporting
// absence (wrong shape, missing key, out-of-range index) with false.
// KeyedSet places child at a single component and returns the rebuilt
// receiver; it must not mutate the receiver in place. KeyedEmpty returns
// the empty container used to materialize missing intermediate levels
// during writes.
type Keyed[T any] interface {
	KeyedGet(c Component) (T, bool)
	KeyedSet(c Component, child T) T
	KeyedEmpty() T
}

// Get resolves path against root one component at a time. The empty path
// returns root itself. Absence at any step short-circuits the whole lookup:
// the zero T and false are returned without touching the remaining
// components.
func Get[T Keyed[T]](root T, path Path) (T, bool) {
	current := root
	for _, c := range path {
		child, ok := current.KeyedGet(c)
		if !ok {
			var zero T
			return zero, false
		}
		current = child
	}
	return current, true
}

// Set returns a copy of root with child placed at path. The empty path
// replaces root entirely. For longer paths the existing value at each
// intermediate component is fetched first, falling back to KeyedEmpty()
// when it is absent or the wrong shape, so writes materialize missing
// structure on the way down and rebuild it on the way back up. root itself
// is never mutated.
//
// Whether a single-component write can be dropped (and the receiver
// returned unchanged) is up to the implementation's KeyedSet; see the
// implementing type for its bounds policy.
func Set[T Keyed[T]](root T, path Path, child T) T {
	if len(path) == 0 {
		return child
	}
	if len(path) == 1 {
		return root.KeyedSet(path[0], child)
	}
	sub, ok := root.KeyedGet(path[0])
	if !ok {
		sub = root.KeyedEmpty()
	}
	return root.KeyedSet(path[0], Set(sub, path[1:], child))
}
