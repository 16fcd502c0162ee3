// SPDX-License-Identifier: MPL-2.0

package mapval

import (
	"maps"
	"slices"

	"github.com/confval/confval/pkg/keyed"
)

// KeyedGet returns the child addressed by c. A key component resolves only on
// a dictionary Value and an index component only on an array Value with the
// index in range; everything else reports absence.
func (v Value) KeyedGet(c keyed.Component) (Value, bool) {
	if i, ok := c.Index(); ok {
		if v.kind != KindArray || i < 0 || i >= len(v.arr) {
			return Value{}, false
		}
		return v.arr[i], true
	}
	k, _ := c.Key()
	if v.kind != KindDict {
		return Value{}, false
	}
	child, ok := v.dict[k]
	return child, ok
}

// KeyedSet returns a copy of the Value with the child at c replaced. The
// receiver is never modified.
//
// A key write lands in the receiver's dictionary, replacing the receiver
// with a fresh single-entry dictionary when it holds any other variant. An
// index write lands in the receiver's array when the index is in range;
// out-of-range indices drop the child, and a non-array receiver becomes an
// empty array.
func (v Value) KeyedSet(c keyed.Component, child Value) Value {
	if i, ok := c.Index(); ok {
		var arr []Value
		if v.kind == KindArray {
			arr = slices.Clone(v.arr)
		}
		if i >= 0 && i < len(arr) {
			arr[i] = child
		}
		return Value{kind: KindArray, arr: arr}
	}
	k, _ := c.Key()
	dict := make(map[string]Value, len(v.dict)+1)
	if v.kind == KindDict {
		maps.Copy(dict, v.dict)
	}
	dict[k] = child
	return Value{kind: KindDict, dict: dict}
}

// KeyedEmpty returns the Value used to materialize missing intermediate
// nodes during a path write: an empty dictionary.
func (v Value) KeyedEmpty() Value { return EmptyDict() }

// Get resolves a path of components against the Value and reports whether
// every step resolved.
func (v Value) Get(path ...keyed.Component) (Value, bool) {
	return keyed.Get(v, keyed.Path(path))
}

// Set returns a copy of the Value with child stored at the given path,
// materializing empty dictionaries for missing intermediate nodes. An empty
// path replaces the Value wholesale.
func (v Value) Set(child Value, path ...keyed.Component) Value {
	return keyed.Set(v, keyed.Path(path), child)
}
