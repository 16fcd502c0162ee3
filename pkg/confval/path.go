// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"maps"
	"slices"

	"github.com/confval/confval/pkg/keyed"
)

// KeyedGet returns the child addressed by c. A key component resolves only
// on a dictionary Value and an index component only on an array Value with
// the index in range; everything else reports absence. Note that a present
// null child resolves successfully.
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
// out-of-range indices drop the child without error, and a non-array
// receiver becomes an empty array. Writes never grow an array, so the only
// way to append is to rebuild the array explicitly.
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

// Get resolves a path of components against the Value. The empty path
// returns the Value itself; absence at any step returns (Null(), false)
// without inspecting the remaining components.
func (v Value) Get(path ...keyed.Component) (Value, bool) {
	return keyed.Get(v, keyed.Path(path))
}

// Set returns a copy of the Value with child stored at the given path,
// materializing empty dictionaries for missing intermediate levels. An
// empty path replaces the Value wholesale. The edge policy per component is
// documented on KeyedSet; in particular an out-of-range index anywhere in
// the path silently drops the write at that level.
func (v Value) Set(child Value, path ...keyed.Component) Value {
	return keyed.Set(v, keyed.Path(path), child)
}

// GetInto resolves a path and unmarshals the value found there into target.
// An unresolved path yields a ConversionError wrapping ErrNoValue.
func (v Value) GetInto(target Unmarshaler, path ...keyed.Component) error {
	child, ok := v.Get(path...)
	if !ok {
		return &ConversionError{Path: path, Cause: ErrNoValue}
	}
	if err := target.UnmarshalValue(child); err != nil {
		return &ConversionError{Path: path, Cause: err}
	}
	return nil
}

// SetFrom marshals src and returns a copy of the Value with the result
// stored at the given path.
func (v Value) SetFrom(src Marshaler, path ...keyed.Component) (Value, error) {
	child, err := src.MarshalValue()
	if err != nil {
		return Value{}, &ConversionError{Path: path, Cause: err}
	}
	return v.Set(child, path...), nil
}

// DecodeAt resolves a path against root and decodes the value found there
// with d. An unresolved path yields a ConversionError wrapping ErrNoValue;
// a decode failure is reported with the full path from root.
func DecodeAt[T any](root Value, d Decoder[T], path ...keyed.Component) (T, error) {
	var zero T
	child, ok := root.Get(path...)
	if !ok {
		return zero, &ConversionError{Path: path, Target: typeName[T](), Cause: ErrNoValue}
	}
	t, err := d(child)
	if err != nil {
		for i := len(path) - 1; i >= 0; i-- {
			err = errorAt(err, path[i])
		}
		return zero, err
	}
	return t, nil
}

// EncodeAt encodes val with e and returns a copy of root with the result
// stored at the given path.
func EncodeAt[T any](root Value, e Encoder[T], val T, path ...keyed.Component) (Value, error) {
	child, err := e(val)
	if err != nil {
		return Value{}, &ConversionError{Path: path, Cause: err}
	}
	return root.Set(child, path...), nil
}
