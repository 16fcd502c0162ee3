// SPDX-License-Identifier: MPL-2.0

package mapval

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind discriminates the variant stored in a Value.
type Kind uint8

const (
	// KindNull is the explicit null variant. It is the zero Kind, so the
	// zero Value is null.
	KindNull Kind = iota
	// KindString holds a UTF-8 string.
	KindString
	// KindInt holds a signed integer.
	KindInt
	// KindFloat holds a 64-bit floating point number.
	KindFloat
	// KindBool holds a boolean.
	KindBool
	// KindArray holds an ordered sequence of Values.
	KindArray
	// KindDict holds an unordered string-keyed collection of Values.
	KindDict
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is one node of a dynamic, JSON-shaped document. Exactly one variant
// is populated at a time; the zero Value is null.
//
// Values are immutable from the outside: accessors return copies of container
// payloads, and every update produces a new Value. It is safe to share a
// Value between goroutines.
type Value struct {
	kind Kind
	str  string
	num  int
	flt  float64
	bl   bool
	arr  []Value
	dict map[string]Value
}

// Null returns the null Value. It is equivalent to the zero Value.
func Null() Value { return Value{} }

// String returns a Value holding s.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns a Value holding i.
func Int(i int) Value { return Value{kind: KindInt, num: i} }

// Float returns a Value holding f.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a Value holding b.
func Bool(b bool) Value { return Value{kind: KindBool, bl: b} }

// Array returns a Value holding the given elements. The elements are copied,
// so later changes to a slice passed via variadic expansion do not affect the
// returned Value.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: slices.Clone(elems)}
}

// Dict returns a Value holding a copy of the given entries.
func Dict(entries map[string]Value) Value {
	d := make(map[string]Value, len(entries))
	maps.Copy(d, entries)
	return Value{kind: KindDict, dict: d}
}

// EmptyDict returns a Value holding a dictionary with no entries.
func EmptyDict() Value {
	return Value{kind: KindDict, dict: map[string]Value{}}
}

// Kind reports which variant the Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the Value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload. The second result is false when the
// Value holds any other variant; no conversion between variants is attempted.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsInt returns the integer payload, or false for any other variant.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.num, true
}

// AsFloat returns the float payload, or false for any other variant. An int
// Value does not report as a float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.flt, true
}

// AsBool returns the bool payload, or false for any other variant.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.bl, true
}

// AsArray returns a copy of the array payload, or false for any other
// variant. Mutating the returned slice does not affect the Value.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return slices.Clone(v.arr), true
}

// AsDict returns a copy of the dictionary payload, or false for any other
// variant. Mutating the returned map does not affect the Value.
func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	d := make(map[string]Value, len(v.dict))
	maps.Copy(d, v.dict)
	return d, true
}

// Len returns the element count of an array or dictionary Value, and 0 for
// every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindDict:
		return len(v.dict)
	default:
		return 0
	}
}

// Equal reports deep structural equality. Variants never compare equal across
// kinds, so Int(1) and Float(1) are not equal. Arrays compare element-wise in
// order; dictionaries compare entry-wise regardless of order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.flt == other.flt
	case KindBool:
		return v.bl == other.bl
	case KindArray:
		return slices.EqualFunc(v.arr, other.arr, Value.Equal)
	case KindDict:
		if len(v.dict) != len(other.dict) {
			return false
		}
		for k, e := range v.dict {
			o, ok := other.dict[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the Value as a single line of JSON-like text with
// dictionary keys sorted. It is meant for logs and test failures, not for
// interchange.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindString:
		sb.WriteString(strconv.Quote(v.str))
	case KindInt:
		sb.WriteString(strconv.Itoa(v.num))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.flt, 'g', -1, 64))
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.bl))
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.render(sb)
		}
		sb.WriteByte(']')
	case KindDict:
		sb.WriteByte('{')
		for i, k := range slices.Sorted(maps.Keys(v.dict)) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			v.dict[k].render(sb)
		}
		sb.WriteByte('}')
	}
}
