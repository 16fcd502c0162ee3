// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"github.com/confval/confval/pkg/mapval"
)

// FromMap converts a mapval.Value into a Value. The two unions are
// structurally identical, so the conversion is total and preserves every
// variant, including the int/float distinction and explicit nulls.
func FromMap(m mapval.Value) Value {
	switch m.Kind() {
	case mapval.KindString:
		s, _ := m.AsString()
		return String(s)
	case mapval.KindInt:
		i, _ := m.AsInt()
		return Int(i)
	case mapval.KindFloat:
		f, _ := m.AsFloat()
		return Float(f)
	case mapval.KindBool:
		b, _ := m.AsBool()
		return Bool(b)
	case mapval.KindArray:
		elems, _ := m.AsArray()
		arr := make([]Value, len(elems))
		for i, e := range elems {
			arr[i] = FromMap(e)
		}
		return Value{kind: KindArray, arr: arr}
	case mapval.KindDict:
		entries, _ := m.AsDict()
		dict := make(map[string]Value, len(entries))
		for k, e := range entries {
			dict[k] = FromMap(e)
		}
		return Value{kind: KindDict, dict: dict}
	default:
		return Null()
	}
}

// ToMap converts the Value into a mapval.Value. It is the exact inverse of
// FromMap: FromMap(v.ToMap()) is structurally equal to v for every Value,
// and FromMap(m).ToMap() round-trips the same way from the mapval side.
func (v Value) ToMap() mapval.Value {
	switch v.kind {
	case KindString:
		return mapval.String(v.str)
	case KindInt:
		return mapval.Int(v.num)
	case KindFloat:
		return mapval.Float(v.flt)
	case KindBool:
		return mapval.Bool(v.bl)
	case KindArray:
		elems := make([]mapval.Value, len(v.arr))
		for i, e := range v.arr {
			elems[i] = e.ToMap()
		}
		return mapval.Array(elems...)
	case KindDict:
		entries := make(map[string]mapval.Value, len(v.dict))
		for k, e := range v.dict {
			entries[k] = e.ToMap()
		}
		return mapval.Dict(entries)
	default:
		return mapval.Null()
	}
}

// MarshalViaMap represents m as a Value by way of its mapval representation.
// It lets a type that already implements mapval.Marshaler satisfy Marshaler
// with a one-line method:
//
//	func (e Endpoint) MarshalValue() (confval.Value, error) {
//		return confval.MarshalViaMap(e)
//	}
func MarshalViaMap(m mapval.Marshaler) (Value, error) {
	mv, err := m.MarshalMapValue()
	if err != nil {
		return Value{}, &ConversionError{Cause: err}
	}
	return FromMap(mv), nil
}

// UnmarshalViaMap reconstructs u from v by way of v's mapval
// representation, the dual of MarshalViaMap.
func UnmarshalViaMap(u mapval.Unmarshaler, v Value) error {
	if err := u.UnmarshalMapValue(v.ToMap()); err != nil {
		return &ConversionError{Cause: err}
	}
	return nil
}
