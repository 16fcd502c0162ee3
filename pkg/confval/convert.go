// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/confval/confval/pkg/keyed"
)

type (
	// Marshaler is implemented by types that can represent themselves as a
	// Value.
	Marshaler interface {
		MarshalValue() (Value, error)
	}

	// Unmarshaler is implemented by types that can reconstruct themselves
	// from a Value. Implementations must leave the receiver unchanged when
	// they return an error, and should return a ConversionError (or wrap
	// ErrConversion) so failures stay classifiable.
	Unmarshaler interface {
		UnmarshalValue(Value) error
	}

	// Decoder converts a Value into a T. Decoders are plain function
	// values, so element-wise combinators like SliceDecoder and MapDecoder
	// can compose them into decoders for container types.
	Decoder[T any] func(Value) (T, error)

	// Encoder converts a T into a Value. It is the dual of Decoder and
	// composes the same way.
	Encoder[T any] func(T) (Value, error)
)

// MarshalValue returns the receiver. Value is its own Marshaler, so a Value
// slots in anywhere a Marshaler is expected.
func (v Value) MarshalValue() (Value, error) { return v, nil }

// UnmarshalValue replaces the receiver with src. Value is its own
// Unmarshaler; the identity conversion never fails.
func (v *Value) UnmarshalValue(src Value) error {
	*v = src
	return nil
}

// typeName names T the way fmt would, for ConversionError.Target.
func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// DecodeString is a Decoder[string] that accepts only string Values.
func DecodeString(v Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", kindError("string", v.Kind())
	}
	return s, nil
}

// DecodeInt is a Decoder[int] that accepts only int Values. Float Values
// are rejected even when whole.
func DecodeInt(v Value) (int, error) {
	i, ok := v.AsInt()
	if !ok {
		return 0, kindError("int", v.Kind())
	}
	return i, nil
}

// DecodeFloat is a Decoder[float64] that accepts only float Values. Int
// Values are rejected; decode them with DecodeInt and widen explicitly when
// mixed numerics are acceptable.
func DecodeFloat(v Value) (float64, error) {
	f, ok := v.AsFloat()
	if !ok {
		return 0, kindError("float64", v.Kind())
	}
	return f, nil
}

// DecodeBool is a Decoder[bool] that accepts only bool Values.
func DecodeBool(v Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, kindError("bool", v.Kind())
	}
	return b, nil
}

// DecodeValue is the identity Decoder[Value]. It never fails and is useful
// as the element decoder when only the container shape matters.
func DecodeValue(v Value) (Value, error) { return v, nil }

// IntegerDecoder returns a Decoder for any integer type. The payload must
// be representable in T exactly; out-of-range values are rejected rather
// than truncated.
func IntegerDecoder[T constraints.Integer]() Decoder[T] {
	return func(v Value) (T, error) {
		var zero T
		i, ok := v.AsInt()
		if !ok {
			return zero, kindError(typeName[T](), v.Kind())
		}
		out := T(i)
		if int(out) != i || (out < 0) != (i < 0) {
			return zero, &ConversionError{
				Target: typeName[T](),
				Got:    KindInt,
				Detail: fmt.Sprintf("%d overflows %s", i, typeName[T]()),
			}
		}
		return out, nil
	}
}

// FloatDecoder returns a Decoder for any floating point type. Narrowing to
// float32 may round, but values whose magnitude exceeds the target range are
// rejected rather than collapsed to infinity.
func FloatDecoder[T constraints.Float]() Decoder[T] {
	return func(v Value) (T, error) {
		var zero T
		f, ok := v.AsFloat()
		if !ok {
			return zero, kindError(typeName[T](), v.Kind())
		}
		out := T(f)
		if math.IsInf(float64(out), 0) && !math.IsInf(f, 0) {
			return zero, &ConversionError{
				Target: typeName[T](),
				Got:    KindFloat,
				Detail: fmt.Sprintf("%g overflows %s", f, typeName[T]()),
			}
		}
		return out, nil
	}
}

// SliceDecoder returns a Decoder for []T that applies elem to every array
// element in order. Element failures are reported with the element's index
// prepended to the error path.
func SliceDecoder[T any](elem Decoder[T]) Decoder[[]T] {
	return func(v Value) ([]T, error) {
		arr, ok := v.AsArray()
		if !ok {
			return nil, kindError(typeName[[]T](), v.Kind())
		}
		out := make([]T, len(arr))
		for i, e := range arr {
			t, err := elem(e)
			if err != nil {
				return nil, errorAt(err, keyed.Index(i))
			}
			out[i] = t
		}
		return out, nil
	}
}

// MapDecoder returns a Decoder for map[string]T that applies elem to every
// dictionary entry. Entries are visited in sorted key order so a multi-entry
// failure always reports the same key. Entry failures are reported with the
// key prepended to the error path.
func MapDecoder[T any](elem Decoder[T]) Decoder[map[string]T] {
	return func(v Value) (map[string]T, error) {
		dict, ok := v.AsDict()
		if !ok {
			return nil, kindError(typeName[map[string]T](), v.Kind())
		}
		out := make(map[string]T, len(dict))
		for _, k := range v.Keys() {
			t, err := elem(dict[k])
			if err != nil {
				return nil, errorAt(err, keyed.Key(k))
			}
			out[k] = t
		}
		return out, nil
	}
}

// PtrDecoder returns a Decoder for *T that maps a null Value to a nil
// pointer and decodes anything else with elem. It is the standard way to
// model optional settings.
func PtrDecoder[T any](elem Decoder[T]) Decoder[*T] {
	return func(v Value) (*T, error) {
		if v.IsNull() {
			return nil, nil
		}
		t, err := elem(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

// UnmarshalerDecoder returns a Decoder for any type whose pointer
// implements Unmarshaler, so custom types compose with the container
// combinators:
//
//	SliceDecoder(UnmarshalerDecoder[Endpoint]())
func UnmarshalerDecoder[T any, P interface {
	*T
	Unmarshaler
}]() Decoder[T] {
	return func(v Value) (T, error) {
		var out T
		if err := P(&out).UnmarshalValue(v); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}
}

// EncodeString is an Encoder[string].
func EncodeString(s string) (Value, error) { return String(s), nil }

// EncodeInt is an Encoder[int].
func EncodeInt(i int) (Value, error) { return Int(i), nil }

// EncodeFloat is an Encoder[float64].
func EncodeFloat(f float64) (Value, error) { return Float(f), nil }

// EncodeBool is an Encoder[bool].
func EncodeBool(b bool) (Value, error) { return Bool(b), nil }

// EncodeValue is the identity Encoder[Value].
func EncodeValue(v Value) (Value, error) { return v, nil }

// IntegerEncoder returns an Encoder for any integer type. Values that do
// not fit the int payload (large uint64s on any platform, wide values on
// 32-bit platforms) are rejected rather than wrapped.
func IntegerEncoder[T constraints.Integer]() Encoder[T] {
	return func(t T) (Value, error) {
		i := int(t)
		if T(i) != t || (t < 0) != (i < 0) {
			return Value{}, &ConversionError{
				Target: "int",
				Detail: fmt.Sprintf("%v overflows int", t),
			}
		}
		return Int(i), nil
	}
}

// FloatEncoder returns an Encoder for any floating point type. Widening to
// float64 is exact, so it never fails.
func FloatEncoder[T constraints.Float]() Encoder[T] {
	return func(t T) (Value, error) {
		return Float(float64(t)), nil
	}
}

// SliceEncoder returns an Encoder for []T that applies elem to every
// element. A nil slice encodes as an empty array, not null; wrap with
// PtrEncoder when absence must be representable.
func SliceEncoder[T any](elem Encoder[T]) Encoder[[]T] {
	return func(ts []T) (Value, error) {
		arr := make([]Value, len(ts))
		for i, t := range ts {
			v, err := elem(t)
			if err != nil {
				return Value{}, errorAt(err, keyed.Index(i))
			}
			arr[i] = v
		}
		return Array(arr...), nil
	}
}

// MapEncoder returns an Encoder for map[string]T that applies elem to every
// entry. A nil map encodes as an empty dictionary.
func MapEncoder[T any](elem Encoder[T]) Encoder[map[string]T] {
	return func(ts map[string]T) (Value, error) {
		dict := make(map[string]Value, len(ts))
		for k, t := range ts {
			v, err := elem(t)
			if err != nil {
				return Value{}, errorAt(err, keyed.Key(k))
			}
			dict[k] = v
		}
		return Dict(dict), nil
	}
}

// PtrEncoder returns an Encoder for *T that maps a nil pointer to null and
// encodes anything else with elem. It is the dual of PtrDecoder.
func PtrEncoder[T any](elem Encoder[T]) Encoder[*T] {
	return func(t *T) (Value, error) {
		if t == nil {
			return Null(), nil
		}
		return elem(*t)
	}
}

// MarshalerEncoder returns an Encoder for any type implementing Marshaler,
// the dual of UnmarshalerDecoder.
func MarshalerEncoder[T Marshaler]() Encoder[T] {
	return func(t T) (Value, error) {
		return t.MarshalValue()
	}
}
