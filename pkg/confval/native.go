// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/confval/confval/pkg/keyed"
	"github.com/confval/confval/pkg/mapval"
)

// tagName is the struct tag consulted by Decode and Represent for field
// naming, "-", "omitempty", and "squash".
const tagName = "confval"

// ToNative converts the Value into the plain Go shape an encoding package
// would produce: nil, string, int, float64, bool, []any, or map[string]any.
// The conversion is total and deep; container payloads are freshly
// allocated.
func (v Value) ToNative() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.bl
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.ToNative()
		}
		return out
	case KindDict:
		out := make(map[string]any, len(v.dict))
		for k, e := range v.dict {
			out[k] = e.ToNative()
		}
		return out
	default:
		return nil
	}
}

// FromNative converts a plain Go value into a Value. It accepts the shapes
// decoders produce: nil, booleans, strings, every integer and float width,
// json.Number, time.Time (as an RFC 3339 string), slices, and string-keyed
// maps, plus Value and mapval.Value themselves. Named scalar types are
// classified by their reflect kind.
//
// Integers that do not fit the platform int and maps with non-string keys
// are rejected. Structs are rejected too; Represent handles them.
func FromNative(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case mapval.Value:
		return FromMap(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(int(x)), nil
	case int16:
		return Int(int(x)), nil
	case int32:
		return Int(int(x)), nil
	case int64:
		return intFromInt64(x)
	case uint:
		return intFromUint64(uint64(x))
	case uint8:
		return Int(int(x)), nil
	case uint16:
		return Int(int(x)), nil
	case uint32:
		return intFromUint64(uint64(x))
	case uint64:
		return intFromUint64(x)
	case uintptr:
		return intFromUint64(uint64(x))
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		return fromNumber(x)
	case time.Time:
		// YAML and TOML decoders produce time.Time for timestamp literals.
		return String(x.Format(time.RFC3339Nano)), nil
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = ev
		}
		return Value{kind: KindArray, arr: arr}, nil
	case map[string]any:
		dict := make(map[string]Value, len(x))
		for k, e := range x {
			ev, err := FromNative(e)
			if err != nil {
				return Value{}, err
			}
			dict[k] = ev
		}
		return Value{kind: KindDict, dict: dict}, nil
	case map[any]any:
		// Some YAML decoders hand back untyped keys.
		dict := make(map[string]Value, len(x))
		for k, e := range x {
			ks, ok := k.(string)
			if !ok {
				return Value{}, &ConversionError{
					Target: "Value",
					Detail: fmt.Sprintf("map key %v is not a string", k),
				}
			}
			ev, err := FromNative(e)
			if err != nil {
				return Value{}, err
			}
			dict[ks] = ev
		}
		return Value{kind: KindDict, dict: dict}, nil
	}
	return fromReflect(reflect.ValueOf(in))
}

// fromReflect classifies values whose dynamic type did not match a concrete
// case in FromNative: named scalar types, typed slices, and typed maps.
func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intFromInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return intFromUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Array(), nil
		}
		arr := make([]Value, rv.Len())
		for i := range arr {
			ev, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			arr[i] = ev
		}
		return Value{kind: KindArray, arr: arr}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &ConversionError{
				Target: "Value",
				Detail: fmt.Sprintf("map key type %s is not a string", rv.Type().Key()),
			}
		}
		dict := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := FromNative(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			dict[iter.Key().String()] = ev
		}
		return Value{kind: KindDict, dict: dict}, nil
	default:
		return Value{}, &ConversionError{
			Target: "Value",
			Detail: fmt.Sprintf("unsupported Go type %s", rv.Type()),
		}
	}
}

func intFromInt64(i int64) (Value, error) {
	if i < math.MinInt || i > math.MaxInt {
		return Value{}, &ConversionError{
			Target: "Value",
			Detail: fmt.Sprintf("%d overflows int", i),
		}
	}
	return Int(int(i)), nil
}

func intFromUint64(u uint64) (Value, error) {
	if u > math.MaxInt {
		return Value{}, &ConversionError{
			Target: "Value",
			Detail: fmt.Sprintf("%d overflows int", u),
		}
	}
	return Int(int(u)), nil
}

// fromNumber classifies a json.Number: integer syntax that fits the int
// payload becomes an int Value, everything else parseable becomes a float.
func fromNumber(n json.Number) (Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, strconv.IntSize); err == nil {
		return Int(int(i)), nil
	}
	if f, err := n.Float64(); err == nil {
		return Float(f), nil
	}
	return Value{}, &ConversionError{
		Target: "Value",
		Detail: fmt.Sprintf("malformed number %q", n.String()),
	}
}

// Decode converts a Value into an arbitrary Go type, typically a struct,
// through mapstructure. Field names follow the "confval" struct tag with
// mapstructure's usual conventions ("-", ",omitempty", ",squash"), string
// payloads decode into time.Duration and time.Time fields, Value fields
// capture subtrees verbatim, and fields whose type implements Unmarshaler
// are decoded through it.
//
// Decode follows mapstructure's conversion rules, which are looser than the
// accessor contract: numeric kinds interconvert and unknown keys are
// ignored. Use the Decoder combinators when exact variant matching is
// required.
func Decode[T any](v Value) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			valueDecodeHook,
			unmarshalerDecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
		Result:  &out,
		TagName: tagName,
	})
	if err != nil {
		return out, &ConversionError{Target: typeName[T](), Cause: err}
	}
	if err := dec.Decode(v.ToNative()); err != nil {
		var zero T
		return zero, &ConversionError{Target: typeName[T](), Cause: err}
	}
	return out, nil
}

var (
	valueType       = reflect.TypeOf(Value{})
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// valueDecodeHook lets struct fields of type Value capture whole subtrees.
func valueDecodeHook(from, to reflect.Type, data any) (any, error) {
	if to != valueType || from == valueType {
		return data, nil
	}
	return FromNative(data)
}

// unmarshalerDecodeHook routes fields whose pointer type implements
// Unmarshaler through their own UnmarshalValue.
func unmarshalerDecodeHook(from, to reflect.Type, data any) (any, error) {
	if from == to || to == valueType || !reflect.PointerTo(to).Implements(unmarshalerType) {
		return data, nil
	}
	v, err := FromNative(data)
	if err != nil {
		return data, nil //nolint:nilerr // Intentional: unbridgeable shapes fall through to mapstructure
	}
	out := reflect.New(to)
	if err := out.Interface().(Unmarshaler).UnmarshalValue(v); err != nil {
		return nil, err
	}
	return out.Elem().Interface(), nil
}

// Represent converts an arbitrary Go value into a Value, the dual of
// Decode. Marshaler implementations represent themselves; time.Time and
// time.Duration become strings that Decode recognizes; structs are walked
// field by field honoring the "confval" tag; slices, string-keyed maps, and
// scalars bridge through FromNative.
func Represent(in any) (Value, error) {
	switch x := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case mapval.Value:
		return FromMap(x), nil
	case Marshaler:
		return x.MarshalValue()
	case mapval.Marshaler:
		return MarshalViaMap(x)
	case time.Time:
		return String(x.Format(time.RFC3339Nano)), nil
	case time.Duration:
		return String(x.String()), nil
	case json.Number:
		return fromNumber(x)
	}
	return representReflect(reflect.ValueOf(in))
}

func representReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return Represent(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Array(), nil
		}
		arr := make([]Value, rv.Len())
		for i := range arr {
			ev, err := Represent(rv.Index(i).Interface())
			if err != nil {
				return Value{}, errorAt(err, keyed.Index(i))
			}
			arr[i] = ev
		}
		return Value{kind: KindArray, arr: arr}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &ConversionError{
				Target: "Value",
				Detail: fmt.Sprintf("map key type %s is not a string", rv.Type().Key()),
			}
		}
		dict := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ev, err := Represent(iter.Value().Interface())
			if err != nil {
				return Value{}, errorAt(err, keyed.Key(iter.Key().String()))
			}
			dict[iter.Key().String()] = ev
		}
		return Value{kind: KindDict, dict: dict}, nil
	case reflect.Struct:
		return representStruct(rv)
	default:
		return FromNative(rv.Interface())
	}
}

// representStruct walks exported fields into a dictionary, honoring the
// "confval" tag the same way Decode does.
func representStruct(rv reflect.Value) (Value, error) {
	dict := map[string]Value{}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		var omitEmpty, squash bool
		if tag, ok := field.Tag.Lookup(tagName); ok {
			base, opts, _ := strings.Cut(tag, ",")
			if base == "-" && opts == "" {
				continue
			}
			if base != "" {
				name = base
			}
			for _, opt := range strings.Split(opts, ",") {
				switch opt {
				case "omitempty":
					omitEmpty = true
				case "squash":
					squash = true
				}
			}
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		ev, err := Represent(fv.Interface())
		if err != nil {
			return Value{}, errorAt(err, keyed.Key(name))
		}
		if squash {
			sub, ok := ev.AsDict()
			if !ok {
				return Value{}, &ConversionError{
					Target: "Value",
					Detail: fmt.Sprintf("squashed field %s is not a dictionary", field.Name),
				}
			}
			for k, e := range sub {
				dict[k] = e
			}
			continue
		}
		dict[name] = ev
	}
	return Dict(dict), nil
}
