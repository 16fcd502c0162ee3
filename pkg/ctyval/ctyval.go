// SPDX-License-Identifier: MPL-2.0

package ctyval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/zclconf/go-cty/cty"

	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/keyed"
)

// FromCty converts a cty value into a confval.Value. Marks are stripped,
// nulls of any type become the null Value, and numbers are classified by
// value (whole and in range means int). Unknown values and capsule types
// have no counterpart and convert with an error.
func FromCty(v cty.Value) (confval.Value, error) {
	return fromCty(v, nil)
}

func fromCty(v cty.Value, path keyed.Path) (confval.Value, error) {
	if v.IsMarked() {
		v, _ = v.Unmark()
	}
	if v.IsNull() {
		return confval.Null(), nil
	}
	if !v.IsKnown() {
		return confval.Value{}, &confval.ConversionError{
			Path:   path,
			Target: "Value",
			Detail: "value is not known",
		}
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return confval.String(v.AsString()), nil

	case ty == cty.Bool:
		return confval.Bool(v.True()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact && i >= math.MinInt && i <= math.MaxInt {
				return confval.Int(int(i)), nil
			}
		}
		f, _ := bf.Float64()
		return confval.Float(f), nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		elems := make([]confval.Value, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			cv, err := fromCty(ev, append(path, keyed.Index(len(elems))))
			if err != nil {
				return confval.Value{}, err
			}
			elems = append(elems, cv)
		}
		return confval.Array(elems...), nil

	case ty.IsObjectType() || ty.IsMapType():
		dict := make(map[string]confval.Value, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, ev := it.Element()
			name := key.AsString()
			cv, err := fromCty(ev, append(path, keyed.Key(name)))
			if err != nil {
				return confval.Value{}, err
			}
			dict[name] = cv
		}
		return confval.Dict(dict), nil

	default:
		return confval.Value{}, &confval.ConversionError{
			Path:   path,
			Target: "Value",
			Detail: fmt.Sprintf("unsupported cty type %s", ty.FriendlyName()),
		}
	}
}

// ToCty converts a confval.Value into a cty value. Arrays become tuples
// and dictionaries become objects, so heterogeneous containers embed
// without type unification. The only failure is NaN, which cty's
// arbitrary-precision numbers cannot represent.
func ToCty(v confval.Value) (cty.Value, error) {
	return toCty(v, nil)
}

func toCty(v confval.Value, path keyed.Path) (cty.Value, error) {
	switch v.Kind() {
	case confval.KindNull:
		return cty.NullVal(cty.DynamicPseudoType), nil

	case confval.KindString:
		s, _ := v.AsString()
		return cty.StringVal(s), nil

	case confval.KindInt:
		i, _ := v.AsInt()
		return cty.NumberIntVal(int64(i)), nil

	case confval.KindFloat:
		f, _ := v.AsFloat()
		if math.IsNaN(f) {
			return cty.NilVal, &confval.ConversionError{
				Path:   path,
				Target: "cty.Number",
				Got:    confval.KindFloat,
				Detail: "NaN is not representable",
			}
		}
		return cty.NumberFloatVal(f), nil

	case confval.KindBool:
		b, _ := v.AsBool()
		return cty.BoolVal(b), nil

	case confval.KindArray:
		elems, _ := v.AsArray()
		if len(elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		out := make([]cty.Value, len(elems))
		for i, e := range elems {
			cv, err := toCty(e, append(path, keyed.Index(i)))
			if err != nil {
				return cty.NilVal, err
			}
			out[i] = cv
		}
		return cty.TupleVal(out), nil

	case confval.KindDict:
		dict, _ := v.AsDict()
		if len(dict) == 0 {
			return cty.EmptyObjectVal, nil
		}
		out := make(map[string]cty.Value, len(dict))
		for _, k := range v.Keys() {
			cv, err := toCty(dict[k], append(path, keyed.Key(k)))
			if err != nil {
				return cty.NilVal, err
			}
			out[k] = cv
		}
		return cty.ObjectVal(out), nil

	default:
		return cty.NilVal, &confval.ConversionError{
			Path:   path,
			Target: "cty.Value",
			Got:    v.Kind(),
			Detail: "unhandled kind",
		}
	}
}
