// SPDX-License-Identifier: MPL-2.0

package cueval

import (
	"fmt"
	"math"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/ast/astutil"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"

	"github.com/confval/confval/pkg/confval"
	"github.com/confval/confval/pkg/keyed"
)

// Parse compiles CUE source into a confval.Value.
//
// The three-step flow mirrors schema-checked config loading:
//
//  1. Compile the source (and the schema, when WithSchema is given)
//  2. Unify the document with the schema definition
//  3. Validate for concreteness and walk the result into a Value
//
// Errors carry the filename from WithFilename and keyed document paths.
func Parse(data []byte, opts ...Option) (confval.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if max := options.maxFileSize; max > 0 && int64(len(data)) > max {
		return confval.Value{}, fmt.Errorf("%s: file size %d exceeds maximum %d bytes", filename, len(data), max)
	}

	ctx := cuecontext.New()

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if doc.Err() != nil {
		return confval.Value{}, FormatError(doc.Err(), filename)
	}

	if options.schema != nil {
		schemaValue := ctx.CompileBytes(options.schema)
		if schemaValue.Err() != nil {
			return confval.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
		}
		schemaRoot := schemaValue.LookupPath(cue.ParsePath(options.schemaPath))
		if schemaRoot.Err() != nil {
			return confval.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", options.schemaPath, schemaRoot.Err())
		}
		doc = schemaRoot.Unify(doc)
	}

	if err := doc.Validate(cue.Concrete(true)); err != nil {
		return confval.Value{}, FormatError(err, filename)
	}

	v, err := FromCue(doc)
	if err != nil {
		return confval.Value{}, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}

// FromCue walks a concrete cue.Value into a confval.Value. Integers are
// rejected when they exceed the int payload (CUE numbers are arbitrary
// precision), bytes become strings, and non-concrete values are errors.
func FromCue(v cue.Value) (confval.Value, error) {
	return fromCue(v, nil)
}

func fromCue(v cue.Value, path keyed.Path) (confval.Value, error) {
	if err := v.Err(); err != nil {
		return confval.Value{}, err
	}

	switch v.Kind() {
	case cue.NullKind:
		return confval.Null(), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return confval.Value{}, err
		}
		return confval.Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil || i < math.MinInt || i > math.MaxInt {
			return confval.Value{}, &confval.ConversionError{
				Path:   path,
				Target: "int",
				Detail: "integer does not fit the int payload",
			}
		}
		return confval.Int(int(i)), nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return confval.Value{}, err
		}
		return confval.Float(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return confval.Value{}, err
		}
		return confval.String(s), nil
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return confval.Value{}, err
		}
		return confval.String(string(b)), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return confval.Value{}, err
		}
		var elems []confval.Value
		for i := 0; iter.Next(); i++ {
			ev, err := fromCue(iter.Value(), append(path, keyed.Index(i)))
			if err != nil {
				return confval.Value{}, err
			}
			elems = append(elems, ev)
		}
		return confval.Array(elems...), nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return confval.Value{}, err
		}
		dict := map[string]confval.Value{}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			ev, err := fromCue(iter.Value(), append(path, keyed.Key(name)))
			if err != nil {
				return confval.Value{}, err
			}
			dict[name] = ev
		}
		return confval.Dict(dict), nil
	default:
		return confval.Value{}, &confval.ConversionError{
			Path:   path,
			Target: "Value",
			Detail: fmt.Sprintf("non-concrete CUE value of kind %s", v.Kind()),
		}
	}
}

// ToCue encodes a confval.Value into the given CUE context. The data model
// embeds losslessly, so the only failures are context-level encoding
// errors, surfaced on the returned value's Err.
func ToCue(ctx *cue.Context, v confval.Value) cue.Value {
	return ctx.Encode(v.ToNative())
}

// Source renders a confval.Value as formatted CUE text. Dictionaries render
// as top-level fields, the way cue export emits them; every other value
// renders as a single emit expression.
func Source(v confval.Value) ([]byte, error) {
	ctx := cuecontext.New()
	cv := ToCue(ctx, v)
	if err := cv.Err(); err != nil {
		return nil, err
	}

	var file *ast.File
	switch node := cv.Syntax(cue.Concrete(true), cue.Final()).(type) {
	case *ast.File:
		file = node
	case *ast.StructLit:
		file = &ast.File{Decls: node.Elts}
	case ast.Expr:
		f, err := astutil.ToFile(node)
		if err != nil {
			return nil, err
		}
		file = f
	default:
		return nil, fmt.Errorf("unexpected syntax node %T", node)
	}

	out, err := format.Node(file, format.Simplify())
	if err != nil {
		return nil, err
	}
	return out, nil
}
