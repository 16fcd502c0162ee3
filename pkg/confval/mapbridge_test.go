// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"errors"
	"testing"

	"github.com/confval/confval/pkg/mapval"
)

// bridgeFixture exercises every variant, nested both ways.
func bridgeFixture() Value {
	return Dict(map[string]Value{
		"name":  String("edge"),
		"count": Int(3),
		"ratio": Float(0.75),
		"on":    Bool(true),
		"note":  Null(),
		"tags":  Array(String("a"), Int(1), Null(), Array(Bool(false))),
		"nested": Dict(map[string]Value{
			"deep": Array(Dict(map[string]Value{"k": Float(-2)})),
		}),
		"empty_dict":  EmptyDict(),
		"empty_array": Array(),
	})
}

func TestMapBridgeRoundTrip(t *testing.T) {
	t.Parallel()

	v := bridgeFixture()
	if got := FromMap(v.ToMap()); !got.Equal(v) {
		t.Errorf("FromMap(ToMap(v)) = %v, want %v", got, v)
	}

	// The mapval side round-trips too, and the int/float split survives.
	m := mapval.Array(mapval.Int(1), mapval.Float(1))
	back := FromMap(m).ToMap()
	if !back.Equal(m) {
		t.Errorf("ToMap(FromMap(m)) = %v, want %v", back, m)
	}
	elems, _ := back.AsArray()
	if elems[0].Kind() != mapval.KindInt || elems[1].Kind() != mapval.KindFloat {
		t.Errorf("numeric variants collapsed: %v", back)
	}
}

func TestMapBridgePreservesVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Value
		want mapval.Kind
	}{
		{name: "null", in: Null(), want: mapval.KindNull},
		{name: "string", in: String("x"), want: mapval.KindString},
		{name: "int", in: Int(1), want: mapval.KindInt},
		{name: "float", in: Float(1), want: mapval.KindFloat},
		{name: "bool", in: Bool(true), want: mapval.KindBool},
		{name: "array", in: Array(), want: mapval.KindArray},
		{name: "dict", in: EmptyDict(), want: mapval.KindDict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.in.ToMap().Kind(); got != tt.want {
				t.Errorf("ToMap kind = %v, want %v", got, tt.want)
			}
		})
	}
}

// mapEndpoint implements the mapval conversion pair only; the confval side
// is derived through the bridge.
type mapEndpoint struct {
	Host string
}

func (m mapEndpoint) MarshalMapValue() (mapval.Value, error) {
	return mapval.Dict(map[string]mapval.Value{"host": mapval.String(m.Host)}), nil
}

func (m *mapEndpoint) UnmarshalMapValue(v mapval.Value) error {
	d, ok := v.AsDict()
	if !ok {
		return errors.New("expected a dictionary")
	}
	host, ok := d["host"].AsString()
	if !ok {
		return errors.New("expected host to be a string")
	}
	m.Host = host
	return nil
}

func TestDerivedConformanceViaMap(t *testing.T) {
	t.Parallel()

	v, err := MarshalViaMap(mapEndpoint{Host: "a.example"})
	if err != nil {
		t.Fatalf("MarshalViaMap error = %v", err)
	}
	want := Dict(map[string]Value{"host": String("a.example")})
	if !v.Equal(want) {
		t.Errorf("MarshalViaMap = %v, want %v", v, want)
	}

	var back mapEndpoint
	if err := UnmarshalViaMap(&back, v); err != nil {
		t.Fatalf("UnmarshalViaMap error = %v", err)
	}
	if back.Host != "a.example" {
		t.Errorf("UnmarshalViaMap = %+v", back)
	}

	// Failures surface as ConversionErrors wrapping the domain error.
	err = UnmarshalViaMap(&back, Int(1))
	if !errors.Is(err, ErrConversion) {
		t.Errorf("UnmarshalViaMap mismatch error = %v, want ErrConversion", err)
	}
}
