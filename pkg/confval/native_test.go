// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

// hostname is a named string type for the reflect classification cases.
type hostname string

func TestFromNativeScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "nil", in: nil, want: Null()},
		{name: "bool", in: true, want: Bool(true)},
		{name: "string", in: "x", want: String("x")},
		{name: "int", in: 42, want: Int(42)},
		{name: "int8", in: int8(-8), want: Int(-8)},
		{name: "int16", in: int16(16), want: Int(16)},
		{name: "int32", in: int32(-32), want: Int(-32)},
		{name: "int64", in: int64(64), want: Int(64)},
		{name: "uint", in: uint(1), want: Int(1)},
		{name: "uint8", in: uint8(8), want: Int(8)},
		{name: "uint16", in: uint16(16), want: Int(16)},
		{name: "uint32", in: uint32(32), want: Int(32)},
		{name: "uint64", in: uint64(64), want: Int(64)},
		{name: "float32", in: float32(0.5), want: Float(0.5)},
		{name: "float64", in: 2.5, want: Float(2.5)},
		{name: "integer json number", in: json.Number("7"), want: Int(7)},
		{name: "fractional json number", in: json.Number("7.5"), want: Float(7.5)},
		{name: "exponent json number", in: json.Number("1e3"), want: Float(1000)},
		{name: "value passes through", in: Int(5), want: Int(5)},
		{name: "named string kind", in: hostname("h"), want: String("h")},
		{name: "named integer kind", in: retryCount(3), want: Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FromNative(tt.in)
			if err != nil {
				t.Fatalf("FromNative(%v) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("FromNative(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromNativeContainers(t *testing.T) {
	t.Parallel()

	got, err := FromNative(map[string]any{
		"hosts": []any{"a", "b"},
		"ports": []int{80, 443},
		"meta":  map[string]string{"env": "prod"},
		"none":  (*int)(nil),
	})
	if err != nil {
		t.Fatalf("FromNative error = %v", err)
	}
	want := Dict(map[string]Value{
		"hosts": Array(String("a"), String("b")),
		"ports": Array(Int(80), Int(443)),
		"meta":  Dict(map[string]Value{"env": String("prod")}),
		"none":  Null(),
	})
	if !got.Equal(want) {
		t.Errorf("FromNative = %v, want %v", got, want)
	}

	// Typed nil slices become empty arrays, matching the encoders.
	if v, err := FromNative([]string(nil)); err != nil || !v.Equal(Array()) {
		t.Errorf("FromNative(nil slice) = %v, %v", v, err)
	}
}

func TestFromNativeRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
	}{
		{name: "uint64 overflow", in: uint64(math.MaxUint64)},
		{name: "non string map key", in: map[int]any{1: "x"}},
		{name: "struct", in: struct{ X int }{X: 1}},
		{name: "channel", in: make(chan int)},
		{name: "malformed number", in: json.Number("abc")},
		{name: "bad nested element", in: []any{1, make(chan int)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := FromNative(tt.in); !errors.Is(err, ErrConversion) {
				t.Errorf("FromNative(%T) error = %v, want ErrConversion", tt.in, err)
			}
		})
	}
}

func TestToNativeShapes(t *testing.T) {
	t.Parallel()

	v := Dict(map[string]Value{
		"s":   String("x"),
		"i":   Int(1),
		"f":   Float(0.5),
		"b":   Bool(true),
		"n":   Null(),
		"arr": Array(Int(1), String("two")),
	})

	got, ok := v.ToNative().(map[string]any)
	if !ok {
		t.Fatalf("ToNative() = %T, want map[string]any", v.ToNative())
	}

	want := map[string]any{
		"s":   "x",
		"i":   1,
		"f":   0.5,
		"b":   true,
		"n":   nil,
		"arr": []any{1, "two"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToNative() = %#v, want %#v", got, want)
	}

	// Int stays int and Float stays float64 so the distinction survives a
	// native round trip.
	back, err := FromNative(v.ToNative())
	if err != nil {
		t.Fatalf("FromNative(ToNative) error = %v", err)
	}
	if !back.Equal(v) {
		t.Errorf("native round trip = %v, want %v", back, v)
	}
}

// serverConfig is the struct fixture for Decode and Represent.
type serverConfig struct {
	Host     string        `confval:"host"`
	Port     int           `confval:"port"`
	Debug    bool          `confval:"debug,omitempty"`
	Timeout  time.Duration `confval:"timeout"`
	Primary  endpoint      `confval:"primary"`
	Fallback *endpoint     `confval:"fallback,omitempty"`
	Extra    Value         `confval:"extra"`
	Ignored  string        `confval:"-"`
}

func TestDecodeStruct(t *testing.T) {
	t.Parallel()

	v := Dict(map[string]Value{
		"host":    String("a.example"),
		"port":    Int(8080),
		"debug":   Bool(true),
		"timeout": String("1m30s"),
		"primary": Dict(map[string]Value{"host": String("p"), "port": Int(1)}),
		"extra":   Array(Int(1), Null()),
		"unknown": String("ignored"),
	})

	got, err := Decode[serverConfig](v)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	if got.Host != "a.example" || got.Port != 8080 || !got.Debug {
		t.Errorf("Decode scalars = %+v", got)
	}
	if got.Timeout != 90*time.Second {
		t.Errorf("Decode timeout = %v, want 1m30s", got.Timeout)
	}
	if got.Primary != (endpoint{Host: "p", Port: 1}) {
		t.Errorf("Decode primary = %+v (Unmarshaler hook not applied)", got.Primary)
	}
	if got.Fallback != nil {
		t.Errorf("Decode fallback = %+v, want nil", got.Fallback)
	}
	if !got.Extra.Equal(Array(Int(1), Null())) {
		t.Errorf("Decode extra = %v (Value hook not applied)", got.Extra)
	}
}

func TestDecodeFailureWrapsConversion(t *testing.T) {
	t.Parallel()

	v := Dict(map[string]Value{"port": String("not a number")})
	_, err := Decode[serverConfig](v)
	if !errors.Is(err, ErrConversion) {
		t.Errorf("Decode error = %v, want ErrConversion", err)
	}
}

func TestRepresentStruct(t *testing.T) {
	t.Parallel()

	cfg := serverConfig{
		Host:    "a.example",
		Port:    8080,
		Timeout: 90 * time.Second,
		Primary: endpoint{Host: "p", Port: 1},
		Extra:   Array(Int(1)),
		Ignored: "should not appear",
	}

	got, err := Represent(cfg)
	if err != nil {
		t.Fatalf("Represent error = %v", err)
	}

	want := Dict(map[string]Value{
		"host":    String("a.example"),
		"port":    Int(8080),
		"timeout": String("1m30s"),
		// endpoint implements Marshaler, so it represents itself.
		"primary": Dict(map[string]Value{"host": String("p"), "port": Int(1)}),
		"extra":   Array(Int(1)),
	})
	if !got.Equal(want) {
		t.Errorf("Represent = %v, want %v", got, want)
	}
}

func TestRepresentDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	orig := serverConfig{
		Host:    "b.example",
		Port:    443,
		Debug:   true,
		Timeout: 5 * time.Second,
		Primary: endpoint{Host: "p", Port: 1},
		Fallback: &endpoint{
			Host: "f",
			Port: 2,
		},
		Extra: Dict(map[string]Value{"k": Float(0.5)}),
	}

	v, err := Represent(orig)
	if err != nil {
		t.Fatalf("Represent error = %v", err)
	}
	back, err := Decode[serverConfig](v)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	if back.Host != orig.Host || back.Port != orig.Port || back.Debug != orig.Debug || back.Timeout != orig.Timeout {
		t.Errorf("round trip scalars = %+v", back)
	}
	if back.Primary != orig.Primary || back.Fallback == nil || *back.Fallback != *orig.Fallback {
		t.Errorf("round trip endpoints = %+v", back)
	}
	if !back.Extra.Equal(orig.Extra) {
		t.Errorf("round trip extra = %v, want %v", back.Extra, orig.Extra)
	}
}

func TestRepresentSpecialTypes(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if v, err := Represent(ts); err != nil || !v.Equal(String("2025-06-01T12:30:00Z")) {
		t.Errorf("Represent(time) = %v, %v", v, err)
	}
	if v, err := Represent(2 * time.Second); err != nil || !v.Equal(String("2s")) {
		t.Errorf("Represent(duration) = %v, %v", v, err)
	}
	if v, err := Represent((*endpoint)(nil)); err != nil || !v.IsNull() {
		t.Errorf("Represent(nil ptr) = %v, %v", v, err)
	}
	if v, err := Represent([]endpoint{{Host: "a", Port: 1}}); err != nil {
		t.Errorf("Represent(slice of marshalers) error = %v", err)
	} else if v.Len() != 1 {
		t.Errorf("Represent(slice of marshalers) = %v", v)
	}
	if v, err := Represent(mapEndpoint{Host: "m"}); err != nil || !v.Equal(Dict(map[string]Value{"host": String("m")})) {
		t.Errorf("Represent(mapval marshaler) = %v, %v", v, err)
	}
}

func TestRepresentSquash(t *testing.T) {
	t.Parallel()

	type base struct {
		Kind string `confval:"kind"`
	}
	type wrapper struct {
		Base base   `confval:",squash"`
		Name string `confval:"name"`
	}

	got, err := Represent(wrapper{Base: base{Kind: "e"}, Name: "n"})
	if err != nil {
		t.Fatalf("Represent error = %v", err)
	}
	want := Dict(map[string]Value{"kind": String("e"), "name": String("n")})
	if !got.Equal(want) {
		t.Errorf("Represent = %v, want %v", got, want)
	}
}

func TestDecodeTimeField(t *testing.T) {
	t.Parallel()

	type event struct {
		At time.Time `confval:"at"`
	}

	v := Dict(map[string]Value{"at": String("2025-06-01T12:30:00Z")})
	got, err := Decode[event](v)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !got.At.Equal(want) {
		t.Errorf("Decode at = %v, want %v", got.At, want)
	}
}
