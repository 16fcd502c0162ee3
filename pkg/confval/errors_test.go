// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"errors"
	"testing"

	"github.com/confval/confval/pkg/keyed"
)

func TestConversionErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ConversionError
		want string
	}{
		{
			name: "variant mismatch at root",
			err:  &ConversionError{Target: "int", Got: KindString},
			want: "cannot convert to int: got string",
		},
		{
			name: "variant mismatch at path",
			err: &ConversionError{
				Path:   keyed.Path{keyed.Key("servers"), keyed.Index(0), keyed.Key("port")},
				Target: "int",
				Got:    KindString,
			},
			want: "cannot convert to int at servers[0].port: got string",
		},
		{
			name: "detail wins over got",
			err:  &ConversionError{Target: "uint8", Got: KindInt, Detail: "300 overflows uint8"},
			want: "cannot convert to uint8: 300 overflows uint8",
		},
		{
			name: "absence",
			err:  &ConversionError{Path: keyed.Path{keyed.Key("missing")}, Target: "string", Cause: ErrNoValue},
			want: "cannot convert to string at missing: no value at path",
		},
		{
			name: "bare cause",
			err:  &ConversionError{Cause: errors.New("boom")},
			want: "cannot convert: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConversionErrorUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("domain failure")
	err := error(&ConversionError{Target: "endpoint", Cause: sentinel})

	if !errors.Is(err, ErrConversion) {
		t.Error("errors.Is(err, ErrConversion) = false")
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Is(err, ErrNoValue) {
		t.Error("errors.Is(err, ErrNoValue) = true without an absence cause")
	}

	bare := error(&ConversionError{Target: "int", Got: KindBool})
	if !errors.Is(bare, ErrConversion) {
		t.Error("errors.Is(bare, ErrConversion) = false")
	}
}

func TestErrorAtAccumulatesPath(t *testing.T) {
	t.Parallel()

	leaf := error(&ConversionError{Target: "int", Got: KindString})
	wrapped := errorAt(errorAt(leaf, keyed.Index(2)), keyed.Key("ports"))

	var conv *ConversionError
	if !errors.As(wrapped, &conv) {
		t.Fatalf("wrapped error = %T", wrapped)
	}
	if got := conv.Path.String(); got != "ports[2]" {
		t.Errorf("accumulated path = %q, want %q", got, "ports[2]")
	}
	if conv.Target != "int" || conv.Got != KindString {
		t.Errorf("leaf fields lost: %+v", conv)
	}

	// The original error is left untouched.
	if len(leaf.(*ConversionError).Path) != 0 {
		t.Error("errorAt mutated the original error")
	}
}

func TestErrorAtWrapsForeignErrors(t *testing.T) {
	t.Parallel()

	domain := errors.New("not a valid endpoint")
	wrapped := errorAt(domain, keyed.Key("primary"))

	if !errors.Is(wrapped, ErrConversion) {
		t.Error("wrapped foreign error does not wrap ErrConversion")
	}
	if !errors.Is(wrapped, domain) {
		t.Error("wrapped foreign error lost its cause")
	}
	var conv *ConversionError
	if !errors.As(wrapped, &conv) {
		t.Fatalf("wrapped error = %T", wrapped)
	}
	if got := conv.Path.String(); got != "primary" {
		t.Errorf("path = %q, want %q", got, "primary")
	}
}
