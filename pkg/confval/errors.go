// SPDX-License-Identifier: MPL-2.0

package confval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/confval/confval/pkg/keyed"
)

var (
	// ErrConversion is the sentinel wrapped by every ConversionError, so
	// callers can classify any conversion failure with a single errors.Is.
	ErrConversion = errors.New("conversion failed")

	// ErrNoValue reports that a path did not resolve to a value. It appears
	// as the cause of a ConversionError returned by typed path reads; a
	// present null value is not absence and does not produce ErrNoValue.
	ErrNoValue = errors.New("no value at path")
)

// ConversionError describes a failed conversion between a Value and a typed
// representation. It wraps ErrConversion, and additionally wraps Cause when
// one is set, so errors.Is matches both.
type ConversionError struct {
	// Path locates the failing value relative to the Value the conversion
	// started from. It is empty when the root value itself failed.
	Path keyed.Path

	// Target names the Go type or variant the conversion was aiming for,
	// e.g. "int" or "[]string".
	Target string

	// Got is the variant actually found, when the failure is a variant
	// mismatch.
	Got Kind

	// Detail is an optional human-readable refinement, e.g. an overflow
	// note.
	Detail string

	// Cause is the underlying error, when the failure originated below
	// this conversion (a custom UnmarshalValue, or ErrNoValue for an
	// unresolved path).
	Cause error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString("cannot convert")
	if e.Target != "" {
		fmt.Fprintf(&b, " to %s", e.Target)
	}
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	switch {
	case e.Detail != "":
		fmt.Fprintf(&b, ": %s", e.Detail)
	case e.Cause != nil:
		fmt.Fprintf(&b, ": %s", e.Cause)
	default:
		fmt.Fprintf(&b, ": got %s", e.Got)
	}
	return b.String()
}

// Unwrap returns the wrapped errors: always ErrConversion, plus Cause when
// set.
func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Cause}
}

// kindError reports a variant mismatch at the root of a conversion.
func kindError(target string, got Kind) *ConversionError {
	return &ConversionError{Target: target, Got: got}
}

// errorAt places err at component c. A ConversionError gets c prepended to
// its path, so element-wise decoders accumulate the full path as the error
// bubbles up; any other error is wrapped as the cause of a fresh
// ConversionError rooted at c.
func errorAt(err error, c keyed.Component) error {
	var conv *ConversionError
	if errors.As(err, &conv) {
		return &ConversionError{
			Path:   append(keyed.Path{c}, conv.Path...),
			Target: conv.Target,
			Got:    conv.Got,
			Detail: conv.Detail,
			Cause:  conv.Cause,
		}
	}
	return &ConversionError{Path: keyed.Path{c}, Cause: err}
}
