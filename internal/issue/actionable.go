// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError carries the context a user needs to act on a failure:
// the operation that was being attempted, the resource involved, and
// remediation suggestions. It wraps the underlying cause so errors.Is
// and errors.As keep working through it.
//
// Instances are built through the ErrorContext fluent API:
//
//	return issue.NewErrorContext().
//		WithOperation("load configuration").
//		WithResource(path).
//		WithSuggestion("Check that the file contains valid CUE syntax").
//		Wrap(err).
//		BuildError()
type ActionableError struct {
	// Operation is the verb phrase for what failed ("load configuration",
	// "parse document").
	Operation string

	// Resource is the file or entity involved, if any.
	Resource string

	// Suggestions are remediation hints shown under the message.
	Suggestions []string

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// ErrorContext accumulates error context incrementally, so a call site
// can set up operation and resource once and attach a cause at each
// failure exit.
type ErrorContext struct {
	operation   string
	resource    string
	suggestions []string
	cause       error
}

// NewErrorContext returns an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns the one-line message used in default (non-verbose) output:
// "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal display. Suggestions appear as a
// bulleted list under the message; verbose mode additionally walks the
// full wrapped error chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the verb phrase naming what is being attempted.
// An operation is required; BuildError returns nil without one.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the file, path, or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one remediation hint. Call repeatedly to stack
// several.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// BuildError materializes the accumulated context as an error, or nil
// when no operation was recorded.
func (c *ErrorContext) BuildError() error {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}
