// SPDX-License-Identifier: MPL-2.0

package codec

// DefaultIndent is the indent width used by Encode when none is given.
const DefaultIndent = 2

type (
	// codecOptions holds configuration shared by Decode and Encode.
	codecOptions struct {
		filename string
		indent   int
	}

	// Option configures Decode and Encode behavior.
	Option func(*codecOptions)
)

func defaultOptions() codecOptions {
	return codecOptions{indent: DefaultIndent}
}

// WithFilename sets the filename used in decode error messages.
func WithFilename(name string) Option {
	return func(o *codecOptions) {
		o.filename = name
	}
}

// WithIndent sets the indent width for JSON and YAML output. Zero or
// negative produces compact JSON and default-indented YAML.
func WithIndent(n int) Option {
	return func(o *codecOptions) {
		o.indent = n
	}
}
