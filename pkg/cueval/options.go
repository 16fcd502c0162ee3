// SPDX-License-Identifier: MPL-2.0

package cueval

// DefaultMaxFileSize is the default maximum input size for Parse (5MB).
// The limit keeps a hostile configuration file from exhausting memory.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// parseOptions holds configuration for Parse.
	parseOptions struct {
		maxFileSize int64
		filename    string
		schema      []byte
		schemaPath  string
	}

	// Option configures Parse behavior.
	Option func(*parseOptions)
)

// defaultOptions returns the default parse options.
func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithMaxFileSize sets the maximum allowed input size.
// Default is DefaultMaxFileSize (5MB).
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithFilename sets the filename used in error messages, helping users
// locate issues when several files are involved.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithSchema unifies the parsed document against the definition at
// schemaPath (e.g. "#Config") inside the given CUE schema source before
// conversion. Validation failures are reported with their document paths.
func WithSchema(schema []byte, schemaPath string) Option {
	return func(o *parseOptions) {
		o.schema = schema
		o.schemaPath = schemaPath
	}
}
