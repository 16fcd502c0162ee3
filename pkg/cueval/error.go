// SPDX-License-Identifier: MPL-2.0

package cueval

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"

	"github.com/confval/confval/pkg/keyed"
)

// FormatError rewrites a CUE error so each underlying failure is prefixed
// with the file and the document path in keyed syntax.
//
// Error format: <filename>: <path>: <message>
//
// Examples:
//   - config.cue: servers[0].port: conflicting values "x" and int
//   - config.cue: ui.color_scheme: incomplete value string
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}

	var cueErr errors.Error
	if !stderrors.As(err, &cueErr) {
		// Not a CUE error; attach the filename and pass it through.
		return fmt.Errorf("%s: %w", filename, err)
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	var lines []string
	for _, e := range cueErrors {
		pathStr := keyedPath(errors.Path(e)).String()
		msg := e.Error()

		// CUE sometimes repeats the path inside the message; drop the
		// duplicate so the line reads cleanly.
		if pathStr != "." {
			if rest, ok := strings.CutPrefix(msg, pathStr); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
			lines = append(lines, fmt.Sprintf("%s: %s", pathStr, msg))
			continue
		}
		lines = append(lines, msg)
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// keyedPath converts a CUE error path, a flat string slice whose numeric
// elements are array indices, into a keyed.Path.
func keyedPath(parts []string) keyed.Path {
	path := make(keyed.Path, 0, len(parts))
	for _, part := range parts {
		if i, err := strconv.Atoi(part); err == nil && i >= 0 {
			path = append(path, keyed.Index(i))
			continue
		}
		path = append(path, keyed.Key(part))
	}
	return path
}
