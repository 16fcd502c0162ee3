// SPDX-License-Identifier: MPL-2.0

package keyed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
var ErrInvalidPath = errors.New("invalid path")

type (
	// Path is an ordered sequence of components addressing a nested location.
	// The empty Path addresses the root.
	Path []Component

	// InvalidPathError is returned by ParsePath when the input does not
	// follow the path syntax. It wraps ErrInvalidPath for errors.Is checks.
	InvalidPathError struct {
		// Input is the full text that failed to parse.
		Input string
		// Offset is the byte offset at which parsing failed.
		Offset int
		// Detail describes what was wrong at Offset.
		Detail string
	}
)

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Input, e.Offset, e.Detail)
}

// Unwrap returns ErrInvalidPath so callers can use errors.Is.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// String renders the path in canonical text syntax: bare keys joined with
// dots, indices and quoted keys in brackets ("servers[0].host",
// `settings["a.b"]`). The empty path renders as ".". ParsePath inverts
// String for every valid path.
func (p Path) String() string { return formatPath(p) }

// ParsePath parses the text form of a path.
//
// Syntax:
//   - bare keys separated by dots: "ui.color_scheme"
//   - bracketed indices: "servers[0]", "[2].name"
//   - bracketed quoted keys for names containing metacharacters:
//     `settings["a.b"]` (Go string quoting)
//   - "." alone is the root (empty) path
//
// Negative indices, empty components, unterminated brackets, and stray
// metacharacters are rejected with an InvalidPathError.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, &InvalidPathError{Input: s, Detail: `empty path (use "." for the root)`}
	}
	if s == "." {
		return Path{}, nil
	}

	var (
		path     Path
		i        int
		expected = true // a segment is expected at the current position
	)

	for i < len(s) {
		switch {
		case s[i] == '.':
			if expected {
				return nil, &InvalidPathError{Input: s, Offset: i, Detail: "empty path component"}
			}
			expected = true
			i++

		case s[i] == '[':
			// Bracket segments attach directly, so they are valid both at
			// the start of the path and immediately after another segment.
			comp, next, err := parseBracket(s, i)
			if err != nil {
				return nil, err
			}
			path = append(path, comp)
			i = next
			expected = false

		default:
			if !expected {
				return nil, &InvalidPathError{Input: s, Offset: i, Detail: "expected '.' or '[' between components"}
			}
			start := i
			for i < len(s) && s[i] != '.' && s[i] != '[' {
				if s[i] == ']' || s[i] == '"' {
					return nil, &InvalidPathError{Input: s, Offset: i, Detail: fmt.Sprintf("unexpected %q in bare key (quote the key instead)", s[i])}
				}
				i++
			}
			path = append(path, Key(s[start:i]))
			expected = false
		}
	}

	if expected {
		return nil, &InvalidPathError{Input: s, Offset: len(s), Detail: "trailing '.'"}
	}
	return path, nil
}

// parseBracket parses one "[...]" segment starting at the '[' in s[at] and
// returns the component plus the offset just past the closing bracket.
func parseBracket(s string, at int) (Component, int, error) {
	i := at + 1
	if i >= len(s) {
		return Component{}, 0, &InvalidPathError{Input: s, Offset: at, Detail: "unterminated '['"}
	}

	// Quoted key segment: ["name"], using Go string syntax so escape
	// handling matches strconv exactly.
	if s[i] == '"' {
		end := i + 1
		for end < len(s) && s[end] != '"' {
			if s[end] == '\\' {
				end++
			}
			end++
		}
		if end >= len(s) {
			return Component{}, 0, &InvalidPathError{Input: s, Offset: i, Detail: "unterminated quoted key"}
		}
		key, err := strconv.Unquote(s[i : end+1])
		if err != nil {
			return Component{}, 0, &InvalidPathError{Input: s, Offset: i, Detail: "malformed quoted key: " + err.Error()}
		}
		if end+1 >= len(s) || s[end+1] != ']' {
			return Component{}, 0, &InvalidPathError{Input: s, Offset: end + 1, Detail: "expected ']' after quoted key"}
		}
		return Key(key), end + 2, nil
	}

	// Index segment: [123]. Only digits are accepted, which rejects
	// negative indices by construction.
	closing := strings.IndexByte(s[i:], ']')
	if closing < 0 {
		return Component{}, 0, &InvalidPathError{Input: s, Offset: at, Detail: "unterminated '['"}
	}
	digits := s[i : i+closing]
	if digits == "" {
		return Component{}, 0, &InvalidPathError{Input: s, Offset: i, Detail: "empty index"}
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return Component{}, 0, &InvalidPathError{Input: s, Offset: i + j, Detail: fmt.Sprintf("index must be a non-negative integer, got %q", digits)}
		}
	}
	idx, err := strconv.Atoi(digits)
	if err != nil {
		return Component{}, 0, &InvalidPathError{Input: s, Offset: i, Detail: "index out of range: " + err.Error()}
	}
	return Index(idx), i + closing + 1, nil
}
