// SPDX-License-Identifier: MPL-2.0

package keyed

import (
	"fmt"
	"strconv"
	"strings"
)

// Component is a single path step: either a string key into a dictionary
// level or an integer index into an array level. The zero value is the
// empty string key.
type Component struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a component that addresses a dictionary entry by name.
func Key(name string) Component {
	return Component{key: name}
}

// Index returns a component that addresses an array element by position.
// Negative positions are representable but never match anything: reads
// through them yield absence and writes through them are dropped, the same
// as any other out-of-range index.
func Index(i int) Component {
	return Component{index: i, isIndex: true}
}

// IsIndex reports whether the component is an array index.
func (c Component) IsIndex() bool { return c.isIndex }

// Key returns the dictionary key and true when the component is a key
// component, or ("", false) when it is an index.
func (c Component) Key() (string, bool) {
	if c.isIndex {
		return "", false
	}
	return c.key, true
}

// Index returns the array position and true when the component is an index
// component, or (0, false) when it is a key.
func (c Component) Index() (int, bool) {
	if !c.isIndex {
		return 0, false
	}
	return c.index, true
}

// String renders the component in path syntax: a bare key ("host"), a quoted
// key (`["a.b"]`) when the name needs escaping, or a bracketed index ("[3]").
func (c Component) String() string {
	if c.isIndex {
		return "[" + strconv.Itoa(c.index) + "]"
	}
	if keyNeedsQuoting(c.key) {
		return "[" + strconv.Quote(c.key) + "]"
	}
	return c.key
}

// keyNeedsQuoting reports whether a key must be written in the quoted
// bracket form to survive a parse round-trip. Empty keys, keys containing
// path metacharacters, and keys that look like bracket segments all need it.
func keyNeedsQuoting(key string) bool {
	if key == "" {
		return true
	}
	return strings.ContainsAny(key, `.["]`)
}

// formatPath writes the canonical text form of a component sequence.
// Bracket segments attach directly to the previous segment; bare keys are
// joined with dots. The empty sequence renders as ".", the root path.
func formatPath(components []Component) string {
	if len(components) == 0 {
		return "."
	}

	var b strings.Builder
	for i, c := range components {
		if c.isIndex {
			fmt.Fprintf(&b, "[%d]", c.index)
			continue
		}
		if keyNeedsQuoting(c.key) {
			b.WriteString("[")
			b.WriteString(strconv.Quote(c.key))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.key)
	}
	return b.String()
}
