// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is a single segment of a [Name]. An element is either named,
// for example "port" in "server.port", or indexed, for example "[0]"
// in "hosts[0]".
type Element struct {
	value   string
	canon   string
	indexed bool
}

// NewElement validates s and returns it as a named [Element]. Valid
// elements consist of letters, digits, '-' and '_', and must contain
// at least one letter or digit. The original spelling is retained but
// all comparisons between elements use a canonical form which folds
// case and ignores '-' and '_'. This makes "maxSize", "max-size" and
// "MAX_SIZE" interchangeable spellings of the same element.
func NewElement(s string) (Element, error) {
	canon, err := canonicalize(s)
	if err != nil {
		return Element{}, err
	}
	return Element{value: s, canon: canon}, nil
}

// IndexElement returns i as an indexed [Element].
func IndexElement(i int) Element {
	s := strconv.Itoa(i)
	return Element{value: s, canon: s, indexed: true}
}

// String returns the original spelling of the element.
func (e Element) String() string {
	return e.value
}

// Canonical returns the canonical form of the element.
func (e Element) Canonical() string {
	return e.canon
}

// IsIndexed reports whether the element is an indexed element.
func (e Element) IsIndexed() bool {
	return e.indexed
}

// Index returns the numeric value of an indexed element. It reports
// false for named elements.
func (e Element) Index() (int, bool) {
	if !e.indexed {
		return 0, false
	}
	i, err := strconv.Atoi(e.canon)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (e Element) isZero() bool {
	return e.value == "" && !e.indexed
}

func canonicalize(s string) (string, error) {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		case r == '-' || r == '_':
		default:
			return "", InvalidNameError{Name: s, Reason: fmt.Sprintf("invalid character %q in element", r)}
		}
	}
	if sb.Len() == 0 {
		return "", InvalidNameError{Name: s, Reason: "element must contain at least one letter or digit"}
	}
	return sb.String(), nil
}

// InvalidNameError occurs when a property name fails to parse.
type InvalidNameError struct {
	Name   string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidNameError) Error() string {
	return fmt.Sprintf("invalid property name %q: %s", e.Name, e.Reason)
}

// Name is a dotted, hierarchical property name, for example
// "server.ssl.enabled" or "hosts[1].port". The zero value is the
// empty name, which is the root of the hierarchy.
//
// Names compare by their canonical form, so differing spellings of
// the same name are equal. See [NewElement].
type Name struct {
	elems []Element
}

// ParseName parses s into a [Name]. The empty string parses to the
// empty name.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, nil
	}

	var elems []Element
	rest := s
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			if len(elems) == 0 {
				return Name{}, InvalidNameError{Name: s, Reason: "name must not start with '.'"}
			}
			rest = rest[1:]
			if len(rest) == 0 {
				return Name{}, InvalidNameError{Name: s, Reason: "name must not end with '.'"}
			}
			if rest[0] == '.' {
				return Name{}, InvalidNameError{Name: s, Reason: "name must not contain empty elements"}
			}
			if rest[0] == '[' {
				return Name{}, InvalidNameError{Name: s, Reason: "indexed element must directly follow its parent element"}
			}
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Name{}, InvalidNameError{Name: s, Reason: "unclosed '['"}
			}
			i, err := strconv.Atoi(rest[1:end])
			if err != nil || i < 0 {
				return Name{}, InvalidNameError{Name: s, Reason: fmt.Sprintf("invalid index %q", rest[1:end])}
			}
			elems = append(elems, IndexElement(i))
			rest = rest[end+1:]
			if len(rest) > 0 && rest[0] != '.' && rest[0] != '[' {
				return Name{}, InvalidNameError{Name: s, Reason: "indexed element must be followed by '.' or '['"}
			}
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			elem, err := NewElement(rest[:end])
			if err != nil {
				return Name{}, InvalidNameError{Name: s, Reason: err.(InvalidNameError).Reason}
			}
			elems = append(elems, elem)
			rest = rest[end:]
		}
	}
	return Name{elems: elems}, nil
}

// MustParseName is like [ParseName] but panics if s fails to parse.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// IsEmpty reports whether the name is the empty name.
func (n Name) IsEmpty() bool {
	return len(n.elems) == 0
}

// Len returns the number of elements in the name.
func (n Name) Len() int {
	return len(n.elems)
}

// Element returns the i-th element of the name.
func (n Name) Element(i int) Element {
	return n.elems[i]
}

// LastElement returns the final element of the name. It returns the
// zero [Element] for the empty name.
func (n Name) LastElement() Element {
	if len(n.elems) == 0 {
		return Element{}
	}
	return n.elems[len(n.elems)-1]
}

// Append returns a new name with e appended. The receiver is unchanged.
func (n Name) Append(e Element) Name {
	elems := make([]Element, len(n.elems), len(n.elems)+1)
	copy(elems, n.elems)
	return Name{elems: append(elems, e)}
}

// AppendIndex returns a new name with the indexed element i appended.
func (n Name) AppendIndex(i int) Name {
	return n.Append(IndexElement(i))
}

// Truncate returns the name consisting of the first i elements.
func (n Name) Truncate(i int) Name {
	return Name{elems: n.elems[:i]}
}

// Equal reports whether n and o are the same name, comparing
// elements by their canonical form.
func (n Name) Equal(o Name) bool {
	if len(n.elems) != len(o.elems) {
		return false
	}
	for i := range len(n.elems) {
		if !elementsEqual(n.elems[i], o.elems[i]) {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether n is a strict prefix of o.
func (n Name) IsAncestorOf(o Name) bool {
	if len(n.elems) >= len(o.elems) {
		return false
	}
	for i := range len(n.elems) {
		if !elementsEqual(n.elems[i], o.elems[i]) {
			return false
		}
	}
	return true
}

// IsParentOf reports whether o is exactly one element below n.
func (n Name) IsParentOf(o Name) bool {
	return len(o.elems) == len(n.elems)+1 && n.IsAncestorOf(o)
}

func elementsEqual(a, b Element) bool {
	return a.indexed == b.indexed && a.canon == b.canon
}

// String renders the name with the original spelling of each element.
func (n Name) String() string {
	return n.join(func(e Element) string { return e.value })
}

// Canonical renders the name in its canonical form. Two names are
// equal exactly when their canonical forms are identical, which makes
// the canonical form suitable as a map key.
func (n Name) Canonical() string {
	return n.join(func(e Element) string { return e.canon })
}

func (n Name) join(f func(Element) string) string {
	var sb strings.Builder
	for i, e := range n.elems {
		if e.indexed {
			sb.WriteByte('[')
			sb.WriteString(f(e))
			sb.WriteByte(']')
			continue
		}
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(f(e))
	}
	return sb.String()
}
