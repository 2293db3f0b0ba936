// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"fmt"
	"strings"

	"github.com/z5labs/loam/prop"
)

// Resolver resolves references inside raw property values before they
// are converted.
type Resolver interface {
	Resolve(any) (any, error)
}

// NoopResolver is a [Resolver] which returns every value untouched.
type NoopResolver struct{}

// Resolve implements the [Resolver] interface.
func (NoopResolver) Resolve(v any) (any, error) {
	return v, nil
}

// PlaceholderResolver resolves ${name} and ${name:default} references
// inside string values against a set of sources. Referenced values may
// themselves contain placeholders and references may nest, for example
// ${host-${env}}. A literal ${ can be produced by escaping it as $${.
type PlaceholderResolver struct {
	sources []prop.Source
}

// NewPlaceholderResolver returns a PlaceholderResolver which resolves
// references against the given sources, in order.
func NewPlaceholderResolver(srcs ...prop.Source) *PlaceholderResolver {
	return &PlaceholderResolver{sources: srcs}
}

// Resolve implements the [Resolver] interface. Non string values pass
// through untouched.
func (r *PlaceholderResolver) Resolve(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	return r.expand(s, nil)
}

func (r *PlaceholderResolver) expand(s string, stack []string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "$${") {
			sb.WriteString("${")
			i += 3
			continue
		}
		if !strings.HasPrefix(s[i:], "${") {
			sb.WriteByte(s[i])
			i++
			continue
		}

		end, ok := matchBrace(s, i+2)
		if !ok {
			// An unterminated reference is left as literal text.
			sb.WriteString(s[i:])
			break
		}

		resolved, err := r.expandReference(s[i+2:end], stack)
		if err != nil {
			return "", err
		}
		sb.WriteString(resolved)
		i = end + 1
	}
	return sb.String(), nil
}

func (r *PlaceholderResolver) expandReference(ref string, stack []string) (string, error) {
	rawKey, rawDefault, hasDefault := cutDefault(ref)

	key, err := r.expand(rawKey, stack)
	if err != nil {
		return "", err
	}

	v, ok, err := r.lookup(key, stack)
	if err != nil {
		return "", err
	}
	if ok {
		return v, nil
	}
	if hasDefault {
		return r.expand(rawDefault, stack)
	}
	return "", UnresolvedPlaceholderError{Key: key}
}

func (r *PlaceholderResolver) lookup(key string, stack []string) (string, bool, error) {
	name, err := prop.ParseName(key)
	if err != nil {
		// No property can exist under an unparseable name.
		return "", false, nil
	}

	canon := name.Canonical()
	for _, seen := range stack {
		if seen == canon {
			return "", false, PlaceholderCycleError{Keys: append(append([]string{}, stack...), canon)}
		}
	}

	for _, src := range r.sources {
		p, ok := src.Lookup(name)
		if !ok {
			continue
		}
		next := append(append([]string{}, stack...), canon)
		v, err := r.expand(fmt.Sprint(p.Value), next)
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}
	return "", false, nil
}

// matchBrace returns the index of the '}' matching the reference which
// opened just before start, skipping over any nested references.
func matchBrace(s string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(s); i++ {
		if strings.HasPrefix(s[i:], "${") {
			depth++
			i++
			continue
		}
		if s[i] == '}' {
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// cutDefault splits a reference on the first ':' which sits outside of
// any nested reference.
func cutDefault(ref string) (key, def string, hasDefault bool) {
	depth := 0
	for i := 0; i < len(ref); i++ {
		if strings.HasPrefix(ref[i:], "${") {
			depth++
			i++
			continue
		}
		switch ref[i] {
		case '}':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				return ref[:i], ref[i+1:], true
			}
		}
	}
	return ref, "", false
}
