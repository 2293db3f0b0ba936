// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"sort"
)

// EmptyNameError occurs when a loader tries to store a value under
// the empty name.
type EmptyNameError struct {
	Value any
}

// Error implements the [builtin.error] interface.
func (e EmptyNameError) Error() string {
	return fmt.Sprintf("attempted to set value under the empty property name: %v", e.Value)
}

// NameConflictError occurs when a loader tries to store a value at a
// name which already acts as a subtree root, or underneath a name
// which already holds a value.
type NameConflictError struct {
	Name     Name
	Existing Name
}

// Error implements the [builtin.error] interface.
func (e NameConflictError) Error() string {
	return fmt.Sprintf("cannot store value at %q: conflicts with existing property %q", e.Name, e.Existing)
}

// Properties is an in memory, enumerable collection of properties.
// It implements both the [Store] interface, for loaders to fill, and
// the [EnumerableSource] interface, for consumers to query.
type Properties struct {
	origin string

	values    map[string]Property
	ancestors map[string]Name
	names     []Name
	sorted    bool
}

func newProperties() *Properties {
	return &Properties{
		values:    make(map[string]Property),
		ancestors: make(map[string]Name),
	}
}

// Set implements the [Store] interface. Values set under an already
// set name override the previous value. A value can never shadow a
// subtree, nor be stored underneath another value.
func (p *Properties) Set(name Name, v any) error {
	if name.IsEmpty() {
		return EmptyNameError{Value: v}
	}

	key := name.Canonical()
	if child, ok := p.ancestors[key]; ok {
		return NameConflictError{Name: name, Existing: child}
	}
	for i := 1; i < name.Len(); i++ {
		prefix := name.Truncate(i)
		if old, ok := p.values[prefix.Canonical()]; ok {
			return NameConflictError{Name: name, Existing: old.Name}
		}
	}

	if _, ok := p.values[key]; !ok {
		p.names = append(p.names, name)
		p.sorted = false
		for i := 1; i < name.Len(); i++ {
			p.ancestors[name.Truncate(i).Canonical()] = name
		}
	}
	p.values[key] = Property{
		Name:   name,
		Value:  v,
		Origin: p.origin,
	}
	return nil
}

// Lookup implements the [Source] interface.
func (p *Properties) Lookup(name Name) (Property, bool) {
	v, ok := p.values[name.Canonical()]
	return v, ok
}

// ContainsDescendant implements the [Source] interface.
func (p *Properties) ContainsDescendant(name Name) State {
	if name.IsEmpty() {
		if len(p.values) > 0 {
			return StatePresent
		}
		return StateAbsent
	}
	if _, ok := p.ancestors[name.Canonical()]; ok {
		return StatePresent
	}
	return StateAbsent
}

// Names implements the [EnumerableSource] interface.
func (p *Properties) Names() []Name {
	if !p.sorted {
		sort.Slice(p.names, func(i, j int) bool {
			return p.names[i].Canonical() < p.names[j].Canonical()
		})
		p.sorted = true
	}
	names := make([]Name, len(p.names))
	copy(names, p.names)
	return names
}
