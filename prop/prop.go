// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package prop provides hierarchical property names along with sources
// for reading them from common configuration formats.
package prop

// State describes whether a source holds any property underneath
// a given name.
type State int

const (
	// StateUnknown means the source is unable to answer the question.
	StateUnknown State = iota

	// StatePresent means at least one property exists under the name.
	StatePresent

	// StateAbsent means no property exists under the name.
	StateAbsent
)

// String implements the [fmt.Stringer] interface.
func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Property is a single named configuration value along with a
// description of where it came from.
type Property struct {
	Name   Name
	Value  any
	Origin string
}

// Source is a read only collection of properties.
type Source interface {
	// Lookup returns the property stored under exactly the given name.
	Lookup(Name) (Property, bool)

	// ContainsDescendant reports whether any property exists strictly
	// underneath the given name. Sources which cannot cheaply answer
	// may report [StateUnknown].
	ContainsDescendant(Name) State
}

// EnumerableSource is a Source which can list every property name
// it holds.
type EnumerableSource interface {
	Source

	// Names returns all property names held by the source, ordered
	// by their canonical form.
	Names() []Name
}

// Store represents a general name value structure.
type Store interface {
	Set(Name, any) error
}

// Loader defines valid property loaders as those who can serialize
// themselves into a name value like structure.
type Loader interface {
	Apply(Store) error
}

// Originator is an optional interface a [Loader] can implement to
// label where its values come from. The label is carried on every
// [Property] the loader stores and surfaces in bind error messages.
type Originator interface {
	Origin() string
}

// Read applies the given loaders, in order, to a single in memory
// store. Subsequent loaders override previous loaders.
func Read(ls ...Loader) (*Properties, error) {
	p := newProperties()
	for _, l := range ls {
		p.origin = ""
		if o, ok := l.(Originator); ok {
			p.origin = o.Origin()
		}
		err := l.Apply(p)
		if err != nil {
			return nil, err
		}
	}
	p.origin = ""
	return p, nil
}
