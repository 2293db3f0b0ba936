// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package condition

import (
	"fmt"
	"reflect"
	"slices"
)

// Component describes a single named component registered with a
// [Registry].
type Component struct {
	// Name uniquely identifies the component within its Registry.
	Name string

	// Type is the concrete type of the component.
	Type reflect.Type

	// Labels are free form markers attached to the component which
	// predicates can match on.
	Labels []string

	// Primary marks the component as the preferred candidate when
	// multiple components of the same type are registered.
	Primary bool
}

// UnnamedComponentError occurs when registering a [Component] with
// no name.
type UnnamedComponentError struct {
	Type reflect.Type
}

// Error implements the [builtin.error] interface.
func (e UnnamedComponentError) Error() string {
	return fmt.Sprintf("a component of type %s must be registered with a name", e.Type)
}

// UntypedComponentError occurs when registering a [Component] with
// no type.
type UntypedComponentError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e UntypedComponentError) Error() string {
	return fmt.Sprintf("the component %q must be registered with a type", e.Name)
}

// DuplicateComponentError occurs when registering a [Component]
// under a name the [Registry] already holds.
type DuplicateComponentError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("a component is already registered under the name %q", e.Name)
}

type registryOptions struct {
	parent *Registry
}

// RegistryOption represents options for configuring a [Registry].
type RegistryOption func(*registryOptions)

// WithParent links the [Registry] to a parent whose components
// predicates can reach with [SearchAncestors] or [SearchAll].
func WithParent(parent *Registry) RegistryOption {
	return func(ro *registryOptions) {
		ro.parent = parent
	}
}

// Registry is a snapshot of named components which presence
// predicates are evaluated against. Registries form a hierarchy
// through an optional parent.
//
// A Registry is not synchronized. Register all components before
// handing the Registry to concurrent evaluators.
type Registry struct {
	parent     *Registry
	components map[string]Component
	order      []string
}

// NewRegistry returns a fully initialized [Registry].
func NewRegistry(opts ...RegistryOption) *Registry {
	ro := &registryOptions{}
	for _, opt := range opts {
		opt(ro)
	}

	return &Registry{
		parent:     ro.parent,
		components: make(map[string]Component),
	}
}

// Register adds a [Component] to the Registry. Names are unique
// within a single Registry, registering a name twice fails with a
// [DuplicateComponentError]. A component may share its name with a
// component of an ancestor Registry, in which case the descendant
// shadows nothing, both remain visible to hierarchy wide searches.
func (r *Registry) Register(c Component) error {
	if c.Name == "" {
		return UnnamedComponentError{Type: c.Type}
	}
	if c.Type == nil {
		return UntypedComponentError{Name: c.Name}
	}
	if _, ok := r.components[c.Name]; ok {
		return DuplicateComponentError{Name: c.Name}
	}

	r.components[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

// Parent returns the parent Registry, if the Registry has one.
func (r *Registry) Parent() (*Registry, bool) {
	return r.parent, r.parent != nil
}

// Lookup returns the [Component] registered under name with this
// Registry alone. Ancestors are not searched.
func (r *Registry) Lookup(name string) (Component, bool) {
	c, ok := r.components[name]
	return c, ok
}

// Contains reports whether a [Component] is registered under name
// with this Registry alone.
func (r *Registry) Contains(name string) bool {
	_, ok := r.components[name]
	return ok
}

// Components returns the registered components in registration
// order.
func (r *Registry) Components() []Component {
	cs := make([]Component, len(r.order))
	for i, name := range r.order {
		cs[i] = r.components[name]
	}
	return cs
}

// NamesOf returns the names of the components whose type is
// assignable to t, in registration order. For an interface t this
// is every component implementing it.
func (r *Registry) NamesOf(t reflect.Type) []string {
	var names []string
	for _, name := range r.order {
		if r.components[name].Type.AssignableTo(t) {
			names = append(names, name)
		}
	}
	return names
}

// NamesLabeled returns the names of the components carrying the
// given label, in registration order.
func (r *Registry) NamesLabeled(label string) []string {
	var names []string
	for _, name := range r.order {
		if slices.Contains(r.components[name].Labels, label) {
			names = append(names, name)
		}
	}
	return names
}
