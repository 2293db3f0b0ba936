// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"reflect"
)

// Bindable describes a target that properties can be bound to. The
// zero value carries no type and can't be bound; handlers return it
// from OnStart to veto a binding.
type Bindable struct {
	typ   reflect.Type
	value func() any
	tag   reflect.StructTag
}

// Of returns a Bindable for the given type.
func Of(t reflect.Type) Bindable {
	return Bindable{typ: t}
}

// To returns a Bindable for the type T.
func To[T any]() Bindable {
	return Of(reflect.TypeFor[T]())
}

// OfValue returns a Bindable for the dynamic type of v, with v itself
// carried as the existing value.
func OfValue(v any) Bindable {
	if v == nil {
		return Bindable{}
	}
	return Of(reflect.TypeOf(v)).WithExisting(v)
}

// Type returns the type the Bindable describes.
func (b Bindable) Type() reflect.Type {
	return b.typ
}

// Tag returns the struct tag attached to the Bindable. Struct members
// carry their field tag so handlers can inspect it.
func (b Bindable) Tag() reflect.StructTag {
	return b.tag
}

// Value returns the existing value attached to the Bindable, if any.
// An existing value acts as a source of defaults. It's never mutated
// during binding.
func (b Bindable) Value() (any, bool) {
	if b.value == nil {
		return nil, false
	}
	v := b.value()
	if v == nil {
		return nil, false
	}
	return v, true
}

// IsZero reports whether the Bindable carries no type.
func (b Bindable) IsZero() bool {
	return b.typ == nil
}

// WithExisting returns a copy of the Bindable carrying v as its
// existing value.
func (b Bindable) WithExisting(v any) Bindable {
	return b.WithValue(func() any { return v })
}

// WithValue returns a copy of the Bindable carrying f as the supplier
// of its existing value.
func (b Bindable) WithValue(f func() any) Bindable {
	b.value = f
	return b
}

// WithTag returns a copy of the Bindable carrying the given struct tag.
func (b Bindable) WithTag(tag reflect.StructTag) Bindable {
	b.tag = tag
	return b
}
