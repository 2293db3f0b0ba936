// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loam

import (
	"fmt"

	"github.com/z5labs/loam/bind"
	"github.com/z5labs/loam/prop"
)

// Bind reads the given loaders into a single property set and binds
// the properties at and underneath name into a T.
//
// Loaders are applied in order, so properties from later loaders
// override properties from earlier ones. A name no loader provided
// anything for binds to the zero value of T. Callers which need to
// tell an absent name apart from a zero value should use
// [bind.Binder.Bind] directly.
func Bind[T any](name string, loaders ...prop.Loader) (T, error) {
	var zero T

	props, err := prop.Read(loaders...)
	if err != nil {
		return zero, ReadError{Cause: err}
	}

	b := bind.New(bind.WithSources(props))
	t, bound, err := bind.Get[T](b, name)
	if err != nil {
		return zero, BindFailedError{Cause: err}
	}
	if !bound {
		return zero, nil
	}
	return t, nil
}

// BindInto reads the given loaders into a single property set and
// binds the properties at and underneath name on top of the value
// already in into. The value in into is only replaced if something
// was bound, so it can be prefilled with defaults.
func BindInto[T any](name string, into *T, loaders ...prop.Loader) error {
	props, err := prop.Read(loaders...)
	if err != nil {
		return ReadError{Cause: err}
	}

	b := bind.New(bind.WithSources(props))
	_, err = bind.Into(b, name, into)
	if err != nil {
		return BindFailedError{Cause: err}
	}
	return nil
}

// ReadError
type ReadError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ReadError) Error() string {
	return fmt.Sprintf("failed to read property loader(s): %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ReadError) Unwrap() error {
	return e.Cause
}

// BindFailedError
type BindFailedError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e BindFailedError) Error() string {
	return fmt.Sprintf("failed to bind properties: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BindFailedError) Unwrap() error {
	return e.Cause
}
