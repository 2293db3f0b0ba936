// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/z5labs/loam/prop"
)

// BindError wraps any failure raised while binding a property name to
// a target. It carries the name and target type of the failing frame
// along with the last property which was touched before the failure.
type BindError struct {
	Name     prop.Name
	Type     reflect.Type
	Property *prop.Property
	Cause    error
}

// Error implements the [builtin.error] interface.
func (e BindError) Error() string {
	s := fmt.Sprintf("failed to bind %q to %s: %s", e.Name, e.Type, e.Cause)
	if e.Property != nil && e.Property.Origin != "" {
		s += fmt.Sprintf(" (property %q from %s)", e.Property.Name, e.Property.Origin)
	}
	return s
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e BindError) Unwrap() error {
	return e.Cause
}

// InvalidBindableError occurs when a binding is attempted against the
// zero [Bindable].
type InvalidBindableError struct{}

// Error implements the [builtin.error] interface.
func (e InvalidBindableError) Error() string {
	return "bindable must carry a non-nil type"
}

// ConversionError occurs when a property value can't be coerced into
// the target type.
type ConversionError struct {
	Value any
	Type  reflect.Type
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %v (%T) to %s: %s", e.Value, e.Value, e.Type, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConversionError) Unwrap() error {
	return e.Cause
}

// NoConverterError occurs when no conversion exists for the target
// type. Unlike [ConversionError] it signals that conversion was never
// attempted, rather than attempted and failed.
type NoConverterError struct {
	Type reflect.Type
}

// Error implements the [builtin.error] interface.
func (e NoConverterError) Error() string {
	return fmt.Sprintf("no converter for %s", e.Type)
}

// UnsettableMemberError occurs when a value was bound for a read only
// struct member and differs from the member's current value.
type UnsettableMemberError struct {
	Name prop.Name
	Type reflect.Type
}

// Error implements the [builtin.error] interface.
func (e UnsettableMemberError) Error() string {
	return fmt.Sprintf("cannot bind %q: member of %s has no setter and the bound value differs from its current value", e.Name, e.Type)
}

// UnknownKeysError occurs when the [NoUnknownKeysHandler] finds
// property names which no binding frame consumed.
type UnknownKeysError struct {
	Keys []prop.Name
}

// Error implements the [builtin.error] interface.
func (e UnknownKeysError) Error() string {
	keys := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		keys[i] = k.String()
	}
	return fmt.Sprintf("unknown properties: %s", strings.Join(keys, ", "))
}

// ValidationError occurs when a [Validator] rejects a bound value.
type ValidationError struct {
	Name       prop.Name
	Violations []error
}

// Error implements the [builtin.error] interface.
func (e ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("validation of %q failed: %s", e.Name, strings.Join(msgs, "; "))
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ValidationError) Unwrap() []error {
	return e.Violations
}

// RecursionError occurs when binding recurses deeper than the
// configured max depth. See [MaxDepth].
type RecursionError struct {
	Name  prop.Name
	Depth int
}

// Error implements the [builtin.error] interface.
func (e RecursionError) Error() string {
	return fmt.Sprintf("binding %q exceeded the max depth of %d", e.Name, e.Depth)
}

// UnresolvedPlaceholderError occurs when a ${...} reference names a
// property which no source holds and no default was given.
type UnresolvedPlaceholderError struct {
	Key string
}

// Error implements the [builtin.error] interface.
func (e UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("unresolved placeholder ${%s}", e.Key)
}

// PlaceholderCycleError occurs when resolving a ${...} reference leads
// back to itself.
type PlaceholderCycleError struct {
	Keys []string
}

// Error implements the [builtin.error] interface.
func (e PlaceholderCycleError) Error() string {
	return fmt.Sprintf("placeholder cycle: %s", strings.Join(e.Keys, " -> "))
}

// TooManyElementsError occurs when more elements exist under a name
// than its array target can hold.
type TooManyElementsError struct {
	Name     prop.Name
	Capacity int
}

// Error implements the [builtin.error] interface.
func (e TooManyElementsError) Error() string {
	return fmt.Sprintf("too many elements under %q for array of length %d", e.Name, e.Capacity)
}
