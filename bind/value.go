// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

// Value represents the result of a binding, which may or may not have
// produced a value. This distinguishes between "nothing was bound",
// which is never an error, and "the zero value was bound".
type Value struct {
	v     any
	bound bool
}

// ValueOf returns a bound Value holding v.
func ValueOf(v any) Value {
	return Value{v: v, bound: true}
}

// Bound reports whether a value was bound.
func (v Value) Bound() bool {
	return v.bound
}

// Get returns the bound value, if one was bound.
func (v Value) Get() (any, bool) {
	return v.v, v.bound
}

// Or returns the bound value or def if nothing was bound.
func (v Value) Or(def any) any {
	if !v.bound {
		return def
	}
	return v.v
}

// As unwraps val into a T. It reports false if nothing was bound or
// the bound value is not a T.
func As[T any](val Value) (T, bool) {
	var zero T
	v, ok := val.Get()
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
