// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"errors"
	"reflect"

	"github.com/z5labs/loam/prop"
)

// Handler observes and steers bindings as they happen. Every binding
// frame reports to the handlers registered with [WithHandlers], in
// registration order.
//
// Embed [BaseHandler] to only implement the methods you care about.
type Handler interface {
	// OnStart runs before a frame binds. It may replace the target,
	// or return the zero [Bindable] to veto the binding entirely.
	OnStart(ctx *Context, name prop.Name, target Bindable) (Bindable, error)

	// OnSuccess runs after a frame bound a value. It may replace the
	// value.
	OnSuccess(ctx *Context, name prop.Name, target Bindable, v any) (any, error)

	// OnFailure runs when a frame failed. Returning a nil error
	// suppresses the failure and the returned value, which may be
	// nil, becomes the frame's result. The first handler to suppress
	// wins and later handlers are not consulted.
	OnFailure(ctx *Context, name prop.Name, target Bindable, err error) (any, error)

	// OnFinish runs once a frame settled, whether a value was bound
	// or not. Errors it returns route back through OnFailure.
	OnFinish(ctx *Context, name prop.Name, target Bindable, v any) error
}

// BaseHandler is a no-op [Handler] meant for embedding.
type BaseHandler struct{}

// OnStart implements the [Handler] interface.
func (BaseHandler) OnStart(_ *Context, _ prop.Name, target Bindable) (Bindable, error) {
	return target, nil
}

// OnSuccess implements the [Handler] interface.
func (BaseHandler) OnSuccess(_ *Context, _ prop.Name, _ Bindable, v any) (any, error) {
	return v, nil
}

// OnFailure implements the [Handler] interface.
func (BaseHandler) OnFailure(_ *Context, _ prop.Name, _ Bindable, err error) (any, error) {
	return nil, err
}

// OnFinish implements the [Handler] interface.
func (BaseHandler) OnFinish(_ *Context, _ prop.Name, _ Bindable, _ any) error {
	return nil
}

type pipeline []Handler

func (p pipeline) start(ctx *Context, name prop.Name, target Bindable) (Bindable, error) {
	for _, h := range p {
		var err error
		target, err = h.OnStart(ctx, name, target)
		if err != nil {
			return Bindable{}, err
		}
		if target.IsZero() {
			return Bindable{}, nil
		}
	}
	return target, nil
}

func (p pipeline) success(ctx *Context, name prop.Name, target Bindable, v any) (any, error) {
	for _, h := range p {
		var err error
		v, err = h.OnSuccess(ctx, name, target, v)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (p pipeline) failure(ctx *Context, name prop.Name, target Bindable, err error) (any, error) {
	for _, h := range p {
		v, herr := h.OnFailure(ctx, name, target, err)
		if herr == nil {
			return v, nil
		}
		err = herr
	}
	return nil, err
}

func (p pipeline) finish(ctx *Context, name prop.Name, target Bindable, v any) error {
	var errs []error
	for _, h := range p {
		err := h.OnFinish(ctx, name, target, v)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type ignoreErrorsHandler struct {
	BaseHandler
}

// IgnoreErrorsHandler returns a [Handler] which suppresses every bind
// failure, turning the failing frame into an absent result.
func IgnoreErrorsHandler() Handler {
	return ignoreErrorsHandler{}
}

// OnFailure implements the [Handler] interface.
func (ignoreErrorsHandler) OnFailure(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
	return nil, nil
}

type ignoreInvalidFieldsHandler struct {
	BaseHandler
}

// IgnoreInvalidFieldsHandler returns a [Handler] which suppresses
// conversion failures only, so a malformed value leaves its member
// unbound instead of failing the whole binding.
func IgnoreInvalidFieldsHandler() Handler {
	return ignoreInvalidFieldsHandler{}
}

// OnFailure implements the [Handler] interface.
func (ignoreInvalidFieldsHandler) OnFailure(_ *Context, _ prop.Name, _ Bindable, err error) (any, error) {
	var cerr ConversionError
	if errors.As(err, &cerr) {
		return nil, nil
	}
	return nil, err
}

type noUnknownKeysHandler struct {
	BaseHandler
}

// NoUnknownKeysHandler returns a [Handler] which fails a top level
// binding if any enumerable source holds properties under the bound
// name which no frame consumed.
func NoUnknownKeysHandler() Handler {
	return noUnknownKeysHandler{}
}

// OnFinish implements the [Handler] interface.
func (noUnknownKeysHandler) OnFinish(ctx *Context, name prop.Name, _ Bindable, _ any) error {
	if ctx.Depth() != 0 {
		return nil
	}

	consumed := make(map[string]struct{})
	for _, n := range ctx.BoundNames() {
		consumed[n.Canonical()] = struct{}{}
	}

	var unknown []prop.Name
	seen := make(map[string]struct{})
	for _, src := range ctx.Binder().Sources() {
		es, ok := src.(prop.EnumerableSource)
		if !ok {
			continue
		}
		for _, key := range es.Names() {
			if !name.IsEmpty() && !name.IsAncestorOf(key) {
				continue
			}
			canon := key.Canonical()
			if _, ok := consumed[canon]; ok {
				continue
			}
			if _, ok := seen[canon]; ok {
				continue
			}
			seen[canon] = struct{}{}
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return UnknownKeysError{Keys: unknown}
}

// Validator checks bound values. See [ValidationHandler].
type Validator interface {
	Validate(name prop.Name, v any) []error
}

// ValidatorFunc is a functional implementation of the [Validator]
// interface.
type ValidatorFunc func(prop.Name, any) []error

// Validate implements the [Validator] interface.
func (f ValidatorFunc) Validate(name prop.Name, v any) []error {
	return f(name, v)
}

type validationHandler struct {
	BaseHandler

	validator Validator
}

// ValidationHandler returns a [Handler] which runs every successfully
// bound struct value through the given validator. Any violations fail
// the frame with a [ValidationError].
func ValidationHandler(v Validator) Handler {
	return validationHandler{validator: v}
}

// OnSuccess implements the [Handler] interface.
func (h validationHandler) OnSuccess(_ *Context, name prop.Name, target Bindable, v any) (any, error) {
	t := target.Type()
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return v, nil
	}

	violations := h.validator.Validate(name, v)
	if len(violations) > 0 {
		return nil, ValidationError{
			Name:       name,
			Violations: violations,
		}
	}
	return v, nil
}
