// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/z5labs/loam/internal/noop"
	"github.com/z5labs/loam/internal/structmeta"
	"github.com/z5labs/loam/internal/try"
	"github.com/z5labs/loam/prop"
)

const (
	defaultMaxDepth        = 64
	defaultMemberCacheSize = 16
)

type binderOptions struct {
	sources    []prop.Source
	handlers   []Handler
	resolver   Resolver
	converter  *Converter
	logHandler slog.Handler
	maxDepth   int
	cacheSize  int
}

// Option represents options for configuring a [Binder].
type Option func(*binderOptions)

// WithSources registers the sources properties are looked up in.
// Sources are consulted in the order given and the first source
// holding a name wins, so earlier sources shadow later ones.
func WithSources(srcs ...prop.Source) Option {
	return func(bo *binderOptions) {
		bo.sources = append(bo.sources, srcs...)
	}
}

// WithHandlers registers handlers which observe and steer every
// binding the [Binder] performs. Handlers run in the order given.
func WithHandlers(hs ...Handler) Option {
	return func(bo *binderOptions) {
		bo.handlers = append(bo.handlers, hs...)
	}
}

// WithResolver overrides the [Resolver] used on property values
// before conversion. Defaults to a [PlaceholderResolver] over the
// binder's own sources.
func WithResolver(r Resolver) Option {
	return func(bo *binderOptions) {
		bo.resolver = r
	}
}

// WithConverter overrides the [Converter] used to coerce property
// values into target types.
func WithConverter(c *Converter) Option {
	return func(bo *binderOptions) {
		bo.converter = c
	}
}

// LogHandler overrides the default noop [slog.Handler].
func LogHandler(h slog.Handler) Option {
	return func(bo *binderOptions) {
		bo.logHandler = h
	}
}

// MaxDepth overrides how deeply nested a single binding is allowed
// to get before it fails with a [RecursionError].
func MaxDepth(n int) Option {
	return func(bo *binderOptions) {
		bo.maxDepth = n
	}
}

// MemberCacheSize overrides how many struct member tables the
// [Binder] caches between bindings.
func MemberCacheSize(n int) Option {
	return func(bo *binderOptions) {
		bo.cacheSize = n
	}
}

// Binder binds properties from a set of sources into typed values.
//
// A Binder carries no per binding state of its own and is safe for
// concurrent use by multiple goroutines.
type Binder struct {
	sources   []prop.Source
	pipeline  pipeline
	resolver  Resolver
	converter *Converter
	log       *slog.Logger
	maxDepth  int
	members   *structmeta.Cache
}

// New returns a fully initialized [Binder].
func New(opts ...Option) *Binder {
	bo := &binderOptions{
		logHandler: noop.LogHandler{},
		maxDepth:   defaultMaxDepth,
		cacheSize:  defaultMemberCacheSize,
	}
	for _, opt := range opts {
		opt(bo)
	}

	if bo.converter == nil {
		bo.converter = NewConverter()
	}
	if bo.resolver == nil {
		bo.resolver = NewPlaceholderResolver(bo.sources...)
	}

	return &Binder{
		sources:   bo.sources,
		pipeline:  pipeline(bo.handlers),
		resolver:  bo.resolver,
		converter: bo.converter,
		log:       slog.New(bo.logHandler),
		maxDepth:  bo.maxDepth,
		members:   structmeta.NewCache(bo.cacheSize),
	}
}

// Sources returns the sources the Binder binds from, in precedence
// order.
func (b *Binder) Sources() []prop.Source {
	srcs := make([]prop.Source, len(b.sources))
	copy(srcs, b.sources)
	return srcs
}

// Bind binds the properties at and underneath name into a value
// fitting the given target.
//
// A name no source knows anything about binds to nothing, which is
// reported by an unbound [Value] rather than an error. Errors are
// reserved for properties which exist but can't be bound.
func (b *Binder) Bind(name prop.Name, target Bindable) (_ Value, err error) {
	defer try.Recover(&err)

	if target.IsZero() {
		return Value{}, InvalidBindableError{}
	}

	ctx := newContext(b)
	v, err := b.bind(name, target, ctx, false)
	if err != nil {
		b.log.Debug(
			"failed to bind property",
			slog.String("name", name.String()),
			slog.String("type", target.Type().String()),
			slog.String("error", err.Error()),
		)
		return Value{}, err
	}
	if v == nil {
		b.log.Debug(
			"no property bound",
			slog.String("name", name.String()),
			slog.String("type", target.Type().String()),
		)
		return Value{}, nil
	}
	return ValueOf(v), nil
}

// bind runs a single binding frame. A nil value with a nil error
// means nothing was bound.
func (b *Binder) bind(name prop.Name, target Bindable, ctx *Context, allowRecursive bool) (any, error) {
	if ctx.depth > b.maxDepth {
		return nil, RecursionError{Name: name, Depth: ctx.depth}
	}
	ctx.clearProperty()

	v, bound, err := b.bindFrame(name, target, ctx, allowRecursive)
	if err == nil && v != nil {
		v, err = b.pipeline.success(ctx, name, bound, v)
	}
	if err == nil && v != nil {
		v, err = b.finalize(v, bound)
	}
	if err == nil {
		err = b.pipeline.finish(ctx, name, bound, v)
	}
	if err == nil {
		return v, nil
	}

	v, ferr := b.pipeline.failure(ctx, name, bound, err)
	if ferr != nil {
		return nil, b.wrapError(name, bound, ctx, ferr)
	}
	if v == nil {
		return nil, nil
	}
	v, err = b.finalize(v, bound)
	if err != nil {
		return nil, b.wrapError(name, bound, ctx, err)
	}
	return v, nil
}

// bindFrame runs the start of the handler pipeline and routes the
// binding to the aggregate, literal or struct binder. The possibly
// replaced target is returned for the later pipeline stages.
func (b *Binder) bindFrame(name prop.Name, target Bindable, ctx *Context, allowRecursive bool) (any, Bindable, error) {
	replaced, err := b.pipeline.start(ctx, name, target)
	if err != nil {
		return nil, target, err
	}
	if replaced.IsZero() {
		// A handler vetoed this binding.
		return nil, target, nil
	}
	target = replaced

	p, found := findProperty(ctx, name)
	if !found && ctx.depth != 0 && allAbsent(ctx, name) {
		return nil, target, nil
	}

	if isAggregate(target.Type()) {
		v, err := b.bindAggregate(name, target, ctx)
		return v, target, err
	}
	if found {
		v, err := b.bindLiteral(name, target, p, ctx, allowRecursive)
		return v, target, err
	}
	v, err := b.bindStruct(name, target, ctx, allowRecursive)
	return v, target, err
}

// bindLiteral binds the single property sitting directly at name.
func (b *Binder) bindLiteral(name prop.Name, target Bindable, p prop.Property, ctx *Context, allowRecursive bool) (any, error) {
	ctx.setProperty(p)

	v, err := b.resolver.Resolve(p.Value)
	if err != nil {
		return nil, err
	}

	out, err := b.converter.Convert(v, target)
	if err == nil {
		ctx.recordBound(name)
		return out, nil
	}

	var ncerr NoConverterError
	if !errors.As(err, &ncerr) {
		return nil, err
	}

	// A value sitting directly at the name of a struct shaped target
	// can't be converted, but properties underneath the name may
	// still bind the target's members.
	sv, serr := b.bindStruct(name, target, ctx, allowRecursive)
	if serr != nil {
		return nil, serr
	}
	if sv == nil {
		return nil, err
	}
	return sv, nil
}

// finalize converts a bound value to the target type when a handler
// replaced it with something else along the way.
func (b *Binder) finalize(v any, target Bindable) (any, error) {
	if reflect.TypeOf(v).AssignableTo(target.Type()) {
		return v, nil
	}
	return b.converter.Convert(v, target)
}

// wrapError ensures every error escaping a binding frame reports the
// name and target type it arose from, without double wrapping errors
// raised by nested frames.
func (b *Binder) wrapError(name prop.Name, target Bindable, ctx *Context, err error) error {
	var berr BindError
	if errors.As(err, &berr) {
		return err
	}

	var p *prop.Property
	if found, ok := ctx.Property(); ok {
		p = &found
	}
	return BindError{
		Name:     name,
		Type:     target.Type(),
		Property: p,
		Cause:    err,
	}
}

// Get binds the properties at and underneath name into a T. The
// returned bool reports whether anything was bound.
func Get[T any](b *Binder, name string) (T, bool, error) {
	var zero T
	n, err := prop.ParseName(name)
	if err != nil {
		return zero, false, err
	}

	v, err := b.Bind(n, To[T]())
	if err != nil {
		return zero, false, err
	}
	t, ok := As[T](v)
	if !ok {
		return zero, false, nil
	}
	return t, true, nil
}

// Into binds the properties at and underneath name on top of the
// value already in into. The value in into is only replaced if
// something was bound, and is never partially updated.
func Into[T any](b *Binder, name string, into *T) (bool, error) {
	n, err := prop.ParseName(name)
	if err != nil {
		return false, err
	}

	v, err := b.Bind(n, To[T]().WithExisting(*into))
	if err != nil {
		return false, err
	}
	t, ok := As[T](v)
	if !ok {
		return false, nil
	}
	*into = t
	return true, nil
}
