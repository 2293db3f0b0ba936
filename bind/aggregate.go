// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"reflect"
	"strings"

	"github.com/z5labs/loam/prop"
)

// elementBindFunc binds a single element of an aggregate, optionally
// narrowed to the source the element was discovered in.
type elementBindFunc func(name prop.Name, target Bindable, src prop.Source) (any, error)

var (
	anyType          = reflect.TypeFor[any]()
	mapStringAnyType = reflect.TypeFor[map[string]any]()
)

func isAggregate(t reflect.Type) bool {
	t = derefType(t)
	switch t.Kind() {
	case reflect.Map, reflect.Array:
		return true
	case reflect.Slice:
		// A byte slice binds from a single value instead of
		// element by element.
		return t.Elem().Kind() != reflect.Uint8
	default:
		return false
	}
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func (b *Binder) bindAggregate(name prop.Name, target Bindable, ctx *Context) (any, error) {
	eb := func(n prop.Name, t Bindable, src prop.Source) (any, error) {
		if src != nil {
			ctx.pushSource(src)
			defer ctx.popSource()
		}
		ctx.depth++
		defer func() { ctx.depth-- }()
		return b.bind(n, t, ctx, true)
	}

	switch derefType(target.Type()).Kind() {
	case reflect.Map:
		return b.bindMap(name, target, ctx, eb)
	case reflect.Slice:
		return b.bindSlice(name, target, ctx, eb)
	default:
		return b.bindArray(name, target, ctx, eb)
	}
}

func (b *Binder) bindMap(name prop.Name, target Bindable, ctx *Context, eb elementBindFunc) (any, error) {
	mt := derefType(target.Type())
	kt, vt := mt.Key(), mt.Elem()
	if kt.Kind() != reflect.String {
		return nil, NoConverterError{Type: mt}
	}

	// A scalar valued map keeps the entire remaining path as its key,
	// so "attrs.a.b" bound at "attrs" yields the key "a.b". Entries of
	// any other map are single elements with children of their own.
	pathKeyed := isPathKeyed(vt)

	result := reflect.MakeMap(mt)
	seen := make(map[string]struct{})
	for _, src := range ctx.sources() {
		es, ok := src.(prop.EnumerableSource)
		if !ok {
			continue
		}
		for _, child := range es.Names() {
			if !name.IsAncestorOf(child) {
				continue
			}
			if child.Element(name.Len()).IsIndexed() {
				continue
			}

			entry := child.Truncate(name.Len() + 1)
			if pathKeyed {
				entry = child
			}
			suffix := nameSuffix(name, entry)
			if _, ok := seen[suffix.Canonical()]; ok {
				continue
			}
			seen[suffix.Canonical()] = struct{}{}

			v, err := bindMapEntry(entry, vt, src, eb)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}

			// Map keys keep the spelling the source used.
			key := reflect.ValueOf(suffix.String())
			if key.Type() != kt {
				key = key.Convert(kt)
			}
			result.SetMapIndex(key, reflect.ValueOf(v))
		}
	}
	if result.Len() == 0 {
		return nil, nil
	}
	return mergeMap(target, result), nil
}

// isPathKeyed reports whether map entries of the given value type are
// leaves, in which case the full path below the map's name acts as
// the entry key.
func isPathKeyed(vt reflect.Type) bool {
	if vt == anyType {
		return false
	}
	t := derefType(vt)
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return false
	case reflect.Struct:
		return reflect.PointerTo(t).Implements(textUnmarshalerType)
	default:
		return true
	}
}

// nameSuffix returns the part of child below name.
func nameSuffix(name, child prop.Name) prop.Name {
	var suffix prop.Name
	for i := name.Len(); i < child.Len(); i++ {
		suffix = suffix.Append(child.Element(i))
	}
	return suffix
}

// bindMapEntry binds a single map entry. An entry of an any valued
// map which has children of its own binds as a nested map.
func bindMapEntry(name prop.Name, vt reflect.Type, src prop.Source, eb elementBindFunc) (any, error) {
	v, err := eb(name, Of(vt), src)
	if err != nil || v != nil || vt != anyType {
		return v, err
	}
	if src.ContainsDescendant(name) != prop.StatePresent {
		return nil, nil
	}
	return eb(name, Of(mapStringAnyType), src)
}

// mergeMap layers the bound entries over the entries of the target's
// existing map, if it has one. Neither map is mutated.
func mergeMap(target Bindable, result reflect.Value) any {
	existing, ok := target.Value()
	if !ok {
		return result.Interface()
	}
	ev := reflect.ValueOf(existing)
	for ev.Kind() == reflect.Pointer {
		if ev.IsNil() {
			return result.Interface()
		}
		ev = ev.Elem()
	}
	if ev.Kind() != reflect.Map || ev.Len() == 0 {
		return result.Interface()
	}

	merged := reflect.MakeMap(result.Type())
	for iter := ev.MapRange(); iter.Next(); {
		merged.SetMapIndex(iter.Key(), iter.Value())
	}
	for iter := result.MapRange(); iter.Next(); {
		merged.SetMapIndex(iter.Key(), iter.Value())
	}
	return merged.Interface()
}

func (b *Binder) bindSlice(name prop.Name, target Bindable, ctx *Context, eb elementBindFunc) (any, error) {
	st := derefType(target.Type())
	vals, err := b.bindIndexed(name, st.Elem(), ctx, eb)
	if err != nil || vals == nil {
		return nil, err
	}

	out := reflect.MakeSlice(st, len(vals), len(vals))
	for i, v := range vals {
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

func (b *Binder) bindArray(name prop.Name, target Bindable, ctx *Context, eb elementBindFunc) (any, error) {
	at := derefType(target.Type())
	vals, err := b.bindIndexed(name, at.Elem(), ctx, eb)
	if err != nil || vals == nil {
		return nil, err
	}
	if len(vals) > at.Len() {
		return nil, TooManyElementsError{Name: name, Capacity: at.Len()}
	}

	out := reflect.New(at).Elem()
	for i, v := range vals {
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// bindIndexed binds the contiguous indexed elements found under name.
// Enumeration starts at [0] and stops at the first index no source
// knows about, so anything after a gap is ignored.
func (b *Binder) bindIndexed(name prop.Name, et reflect.Type, ctx *Context, eb elementBindFunc) ([]any, error) {
	var vals []any
	for i := 0; ; i++ {
		iname := name.AppendIndex(i)
		src := indexedSource(ctx, iname)
		if src == nil {
			break
		}
		v, err := eb(iname, Of(et), src)
		if err != nil {
			return nil, err
		}
		if v == nil {
			break
		}
		vals = append(vals, v)
	}
	if len(vals) > 0 {
		return vals, nil
	}
	return b.bindDelimited(name, et, ctx)
}

// bindDelimited falls back to binding a comma delimited value found
// directly at name when no indexed elements exist.
func (b *Binder) bindDelimited(name prop.Name, et reflect.Type, ctx *Context) ([]any, error) {
	p, ok := findProperty(ctx, name)
	if !ok {
		return nil, nil
	}
	ctx.setProperty(p)

	rv, err := b.resolver.Resolve(p.Value)
	if err != nil {
		return nil, err
	}

	s, ok := rv.(string)
	if !ok {
		// A single non string value binds as a one element aggregate.
		v, err := b.converter.Convert(rv, Of(et))
		if err != nil {
			return nil, err
		}
		ctx.recordBound(name)
		if v == nil {
			return nil, nil
		}
		return []any{v}, nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		ctx.recordBound(name)
		return nil, nil
	}

	var vals []any
	for piece := range strings.SplitSeq(s, ",") {
		v, err := b.converter.Convert(strings.TrimSpace(piece), Of(et))
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	ctx.recordBound(name)
	return vals, nil
}

func indexedSource(ctx *Context, name prop.Name) prop.Source {
	for _, src := range ctx.sources() {
		if _, ok := src.Lookup(name); ok {
			return src
		}
		if src.ContainsDescendant(name) == prop.StatePresent {
			return src
		}
	}
	return nil
}
