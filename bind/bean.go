// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"reflect"

	"github.com/z5labs/loam/prop"
)

// bindStruct binds the members of a struct shaped target from the
// properties underneath name. Members are bound into a private copy
// of the target's existing value, so a caller's value is never left
// half bound when a member fails. The copy is only returned once
// every member has been bound.
func (b *Binder) bindStruct(name prop.Name, target Bindable, ctx *Context, allowRecursive bool) (any, error) {
	st := derefType(target.Type())
	if st.Kind() != reflect.Struct || reflect.PointerTo(st).Implements(textUnmarshalerType) {
		return nil, nil
	}
	// A struct reached from inside itself binds to nothing, which
	// keeps self referential types from recursing forever.
	if ctx.hasBean(st) && !allowRecursive {
		return nil, nil
	}
	if allAbsent(ctx, name) {
		return nil, nil
	}

	tbl := b.members.Lookup(st)
	ctx.pushBean(st)
	defer ctx.popBean()

	base := reflect.New(st).Elem()
	if existing, ok := target.Value(); ok {
		ev := reflect.ValueOf(existing)
		for ev.Kind() == reflect.Pointer && !ev.IsNil() {
			ev = ev.Elem()
		}
		if ev.Kind() == reflect.Struct && ev.Type() == st {
			base.Set(ev)
		}
	}

	bound := false
	for i := range len(tbl.Members) {
		member := tbl.Members[i]
		childName := name.Append(member.Element)

		childTarget := Of(member.Type).WithTag(member.Tag)
		if member.CanGet() {
			childTarget = childTarget.WithValue(valueSupplier(member.Get(base)))
		}

		ctx.depth++
		v, err := b.bind(childName, childTarget, ctx, false)
		ctx.depth--
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}

		if !member.Settable() {
			if member.CanGet() && reflect.DeepEqual(member.Get(base).Interface(), v) {
				bound = true
				continue
			}
			return nil, UnsettableMemberError{Name: childName, Type: st}
		}

		member.Set(base, reflect.ValueOf(v))
		bound = true
	}
	if !bound {
		return nil, nil
	}
	if target.Type().Kind() == reflect.Pointer {
		return base.Addr().Interface(), nil
	}
	return base.Interface(), nil
}

func valueSupplier(v reflect.Value) func() any {
	return func() any {
		return v.Interface()
	}
}

func findProperty(ctx *Context, name prop.Name) (prop.Property, bool) {
	for _, src := range ctx.sources() {
		p, ok := src.Lookup(name)
		if ok {
			return p, true
		}
	}
	return prop.Property{}, false
}

// allAbsent reports whether every source positively knows there are
// no properties underneath name. A single source which can't tell
// keeps the name bindable.
func allAbsent(ctx *Context, name prop.Name) bool {
	for _, src := range ctx.sources() {
		if src.ContainsDescendant(name) != prop.StateAbsent {
			return false
		}
	}
	return true
}
