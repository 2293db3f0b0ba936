// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package structmeta discovers the bindable members of struct types
// and caches the resulting descriptor tables.
package structmeta

import (
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/z5labs/loam/prop"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Member describes a single bindable member of a struct type. A member
// is either an exported field or a pair of accessor methods, X() T and
// SetX(T), covering unexported state. A member with a getter but no
// setter is read only.
type Member struct {
	Element prop.Element
	Type    reflect.Type
	Tag     reflect.StructTag

	field  []int
	getter int
	setter int
}

// Settable reports whether the member can be written to.
func (m Member) Settable() bool {
	return m.field != nil || m.setter >= 0
}

// CanGet reports whether the member's current value can be read.
func (m Member) CanGet() bool {
	return m.field != nil || m.getter >= 0
}

// Get returns the member's current value. v must be an addressable
// struct value.
func (m Member) Get(v reflect.Value) reflect.Value {
	if m.field != nil {
		return v.FieldByIndex(m.field)
	}
	return v.Addr().Method(m.getter).Call(nil)[0]
}

// Set writes x to the member. v must be an addressable struct value.
func (m Member) Set(v reflect.Value, x reflect.Value) {
	if m.field != nil {
		v.FieldByIndex(m.field).Set(x)
		return
	}
	v.Addr().Method(m.setter).Call([]reflect.Value{x})
}

// Table holds the bindable members of a single struct type.
type Table struct {
	Type    reflect.Type
	Members []Member
}

// Cache is a bounded cache of descriptor tables keyed by struct type.
// It's safe for concurrent use.
type Cache struct {
	tables *lru.Cache[reflect.Type, *Table]
}

// NewCache returns a Cache holding at most size tables.
func NewCache(size int) *Cache {
	if size < 1 {
		size = 1
	}
	tables, _ := lru.New[reflect.Type, *Table](size)
	return &Cache{tables: tables}
}

// Lookup returns the descriptor table for t, building it on first use.
// t must be a struct type.
func (c *Cache) Lookup(t reflect.Type) *Table {
	tbl, ok := c.tables.Get(t)
	if ok {
		return tbl
	}
	tbl = buildTable(t)
	c.tables.Add(t, tbl)
	return tbl
}

func buildTable(t reflect.Type) *Table {
	tbl := &Table{Type: t}
	seen := make(map[string]struct{})

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := memberName(f)
		if skip {
			continue
		}
		elem, err := prop.NewElement(name)
		if err != nil {
			continue
		}
		seen[elem.Canonical()] = struct{}{}
		tbl.Members = append(tbl.Members, Member{
			Element: elem,
			Type:    f.Type,
			Tag:     f.Tag,
			field:   f.Index,
			getter:  -1,
			setter:  -1,
		})
	}

	accessors := discoverAccessors(t)
	names := make([]string, 0, len(accessors))
	for name := range accessors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := accessors[name]
		elem, err := prop.NewElement(dashedName(name))
		if err != nil {
			continue
		}
		if _, ok := seen[elem.Canonical()]; ok {
			continue
		}
		tbl.Members = append(tbl.Members, Member{
			Element: elem,
			Type:    a.typ,
			getter:  a.getter,
			setter:  a.setter,
		})
	}
	return tbl
}

func memberName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup("config")
	if !ok {
		return dashedName(f.Name), false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return "", true
	}
	if name == "" {
		return dashedName(f.Name), false
	}
	return name, false
}

type accessor struct {
	typ    reflect.Type
	getter int
	setter int
}

// discoverAccessors pairs X() T getter methods with SetX(T) setter
// methods on *t. A getter without a setter yields a read only member
// while a setter without a getter yields a write only member.
func discoverAccessors(t reflect.Type) map[string]accessor {
	pt := reflect.PointerTo(t)
	accessors := make(map[string]accessor)

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		switch {
		case isSetter(m):
			name := strings.TrimPrefix(m.Name, "Set")
			a, ok := accessors[name]
			if !ok {
				a = accessor{getter: -1, setter: -1}
			}
			a.setter = i
			if a.typ == nil {
				a.typ = m.Type.In(1)
			}
			accessors[name] = a
		case isGetter(m):
			a, ok := accessors[m.Name]
			if !ok {
				a = accessor{getter: -1, setter: -1}
			}
			a.getter = i
			a.typ = m.Type.Out(0)
			accessors[m.Name] = a
		}
	}

	// A mismatched pair, where the getter returns a different type
	// than the setter accepts, keeps only the getter.
	for name, a := range accessors {
		if a.getter < 0 || a.setter < 0 {
			continue
		}
		getterTyp := pt.Method(a.getter).Type.Out(0)
		setterTyp := pt.Method(a.setter).Type.In(1)
		if getterTyp != setterTyp {
			a.setter = -1
			a.typ = getterTyp
			accessors[name] = a
		}
	}
	return accessors
}

func isGetter(m reflect.Method) bool {
	switch m.Name {
	case "String", "GoString", "Error":
		return false
	}
	return m.Type.NumIn() == 1 && m.Type.NumOut() == 1
}

func isSetter(m reflect.Method) bool {
	if !strings.HasPrefix(m.Name, "Set") || len(m.Name) == len("Set") {
		return false
	}
	return m.Type.NumIn() == 2 && m.Type.NumOut() == 0
}

func dashedName(s string) string {
	var sb strings.Builder
	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsUpper(r) {
			sb.WriteRune(r)
			continue
		}
		prevLower := i > 0 && !unicode.IsUpper(rs[i-1])
		nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
		if prevLower || (i > 0 && nextLower) {
			sb.WriteByte('-')
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
