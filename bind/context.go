// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"reflect"

	"github.com/z5labs/loam/prop"
)

// Context carries the state of a single top level [Binder.Bind] call
// as it recurses through the target's structure. A new Context is
// created per call so a Binder stays safe for concurrent use.
type Context struct {
	binder *Binder

	depth    int
	beans    []reflect.Type
	override []prop.Source
	property *prop.Property
	bound    []prop.Name
}

func newContext(b *Binder) *Context {
	return &Context{binder: b}
}

// Binder returns the Binder the Context belongs to. Handlers can use
// it to trigger further bindings.
func (c *Context) Binder() *Binder {
	return c.binder
}

// Depth returns how many frames deep the current binding sits below
// the top level call.
func (c *Context) Depth() int {
	return c.depth
}

// Property returns the property which was most recently touched by
// the current frame.
func (c *Context) Property() (prop.Property, bool) {
	if c.property == nil {
		return prop.Property{}, false
	}
	return *c.property, true
}

// BoundNames returns the names of every property consumed so far by
// the top level call.
func (c *Context) BoundNames() []prop.Name {
	names := make([]prop.Name, len(c.bound))
	copy(names, c.bound)
	return names
}

// sources returns the sources the current frame binds against. While
// an aggregate narrows binding to a single source, only that source
// is visible.
func (c *Context) sources() []prop.Source {
	if len(c.override) > 0 {
		return c.override[len(c.override)-1:]
	}
	return c.binder.sources
}

func (c *Context) pushSource(src prop.Source) {
	c.override = append(c.override, src)
}

func (c *Context) popSource() {
	c.override = c.override[:len(c.override)-1]
}

func (c *Context) pushBean(t reflect.Type) {
	c.beans = append(c.beans, t)
}

func (c *Context) popBean() {
	c.beans = c.beans[:len(c.beans)-1]
}

func (c *Context) hasBean(t reflect.Type) bool {
	for _, bt := range c.beans {
		if bt == t {
			return true
		}
	}
	return false
}

func (c *Context) setProperty(p prop.Property) {
	c.property = &p
}

func (c *Context) clearProperty() {
	c.property = nil
}

func (c *Context) recordBound(name prop.Name) {
	c.bound = append(c.bound, name)
}
