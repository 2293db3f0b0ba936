// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package bind binds properties onto typed Go values.
//
// The package is built around the [Binder], which walks a target type
// and looks up the property belonging to each part of it by name. A
// single scalar binds from the property sitting directly at its name,
// a struct binds each exported field from the properties underneath
// its name, and maps, slices and arrays bind element by element.
//
// # Basic Usage
//
// Bind a struct from a set of sources:
//
//	props, err := prop.Read(prop.Map(m))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b := bind.New(bind.WithSources(props))
//
//	type HTTP struct {
//	    Host string `config:"host"`
//	    Port int    `config:"port"`
//	}
//
//	httpConf, bound, err := bind.Get[HTTP](b, "server.http")
//
// Bind on top of defaults:
//
//	httpConf := HTTP{Host: "0.0.0.0", Port: 8080}
//	bound, err := bind.Into(b, "server.http", &httpConf)
//
// # Names
//
// Property names are relaxed about spelling. The name elements
// "maxSize", "max-size" and "MAX_SIZE" all refer to the same
// property, so a value loaded from an environment variable binds to
// a field declared with a dashed tag.
//
// # Values and Absence
//
// Binding a name no source knows anything about is not an error, it
// simply binds nothing. [Value] keeps "bound to its zero value" and
// "not bound at all" apart:
//
//	v, err := b.Bind(prop.MustParseName("server.port"), bind.To[int]())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port := v.Or(8080)
//
// # Placeholders
//
// String values may refer to other properties with ${name} and carry
// an inline fallback with ${name:default}. References are resolved
// against the binder's sources before conversion.
//
// # Handlers
//
// A [Handler] observes every binding the Binder performs and may veto
// bindings, replace bound values, suppress errors or raise new ones.
// [ValidationHandler], [IgnoreErrorsHandler] and
// [NoUnknownKeysHandler] cover the common cases.
package bind
