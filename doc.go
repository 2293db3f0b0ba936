// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package loam binds hierarchical configuration properties onto
// typed Go values.
//
// Configuration in loam is a flat set of properties with dotted
// names, like "server.http.port", loaded from any mix of formats and
// places. The [github.com/z5labs/loam/prop] package loads and merges
// properties, the [github.com/z5labs/loam/bind] package binds them
// onto structs, maps, slices and scalars, and the
// [github.com/z5labs/loam/condition] package evaluates presence
// predicates against a component registry for callers which enable
// parts of a system conditionally.
//
// # Basic Usage
//
// Read configuration files and bind part of them into a struct:
//
//	type Config struct {
//	    Host string `config:"host"`
//	    Port int    `config:"port"`
//	}
//
//	cfg, err := loam.Bind[Config](
//	    "server.http",
//	    prop.FromYaml(prop.NewFileReader(os.DirFS("."), "config.yaml")),
//	    prop.FromEnvPrefix("MYAPP_"),
//	)
//
// Later loaders override earlier ones, so values from the
// environment win over values from the file.
//
// # Relaxed Names
//
// Name elements are matched without regard to case, dashes and
// underscores. The properties "server.maxSize", "server.max-size"
// and the environment variable SERVER_MAX_SIZE all bind the same
// field.
//
// # Going Further
//
// The root package is a convenience front door. Build a
// [bind.Binder] directly to layer sources with explicit precedence,
// install handlers, resolve placeholders against custom sources or
// tell absent properties apart from zero values.
package loam
