// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// Env represents a [Loader] where its underlying values are extracted
// from environment variables.
//
// Variable names map onto property names by splitting on '_', folding
// case and turning purely numeric segments into indexes. For example,
// SERVER_PORT maps to "server.port" and HOSTS_0 maps to "hosts[0]".
type Env struct {
	environ func() []string
	prefix  string
}

// FromEnv returns a [Loader] which will apply its properties from the
// environment variables available to the current process.
func FromEnv() Env {
	return Env{
		environ: os.Environ,
	}
}

// FromEnvPrefix is like [FromEnv] but only considers variables whose
// name starts with the given prefix. The prefix is stripped before
// the name is mapped, so with the prefix "APP_" the variable
// APP_SERVER_PORT maps to "server.port".
func FromEnvPrefix(prefix string) Env {
	return Env{
		environ: os.Environ,
		prefix:  prefix,
	}
}

// Origin implements the [Originator] interface.
func (src Env) Origin() string {
	return "env"
}

// Apply implements the [Loader] interface.
//
// A process environment contains many variables which were never meant
// as configuration, so variables whose names cannot be expressed as
// property names, or which would conflict with a deeper variable's
// subtree, are skipped instead of failing the whole load.
func (src Env) Apply(store Store) error {
	type envVar struct {
		name  Name
		value string
	}

	var vars []envVar
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		if src.prefix != "" {
			if !strings.HasPrefix(k, src.prefix) {
				continue
			}
			k = strings.TrimPrefix(k, src.prefix)
		}
		name, ok := envName(k)
		if !ok {
			continue
		}
		vars = append(vars, envVar{name: name, value: v})
	}

	// Deeper names are applied first so when a variable and a
	// descendant of it are both set, for example JAVA and JAVA_HOME,
	// the deeper one wins and the shallower one is skipped.
	sort.Slice(vars, func(i, j int) bool {
		if vars[i].name.Len() != vars[j].name.Len() {
			return vars[i].name.Len() > vars[j].name.Len()
		}
		return vars[i].name.Canonical() < vars[j].name.Canonical()
	})

	for _, v := range vars {
		err := store.Set(v.name, v.value)
		if err == nil {
			continue
		}
		if _, ok := err.(NameConflictError); ok {
			continue
		}
		return err
	}
	return nil
}

func envName(k string) (Name, bool) {
	var name Name
	for seg := range strings.SplitSeq(k, "_") {
		if seg == "" {
			continue
		}
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 {
			name = name.AppendIndex(i)
			continue
		}
		elem, err := NewElement(strings.ToLower(seg))
		if err != nil {
			return Name{}, false
		}
		name = name.Append(elem)
	}
	if name.IsEmpty() {
		return Name{}, false
	}
	return name, true
}
