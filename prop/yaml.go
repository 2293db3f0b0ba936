// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"io"

	"github.com/z5labs/loam/internal/try"

	"gopkg.in/yaml.v3"
)

// Yaml represents a [Loader] where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a loader which will apply its properties from YAML
// values parsed from the given io.Reader.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidYamlError) Unwrap() error {
	return e.cause
}

// Origin implements the [Originator] interface.
func (src Yaml) Origin() string {
	return originOf("yaml", src.r)
}

// Apply implements the [Loader] interface.
func (src Yaml) Apply(store Store) error {
	b, err := try.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYamlError{cause: err}
	}
	return Map(m).Apply(store)
}

func originOf(format string, r io.Reader) string {
	p, ok := r.(interface{ Path() string })
	if !ok {
		return format
	}
	return fmt.Sprintf("%s(%s)", format, p.Path())
}
