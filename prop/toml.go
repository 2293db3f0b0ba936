// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"io"

	"github.com/z5labs/loam/internal/try"

	"github.com/pelletier/go-toml/v2"
)

// Toml represents a [Loader] where its underlying format is TOML.
type Toml struct {
	r io.Reader
}

// FromToml returns a loader which will apply its properties from TOML
// values parsed from the given io.Reader.
func FromToml(r io.Reader) Toml {
	return Toml{r: r}
}

// InvalidTomlError occurs if the underlying io.Reader contains invalid TOML.
type InvalidTomlError struct {
	cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidTomlError) Error() string {
	return fmt.Sprintf("invalid toml: %s", e.cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidTomlError) Unwrap() error {
	return e.cause
}

// Origin implements the [Originator] interface.
func (src Toml) Origin() string {
	return originOf("toml", src.r)
}

// Apply implements the [Loader] interface.
func (src Toml) Apply(store Store) error {
	b, err := try.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = toml.Unmarshal(b, &m)
	if err != nil {
		return InvalidTomlError{cause: err}
	}
	return Map(m).Apply(store)
}
