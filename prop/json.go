// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/loam/internal/try"
)

// Json represents a [Loader] where its underlying format is JSON.
type Json struct {
	r io.Reader
}

// FromJson returns a loader which will apply its properties from JSON
// values parsed from the given io.Reader.
func FromJson(r io.Reader) Json {
	return Json{r: r}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidJsonError) Unwrap() error {
	return e.cause
}

// Origin implements the [Originator] interface.
func (src Json) Origin() string {
	return originOf("json", src.r)
}

// Apply implements the [Loader] interface.
func (src Json) Apply(store Store) error {
	b, err := try.ReadAll(src.r)
	if err != nil {
		return err
	}

	m := make(map[string]any)
	err = json.Unmarshal(b, &m)
	if err != nil {
		return InvalidJsonError{cause: err}
	}
	return Map(m).Apply(store)
}
