// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

import (
	"fmt"
	"io"

	"github.com/z5labs/loam/internal/try"

	"github.com/magiconair/properties"
)

// PropertiesFile represents a [Loader] where its underlying format is
// the Java style .properties format. Keys are dotted property names,
// for example:
//
//	server.port=8080
//	server.hosts[0]=a.example.com
type PropertiesFile struct {
	r io.Reader
}

// FromProperties returns a loader which will apply its properties from
// .properties values parsed from the given io.Reader.
func FromProperties(r io.Reader) PropertiesFile {
	return PropertiesFile{r: r}
}

// InvalidPropertiesError occurs if the underlying io.Reader contains
// an invalid .properties document or a key which is not a valid
// property name.
type InvalidPropertiesError struct {
	cause error
}

// Error implements the [builtin.error] interface.
func (e InvalidPropertiesError) Error() string {
	return fmt.Sprintf("invalid properties: %s", e.cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e InvalidPropertiesError) Unwrap() error {
	return e.cause
}

// Origin implements the [Originator] interface.
func (src PropertiesFile) Origin() string {
	return originOf("properties", src.r)
}

// Apply implements the [Loader] interface.
func (src PropertiesFile) Apply(store Store) error {
	b, err := try.ReadAll(src.r)
	if err != nil {
		return err
	}

	// Reference expansion is left to the binding layer so ${...}
	// values pass through verbatim.
	l := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := l.LoadBytes(b)
	if err != nil {
		return InvalidPropertiesError{cause: err}
	}

	for _, k := range p.Keys() {
		name, err := ParseName(k)
		if err != nil {
			return InvalidPropertiesError{cause: err}
		}
		v, _ := p.Get(k)
		err = store.Set(name, v)
		if err != nil {
			return err
		}
	}
	return nil
}
