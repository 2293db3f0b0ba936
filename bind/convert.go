// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"encoding"
	"errors"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ConverterOption represents options for configuring a [Converter].
type ConverterOption func(*Converter)

// DecodeHook registers an extra decode hook with the converter. Hooks
// are tried in registration order before the default coercions.
func DecodeHook(h mapstructure.DecodeHookFunc) ConverterOption {
	return func(c *Converter) {
		c.hooks = append(c.hooks, h)
	}
}

// Converter coerces property values into target types. Out of the box
// it understands the usual weak coercions between strings, numbers and
// bools, along with [encoding.TextUnmarshaler] implementations and
// [time.Duration].
type Converter struct {
	hooks []mapstructure.DecodeHookFunc
}

// NewConverter returns a fully initialized Converter.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		hooks: []mapstructure.DecodeHookFunc{
			textUnmarshalerHookFunc(),
			timeDurationHookFunc(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert coerces v into the type described by target.
//
// Struct shaped targets are only convertible from map values or, when
// they implement [encoding.TextUnmarshaler], from strings. Any other
// value offered for a struct shaped target fails with
// [NoConverterError] so the caller can fall back to binding the
// target's members instead.
func (c *Converter) Convert(v any, target Bindable) (any, error) {
	if v == nil {
		return nil, nil
	}

	t := target.Type()
	if reflect.TypeOf(v).AssignableTo(t) {
		return v, nil
	}
	if structShaped(t) && reflect.ValueOf(v).Kind() != reflect.Map {
		return nil, NoConverterError{Type: t}
	}

	out := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           out.Interface(),
		WeaklyTypedInput: true,
		DecodeHook:       composeDecodeHooks(c.hooks...),
	})
	if err != nil {
		return nil, err
	}

	err = dec.Decode(v)
	if err != nil {
		return nil, ConversionError{
			Value: v,
			Type:  t,
			Cause: err,
		}
	}
	return out.Elem().Interface(), nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

func structShaped(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	return !reflect.PointerTo(t).Implements(textUnmarshalerType)
}

var errInvalidDecodeCondition = errors.New("invalid decode condition")

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			return nil, err
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(data.(string)))
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return nil, errInvalidDecodeCondition
		}

		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(data.(string))
		case reflect.Int:
			return time.Duration(int64(data.(int))), nil
		case reflect.Int64:
			return time.Duration(data.(int64)), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}
