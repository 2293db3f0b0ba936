// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/z5labs/loam/prop"
)

type hookHandler struct {
	BaseHandler

	onStart   func(*Context, prop.Name, Bindable) (Bindable, error)
	onSuccess func(*Context, prop.Name, Bindable, any) (any, error)
	onFailure func(*Context, prop.Name, Bindable, error) (any, error)
	onFinish  func(*Context, prop.Name, Bindable, any) error
}

func (h hookHandler) OnStart(ctx *Context, name prop.Name, target Bindable) (Bindable, error) {
	if h.onStart == nil {
		return target, nil
	}
	return h.onStart(ctx, name, target)
}

func (h hookHandler) OnSuccess(ctx *Context, name prop.Name, target Bindable, v any) (any, error) {
	if h.onSuccess == nil {
		return v, nil
	}
	return h.onSuccess(ctx, name, target, v)
}

func (h hookHandler) OnFailure(ctx *Context, name prop.Name, target Bindable, err error) (any, error) {
	if h.onFailure == nil {
		return nil, err
	}
	return h.onFailure(ctx, name, target, err)
}

func (h hookHandler) OnFinish(ctx *Context, name prop.Name, target Bindable, v any) error {
	if h.onFinish == nil {
		return nil
	}
	return h.onFinish(ctx, name, target, v)
}

func recordingHandler(id string, events *[]string) hookHandler {
	return hookHandler{
		onStart: func(ctx *Context, name prop.Name, target Bindable) (Bindable, error) {
			*events = append(*events, fmt.Sprintf("%s.start:%d:%s", id, ctx.Depth(), name))
			return target, nil
		},
		onSuccess: func(ctx *Context, name prop.Name, target Bindable, v any) (any, error) {
			*events = append(*events, fmt.Sprintf("%s.success:%d:%s", id, ctx.Depth(), name))
			return v, nil
		},
		onFailure: func(ctx *Context, name prop.Name, target Bindable, err error) (any, error) {
			*events = append(*events, fmt.Sprintf("%s.failure:%d:%s", id, ctx.Depth(), name))
			return nil, err
		},
		onFinish: func(ctx *Context, name prop.Name, target Bindable, v any) error {
			*events = append(*events, fmt.Sprintf("%s.finish:%d:%s", id, ctx.Depth(), name))
			return nil
		},
	}
}

func TestBinder_Bind_HandlerPipeline(t *testing.T) {
	t.Run("will run handlers in registration order", func(t *testing.T) {
		t.Run("if multiple handlers are registered", func(t *testing.T) {
			var events []string
			b := New(
				WithSources(propsOf(t, prop.Map{"x": 1})),
				WithHandlers(
					recordingHandler("a", &events),
					recordingHandler("b", &events),
				),
			)

			_, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}

			expected := []string{
				"a.start:0:x",
				"b.start:0:x",
				"a.success:0:x",
				"b.success:0:x",
				"a.finish:0:x",
				"b.finish:0:x",
			}
			if !assert.Equal(t, expected, events) {
				return
			}
		})
	})

	t.Run("will observe every frame", func(t *testing.T) {
		t.Run("if the target is a struct", func(t *testing.T) {
			var events []string
			b := New(
				WithSources(propsOf(t, prop.Map{
					"http.host": "localhost",
					"http.port": 8080,
				})),
				WithHandlers(recordingHandler("a", &events)),
			)

			_, ok, err := Get[httpConfig](b, "http")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}

			expected := []string{
				"a.start:0:http",
				"a.start:1:http.host",
				"a.success:1:http.host",
				"a.finish:1:http.host",
				"a.start:1:http.port",
				"a.success:1:http.port",
				"a.finish:1:http.port",
				"a.start:1:http.tls",
				"a.finish:1:http.tls",
				"a.success:0:http",
				"a.finish:0:http",
			}
			if !assert.Equal(t, expected, events) {
				return
			}
		})
	})

	t.Run("will veto the binding", func(t *testing.T) {
		t.Run("if OnStart returns the zero Bindable", func(t *testing.T) {
			veto := hookHandler{
				onStart: func(_ *Context, _ prop.Name, _ Bindable) (Bindable, error) {
					return Bindable{}, nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": 1})),
				WithHandlers(veto),
			)

			x, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
			if !assert.Zero(t, x) {
				return
			}
		})
	})

	t.Run("will replace the target", func(t *testing.T) {
		t.Run("if OnStart returns a different Bindable", func(t *testing.T) {
			retype := hookHandler{
				onStart: func(_ *Context, _ prop.Name, _ Bindable) (Bindable, error) {
					return To[string](), nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": 8080})),
				WithHandlers(retype),
			)

			v, err := b.Bind(prop.MustParseName("x"), To[int]())
			if !assert.NoError(t, err) {
				return
			}

			s, ok := As[string](v)
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, "8080", s) {
				return
			}
		})
	})

	t.Run("will replace the bound value", func(t *testing.T) {
		t.Run("if OnSuccess returns a different value", func(t *testing.T) {
			rewrite := hookHandler{
				onSuccess: func(_ *Context, _ prop.Name, _ Bindable, _ any) (any, error) {
					// The replacement is converted to the target type.
					return "9090", nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": 8080})),
				WithHandlers(rewrite),
			)

			x, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, 9090, x) {
				return
			}
		})
	})

	t.Run("will suppress a failure", func(t *testing.T) {
		t.Run("if OnFailure returns no error", func(t *testing.T) {
			suppress := hookHandler{
				onFailure: func(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
					return nil, nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": "not-a-number"})),
				WithHandlers(suppress),
			)

			x, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
			if !assert.Zero(t, x) {
				return
			}
		})

		t.Run("if the suppressing handler returns a replacement value", func(t *testing.T) {
			fallback := hookHandler{
				onFailure: func(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
					return "7070", nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": "not-a-number"})),
				WithHandlers(fallback),
			)

			x, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, 7070, x) {
				return
			}
		})
	})

	t.Run("will stop consulting handlers", func(t *testing.T) {
		t.Run("if an earlier handler already suppressed the failure", func(t *testing.T) {
			var consulted []string

			first := hookHandler{
				onFailure: func(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
					consulted = append(consulted, "first")
					return nil, nil
				},
			}
			second := hookHandler{
				onFailure: func(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
					consulted = append(consulted, "second")
					return 99, nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": "not-a-number"})),
				WithHandlers(first, second),
			)

			_, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"first"}, consulted) {
				return
			}
		})
	})

	t.Run("will route finish errors through the failure stage", func(t *testing.T) {
		t.Run("if OnFinish fails", func(t *testing.T) {
			reject := hookHandler{
				onFinish: func(_ *Context, _ prop.Name, _ Bindable, _ any) error {
					return fmt.Errorf("not settled")
				},
			}
			rescue := hookHandler{
				onFailure: func(_ *Context, _ prop.Name, _ Bindable, _ error) (any, error) {
					return 42, nil
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": 1})),
				WithHandlers(reject, rescue),
			)

			x, ok, err := Get[int](b, "x")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, 42, x) {
				return
			}
		})
	})

	t.Run("will fail the binding", func(t *testing.T) {
		t.Run("if OnStart fails", func(t *testing.T) {
			boom := hookHandler{
				onStart: func(_ *Context, _ prop.Name, _ Bindable) (Bindable, error) {
					return Bindable{}, fmt.Errorf("refused")
				},
			}

			b := New(
				WithSources(propsOf(t, prop.Map{"x": 1})),
				WithHandlers(boom),
			)

			_, _, err := Get[int](b, "x")

			var berr BindError
			if !assert.ErrorAs(t, err, &berr) {
				return
			}
			if !assert.ErrorContains(t, err, "refused") {
				return
			}
		})
	})
}
