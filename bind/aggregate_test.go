// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/z5labs/loam/prop"
)

func TestBinder_Bind_Map(t *testing.T) {
	t.Run("will keep the remaining path as the key", func(t *testing.T) {
		t.Run("if the map holds scalar values", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"attrs.a":   "1",
				"attrs.b.c": "2",
			})))

			m, ok, err := Get[map[string]string](b, "attrs")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, map[string]string{"a": "1", "b.c": "2"}, m) {
				return
			}
		})
	})

	t.Run("will bind one entry per element", func(t *testing.T) {
		t.Run("if the map holds struct values", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"servers.web.host": "a",
				"servers.web.port": 8080,
				"servers.api.host": "b",
			})))

			m, ok, err := Get[map[string]httpConfig](b, "servers")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}

			expected := map[string]httpConfig{
				"web": {Host: "a", Port: 8080},
				"api": {Host: "b"},
			}
			if !assert.Equal(t, expected, m) {
				return
			}
		})

		t.Run("if the map holds any values", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"meta.a":   1,
				"meta.b.c": 2,
			})))

			m, ok, err := Get[map[string]any](b, "meta")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}

			expected := map[string]any{
				"a": 1,
				"b": map[string]any{"c": 2},
			}
			if !assert.Equal(t, expected, m) {
				return
			}
		})
	})

	t.Run("will keep the spelling the source used", func(t *testing.T) {
		t.Run("if a key is not spelled canonically", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"attrs.API_KEY": "x"})))

			m, ok, err := Get[map[string]string](b, "attrs")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, map[string]string{"API_KEY": "x"}, m) {
				return
			}
		})
	})

	t.Run("will bind each key once", func(t *testing.T) {
		t.Run("if multiple sources hold equivalent keys", func(t *testing.T) {
			first := propsOf(t, prop.Map{"attrs.host": "1"})
			second := propsOf(t, prop.Map{
				"attrs.HOST":  "2",
				"attrs.other": "3",
			})

			b := New(WithSources(first, second))

			m, ok, err := Get[map[string]string](b, "attrs")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, map[string]string{"host": "1", "other": "3"}, m) {
				return
			}
		})
	})

	t.Run("will layer entries over the existing map", func(t *testing.T) {
		t.Run("if the target carries one", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"attrs.b": "new"})))

			m := map[string]string{"a": "keep", "b": "old"}
			ok, err := Into(b, "attrs", &m)
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, map[string]string{"a": "keep", "b": "new"}, m) {
				return
			}
		})
	})

	t.Run("will report nothing bound", func(t *testing.T) {
		t.Run("if no properties sit underneath the name", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"other": 1})))

			m, ok, err := Get[map[string]string](b, "attrs")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
			if !assert.Nil(t, m) {
				return
			}
		})

		t.Run("if only indexed elements sit underneath the name", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"attrs[0]": "x"})))

			_, ok, err := Get[map[string]string](b, "attrs")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
		})
	})

	t.Run("will fail with a NoConverterError", func(t *testing.T) {
		t.Run("if the map is not keyed by strings", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"attrs.a": "1"})))

			_, _, err := Get[map[int]string](b, "attrs")

			var ncerr NoConverterError
			if !assert.ErrorAs(t, err, &ncerr) {
				return
			}
		})
	})
}

func TestBinder_Bind_Slice(t *testing.T) {
	t.Run("will bind indexed elements", func(t *testing.T) {
		t.Run("if elements are scalars", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"hosts[0]": "a",
				"hosts[1]": "b",
			})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"a", "b"}, hosts) {
				return
			}
		})

		t.Run("if elements are structs", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"servers[0].host": "a",
				"servers[1].host": "b",
				"servers[1].port": 9090,
			})))

			servers, ok, err := Get[[]httpConfig](b, "servers")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}

			expected := []httpConfig{
				{Host: "a"},
				{Host: "b", Port: 9090},
			}
			if !assert.Equal(t, expected, servers) {
				return
			}
		})

		t.Run("if elements are slices themselves", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"grid[0][0]": 1,
				"grid[0][1]": 2,
				"grid[1][0]": 3,
			})))

			grid, ok, err := Get[[][]int](b, "grid")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, [][]int{{1, 2}, {3}}, grid) {
				return
			}
		})
	})

	t.Run("will stop at the first gap", func(t *testing.T) {
		t.Run("if the indexes are not contiguous", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"hosts[0]": "a",
				"hosts[2]": "c",
			})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"a"}, hosts) {
				return
			}
		})
	})

	t.Run("will split a delimited value", func(t *testing.T) {
		t.Run("if no indexed elements exist", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"hosts": "a, b ,c"})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"a", "b", "c"}, hosts) {
				return
			}
		})

		t.Run("if the pieces need coercion", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"ports": "8080,9090"})))

			ports, ok, err := Get[[]int](b, "ports")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []int{8080, 9090}, ports) {
				return
			}
		})

		t.Run("if the value contains a placeholder", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"hosts":   "${primary},b",
				"primary": "a",
			})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"a", "b"}, hosts) {
				return
			}
		})
	})

	t.Run("will prefer indexed elements", func(t *testing.T) {
		t.Run("if a delimited value also sits at the name", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"hosts[0]": "x",
				"hosts":    "a,b",
			})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []string{"x"}, hosts) {
				return
			}
		})
	})

	t.Run("will bind a single element", func(t *testing.T) {
		t.Run("if the value at the name is not a string", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"ports": 8080})))

			ports, ok, err := Get[[]int](b, "ports")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []int{8080}, ports) {
				return
			}
		})
	})

	t.Run("will report nothing bound", func(t *testing.T) {
		t.Run("if no source knows the name", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{})))

			hosts, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
			if !assert.Nil(t, hosts) {
				return
			}
		})

		t.Run("if the value at the name is an empty string", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"hosts": "  "})))

			_, ok, err := Get[[]string](b, "hosts")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.False(t, ok) {
				return
			}
		})
	})

	t.Run("will bind a byte slice from a single value", func(t *testing.T) {
		t.Run("if the property holds a string", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"data": "hello"})))

			data, ok, err := Get[[]byte](b, "data")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, []byte("hello"), data) {
				return
			}
		})
	})
}

func TestBinder_Bind_Array(t *testing.T) {
	t.Run("will bind indexed elements", func(t *testing.T) {
		t.Run("if they fit the array", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"pair[0]": "a",
				"pair[1]": "b",
			})))

			pair, ok, err := Get[[2]string](b, "pair")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, [2]string{"a", "b"}, pair) {
				return
			}
		})

		t.Run("if fewer elements exist than the array holds", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{"pair[0]": "a"})))

			pair, ok, err := Get[[2]string](b, "pair")
			if !assert.NoError(t, err) {
				return
			}
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, [2]string{"a", ""}, pair) {
				return
			}
		})
	})

	t.Run("will fail with a TooManyElementsError", func(t *testing.T) {
		t.Run("if more elements exist than the array holds", func(t *testing.T) {
			b := New(WithSources(propsOf(t, prop.Map{
				"pair[0]": "a",
				"pair[1]": "b",
				"pair[2]": "c",
			})))

			_, _, err := Get[[2]string](b, "pair")

			var terr TooManyElementsError
			if !assert.ErrorAs(t, err, &terr) {
				return
			}
			if !assert.Equal(t, 2, terr.Capacity) {
				return
			}
		})
	})
}
