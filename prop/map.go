// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package prop

// Map is an ordinary map[string]any but implements the [Loader]
// interface. Nested maps become nested names, slices become indexed
// names and keys may themselves be dotted paths.
type Map map[string]any

// Apply implements the [Loader] interface. It recursively walks the
// underlying map to find name value pairs to set on the given store.
func (m Map) Apply(store Store) error {
	return walkMap(m, store, Name{})
}

// Origin implements the [Originator] interface.
func (m Map) Origin() string {
	return "map"
}

func walkMap(m map[string]any, store Store, name Name) error {
	for k, v := range m {
		child, err := appendPath(name, k)
		if err != nil {
			return err
		}
		err = walkValue(v, store, child)
		if err != nil {
			return err
		}
	}
	return nil
}

func walkSlice(s []any, store Store, name Name) error {
	for i, v := range s {
		err := walkValue(v, store, name.AppendIndex(i))
		if err != nil {
			return err
		}
	}
	return nil
}

func walkValue(v any, store Store, name Name) error {
	switch x := v.(type) {
	case map[string]any:
		return walkMap(x, store, name)
	case []any:
		return walkSlice(x, store, name)
	case nil:
		// A nil value carries no information so it's treated
		// the same as the name never being set at all.
		return nil
	default:
		return store.Set(name, x)
	}
}

func appendPath(name Name, path string) (Name, error) {
	parsed, err := ParseName(path)
	if err != nil {
		return Name{}, err
	}
	for i := range parsed.Len() {
		name = name.Append(parsed.Element(i))
	}
	return name, nil
}
