package vdom

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Props holds attributes and event handlers of an element, or the input
// values of a component.
type Props map[string]any

// Merge returns a new Props holding every entry of each argument. Later
// arguments win on key collisions. Nil arguments are skipped; the result is
// never nil.
func Merge(props ...Props) Props {
	size := 0
	for _, p := range props {
		size += len(p)
	}
	out := make(Props, size)
	for _, p := range props {
		maps.Copy(out, p)
	}
	return out
}

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	return Merge(p)
}

// Keys returns the keys of p in sorted order.
func (p Props) Keys() []string {
	keys := maps.Keys(p)
	slices.Sort(keys)
	return keys
}

// Has reports whether p has an entry for name, even a nil one.
func (p Props) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Get returns props[name] as a T. It returns def when the entry is missing,
// nil, or holds a value of another type.
func Get[T any](props Props, name string, def T) T {
	v, ok := props[name]
	if !ok || v == nil {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}

// Lookup returns props[name] as a T and whether it was present with that type.
func Lookup[T any](props Props, name string) (T, bool) {
	var zero T
	v, ok := props[name]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}
