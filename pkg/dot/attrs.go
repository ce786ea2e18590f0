package dot

import (
	"maps"
	"slices"
)

// Attrs maps Graphviz attribute names to values.
type Attrs map[string]string

// Clone returns an independent copy of a. Cloning nil yields an empty map.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// Merge copies every entry of other into a, overriding existing keys.
func (a Attrs) Merge(other Attrs) Attrs {
	maps.Copy(a, other)
	return a
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}
