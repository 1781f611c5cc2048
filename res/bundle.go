package res

import (
	"maps"
	"slices"
	"strings"
)

// Bundle holds one value per resource name and qualifier string.
// Later puts for the same pair replace earlier ones.
//
// Bundle is not safe for concurrent mutation.
type Bundle[T any] struct {
	items map[ResName]map[string]T
	size  int
}

// NewBundle returns an empty bundle.
func NewBundle[T any]() *Bundle[T] {
	return &Bundle[T]{items: make(map[ResName]map[string]T)}
}

// Put stores v for name under qualifiers.
func (b *Bundle[T]) Put(name ResName, qualifiers string, v T) {
	byQualifier, ok := b.items[name]
	if !ok {
		byQualifier = make(map[string]T)
		b.items[name] = byQualifier
	}
	if _, exists := byQualifier[qualifiers]; !exists {
		b.size++
	}
	byQualifier[qualifiers] = v
}

// Get returns the value for name under exactly qualifiers, falling back to
// the unqualified value.
func (b *Bundle[T]) Get(name ResName, qualifiers string) (T, bool) {
	byQualifier := b.items[name]
	if v, ok := byQualifier[qualifiers]; ok {
		return v, true
	}
	v, ok := byQualifier[""]
	return v, ok
}

// Contains reports whether any variant of name is present.
func (b *Bundle[T]) Contains(name ResName) bool {
	return len(b.items[name]) > 0
}

// Len returns the number of stored (name, qualifiers) pairs.
func (b *Bundle[T]) Len() int {
	return b.size
}

// Names returns every stored name in string order.
func (b *Bundle[T]) Names() []ResName {
	return slices.SortedFunc(maps.Keys(b.items), func(x, y ResName) int {
		return strings.Compare(x.String(), y.String())
	})
}

// Qualifiers returns the sorted qualifier strings stored for name; the
// unqualified variant is "".
func (b *Bundle[T]) Qualifiers(name ResName) []string {
	return slices.Sorted(maps.Keys(b.items[name]))
}
