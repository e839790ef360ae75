package dynval

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an ordered, string-keyed map of [Value]. Iteration follows
// insertion order. Setting an existing key replaces its value without
// changing its position.
//
// A nil *Map reads as empty. The zero Map is ready to use.
type Map struct {
	om *orderedmap.OrderedMap[string, Value]
}

// NewMap returns an empty map, with capacity for at least size entries.
func NewMap(size ...int) *Map {
	var n int
	if len(size) != 0 && size[0] > 0 {
		n = size[0]
	}
	return &Map{om: orderedmap.New[string, Value](n)}
}

// Set assigns key to val, and returns m, for chaining.
func (m *Map) Set(key string, val Value) *Map {
	if m.om == nil {
		m.om = orderedmap.New[string, Value]()
	}
	m.om.Set(key, val)
	return m
}

// Get returns the value for key, and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil || m.om == nil {
		return Value{}, false
	}
	return m.om.Get(key)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil || m.om == nil {
		return false
	}
	return m.om.GetPair(key) != nil
}

// Delete removes key, preserving the order of the remaining entries.
// Deleting from a nil map is a no-op.
func (m *Map) Delete(key string) {
	if m == nil || m.om == nil {
		return
	}
	m.om.Delete(key)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.om.Len()
}

// Keys returns a copy of the keys, in order.
func (m *Map) Keys() []string {
	var keys []string
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates the entries in order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for p := m.om.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m. Nested lists and maps are shared.
func (m *Map) Clone() *Map {
	c := NewMap(m.Len())
	for k, v := range m.All() {
		c.Set(k, v)
	}
	return c
}
