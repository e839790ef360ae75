package dynval

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are structurally equal.
//
// Maps compare as key sets, ignoring order. NaN is equal to NaN. Negative
// and positive zero are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.flag == b.flag
	case KindNumber:
		return a.num == b.num || (math.IsNaN(a.num) && math.IsNaN(b.num))
	case KindString:
		return a.str == b.str
	case KindBytes:
		return bytes.Equal(a.bytes, b.bytes)
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return MapEqual(a.m, b.m)
	case KindInt64Pair:
		return a.pair == b.pair
	default:
		return false
	}
}

// MapEqual is [Equal] for maps. A nil map is equal to an empty one.
func MapEqual(a, b *Map) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, av := range a.All() {
		bv, ok := b.Get(k)
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}
