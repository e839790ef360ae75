package dynval

import (
	"fmt"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	// KindNull is the zero Value, standing for an absent or null value.
	KindNull Kind = iota
	// KindBool holds a boolean.
	KindBool
	// KindNumber holds a float64.
	KindNumber
	// KindString holds a string.
	KindString
	// KindBytes holds a byte slice.
	KindBytes
	// KindList holds an ordered sequence of values.
	KindList
	// KindMap holds an ordered, string-keyed [Map].
	KindMap
	// KindInt64Pair holds a 64-bit integer split into two 32-bit halves.
	KindInt64Pair
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindNumber:    "number",
	KindString:    "string",
	KindBytes:     "bytes",
	KindList:      "list",
	KindMap:       "map",
	KindInt64Pair: "int64pair",
}

// String returns the lower-case name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a tagged union over the dynamic value variants. See the package
// documentation for the set of kinds.
type Value struct {
	m     *Map
	str   string
	bytes []byte
	list  []Value
	num   float64
	pair  Int64Pair
	kind  Kind
	flag  bool
}

// Null returns the null value, equivalent to the zero Value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, flag: v} }

// Number returns a numeric value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// String returns a text value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Bytes returns an opaque byte sequence value. A nil slice is normalised to
// an empty one, so Bytes(nil) is not Null.
func Bytes(v []byte) Value {
	if v == nil {
		v = []byte{}
	}
	return Value{kind: KindBytes, bytes: v}
}

// List returns an ordered list value. A nil slice yields an empty list.
func List(v ...Value) Value {
	if v == nil {
		v = []Value{}
	}
	return Value{kind: KindList, list: v}
}

// MapValue returns a map value. A nil map yields an empty map.
func MapValue(v *Map) Value {
	if v == nil {
		v = NewMap()
	}
	return Value{kind: KindMap, m: v}
}

// Pair returns an exact 64-bit integer value.
func Pair(v Int64Pair) Value { return Value{kind: KindInt64Pair, pair: v} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v, and whether v is a [KindBool].
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBool }

// AsNumber returns the number held by v, and whether v is a [KindNumber].
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string held by v, and whether v is a [KindString].
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBytes returns the underlying slice, which must not be modified.
func (v Value) AsBytes() ([]byte, bool) { return v.bytes, v.kind == KindBytes }

// AsList returns the underlying slice, which must not be modified.
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// AsMap returns the map held by v, and whether v is a [KindMap]. The map
// is shared, not copied.
func (v Value) AsMap() (*Map, bool) { return v.m, v.kind == KindMap }

// AsPair returns the pair held by v, and whether v is a [KindInt64Pair].
func (v Value) AsPair() (Int64Pair, bool) { return v.pair, v.kind == KindInt64Pair }

// String renders v as JSON, for diagnostics.
func (v Value) String() string {
	return string(v.AppendJSON(nil))
}
