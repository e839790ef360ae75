// Package dynval implements a schema-less dynamic value tree, the host-side
// representation that protobuf messages are decoded into, and encoded from.
//
// A [Value] is one of:
//   - Null
//   - Bool
//   - Number (float64, the numeric type of a typical scripting host)
//   - String
//   - Bytes (opaque, never reinterpreted as text)
//   - List (ordered)
//   - Map (ordered, string-keyed, see [Map])
//   - Int64Pair (exact 64-bit integers, see [Int64Pair])
//
// The zero Value is Null. Values are treated as immutable once built; the
// [List] and [Map] constructors do not copy their arguments.
package dynval
