// Package codec converts between protobuf wire bytes and [dynval.Value]
// trees, using message schemas resolved from a [schema.Pool] at runtime.
//
// A [Decoder] turns wire bytes into a tree of maps, lists and scalars. An
// [Encoder] performs the inverse. A [Codec] bundles both. All three are
// immutable once constructed, and safe for concurrent use.
//
// # Mapping
//
// Fields are keyed by their declared (not JSON) name. Singular fields that
// may be absent are omitted from decoded maps when not set. Repeated fields
// always decode to a list, possibly empty. Map fields decode to a list of
// {key, value} entries, sorted by key, and encode from either that form or
// a map keyed by the string form of the key.
//
// 64-bit integers decode to numbers, which lose precision beyond 2^53,
// unless [WithPreserveInt64] is set, in which case they decode to
// [dynval.Int64Pair]. Enums decode to their declared name. Bytes decode to
// bytes, and never to strings.
//
// # Errors
//
// Every error returned by this package is an [*Error], matching one of the
// Err* sentinels via [errors.Is].
package codec
