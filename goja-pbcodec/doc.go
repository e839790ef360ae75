// Package gojapbcodec exposes the dynamic protobuf codec to the [goja]
// JavaScript runtime, converting between protobuf wire bytes and plain
// JavaScript objects.
//
// Unlike a message wrapper API, values cross the boundary as ordinary
// objects, arrays, numbers, strings, booleans and Uint8Array instances, so
// scripts can build and inspect messages with no protobuf-specific API.
//
// # Overview
//
// The module is loaded through the [goja_nodejs/require] module system. Its
// export is a constructor:
//
//	const Protobuf = require('protobuf');
//	const pb = new Protobuf(descriptorSetBytes);
//	const bytes = pb.serialize({name: 'Alice', tags: ['a']}, 'example.Person');
//	const obj = pb.parse(bytes, 'example.Person');
//
// # JavaScript API
//
// Construction:
//   - new Protobuf(descriptorBytes[, preserveInt64]): descriptorBytes is a
//     serialized FileDescriptorSet (Uint8Array, ArrayBuffer or array of
//     numbers), optional if a pool was configured via [WithPool];
//     preserveInt64 defaults to true
//
// Instance methods:
//   - pb.parse(bytes, typeName[, callback]): decodes bytes to an object
//   - pb.serialize(object, typeName[, callback]): encodes an object to a
//     Uint8Array
//   - pb.info([typeName]): lists message type names, or describes the
//     fields of one type
//   - pb.format(bytes, typeName): renders bytes as proto3 JSON
//   - pb.Parse, pb.Serialize: aliases
//
// # Value Mapping
//
// Message fields are keyed by their declared name. Unset optional fields
// are omitted. Repeated fields are arrays. Map fields are arrays of
// {key, value} objects, and also accept a plain object when serializing.
// Enums are strings. Bytes are Uint8Array; bytes fields also accept strings.
//
// With preserveInt64, 64-bit integer fields are {high, low} objects holding
// the unsigned 32-bit halves of the two's complement bit pattern. When
// serializing, 64-bit fields accept numbers, {high, low} objects, BigInt,
// and Long-like objects exposing getHighBitsUnsigned and
// getLowBitsUnsigned.
//
// # Callbacks
//
// parse and serialize accept an optional node-style callback, invoked as
// callback(err, result). With a [Scheduler] configured (see
// [WithScheduler] and [LoopScheduler]) the work is deferred to it,
// otherwise the callback is invoked before the method returns.
//
// # Errors
//
// Failures throw (or pass to the callback) a GoError whose kind, typeName
// and field properties describe the failure. The kind values are the names
// of the [codec.ErrorKind] constants, e.g. "TypeMismatch".
package gojapbcodec
