// Package schema provides the descriptor pool and the schema reflection
// facility used by the dynamic codec.
//
// A [Pool] holds linked file descriptors, loaded at runtime from serialized
// FileDescriptorSet or FileDescriptorProto bytes (e.g. the output of
// `protoc --include_imports -o`), and resolves fully-qualified message names
// to descriptors. [CategoryOf] and [Describe] classify the fields of a
// message into the closed set of [Category] values that the codec
// dispatches on.
package schema
