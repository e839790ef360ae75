package schema

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Category is the closed set of field value categories that the codec
// dispatches on. Several protobuf kinds share a category, e.g. sint64 and
// sfixed64 are both [CategoryInt64].
type Category uint8

const (
	// CategoryInvalid is returned for kinds outside the closed set.
	CategoryInvalid Category = iota
	// CategoryInt32 covers int32, sint32 and sfixed32.
	CategoryInt32
	// CategoryInt64 covers int64, sint64 and sfixed64.
	CategoryInt64
	// CategoryUint32 covers uint32 and fixed32.
	CategoryUint32
	// CategoryUint64 covers uint64 and fixed64.
	CategoryUint64
	// CategoryDouble is double.
	CategoryDouble
	// CategoryFloat is float.
	CategoryFloat
	// CategoryBool is bool.
	CategoryBool
	// CategoryEnum is an enum, carried by name.
	CategoryEnum
	// CategoryMessage is a nested message or group.
	CategoryMessage
	// CategoryString is string.
	CategoryString
	// CategoryBytes is bytes.
	CategoryBytes
)

var categoryNames = [...]string{
	CategoryInvalid: "invalid",
	CategoryInt32:   "int32",
	CategoryInt64:   "int64",
	CategoryUint32:  "uint32",
	CategoryUint64:  "uint64",
	CategoryDouble:  "double",
	CategoryFloat:   "float",
	CategoryBool:    "bool",
	CategoryEnum:    "enum",
	CategoryMessage: "message",
	CategoryString:  "string",
	CategoryBytes:   "bytes",
}

// String returns the lower-case name of c.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// CategoryOf classifies a field by its kind. For map fields, classify
// [protoreflect.FieldDescriptor.MapKey] and MapValue instead, the map field
// itself is a message (its entry type).
func CategoryOf(fd protoreflect.FieldDescriptor) Category {
	return CategoryOfKind(fd.Kind())
}

// CategoryOfKind maps a [protoreflect.Kind] to its [Category], returning
// [CategoryInvalid] for unknown kinds.
func CategoryOfKind(kind protoreflect.Kind) Category {
	switch kind {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return CategoryInt32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return CategoryInt64
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return CategoryUint32
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return CategoryUint64
	case protoreflect.DoubleKind:
		return CategoryDouble
	case protoreflect.FloatKind:
		return CategoryFloat
	case protoreflect.BoolKind:
		return CategoryBool
	case protoreflect.EnumKind:
		return CategoryEnum
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return CategoryMessage
	case protoreflect.StringKind:
		return CategoryString
	case protoreflect.BytesKind:
		return CategoryBytes
	default:
		return CategoryInvalid
	}
}
