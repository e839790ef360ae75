// Package testschema provides descriptor fixtures shared by the tests of the
// other packages.
//
// Two files are described:
//
//	test.proto   (proto3, package "test")
//	legacy.proto (proto2, package "legacy", imports test.proto)
package testschema

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// DescriptorSetBytes returns the serialized fixture FileDescriptorSet.
func DescriptorSetBytes() []byte {
	data, err := proto.Marshal(FileDescriptorSet())
	if err != nil {
		panic("testschema: " + err.Error())
	}
	return data
}

// GzipDescriptorSetBytes returns [DescriptorSetBytes], gzip compressed.
func GzipDescriptorSetBytes() []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(DescriptorSetBytes()); err != nil {
		panic("testschema: " + err.Error())
	}
	if err := w.Close(); err != nil {
		panic("testschema: " + err.Error())
	}
	return buf.Bytes()
}

// FileDescriptorSet returns the fixture files, dependencies first.
func FileDescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			TestFileDescriptorProto(),
			LegacyFileDescriptorProto(),
		},
	}
}

type (
	fieldType  = descriptorpb.FieldDescriptorProto_Type
	fieldLabel = descriptorpb.FieldDescriptorProto_Label
)

const (
	typeDouble   = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	typeFloat    = descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	typeInt64    = descriptorpb.FieldDescriptorProto_TYPE_INT64
	typeUint64   = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	typeInt32    = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeFixed64  = descriptorpb.FieldDescriptorProto_TYPE_FIXED64
	typeFixed32  = descriptorpb.FieldDescriptorProto_TYPE_FIXED32
	typeBool     = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	typeString   = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeMessage  = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	typeBytes    = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	typeUint32   = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	typeEnum     = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	typeSfixed32 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED32
	typeSfixed64 = descriptorpb.FieldDescriptorProto_TYPE_SFIXED64
	typeSint32   = descriptorpb.FieldDescriptorProto_TYPE_SINT32
	typeSint64   = descriptorpb.FieldDescriptorProto_TYPE_SINT64

	labelOptional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	labelRequired = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
	labelRepeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
)

func field(name string, number int32, typ fieldType, label fieldLabel) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
}

func ref(f *descriptorpb.FieldDescriptorProto, typeName string) *descriptorpb.FieldDescriptorProto {
	f.TypeName = proto.String(typeName)
	return f
}

func oneof(f *descriptorpb.FieldDescriptorProto, index int32) *descriptorpb.FieldDescriptorProto {
	f.OneofIndex = proto.Int32(index)
	return f
}

func mapEntry(name string, key, value *descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:    proto.String(name),
		Field:   []*descriptorpb.FieldDescriptorProto{key, value},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
}

// TestFileDescriptorProto describes test.proto:
//
//	enum TestEnum { UNKNOWN = 0; FIRST = 1; SECOND = 2; THIRD = 3; }
//	message NestedInner { int32 value = 1; }
//	message AllTypes { ... every scalar kind, lists, maps, nested ... }
//	message Recursive { string name = 1; Recursive child = 2; repeated Recursive children = 3; }
//	message OneofMessage { oneof choice { string str_choice = 1; int32 int_choice = 2; NestedInner msg_choice = 3; } }
//	message Empty {}
func TestFileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("test.proto"),
		Package: proto.String("test"),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("TestEnum"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("UNKNOWN"), Number: proto.Int32(0)},
				{Name: proto.String("FIRST"), Number: proto.Int32(1)},
				{Name: proto.String("SECOND"), Number: proto.Int32(2)},
				{Name: proto.String("THIRD"), Number: proto.Int32(3)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("NestedInner"),
				Field: []*descriptorpb.FieldDescriptorProto{field("value", 1, typeInt32, labelOptional)},
			},
			allTypesDesc(),
			{
				Name: proto.String("Recursive"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("name", 1, typeString, labelOptional),
					ref(field("child", 2, typeMessage, labelOptional), ".test.Recursive"),
					ref(field("children", 3, typeMessage, labelRepeated), ".test.Recursive"),
				},
			},
			{
				Name: proto.String("OneofMessage"),
				Field: []*descriptorpb.FieldDescriptorProto{
					oneof(field("str_choice", 1, typeString, labelOptional), 0),
					oneof(field("int_choice", 2, typeInt32, labelOptional), 0),
					oneof(ref(field("msg_choice", 3, typeMessage, labelOptional), ".test.NestedInner"), 0),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("choice")}},
			},
			{Name: proto.String("Empty")},
		},
	}
}

func allTypesDesc() *descriptorpb.DescriptorProto {
	optionalString := oneof(field("optional_string", 21, typeString, labelOptional), 0)
	optionalString.Proto3Optional = proto.Bool(true)
	return &descriptorpb.DescriptorProto{
		Name: proto.String("AllTypes"),
		Field: []*descriptorpb.FieldDescriptorProto{
			field("int32_val", 1, typeInt32, labelOptional),
			field("int64_val", 2, typeInt64, labelOptional),
			field("uint32_val", 3, typeUint32, labelOptional),
			field("uint64_val", 4, typeUint64, labelOptional),
			field("float_val", 5, typeFloat, labelOptional),
			field("double_val", 6, typeDouble, labelOptional),
			field("bool_val", 7, typeBool, labelOptional),
			field("string_val", 8, typeString, labelOptional),
			field("bytes_val", 9, typeBytes, labelOptional),
			ref(field("enum_val", 10, typeEnum, labelOptional), ".test.TestEnum"),
			ref(field("nested_val", 11, typeMessage, labelOptional), ".test.NestedInner"),
			field("repeated_int32", 12, typeInt32, labelRepeated),
			field("repeated_string", 13, typeString, labelRepeated),
			ref(field("tags", 14, typeMessage, labelRepeated), ".test.AllTypes.TagsEntry"),
			field("sint32_val", 15, typeSint32, labelOptional),
			field("sint64_val", 16, typeSint64, labelOptional),
			field("fixed32_val", 17, typeFixed32, labelOptional),
			field("fixed64_val", 18, typeFixed64, labelOptional),
			field("sfixed32_val", 19, typeSfixed32, labelOptional),
			field("sfixed64_val", 20, typeSfixed64, labelOptional),
			optionalString,
			ref(field("repeated_nested", 22, typeMessage, labelRepeated), ".test.NestedInner"),
			field("repeated_int64", 23, typeInt64, labelRepeated),
			field("repeated_bytes", 24, typeBytes, labelRepeated),
			ref(field("repeated_enum", 25, typeEnum, labelRepeated), ".test.TestEnum"),
			ref(field("counts", 26, typeMessage, labelRepeated), ".test.AllTypes.CountsEntry"),
			field("repeated_uint64", 27, typeUint64, labelRepeated),
		},
		NestedType: []*descriptorpb.DescriptorProto{
			mapEntry("TagsEntry",
				field("key", 1, typeString, labelOptional),
				field("value", 2, typeString, labelOptional),
			),
			mapEntry("CountsEntry",
				field("key", 1, typeInt32, labelOptional),
				ref(field("value", 2, typeMessage, labelOptional), ".test.NestedInner"),
			),
		},
		OneofDecl: []*descriptorpb.OneofDescriptorProto{
			{Name: proto.String("_optional_string")},
		},
	}
}

// LegacyFileDescriptorProto describes legacy.proto:
//
//	syntax = "proto2";
//	package legacy;
//	import "test.proto";
//	message Inner { optional int32 x = 1; }
//	message Legacy {
//	  required int32 id = 1;
//	  optional string name = 2 [default = "anon"];
//	  optional int64 big = 3;
//	  repeated uint64 ids = 4;
//	  required Inner inner = 5;
//	  optional Inner opt_inner = 6;
//	  optional test.TestEnum kind = 7;
//	  optional bytes blob = 8;
//	}
//	message Pair { optional uint32 high = 1; optional uint32 low = 2; }
//	message Holder { optional Pair pair = 1; }
func LegacyFileDescriptorProto() *descriptorpb.FileDescriptorProto {
	name := field("name", 2, typeString, labelOptional)
	name.DefaultValue = proto.String("anon")
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("legacy.proto"),
		Package:    proto.String("legacy"),
		Dependency: []string{"test.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("Inner"),
				Field: []*descriptorpb.FieldDescriptorProto{field("x", 1, typeInt32, labelOptional)},
			},
			{
				Name: proto.String("Legacy"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("id", 1, typeInt32, labelRequired),
					name,
					field("big", 3, typeInt64, labelOptional),
					field("ids", 4, typeUint64, labelRepeated),
					ref(field("inner", 5, typeMessage, labelRequired), ".legacy.Inner"),
					ref(field("opt_inner", 6, typeMessage, labelOptional), ".legacy.Inner"),
					ref(field("kind", 7, typeEnum, labelOptional), ".test.TestEnum"),
					field("blob", 8, typeBytes, labelOptional),
				},
			},
			{
				Name: proto.String("Pair"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("high", 1, typeUint32, labelOptional),
					field("low", 2, typeUint32, labelOptional),
				},
			},
			{
				Name:  proto.String("Holder"),
				Field: []*descriptorpb.FieldDescriptorProto{ref(field("pair", 1, typeMessage, labelOptional), ".legacy.Pair")},
			},
		},
	}
}
