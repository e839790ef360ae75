package schema

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

type (
	// MessageInfo summarises a message schema, for diagnostics.
	MessageInfo struct {
		Name   string      `json:"name"`
		Fields []FieldInfo `json:"fields"`
	}

	// FieldInfo summarises a single field.
	FieldInfo struct {
		Name     string   `json:"name"`
		Category Category `json:"category"`
		// Kind is the exact protobuf type, e.g. "sfixed64" for a field in
		// [CategoryInt64].
		Kind string `json:"kind"`
		// Message is the full name of the message type, for message fields,
		// including map fields (the entry type).
		Message string `json:"message,omitempty"`
		// Enum is the full name of the enum type, for enum fields.
		Enum   string `json:"enum,omitempty"`
		Oneof  string `json:"oneof,omitempty"`
		Number int32  `json:"number"`
		// Repeated is true for list and map fields.
		Repeated bool `json:"repeated"`
		// Optional is true if the field may be logically absent, i.e. it
		// has optional cardinality (all proto3 singular fields do).
		Optional bool `json:"optional"`
		Map      bool `json:"map,omitempty"`
	}
)

// MarshalText implements [encoding.TextMarshaler], so that categories
// render by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Describe returns the ordered field summary of md.
func Describe(md protoreflect.MessageDescriptor) MessageInfo {
	fields := md.Fields()
	info := MessageInfo{
		Name:   string(md.FullName()),
		Fields: make([]FieldInfo, 0, fields.Len()),
	}
	for i := 0; i < fields.Len(); i++ {
		info.Fields = append(info.Fields, DescribeField(fields.Get(i)))
	}
	return info
}

// DescribeField returns the summary of a single field.
func DescribeField(fd protoreflect.FieldDescriptor) FieldInfo {
	fi := FieldInfo{
		Name:     string(fd.Name()),
		Number:   int32(fd.Number()),
		Category: CategoryOf(fd),
		Kind:     fd.Kind().String(),
		Repeated: fd.Cardinality() == protoreflect.Repeated,
		Optional: fd.Cardinality() == protoreflect.Optional,
		Map:      fd.IsMap(),
	}
	if md := fd.Message(); md != nil {
		fi.Message = string(md.FullName())
	}
	if ed := fd.Enum(); ed != nil {
		fi.Enum = string(ed.FullName())
	}
	if od := fd.ContainingOneof(); od != nil {
		fi.Oneof = string(od.Name())
	}
	return fi
}
