package gojapbcodec

import (
	"bytes"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-pbdynamic/codec"
	"github.com/joeycumines/go-pbdynamic/schema"
)

// instance backs a single `new Protobuf(...)` object.
type instance struct {
	m     *Module
	codec *codec.Codec
}

func (in *instance) bind(this *goja.Object) {
	parse := in.m.runtime.ToValue(in.jsParse)
	serialize := in.m.runtime.ToValue(in.jsSerialize)
	_ = this.Set("parse", parse)
	_ = this.Set("Parse", parse)
	_ = this.Set("serialize", serialize)
	_ = this.Set("Serialize", serialize)
	_ = this.Set("info", in.jsInfo)
	_ = this.Set("format", in.jsFormat)
	_ = this.Set("preserveInt64", in.codec.PreserveInt64())
}

// jsParse implements `pb.parse(bytes, typeName[, callback])`.
func (in *instance) jsParse(call goja.FunctionCall) goja.Value {
	data, err := in.m.extractBytes(call.Argument(0))
	if err != nil {
		panic(in.m.runtime.NewTypeError("parse: %s", err))
	}
	typeName := in.m.typeNameArg(call, 1, "parse")
	callback := in.m.callbackArg(call, 2, "parse")
	if callback != nil {
		// the caller may reuse its buffer before the task runs
		data = bytes.Clone(data)
	}
	return in.m.dispatch("parse", callback, func() (goja.Value, error) {
		v, err := in.codec.Decode(typeName, data)
		if err != nil {
			return nil, err
		}
		return in.m.toJS(v), nil
	})
}

// jsSerialize implements `pb.serialize(object, typeName[, callback])`. The
// object is converted before returning, even if the encoding is deferred.
func (in *instance) jsSerialize(call goja.FunctionCall) goja.Value {
	typeName := in.m.typeNameArg(call, 1, "serialize")
	callback := in.m.callbackArg(call, 2, "serialize")
	value, convErr := in.m.fromJS(call.Argument(0))
	if convErr != nil {
		convErr.TypeName = typeName
	}
	return in.m.dispatch("serialize", callback, func() (goja.Value, error) {
		if convErr != nil {
			return nil, convErr
		}
		b, err := in.codec.Encode(typeName, value)
		if err != nil {
			return nil, err
		}
		return in.m.newUint8Array(b), nil
	})
}

// jsInfo implements `pb.info([typeName])`.
func (in *instance) jsInfo(call goja.FunctionCall) goja.Value {
	if arg := call.Argument(0); isNullish(arg) {
		names := in.codec.Types()
		items := make([]any, len(names))
		for i, name := range names {
			items[i] = name
		}
		return in.m.runtime.NewArray(items...)
	}
	info, err := in.codec.Info(in.m.typeNameArg(call, 0, "info"))
	if err != nil {
		panic(in.m.toJSError(err))
	}
	return in.m.messageInfoToJS(info)
}

// jsFormat implements `pb.format(bytes, typeName)`.
func (in *instance) jsFormat(call goja.FunctionCall) goja.Value {
	data, err := in.m.extractBytes(call.Argument(0))
	if err != nil {
		panic(in.m.runtime.NewTypeError("format: %s", err))
	}
	s, err := in.codec.Format(in.m.typeNameArg(call, 1, "format"), data)
	if err != nil {
		panic(in.m.toJSError(err))
	}
	return in.m.runtime.ToValue(s)
}

func (m *Module) messageInfoToJS(info schema.MessageInfo) goja.Value {
	fields := make([]any, len(info.Fields))
	for i, f := range info.Fields {
		obj := m.runtime.NewObject()
		_ = obj.Set("name", f.Name)
		_ = obj.Set("number", f.Number)
		_ = obj.Set("category", f.Category.String())
		_ = obj.Set("kind", f.Kind)
		_ = obj.Set("repeated", f.Repeated)
		_ = obj.Set("optional", f.Optional)
		_ = obj.Set("map", f.Map)
		if f.Message != "" {
			_ = obj.Set("message", f.Message)
		}
		if f.Enum != "" {
			_ = obj.Set("enum", f.Enum)
		}
		if f.Oneof != "" {
			_ = obj.Set("oneof", f.Oneof)
		}
		fields[i] = obj
	}
	obj := m.runtime.NewObject()
	_ = obj.Set("name", info.Name)
	_ = obj.Set("fields", m.runtime.NewArray(fields...))
	return obj
}
