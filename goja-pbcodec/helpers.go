package gojapbcodec

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-pbdynamic/codec"
)

func isNullish(val goja.Value) bool {
	return val == nil || goja.IsUndefined(val) || goja.IsNull(val)
}

// extractBytes extracts a []byte from a JS value that represents binary
// data. It accepts Uint8Array, ArrayBuffer, or any value that exports
// as []byte, e.g. an array of numbers. The result may alias JS memory.
func (m *Module) extractBytes(val goja.Value) ([]byte, error) {
	if isNullish(val) {
		return nil, fmt.Errorf("expected Uint8Array or ArrayBuffer, got null/undefined")
	}

	exported := val.Export()

	// goja exports ArrayBuffer as goja.ArrayBuffer.
	if ab, ok := exported.(goja.ArrayBuffer); ok {
		return ab.Bytes(), nil
	}

	// goja exports Uint8Array as []byte.
	if b, ok := exported.([]byte); ok {
		return b, nil
	}

	if _, ok := val.(*goja.Object); ok {
		var b []byte
		if err := m.runtime.ExportTo(val, &b); err == nil {
			return b, nil
		}
	}

	return nil, fmt.Errorf("expected Uint8Array or ArrayBuffer, got %T", exported)
}

// newUint8Array creates a JavaScript Uint8Array from a Go byte slice,
// which must not be retained by the caller.
func (m *Module) newUint8Array(data []byte) goja.Value {
	if data == nil {
		data = []byte{}
	}
	ab := m.runtime.NewArrayBuffer(data)
	uint8ArrayCtor := m.runtime.Get("Uint8Array")
	if uint8ArrayCtor == nil || goja.IsUndefined(uint8ArrayCtor) {
		return m.runtime.ToValue(ab)
	}
	result, err := m.runtime.New(uint8ArrayCtor, m.runtime.ToValue(ab))
	if err != nil {
		return m.runtime.ToValue(ab)
	}
	return result
}

func (m *Module) typeNameArg(call goja.FunctionCall, index int, method string) string {
	arg := call.Argument(index)
	if _, ok := arg.Export().(string); !ok {
		panic(m.runtime.NewTypeError("%s: type name must be a string", method))
	}
	return arg.String()
}

func (m *Module) callbackArg(call goja.FunctionCall, index int, method string) goja.Callable {
	arg := call.Argument(index)
	if isNullish(arg) {
		return nil
	}
	fn, ok := goja.AssertFunction(arg)
	if !ok {
		panic(m.runtime.NewTypeError("%s: callback must be a function", method))
	}
	return fn
}

// toJSError converts err to a GoError, exposing the fields of a
// [codec.Error] as properties.
func (m *Module) toJSError(err error) *goja.Object {
	obj := m.runtime.NewGoError(err)
	var e *codec.Error
	if errors.As(err, &e) {
		_ = obj.Set("kind", e.Kind.String())
		_ = obj.Set("typeName", e.TypeName)
		_ = obj.Set("field", e.Field)
	}
	return obj
}

// dispatch runs work, returning its result or throwing its error if
// callback is nil. Otherwise the result is passed to callback, on the
// scheduler if one is configured.
func (m *Module) dispatch(method string, callback goja.Callable, work func() (goja.Value, error)) goja.Value {
	if callback == nil {
		v, err := work()
		if err != nil {
			panic(m.toJSError(err))
		}
		return v
	}

	task := func() {
		result, err := work()
		errArg := goja.Null()
		if err != nil {
			errArg, result = m.toJSError(err), goja.Undefined()
		}
		if _, err := callback(goja.Undefined(), errArg, result); err != nil {
			if m.scheduler == nil {
				panic(err)
			}
			m.logger.Err().
				Str(`method`, method).
				Err(err).
				Log(`callback threw`)
		}
	}

	if m.scheduler == nil {
		task()
		return goja.Undefined()
	}
	if err := m.scheduler(task); err != nil {
		panic(m.runtime.NewGoError(fmt.Errorf("gojapbcodec: %s: schedule callback: %w", method, err)))
	}
	return goja.Undefined()
}
