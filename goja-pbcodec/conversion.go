package gojapbcodec

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-pbdynamic/codec"
	"github.com/joeycumines/go-pbdynamic/dynval"
)

const (
	// maxConvertDepth bounds the nesting of JS values converted by fromJS,
	// guarding against cyclic objects.
	maxConvertDepth = 1000

	// maxArrayPrealloc caps the capacity reserved up front for an array,
	// whose length property is not trusted.
	maxArrayPrealloc = 1024
)

var (
	typeBytes       = reflect.TypeOf([]byte(nil))
	typeArrayBuffer = reflect.TypeOf(goja.ArrayBuffer{})
)

// toJS converts a decoded value to its JS representation. Map keys are
// defined as own data properties, so a key such as "__proto__" never
// replaces the prototype of the result.
func (m *Module) toJS(v dynval.Value) goja.Value {
	switch v.Kind() {
	case dynval.KindBool:
		b, _ := v.AsBool()
		return m.runtime.ToValue(b)

	case dynval.KindNumber:
		f, _ := v.AsNumber()
		return m.runtime.ToValue(f)

	case dynval.KindString:
		s, _ := v.AsString()
		return m.runtime.ToValue(s)

	case dynval.KindBytes:
		b, _ := v.AsBytes()
		return m.newUint8Array(b)

	case dynval.KindList:
		list, _ := v.AsList()
		items := make([]any, len(list))
		for i, item := range list {
			items[i] = m.toJS(item)
		}
		return m.runtime.NewArray(items...)

	case dynval.KindMap:
		src, _ := v.AsMap()
		obj := m.runtime.NewObject()
		for key, val := range src.All() {
			_ = obj.DefineDataProperty(key, m.toJS(val), goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_TRUE)
		}
		return obj

	case dynval.KindInt64Pair:
		p, _ := v.AsPair()
		obj := m.runtime.NewObject()
		_ = obj.Set("high", p.High)
		_ = obj.Set("low", p.Low)
		return obj

	default:
		return goja.Null()
	}
}

// fromJS converts a JS value to a dynamic value. Failures are reported as
// [codec.TypeMismatch] errors, with the path of the offending value.
// Only own enumerable properties of objects are read, so an object literal
// using __proto__ contributes nothing for that key, while an own property
// named "__proto__" (e.g. from JSON.parse) is converted like any other.
// Arrays must be dense: a hole or undefined element is an error.
func (m *Module) fromJS(val goja.Value) (dynval.Value, *codec.Error) {
	return m.fromJSDepth(val, 0)
}

func (m *Module) fromJSDepth(val goja.Value, depth int) (dynval.Value, *codec.Error) {
	if depth > maxConvertDepth {
		return dynval.Null(), convertError("nesting exceeds %d, the value may be cyclic", maxConvertDepth)
	}

	if isNullish(val) {
		return dynval.Null(), nil
	}

	if obj, ok := val.(*goja.Object); ok {
		return m.objectFromJS(obj, depth)
	}

	switch x := val.Export().(type) {
	case bool:
		return dynval.Bool(x), nil
	case int64:
		return dynval.Number(float64(x)), nil
	case float64:
		return dynval.Number(x), nil
	case string:
		return dynval.String(x), nil
	case *big.Int:
		return bigIntFromJS(x)
	default:
		return dynval.Null(), convertError("unsupported value %s", val.String())
	}
}

func bigIntFromJS(x *big.Int) (dynval.Value, *codec.Error) {
	switch {
	case x.IsInt64():
		return dynval.Pair(dynval.PairFromInt64(x.Int64())), nil
	case x.IsUint64():
		return dynval.Pair(dynval.PairFromUint64(x.Uint64())), nil
	default:
		return dynval.Null(), convertError("BigInt %s overflows 64 bits", x)
	}
}

func (m *Module) objectFromJS(obj *goja.Object, depth int) (dynval.Value, *codec.Error) {
	switch obj.ExportType() {
	case typeBytes:
		b, _ := obj.Export().([]byte)
		return dynval.Bytes(bytes.Clone(b)), nil
	case typeArrayBuffer:
		ab, _ := obj.Export().(goja.ArrayBuffer)
		return dynval.Bytes(bytes.Clone(ab.Bytes())), nil
	}

	switch obj.ClassName() {
	case "Array":
		return m.arrayFromJS(obj, depth)
	case "Function":
		return dynval.Null(), convertError("unsupported value: function")
	}

	if pair, ok, err := m.longFromJS(obj); err != nil || ok {
		return pair, err
	}
	if pair, ok := pairFromJS(obj); ok {
		return pair, nil
	}

	keys := obj.Keys()
	out := dynval.NewMap(len(keys))
	for _, key := range keys {
		prop := obj.Get(key)
		if prop == nil || goja.IsUndefined(prop) {
			continue
		}
		v, err := m.fromJSDepth(prop, depth+1)
		if err != nil {
			return dynval.Null(), prefixPath(err, key)
		}
		out.Set(key, v)
	}
	return dynval.MapValue(out), nil
}

func (m *Module) arrayFromJS(obj *goja.Object, depth int) (dynval.Value, *codec.Error) {
	n := obj.Get("length").ToInteger()
	items := make([]dynval.Value, 0, max(0, min(n, maxArrayPrealloc)))
	for i := int64(0); i < n; i++ {
		key := strconv.FormatInt(i, 10)
		elem := obj.Get(key)
		if elem == nil || goja.IsUndefined(elem) {
			return dynval.Null(), prefixPath(convertError("array hole or undefined element"), "["+key+"]")
		}
		v, err := m.fromJSDepth(elem, depth+1)
		if err != nil {
			return dynval.Null(), prefixPath(err, "["+key+"]")
		}
		items = append(items, v)
	}
	return dynval.List(items...), nil
}

// longFromJS converts Long-like objects, e.g. from the long.js library.
func (m *Module) longFromJS(obj *goja.Object) (dynval.Value, bool, *codec.Error) {
	getHigh, ok := goja.AssertFunction(obj.Get("getHighBitsUnsigned"))
	if !ok {
		return dynval.Null(), false, nil
	}
	getLow, ok := goja.AssertFunction(obj.Get("getLowBitsUnsigned"))
	if !ok {
		return dynval.Null(), false, nil
	}
	high, err := getHigh(obj)
	if err != nil {
		return dynval.Null(), true, convertError("getHighBitsUnsigned: %s", err)
	}
	low, err := getLow(obj)
	if err != nil {
		return dynval.Null(), true, convertError("getLowBitsUnsigned: %s", err)
	}
	h, hok := uint32FromJS(high)
	l, lok := uint32FromJS(low)
	if !hok || !lok {
		return dynval.Null(), true, convertError("Long-like bits out of range")
	}
	return dynval.Pair(dynval.Int64Pair{High: h, Low: l}), true, nil
}

// pairFromJS converts objects with exactly the properties high and low,
// both unsigned 32-bit integers.
func pairFromJS(obj *goja.Object) (dynval.Value, bool) {
	keys := obj.Keys()
	if len(keys) != 2 {
		return dynval.Null(), false
	}
	high, hok := uint32FromJS(obj.Get("high"))
	low, lok := uint32FromJS(obj.Get("low"))
	if !hok || !lok {
		return dynval.Null(), false
	}
	return dynval.Pair(dynval.Int64Pair{High: high, Low: low}), true
}

func uint32FromJS(val goja.Value) (uint32, bool) {
	if isNullish(val) {
		return 0, false
	}
	var f float64
	switch x := val.Export().(type) {
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return 0, false
	}
	if f < 0 || f > math.MaxUint32 || math.Trunc(f) != f {
		return 0, false
	}
	return uint32(f), true
}

func convertError(format string, args ...any) *codec.Error {
	return &codec.Error{Kind: codec.TypeMismatch, Err: fmt.Errorf(format, args...)}
}

func prefixPath(err *codec.Error, segment string) *codec.Error {
	switch {
	case err.Field == "":
		err.Field = segment
	case err.Field[0] == '[':
		err.Field = segment + err.Field
	default:
		err.Field = segment + "." + err.Field
	}
	return err
}
