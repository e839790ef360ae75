package codec

import (
	"bytes"
	"math"
	"strconv"

	"github.com/joeycumines/go-pbdynamic/dynval"
	"github.com/joeycumines/go-pbdynamic/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Encode serializes value, which must be a [dynval.KindMap] value, as the
// named message type. Any failure returns an [*Error] and no bytes.
func (e *Encoder) Encode(typeName string, value dynval.Value) ([]byte, error) {
	md, err := e.resolve(typeName)
	if err != nil {
		return nil, e.fail("encode", typeName, err)
	}
	msg, err := e.build(md, value)
	if err != nil {
		return nil, e.fail("encode", typeName, err)
	}
	b, err := proto.MarshalOptions{
		AllowPartial:  true,
		Deterministic: e.cfg.deterministic,
	}.Marshal(msg)
	if err != nil {
		return nil, e.fail("encode", typeName, newError(SerializationFailure, err))
	}
	return b, nil
}

// EncodeMessage populates a new message of type md from value.
func (e *Encoder) EncodeMessage(md protoreflect.MessageDescriptor, value dynval.Value) (*dynamicpb.Message, error) {
	msg, err := e.build(md, value)
	if err != nil {
		return nil, e.fail("encode", string(md.FullName()), err)
	}
	return msg, nil
}

func (e *Encoder) build(md protoreflect.MessageDescriptor, value dynval.Value) (*dynamicpb.Message, error) {
	if _, ok := value.AsMap(); !ok {
		return nil, errorf(TypeMismatch, "expected map, got %s", value.Kind())
	}
	msg := dynamicpb.NewMessage(md)
	if err := e.fill(msg, value, 1); err != nil {
		return nil, err
	}
	return msg, nil
}

func (e *Encoder) fill(msg protoreflect.Message, value dynval.Value, depth int) error {
	if depth > e.cfg.maxDepth {
		return errorf(DepthExceeded, "nesting exceeds %d", e.cfg.maxDepth)
	}

	obj, ok := value.AsMap()
	if !ok {
		pair, ok := value.AsPair()
		if !ok {
			return errorf(TypeMismatch, "expected map, got %s", value.Kind())
		}
		obj = pairObject(pair)
	}

	fields := msg.Descriptor().Fields()

	if e.cfg.disallowUnknownKeys {
		for key := range obj.All() {
			if fields.ByName(protoreflect.Name(key)) == nil {
				return withField(errorf(TypeMismatch, "no such field"), key)
			}
		}
	}

	var oneofs map[protoreflect.Name]string
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		name := string(fd.Name())
		v, ok := obj.Get(name)
		if !ok {
			continue
		}
		if od := fd.ContainingOneof(); od != nil && !v.IsNull() {
			if prev, ok := oneofs[od.Name()]; ok {
				return withField(errorf(TypeMismatch, "oneof %s already set by %s", od.Name(), prev), name)
			}
			if oneofs == nil {
				oneofs = make(map[protoreflect.Name]string)
			}
			oneofs[od.Name()] = name
		}
		if err := e.field(msg, fd, v, depth); err != nil {
			return withField(err, name)
		}
	}

	return nil
}

func (e *Encoder) field(msg protoreflect.Message, fd protoreflect.FieldDescriptor, v dynval.Value, depth int) error {
	switch {
	case fd.IsMap():
		return e.mapField(msg, fd, v, depth)

	case fd.IsList():
		items, ok := v.AsList()
		if !ok {
			return errorf(TypeMismatch, "repeated field requires a list, got %s", v.Kind())
		}
		if len(items) == 0 {
			return nil
		}
		list := msg.Mutable(fd).List()
		for i, item := range items {
			pv, err := e.value(fd, item, list.NewElement, depth)
			if err != nil {
				return withField(err, indexSegment(i))
			}
			list.Append(pv)
		}
		return nil

	case v.IsNull():
		if fd.Message() == nil {
			return errorf(TypeMismatch, "null is only valid for message fields")
		}
		msg.Clear(fd)
		return nil

	default:
		if v.Kind() == dynval.KindList {
			return errorf(TypeMismatch, "list given for singular field")
		}
		pv, err := e.value(fd, v, func() protoreflect.Value { return msg.NewField(fd) }, depth)
		if err != nil {
			return err
		}
		msg.Set(fd, pv)
		return nil
	}
}

// mapField accepts either a list of {key, value} maps, or a map keyed by
// the string form of the key.
func (e *Encoder) mapField(msg protoreflect.Message, fd protoreflect.FieldDescriptor, v dynval.Value, depth int) error {
	keyFD, valueFD := fd.MapKey(), fd.MapValue()

	if pair, ok := v.AsPair(); ok {
		v = dynval.MapValue(pairObject(pair))
	}

	switch v.Kind() {
	case dynval.KindMap:
		obj, _ := v.AsMap()
		if obj.Len() == 0 {
			return nil
		}
		mp := msg.Mutable(fd).Map()
		for key, item := range obj.All() {
			mk, err := parseMapKey(keyFD, key)
			if err != nil {
				return withField(err, "["+key+"]")
			}
			if mp.Has(mk) {
				return withField(errorf(TypeMismatch, "duplicate map key"), "["+key+"]")
			}
			pv, err := e.value(valueFD, item, mp.NewValue, depth)
			if err != nil {
				return withField(err, "["+key+"]")
			}
			mp.Set(mk, pv)
		}
		return nil

	case dynval.KindList:
		items, _ := v.AsList()
		if len(items) == 0 {
			return nil
		}
		mp := msg.Mutable(fd).Map()
		for i, item := range items {
			if err := e.mapEntry(mp, keyFD, valueFD, item, depth); err != nil {
				return withField(err, indexSegment(i))
			}
		}
		return nil

	default:
		return errorf(TypeMismatch, "map field requires a list or map, got %s", v.Kind())
	}
}

func (e *Encoder) mapEntry(mp protoreflect.Map, keyFD, valueFD protoreflect.FieldDescriptor, item dynval.Value, depth int) error {
	entry, ok := item.AsMap()
	if !ok {
		return errorf(TypeMismatch, "map entry must be a map, got %s", item.Kind())
	}

	k, ok := entry.Get("key")
	if !ok {
		return withField(errorf(TypeMismatch, "map entry requires a key"), "key")
	}
	kv, err := e.value(keyFD, k, nil, depth)
	if err != nil {
		return withField(err, "key")
	}
	mk := kv.MapKey()
	if mp.Has(mk) {
		return withField(errorf(TypeMismatch, "duplicate map key %s", mk), "key")
	}

	var pv protoreflect.Value
	if val, ok := entry.Get("value"); ok {
		if pv, err = e.value(valueFD, val, mp.NewValue, depth); err != nil {
			return withField(err, "value")
		}
	} else if valueFD.Message() != nil {
		pv = mp.NewValue()
	} else {
		pv = valueFD.Default()
	}

	mp.Set(mk, pv)
	return nil
}

// pairObject converts a [dynval.Int64Pair] to the equivalent {high, low}
// map, as hosts may not distinguish the two.
func pairObject(p dynval.Int64Pair) *dynval.Map {
	return dynval.NewMap(2).
		Set("high", dynval.Number(float64(p.High))).
		Set("low", dynval.Number(float64(p.Low)))
}

func parseMapKey(fd protoreflect.FieldDescriptor, key string) (protoreflect.MapKey, error) {
	var (
		pv  protoreflect.Value
		err error
	)
	switch schema.CategoryOf(fd) {
	case schema.CategoryString:
		pv = protoreflect.ValueOfString(key)
	case schema.CategoryBool:
		var b bool
		b, err = strconv.ParseBool(key)
		pv = protoreflect.ValueOfBool(b)
	case schema.CategoryInt32:
		var n int64
		n, err = strconv.ParseInt(key, 10, 32)
		pv = protoreflect.ValueOfInt32(int32(n))
	case schema.CategoryInt64:
		var n int64
		n, err = strconv.ParseInt(key, 10, 64)
		pv = protoreflect.ValueOfInt64(n)
	case schema.CategoryUint32:
		var n uint64
		n, err = strconv.ParseUint(key, 10, 32)
		pv = protoreflect.ValueOfUint32(uint32(n))
	case schema.CategoryUint64:
		var n uint64
		n, err = strconv.ParseUint(key, 10, 64)
		pv = protoreflect.ValueOfUint64(n)
	default:
		return protoreflect.MapKey{}, errorf(UnsupportedFieldCategory, "map key kind %s", fd.Kind())
	}
	if err != nil {
		return protoreflect.MapKey{}, errorf(TypeMismatch, "invalid %s map key: %w", fd.Kind(), err)
	}
	return pv.MapKey(), nil
}

// value converts a single (non-repeated) value for fd. newMessage allocates
// the target for message fields.
func (e *Encoder) value(fd protoreflect.FieldDescriptor, v dynval.Value, newMessage func() protoreflect.Value, depth int) (protoreflect.Value, error) {
	switch cat := schema.CategoryOf(fd); cat {
	case schema.CategoryInt32:
		n, err := toInteger(v, math.MinInt32, math.MaxInt32)
		return protoreflect.ValueOfInt32(int32(n)), err

	case schema.CategoryInt64:
		if p, ok := v.AsPair(); ok {
			return protoreflect.ValueOfInt64(p.Int64()), nil
		}
		n, err := toInteger(v, -(1 << 63), 1<<63)
		if err != nil {
			return protoreflect.Value{}, err
		}
		if n == 1<<63 {
			return protoreflect.Value{}, errorf(TypeMismatch, "number %v out of range", n)
		}
		return protoreflect.ValueOfInt64(int64(n)), nil

	case schema.CategoryUint32:
		n, err := toInteger(v, 0, math.MaxUint32)
		return protoreflect.ValueOfUint32(uint32(n)), err

	case schema.CategoryUint64:
		if p, ok := v.AsPair(); ok {
			return protoreflect.ValueOfUint64(p.Uint64()), nil
		}
		n, err := toInteger(v, 0, 1<<64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		if n == 1<<64 {
			return protoreflect.Value{}, errorf(TypeMismatch, "number %v out of range", n)
		}
		return protoreflect.ValueOfUint64(uint64(n)), nil

	case schema.CategoryDouble:
		f, ok := v.AsNumber()
		if !ok {
			return protoreflect.Value{}, mismatch("number", v)
		}
		return protoreflect.ValueOfFloat64(f), nil

	case schema.CategoryFloat:
		f, ok := v.AsNumber()
		if !ok {
			return protoreflect.Value{}, mismatch("number", v)
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return protoreflect.Value{}, errorf(TypeMismatch, "number %v overflows float", f)
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil

	case schema.CategoryBool:
		b, ok := v.AsBool()
		if !ok {
			return protoreflect.Value{}, mismatch("bool", v)
		}
		return protoreflect.ValueOfBool(b), nil

	case schema.CategoryEnum:
		if name, ok := v.AsString(); ok {
			ev := fd.Enum().Values().ByName(protoreflect.Name(name))
			if ev == nil {
				return protoreflect.Value{}, errorf(UnknownEnumName, "%q is not a value of %s", name, fd.Enum().FullName())
			}
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
		if v.Kind() != dynval.KindNumber {
			return protoreflect.Value{}, mismatch("enum name or number", v)
		}
		n, err := toInteger(v, math.MinInt32, math.MaxInt32)
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), err

	case schema.CategoryMessage:
		if v.IsNull() {
			return protoreflect.Value{}, errorf(TypeMismatch, "null message in repeated or map field")
		}
		pv := newMessage()
		if err := e.fill(pv.Message(), v, depth+1); err != nil {
			return protoreflect.Value{}, err
		}
		return pv, nil

	case schema.CategoryString:
		s, ok := v.AsString()
		if !ok {
			return protoreflect.Value{}, mismatch("string", v)
		}
		return protoreflect.ValueOfString(s), nil

	case schema.CategoryBytes:
		switch v.Kind() {
		case dynval.KindBytes:
			b, _ := v.AsBytes()
			return protoreflect.ValueOfBytes(bytes.Clone(b)), nil
		case dynval.KindString:
			s, _ := v.AsString()
			return protoreflect.ValueOfBytes([]byte(s)), nil
		default:
			return protoreflect.Value{}, mismatch("bytes or string", v)
		}

	default:
		return protoreflect.Value{}, errorf(UnsupportedFieldCategory, "kind %s", fd.Kind())
	}
}

// toInteger validates v as an integral number within [lo, hi]. The result
// is exact, as float64 represents every integer it is compared against.
func toInteger(v dynval.Value, lo, hi float64) (float64, error) {
	f, ok := v.AsNumber()
	if !ok {
		return 0, mismatch("number", v)
	}
	if math.Trunc(f) != f {
		return 0, errorf(TypeMismatch, "number %v is not an integer", f)
	}
	if f < lo || f > hi {
		return 0, errorf(TypeMismatch, "number %v out of range", f)
	}
	return f, nil
}

func mismatch(want string, got dynval.Value) error {
	return errorf(TypeMismatch, "expected %s, got %s", want, got.Kind())
}
