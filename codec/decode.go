package codec

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/joeycumines/go-pbdynamic/dynval"
	"github.com/joeycumines/go-pbdynamic/schema"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Decode parses data as the named message type, returning a
// [dynval.KindMap] value. Any failure returns an [*Error] and no value.
func (d *Decoder) Decode(typeName string, data []byte) (dynval.Value, error) {
	md, err := d.resolve(typeName)
	if err != nil {
		return dynval.Null(), d.fail("decode", typeName, err)
	}
	msg, err := d.unmarshal(md, data)
	if err != nil {
		return dynval.Null(), d.fail("decode", typeName, err)
	}
	v, err := d.message(msg, 1)
	if err != nil {
		return dynval.Null(), d.fail("decode", typeName, err)
	}
	return v, nil
}

// DecodeMessage converts an already parsed message.
func (d *Decoder) DecodeMessage(msg protoreflect.Message) (dynval.Value, error) {
	typeName := string(msg.Descriptor().FullName())
	v, err := d.message(msg, 1)
	if err != nil {
		return dynval.Null(), d.fail("decode", typeName, err)
	}
	return v, nil
}

func (d *Decoder) message(msg protoreflect.Message, depth int) (dynval.Value, error) {
	if depth > d.cfg.maxDepth {
		return dynval.Null(), errorf(DepthExceeded, "nesting exceeds %d", d.cfg.maxDepth)
	}

	fields := msg.Descriptor().Fields()
	out := dynval.NewMap(fields.Len())

	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		name := string(fd.Name())

		var (
			v   dynval.Value
			err error
		)
		switch {
		case fd.IsMap():
			v, err = d.mapEntries(msg.Get(fd).Map(), fd, depth)
		case fd.IsList():
			v, err = d.list(msg.Get(fd).List(), fd, depth)
		case !msg.Has(fd):
			if fd.Cardinality() == protoreflect.Optional {
				continue
			}
			if fd.Message() != nil {
				// unset required message
				out.Set(name, dynval.Null())
				continue
			}
			v, err = d.scalar(msg.Get(fd), fd, depth)
		default:
			v, err = d.scalar(msg.Get(fd), fd, depth)
		}
		if err != nil {
			return dynval.Null(), withField(err, name)
		}
		out.Set(name, v)
	}

	return dynval.MapValue(out), nil
}

func (d *Decoder) list(list protoreflect.List, fd protoreflect.FieldDescriptor, depth int) (dynval.Value, error) {
	items := make([]dynval.Value, list.Len())
	for i := range items {
		v, err := d.scalar(list.Get(i), fd, depth)
		if err != nil {
			return dynval.Null(), withField(err, indexSegment(i))
		}
		items[i] = v
	}
	return dynval.List(items...), nil
}

// mapEntries decodes a map field as a list of {key, value} maps, ordered by
// key.
func (d *Decoder) mapEntries(mp protoreflect.Map, fd protoreflect.FieldDescriptor, depth int) (dynval.Value, error) {
	keys := make([]protoreflect.MapKey, 0, mp.Len())
	mp.Range(func(k protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, k)
		return true
	})
	slices.SortFunc(keys, compareMapKeys)

	keyFD, valueFD := fd.MapKey(), fd.MapValue()
	items := make([]dynval.Value, len(keys))
	for i, k := range keys {
		key, err := d.scalar(k.Value(), keyFD, depth)
		if err != nil {
			return dynval.Null(), withField(err, "["+k.String()+"]")
		}
		value, err := d.scalar(mp.Get(k), valueFD, depth)
		if err != nil {
			return dynval.Null(), withField(err, "["+k.String()+"]")
		}
		items[i] = dynval.MapValue(dynval.NewMap(2).
			Set("key", key).
			Set("value", value))
	}
	return dynval.List(items...), nil
}

func compareMapKeys(a, b protoreflect.MapKey) int {
	switch x := a.Interface().(type) {
	case string:
		return cmp.Compare(x, b.String())
	case bool:
		switch y := b.Bool(); {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case int32, int64:
		return cmp.Compare(a.Int(), b.Int())
	case uint32, uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	default:
		return 0
	}
}

func (d *Decoder) scalar(v protoreflect.Value, fd protoreflect.FieldDescriptor, depth int) (dynval.Value, error) {
	switch cat := schema.CategoryOf(fd); cat {
	case schema.CategoryInt32:
		return dynval.Number(float64(v.Int())), nil
	case schema.CategoryInt64:
		if d.cfg.preserveInt64 {
			return dynval.Pair(dynval.PairFromInt64(v.Int())), nil
		}
		return dynval.Number(float64(v.Int())), nil
	case schema.CategoryUint32:
		return dynval.Number(float64(v.Uint())), nil
	case schema.CategoryUint64:
		if d.cfg.preserveInt64 {
			return dynval.Pair(dynval.PairFromUint64(v.Uint())), nil
		}
		return dynval.Number(float64(v.Uint())), nil
	case schema.CategoryDouble, schema.CategoryFloat:
		return dynval.Number(v.Float()), nil
	case schema.CategoryBool:
		return dynval.Bool(v.Bool()), nil
	case schema.CategoryEnum:
		n := v.Enum()
		if ev := fd.Enum().Values().ByNumber(n); ev != nil {
			return dynval.String(string(ev.Name())), nil
		}
		return dynval.Number(float64(n)), nil
	case schema.CategoryMessage:
		return d.message(v.Message(), depth+1)
	case schema.CategoryString:
		return dynval.String(v.String()), nil
	case schema.CategoryBytes:
		return dynval.Bytes(bytes.Clone(v.Bytes())), nil
	default:
		return dynval.Null(), errorf(UnsupportedFieldCategory, "kind %s", fd.Kind())
	}
}
