package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/go-pbdynamic/dynval"
	"github.com/joeycumines/go-pbdynamic/internal/testschema"
	"github.com/joeycumines/go-pbdynamic/schema"
	"github.com/stretchr/testify/require"
)

func newTestPool(t testing.TB) *schema.Pool {
	t.Helper()
	p, err := schema.NewPool()
	require.NoError(t, err)
	_, err = p.LoadDescriptorSet(testschema.DescriptorSetBytes())
	require.NoError(t, err)
	return p
}

func newTestCodec(t testing.TB, opts ...Option) *Codec {
	t.Helper()
	c, err := New(newTestPool(t), opts...)
	require.NoError(t, err)
	return c
}

// obj builds a map value from alternating keys and values.
func obj(kv ...any) dynval.Value {
	if len(kv)%2 != 0 {
		panic("obj: odd number of arguments")
	}
	m := dynval.NewMap(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), kv[i+1].(dynval.Value))
	}
	return dynval.MapValue(m)
}

func num(f float64) dynval.Value { return dynval.Number(f) }

func str(s string) dynval.Value { return dynval.String(s) }

func list(v ...dynval.Value) dynval.Value { return dynval.List(v...) }

func i64(v int64) dynval.Value { return dynval.Pair(dynval.PairFromInt64(v)) }

func u64(v uint64) dynval.Value { return dynval.Pair(dynval.PairFromUint64(v)) }

func requireValue(t *testing.T, want, got dynval.Value) {
	t.Helper()
	if !dynval.Equal(want, got) {
		t.Fatalf("value mismatch (-want +got):\n%s", cmp.Diff(want.String(), got.String()))
	}
}

func requireCodecError(t *testing.T, err error, kind ErrorKind, field string) *Error {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e), "not a codec error: %v", err)
	require.Equal(t, kind, e.Kind, "error: %v", err)
	require.ErrorIs(t, err, kind.Sentinel())
	require.Equal(t, field, e.Field, "error: %v", err)
	return e
}

// emptyAllTypes is the decoded form of an empty test.AllTypes message.
func emptyAllTypes(kv ...any) dynval.Value {
	v := obj(
		"repeated_int32", list(),
		"repeated_string", list(),
		"tags", list(),
		"repeated_nested", list(),
		"repeated_int64", list(),
		"repeated_bytes", list(),
		"repeated_enum", list(),
		"counts", list(),
		"repeated_uint64", list(),
	)
	m, _ := v.AsMap()
	extra, _ := obj(kv...).AsMap()
	for key, val := range extra.All() {
		m.Set(key, val)
	}
	return v
}

// fullAllTypes sets every field of test.AllTypes to a non-default value, in
// the form decoded with preserved 64-bit integers.
func fullAllTypes() dynval.Value {
	return obj(
		"int32_val", num(-42),
		"int64_val", i64(-1),
		"uint32_val", num(math.MaxUint32),
		"uint64_val", u64(1<<32),
		"float_val", num(1.5),
		"double_val", num(3.25),
		"bool_val", dynval.Bool(true),
		"string_val", str("hello"),
		"bytes_val", dynval.Bytes([]byte{0, 1, 2, 0xff}),
		"enum_val", str("SECOND"),
		"nested_val", obj("value", num(7)),
		"repeated_int32", list(num(1), num(2), num(3)),
		"repeated_string", list(str("a"), str("b")),
		"tags", list(
			obj("key", str("a"), "value", str("1")),
			obj("key", str("b"), "value", str("2")),
		),
		"sint32_val", num(-5),
		"sint64_val", i64(-1<<40),
		"fixed32_val", num(17),
		"fixed64_val", u64(math.MaxUint64),
		"sfixed32_val", num(-17),
		"sfixed64_val", i64(math.MinInt64),
		"optional_string", str(""),
		"repeated_nested", list(obj("value", num(1)), obj()),
		"repeated_int64", list(i64(-1), i64(5)),
		"repeated_bytes", list(dynval.Bytes(nil), dynval.Bytes([]byte{1})),
		"repeated_enum", list(str("FIRST"), str("THIRD")),
		"counts", list(
			obj("key", num(-1), "value", obj("value", num(1))),
			obj("key", num(2), "value", obj()),
		),
		"repeated_uint64", list(u64(0)),
	)
}
