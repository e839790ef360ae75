package codec

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/joeycumines/go-pbdynamic/dynval"
	"github.com/joeycumines/go-pbdynamic/schema"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(newTestPool(t), WithMaxDepth(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max depth must be positive")

	c, err := New(newTestPool(t), nil, WithPreserveInt64(true))
	require.NoError(t, err)
	assert.True(t, c.PreserveInt64())
	assert.Equal(t, DefaultMaxDepth, c.Decoder.cfg.maxDepth)
}

func TestCodec_Info(t *testing.T) {
	c := newTestCodec(t)

	info, err := c.Info("test.OneofMessage")
	require.NoError(t, err)
	assert.Equal(t, "test.OneofMessage", info.Name)
	require.Len(t, info.Fields, 3)
	assert.Equal(t, schema.FieldInfo{
		Name:     "msg_choice",
		Category: schema.CategoryMessage,
		Kind:     "message",
		Message:  "test.NestedInner",
		Oneof:    "choice",
		Number:   3,
		Optional: true,
	}, info.Fields[2])

	_, err = c.Info("test.Nope")
	requireCodecError(t, err, UnknownType, "")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestCodec_Types(t *testing.T) {
	c := newTestCodec(t)
	assert.Equal(t, c.Pool().MessageNames(), c.Types())
	assert.Contains(t, c.Types(), "test.AllTypes")
}

func TestCodec_Format(t *testing.T) {
	c := newTestCodec(t)
	data, err := c.Encode("test.AllTypes", obj(
		"int64_val", num(5),
		"nested_val", obj("value", num(1)),
		"bytes_val", dynval.Bytes([]byte{1, 2}),
	))
	require.NoError(t, err)

	s, err := c.Format("test.AllTypes", data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"int64Val": "5", "nestedVal": {"value": 1}, "bytesVal": "AQI="}`, s)

	_, err = c.Format("test.AllTypes", []byte{0x00})
	requireCodecError(t, err, MalformedInput, "")

	_, err = c.Format("nope", nil)
	requireCodecError(t, err, UnknownType, "")
}

func TestError_Error(t *testing.T) {
	for _, tc := range []struct {
		err  *Error
		want string
	}{
		{
			err:  &Error{Kind: TypeMismatch, TypeName: "a.B", Field: "c[1].d", Err: errors.New("boom")},
			want: "codec: type mismatch: a.B.c[1].d: boom",
		},
		{
			err:  &Error{Kind: UnknownType, TypeName: "a.B"},
			want: "codec: unknown type: a.B",
		},
		{
			err:  &Error{Kind: DepthExceeded, Field: "x"},
			want: "codec: depth exceeded: x",
		},
		{
			err:  &Error{Kind: ErrorKind(99)},
			want: "codec: ErrorKind(99)",
		},
	} {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", &Error{Kind: UnknownEnumName, Err: cause})

	assert.ErrorIs(t, err, ErrUnknownEnumName)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTypeMismatch)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "UnknownEnumName", e.Kind.String())
}

func TestErrorKind_Sentinel(t *testing.T) {
	seen := make(map[error]bool)
	for k := UnknownType; k <= DepthExceeded; k++ {
		s := k.Sentinel()
		require.NotNil(t, s, k.String())
		assert.False(t, seen[s], k.String())
		seen[s] = true
	}
	assert.Nil(t, ErrorKind(0).Sentinel())
	assert.Nil(t, ErrorKind(200).Sentinel())
}

func TestCodec_logsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&buf)),
		stumpy.L.WithLevel(logiface.LevelDebug),
	).Logger()

	c := newTestCodec(t, WithLogger(logger))
	_, err := c.Encode("test.AllTypes", obj("int32_val", str("x")))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `codec operation failed`)
	assert.Contains(t, out, `"kind":"TypeMismatch"`)
	assert.Contains(t, out, `"field":"int32_val"`)
	assert.Contains(t, out, `"type":"test.AllTypes"`)
}

func TestCodec_concurrent(t *testing.T) {
	c := newTestCodec(t, WithPreserveInt64(true))
	want := fullAllTypes()

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			for range 50 {
				data, err := c.Encode("test.AllTypes", want)
				if err != nil {
					return err
				}
				got, err := c.Decode("test.AllTypes", data)
				if err != nil {
					return err
				}
				if !dynval.Equal(want, got) {
					return fmt.Errorf("goroutine %d: round trip mismatch: %s", i, got)
				}
				if _, err := c.Decode("test.Missing", data); !errors.Is(err, ErrUnknownType) {
					return fmt.Errorf("goroutine %d: unexpected error: %v", i, err)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
