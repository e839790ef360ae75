package dynval

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInterface_roundTrip(t *testing.T) {
	in := map[string]any{
		"null":   nil,
		"bool":   true,
		"number": 1.25,
		"string": "s",
		"bytes":  []byte{0xff},
		"list":   []any{1.0, "two", []any{}},
		"map":    map[string]any{"k": false},
		"pair":   Int64Pair{High: 2, Low: 3},
	}
	v, err := FromInterface(in)
	require.NoError(t, err)
	m, ok := v.AsMap()
	require.True(t, ok)
	// sorted key order
	assert.Equal(t, []string{"bool", "bytes", "list", "map", "null", "number", "pair", "string"}, m.Keys())
	if diff := cmp.Diff(in, v.Interface()); diff != "" {
		t.Errorf("unexpected diff (-want +got):\n%s", diff)
	}
}

func TestFromInterface_integers(t *testing.T) {
	v, err := FromInterface(int32(-5))
	require.NoError(t, err)
	assert.True(t, Equal(Number(-5), v))

	v, err = FromInterface(uint64(1 << 53))
	require.NoError(t, err)
	assert.True(t, Equal(Number(1<<53), v))

	_, err = FromInterface(int64(1<<53 + 1))
	assert.ErrorContains(t, err, "Int64Pair")

	_, err = FromInterface(uint64(math.MaxUint64))
	assert.Error(t, err)
}

func TestFromInterface_unsupported(t *testing.T) {
	_, err := FromInterface(struct{}{})
	assert.EqualError(t, err, "dynval: unsupported type struct {}")

	_, err = FromInterface([]any{make(chan int)})
	assert.Error(t, err)
}

func TestIsExactInteger(t *testing.T) {
	assert.True(t, IsExactInteger(0))
	assert.True(t, IsExactInteger(-(1 << 53)))
	assert.False(t, IsExactInteger(1<<53+2))
	assert.False(t, IsExactInteger(0.5))
	assert.False(t, IsExactInteger(math.NaN()))
	assert.False(t, IsExactInteger(math.Inf(1)))
}
