package dynval

import (
	"encoding/base64"
	"strconv"

	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// AppendJSON appends the JSON rendering of v to dst.
//
// Bytes render as standard base64 strings, an [Int64Pair] renders as
// {"high":H,"low":L}, and non-finite numbers render as quoted strings. The
// output is meant for diagnostics, it is not intended to be parsed back.
func (v Value) AppendJSON(dst []byte) []byte {
	switch v.kind {
	case KindBool:
		return strconv.AppendBool(dst, v.flag)
	case KindNumber:
		return jsonenc.AppendFloat64(dst, v.num)
	case KindString:
		return jsonenc.AppendString(dst, v.str)
	case KindBytes:
		dst = append(dst, '"')
		dst = base64.StdEncoding.AppendEncode(dst, v.bytes)
		return append(dst, '"')
	case KindList:
		dst = append(dst, '[')
		for i, elem := range v.list {
			if i != 0 {
				dst = append(dst, ',')
			}
			dst = elem.AppendJSON(dst)
		}
		return append(dst, ']')
	case KindMap:
		return v.m.AppendJSON(dst)
	case KindInt64Pair:
		dst = append(dst, `{"high":`...)
		dst = strconv.AppendUint(dst, uint64(v.pair.High), 10)
		dst = append(dst, `,"low":`...)
		dst = strconv.AppendUint(dst, uint64(v.pair.Low), 10)
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

// MarshalJSON implements [encoding/json.Marshaler], see [Value.AppendJSON].
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

// AppendJSON appends the JSON object rendering of m to dst, preserving the
// order of the entries.
func (m *Map) AppendJSON(dst []byte) []byte {
	dst = append(dst, '{')
	var i int
	for k, v := range m.All() {
		if i != 0 {
			dst = append(dst, ',')
		}
		i++
		dst = jsonenc.AppendString(dst, k)
		dst = append(dst, ':')
		dst = v.AppendJSON(dst)
	}
	return append(dst, '}')
}

// MarshalJSON implements [encoding/json.Marshaler].
func (m *Map) MarshalJSON() ([]byte, error) {
	return m.AppendJSON(nil), nil
}
