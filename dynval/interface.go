package dynval

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Interface converts v to a plain Go tree, using nil, bool, float64, string,
// []byte, []any, map[string]any, and [Int64Pair]. Map ordering is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBytes:
		return v.bytes
	case KindList:
		out := make([]any, len(v.list))
		for i, elem := range v.list {
			out[i] = elem.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for k, elem := range v.m.All() {
			out[k] = elem.Interface()
		}
		return out
	case KindInt64Pair:
		return v.pair
	default:
		return nil
	}
}

// FromInterface converts a plain Go tree to a [Value]. In addition to the
// types produced by [Value.Interface], it accepts Value, *Map, Go integer
// kinds (converted to Number, failing if the conversion would lose
// precision), float32, []string, and []map[string]any. Maps with string keys
// are converted in sorted key order.
func FromInterface(x any) (Value, error) {
	return fromInterface(x, 0)
}

const maxInterfaceDepth = 10000

func fromInterface(x any, depth int) (Value, error) {
	if depth > maxInterfaceDepth {
		return Value{}, fmt.Errorf("dynval: nesting exceeds %d levels", maxInterfaceDepth)
	}
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Map:
		return MapValue(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return intNumber(int64(x))
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return intNumber(x)
	case uint:
		return uintNumber(uint64(x))
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return uintNumber(x)
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case Int64Pair:
		return Pair(x), nil
	case []string:
		out := make([]Value, len(x))
		for i, s := range x {
			out[i] = String(s)
		}
		return List(out...), nil
	case []any:
		out := make([]Value, len(x))
		for i, elem := range x {
			v, err := fromInterface(elem, depth+1)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return List(out...), nil
	case []map[string]any:
		out := make([]Value, len(x))
		for i, elem := range x {
			v, err := fromInterface(elem, depth+1)
			if err != nil {
				return Value{}, err
			}
			out[i] = v
		}
		return List(out...), nil
	case map[string]any:
		m := NewMap(len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			v, err := fromInterface(x[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			m.Set(k, v)
		}
		return MapValue(m), nil
	default:
		return Value{}, fmt.Errorf("dynval: unsupported type %T", x)
	}
}

const maxExactInteger = 1 << 53

func intNumber(v int64) (Value, error) {
	if v > maxExactInteger || v < -maxExactInteger {
		return Value{}, fmt.Errorf("dynval: integer %d is not exactly representable as a number, use Int64Pair", v)
	}
	return Number(float64(v)), nil
}

func uintNumber(v uint64) (Value, error) {
	if v > maxExactInteger {
		return Value{}, fmt.Errorf("dynval: integer %d is not exactly representable as a number, use Int64Pair", v)
	}
	return Number(float64(v)), nil
}

// IsExactInteger reports whether f is an integer with magnitude at most
// 2^53, the range in which float64 represents every integer exactly.
func IsExactInteger(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) <= maxExactInteger
}
