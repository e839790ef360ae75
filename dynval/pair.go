package dynval

// Int64Pair carries a 64-bit integer as two unsigned 32-bit halves, so that
// hosts with only float64 numbers can hold it without precision loss.
//
// The split always operates on the unsigned bit pattern: the pair for
// int64(-1) is {High: 0xFFFFFFFF, Low: 0xFFFFFFFF}.
type Int64Pair struct {
	High uint32
	Low  uint32
}

// PairFromUint64 splits v into its high and low 32 bits.
func PairFromUint64(v uint64) Int64Pair {
	return Int64Pair{High: uint32(v >> 32), Low: uint32(v)}
}

// PairFromInt64 splits the two's complement bit pattern of v.
func PairFromInt64(v int64) Int64Pair {
	return PairFromUint64(uint64(v))
}

// Uint64 reassembles the 64-bit pattern, (High << 32) | Low.
func (p Int64Pair) Uint64() uint64 {
	return uint64(p.High)<<32 | uint64(p.Low)
}

// Int64 reassembles the 64-bit pattern as a signed integer.
func (p Int64Pair) Int64() int64 {
	return int64(p.Uint64())
}
