package fixedpoint

import (
	"encoding/binary"
	"math/big"
	"math/bits"
	"sync"
)

// mulDiv64 calculates a * b / c with a full 128-bit intermediate product,
// truncating the quotient toward zero. It checks division by zero and
// checks that the quotient fits in 64 bits.
func mulDiv64(a, b, c uint64) (q uint64, ok bool) {
	hi, lo := bits.Mul64(a, b)
	if c == 0 || c <= hi {
		return 0, false
	}
	q, _ = bits.Div64(hi, lo, c)
	return q, true
}

// mulDiv128 calculates a * b / c with a full 256-bit intermediate product,
// truncating the quotient toward zero. It checks division by zero and
// checks that the quotient fits in 128 bits.
func mulDiv128(a, b, c uint128) (q uint128, ok bool) {
	if c.isZero() {
		return uint128{}, false
	}
	// Fast path, when the product fits in 128 bits
	if a.hi == 0 && b.hi == 0 {
		hi, lo := bits.Mul64(a.lo, b.lo)
		if c.hi != 0 {
			q, _ = uint128{hi, lo}.quoRem(c)
			return q, true
		}
		qlo, _ := bits.Div64(hi%c.lo, lo, c.lo)
		return uint128{hi / c.lo, qlo}, true
	}
	// Slow path
	return mulDiv128Slow(a, b, c)
}

// mulDiv128Slow calculates a * b / c through big.Int arithmetic.
func mulDiv128Slow(a, b, c uint128) (uint128, bool) {
	x := getBig()
	defer putBig(x)
	y := getBig()
	defer putBig(y)

	setBigUint128(x, a)
	setBigUint128(y, b)
	x.Mul(x, y)
	setBigUint128(y, c)
	x.Quo(x, y)
	return uint128FromBig(x)
}

// setBigUint128 sets z to the value of u.
func setBigUint128(z *big.Int, u uint128) *big.Int {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], u.hi)
	binary.BigEndian.PutUint64(buf[8:], u.lo)
	return z.SetBytes(buf[:])
}

// uint128FromBig converts a non-negative big.Int to uint128 and checks
// that the value fits in 128 bits.
func uint128FromBig(x *big.Int) (uint128, bool) {
	b := x.Bytes()
	if len(b) > 16 {
		return uint128{}, false
	}
	var buf [16]byte
	copy(buf[16-len(b):], b)
	return uint128{binary.BigEndian.Uint64(buf[:8]), binary.BigEndian.Uint64(buf[8:])}, true
}

// bpool is a cache of reusable *big.Int instances.
var bpool = sync.Pool{
	New: func() any {
		return new(big.Int)
	},
}

// getBig obtains a *big.Int from the pool.
func getBig() *big.Int {
	return bpool.Get().(*big.Int)
}

// putBig returns the *big.Int into the pool.
func putBig(b *big.Int) {
	bpool.Put(b)
}
