package fixedpoint

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"

	"golang.org/x/exp/constraints"
)

// uint128 is an unsigned 128-bit integer split into two 64-bit words.
type uint128 struct {
	hi uint64
	lo uint64
}

// e19 is the largest power of ten that fits in 64 bits.
const e19 = 10_000_000_000_000_000_000

func (u uint128) isZero() bool {
	return u.hi|u.lo == 0
}

// cmp compares u and v and returns -1, 0, or 1.
func (u uint128) cmp(v uint128) int {
	switch {
	case u.hi > v.hi, u.hi == v.hi && u.lo > v.lo:
		return 1
	case u == v:
		return 0
	default:
		return -1
	}
}

// add calculates u + v, wrapping around on overflow.
func (u uint128) add(v uint128) uint128 {
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi, _ := bits.Add64(u.hi, v.hi, carry)
	return uint128{hi, lo}
}

// sub calculates u - v, wrapping around on underflow.
func (u uint128) sub(v uint128) uint128 {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, _ := bits.Sub64(u.hi, v.hi, borrow)
	return uint128{hi, lo}
}

// mul64 calculates u * m, wrapping around on overflow.
func (u uint128) mul64(m uint64) uint128 {
	hi, lo := bits.Mul64(u.lo, m)
	return uint128{hi + u.hi*m, lo}
}

// mulWrap calculates u * v, keeping only the low 128 bits of the product.
func (u uint128) mulWrap(v uint128) uint128 {
	hi, lo := bits.Mul64(u.lo, v.lo)
	hi += u.hi*v.lo + u.lo*v.hi
	return uint128{hi, lo}
}

// mulCheck calculates u * v and checks overflow.
func (u uint128) mulCheck(v uint128) (z uint128, ok bool) {
	if u.hi != 0 && v.hi != 0 {
		return uint128{}, false
	}
	hi, lo := bits.Mul64(u.lo, v.lo)
	c1, p1 := bits.Mul64(u.hi, v.lo)
	c2, p2 := bits.Mul64(u.lo, v.hi)
	if c1 != 0 || c2 != 0 {
		return uint128{}, false
	}
	hi, carry := bits.Add64(hi, p1, 0)
	if carry != 0 {
		return uint128{}, false
	}
	hi, carry = bits.Add64(hi, p2, 0)
	if carry != 0 {
		return uint128{}, false
	}
	return uint128{hi, lo}, true
}

// mulAdd64 calculates u * m + a and checks overflow.
func (u uint128) mulAdd64(m, a uint64) (z uint128, ok bool) {
	hi, lo := bits.Mul64(u.lo, m)
	c, p := bits.Mul64(u.hi, m)
	if c != 0 {
		return uint128{}, false
	}
	hi, carry := bits.Add64(hi, p, 0)
	if carry != 0 {
		return uint128{}, false
	}
	lo, carry = bits.Add64(lo, a, 0)
	hi, carry = bits.Add64(hi, 0, carry)
	if carry != 0 {
		return uint128{}, false
	}
	return uint128{hi, lo}, true
}

// shl calculates u << n.
func (u uint128) shl(n uint) uint128 {
	if n >= 64 {
		return uint128{u.lo << (n - 64), 0}
	}
	return uint128{u.hi<<n | u.lo>>(64-n), u.lo << n}
}

// shr calculates u >> n.
func (u uint128) shr(n uint) uint128 {
	if n >= 64 {
		return uint128{0, u.hi >> (n - 64)}
	}
	return uint128{u.hi >> n, u.hi<<(64-n) | u.lo>>n}
}

// quoRem64 calculates u / d and u % d.
// d must not be zero.
func (u uint128) quoRem64(d uint64) (q uint128, r uint64) {
	if u.hi < d {
		lo, r := bits.Div64(u.hi, u.lo, d)
		return uint128{0, lo}, r
	}
	hi, r := bits.Div64(0, u.hi, d)
	lo, r := bits.Div64(r, u.lo, d)
	return uint128{hi, lo}, r
}

// quoRem calculates u / d and u % d.
// d must not be zero.
func (u uint128) quoRem(d uint128) (q, r uint128) {
	if d.hi == 0 {
		var r64 uint64
		q, r64 = u.quoRem64(d.lo)
		return q, uint128{0, r64}
	}
	// The quotient fits in 64 bits, so a trial quotient computed from the
	// top words is off by at most one and a single correction suffices.
	n := uint(bits.LeadingZeros64(d.hi))
	d1 := d.shl(n)
	u1 := u.shr(1)
	tq, _ := bits.Div64(u1.hi, u1.lo, d1.hi)
	tq >>= 63 - n
	if tq != 0 {
		tq--
	}
	q = uint128{0, tq}
	r = u.sub(d.mul64(tq))
	if r.cmp(d) >= 0 {
		q = q.add(uint128{0, 1})
		r = r.sub(d)
	}
	return q, r
}

// string converts u to a decimal string.
func (u uint128) string() string {
	if u.hi == 0 {
		return strconv.FormatUint(u.lo, 10)
	}
	var buf [39]byte
	pos := len(buf)
	for u.hi != 0 {
		var r uint64
		u, r = u.quoRem64(e19)
		for i := 0; i < 19; i++ {
			pos--
			buf[pos] = byte(r%10) + '0'
			r /= 10
		}
	}
	for rest := u.lo; ; {
		pos--
		buf[pos] = byte(rest%10) + '0'
		rest /= 10
		if rest == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// Int128 represents a signed 128-bit integer in two's complement.
// Its zero value corresponds to 0.
// Int128 is designed to be safe for concurrent use by multiple goroutines.
type Int128 struct {
	hi uint64
	lo uint64
}

// MinInt128 and MaxInt128 are the smallest and largest values representable
// in [Int128].
var (
	MinInt128 = Int128{hi: 1 << 63, lo: 0}
	MaxInt128 = Int128{hi: 1<<63 - 1, lo: ^uint64(0)}
)

// mag128Min is the magnitude of MinInt128.
var mag128Min = uint128{hi: 1 << 63, lo: 0}

// Int128FromInt64 converts an int64 to a (sign-extended) Int128.
func Int128FromInt64(x int64) Int128 {
	return Int128{hi: uint64(x >> 63), lo: uint64(x)}
}

// Int128FromRaw assembles an Int128 from its high and low 64-bit words.
// The high word carries the sign bit.
// Also see method [Int128.Raw].
func Int128FromRaw(hi, lo uint64) Int128 {
	return Int128{hi: hi, lo: lo}
}

// Int128FromBig converts a big.Int to an Int128 and checks that the value
// fits in 128 bits.
// Also see method [Int128.Big].
func Int128FromBig(x *big.Int) (Int128, bool) {
	u, ok := uint128FromBig(x)
	if !ok {
		return Int128{}, false
	}
	return int128FromMag(x.Sign() < 0, u)
}

// ParseInt128 converts a decimal string to an Int128.
//
// ParseInt128 returns an error if:
//   - the string contains any character beyond an optional leading sign
//     and decimal digits;
//   - the value does not fit in 128 bits.
func ParseInt128(s string) (Int128, error) {
	t := s
	neg := false
	if len(t) > 0 {
		switch t[0] {
		case '-':
			neg = true
			t = t[1:]
		case '+':
			t = t[1:]
		}
	}
	if len(t) == 0 {
		return Int128{}, fmt.Errorf("parsing %q: %w", s, errInvalidNumber)
	}
	var mag uint128
	for i := 0; i < len(t); i++ {
		d := t[i] - '0'
		if d > 9 {
			return Int128{}, fmt.Errorf("parsing %q: %w", s, errInvalidNumber)
		}
		var ok bool
		mag, ok = mag.mulAdd64(10, uint64(d))
		if !ok {
			return Int128{}, fmt.Errorf("parsing %q: %w", s, errOverflow)
		}
	}
	z, ok := int128FromMag(neg, mag)
	if !ok {
		return Int128{}, fmt.Errorf("parsing %q: %w", s, errOverflow)
	}
	return z, nil
}

// Raw returns the high and low 64-bit words of x.
// The high word carries the sign bit.
// Also see function [Int128FromRaw].
func (x Int128) Raw() (hi, lo uint64) {
	return x.hi, x.lo
}

// Big converts x to a big.Int.
func (x Int128) Big() *big.Int {
	b := new(big.Int)
	setBigUint128(b, x.mag())
	if x.isNeg() {
		b.Neg(b)
	}
	return b
}

// Int64 converts x to an int64 and checks that no information is lost.
func (x Int128) Int64() (int64, bool) {
	if x.hi != uint64(int64(x.lo)>>63) {
		return 0, false
	}
	return int64(x.lo), true
}

// IsZero reports whether x is 0.
func (x Int128) IsZero() bool {
	return x.hi|x.lo == 0
}

// Sign returns:
//
//	-1 if x < 0
//	 0 if x = 0
//	+1 if x > 0
func (x Int128) Sign() int {
	switch {
	case x.isNeg():
		return -1
	case x.IsZero():
		return 0
	default:
		return 1
	}
}

// Cmp compares x and y and returns:
//
//	-1 if x < y
//	 0 if x = y
//	+1 if x > y
func (x Int128) Cmp(y Int128) int {
	a := uint128{x.hi ^ 1<<63, x.lo}
	b := uint128{y.hi ^ 1<<63, y.lo}
	return a.cmp(b)
}

// String converts x to a decimal string.
func (x Int128) String() string {
	if x.isNeg() {
		return "-" + x.mag().string()
	}
	return x.mag().string()
}

func (x Int128) isNeg() bool {
	return x.hi&(1<<63) != 0
}

// mag returns the magnitude of x.
// The magnitude of MinInt128 is exact, not clamped.
func (x Int128) mag() uint128 {
	if x.isNeg() {
		x = x.neg()
	}
	return uint128{x.hi, x.lo}
}

// neg calculates -x, wrapping around for MinInt128.
func (x Int128) neg() Int128 {
	u := uint128{}.sub(uint128{x.hi, x.lo})
	return Int128{u.hi, u.lo}
}

// add calculates x + y, wrapping around on overflow.
func (x Int128) add(y Int128) Int128 {
	u := uint128{x.hi, x.lo}.add(uint128{y.hi, y.lo})
	return Int128{u.hi, u.lo}
}

// sub calculates x - y, wrapping around on overflow.
func (x Int128) sub(y Int128) Int128 {
	u := uint128{x.hi, x.lo}.sub(uint128{y.hi, y.lo})
	return Int128{u.hi, u.lo}
}

// mulWrap calculates x * y, keeping only the low 128 bits of the product.
func (x Int128) mulWrap(y Int128) Int128 {
	u := uint128{x.hi, x.lo}.mulWrap(uint128{y.hi, y.lo})
	return Int128{u.hi, u.lo}
}

// quoRem calculates x / y and x % y, truncating the quotient toward zero.
// The quotient of MinInt128 / -1 wraps around to MinInt128, matching the
// native integer types.
// y must not be zero.
func (x Int128) quoRem(y Int128) (q, r Int128) {
	qm, rm := x.mag().quoRem(y.mag())
	q = int128Wrap(x.isNeg() != y.isNeg(), qm)
	r = int128Wrap(x.isNeg(), rm)
	return q, r
}

// addCheck calculates x + y and checks overflow.
func (x Int128) addCheck(y Int128) (z Int128, ok bool) {
	z = x.add(y)
	if x.isNeg() == y.isNeg() && z.isNeg() != x.isNeg() {
		return Int128{}, false
	}
	return z, true
}

// subCheck calculates x - y and checks overflow.
func (x Int128) subCheck(y Int128) (z Int128, ok bool) {
	z = x.sub(y)
	if x.isNeg() != y.isNeg() && z.isNeg() != x.isNeg() {
		return Int128{}, false
	}
	return z, true
}

// mulCheck calculates x * y and checks overflow.
func (x Int128) mulCheck(y Int128) (z Int128, ok bool) {
	if x.IsZero() || y.IsZero() {
		return Int128{}, true
	}
	p, ok := x.mag().mulCheck(y.mag())
	if !ok {
		return Int128{}, false
	}
	return int128FromMag(x.isNeg() != y.isNeg(), p)
}

// quoCheck calculates x / y truncated toward zero and checks division by
// zero and overflow. The only overflowing case is MinInt128 / -1.
func (x Int128) quoCheck(y Int128) (z Int128, ok bool) {
	if y.IsZero() {
		return Int128{}, false
	}
	qm, _ := x.mag().quoRem(y.mag())
	return int128FromMag(x.isNeg() != y.isNeg(), qm)
}

// satAdd calculates x + y, clamping to the bounds of Int128 on overflow.
func (x Int128) satAdd(y Int128) Int128 {
	z, ok := x.addCheck(y)
	if !ok {
		return boundInt128(x.isNeg())
	}
	return z
}

// satSub calculates x - y, clamping to the bounds of Int128 on overflow.
func (x Int128) satSub(y Int128) Int128 {
	z, ok := x.subCheck(y)
	if !ok {
		return boundInt128(x.isNeg())
	}
	return z
}

// satMul calculates x * y, clamping to the bounds of Int128 on overflow.
func (x Int128) satMul(y Int128) Int128 {
	if x.IsZero() || y.IsZero() {
		return Int128{}
	}
	neg := x.isNeg() != y.isNeg()
	p, ok := x.mag().mulCheck(y.mag())
	if !ok {
		return boundInt128(neg)
	}
	return clampMag128(neg, p)
}

// int128FromMag rebuilds a signed value from its sign and magnitude and
// checks that the value fits in 128 bits.
func int128FromMag(neg bool, mag uint128) (Int128, bool) {
	if neg {
		if mag.cmp(mag128Min) > 0 {
			return Int128{}, false
		}
		u := uint128{}.sub(mag)
		return Int128{u.hi, u.lo}, true
	}
	if mag.cmp(mag128Min) >= 0 {
		return Int128{}, false
	}
	return Int128{mag.hi, mag.lo}, true
}

// clampMag128 rebuilds a signed value from its sign and magnitude, clamping
// to the bounds of Int128 when the value does not fit in 128 bits.
func clampMag128(neg bool, mag uint128) Int128 {
	z, ok := int128FromMag(neg, mag)
	if !ok {
		return boundInt128(neg)
	}
	return z
}

// int128Wrap rebuilds a signed value from its sign and magnitude, wrapping
// around when the value does not fit in 128 bits.
func int128Wrap(neg bool, mag uint128) Int128 {
	if neg {
		mag = uint128{}.sub(mag)
	}
	return Int128{mag.hi, mag.lo}
}

// boundInt128 returns the bound of Int128 on the side selected by neg.
func boundInt128(neg bool) Int128 {
	if neg {
		return MinInt128
	}
	return MaxInt128
}

// int128Of widens a 64-bit or narrower integer to Int128.
func int128Of[N constraints.Integer](n N) Int128 {
	if n < 0 {
		return Int128FromInt64(int64(n))
	}
	return Int128{hi: 0, lo: uint64(n)}
}
