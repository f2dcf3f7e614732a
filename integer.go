package fixedpoint

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// bounds returns the minimum and maximum values representable in N.
func bounds[N constraints.Integer]() (min, max N) {
	if ^N(0) > 0 {
		return 0, ^N(0)
	}
	max = 1
	for next := max << 1; next > max; next = max << 1 {
		max = next
	}
	max += max - 1
	return -max - 1, max
}

// mag64 returns the absolute value of n widened to uint64.
// The magnitude of the minimum signed value is exact, not clamped.
func mag64[N constraints.Integer](n N) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

// signOf returns -1, 0, or 1 according to the sign of n.
func signOf[N constraints.Integer](n N) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// narrow converts n to I and checks that no information is lost.
func narrow[I constraints.Signed, N constraints.Integer](n N) (I, bool) {
	return fromMag64[I](n < 0, mag64(n))
}

// satNarrow converts n to I, clamping to the bounds of I.
func satNarrow[I constraints.Signed, N constraints.Integer](n N) I {
	return clampMag64[I](n < 0, mag64(n))
}

// fromInt64 converts x to N and checks that no information is lost.
func fromInt64[N constraints.Integer](x int64) (N, bool) {
	n := N(x)
	if int64(n) != x || (n < 0) != (x < 0) {
		return 0, false
	}
	return n, true
}

// fromMag64 rebuilds a signed value from its sign and magnitude and checks
// that the value is representable in N.
func fromMag64[N constraints.Integer](neg bool, mag uint64) (N, bool) {
	min, max := bounds[N]()
	if neg {
		if mag > mag64(min) {
			return 0, false
		}
		return -N(mag), true
	}
	if mag > mag64(max) {
		return 0, false
	}
	return N(mag), true
}

// clampMag64 rebuilds a signed value from its sign and magnitude, clamping
// to the bounds of N when the value is not representable.
func clampMag64[N constraints.Integer](neg bool, mag uint64) N {
	min, max := bounds[N]()
	if neg {
		if mag >= mag64(min) {
			return min
		}
		return -N(mag)
	}
	if mag >= mag64(max) {
		return max
	}
	return N(mag)
}

// clampBound returns the bound of N on the side selected by neg.
func clampBound[N constraints.Integer](neg bool) N {
	min, max := bounds[N]()
	if neg {
		return min
	}
	return max
}

// satAdd calculates a + b, clamping to the bounds of N on overflow.
func satAdd[N constraints.Integer](a, b N) N {
	z := a + b
	if b > 0 && z < a {
		return clampBound[N](false)
	}
	if b < 0 && z > a {
		return clampBound[N](true)
	}
	return z
}

// satSub calculates a - b, clamping to the bounds of N on overflow.
func satSub[N constraints.Integer](a, b N) N {
	z := a - b
	if b < 0 && z < a {
		return clampBound[N](false)
	}
	if b > 0 && z > a {
		return clampBound[N](true)
	}
	return z
}

// satMul calculates a * b, clamping to the bounds of N on overflow.
func satMul[N constraints.Integer](a, b N) N {
	if a == 0 || b == 0 {
		return 0
	}
	neg := (a < 0) != (b < 0)
	hi, lo := bits.Mul64(mag64(a), mag64(b))
	if hi != 0 {
		return clampBound[N](neg)
	}
	return clampMag64[N](neg, lo)
}

// addCheck calculates a + b and checks overflow.
func addCheck[T constraints.Signed](a, b T) (z T, ok bool) {
	z = a + b
	if (b > 0 && z < a) || (b < 0 && z > a) {
		return 0, false
	}
	return z, true
}

// subCheck calculates a - b and checks overflow.
func subCheck[T constraints.Signed](a, b T) (z T, ok bool) {
	z = a - b
	if (b < 0 && z < a) || (b > 0 && z > a) {
		return 0, false
	}
	return z, true
}

// mulCheck calculates a * b and checks overflow.
func mulCheck[T constraints.Signed](a, b T) (z T, ok bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	min, _ := bounds[T]()
	if (a == -1 && b == min) || (b == -1 && a == min) {
		return 0, false
	}
	z = a * b
	if z/b != a {
		return 0, false
	}
	return z, true
}

// quoCheck calculates a / b truncated toward zero and checks division by
// zero and overflow. The only overflowing case is min / -1.
func quoCheck[T constraints.Signed](a, b T) (z T, ok bool) {
	if b == 0 {
		return 0, false
	}
	min, _ := bounds[T]()
	if a == min && b == -1 {
		return 0, false
	}
	return a / b, true
}
