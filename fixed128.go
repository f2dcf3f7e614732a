package fixedpoint

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Fixed128 type is a representation of a fixed-point decimal number with
// 18 digits after the decimal point.
// The zero value is the numeric value of 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// The inner value is the represented value multiplied by [Div128] and
// stored as a signed 128-bit integer.
// The operation families and their overflow contracts are the same as
// those of [Fixed64].
type Fixed128 struct {
	inner Int128
}

const (
	div128       = 1_000_000_000_000_000_000 // scale divisor as a plain integer
	Precision128 = 18                        // number of decimal digits after the decimal point
)

// Div128 is the scale divisor separating the integer and fractional parts.
var Div128 = Int128FromInt64(div128)

// Commonly used values.
// Fixed128Min and Fixed128Max bound the raw inner value, not the
// represented integer range.
var (
	Fixed128Zero = Fixed128{}
	Fixed128One  = Fixed128{inner: Int128FromInt64(div128)}
	Fixed128Min  = Fixed128{inner: MinInt128}
	Fixed128Max  = Fixed128{inner: MaxInt128}
)

// Fixed128FromInner wraps a raw inner value without rescaling it.
// Also see method [Fixed128.Inner].
func Fixed128FromInner(inner Int128) Fixed128 {
	return Fixed128{inner: inner}
}

// Fixed128FromInt converts an integer to a (possibly clamped) fixed-point
// number equal to n.
// The conversion saturates at [Fixed128Min] and [Fixed128Max] and never
// fails, though no 64-bit integer scales far enough to reach the bounds.
// Also see function [Fixed128FromIntChecked].
func Fixed128FromInt[N constraints.Integer](n N) Fixed128 {
	return Fixed128{inner: int128Of(n).satMul(Div128)}
}

// Fixed128FromIntChecked converts an integer to a fixed-point number
// equal to n.
//
// Fixed128FromIntChecked returns an error if the scaled inner value does
// not fit in 128 bits.
func Fixed128FromIntChecked[N constraints.Integer](n N) (Fixed128, error) {
	inner, ok := int128Of(n).mulCheck(Div128)
	if !ok {
		return Fixed128{}, fmt.Errorf("converting integer %v: %w", n, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// Fixed128FromRational converts the quotient n / d to a fixed-point
// number using plain 128-bit arithmetic: the scaled numerator wraps
// around on overflow and the division faults if d is zero.
// The caller asserts d != 0.
// Also see function [Fixed128FromRationalChecked].
func Fixed128FromRational[N constraints.Integer](n N, d Int128) Fixed128 {
	q, _ := int128Of(n).mulWrap(Div128).quoRem(d)
	return Fixed128{inner: q}
}

// Fixed128FromRationalChecked converts the quotient n / d to a
// fixed-point number.
//
// Fixed128FromRationalChecked returns an error if:
//   - d is zero;
//   - the scaled numerator or the quotient does not fit in 128 bits.
func Fixed128FromRationalChecked[N constraints.Integer](n N, d Int128) (Fixed128, error) {
	// Special case: zero divisor
	if d.IsZero() {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errDivisionByZero)
	}
	p, ok := int128Of(n).mulCheck(Div128)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	inner, ok := p.quoCheck(d)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// Fixed128FromRatio converts a ratio to the fixed-point number equal to
// parts / accuracy, falling back to [Fixed128Max] if the conversion fails.
func Fixed128FromRatio(r Perquintill) Fixed128 {
	z, err := Fixed128FromRationalChecked(r.Parts(), Int128FromInt64(div128))
	if err != nil {
		return Fixed128Max
	}
	return z
}

// ParseFixed128 converts a string containing a decimal inner value to a
// fixed-point number.
// It is the inverse of [Fixed128.MarshalText].
//
// ParseFixed128 returns an error if the string is not a valid 128-bit
// integer.
func ParseFixed128(s string) (Fixed128, error) {
	inner, err := ParseInt128(s)
	if err != nil {
		return Fixed128{}, err
	}
	return Fixed128{inner: inner}, nil
}

// Inner returns the raw inner value of x.
// Also see function [Fixed128FromInner].
func (x Fixed128) Inner() Int128 {
	return x.inner
}

// IsZero returns true if x == 0.
func (x Fixed128) IsZero() bool {
	return x.inner.IsZero()
}

// IsPositive returns true if x > 0.
func (x Fixed128) IsPositive() bool {
	return x.inner.Sign() > 0
}

// IsNegative returns true if x < 0.
func (x Fixed128) IsNegative() bool {
	return x.inner.Sign() < 0
}

// Cmp compares x and y numerically and returns:
//
//	-1 if x < y
//	 0 if x == y
//	+1 if x > y
func (x Fixed128) Cmp(y Fixed128) int {
	return x.inner.Cmp(y.inner)
}

// String implements the [fmt.Stringer] interface and renders the
// represented value as a decimal number with exactly [Precision128]
// digits after the decimal point.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (x Fixed128) String() string {
	whole, frac := x.inner.mag().quoRem64(div128)
	var fb [Precision128]byte
	for i := Precision128 - 1; i >= 0; i-- {
		fb[i] = byte(frac%10) + '0'
		frac /= 10
	}
	s := whole.string() + "." + string(fb[:])
	if x.inner.isNeg() {
		return "-" + s
	}
	return s
}

// MarshalText implements the [encoding.TextMarshaler] interface by
// rendering the raw inner value as a decimal string.
// The inner value, not the point representation, is used because 128-bit
// integers exceed what structured-data number types can hold.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (x Fixed128) MarshalText() ([]byte, error) {
	return []byte(x.inner.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// Also see function [ParseFixed128].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (x *Fixed128) UnmarshalText(data []byte) error {
	z, err := ParseFixed128(string(data))
	if err != nil {
		return err
	}
	*x = z
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface by encoding the
// raw inner value as a quoted decimal string.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (x Fixed128) MarshalJSON() ([]byte, error) {
	s := x.inner.String()
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '"')
	buf = append(buf, s...)
	buf = append(buf, '"')
	return buf, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// A JSON null leaves x unchanged.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (x *Fixed128) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return x.UnmarshalText(unquote(data))
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface by
// encoding the raw inner value as 16 little-endian bytes, low word first.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (x Fixed128) MarshalBinary() ([]byte, error) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], x.inner.lo)
	binary.LittleEndian.PutUint64(buf[8:], x.inner.hi)
	return buf[:], nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
//
// UnmarshalBinary returns an error if data is not exactly 16 bytes.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (x *Fixed128) UnmarshalBinary(data []byte) error {
	if len(data) != 16 {
		return fmt.Errorf("decoding %v bytes: %w", len(data), errInvalidNumber)
	}
	x.inner = Int128{
		hi: binary.LittleEndian.Uint64(data[8:]),
		lo: binary.LittleEndian.Uint64(data[:8]),
	}
	return nil
}

// CheckedAdd returns the sum of x and y.
//
// CheckedAdd returns an error if the sum overflows the inner value.
func (x Fixed128) CheckedAdd(y Fixed128) (Fixed128, error) {
	inner, ok := x.inner.addCheck(y.inner)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v + %v]: %w", x, y, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// CheckedSub returns the difference of x and y.
//
// CheckedSub returns an error if the difference overflows the inner value.
func (x Fixed128) CheckedSub(y Fixed128) (Fixed128, error) {
	inner, ok := x.inner.subCheck(y.inner)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v - %v]: %w", x, y, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// CheckedMul returns the product of x and y, truncated toward zero.
// The product is computed from the unsigned magnitudes through a 256-bit
// intermediate, so it cannot overflow before the final narrowing.
//
// CheckedMul returns an error if the product overflows the inner value.
func (x Fixed128) CheckedMul(y Fixed128) (Fixed128, error) {
	neg := x.inner.isNeg() != y.inner.isNeg()
	m, ok := mulDiv128(x.inner.mag(), y.inner.mag(), uint128{0, div128})
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	inner, ok := int128FromMag(neg, m)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// CheckedDiv returns the quotient of x and y, truncated toward zero.
//
// CheckedDiv returns an error if:
//   - y is zero;
//   - the quotient overflows the inner value, which happens only for
//     [Fixed128Min] divided by -1.
func (x Fixed128) CheckedDiv(y Fixed128) (Fixed128, error) {
	// Special case: zero divisor
	if y.inner.IsZero() {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errDivisionByZero)
	}
	// Special case: zero dividend
	if x.inner.IsZero() {
		return x, nil
	}
	// Special case: negating the minimum value
	if x.inner == MinInt128 && y.inner == Int128FromInt64(-div128) {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	// General case
	neg := x.inner.isNeg() != y.inner.isNeg()
	m, ok := mulDiv128(x.inner.mag(), uint128{0, div128}, y.inner.mag())
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	inner, ok := int128FromMag(neg, m)
	if !ok {
		return Fixed128{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	return Fixed128{inner: inner}, nil
}

// SaturatingAdd returns the sum of x and y, clamped to [Fixed128Min] and
// [Fixed128Max].
func (x Fixed128) SaturatingAdd(y Fixed128) Fixed128 {
	return Fixed128{inner: x.inner.satAdd(y.inner)}
}

// SaturatingSub returns the difference of x and y, clamped to
// [Fixed128Min] and [Fixed128Max].
func (x Fixed128) SaturatingSub(y Fixed128) Fixed128 {
	return Fixed128{inner: x.inner.satSub(y.inner)}
}

// SaturatingMul returns the product of x and y, truncated toward zero and
// clamped to the bound selected by the sign of the product.
func (x Fixed128) SaturatingMul(y Fixed128) Fixed128 {
	z, err := x.CheckedMul(y)
	if err != nil {
		if x.inner.Sign()*y.inner.Sign() < 0 {
			return Fixed128Min
		}
		return Fixed128Max
	}
	return z
}

// SaturatingAbs returns the absolute value of x.
// The absolute value of [Fixed128Min] is not representable, so it clamps
// to [Fixed128Max].
func (x Fixed128) SaturatingAbs() Fixed128 {
	if x.inner == MinInt128 {
		return Fixed128Max
	}
	if x.inner.isNeg() {
		return Fixed128{inner: x.inner.neg()}
	}
	return x
}

// SaturatingPow raises x to the power of exp through binary
// exponentiation, with every intermediate multiplication clamped to
// [Fixed128Min] and [Fixed128Max].
// The zero exponent returns [Fixed128One] for any x.
func (x Fixed128) SaturatingPow(exp uint) Fixed128 {
	if exp == 0 {
		return Fixed128One
	}
	e := uint64(exp)
	z := Fixed128One
	for i, n := 0, bits.Len64(e); i < n; i++ {
		if e&(1<<i) != 0 {
			z = z.SaturatingMul(x)
		}
		x = x.SaturatingMul(x)
	}
	return z
}

// Add returns the sum of x and y.
// Add is unchecked: the sum wraps around on overflow exactly as a native
// 128-bit integer addition would, so the caller asserts the operands are
// in a safe range.
// Also see method [Fixed128.CheckedAdd].
func (x Fixed128) Add(y Fixed128) Fixed128 {
	return Fixed128{inner: x.inner.add(y.inner)}
}

// Sub returns the difference of x and y.
// Sub is unchecked: the difference wraps around on overflow, so the
// caller asserts the operands are in a safe range.
// Also see method [Fixed128.CheckedSub].
func (x Fixed128) Sub(y Fixed128) Fixed128 {
	return Fixed128{inner: x.inner.sub(y.inner)}
}

// Mul returns the product of x and y, truncated toward zero.
// Mul is unchecked: the scaled product keeps only the low 128 bits, so
// the caller asserts the operands are in a safe range.
// Also see method [Fixed128.CheckedMul].
func (x Fixed128) Mul(y Fixed128) Fixed128 {
	q, _ := x.inner.mulWrap(y.inner).quoRem(Div128)
	return Fixed128{inner: q}
}

// Div returns the quotient of x and y, truncated toward zero.
// Div is unchecked: the scaled dividend keeps only the low 128 bits and
// the division faults if y is zero, so the caller asserts y != 0 and the
// operands are in a safe range.
// Also see method [Fixed128.CheckedDiv].
func (x Fixed128) Div(y Fixed128) Fixed128 {
	q, _ := x.inner.mulWrap(Div128).quoRem(y.inner)
	return Fixed128{inner: q}
}

// Fixed128MulInt returns the product of x and the integer n, truncated
// toward zero, as an integer of type N.
//
// Fixed128MulInt returns an error if the product does not fit in N.
func Fixed128MulInt[N constraints.Integer](x Fixed128, n N) (N, error) {
	m := int128Of(n)
	neg := x.inner.isNeg() != m.isNeg()
	p, ok := mulDiv128(x.inner.mag(), m.mag(), uint128{0, div128})
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errOverflow)
	}
	if p.hi != 0 {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	z, ok := fromMag64[N](neg, p.lo)
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed128DivInt returns the integer part of the quotient of x and the
// integer n, as an integer of type N.
//
// Fixed128DivInt returns an error if:
//   - n is zero;
//   - the quotient overflows the inner value;
//   - the result does not fit in N.
func Fixed128DivInt[N constraints.Integer](x Fixed128, n N) (N, error) {
	m := int128Of(n)
	// Special case: zero divisor
	if m.IsZero() {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errDivisionByZero)
	}
	q, ok := x.inner.quoCheck(m)
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errOverflow)
	}
	q, _ = q.quoRem(Div128)
	w, ok := q.Int64()
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errIntegerRange)
	}
	z, ok := fromInt64[N](w)
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed128SaturatingMulInt returns the product of x and the integer n,
// truncated toward zero and clamped to the bounds of N on the side
// selected by the sign of the product.
// Also see function [Fixed128MulInt].
func Fixed128SaturatingMulInt[N constraints.Integer](x Fixed128, n N) N {
	z, err := Fixed128MulInt(x, n)
	if err != nil {
		return clampBound[N](signOf(n)*x.inner.Sign() < 0)
	}
	return z
}

// Fixed128SaturatingMulAcc returns n + x * n, saturating at every step.
// The whole part of x scales n directly and the fractional part scales n
// through a [Perquintill], whose bounded denominator keeps the scaling
// overflow-safe at any width of N.
func Fixed128SaturatingMulAcc[N constraints.Integer](x Fixed128, n N) N {
	naturalMag, frac := x.inner.mag().quoRem64(div128)
	var natural N
	if naturalMag.hi != 0 {
		natural = clampBound[N](false)
	} else {
		natural = clampMag64[N](false, naturalMag.lo)
	}
	whole := satMul(n, natural)
	excess := satAdd(whole, PerquintillMul(PerquintillFromParts(frac), n))
	if x.inner.Sign() > 0 {
		return satAdd(n, excess)
	}
	return satSub(n, excess)
}
