package fixedpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Fixed32 type is a representation of a fixed-point decimal number with
// 4 digits after the decimal point.
// The zero value is the numeric value of 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// The inner value is the represented value multiplied by [Div32] and
// stored as a signed 32-bit integer.
// The operation families and their overflow contracts are the same as
// those of [Fixed64].
type Fixed32 struct {
	inner int32
}

const (
	Div32       int32 = 10_000 // scale divisor separating the integer and fractional parts
	Precision32       = 4      // number of decimal digits after the decimal point
)

// Commonly used values.
// Fixed32Min and Fixed32Max bound the raw inner value, not the
// represented integer range.
var (
	Fixed32Zero = Fixed32{}
	Fixed32One  = Fixed32{inner: Div32}
	Fixed32Min  = Fixed32{inner: math.MinInt32}
	Fixed32Max  = Fixed32{inner: math.MaxInt32}
)

// Fixed32FromInner wraps a raw inner value without rescaling it.
// Also see method [Fixed32.Inner].
func Fixed32FromInner(inner int32) Fixed32 {
	return Fixed32{inner: inner}
}

// Fixed32FromInt converts an integer to a (possibly clamped) fixed-point
// number equal to n.
// The conversion saturates at [Fixed32Min] and [Fixed32Max] and never fails.
// Also see function [Fixed32FromIntChecked].
func Fixed32FromInt[N constraints.Integer](n N) Fixed32 {
	return Fixed32{inner: satMul(satNarrow[int32](n), Div32)}
}

// Fixed32FromIntChecked converts an integer to a fixed-point number equal
// to n.
//
// Fixed32FromIntChecked returns an error if n, or its scaled inner value,
// does not fit in 32 bits.
func Fixed32FromIntChecked[N constraints.Integer](n N) (Fixed32, error) {
	m, ok := narrow[int32](n)
	if !ok {
		return Fixed32{}, fmt.Errorf("converting integer %v: %w", n, errIntegerRange)
	}
	inner, ok := mulCheck(m, Div32)
	if !ok {
		return Fixed32{}, fmt.Errorf("converting integer %v: %w", n, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// Fixed32FromRational converts the quotient n / d to a fixed-point number
// using plain 32-bit arithmetic: n is clamped into 32 bits, the scaled
// numerator wraps around on overflow, and the division faults if d is zero.
// The caller asserts d != 0.
// Also see function [Fixed32FromRationalChecked].
func Fixed32FromRational[N constraints.Integer](n N, d int32) Fixed32 {
	return Fixed32{inner: satNarrow[int32](n) * Div32 / d}
}

// Fixed32FromRationalChecked converts the quotient n / d to a fixed-point
// number.
//
// Fixed32FromRationalChecked returns an error if:
//   - d is zero;
//   - n does not fit in 32 bits;
//   - the scaled numerator or the quotient does not fit in 32 bits.
func Fixed32FromRationalChecked[N constraints.Integer](n N, d int32) (Fixed32, error) {
	// Special case: zero divisor
	if d == 0 {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errDivisionByZero)
	}
	m, ok := narrow[int32](n)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errIntegerRange)
	}
	p, ok := mulCheck(m, Div32)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	inner, ok := quoCheck(p, d)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// Fixed32FromRatio converts a ratio to the fixed-point number equal to
// parts / accuracy, falling back to [Fixed32Max] if the conversion fails.
func Fixed32FromRatio(r Permyriad) Fixed32 {
	z, err := Fixed32FromRationalChecked(r.Parts(), int32(PermyriadAccuracy))
	if err != nil {
		return Fixed32Max
	}
	return z
}

// ParseFixed32 converts a string containing a decimal inner value to a
// fixed-point number.
// It is the inverse of [Fixed32.MarshalText].
//
// ParseFixed32 returns an error if the string is not a valid 32-bit
// integer.
func ParseFixed32(s string) (Fixed32, error) {
	inner, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Fixed32{}, fmt.Errorf("parsing %q: %w", s, errOverflow)
		}
		return Fixed32{}, fmt.Errorf("parsing %q: %w", s, errInvalidNumber)
	}
	return Fixed32{inner: int32(inner)}, nil
}

// Inner returns the raw inner value of x.
// Also see function [Fixed32FromInner].
func (x Fixed32) Inner() int32 {
	return x.inner
}

// IsZero returns true if x == 0.
func (x Fixed32) IsZero() bool {
	return x.inner == 0
}

// IsPositive returns true if x > 0.
func (x Fixed32) IsPositive() bool {
	return x.inner > 0
}

// IsNegative returns true if x < 0.
func (x Fixed32) IsNegative() bool {
	return x.inner < 0
}

// Cmp compares x and y numerically and returns:
//
//	-1 if x < y
//	 0 if x == y
//	+1 if x > y
func (x Fixed32) Cmp(y Fixed32) int {
	switch {
	case x.inner < y.inner:
		return -1
	case x.inner > y.inner:
		return 1
	}
	return 0
}

// String implements the [fmt.Stringer] interface and renders the
// represented value as a decimal number with exactly [Precision32] digits
// after the decimal point.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (x Fixed32) String() string {
	return formatFixed(int64(x.inner), int64(Div32), Precision32)
}

// MarshalText implements the [encoding.TextMarshaler] interface by
// rendering the raw inner value as a decimal string.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (x Fixed32) MarshalText() ([]byte, error) {
	return strconv.AppendInt(nil, int64(x.inner), 10), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// Also see function [ParseFixed32].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (x *Fixed32) UnmarshalText(data []byte) error {
	z, err := ParseFixed32(string(data))
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
func (x Fixed32) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 13)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, int64(x.inner), 10)
	buf = append(buf, '"')
	return buf, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// A JSON null leaves x unchanged.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (x *Fixed32) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return x.UnmarshalText(unquote(data))
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface by
// encoding the raw inner value as 4 little-endian bytes.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (x Fixed32) MarshalBinary() ([]byte, error) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(x.inner))
	return buf[:], nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
//
// UnmarshalBinary returns an error if data is not exactly 4 bytes.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (x *Fixed32) UnmarshalBinary(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("decoding %v bytes: %w", len(data), errInvalidNumber)
	}
	x.inner = int32(binary.LittleEndian.Uint32(data))
	return nil
}

// CheckedAdd returns the sum of x and y.
//
// CheckedAdd returns an error if the sum overflows the inner value.
func (x Fixed32) CheckedAdd(y Fixed32) (Fixed32, error) {
	inner, ok := addCheck(x.inner, y.inner)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v + %v]: %w", x, y, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// CheckedSub returns the difference of x and y.
//
// CheckedSub returns an error if the difference overflows the inner value.
func (x Fixed32) CheckedSub(y Fixed32) (Fixed32, error) {
	inner, ok := subCheck(x.inner, y.inner)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v - %v]: %w", x, y, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// CheckedMul returns the product of x and y, truncated toward zero.
// The product is computed from the unsigned magnitudes through a widened
// intermediate, so it cannot overflow before the final narrowing.
//
// CheckedMul returns an error if the product overflows the inner value.
func (x Fixed32) CheckedMul(y Fixed32) (Fixed32, error) {
	neg := (x.inner < 0) != (y.inner < 0)
	m, ok := mulDiv64(mag64(x.inner), mag64(y.inner), uint64(Div32))
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	inner, ok := fromMag64[int32](neg, m)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// CheckedDiv returns the quotient of x and y, truncated toward zero.
//
// CheckedDiv returns an error if:
//   - y is zero;
//   - the quotient overflows the inner value, which happens only for
//     [Fixed32Min] divided by -1.
func (x Fixed32) CheckedDiv(y Fixed32) (Fixed32, error) {
	// Special case: zero divisor
	if y.inner == 0 {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errDivisionByZero)
	}
	// Special case: zero dividend
	if x.inner == 0 {
		return x, nil
	}
	// Special case: negating the minimum value
	if x.inner == math.MinInt32 && y.inner == -Div32 {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	// General case
	neg := (x.inner < 0) != (y.inner < 0)
	m, ok := mulDiv64(mag64(x.inner), uint64(Div32), mag64(y.inner))
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	inner, ok := fromMag64[int32](neg, m)
	if !ok {
		return Fixed32{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}

// SaturatingAdd returns the sum of x and y, clamped to [Fixed32Min] and
// [Fixed32Max].
func (x Fixed32) SaturatingAdd(y Fixed32) Fixed32 {
	return Fixed32{inner: satAdd(x.inner, y.inner)}
}

// SaturatingSub returns the difference of x and y, clamped to [Fixed32Min]
// and [Fixed32Max].
func (x Fixed32) SaturatingSub(y Fixed32) Fixed32 {
	return Fixed32{inner: satSub(x.inner, y.inner)}
}

// SaturatingMul returns the product of x and y, truncated toward zero and
// clamped to the bound selected by the sign of the product.
func (x Fixed32) SaturatingMul(y Fixed32) Fixed32 {
	z, err := x.CheckedMul(y)
	if err != nil {
		if signOf(x.inner)*signOf(y.inner) < 0 {
			return Fixed32Min
		}
		return Fixed32Max
	}
	return z
}

// SaturatingAbs returns the absolute value of x.
// The absolute value of [Fixed32Min] is not representable, so it clamps
// to [Fixed32Max].
func (x Fixed32) SaturatingAbs() Fixed32 {
	if x.inner == math.MinInt32 {
		return Fixed32Max
	}
	if x.inner < 0 {
		return Fixed32{inner: -x.inner}
	}
	return x
}

// SaturatingPow raises x to the power of exp through binary
// exponentiation, with every intermediate multiplication clamped to
// [Fixed32Min] and [Fixed32Max].
// The zero exponent returns [Fixed32One] for any x.
func (x Fixed32) SaturatingPow(exp uint) Fixed32 {
	if exp == 0 {
		return Fixed32One
	}
	e := uint64(exp)
	z := Fixed32One
	for i, n := 0, bits.Len64(e); i < n; i++ {
		if e&(1<<i) != 0 {
			z = z.SaturatingMul(x)
		}
		x = x.SaturatingMul(x)
	}
	return z
}

// Add returns the sum of x and y.
// Add is unchecked: the sum wraps around on overflow exactly as the
// native 32-bit integer addition would, so the caller asserts the
// operands are in a safe range.
// Also see method [Fixed32.CheckedAdd].
func (x Fixed32) Add(y Fixed32) Fixed32 {
	return Fixed32{inner: x.inner + y.inner}
}

// Sub returns the difference of x and y.
// Sub is unchecked: the difference wraps around on overflow, so the
// caller asserts the operands are in a safe range.
// Also see method [Fixed32.CheckedSub].
func (x Fixed32) Sub(y Fixed32) Fixed32 {
	return Fixed32{inner: x.inner - y.inner}
}

// Mul returns the product of x and y, truncated toward zero.
// Mul is unchecked: the scaled product is computed with plain 32-bit
// arithmetic and wraps around on overflow, so the caller asserts the
// operands are in a safe range.
// Also see method [Fixed32.CheckedMul].
func (x Fixed32) Mul(y Fixed32) Fixed32 {
	return Fixed32{inner: x.inner * y.inner / Div32}
}

// Div returns the quotient of x and y, truncated toward zero.
// Div is unchecked: the scaled dividend is computed with plain 32-bit
// arithmetic and the division faults if y is zero, so the caller asserts
// y != 0 and the operands are in a safe range.
// Also see method [Fixed32.CheckedDiv].
func (x Fixed32) Div(y Fixed32) Fixed32 {
	return Fixed32{inner: x.inner * Div32 / y.inner}
}

// Fixed32MulInt returns the product of x and the integer n, truncated
// toward zero, as an integer of type N.
//
// Fixed32MulInt returns an error if n does not fit in 32 bits or the
// product does not fit in N.
func Fixed32MulInt[N constraints.Integer](x Fixed32, n N) (N, error) {
	m, ok := narrow[int32](n)
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	neg := (x.inner < 0) != (m < 0)
	p, ok := mulDiv64(mag64(x.inner), mag64(m), uint64(Div32))
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errOverflow)
	}
	z, ok := fromMag64[N](neg, p)
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed32DivInt returns the integer part of the quotient of x and the
// integer n, as an integer of type N.
//
// Fixed32DivInt returns an error if:
//   - n is zero or does not fit in 32 bits;
//   - the quotient overflows the inner value;
//   - the result does not fit in N.
func Fixed32DivInt[N constraints.Integer](x Fixed32, n N) (N, error) {
	m, ok := narrow[int32](n)
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errIntegerRange)
	}
	// Special case: zero divisor
	if m == 0 {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errDivisionByZero)
	}
	q, ok := quoCheck(x.inner, m)
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errOverflow)
	}
	z, ok := fromInt64[N](int64(q / Div32))
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed32SaturatingMulInt returns the product of x and the integer n,
// truncated toward zero and clamped to the bounds of N on the side
// selected by the sign of the product.
// Also see function [Fixed32MulInt].
func Fixed32SaturatingMulInt[N constraints.Integer](x Fixed32, n N) N {
	z, err := Fixed32MulInt(x, n)
	if err != nil {
		return clampBound[N](signOf(n)*signOf(x.inner) < 0)
	}
	return z
}

// Fixed32SaturatingMulAcc returns n + x * n, saturating at every step.
// The whole part of x scales n directly and the fractional part scales n
// through a [Permyriad], whose bounded denominator keeps the scaling
// overflow-safe at any width of N.
func Fixed32SaturatingMulAcc[N constraints.Integer](x Fixed32, n N) N {
	parts := mag64(x.inner)
	natural := clampMag64[N](false, parts/uint64(Div32))
	frac := uint16(parts % uint64(Div32))
	whole := satMul(n, natural)
	excess := satAdd(whole, PermyriadMul(PermyriadFromParts(frac), n))
	if x.inner > 0 {
		return satAdd(n, excess)
	}
	return satSub(n, excess)
}
