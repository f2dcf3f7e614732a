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

// Fixed64 type is a representation of a fixed-point decimal number with
// 9 digits after the decimal point.
// The zero value is the numeric value of 0.
// It is designed to be safe for concurrent use by multiple goroutines.
//
// A fixed-point number is a struct with a single field, the inner value,
// which is the represented value multiplied by [Div64] and stored as a
// signed 64-bit integer.
// For example, an inner value of 1_500_000_000 represents the value 1.5.
//
// Operations come in three families with distinct overflow contracts:
// checked operations report overflow through an error, saturating
// operations clamp to [Fixed64Min] or [Fixed64Max], and the plain
// operators wrap around exactly as the native 64-bit integer
// arithmetic would.
type Fixed64 struct {
	inner int64
}

const (
	Div64       int64 = 1_000_000_000 // scale divisor separating the integer and fractional parts
	Precision64       = 9             // number of decimal digits after the decimal point
)

// Commonly used values.
// Fixed64Min and Fixed64Max bound the raw inner value, not the
// represented integer range.
var (
	Fixed64Zero = Fixed64{}
	Fixed64One  = Fixed64{inner: Div64}
	Fixed64Min  = Fixed64{inner: math.MinInt64}
	Fixed64Max  = Fixed64{inner: math.MaxInt64}
)

// Fixed64FromInner wraps a raw inner value without rescaling it.
// Also see method [Fixed64.Inner].
func Fixed64FromInner(inner int64) Fixed64 {
	return Fixed64{inner: inner}
}

// Fixed64FromInt converts an integer to a (possibly clamped) fixed-point
// number equal to n.
// The conversion saturates at [Fixed64Min] and [Fixed64Max] and never fails.
// Also see function [Fixed64FromIntChecked].
func Fixed64FromInt[N constraints.Integer](n N) Fixed64 {
	return Fixed64{inner: satMul(satNarrow[int64](n), Div64)}
}

// Fixed64FromIntChecked converts an integer to a fixed-point number equal
// to n.
//
// Fixed64FromIntChecked returns an error if n, or its scaled inner value,
// does not fit in 64 bits.
func Fixed64FromIntChecked[N constraints.Integer](n N) (Fixed64, error) {
	m, ok := narrow[int64](n)
	if !ok {
		return Fixed64{}, fmt.Errorf("converting integer %v: %w", n, errIntegerRange)
	}
	inner, ok := mulCheck(m, Div64)
	if !ok {
		return Fixed64{}, fmt.Errorf("converting integer %v: %w", n, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// Fixed64FromRational converts the quotient n / d to a fixed-point number
// using plain 64-bit arithmetic: n is clamped into 64 bits, the scaled
// numerator wraps around on overflow, and the division faults if d is zero.
// The caller asserts d != 0.
// Also see function [Fixed64FromRationalChecked].
func Fixed64FromRational[N constraints.Integer](n N, d int64) Fixed64 {
	return Fixed64{inner: satNarrow[int64](n) * Div64 / d}
}

// Fixed64FromRationalChecked converts the quotient n / d to a fixed-point
// number.
//
// Fixed64FromRationalChecked returns an error if:
//   - d is zero;
//   - n does not fit in 64 bits;
//   - the scaled numerator or the quotient does not fit in 64 bits.
func Fixed64FromRationalChecked[N constraints.Integer](n N, d int64) (Fixed64, error) {
	// Special case: zero divisor
	if d == 0 {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errDivisionByZero)
	}
	m, ok := narrow[int64](n)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errIntegerRange)
	}
	p, ok := mulCheck(m, Div64)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	inner, ok := quoCheck(p, d)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", n, d, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// Fixed64FromRatio converts a ratio to the fixed-point number equal to
// parts / accuracy, falling back to [Fixed64Max] if the conversion fails.
func Fixed64FromRatio(r Perbill) Fixed64 {
	z, err := Fixed64FromRationalChecked(r.Parts(), int64(PerbillAccuracy))
	if err != nil {
		return Fixed64Max
	}
	return z
}

// ParseFixed64 converts a string containing a decimal inner value to a
// fixed-point number.
// It is the inverse of [Fixed64.MarshalText].
//
// ParseFixed64 returns an error if the string is not a valid 64-bit
// integer.
func ParseFixed64(s string) (Fixed64, error) {
	inner, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Fixed64{}, fmt.Errorf("parsing %q: %w", s, errOverflow)
		}
		return Fixed64{}, fmt.Errorf("parsing %q: %w", s, errInvalidNumber)
	}
	return Fixed64{inner: inner}, nil
}

// Inner returns the raw inner value of x.
// Also see function [Fixed64FromInner].
func (x Fixed64) Inner() int64 {
	return x.inner
}

// IsZero returns true if x == 0.
func (x Fixed64) IsZero() bool {
	return x.inner == 0
}

// IsPositive returns true if x > 0.
func (x Fixed64) IsPositive() bool {
	return x.inner > 0
}

// IsNegative returns true if x < 0.
func (x Fixed64) IsNegative() bool {
	return x.inner < 0
}

// Cmp compares x and y numerically and returns:
//
//	-1 if x < y
//	 0 if x == y
//	+1 if x > y
func (x Fixed64) Cmp(y Fixed64) int {
	switch {
	case x.inner < y.inner:
		return -1
	case x.inner > y.inner:
		return 1
	}
	return 0
}

// String implements the [fmt.Stringer] interface and renders the
// represented value as a decimal number with exactly [Precision64] digits
// after the decimal point.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (x Fixed64) String() string {
	return formatFixed(x.inner, Div64, Precision64)
}

// MarshalText implements the [encoding.TextMarshaler] interface by
// rendering the raw inner value as a decimal string.
// The inner value, not the point representation, is used so that the
// encoding stays uniform across inner widths that structured-data number
// types cannot hold.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (x Fixed64) MarshalText() ([]byte, error) {
	return strconv.AppendInt(nil, x.inner, 10), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// Also see function [ParseFixed64].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (x *Fixed64) UnmarshalText(data []byte) error {
	z, err := ParseFixed64(string(data))
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
func (x Fixed64) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 22)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, x.inner, 10)
	buf = append(buf, '"')
	return buf, nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// A JSON null leaves x unchanged.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (x *Fixed64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return x.UnmarshalText(unquote(data))
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface by
// encoding the raw inner value as 8 little-endian bytes.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (x Fixed64) MarshalBinary() ([]byte, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(x.inner))
	return buf[:], nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
//
// UnmarshalBinary returns an error if data is not exactly 8 bytes.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (x *Fixed64) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("decoding %v bytes: %w", len(data), errInvalidNumber)
	}
	x.inner = int64(binary.LittleEndian.Uint64(data))
	return nil
}

// CheckedAdd returns the sum of x and y.
//
// CheckedAdd returns an error if the sum overflows the inner value.
func (x Fixed64) CheckedAdd(y Fixed64) (Fixed64, error) {
	inner, ok := addCheck(x.inner, y.inner)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v + %v]: %w", x, y, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// CheckedSub returns the difference of x and y.
//
// CheckedSub returns an error if the difference overflows the inner value.
func (x Fixed64) CheckedSub(y Fixed64) (Fixed64, error) {
	inner, ok := subCheck(x.inner, y.inner)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v - %v]: %w", x, y, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// CheckedMul returns the product of x and y, truncated toward zero.
// The product is computed from the unsigned magnitudes through a 128-bit
// intermediate, so it cannot overflow before the final narrowing.
//
// CheckedMul returns an error if the product overflows the inner value.
func (x Fixed64) CheckedMul(y Fixed64) (Fixed64, error) {
	neg := (x.inner < 0) != (y.inner < 0)
	m, ok := mulDiv64(mag64(x.inner), mag64(y.inner), uint64(Div64))
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	inner, ok := fromMag64[int64](neg, m)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v * %v]: %w", x, y, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// CheckedDiv returns the quotient of x and y, truncated toward zero.
//
// CheckedDiv returns an error if:
//   - y is zero;
//   - the quotient overflows the inner value, which happens only for
//     [Fixed64Min] divided by -1.
func (x Fixed64) CheckedDiv(y Fixed64) (Fixed64, error) {
	// Special case: zero divisor
	if y.inner == 0 {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errDivisionByZero)
	}
	// Special case: zero dividend
	if x.inner == 0 {
		return x, nil
	}
	// Special case: negating the minimum value
	if x.inner == math.MinInt64 && y.inner == -Div64 {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	// General case
	neg := (x.inner < 0) != (y.inner < 0)
	m, ok := mulDiv64(mag64(x.inner), uint64(Div64), mag64(y.inner))
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	inner, ok := fromMag64[int64](neg, m)
	if !ok {
		return Fixed64{}, fmt.Errorf("computing [%v / %v]: %w", x, y, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// SaturatingAdd returns the sum of x and y, clamped to [Fixed64Min] and
// [Fixed64Max].
func (x Fixed64) SaturatingAdd(y Fixed64) Fixed64 {
	return Fixed64{inner: satAdd(x.inner, y.inner)}
}

// SaturatingSub returns the difference of x and y, clamped to [Fixed64Min]
// and [Fixed64Max].
func (x Fixed64) SaturatingSub(y Fixed64) Fixed64 {
	return Fixed64{inner: satSub(x.inner, y.inner)}
}

// SaturatingMul returns the product of x and y, truncated toward zero and
// clamped to the bound selected by the sign of the product.
func (x Fixed64) SaturatingMul(y Fixed64) Fixed64 {
	z, err := x.CheckedMul(y)
	if err != nil {
		if signOf(x.inner)*signOf(y.inner) < 0 {
			return Fixed64Min
		}
		return Fixed64Max
	}
	return z
}

// SaturatingAbs returns the absolute value of x.
// The absolute value of [Fixed64Min] is not representable, so it clamps
// to [Fixed64Max].
func (x Fixed64) SaturatingAbs() Fixed64 {
	if x.inner == math.MinInt64 {
		return Fixed64Max
	}
	if x.inner < 0 {
		return Fixed64{inner: -x.inner}
	}
	return x
}

// SaturatingPow raises x to the power of exp through binary
// exponentiation, with every intermediate multiplication clamped to
// [Fixed64Min] and [Fixed64Max].
// The zero exponent returns [Fixed64One] for any x.
func (x Fixed64) SaturatingPow(exp uint) Fixed64 {
	if exp == 0 {
		return Fixed64One
	}
	e := uint64(exp)
	z := Fixed64One
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
// native 64-bit integer addition would, so the caller asserts the
// operands are in a safe range.
// Also see method [Fixed64.CheckedAdd].
func (x Fixed64) Add(y Fixed64) Fixed64 {
	return Fixed64{inner: x.inner + y.inner}
}

// Sub returns the difference of x and y.
// Sub is unchecked: the difference wraps around on overflow, so the
// caller asserts the operands are in a safe range.
// Also see method [Fixed64.CheckedSub].
func (x Fixed64) Sub(y Fixed64) Fixed64 {
	return Fixed64{inner: x.inner - y.inner}
}

// Mul returns the product of x and y, truncated toward zero.
// Mul is unchecked: the scaled product is computed with plain 64-bit
// arithmetic and wraps around on overflow, so the caller asserts the
// operands are in a safe range.
// Also see method [Fixed64.CheckedMul].
func (x Fixed64) Mul(y Fixed64) Fixed64 {
	return Fixed64{inner: x.inner * y.inner / Div64}
}

// Div returns the quotient of x and y, truncated toward zero.
// Div is unchecked: the scaled dividend is computed with plain 64-bit
// arithmetic and the division faults if y is zero, so the caller asserts
// y != 0 and the operands are in a safe range.
// Also see method [Fixed64.CheckedDiv].
func (x Fixed64) Div(y Fixed64) Fixed64 {
	return Fixed64{inner: x.inner * Div64 / y.inner}
}

// Fixed64MulInt returns the product of x and the integer n, truncated
// toward zero, as an integer of type N.
// The product is computed from the unsigned magnitudes through a 128-bit
// intermediate, so it cannot overflow before the final narrowing.
//
// Fixed64MulInt returns an error if n does not fit in 64 bits or the
// product does not fit in N.
func Fixed64MulInt[N constraints.Integer](x Fixed64, n N) (N, error) {
	m, ok := narrow[int64](n)
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	neg := (x.inner < 0) != (m < 0)
	p, ok := mulDiv64(mag64(x.inner), mag64(m), uint64(Div64))
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errOverflow)
	}
	z, ok := fromMag64[N](neg, p)
	if !ok {
		return 0, fmt.Errorf("computing [%v * %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed64DivInt returns the integer part of the quotient of x and the
// integer n, as an integer of type N.
//
// Fixed64DivInt returns an error if:
//   - n is zero or does not fit in 64 bits;
//   - the quotient overflows the inner value;
//   - the result does not fit in N.
func Fixed64DivInt[N constraints.Integer](x Fixed64, n N) (N, error) {
	m, ok := narrow[int64](n)
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
	z, ok := fromInt64[N](q / Div64)
	if !ok {
		return 0, fmt.Errorf("computing [%v / %v]: %w", x, n, errIntegerRange)
	}
	return z, nil
}

// Fixed64SaturatingMulInt returns the product of x and the integer n,
// truncated toward zero and clamped to the bounds of N on the side
// selected by the sign of the product.
// Also see function [Fixed64MulInt].
func Fixed64SaturatingMulInt[N constraints.Integer](x Fixed64, n N) N {
	z, err := Fixed64MulInt(x, n)
	if err != nil {
		return clampBound[N](signOf(n)*signOf(x.inner) < 0)
	}
	return z
}

// Fixed64SaturatingMulAcc returns n + x * n, saturating at every step.
// The weighted term is accumulated in two parts so that no intermediate
// product needs more width than N itself: the whole part of x scales n
// directly, and the fractional part scales n through a [Perbill], whose
// bounded denominator keeps the scaling overflow-safe.
func Fixed64SaturatingMulAcc[N constraints.Integer](x Fixed64, n N) N {
	parts := mag64(x.inner)
	natural := clampMag64[N](false, parts/uint64(Div64))
	frac := uint32(parts % uint64(Div64))
	whole := satMul(n, natural)
	excess := satAdd(whole, PerbillMul(PerbillFromParts(frac), n))
	if x.inner > 0 {
		return satAdd(n, excess)
	}
	return satSub(n, excess)
}
