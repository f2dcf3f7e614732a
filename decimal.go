package fixedpoint

import (
	"fmt"
	"math/bits"

	"github.com/govalues/decimal"
)

// This file bridges the fixed-point types to [decimal.Decimal], the
// floating-point decimal used by reporting and pricing code.
// Conversions into a fixed-point type are exact or they fail: a decimal
// with significant digits beyond the type's precision is rejected rather
// than rounded.

// pow10 is a table of powers of 10 that fit in 64 bits.
var pow10 = [...]uint64{
	1,
	10,
	100,
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
	100_000_000_000,
	1_000_000_000_000,
	10_000_000_000_000,
	100_000_000_000_000,
	1_000_000_000_000_000,
	10_000_000_000_000_000,
	100_000_000_000_000_000,
	1_000_000_000_000_000_000,
	10_000_000_000_000_000_000,
}

// Decimal converts x to a decimal with [Precision64] digits after the
// decimal point.
// The conversion is always exact.
func (x Fixed64) Decimal() decimal.Decimal {
	return decimal.MustNew(x.inner, Precision64)
}

// Fixed64FromDecimal converts a decimal to the fixed-point number with
// the same numeric value.
//
// Fixed64FromDecimal returns an error if:
//   - d has a significant digit beyond the 9th decimal place;
//   - the scaled inner value does not fit in 64 bits.
func Fixed64FromDecimal(d decimal.Decimal) (Fixed64, error) {
	if d.MinScale() > Precision64 {
		return Fixed64{}, fmt.Errorf("converting %q to %v decimal places: %w", d, Precision64, errInexactConversion)
	}
	coef, scale, neg := d.Coef(), d.Scale(), d.IsNeg()
	if scale > Precision64 {
		coef /= pow10[scale-Precision64]
	} else {
		hi, lo := bits.Mul64(coef, pow10[Precision64-scale])
		if hi != 0 {
			return Fixed64{}, fmt.Errorf("converting %q: %w", d, errOverflow)
		}
		coef = lo
	}
	inner, ok := fromMag64[int64](neg, coef)
	if !ok {
		return Fixed64{}, fmt.Errorf("converting %q: %w", d, errOverflow)
	}
	return Fixed64{inner: inner}, nil
}

// Decimal converts x to a decimal with [Precision32] digits after the
// decimal point.
// The conversion is always exact.
func (x Fixed32) Decimal() decimal.Decimal {
	return decimal.MustNew(int64(x.inner), Precision32)
}

// Fixed32FromDecimal converts a decimal to the fixed-point number with
// the same numeric value.
//
// Fixed32FromDecimal returns an error if:
//   - d has a significant digit beyond the 4th decimal place;
//   - the scaled inner value does not fit in 32 bits.
func Fixed32FromDecimal(d decimal.Decimal) (Fixed32, error) {
	if d.MinScale() > Precision32 {
		return Fixed32{}, fmt.Errorf("converting %q to %v decimal places: %w", d, Precision32, errInexactConversion)
	}
	coef, scale, neg := d.Coef(), d.Scale(), d.IsNeg()
	if scale > Precision32 {
		coef /= pow10[scale-Precision32]
	} else {
		hi, lo := bits.Mul64(coef, pow10[Precision32-scale])
		if hi != 0 {
			return Fixed32{}, fmt.Errorf("converting %q: %w", d, errOverflow)
		}
		coef = lo
	}
	inner, ok := fromMag64[int32](neg, coef)
	if !ok {
		return Fixed32{}, fmt.Errorf("converting %q: %w", d, errOverflow)
	}
	return Fixed32{inner: inner}, nil
}
