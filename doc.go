/*
Package fixedpoint implements immutable fixed-point decimal numbers backed
by signed integers of a fixed bit-width.
It is specifically designed for deterministic systems, such as replicated
ledgers, that must produce bit-identical results on every platform and
therefore cannot use floating point.

# Representation

A fixed-point number is a single signed integer, the inner value, holding
the represented value multiplied by a constant power-of-ten scale divisor.
There is exactly one representation for every representable value: 1.5 is
always the inner value 1_500_000_000 in [Fixed64], never anything else.
Equality and ordering are the equality and ordering of the inner values.

The package provides three families, differing only in the width of the
inner integer and in the scale divisor:

	| Type       | Inner width | Divisor | Fractional digits | Ratio type    |
	| ---------- | ----------- | ------- | ----------------- | ------------- |
	| [Fixed32]  | 32 bits     | 10^4    | 4                 | [Permyriad]   |
	| [Fixed64]  | 64 bits     | 10^9    | 9                 | [Perbill]     |
	| [Fixed128] | 128 bits    | 10^18   | 18                | [Perquintill] |

[Fixed128] stores its inner value in [Int128], a two's-complement 128-bit
integer implemented on top of 64-bit words.

# Operations

Every operation is a pure function: values are never mutated in place, so
they may be copied and shared freely between goroutines.
All division truncates toward zero; no other rounding mode exists.

Arithmetic comes in three families with distinct overflow contracts:

  - Checked operations ([Fixed64.CheckedAdd], [Fixed64.CheckedMul], ...)
    return an error on overflow or division by zero and never panic.
    Multiplication and division compute the scaled result from the unsigned
    operand magnitudes through an intermediate at least twice the inner
    width, so overflow is detected exactly rather than wrapped around.
  - Saturating operations ([Fixed64.SaturatingAdd], [Fixed64.SaturatingPow], ...)
    never fail: a result that would overflow is clamped to the type's
    minimum or maximum according to the sign of the true result.
  - Plain operators ([Fixed64.Add], [Fixed64.Mul], ...) are unchecked fast
    paths that wrap around on overflow exactly as the native integer
    arithmetic would, and fault on a zero divisor.
    The caller asserts the operands are in a safe range.

# Integer scaling

The fixed-point value can scale an integer of an independent type, which
need not match the inner width:

  - [Fixed64MulInt] and [Fixed64DivInt] return the scaled integer, failing
    if any narrowing or the arithmetic itself overflows.
  - [Fixed64SaturatingMulInt] clamps to the integer type's bounds instead
    of failing.
  - [Fixed64SaturatingMulAcc] computes n + x*n by splitting x into its
    whole and fractional parts, so no intermediate product needs more
    width than the integer type itself.

# Ratios

[Permyriad], [Perbill], and [Perquintill] represent fractions in the range
[0, 1] as parts of a constant denominator.
Their scalar multiply never overflows, because the result magnitude cannot
exceed the magnitude of the multiplicand; this property is what makes the
multiply-accumulate operation width-safe for any integer type.
Each family converts its ratio type to a fixed-point number via
[Fixed32FromRatio], [Fixed64FromRatio], and [Fixed128FromRatio].

# Encoding

The raw inner value is the only persisted field.
Text and JSON encodings render it as a plain decimal integer string, which
survives structured-data formats that cannot hold 128-bit numbers; JSON
values are additionally quoted.
Binary encodings are fixed-width little-endian images of the inner value.
[Fixed64.String] and friends render the human-readable point form with the
full fractional digit count, for example "1.500000000".

Conversions to and from [decimal.Decimal] are provided for interop with
reporting and pricing code; conversions into a fixed-point type are exact
or they fail.

# Errors

Checked operations and conversions are panic-free and pure.
They return an error wrapping one of the package's sentinel conditions:
overflow, division by zero, integer out of range, invalid number, or
inexact conversion.
Only the plain operator family and the unchecked rational constructors may
fault, and only in the documented caller-asserted cases.

[decimal.Decimal]: https://pkg.go.dev/github.com/govalues/decimal#Decimal
*/
package fixedpoint
