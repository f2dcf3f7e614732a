package fixedpoint

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Ratio is the capability surface shared by the per-thing ratio types.
// A ratio holds a value in [0, accuracy] and represents the fraction
// parts / accuracy.
type Ratio interface {
	// Parts returns the raw parts value, widened to 64 bits.
	Parts() uint64
	// Accuracy returns the denominator the parts are measured against.
	Accuracy() uint64
}

// Accuracies of the per-thing ratio types.
const (
	PermyriadAccuracy   uint64 = 10_000
	PerbillAccuracy     uint64 = 1_000_000_000
	PerquintillAccuracy uint64 = 1_000_000_000_000_000_000
)

// Permyriad type is a representation of a fraction in the range [0, 1]
// as parts per ten thousand.
// The zero value is the numeric value of 0.
type Permyriad struct {
	parts uint16
}

// Perbill type is a representation of a fraction in the range [0, 1]
// as parts per billion.
// The zero value is the numeric value of 0.
type Perbill struct {
	parts uint32
}

// Perquintill type is a representation of a fraction in the range [0, 1]
// as parts per quintillion.
// The zero value is the numeric value of 0.
type Perquintill struct {
	parts uint64
}

// PermyriadFromParts converts a raw parts value to a ratio equal to
// parts / [PermyriadAccuracy], clamping parts to the accuracy.
func PermyriadFromParts(parts uint16) Permyriad {
	if uint64(parts) > PermyriadAccuracy {
		parts = uint16(PermyriadAccuracy)
	}
	return Permyriad{parts: parts}
}

// PermyriadFromPercent converts a percentage to a ratio, clamping pct
// to 100.
func PermyriadFromPercent(pct uint64) Permyriad {
	if pct > 100 {
		pct = 100
	}
	return Permyriad{parts: uint16(pct * (PermyriadAccuracy / 100))}
}

// PerbillFromParts converts a raw parts value to a ratio equal to
// parts / [PerbillAccuracy], clamping parts to the accuracy.
func PerbillFromParts(parts uint32) Perbill {
	if uint64(parts) > PerbillAccuracy {
		parts = uint32(PerbillAccuracy)
	}
	return Perbill{parts: parts}
}

// PerbillFromPercent converts a percentage to a ratio, clamping pct
// to 100.
func PerbillFromPercent(pct uint64) Perbill {
	if pct > 100 {
		pct = 100
	}
	return Perbill{parts: uint32(pct * uint64(PerbillAccuracy/100))}
}

// PerquintillFromParts converts a raw parts value to a ratio equal to
// parts / [PerquintillAccuracy], clamping parts to the accuracy.
func PerquintillFromParts(parts uint64) Perquintill {
	if parts > PerquintillAccuracy {
		parts = PerquintillAccuracy
	}
	return Perquintill{parts: parts}
}

// PerquintillFromPercent converts a percentage to a ratio, clamping pct
// to 100.
func PerquintillFromPercent(pct uint64) Perquintill {
	if pct > 100 {
		pct = 100
	}
	return Perquintill{parts: pct * (PerquintillAccuracy / 100)}
}

// Parts returns the raw parts value of r.
func (r Permyriad) Parts() uint64 {
	return uint64(r.parts)
}

// Accuracy returns [PermyriadAccuracy].
func (r Permyriad) Accuracy() uint64 {
	return PermyriadAccuracy
}

// IsZero returns true if r == 0.
func (r Permyriad) IsZero() bool {
	return r.parts == 0
}

// Parts returns the raw parts value of r.
func (r Perbill) Parts() uint64 {
	return uint64(r.parts)
}

// Accuracy returns [PerbillAccuracy].
func (r Perbill) Accuracy() uint64 {
	return PerbillAccuracy
}

// IsZero returns true if r == 0.
func (r Perbill) IsZero() bool {
	return r.parts == 0
}

// Parts returns the raw parts value of r.
func (r Perquintill) Parts() uint64 {
	return r.parts
}

// Accuracy returns [PerquintillAccuracy].
func (r Perquintill) Accuracy() uint64 {
	return PerquintillAccuracy
}

// IsZero returns true if r == 0.
func (r Perquintill) IsZero() bool {
	return r.parts == 0
}

// PermyriadMul returns the product of r and the integer n, truncated
// toward zero. The product never overflows because its magnitude cannot
// exceed the magnitude of n.
func PermyriadMul[N constraints.Integer](r Permyriad, n N) N {
	return ratioMul(uint64(r.parts), PermyriadAccuracy, n)
}

// PerbillMul returns the product of r and the integer n, truncated
// toward zero. The product never overflows because its magnitude cannot
// exceed the magnitude of n.
func PerbillMul[N constraints.Integer](r Perbill, n N) N {
	return ratioMul(uint64(r.parts), PerbillAccuracy, n)
}

// PerquintillMul returns the product of r and the integer n, truncated
// toward zero. The product never overflows because its magnitude cannot
// exceed the magnitude of n.
func PerquintillMul[N constraints.Integer](r Perquintill, n N) N {
	return ratioMul(r.parts, PerquintillAccuracy, n)
}

// ratioMul calculates n * parts / acc, truncating toward zero.
// parts must not exceed acc.
// The quotient and remainder of n by acc are scaled separately, so no
// intermediate value exceeds the magnitude of n and the result always
// fits in N.
func ratioMul[N constraints.Integer](parts, acc uint64, n N) N {
	neg := n < 0
	m := mag64(n)
	q, r := m/acc, m%acc
	mag := q * parts
	hi, lo := bits.Mul64(r, parts)
	t, _ := bits.Div64(hi, lo, acc)
	mag += t
	if neg {
		return -N(mag)
	}
	return N(mag)
}
