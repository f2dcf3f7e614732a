package fixedpoint

import (
	"math"
	"math/big"
	"testing"
)

func TestRatio_Interfaces(t *testing.T) {
	for _, r := range []Ratio{Permyriad{}, Perbill{}, Perquintill{}} {
		if r.Parts() != 0 {
			t.Errorf("%T zero value has parts %v, want 0", r, r.Parts())
		}
		if r.Accuracy() == 0 {
			t.Errorf("%T reports zero accuracy", r)
		}
	}
}

func TestPermyriadFromParts(t *testing.T) {
	tests := []struct {
		parts uint16
		want  uint64
	}{
		{0, 0},
		{5_000, 5_000},
		{10_000, 10_000},
		// Clamped to the accuracy
		{10_001, 10_000},
		{math.MaxUint16, 10_000},
	}
	for _, tt := range tests {
		got := PermyriadFromParts(tt.parts)
		if got.Parts() != tt.want {
			t.Errorf("PermyriadFromParts(%v).Parts() = %v, want %v", tt.parts, got.Parts(), tt.want)
		}
	}
}

func TestPerbillFromParts(t *testing.T) {
	tests := []struct {
		parts uint32
		want  uint64
	}{
		{0, 0},
		{500_000_000, 500_000_000},
		{1_000_000_000, 1_000_000_000},
		{1_000_000_001, 1_000_000_000},
		{math.MaxUint32, 1_000_000_000},
	}
	for _, tt := range tests {
		got := PerbillFromParts(tt.parts)
		if got.Parts() != tt.want {
			t.Errorf("PerbillFromParts(%v).Parts() = %v, want %v", tt.parts, got.Parts(), tt.want)
		}
	}
}

func TestPerquintillFromParts(t *testing.T) {
	tests := []struct {
		parts uint64
		want  uint64
	}{
		{0, 0},
		{500_000_000_000_000_000, 500_000_000_000_000_000},
		{1_000_000_000_000_000_000, 1_000_000_000_000_000_000},
		{1_000_000_000_000_000_001, 1_000_000_000_000_000_000},
		{math.MaxUint64, 1_000_000_000_000_000_000},
	}
	for _, tt := range tests {
		got := PerquintillFromParts(tt.parts)
		if got.Parts() != tt.want {
			t.Errorf("PerquintillFromParts(%v).Parts() = %v, want %v", tt.parts, got.Parts(), tt.want)
		}
	}
}

func TestFromPercent(t *testing.T) {
	tests := []struct {
		pct  uint64
		want uint64 // numerator over 100
	}{
		{0, 0},
		{1, 1},
		{25, 25},
		{100, 100},
		// Clamped to 100
		{101, 100},
		{math.MaxUint64, 100},
	}
	for _, tt := range tests {
		if got := PermyriadFromPercent(tt.pct).Parts(); got != tt.want*(PermyriadAccuracy/100) {
			t.Errorf("PermyriadFromPercent(%v).Parts() = %v, want %v", tt.pct, got, tt.want*(PermyriadAccuracy/100))
		}
		if got := PerbillFromPercent(tt.pct).Parts(); got != tt.want*(PerbillAccuracy/100) {
			t.Errorf("PerbillFromPercent(%v).Parts() = %v, want %v", tt.pct, got, tt.want*(PerbillAccuracy/100))
		}
		if got := PerquintillFromPercent(tt.pct).Parts(); got != tt.want*(PerquintillAccuracy/100) {
			t.Errorf("PerquintillFromPercent(%v).Parts() = %v, want %v", tt.pct, got, tt.want*(PerquintillAccuracy/100))
		}
	}
}

func TestPermyriadMul(t *testing.T) {
	half := PermyriadFromParts(5_000)
	tests := []struct {
		r    Permyriad
		n    int64
		want int64
	}{
		{PermyriadFromParts(0), 100, 0},
		{half, 100, 50},
		{half, -100, -50},
		{PermyriadFromParts(10_000), 100, 100},
		{PermyriadFromParts(10_000), math.MinInt64, math.MinInt64},
		{PermyriadFromParts(10_000), math.MaxInt64, math.MaxInt64},
		// Truncation toward zero
		{PermyriadFromParts(1), 100, 0},
		{half, 1, 0},
		{half, 3, 1},
		{half, -3, -1},
	}
	for _, tt := range tests {
		got := PermyriadMul(tt.r, tt.n)
		if got != tt.want {
			t.Errorf("PermyriadMul(%v, %v) = %v, want %v", tt.r.Parts(), tt.n, got, tt.want)
		}
	}
}

func TestPerbillMul(t *testing.T) {
	tests := []struct {
		r    Perbill
		n    int64
		want int64
	}{
		{PerbillFromParts(0), math.MaxInt64, 0},
		{PerbillFromParts(500_000_000), 100, 50},
		{PerbillFromParts(500_000_000), -100, -50},
		{PerbillFromParts(1_000_000_000), math.MaxInt64, math.MaxInt64},
		{PerbillFromParts(1_000_000_000), math.MinInt64, math.MinInt64},
		{PerbillFromParts(1), 999_999_999, 0},
		{PerbillFromParts(1), 2_000_000_000, 2},
	}
	for _, tt := range tests {
		got := PerbillMul(tt.r, tt.n)
		if got != tt.want {
			t.Errorf("PerbillMul(%v, %v) = %v, want %v", tt.r.Parts(), tt.n, got, tt.want)
		}
	}

	// Unsigned multiplicands wider than the parts type.
	if got := PerbillMul(PerbillFromParts(500_000_000), uint64(math.MaxUint64)); got != math.MaxUint64/2 {
		t.Errorf("PerbillMul(half, MaxUint64) = %v, want %v", got, uint64(math.MaxUint64/2))
	}
}

func TestPerquintillMul(t *testing.T) {
	half := PerquintillFromParts(500_000_000_000_000_000)
	tests := []struct {
		r    Perquintill
		n    uint64
		want uint64
	}{
		{PerquintillFromParts(0), math.MaxUint64, 0},
		{half, 100, 50},
		{PerquintillFromParts(1_000_000_000_000_000_000), math.MaxUint64, math.MaxUint64},
		{PerquintillFromParts(1), 999, 0},
		// The remainder product spills into the high word
		{half, math.MaxUint64, math.MaxUint64 / 2},
	}
	for _, tt := range tests {
		got := PerquintillMul(tt.r, tt.n)
		if got != tt.want {
			t.Errorf("PerquintillMul(%v, %v) = %v, want %v", tt.r.Parts(), tt.n, got, tt.want)
		}
	}
}

func FuzzPerquintillMul(f *testing.F) {
	for _, parts := range []uint64{0, 1, 500_000_000_000_000_000, PerquintillAccuracy} {
		for _, n := range []uint64{0, 1, 100, uint64(math.MaxInt64), math.MaxUint64} {
			f.Add(parts, n)
		}
	}

	acc := new(big.Int).SetUint64(PerquintillAccuracy)
	f.Fuzz(
		func(t *testing.T, parts, n uint64) {
			r := PerquintillFromParts(parts)
			got := PerquintillMul(r, n)

			want := new(big.Int).SetUint64(n)
			want.Mul(want, new(big.Int).SetUint64(r.Parts()))
			want.Quo(want, acc)
			if new(big.Int).SetUint64(got).Cmp(want) != 0 {
				t.Errorf("PerquintillMul(%v, %v) = %v, want %v", r.Parts(), n, got, want)
			}
		},
	)
}
