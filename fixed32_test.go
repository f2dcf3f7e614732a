package fixedpoint

import (
	"encoding/json"
	"math"
	"testing"
	"unsafe"
)

func TestFixed32_ZeroValue(t *testing.T) {
	got := Fixed32{}
	if got != Fixed32Zero {
		t.Errorf("Fixed32{} = %q, want %q", got, Fixed32Zero)
	}
	if !got.IsZero() {
		t.Errorf("%q.IsZero() = false, want true", got)
	}
}

func TestFixed32_Size(t *testing.T) {
	x := Fixed32{}
	got := unsafe.Sizeof(x)
	want := uintptr(4)
	if got != want {
		t.Errorf("unsafe.Sizeof(%q) = %v, want %v", x, got, want)
	}
}

func TestFixed32FromInt(t *testing.T) {
	tests := []struct {
		n    int64
		want Fixed32
	}{
		{0, Fixed32Zero},
		{1, Fixed32One},
		{-1, Fixed32FromInner(-Div32)},
		{42, Fixed32FromInner(420_000)},
		{214_748, Fixed32FromInner(2_147_480_000)},
		{-214_748, Fixed32FromInner(-2_147_480_000)},
		// Saturation
		{214_749, Fixed32Max},
		{-214_749, Fixed32Min},
		{math.MaxInt64, Fixed32Max},
		{math.MinInt64, Fixed32Min},
	}
	for _, tt := range tests {
		got := Fixed32FromInt(tt.n)
		if got != tt.want {
			t.Errorf("Fixed32FromInt(%v) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFixed32FromIntChecked(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			n    int64
			want Fixed32
		}{
			{0, Fixed32Zero},
			{1, Fixed32One},
			{214_748, Fixed32FromInner(2_147_480_000)},
			{-214_748, Fixed32FromInner(-2_147_480_000)},
		}
		for _, tt := range tests {
			got, err := Fixed32FromIntChecked(tt.n)
			if err != nil {
				t.Errorf("Fixed32FromIntChecked(%v) failed: %v", tt.n, err)
				continue
			}
			if got != tt.want {
				t.Errorf("Fixed32FromIntChecked(%v) = %q, want %q", tt.n, got, tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]int64{
			"overflow 1": 214_749,
			"overflow 2": -214_749,
			"range 1":    math.MaxInt32 + 1,
			"range 2":    math.MinInt64,
		}
		for name, n := range tests {
			_, err := Fixed32FromIntChecked(n)
			if err == nil {
				t.Errorf("%v: Fixed32FromIntChecked(%v) did not fail", name, n)
			}
		}
	})
}

func TestFixed32FromRational(t *testing.T) {
	tests := []struct {
		n    int64
		d    int32
		want Fixed32
	}{
		{0, 1, Fixed32Zero},
		{5, 2, Fixed32FromInner(25_000)},
		{-5, 2, Fixed32FromInner(-25_000)},
		{5, -2, Fixed32FromInner(-25_000)},
		{-5, -2, Fixed32FromInner(25_000)},
		{1, 3, Fixed32FromInner(3_333)},
	}
	for _, tt := range tests {
		got := Fixed32FromRational(tt.n, tt.d)
		if got != tt.want {
			t.Errorf("Fixed32FromRational(%v, %v) = %q, want %q", tt.n, tt.d, got, tt.want)
		}
	}
}

func TestFixed32FromRationalChecked(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := Fixed32FromRationalChecked(5, 2)
		if err != nil {
			t.Errorf("Fixed32FromRationalChecked(5, 2) failed: %v", err)
		} else if got != Fixed32FromInner(25_000) {
			t.Errorf("Fixed32FromRationalChecked(5, 2) = %q, want %q", got, Fixed32FromInner(25_000))
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			n int64
			d int32
		}{
			"zero divisor": {1, 0},
			"overflow":     {214_749, 1},
			"range":        {math.MaxInt64, 1},
		}
		for name, tt := range tests {
			_, err := Fixed32FromRationalChecked(tt.n, tt.d)
			if err == nil {
				t.Errorf("%v: Fixed32FromRationalChecked(%v, %v) did not fail", name, tt.n, tt.d)
			}
		}
	})
}

func TestFixed32FromRatio(t *testing.T) {
	tests := []struct {
		r    Permyriad
		want Fixed32
	}{
		{PermyriadFromParts(0), Fixed32Zero},
		{PermyriadFromParts(5_000), Fixed32FromInner(5_000)},
		{PermyriadFromParts(10_000), Fixed32One},
		{PermyriadFromPercent(25), Fixed32FromInner(2_500)},
	}
	for _, tt := range tests {
		got := Fixed32FromRatio(tt.r)
		if got != tt.want {
			t.Errorf("Fixed32FromRatio(%v) = %q, want %q", tt.r.Parts(), got, tt.want)
		}
	}
}

func TestFixed32_String(t *testing.T) {
	tests := []struct {
		inner int32
		want  string
	}{
		{0, "0.0000"},
		{1, "0.0001"},
		{-1, "-0.0001"},
		{15_000, "1.5000"},
		{-15_000, "-1.5000"},
		{math.MaxInt32, "214748.3647"},
		{math.MinInt32, "-214748.3648"},
	}
	for _, tt := range tests {
		got := Fixed32FromInner(tt.inner).String()
		if got != tt.want {
			t.Errorf("Fixed32FromInner(%v).String() = %q, want %q", tt.inner, got, tt.want)
		}
	}
}

func TestFixed32_CheckedArith(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := Fixed32One.CheckedAdd(Fixed32One)
		if err != nil || got != Fixed32FromInt(2) {
			t.Errorf("%q.CheckedAdd(%q) = %q, %v, want %q, nil", Fixed32One, Fixed32One, got, err, Fixed32FromInt(2))
		}
		got, err = Fixed32FromInt(2).CheckedSub(Fixed32One)
		if err != nil || got != Fixed32One {
			t.Errorf("CheckedSub = %q, %v, want %q, nil", got, err, Fixed32One)
		}
		got, err = Fixed32FromInner(15_000).CheckedMul(Fixed32FromInt(2))
		if err != nil || got != Fixed32FromInt(3) {
			t.Errorf("CheckedMul = %q, %v, want %q, nil", got, err, Fixed32FromInt(3))
		}
		got, err = Fixed32FromInt(3).CheckedDiv(Fixed32FromInt(2))
		if err != nil || got != Fixed32FromInner(15_000) {
			t.Errorf("CheckedDiv = %q, %v, want %q, nil", got, err, Fixed32FromInner(15_000))
		}
		got, err = Fixed32Zero.CheckedDiv(Fixed32Min)
		if err != nil || got != Fixed32Zero {
			t.Errorf("CheckedDiv = %q, %v, want %q, nil", got, err, Fixed32Zero)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := Fixed32Max.CheckedAdd(Fixed32FromInner(1)); err == nil {
			t.Errorf("%q.CheckedAdd(1) did not fail", Fixed32Max)
		}
		if _, err := Fixed32Min.CheckedSub(Fixed32FromInner(1)); err == nil {
			t.Errorf("%q.CheckedSub(1) did not fail", Fixed32Min)
		}
		if _, err := Fixed32Max.CheckedMul(Fixed32FromInt(2)); err == nil {
			t.Errorf("%q.CheckedMul(2) did not fail", Fixed32Max)
		}
		if _, err := Fixed32Min.CheckedMul(Fixed32FromInt(-1)); err == nil {
			t.Errorf("%q.CheckedMul(-1) did not fail", Fixed32Min)
		}
		if _, err := Fixed32One.CheckedDiv(Fixed32Zero); err == nil {
			t.Errorf("%q.CheckedDiv(0) did not fail", Fixed32One)
		}
		if _, err := Fixed32Min.CheckedDiv(Fixed32FromInt(-1)); err == nil {
			t.Errorf("%q.CheckedDiv(-1) did not fail", Fixed32Min)
		}
	})
}

func TestFixed32_SaturatingArith(t *testing.T) {
	tests := []struct {
		got, want Fixed32
	}{
		{Fixed32Max.SaturatingAdd(Fixed32One), Fixed32Max},
		{Fixed32Min.SaturatingSub(Fixed32One), Fixed32Min},
		{Fixed32Max.SaturatingMul(Fixed32FromInt(2)), Fixed32Max},
		{Fixed32Max.SaturatingMul(Fixed32FromInt(-2)), Fixed32Min},
		{Fixed32Min.SaturatingMul(Fixed32FromInt(-1)), Fixed32Max},
		{Fixed32FromInner(15_000).SaturatingMul(Fixed32FromInt(2)), Fixed32FromInt(3)},
		{Fixed32Min.SaturatingAbs(), Fixed32Max},
		{Fixed32FromInt(-3).SaturatingAbs(), Fixed32FromInt(3)},
		{Fixed32Min.SaturatingPow(0), Fixed32One},
		{Fixed32FromInt(2).SaturatingPow(10), Fixed32FromInt(1024)},
		{Fixed32FromInt(-2).SaturatingPow(3), Fixed32FromInt(-8)},
		{Fixed32FromInt(10).SaturatingPow(10), Fixed32Max},
	}
	for i, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("test %v: got %q, want %q", i, tt.got, tt.want)
		}
	}
}

func TestFixed32MulInt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := Fixed32MulInt(Fixed32FromRational(5, 2), int64(10))
		if err != nil || got != 25 {
			t.Errorf("Fixed32MulInt(2.5, 10) = %v, %v, want 25, nil", got, err)
		}
		got, err = Fixed32MulInt(Fixed32FromRational(-5, 2), int64(10))
		if err != nil || got != -25 {
			t.Errorf("Fixed32MulInt(-2.5, 10) = %v, %v, want -25, nil", got, err)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := Fixed32MulInt(Fixed32One, int64(math.MaxInt64)); err == nil {
			t.Errorf("Fixed32MulInt(1, MaxInt64) did not fail")
		}
		if _, err := Fixed32MulInt(Fixed32FromInt(-1), uint32(5)); err == nil {
			t.Errorf("Fixed32MulInt(-1, uint32(5)) did not fail")
		}
		if _, err := Fixed32MulInt(Fixed32FromRational(5, 2), int8(100)); err == nil {
			t.Errorf("Fixed32MulInt(2.5, int8(100)) did not fail")
		}
	})
}

func TestFixed32DivInt(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		got, err := Fixed32DivInt(Fixed32FromInt(100), int32(10))
		if err != nil || got != 10 {
			t.Errorf("Fixed32DivInt(100, 10) = %v, %v, want 10, nil", got, err)
		}
		got, err = Fixed32DivInt(Fixed32FromInt(100), int32(3))
		if err != nil || got != 33 {
			t.Errorf("Fixed32DivInt(100, 3) = %v, %v, want 33, nil", got, err)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := Fixed32DivInt(Fixed32One, int32(0)); err == nil {
			t.Errorf("Fixed32DivInt(1, 0) did not fail")
		}
		if _, err := Fixed32DivInt(Fixed32Min, int32(-1)); err == nil {
			t.Errorf("Fixed32DivInt(min, -1) did not fail")
		}
	})
}

func TestFixed32SaturatingMulInt(t *testing.T) {
	tests := []struct {
		x    Fixed32
		n    int64
		want int64
	}{
		{Fixed32FromRational(5, 2), 10, 25},
		{Fixed32FromRational(-5, 2), 10, -25},
		{Fixed32Max, math.MaxInt64, math.MaxInt64},
		{Fixed32Max, math.MinInt64, math.MinInt64},
	}
	for _, tt := range tests {
		got := Fixed32SaturatingMulInt(tt.x, tt.n)
		if got != tt.want {
			t.Errorf("Fixed32SaturatingMulInt(%q, %v) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}
	if got := Fixed32SaturatingMulInt(Fixed32FromInt(-1), uint32(5)); got != 0 {
		t.Errorf("Fixed32SaturatingMulInt(-1, uint32(5)) = %v, want 0", got)
	}
}

func TestFixed32SaturatingMulAcc(t *testing.T) {
	tests := []struct {
		x    Fixed32
		n    int64
		want int64
	}{
		{Fixed32Zero, 42, 42},
		{Fixed32One, 10, 20},
		{Fixed32FromRational(5, 2), 10, 35},
		{Fixed32FromRational(-1, 2), 100, 50},
		{Fixed32FromInt(-2), 100, -100},
	}
	for _, tt := range tests {
		got := Fixed32SaturatingMulAcc(tt.x, tt.n)
		if got != tt.want {
			t.Errorf("Fixed32SaturatingMulAcc(%q, %v) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}

	// The accumulator may be much wider than the 32-bit inner value.
	if got := Fixed32SaturatingMulAcc(Fixed32One, uint64(math.MaxUint64)); got != math.MaxUint64 {
		t.Errorf("Fixed32SaturatingMulAcc(1, MaxUint64) = %v, want %v", got, uint64(math.MaxUint64))
	}
	if got := Fixed32SaturatingMulAcc(Fixed32FromInt(-2), uint8(100)); got != 0 {
		t.Errorf("Fixed32SaturatingMulAcc(-2, uint8(100)) = %v, want 0", got)
	}
}

func TestFixed32_Codec(t *testing.T) {
	tests := []Fixed32{
		Fixed32Zero,
		Fixed32One,
		Fixed32FromInner(-15_000),
		Fixed32Max,
		Fixed32Min,
	}
	for _, x := range tests {
		data, err := x.MarshalText()
		if err != nil {
			t.Errorf("%q.MarshalText() failed: %v", x, err)
			continue
		}
		var gotText Fixed32
		if err := gotText.UnmarshalText(data); err != nil || gotText != x {
			t.Errorf("UnmarshalText(%q) = %q, %v, want %q, nil", data, gotText, err, x)
		}

		data, err = json.Marshal(x)
		if err != nil {
			t.Errorf("json.Marshal(%q) failed: %v", x, err)
			continue
		}
		var gotJSON Fixed32
		if err := json.Unmarshal(data, &gotJSON); err != nil || gotJSON != x {
			t.Errorf("json.Unmarshal(%s) = %q, %v, want %q, nil", data, gotJSON, err, x)
		}

		data, err = x.MarshalBinary()
		if err != nil || len(data) != 4 {
			t.Errorf("%q.MarshalBinary() = % x, %v, want 4 bytes, nil", x, data, err)
			continue
		}
		var gotBin Fixed32
		if err := gotBin.UnmarshalBinary(data); err != nil || gotBin != x {
			t.Errorf("UnmarshalBinary(% x) = %q, %v, want %q, nil", data, gotBin, err, x)
		}
	}

	var x Fixed32
	if err := x.UnmarshalBinary(make([]byte, 8)); err == nil {
		t.Errorf("UnmarshalBinary(8 bytes) did not fail")
	}
	if _, err := ParseFixed32("2147483648"); err == nil {
		t.Errorf("ParseFixed32(\"2147483648\") did not fail")
	}
}
