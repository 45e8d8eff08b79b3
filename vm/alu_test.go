package vm

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestALUAddInt(t *testing.T) {
	a := NewALU()
	a.Push(3)
	a.Push(4)
	a.Add()

	if a.Hi != 7 {
		t.Errorf("Hi = %d, want 7\n%s", a.Hi, spew.Sdump(a))
	}
	if a.Lo != 0 {
		t.Errorf("Lo = %d, want 0", a.Lo)
	}
}

func TestALUAddIntWraps(t *testing.T) {
	a := NewALU()
	a.Push(uint32(math.MaxInt32))
	a.Push(1)
	a.Add()

	want := uint32(int32(math.MinInt32))
	if a.Hi != want {
		t.Errorf("Hi = %d, want %d (wrapping add)", a.Hi, want)
	}
}

func TestALUMultiplyInt(t *testing.T) {
	a := NewALU()
	a.Push(uint32(int32(-7)))
	a.Push(uint32(int32(6)))
	a.Multiply()

	product := int64(-7) * int64(6)
	wantHi := uint32(uint64(product) >> 32)
	wantLo := uint32(uint64(product))
	if a.Hi != wantHi || a.Lo != wantLo {
		t.Errorf("Hi,Lo = %d,%d want %d,%d", a.Hi, a.Lo, wantHi, wantLo)
	}
}

func TestALUDivideInt(t *testing.T) {
	a := NewALU()
	a.Push(6)  // pushed first, becomes b (the divisor)
	a.Push(20) // pushed second, becomes a (the numerator)
	if err := a.Divide(); err != nil {
		t.Fatalf("Divide: %v", err)
	}
	// lo = a/b = 20/6 = 3, hi = a%b = 20%6 = 2
	if a.Lo != 3 {
		t.Errorf("Lo = %d, want 3", a.Lo)
	}
	if a.Hi != 2 {
		t.Errorf("Hi = %d, want 2", a.Hi)
	}
}

func TestALUDivideByZero(t *testing.T) {
	a := NewALU()
	a.Push(0) // pushed first, becomes b (the divisor) — zero
	a.Push(6) // pushed second, becomes a (the numerator)
	if err := a.Divide(); err == nil {
		t.Fatal("Divide by zero: want error, got nil")
	}
}

func TestALUBitwiseLeavesResultInAccumulator(t *testing.T) {
	a := NewALU()
	a.Push(0b1010)
	a.Push(0b0110)
	a.BitwiseOr()
	a.Push(0) // materialize a via a subsequent arithmetic-style push+op
	a.Add()
	// After BitwiseOr, aInt holds 0b1110. The subsequent Push(0); Add()
	// exercises that the bitwise result really lived in the accumulator
	// (b becomes the post-OR value, a becomes 0, sum == post-OR value).
	if a.Hi != 0b1110 {
		t.Errorf("Hi after OR+Add readout = %b, want %b", a.Hi, 0b1110)
	}
}

func TestALUShiftLeft(t *testing.T) {
	a := NewALU()
	a.Push(2) // b: shift amount
	a.Push(1) // a: value
	a.ShiftLeft()
	// aInt = aInt << bInt = 1 << 2 = 4
	if a.aInt != 4 {
		t.Errorf("aInt = %d, want 4", a.aInt)
	}
}

func TestALUCompareEQ(t *testing.T) {
	a := NewALU()
	a.Push(5)
	a.Push(5)
	a.Compare(CompareEQ)
	if !a.CompareFlag {
		t.Error("CompareFlag = false, want true for 5 == 5")
	}
}

func TestALUCompareFloatNaN(t *testing.T) {
	a := NewALU()
	a.SetMode(ModeFloat, false)
	a.Push(math.Float32bits(float32(math.NaN())))
	a.Push(math.Float32bits(1.0))

	for _, mode := range []CompareMode{CompareEQ, CompareGT, CompareGE, CompareLT, CompareLE} {
		a.Compare(mode)
		if a.CompareFlag {
			t.Errorf("Compare(%v) with NaN operand = true, want false", mode)
		}
	}

	a.Compare(CompareNE)
	if !a.CompareFlag {
		t.Error("Compare(NE) with NaN operand = false, want true")
	}
}

func TestALUModeSwitchBitPreservingRoundTrip(t *testing.T) {
	a := NewALU()
	a.Push(math.Float32bits(3.5))
	a.SetMode(ModeFloat, true) // int -> float, reinterpret bits: aFloat == 3.5
	a.SetMode(ModeInt, true)   // reinterpret bits: aInt == bits of 3.5
	if a.aInt != int32(math.Float32bits(3.5)) {
		t.Errorf("aInt after bit-reinterpret = %d, want bits of 3.5", a.aInt)
	}
	a.SetMode(ModeFloat, true) // reinterpret back
	if a.aFloat != 3.5 {
		t.Errorf("aFloat after round-trip = %v, want 3.5", a.aFloat)
	}
}

func TestALUModeSwitchNumericConversion(t *testing.T) {
	a := NewALU()
	a.Push(7)
	a.SetMode(ModeFloat, false)
	if a.aFloat != 7.0 {
		t.Errorf("aFloat after numeric conversion = %v, want 7.0", a.aFloat)
	}
}
