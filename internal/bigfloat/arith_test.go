package bigfloat

import (
	"fmt"
	"math"
	"math/big"
	"testing"
)

// fromFloat64 builds a 53-bit Float from a float64, the precision at which
// IEEE double arithmetic is an exact oracle for this package.
func fromFloat64(t *testing.T, v float64) *Float {
	t.Helper()
	return New(53).SetFloat64(v)
}

// checkFloat64 compares x against an expected float64 bit pattern, which
// distinguishes -0 from +0 and detects off-by-one-ulp rounding errors.
func checkFloat64(t *testing.T, x *Float, want float64) {
	t.Helper()
	got, _ := x.Float64()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("got %v, want NaN", got)
		}
		return
	}
	if math.Float64bits(got) != math.Float64bits(want) {
		t.Errorf("got %v (%#x), want %v (%#x)",
			got, math.Float64bits(got), want, math.Float64bits(want))
	}
}

// knownArithResults is a test oracle: at precision 53 with rounding to
// nearest-even, every operation must agree bit-for-bit with float64
// arithmetic, which is correctly rounded by IEEE 754.
var knownArithResults = []struct {
	a, b float64
}{
	{1, 2},
	{0.1, 0.2},
	{1.5, 2.25},
	{3.141592653589793, -2.718281828459045},
	{1e30, -1e30},
	{1e16, 1},
	{-7.25, 0.0078125},
	{123456.789, 987654.321},
	{5e-12, 3e7},
	{2.2250738585072014e-100, 1.7976931348623157e100},
}

func TestAddSubFloat64Oracle(t *testing.T) {
	t.Parallel()
	for _, tc := range knownArithResults {
		tc := tc
		t.Run(fmt.Sprintf("%g_%g", tc.a, tc.b), func(t *testing.T) {
			t.Parallel()
			x := fromFloat64(t, tc.a)
			y := fromFloat64(t, tc.b)
			checkFloat64(t, New(53).Add(x, y), tc.a+tc.b)
			checkFloat64(t, New(53).Sub(x, y), tc.a-tc.b)
			checkFloat64(t, New(53).Add(y, x), tc.b+tc.a)
		})
	}
}

func TestMulQuoFloat64Oracle(t *testing.T) {
	t.Parallel()
	for _, tc := range knownArithResults {
		tc := tc
		t.Run(fmt.Sprintf("%g_%g", tc.a, tc.b), func(t *testing.T) {
			t.Parallel()
			x := fromFloat64(t, tc.a)
			y := fromFloat64(t, tc.b)
			checkFloat64(t, New(53).Mul(x, y), tc.a*tc.b)
			if tc.b != 0 {
				checkFloat64(t, New(53).Quo(x, y), tc.a/tc.b)
			}
			if tc.a != 0 {
				checkFloat64(t, New(53).Quo(y, x), tc.b/tc.a)
			}
		})
	}
}

func TestSqrtFloat64Oracle(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{2, 3, 10, 0.25, 4, 1e10, 123456.789, 5e-7} {
		v := v
		t.Run(fmt.Sprintf("%g", v), func(t *testing.T) {
			t.Parallel()
			checkFloat64(t, New(53).Sqrt(fromFloat64(t, v)), math.Sqrt(v))
		})
	}
}

// TestSqrtExact verifies that square roots of perfect squares are reported
// as exact.
func TestSqrtExact(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{1, 4, 9, 16, 144, 1 << 20} {
		z := New(53).Sqrt(New(53).SetInt64(v))
		if z.Acc() != Exact {
			t.Errorf("Sqrt(%d): accuracy %v, want Exact", v, z.Acc())
		}
	}
	if z := New(53).Sqrt(New(53).SetInt64(2)); z.Acc() == Exact {
		t.Error("Sqrt(2) reported as exact")
	}
}

// TestSpecialOperands validates the IEEE 754 invalid-operation ladder: the
// operations below must produce NaN (or the documented signed result)
// rather than panicking.
func TestSpecialOperands(t *testing.T) {
	inf := New(53).SetInf(false)
	ninf := New(53).SetInf(true)
	zero := New(53).SetZero(false)
	nzero := New(53).SetZero(true)
	one := New(53).SetInt64(1)
	none := New(53).SetInt64(-1)

	cases := []struct {
		name string
		got  *Float
		want func(z *Float) bool
		desc string
	}{
		{"Inf+Inf", New(53).Add(inf, inf), (*Float).IsInf, "+Inf"},
		{"Inf-Inf", New(53).Sub(inf, inf), (*Float).IsNaN, "NaN"},
		{"Inf+NegInf", New(53).Add(inf, ninf), (*Float).IsNaN, "NaN"},
		{"ZeroTimesInf", New(53).Mul(zero, inf), (*Float).IsNaN, "NaN"},
		{"InfTimesZero", New(53).Mul(ninf, nzero), (*Float).IsNaN, "NaN"},
		{"ZeroOverZero", New(53).Quo(zero, nzero), (*Float).IsNaN, "NaN"},
		{"InfOverInf", New(53).Quo(inf, ninf), (*Float).IsNaN, "NaN"},
		{"FiniteOverInf", New(53).Quo(one, inf), (*Float).IsZero, "±0"},
		{"SqrtNeg", New(53).Sqrt(none), (*Float).IsNaN, "NaN"},
		{"FMAInfZero", New(53).FMA(inf, zero, one), (*Float).IsNaN, "NaN"},
		{"FMAInfMinusInf", New(53).FMA(inf, one, ninf), (*Float).IsNaN, "NaN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.want(tc.got) {
				t.Errorf("got %v, want %s", tc.got, tc.desc)
			}
		})
	}

	t.Run("OneOverZero", func(t *testing.T) {
		z := New(53).Quo(one, zero)
		if !z.IsInf() || z.Signbit() {
			t.Errorf("1/+0 = %v, want +Inf", z)
		}
		z = New(53).Quo(one, nzero)
		if !z.IsInf() || !z.Signbit() {
			t.Errorf("1/-0 = %v, want -Inf", z)
		}
	})

	t.Run("SqrtNegZero", func(t *testing.T) {
		z := New(53).Sqrt(nzero)
		if !z.IsZero() || !z.Signbit() {
			t.Errorf("Sqrt(-0) = %v, want -0", z)
		}
	})
}

// TestSignedZeroSums checks the sign rules for sums of zeros: +0 except
// when rounding toward negative infinity.
func TestSignedZeroSums(t *testing.T) {
	zero := New(53).SetZero(false)
	nzero := New(53).SetZero(true)
	x := New(53).SetInt64(7)

	z := New(53).Add(zero, nzero)
	if !z.IsZero() || z.Signbit() {
		t.Errorf("(+0)+(-0) = %v, want +0", z)
	}
	z = New(53).SetMode(ToNegativeInf).Add(zero, nzero)
	if !z.IsZero() || !z.Signbit() {
		t.Errorf("(+0)+(-0) rounding down = %v, want -0", z)
	}

	z = New(53).Sub(x, x)
	if !z.IsZero() || z.Signbit() {
		t.Errorf("x-x = %v, want +0", z)
	}
	z = New(53).SetMode(ToNegativeInf).Sub(x, x)
	if !z.IsZero() || !z.Signbit() {
		t.Errorf("x-x rounding down = %v, want -0", z)
	}
}

// TestRoundingModes rounds 1 + 2^-64 (one bit beyond 53-bit precision, far
// below the round bit) and its negation under every mode.
func TestRoundingModes(t *testing.T) {
	t.Parallel()
	up := math.Nextafter(1, 2) // 1 + 2^-52
	cases := []struct {
		mode     RoundingMode
		pos, neg float64
	}{
		{ToNearestEven, 1, -1},
		{ToNearestAway, 1, -1},
		{ToZero, 1, -1},
		{AwayFromZero, up, -up},
		{ToNegativeInf, 1, -up},
		{ToPositiveInf, up, -1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.mode.String(), func(t *testing.T) {
			t.Parallel()
			z := New(53).SetMode(tc.mode)
			if _, ok := z.SetString("0x1.0000000000000001p0"); !ok {
				t.Fatal("SetString failed")
			}
			checkFloat64(t, z, tc.pos)
			if z.Acc() == Exact {
				t.Error("rounded result reported as exact")
			}

			z = New(53).SetMode(tc.mode)
			if _, ok := z.SetString("-0x1.0000000000000001p0"); !ok {
				t.Fatal("SetString failed")
			}
			checkFloat64(t, z, tc.neg)
		})
	}
}

// TestDistantOperands adds and subtracts operands whose exponents are
// hundreds of bits apart, which exercises the bounded sticky path rather
// than a full-width alignment.
func TestDistantOperands(t *testing.T) {
	t.Parallel()
	one := New(53).SetInt64(1)
	tiny := New(53).SetMantExp(New(53).SetInt64(1), -200) // 2^-200

	t.Run("AddNearest", func(t *testing.T) {
		z := New(53).Add(one, tiny)
		checkFloat64(t, z, 1)
		if z.Acc() != Below {
			t.Errorf("accuracy %v, want Below", z.Acc())
		}
	})
	t.Run("AddCeil", func(t *testing.T) {
		z := New(53).SetMode(ToPositiveInf).Add(one, tiny)
		checkFloat64(t, z, math.Nextafter(1, 2))
		if z.Acc() != Above {
			t.Errorf("accuracy %v, want Above", z.Acc())
		}
	})
	t.Run("SubNearest", func(t *testing.T) {
		z := New(53).Sub(one, tiny)
		checkFloat64(t, z, 1)
		if z.Acc() != Above {
			t.Errorf("accuracy %v, want Above", z.Acc())
		}
	})
	t.Run("SubFloor", func(t *testing.T) {
		z := New(53).SetMode(ToNegativeInf).Sub(one, tiny)
		checkFloat64(t, z, math.Nextafter(1, 0))
	})
	t.Run("SubTrunc", func(t *testing.T) {
		z := New(53).SetMode(ToZero).Sub(one, tiny)
		checkFloat64(t, z, math.Nextafter(1, 0))
	})
}

// TestFMASingleRounding uses operands whose product cancels almost exactly
// against the addend: a separately rounded multiply loses the residue that
// a fused multiply-add must preserve.
func TestFMASingleRounding(t *testing.T) {
	t.Parallel()
	a := math.Nextafter(1, 2) // 1 + 2^-52
	b := math.Nextafter(1, 0) // 1 - 2^-53
	c := -1.0

	x := fromFloat64(t, a)
	y := fromFloat64(t, b)
	u := fromFloat64(t, c)

	want := math.FMA(a, b, c)
	if want == a*b+c {
		t.Fatal("test operands do not exercise fused rounding")
	}
	checkFloat64(t, New(53).FMA(x, y, u), want)

	// The unfused sequence must reproduce the double-rounded value.
	p := New(53).Mul(x, y)
	checkFloat64(t, New(53).Add(p, u), a*b+c)
}

// TestResultAliasing verifies that the destination may alias either source
// operand.
func TestResultAliasing(t *testing.T) {
	t.Parallel()
	x := fromFloat64(t, 1.25)
	y := fromFloat64(t, 3.5)

	z := New(53).Set(x)
	z.Add(z, y)
	checkFloat64(t, z, 1.25+3.5)

	z = New(53).Set(x)
	z.Mul(z, z)
	checkFloat64(t, z, 1.25*1.25)

	z = New(53).Set(y)
	z.Quo(x, z)
	checkFloat64(t, z, 1.25/3.5)

	z = New(53).Set(y)
	z.Sqrt(z)
	checkFloat64(t, z, math.Sqrt(3.5))
}

// TestMixedPrecision checks that the result precision, not the operand
// precision, drives rounding.
func TestMixedPrecision(t *testing.T) {
	t.Parallel()
	// 2^60+1 is exact at 64 bits, not at 53.
	x := New(64).SetInt64(1<<60 + 1)
	y := New(64).SetInt64(1 << 60)

	z := New(64).Sub(x, y)
	if z.Acc() != Exact || z.Sign() != 1 {
		t.Fatalf("64-bit subtraction lost the low bit: %v (acc %v)", z, z.Acc())
	}
	one := New(53).SetInt64(1)
	if z.Cmp(one) != 0 {
		t.Errorf("(2^60+1) - 2^60 = %v, want 1", z)
	}

	// Rounded destination: the low bit is below the 53-bit horizon.
	w := New(53).Set(x)
	if w.Acc() != Below {
		t.Errorf("rounding 2^60+1 to 53 bits: accuracy %v, want Below", w.Acc())
	}
}

// TestNarrowDestinationWideOperand rounds sums into a destination narrower
// than the wider operand while the smaller operand still overlaps the wider
// operand's own trailing bits. Such an operand sits far below the result's
// rounding position yet decides which side of the ulp midpoint the exact
// value falls on, so it must be added exactly, not folded into a sticky bit.
func TestNarrowDestinationWideOperand(t *testing.T) {
	t.Parallel()

	setBits := func(bits ...int) *big.Int {
		m := new(big.Int)
		for _, b := range bits {
			m.SetBit(m, b, 1)
		}
		return m
	}

	t.Run("SubStaysBelowMidpoint", func(t *testing.T) {
		t.Parallel()
		// x = 2^199 + 2^146 + 2^10 at 200 bits, y = 2^20. The exact
		// difference lies just below 2^199 + 2^146, the midpoint of the
		// 53-bit ulp at 2^199, so the result must round down to 2^199.
		x := New(200).SetInt(setBits(199, 146, 10))
		y := New(64).SetInt64(1 << 20)

		z := New(53).Sub(x, y)

		want := New(53).SetInt(setBits(199))
		if z.Cmp(want) != 0 {
			t.Errorf("difference = %v, want 2^199", z)
		}
		if z.Acc() != Below {
			t.Errorf("accuracy %v, want Below", z.Acc())
		}
	})

	t.Run("AddCarriesPastMidpoint", func(t *testing.T) {
		t.Parallel()
		// x = 2^199 + 2^146 - 2^20 at 200 bits, y = 2^20 + 2^10. The
		// low terms cancel to leave 2^199 + 2^146 + 2^10, just above
		// the midpoint, so the sum must round up to 2^199 + 2^147.
		xm := setBits(199, 146)
		xm.Sub(xm, big.NewInt(1<<20))
		x := New(200).SetInt(xm)
		y := New(64).SetInt64(1<<20 + 1<<10)

		z := New(53).Add(x, y)

		want := New(53).SetInt(setBits(199, 147))
		if z.Cmp(want) != 0 {
			t.Errorf("sum = %v, want 2^199 + 2^147", z)
		}
		if z.Acc() != Above {
			t.Errorf("accuracy %v, want Above", z.Acc())
		}
	})
}

func TestCmp(t *testing.T) {
	t.Parallel()
	vals := []float64{math.Inf(-1), -2.5, -1, -0.5, 0, 0.5, 1, 2.5, math.Inf(1)}
	for i, a := range vals {
		for j, b := range vals {
			x := New(53).SetFloat64(a)
			y := New(53).SetFloat64(b)
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = +1
			}
			if got := x.Cmp(y); got != want {
				t.Errorf("Cmp(%g, %g) = %d, want %d", a, b, got, want)
			}
		}
	}

	t.Run("SignedZero", func(t *testing.T) {
		pz := New(53).SetZero(false)
		nz := New(53).SetZero(true)
		if pz.Cmp(nz) != 0 {
			t.Error("+0 and -0 must compare equal")
		}
	})

	t.Run("MixedPrecision", func(t *testing.T) {
		x := New(200).SetInt64(10)
		y := New(24).SetInt64(10)
		if x.Cmp(y) != 0 {
			t.Error("10 at 200 bits != 10 at 24 bits")
		}
		y.SetInt64(11)
		if x.Cmp(y) != -1 {
			t.Error("10 < 11 not detected across precisions")
		}
	})
}

func TestCmpAbs(t *testing.T) {
	t.Parallel()
	x := New(53).SetFloat64(-3)
	y := New(53).SetFloat64(2)
	if got := x.CmpAbs(y); got != 1 {
		t.Errorf("CmpAbs(-3, 2) = %d, want 1", got)
	}
	if got := y.CmpAbs(x); got != -1 {
		t.Errorf("CmpAbs(2, -3) = %d, want -1", got)
	}
	n := New(53).SetFloat64(-2)
	if got := y.CmpAbs(n); got != 0 {
		t.Errorf("CmpAbs(2, -2) = %d, want 0", got)
	}
}
