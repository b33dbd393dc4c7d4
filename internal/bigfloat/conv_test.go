package bigfloat

import (
	"math"
	"math/big"
	"strconv"
	"testing"
)

// TestSetStringFloat64Oracle parses decimal strings at precision 53 and
// compares against strconv.ParseFloat, which is correctly rounded.
func TestSetStringFloat64Oracle(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"0", "1", "-1", "0.1", "-0.25", "1.5", "3.141592653589793",
		"1e10", "-2.5e-7", ".5e2", "123456789.123456789",
		"2.2250738585072014e-308", // smallest normal float64
		"1e-310",                  // subnormal in float64
		"1.7976931348623157e308",  // largest finite float64
		"9007199254740993",        // 2^53+1, not exact at 53 bits
	}
	for _, in := range inputs {
		in := in
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			want, err := strconv.ParseFloat(in, 64)
			if err != nil {
				t.Fatalf("oracle rejected %q: %v", in, err)
			}
			z, ok := New(53).SetString(in)
			if !ok {
				t.Fatalf("SetString(%q) failed", in)
			}
			got, _ := z.Float64()
			if math.Float64bits(got) != math.Float64bits(want) {
				t.Errorf("SetString(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func TestSetStringSpecials(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"inf", "Inf", "+Inf", "INFINITY"} {
		z, ok := New(53).SetString(in)
		if !ok || !z.IsInf() || z.Signbit() {
			t.Errorf("SetString(%q) = %v, %v; want +Inf", in, z, ok)
		}
	}
	if z, ok := New(53).SetString("-inf"); !ok || !z.IsInf() || !z.Signbit() {
		t.Errorf("SetString(-inf) = %v, %v; want -Inf", z, ok)
	}
	if z, ok := New(53).SetString("NaN"); !ok || !z.IsNaN() {
		t.Errorf("SetString(NaN) = %v, %v; want NaN", z, ok)
	}
	if z, ok := New(53).SetString("-0"); !ok || !z.IsZero() || !z.Signbit() {
		t.Errorf("SetString(-0) = %v, %v; want -0", z, ok)
	}
}

func TestSetStringRejects(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "abc", "--1", "1.2.3", "1e", "0x", "1e99999999999", "+", "."} {
		if _, ok := New(53).SetString(in); ok {
			t.Errorf("SetString(%q) accepted invalid input", in)
		}
	}
}

func TestSetStringHex(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want float64
	}{
		{"0x1p0", 1},
		{"0x1.8p-2", 0.375},
		{"0x10p0", 16},
		{"-0x1.fp+3", -15.5},
		{"0x.8p+1", 1},
		{"0x0p0", 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			z, ok := New(53).SetString(tc.in)
			if !ok {
				t.Fatalf("SetString(%q) failed", tc.in)
			}
			got, acc := z.Float64()
			if got != tc.want {
				t.Errorf("SetString(%q) = %v, want %v", tc.in, got, tc.want)
			}
			if acc != Exact {
				t.Errorf("SetString(%q): conversion accuracy %v, want Exact", tc.in, acc)
			}
		})
	}
}

// TestSetStringExtremeExponents checks the decimal-exponent short circuit:
// inputs far outside the exponent range must flush or saturate without
// allocating astronomically large integers.
func TestSetStringExtremeExponents(t *testing.T) {
	if z, ok := New(53).SetString("1e999999999"); !ok || !z.IsInf() {
		t.Errorf("1e999999999 = %v, want +Inf", z)
	}
	if z, ok := New(53).SetString("-1e999999999"); !ok || !z.IsInf() || !z.Signbit() {
		t.Errorf("-1e999999999 = %v, want -Inf", z)
	}
	if z, ok := New(53).SetString("1e-999999999"); !ok || !z.IsZero() {
		t.Errorf("1e-999999999 = %v, want +0", z)
	}
}

func TestText(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in     string
		format byte
		prec   int
		want   string
	}{
		{"1.5", 'e', 2, "1.50e+0"},
		{"1234.5", 'e', 2, "1.23e+3"},
		{"-1234.5", 'e', 0, "-1e+3"},
		{"0", 'e', 2, "0.00e+0"},
		{"0.25", 'f', 4, "0.2500"},
		{"-12.375", 'f', 2, "-12.38"},
		{"0", 'f', 2, "0.00"},
		{"1e10", 'f', 0, "10000000000"},
		{"100", 'g', 10, "100"},
		{"0.1", 'g', 10, "0.1"},
		{"1.5e-5", 'g', 10, "1.5e-5"},
		{"1234500000000", 'g', 5, "1.2345e+12"},
		{"-0.5", 'g', 10, "-0.5"},
		{"0", 'g', 10, "0"},
		{"1", 'p', 0, "0x.8p+1"},
		{"-2", 'p', 0, "-0x.8p+2"},
		{"0", 'p', 0, "0x.0p+0"},
		{"inf", 'g', 10, "Inf"},
		{"-inf", 'e', 5, "-Inf"},
		{"nan", 'f', 3, "NaN"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.in+"_"+string(tc.format), func(t *testing.T) {
			t.Parallel()
			z, ok := New(53).SetString(tc.in)
			if !ok {
				t.Fatalf("SetString(%q) failed", tc.in)
			}
			if got := z.Text(tc.format, tc.prec); got != tc.want {
				t.Errorf("Text(%q, %c, %d) = %q, want %q", tc.in, tc.format, tc.prec, got, tc.want)
			}
		})
	}
}

// TestTextRoundTrip formats values with round-trip precision and parses
// them back at the same bit precision; the result must be identical.
func TestTextRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{"0.1", "1", "-3.75", "2.718281828459045", "1e-20", "12345.6789"}
	for _, prec := range []uint{24, 53, 100, 200} {
		for _, in := range inputs {
			x, ok := New(prec).SetString(in)
			if !ok {
				t.Fatalf("SetString(%q) failed", in)
			}
			s := x.Text('g', -1)
			y, ok := New(prec).SetString(s)
			if !ok {
				t.Fatalf("reparse of %q failed", s)
			}
			if x.Cmp(y) != 0 {
				t.Errorf("prec %d: %q -> %q -> %v does not round-trip", prec, in, s, y)
			}
		}
	}
}

// TestHexRoundTrip checks that the 'p' format is exact at any precision.
func TestHexRoundTrip(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"0.1", "-3.75", "1e100", "2.718281828459045"} {
		x, _ := New(200).SetString(in)
		s := x.Text('p', 0)
		y, ok := New(200).SetString(s)
		if !ok {
			t.Fatalf("reparse of %q failed", s)
		}
		if x.Cmp(y) != 0 {
			t.Errorf("%q -> %q does not round-trip exactly", in, s)
		}
		if y.Acc() != Exact {
			t.Errorf("hex reparse of %q rounded", s)
		}
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	t.Parallel()
	x, _ := New(100).SetString("0.12345678901234567890123456789")
	text, err := x.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	y := New(100)
	if err := y.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%q): %v", text, err)
	}
	if x.Cmp(y) != 0 {
		t.Errorf("marshal round trip: got %v, want %v", y, x)
	}

	t.Run("ZeroValueInfersPrecision", func(t *testing.T) {
		var f Float
		if err := f.UnmarshalText([]byte("0.25")); err != nil {
			t.Fatal(err)
		}
		if got, _ := f.Float64(); got != 0.25 {
			t.Errorf("got %v, want 0.25", got)
		}
		if f.Prec() < DefaultPrec {
			t.Errorf("inferred precision %d below default", f.Prec())
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		var f Float
		if err := f.UnmarshalText([]byte("bogus")); err == nil {
			t.Error("UnmarshalText accepted invalid input")
		}
	})
}

func TestFloat64Directions(t *testing.T) {
	t.Parallel()
	t.Run("Overflow", func(t *testing.T) {
		x, _ := New(53).SetString("1e400")
		got, acc := x.Float64()
		if !math.IsInf(got, 1) || acc != Above {
			t.Errorf("1e400 -> %v (%v), want +Inf Above", got, acc)
		}
		x.Neg(x)
		got, acc = x.Float64()
		if !math.IsInf(got, -1) || acc != Below {
			t.Errorf("-1e400 -> %v (%v), want -Inf Below", got, acc)
		}
	})
	t.Run("UnderflowToZero", func(t *testing.T) {
		x, _ := New(53).SetString("1e-400")
		got, acc := x.Float64()
		if got != 0 || math.Signbit(got) || acc != Below {
			t.Errorf("1e-400 -> %v (%v), want +0 Below", got, acc)
		}
	})
	t.Run("NaN", func(t *testing.T) {
		got, _ := New(53).SetNaN().Float64()
		if !math.IsNaN(got) {
			t.Errorf("NaN -> %v", got)
		}
	})
}

func TestInt64(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int64
		acc  Accuracy
	}{
		{"0", 0, Exact},
		{"3", 3, Exact},
		{"3.7", 3, Below},
		{"-3.7", -3, Above},
		{"0.9", 0, Below},
		{"-0.9", 0, Above},
		{"4611686018427387904", 1 << 62, Exact},
		{"1e30", math.MaxInt64, Below},
		{"-1e30", math.MinInt64, Above},
		{"inf", math.MaxInt64, Below},
		{"-inf", math.MinInt64, Above},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			x, ok := New(64).SetString(tc.in)
			if !ok {
				t.Fatalf("SetString(%q) failed", tc.in)
			}
			got, acc := x.Int64()
			if got != tc.want || acc != tc.acc {
				t.Errorf("Int64(%q) = %d (%v), want %d (%v)", tc.in, got, acc, tc.want, tc.acc)
			}
		})
	}
}

func TestUint64(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want uint64
		acc  Accuracy
	}{
		{"0", 0, Exact},
		{"7.5", 7, Below},
		{"-1", 0, Above},
		{"9223372036854775808", 1 << 63, Exact}, // 2^63
		{"1e30", math.MaxUint64, Below},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			x, ok := New(64).SetString(tc.in)
			if !ok {
				t.Fatalf("SetString(%q) failed", tc.in)
			}
			got, acc := x.Uint64()
			if got != tc.want || acc != tc.acc {
				t.Errorf("Uint64(%q) = %d (%v), want %d (%v)", tc.in, got, acc, tc.want, tc.acc)
			}
		})
	}
}

func TestInt(t *testing.T) {
	t.Parallel()
	x, _ := New(200).SetString("-123456789012345678901234567890.5")
	want, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
	got, acc := x.Int(nil)
	if got.Cmp(want) != 0 || acc != Above {
		t.Errorf("Int = %v (%v), want %v (Above)", got, acc, want)
	}

	if got, _ := New(53).SetInf(true).Int(nil); got != nil {
		t.Errorf("Int of -Inf = %v, want nil", got)
	}
}

func TestSetFloat64RoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range []float64{0, math.Copysign(0, -1), 1, -1.5, 0.1, 1e300, -1e-300, math.Inf(1), math.Inf(-1)} {
		x := New(53).SetFloat64(v)
		got, acc := x.Float64()
		if math.Float64bits(got) != math.Float64bits(v) {
			t.Errorf("round trip of %v gave %v", v, got)
		}
		if acc != Exact {
			t.Errorf("round trip of %v inexact (%v)", v, acc)
		}
	}
}
