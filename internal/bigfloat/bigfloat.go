// Package bigfloat implements arbitrary-precision binary floating-point
// arithmetic with correct rounding.
//
// A Float holds a sign, a 32-bit exponent, a precision (in bits) and a
// multi-word significand stored in a math/big.Int. Finite nonzero values are
// normalized so that the significand has exactly prec bits; the value of x is
//
//	(-1)^sign × mant × 2^(exp−prec)
//
// which places |x| in the interval [2^(exp−1), 2^exp).
//
// Unlike math/big.Float, the package follows MPFR semantics for exceptional
// operands: invalid operations (0×Inf, Inf−Inf, 0/0, Inf/Inf, Sqrt of a
// negative number) yield a NaN and raise the process-wide NaN flag instead of
// panicking. Every operation rounds to the destination precision under the
// destination rounding mode, records the rounding direction in an Accuracy
// value, and raises the sticky Inexact/Underflow/Overflow flags as needed.
package bigfloat

import (
	"fmt"
	"math/big"
)

// form classifies the value stored in a Float.
type form byte

const (
	zero form = iota
	finite
	inf
	nan
)

// DefaultPrec is the precision used by operations whose destination has not
// been given an explicit precision yet. 53 bits matches float64, which keeps
// zero-value Floats unsurprising.
const DefaultPrec = 53

// MaxPrec is the largest supported precision in bits.
const MaxPrec = 1 << 30

// Float represents a multi-precision binary floating-point number.
//
// The zero value for a Float corresponds to +0 with precision 0; the
// precision is set on first use (by a Set* or arithmetic call) following the
// math/big.Float convention.
//
// Operations always take pointer arguments (*Float) and each unique Float
// value requires its own unique *Float pointer.
type Float struct {
	mant big.Int
	exp  int32
	prec uint32
	mode RoundingMode
	acc  Accuracy
	form form
	neg  bool
}

// New returns a new zero-valued Float with the given precision, rounding to
// nearest-even.
func New(prec uint) *Float {
	return new(Float).SetPrec(prec)
}

// Prec returns the significand precision of x in bits.
func (x *Float) Prec() uint {
	return uint(x.prec)
}

// MinPrec returns the minimum precision required to represent x exactly,
// i.e. the smallest prec before x.SetPrec(prec) would start rounding x.
// The result is 0 for zero, infinite and NaN values.
func (x *Float) MinPrec() uint {
	if x.form != finite {
		return 0
	}
	return uint(x.prec) - x.mant.TrailingZeroBits()
}

// Mode returns the rounding mode of x.
func (x *Float) Mode() RoundingMode {
	return x.mode
}

// Acc returns the accuracy of x produced by the most recent operation that
// set x, i.e. whether that operation rounded down, up, or not at all.
func (x *Float) Acc() Accuracy {
	return x.acc
}

// Sign returns -1 if x < 0, 0 if x is ±0 or NaN, and +1 if x > 0.
func (x *Float) Sign() int {
	if x.form == zero || x.form == nan {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

// Signbit reports whether x is negative or negative zero. The sign bit of a
// NaN is unspecified but preserved by Set and Neg.
func (x *Float) Signbit() bool {
	return x.neg
}

// IsInf reports whether x is +Inf or -Inf.
func (x *Float) IsInf() bool {
	return x.form == inf
}

// IsNaN reports whether x is a NaN.
func (x *Float) IsNaN() bool {
	return x.form == nan
}

// IsZero reports whether x is +0 or -0.
func (x *Float) IsZero() bool {
	return x.form == zero
}

// IsInt reports whether x is an integer. ±Inf and NaN are not integers.
func (x *Float) IsInt() bool {
	switch x.form {
	case zero:
		return true
	case finite:
		// All fractional bits must be zero: the significand's low
		// prec−exp bits (if any) are the fraction.
		if x.exp >= int32(x.prec) {
			return true
		}
		if x.exp <= 0 {
			return false
		}
		return x.mant.TrailingZeroBits() >= uint(int32(x.prec)-x.exp)
	}
	return false
}

// SetPrec sets z's precision to prec and rounds z (in place) if necessary.
// A precision of 0 resets z to an unset state: the next operation that sets
// z will also set its precision. SetPrec panics if prec exceeds MaxPrec.
func (z *Float) SetPrec(prec uint) *Float {
	z.acc = Exact
	if prec == 0 {
		z.prec = 0
		if z.form == finite {
			z.form = zero
			z.neg = false
			z.mant.SetInt64(0)
		}
		return z
	}
	if prec > MaxPrec {
		panic(fmt.Sprintf("bigfloat: precision %d exceeds MaxPrec", prec))
	}
	old := z.prec
	z.prec = uint32(prec)
	if z.form == finite && uint32(prec) < old {
		z.setFromMantExp(&z.mant, int64(z.exp)-int64(old), false, z.neg)
	} else if z.form == finite && uint32(prec) > old {
		// Widen in place: pad the significand with zero bits.
		z.mant.Lsh(&z.mant, uint(uint32(prec)-old))
	}
	return z
}

// SetMode sets z's rounding mode to mode and returns an exact z. The value
// of z is unchanged; z.SetMode(z.Mode()) is a cheap way to reset z's
// accuracy to Exact.
func (z *Float) SetMode(mode RoundingMode) *Float {
	z.mode = mode
	z.acc = Exact
	return z
}

// Set sets z to the (possibly rounded) value of x and returns z. If z's
// precision is 0, it is changed to x's precision before setting z.
func (z *Float) Set(x *Float) *Float {
	if debugFloat {
		x.validate()
	}
	z.acc = Exact
	if z == x {
		return z
	}
	if z.prec == 0 {
		z.prec = x.prec
	}
	z.form = x.form
	z.neg = x.neg
	if x.form != finite {
		z.mant.SetInt64(0)
		return z
	}
	z.mant.Set(&x.mant)
	z.setFromMantExp(&z.mant, int64(x.exp)-int64(x.prec), false, x.neg)
	return z
}

// Copy sets z to x, with the same precision, rounding mode and accuracy as
// x, and returns z. x is not changed even if z and x are the same.
func (z *Float) Copy(x *Float) *Float {
	if z != x {
		z.mant.Set(&x.mant)
		z.exp = x.exp
		z.prec = x.prec
		z.mode = x.mode
		z.acc = x.acc
		z.form = x.form
		z.neg = x.neg
	}
	return z
}

// SetZero sets z to ±0 depending on signbit and returns z. The precision of
// z is unchanged and the result is always Exact.
func (z *Float) SetZero(signbit bool) *Float {
	z.acc = Exact
	z.form = zero
	z.neg = signbit
	z.mant.SetInt64(0)
	return z
}

// SetInf sets z to -Inf if signbit is set, +Inf otherwise, and returns z.
// The precision of z is unchanged and the result is always Exact.
func (z *Float) SetInf(signbit bool) *Float {
	z.acc = Exact
	z.form = inf
	z.neg = signbit
	z.mant.SetInt64(0)
	return z
}

// SetNaN sets z to NaN, raises the NaN flag, and returns z.
func (z *Float) SetNaN() *Float {
	z.acc = Exact
	z.form = nan
	z.neg = false
	z.mant.SetInt64(0)
	raise(NaNFlag)
	return z
}

// setNaNQuiet sets z to NaN without raising the NaN flag. It is used when
// propagating an operand that is already a NaN.
func (z *Float) setNaNQuiet() *Float {
	z.acc = Exact
	z.form = nan
	z.neg = false
	z.mant.SetInt64(0)
	return z
}

// SetInt64 sets z to the (possibly rounded) value of x and returns z. If
// z's precision is 0, it is set to 64.
func (z *Float) SetInt64(x int64) *Float {
	if z.prec == 0 {
		z.prec = 64
	}
	if x == 0 {
		return z.SetZero(false)
	}
	u := x
	if u < 0 {
		u = -u
	}
	// math.MinInt64 is its own negation; the uint64 conversion recovers
	// the magnitude either way.
	var m big.Int
	m.SetUint64(uint64(u))
	z.setFromMantExp(&m, 0, false, x < 0)
	return z
}

// SetUint64 sets z to the (possibly rounded) value of x and returns z. If
// z's precision is 0, it is set to 64.
func (z *Float) SetUint64(x uint64) *Float {
	if z.prec == 0 {
		z.prec = 64
	}
	z.acc = Exact
	z.neg = false
	if x == 0 {
		z.form = zero
		z.mant.SetInt64(0)
		return z
	}
	var m big.Int
	m.SetUint64(x)
	z.setFromMantExp(&m, 0, false, false)
	return z
}

// SetInt sets z to the (possibly rounded) value of x and returns z. If z's
// precision is 0, it is set to the larger of x.BitLen() or 64.
func (z *Float) SetInt(x *big.Int) *Float {
	bits := uint32(x.BitLen())
	if z.prec == 0 {
		z.prec = umax32(bits, 64)
	}
	z.acc = Exact
	if bits == 0 {
		z.form = zero
		z.neg = x.Sign() < 0
		z.mant.SetInt64(0)
		return z
	}
	var m big.Int
	m.Abs(x)
	z.setFromMantExp(&m, 0, false, x.Sign() < 0)
	return z
}

// SetRat sets z to the (possibly rounded) value of x and returns z. If z's
// precision is 0, it is set to the larger of a.BitLen(), b.BitLen(), or 64,
// with x = a/b.
func (z *Float) SetRat(x *big.Rat) *Float {
	if x.IsInt() {
		return z.SetInt(x.Num())
	}
	var a, b Float
	a.SetInt(x.Num())
	b.SetInt(x.Denom())
	if z.prec == 0 {
		z.prec = umax32(a.prec, b.prec)
	}
	return z.Quo(&a, &b)
}

// MantExp breaks x into its significand and exponent components such that
// x = mant × 2^exp, with 0.5 <= |mant| < 1. If a non-nil mant argument is
// provided, it is set to that significand with the same precision and
// rounding mode as x.
//
// Special cases: MantExp of ±0, ±Inf or NaN returns 0, and mant (if
// provided) is set to a copy of x.
func (x *Float) MantExp(mant *Float) (exp int) {
	if debugFloat {
		x.validate()
	}
	if x.form == finite {
		exp = int(x.exp)
	}
	if mant != nil {
		mant.Copy(x)
		if mant.form == finite {
			mant.exp = 0
		}
	}
	return
}

// SetMantExp sets z to mant × 2^exp and returns z. The result is rounded to
// z's precision; if z's precision is 0 it takes mant's precision. Setting
// from ±0, ±Inf or NaN copies mant.
//
// SetMantExp is an inverse of MantExp but does not require 0.5 <= |mant| < 1.
func (z *Float) SetMantExp(mant *Float, exp int) *Float {
	if debugFloat {
		mant.validate()
	}
	z.Set(mant)
	if z.form != finite {
		return z
	}
	z.setFromMantExp(&z.mant, int64(z.exp)+int64(exp)-int64(z.prec), false, z.neg)
	return z
}

// Neg sets z to the (possibly rounded) value of x with its sign negated,
// and returns z. NaN is propagated.
func (z *Float) Neg(x *Float) *Float {
	if x.form == nan {
		return z.setNaNQuiet()
	}
	z.Set(x)
	z.neg = !z.neg
	if z.acc != Exact {
		z.acc = -z.acc
	}
	return z
}

// Abs sets z to the (possibly rounded) value of |x| and returns z. NaN is
// propagated.
func (z *Float) Abs(x *Float) *Float {
	if x.form == nan {
		return z.setNaNQuiet()
	}
	if x.neg {
		return z.Neg(x)
	}
	return z.Set(x)
}

// umax32 returns the larger of x and y.
func umax32(x, y uint32) uint32 {
	if x > y {
		return x
	}
	return y
}

const debugFloat = false

// validate checks the Float invariants in debug builds.
func (x *Float) validate() {
	if !debugFloat {
		panic("validate called but debugFloat is not set")
	}
	if x.form != finite {
		return
	}
	if x.prec == 0 {
		panic("finite Float with zero precision")
	}
	if uint32(x.mant.BitLen()) != x.prec {
		panic(fmt.Sprintf("significand has %d bits, want %d", x.mant.BitLen(), x.prec))
	}
}
