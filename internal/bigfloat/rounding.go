package bigfloat

import "math/big"

// RoundingMode determines how a Float value is rounded to the desired
// precision. Rounding may change the Float value; the rounding error is
// described by the Float's Accuracy.
type RoundingMode byte

// The supported rounding modes.
const (
	// ToNearestEven rounds to the nearest representable value, breaking
	// ties toward the value with an even least significant bit.
	ToNearestEven RoundingMode = iota
	// ToNearestAway rounds to nearest, breaking ties away from zero.
	ToNearestAway
	// ToZero rounds toward zero (truncation).
	ToZero
	// AwayFromZero rounds away from zero.
	AwayFromZero
	// ToNegativeInf rounds toward negative infinity.
	ToNegativeInf
	// ToPositiveInf rounds toward positive infinity.
	ToPositiveInf
)

var modeNames = [...]string{
	ToNearestEven: "ToNearestEven",
	ToNearestAway: "ToNearestAway",
	ToZero:        "ToZero",
	AwayFromZero:  "AwayFromZero",
	ToNegativeInf: "ToNegativeInf",
	ToPositiveInf: "ToPositiveInf",
}

func (mode RoundingMode) String() string {
	if int(mode) < len(modeNames) {
		return modeNames[mode]
	}
	return "RoundingMode(" + string(rune('0'+mode)) + ")"
}

// ParseMode returns the rounding mode named by s. Accepted spellings follow
// MPFR's short names (rndn, rndz, rnda, rndd, rndu) as well as the Go
// constant names, case-insensitively via the lowered forms below.
func ParseMode(s string) (RoundingMode, bool) {
	switch s {
	case "rndn", "nearest", "tonearesteven":
		return ToNearestEven, true
	case "rndna", "nearestaway", "tonearestaway":
		return ToNearestAway, true
	case "rndz", "zero", "tozero", "trunc":
		return ToZero, true
	case "rnda", "away", "awayfromzero":
		return AwayFromZero, true
	case "rndd", "down", "tonegativeinf", "floor":
		return ToNegativeInf, true
	case "rndu", "up", "topositiveinf", "ceil":
		return ToPositiveInf, true
	}
	return ToNearestEven, false
}

// Accuracy describes the rounding error produced by the most recent
// operation that generated a Float value, relative to the exact value.
// It is the ternary value of MPFR.
type Accuracy int8

// Constants describing the Accuracy of a Float.
const (
	Below Accuracy = -1
	Exact Accuracy = 0
	Above Accuracy = +1
)

func (a Accuracy) String() string {
	switch {
	case a < 0:
		return "Below"
	case a > 0:
		return "Above"
	}
	return "Exact"
}

// makeAcc translates a "rounded away from the exact value?" bit into an
// Accuracy, given the sign of the result.
func makeAcc(above bool) Accuracy {
	if above {
		return Above
	}
	return Below
}

// setFromMantExp is the rounding core. It sets z to ±m × 2^scale rounded to
// z.prec bits under z.mode, where m > 0 is an integer significand whose
// least significant bit has weight 2^scale, and sticky reports that nonzero
// bits with weight below 2^scale were already discarded.
//
// m may alias z.mant. setFromMantExp normalizes the significand to exactly
// z.prec bits, updates z.exp, z.acc and z.form, enforces the configured
// exponent range (flushing to ±0 on underflow and saturating to ±Inf or the
// largest finite value on overflow, depending on the rounding direction),
// and raises the Inexact, Underflow and Overflow flags as appropriate.
func (z *Float) setFromMantExp(m *big.Int, scale int64, sticky bool, neg bool) *Float {
	bl := m.BitLen()
	if bl == 0 {
		if sticky {
			// A magnitude too small to be represented at all:
			// treat as underflow from a nonzero value.
			return z.underflow(neg)
		}
		z.acc = Exact
		z.form = zero
		z.neg = neg
		z.mant.SetInt64(0)
		return z
	}

	z.neg = neg
	prec := int(z.prec)
	if prec == 0 {
		prec = DefaultPrec
		z.prec = DefaultPrec
	}
	shift := bl - prec
	exp := scale + int64(bl)

	var rbit bool
	switch {
	case shift > 0:
		// Drop shift bits: capture the round bit and fold the rest
		// into sticky.
		rbit = m.Bit(shift-1) != 0
		if !sticky && shift > 1 {
			sticky = m.TrailingZeroBits() < uint(shift-1)
		}
		z.mant.Rsh(m, uint(shift))
	case shift < 0:
		z.mant.Lsh(m, uint(-shift))
	default:
		if m != &z.mant {
			z.mant.Set(m)
		}
	}

	z.acc = Exact
	if rbit || sticky {
		inc := false
		switch z.mode {
		case ToNearestEven:
			inc = rbit && (sticky || z.mant.Bit(0) != 0)
		case ToNearestAway:
			inc = rbit
		case ToZero:
			// truncate
		case AwayFromZero:
			inc = true
		case ToNegativeInf:
			inc = neg
		case ToPositiveInf:
			inc = !neg
		default:
			panic("bigfloat: unknown rounding mode")
		}
		z.acc = makeAcc(inc != neg)
		raise(Inexact)
		if inc {
			z.mant.Add(&z.mant, oneInt)
			if z.mant.BitLen() > prec {
				// Carry out of the top bit: 0.111..1 rounded
				// up to 1.000..0.
				z.mant.Rsh(&z.mant, 1)
				exp++
			}
		}
	}

	emin, emax := ExpRange()
	switch {
	case exp < int64(emin):
		return z.underflow(neg)
	case exp > int64(emax):
		return z.overflow(neg)
	}

	z.form = finite
	z.exp = int32(exp)
	return z
}

var oneInt = big.NewInt(1)

// underflow flushes z to ±0, or to the smallest finite magnitude when the
// rounding direction points away from zero, raising Underflow and Inexact.
func (z *Float) underflow(neg bool) *Float {
	raise(Underflow | Inexact)
	if z.prec == 0 {
		z.prec = DefaultPrec
	}
	away := z.mode == AwayFromZero ||
		(z.mode == ToNegativeInf && neg) ||
		(z.mode == ToPositiveInf && !neg)
	if away {
		emin, _ := ExpRange()
		z.form = finite
		z.neg = neg
		z.exp = emin
		z.mant.Lsh(oneInt, uint(z.prec)-1)
		z.acc = makeAcc(!neg)
		return z
	}
	z.form = zero
	z.neg = neg
	z.mant.SetInt64(0)
	z.acc = makeAcc(neg)
	return z
}

// overflow saturates z to ±Inf, or to the largest finite value when the
// rounding direction points toward zero, raising Overflow and Inexact.
func (z *Float) overflow(neg bool) *Float {
	raise(Overflow | Inexact)
	if z.prec == 0 {
		z.prec = DefaultPrec
	}
	toward := z.mode == ToZero ||
		(z.mode == ToNegativeInf && !neg) ||
		(z.mode == ToPositiveInf && neg)
	if toward {
		_, emax := ExpRange()
		z.form = finite
		z.neg = neg
		z.exp = emax
		// All ones: the largest prec-bit significand.
		z.mant.Lsh(oneInt, uint(z.prec))
		z.mant.Sub(&z.mant, oneInt)
		z.acc = makeAcc(neg)
		return z
	}
	z.form = inf
	z.neg = neg
	z.mant.SetInt64(0)
	z.acc = makeAcc(!neg)
	return z
}
