package bigfloat

import "math/big"

// Sqrt sets z to the rounded square root of x and returns z.
//
// Special cases:
//
//	Sqrt(±0)   = ±0
//	Sqrt(+Inf) = +Inf
//	Sqrt(x<0)  = NaN (and the NaN flag is raised)
//
// The square root is computed on the integer significand with two guard
// bits; the sticky bit is recovered from the remainder, so the result is
// correctly rounded in z's mode.
func (z *Float) Sqrt(x *Float) *Float {
	if debugFloat {
		x.validate()
	}
	if z.prec == 0 {
		z.prec = x.prec
		if z.prec == 0 {
			z.prec = DefaultPrec
		}
	}
	switch x.form {
	case nan:
		return z.SetNaN()
	case zero:
		return z.SetZero(x.neg)
	case inf:
		if x.neg {
			return z.SetNaN()
		}
		return z.SetInf(false)
	}
	if x.neg {
		return z.SetNaN()
	}

	// x = mant × 2^e with e = exp−prec. Shift the significand so that the
	// total exponent is even and the shifted value carries at least
	// 2×(prec+2) bits, then take the integer square root.
	e := int64(x.exp) - int64(x.prec)
	shift := 2*(int64(z.prec)+2) - int64(x.mant.BitLen())
	if shift < 0 {
		shift = 0
	}
	if (e-shift)&1 != 0 {
		shift++
	}

	var t, s, r big.Int
	t.Lsh(&x.mant, uint(shift))
	s.Sqrt(&t)
	// The remainder decides the sticky bit: s² <= t < (s+1)².
	r.Mul(&s, &s)
	sticky := r.Cmp(&t) != 0

	return z.setFromMantExp(&s, (e-shift)/2, sticky, false)
}
