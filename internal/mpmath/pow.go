package mpmath

import "github.com/agbru/mpcalc/internal/bigfloat"

// Pow sets z to the rounded value of x^y and returns z.
//
// The special-case ladder follows IEEE 754 pow:
//
//	Pow(x, ±0)   = 1 for any x, including NaN
//	Pow(1, y)    = 1 for any y, including NaN
//	Pow(x, y)    = NaN for finite x < 0 and non-integer y
//	Pow(±0, y)   = ±0 or ±Inf according to the sign of y, with the
//	               result sign negative only for odd integer y
//	Pow(±Inf, y) and Pow(x, ±Inf) follow the magnitude of x against 1
func Pow(z, x, y *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		p := x.Prec()
		if y.Prec() > p {
			p = y.Prec()
		}
		z.SetPrec(p)
	}

	if y.IsZero() {
		return z.SetInt64(1)
	}
	one := oneAt(8)
	if !x.IsNaN() && !x.Signbit() && x.Cmp(one) == 0 {
		return z.SetInt64(1)
	}
	if x.IsNaN() || y.IsNaN() {
		return z.SetNaN()
	}

	yInt := y.IsInt()
	yOdd := false
	if yInt && !y.IsInf() {
		half := newF(y.Prec() + 8)
		half.SetMantExp(y, -1) // y/2
		yOdd = !half.IsInt()
	}

	switch {
	case y.IsInf():
		// |x| against 1 decides; sign of the base is irrelevant except
		// for |x| == 1, which yields 1.
		a := newF(x.Prec()).Abs(x)
		switch a.Cmp(one) {
		case 0:
			return z.SetInt64(1)
		case 1:
			if y.Signbit() {
				return z.SetZero(false)
			}
			return z.SetInf(false)
		default:
			if y.Signbit() {
				return z.SetInf(false)
			}
			return z.SetZero(false)
		}
	case x.IsZero():
		neg := x.Signbit() && yOdd
		if y.Signbit() {
			return z.SetInf(neg)
		}
		return z.SetZero(neg)
	case x.IsInf():
		neg := x.Signbit() && yOdd
		if y.Signbit() {
			return z.SetZero(neg)
		}
		return z.SetInf(neg)
	case x.Signbit() && !yInt:
		return z.SetNaN()
	}

	// x^y = e^(y·log|x|), with the sign restored for odd integer y on a
	// negative base.
	neg := x.Signbit() && yOdd
	ax := newF(x.Prec()).Abs(x)
	zivRound(z, func(w uint, r *bigfloat.Float) {
		ww := w + 16
		l := newF(ww)
		logAt(l, ax, ww)
		l.Mul(l, y)
		expAt(r, l, w)
	})
	if neg {
		z.Neg(z)
	}
	return z
}
