package mpmath

import "github.com/agbru/mpcalc/internal/bigfloat"

// Atan sets z to the rounded arc tangent of x and returns z.
// Atan(±0) = ±0 and Atan(±Inf) = ±π/2.
func Atan(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	case x.IsInf():
		Pi(z)
		z.SetMantExp(z, -1)
		if x.Signbit() {
			z.Neg(z)
		}
		return z
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		atanAt(r, x, w)
	})
}

// atanAt computes atan(x) at working precision w by repeated angle halving
//
//	atan(x) = 2·atan(x / (1 + sqrt(1+x²)))
//
// until the argument is small enough for the Taylor series to converge at a
// useful rate, then scales the series back up.
func atanAt(r, x *bigfloat.Float, w uint) {
	p := w + 32
	var (
		t   = newF(p).Set(x)
		u   = newF(p)
		s   = newF(p)
		one = oneAt(p)
		j   = 0
	)
	for t.MantExp(nil) > -8 {
		// t = t / (1 + sqrt(1+t²))
		s.Mul(t, t)
		s.Add(s, one)
		s.Sqrt(s)
		s.Add(s, one)
		t.Quo(t, s)
		j++
	}
	atanTaylor(u, t, p)
	if j > 0 {
		u.SetMantExp(u, j)
	}
	r.Set(u)
}

// atanTaylor sums x − x³/3 + x⁵/5 − … for |x| < 2^-8 at precision p.
func atanTaylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	var (
		x2      = newF(p).Mul(x, x)
		pow     = newF(p).Set(x) // x^(2n+1)
		term    = newF(p)
		sum     = newF(p).Set(x)
		t       = newF(p)
		n       = int64(1)
		epsilon = epsAt(p + 8)
	)
	for {
		pow.Mul(pow, x2)
		term.Quo(pow, t.SetInt64(2*n+1))
		if n%2 == 1 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		n++
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
	}
	return z.Set(sum)
}

// Asin sets z to the rounded arc sine of x and returns z. Arguments outside
// [-1, 1] yield NaN; Asin(±1) = ±π/2.
func Asin(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN(), x.IsInf():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	}
	one := oneAt(8)
	switch newF(x.Prec()).Abs(x).Cmp(one) {
	case 1:
		return z.SetNaN()
	case 0:
		Pi(z)
		z.SetMantExp(z, -1)
		if x.Signbit() {
			z.Neg(z)
		}
		return z
	}
	// asin(x) = atan(x / sqrt(1−x²)), with 1−x² formed as (1−x)(1+x) to
	// keep the bits near |x| = 1.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		one := oneAt(p)
		a := newF(p).Sub(one, x)
		b := newF(p).Add(one, x)
		a.Mul(a, b)
		a.Sqrt(a)
		a.Quo(newF(p).Set(x), a)
		atanAt(r, a, w)
	})
}

// Acos sets z to the rounded arc cosine of x and returns z. Arguments
// outside [-1, 1] yield NaN; Acos(1) = +0, Acos(-1) = π.
func Acos(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN(), x.IsInf():
		return z.SetNaN()
	case x.IsZero():
		Pi(z)
		return z.SetMantExp(z, -1)
	}
	one := oneAt(8)
	switch newF(x.Prec()).Abs(x).Cmp(one) {
	case 1:
		return z.SetNaN()
	case 0:
		if x.Signbit() {
			return Pi(z)
		}
		return z.SetZero(false)
	}
	// acos(x) = atan(sqrt(1−x²)/x), shifted by π for negative x so the
	// result stays in (0, π). No cancellation: the subtraction against π
	// only occurs when atan is negative.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		one := oneAt(p)
		a := newF(p).Sub(one, x)
		b := newF(p).Add(one, x)
		a.Mul(a, b)
		a.Sqrt(a)
		a.Quo(a, newF(p).Set(x))
		atanAt(r, a, w)
		if x.Signbit() {
			r.Add(r, newF(p).Set(piCache.get(p)))
		}
	})
}

// Atan2 sets z to the rounded angle of the point (x, y) in the plane,
// following the quadrant conventions of math.Atan2: the result is in
// [-π, π] and the sign of y selects the half-plane.
func Atan2(z, y, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		p := y.Prec()
		if x.Prec() > p {
			p = x.Prec()
		}
		z.SetPrec(p)
	}
	if y.IsNaN() || x.IsNaN() {
		return z.SetNaN()
	}

	// Zeros and infinities resolve to exact multiples of π/4.
	quarter := func(n int64) *bigfloat.Float {
		p := z.Prec() + 32
		t := newF(p).Set(piCache.get(p))
		t.SetMantExp(t, -2)
		t.Mul(t, newF(8).SetInt64(n))
		return z.Set(t)
	}
	switch {
	case y.IsZero():
		if x.Signbit() && !x.IsNaN() {
			Pi(z)
			if y.Signbit() {
				z.Neg(z)
			}
			return z
		}
		return z.SetZero(y.Signbit())
	case x.IsZero():
		if y.Signbit() {
			return quarter(-2)
		}
		return quarter(2)
	case y.IsInf() && x.IsInf():
		switch {
		case !y.Signbit() && !x.Signbit():
			return quarter(1)
		case !y.Signbit():
			return quarter(3)
		case x.Signbit():
			return quarter(-3)
		default:
			return quarter(-1)
		}
	case x.IsInf():
		if x.Signbit() {
			Pi(z)
			if y.Signbit() {
				z.Neg(z)
			}
			return z
		}
		return z.SetZero(y.Signbit())
	case y.IsInf():
		if y.Signbit() {
			return quarter(-2)
		}
		return quarter(2)
	}

	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		t := newF(p).Quo(y, x)
		atanAt(r, t, w)
		if x.Signbit() {
			pi := newF(p).Set(piCache.get(p))
			if y.Signbit() {
				r.Sub(r, pi)
			} else {
				r.Add(r, pi)
			}
		}
	})
}
