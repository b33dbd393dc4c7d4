package mpmath

import "github.com/agbru/mpcalc/internal/bigfloat"

// Sinh sets z to the rounded hyperbolic sine of x and returns z.
// Sinh(±0) = ±0 and Sinh(±Inf) = ±Inf.
func Sinh(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	case x.IsInf():
		return z.SetInf(x.Signbit())
	}
	// sinh(x) = m(m+2) / (2(m+1)) with m = e^x − 1; the form is free of
	// cancellation for small x, where e^x and e^-x agree in their leading
	// bits.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		m := newF(p)
		em1At(m, x, p)
		if m.IsInf() {
			r.Set(m)
			return
		}
		one := oneAt(p)
		num := newF(p).Add(m, twoAt(p))
		num.Mul(num, m)
		den := newF(p).Add(m, one)
		den.Add(den, den)
		r.Quo(num, den)
	})
}

// Cosh sets z to the rounded hyperbolic cosine of x and returns z.
// Cosh(±0) = 1 and Cosh(±Inf) = +Inf.
func Cosh(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetInt64(1)
	case x.IsInf():
		return z.SetInf(false)
	}
	// cosh(x) = (e^x + e^-x) / 2; both terms are positive, so no bits
	// cancel at any magnitude.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		e := newF(p)
		expAt(e, x, p)
		if e.IsInf() || e.IsZero() {
			// e^x out of range: cosh overflows regardless of sign.
			r.Set(e)
			if r.IsZero() {
				r.SetInf(false)
			}
			return
		}
		inv := newF(p).Quo(oneAt(p), e)
		r.Add(e, inv)
		r.SetMantExp(r, -1)
	})
}

// Tanh sets z to the rounded hyperbolic tangent of x and returns z.
// Tanh(±0) = ±0 and Tanh(±Inf) = ±1.
func Tanh(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	case x.IsInf():
		return z.SetInt64(sign1(x.Signbit()))
	}
	// tanh(x) = m / (m+2) with m = e^(2x) − 1.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		x2 := newF(p).Add(x, x)
		m := newF(p)
		em1At(m, x2, p)
		if m.IsInf() {
			r.SetInt64(1)
			return
		}
		den := newF(p).Add(m, twoAt(p))
		r.Quo(m, den)
	})
}

func sign1(neg bool) int64 {
	if neg {
		return -1
	}
	return 1
}

// em1At computes e^x − 1 into m at working precision p, choosing between
// the direct series and the reduced exponential on the size of x.
func em1At(m, x *bigfloat.Float, p uint) {
	if x.MantExp(nil) < 0 {
		expm1Taylor(m, x, p)
		return
	}
	expAt(m, x, p)
	m.Sub(m, oneAt(p))
}

// Asinh sets z to the rounded inverse hyperbolic sine of x and returns z.
func Asinh(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	case x.IsInf():
		return z.SetInf(x.Signbit())
	}
	// asinh|x| = log1p(|x| + x²/(1+sqrt(1+x²))), odd in x. The log1p form
	// keeps small arguments accurate where log(x+sqrt(x²+1)) would
	// collapse to log(1).
	neg := x.Signbit()
	ax := newF(x.Prec()).Abs(x)
	zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		one := oneAt(p)
		t := newF(p).Mul(ax, ax)
		s := newF(p).Add(t, one)
		s.Sqrt(s)
		s.Add(s, one)
		t.Quo(t, s)
		t.Add(t, ax)
		log1pAt(r, t, w)
	})
	if neg {
		z.Neg(z)
	}
	return z
}

// Acosh sets z to the rounded inverse hyperbolic cosine of x and returns z.
// Arguments below 1 yield NaN; Acosh(1) = +0.
func Acosh(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsInf():
		if x.Signbit() {
			return z.SetNaN()
		}
		return z.SetInf(false)
	}
	one := oneAt(8)
	switch x.Cmp(one) {
	case -1:
		return z.SetNaN()
	case 0:
		return z.SetZero(false)
	}
	// acosh(x) = log1p(d + sqrt(d(d+2))) with d = x−1, accurate down to
	// the branch point.
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		d := newF(p).Sub(x, oneAt(p))
		s := newF(p).Add(d, twoAt(p))
		s.Mul(s, d)
		s.Sqrt(s)
		s.Add(s, d)
		log1pAt(r, s, w)
	})
}

// Atanh sets z to the rounded inverse hyperbolic tangent of x and returns
// z. Arguments outside (-1, 1) yield NaN except Atanh(±1) = ±Inf.
func Atanh(z, x *bigfloat.Float) *bigfloat.Float {
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
		return z.SetInf(x.Signbit())
	}
	// atanh(x) = log1p(2x/(1−x)) / 2
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		p := w + 32
		t := newF(p).Sub(oneAt(p), x)
		u := newF(p).Add(x, x)
		u.Quo(u, t)
		log1pAt(r, u, w)
		r.SetMantExp(r, -1)
	})
}

// log1pAt computes log(1+u) into r at working precision w for u > -1,
// choosing the series or the AGM logarithm on the size of u.
func log1pAt(r, u *bigfloat.Float, w uint) {
	if u.IsZero() {
		r.SetZero(u.Signbit())
		return
	}
	if u.MantExp(nil) <= -1 {
		log1pTaylor(r, u, w)
		return
	}
	t := newF(w + 32).Add(oneAt(w+32), u)
	logAt(r, t, w)
}
