package mpmath

import "github.com/agbru/mpcalc/internal/bigfloat"

// Exp sets z to the rounded value of e^x and returns z.
//
// Special cases:
//
//	Exp(NaN)  = NaN
//	Exp(+Inf) = +Inf
//	Exp(-Inf) = +0
//	Exp(±0)   = 1
func Exp(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsInf():
		if x.Signbit() {
			return z.SetZero(false)
		}
		return z.SetInf(false)
	case x.IsZero():
		return z.SetInt64(1)
	}
	// |x| >= 2^32 puts e^x outside every supported exponent range; force
	// the overflow or underflow through the rounding core so the flags and
	// directed-mode saturation rules apply.
	if x.MantExp(nil) >= 32 {
		one := bigfloat.New(z.Prec()).SetInt64(1)
		if x.Signbit() {
			return z.SetMantExp(one, -2*bigfloat.MaxExp)
		}
		return z.SetMantExp(one, 2*bigfloat.MaxExp)
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		expAt(r, x, w)
	})
}

// Expm1 sets z to the rounded value of e^x − 1 and returns z. For small x
// the result is computed from the series directly, avoiding the
// cancellation of Exp(x) − 1.
func Expm1(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsInf():
		if x.Signbit() {
			return z.SetInt64(-1)
		}
		return z.SetInf(false)
	case x.IsZero():
		return z.SetZero(x.Signbit())
	}

	if x.MantExp(nil) >= 32 {
		prec := z.Prec()
		if x.Signbit() {
			// e^x − 1 is −1 plus a sliver far below the last bit.
			tiny := newF(8).SetMantExp(oneAt(8), -int(prec)-2*zivGuard)
			return z.Sub(tiny, oneAt(prec+8))
		}
		return z.SetMantExp(bigfloat.New(prec).SetInt64(1), 2*bigfloat.MaxExp)
	}

	// |x| < 1/2: sum the series for e^x − 1 directly; the terms already
	// have the result's magnitude, so no bits cancel.
	if x.MantExp(nil) < 0 {
		return zivRound(z, func(w uint, r *bigfloat.Float) {
			expm1Taylor(r, x, w)
		})
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		expAt(r, x, w)
		r.Sub(r, oneAt(w))
	})
}

// expAt computes e^x into r at working precision w using
// argument reduction x = k·log2 + s·2^j followed by a Taylor series and
// repeated squaring:
//
//	e^x = 2^k × (e^s)^(2^j)
func expAt(r, x *bigfloat.Float, w uint) {
	// Arguments this large overflow or underflow every supported exponent
	// range; route them through the rounding core instead of reducing.
	if x.MantExp(nil) >= 32 {
		e := 2 * bigfloat.MaxExp
		if x.Signbit() {
			e = -e
		}
		r.SetMantExp(oneAt(8), e)
		return
	}

	// k = trunc(x / log 2). The reduced argument |x − k·log2| < log2.
	ln2 := newF(w + 16).Set(ln2Cache.get(w + 16))
	t := newF(w + 16).Quo(x, ln2)
	k, _ := t.Int64()

	red := newF(w + 16)
	red.Sub(newF(w+16).Set(x), t.Mul(newF(w+16).SetInt64(k), ln2))

	// Halve j times so the series argument is below 2^-8; each squaring
	// afterwards costs one multiplication at full precision.
	j := red.MantExp(nil) + 8
	if j < 0 {
		j = 0
	}
	if j > 0 {
		red.SetMantExp(red, -j)
	}

	expTaylor(r, red, w+16+uint(j))
	for i := 0; i < j; i++ {
		r.Mul(r, r)
	}
	if k != 0 {
		r.SetMantExp(r, int(k))
	}
}

// expTaylor sums the Taylor series of e^x at working precision p. The
// argument must be small (|x| < 1); convergence is geometric in p/|exp x|.
func expTaylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	expm1Taylor(z, x, p)
	return z.Add(z, oneAt(p))
}

// expm1Taylor sums x + x²/2! + x³/3! + … at working precision p.
func expm1Taylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	var (
		term    = newF(p).Set(x) // x^n / n!
		sum     = newF(p).Set(x)
		t       = newF(p)
		n       = int64(1)
		epsilon = epsAt(p + 8)
	)
	for {
		n++
		term.Mul(term, x)
		term.Quo(term, t.SetInt64(n))
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
		sum.Add(sum, term)
	}
	return z.Set(sum)
}
