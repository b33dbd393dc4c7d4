package mpmath

import (
	"math/big"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// Gamma sets z to the rounded value of the gamma function at x and returns
// z.
//
// Special cases follow MPFR:
//
//	Gamma(NaN)  = NaN
//	Gamma(+Inf) = +Inf
//	Gamma(-Inf) = NaN
//	Gamma(+0)   = +Inf, Gamma(-0) = -Inf
//	Gamma(-n)   = NaN for positive integers n (poles)
func Gamma(z, x *bigfloat.Float) *bigfloat.Float {
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
	case x.IsZero():
		return z.SetInf(x.Signbit())
	}
	if x.IsInt() {
		if x.Signbit() {
			return z.SetNaN()
		}
		// Small positive integers are exact factorials.
		if n, acc := x.Int64(); acc == bigfloat.Exact && n <= 1024 {
			f := new(big.Int).MulRange(1, n-1)
			if n == 1 {
				f.SetInt64(1)
			}
			return z.SetInt(f)
		}
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		gammaAt(r, x, w)
	})
}

// gammaAt computes Γ(x) at working precision w with the Spouge
// approximation, reflecting arguments below 1/2 through
// Γ(x)·Γ(1−x) = π/sin(πx).
func gammaAt(r, x *bigfloat.Float, w uint) {
	p := w + 32
	half := halfAt(8)
	if x.Cmp(half) >= 0 {
		spouge(r, x, p)
		return
	}

	// Reflection: Γ(x) = π / (sin(πx) · Γ(1−x)).
	xx := newF(p).Sub(oneAt(p), x)
	g := newF(p)
	spouge(g, xx, p)

	s := newF(p)
	sinPiAt(s, x, p)

	r.Mul(g, s)
	r.Quo(newF(p).Set(piCache.get(p)), r)
}

// spouge evaluates the Spouge series for Γ(x), x >= 1/2, at precision p:
//
//	Γ(x) = (x−1+a)^(x−1/2) · e^(−(x−1+a)) · (√(2π) + Σ c_k/(x−1+k))
//
// The parameter a controls the error, roughly 2.5 bits per unit.
func spouge(r, x *bigfloat.Float, p uint) {
	a := int64(p)/2 + 4 // ≥ p/2.5 + margin

	var (
		zz  = newF(p).Sub(x, oneAt(p)) // shift to Γ(zz+1)
		sum = newF(p)
		t   = newF(p)
		u   = newF(p)
	)

	// √(2π)
	sum.Set(piCache.get(p))
	sum.Add(sum, sum)
	sum.Sqrt(sum)

	// c_k = (−1)^(k−1) (a−k)^(k−1/2) e^(a−k) / (k−1)!, accumulated with
	// an exact big.Int factorial and an iteratively divided exponential.
	var (
		fact = big.NewInt(1)              // (k−1)!
		e    = newF(p).Set(eCache.get(p)) // divides e^(a−k) per step
		en   = newF(p)
		ck   = newF(p)
		pw   = new(big.Int)
		base = new(big.Int)
	)
	expAt(en, newF(p).SetInt64(a-1), p) // e^(a−1)

	for k := int64(1); k < a; k++ {
		if k > 1 {
			fact.Mul(fact, big.NewInt(k-1))
			en.Quo(en, e)
		}
		// (a−k)^(k−1/2) = (a−k)^(k−1) · √(a−k)
		base.SetInt64(a - k)
		pw.Exp(base, big.NewInt(k-1), nil)
		ck.SetInt(pw)
		u.Sqrt(t.SetInt(base))
		ck.Mul(ck, u)
		ck.Mul(ck, en)
		ck.Quo(ck, t.SetInt(fact))

		// term = c_k / (zz + k)
		u.Add(zz, t.SetInt64(k))
		ck.Quo(ck, u)
		if k%2 == 0 {
			sum.Sub(sum, ck)
		} else {
			sum.Add(sum, ck)
		}
	}

	// (zz+a)^(zz+1/2) · e^(−(zz+a)) · sum
	base2 := newF(p).Add(zz, t.SetInt64(a))
	l := newF(p)
	logAt(l, base2, p)
	u.Add(zz, halfAt(p))
	l.Mul(l, u)
	l.Sub(l, base2)
	expAt(t, l, p)
	r.Mul(t, sum)
}

// sinPiAt computes sin(πx) at precision p for finite x, splitting x into
// its nearest integer and the exact fractional remainder so that arguments
// near integers keep their accuracy.
func sinPiAt(r, x *bigfloat.Float, p uint) {
	boost := max0(x.MantExp(nil))
	pp := p + uint(boost) + 16
	// The split must see every bit of x, or a value straddling an integer
	// could collapse to frac = 0.
	if x.Prec()+uint(boost)+16 > pp {
		pp = x.Prec() + uint(boost) + 16
	}

	// n = round(x), frac = x − n with |frac| <= 1/2, computed exactly.
	t := newF(pp).Set(x)
	half := halfAt(pp)
	if t.Signbit() {
		t.Sub(t, half)
	} else {
		t.Add(t, half)
	}
	n, _ := t.Int(nil)

	frac := newF(pp).Sub(newF(pp).Set(x), newF(pp).SetInt(n))

	arg := newF(pp).Mul(frac, newF(pp).Set(piCache.get(pp)))
	sinTaylor(r, arg, p+16)
	if n.Bit(0) == 1 {
		r.Neg(r)
	}
}
