package mpmath

import (
	"math/big"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// J0 sets z to the rounded Bessel function of the first kind of order zero
// at x and returns z.
func J0(z, x *bigfloat.Float) *bigfloat.Float {
	return Jn(z, 0, x)
}

// J1 sets z to the rounded Bessel function of the first kind of order one
// at x and returns z.
func J1(z, x *bigfloat.Float) *bigfloat.Float {
	return Jn(z, 1, x)
}

// Jn sets z to the rounded Bessel function of the first kind of integer
// order n at x and returns z.
//
// Special cases follow MPFR:
//
//	Jn(n, NaN)  = NaN
//	Jn(n, ±Inf) = +0
//	J0(±0)      = 1
//	Jn(n, ±0)   = ±0 for odd n, +0 for even n > 0
//
// Negative orders and arguments reduce through the parity identities
// J_{−n}(x) = (−1)^n J_n(x) and J_n(−x) = (−1)^n J_n(x).
func Jn(z *bigfloat.Float, n int64, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsInf():
		return z.SetZero(false)
	}

	m := n
	if m < 0 {
		m = -m
	}
	// When exactly one of the order and the argument is negative, an odd
	// order flips the sign.
	neg := m%2 == 1 && (n < 0) != x.Signbit()

	if x.IsZero() {
		if m == 0 {
			return z.SetInt64(1)
		}
		return z.SetZero(neg)
	}

	zivRound(z, func(w uint, r *bigfloat.Float) {
		jnAt(r, m, x, w)
	})
	if neg {
		z.Neg(z)
	}
	return z
}

// jnAt sums the ascending series
//
//	J_n(x) = Σ_{m≥0} (−1)^m / (m! (m+n)!) · (x/2)^(2m+n)
//
// at a working precision padded by about 1.5 bits per unit of |x|: the
// largest term grows like e^|x| before the factorials take over, and those
// leading bits cancel down to a result of magnitude at most 1.
func jnAt(r *bigfloat.Float, n int64, x *bigfloat.Float, w uint) {
	ax, _ := newF(64).Abs(x).Int64()
	if ax > 1<<24 {
		ax = 1 << 24
	}
	p := w + 32 + uint(3*ax/2) + 16

	h := newF(p).SetMantExp(newF(p).Abs(x), -1) // |x|/2
	h2 := newF(p).Mul(h, h)

	// term_0 = (x/2)^n / n!
	term := newF(p)
	powInt(term, h, n, p)
	if n > 1 {
		term.Quo(term, newF(p).SetInt(new(big.Int).MulRange(1, n)))
	}

	var (
		sum  = newF(p).Set(term)
		t    = newF(p)
		peak = term.MantExp(nil)
	)
	for m := int64(1); ; m++ {
		term.Mul(term, h2)
		term.Quo(term, t.SetInt64(m*(m+n)))
		term.Neg(term)
		sum.Add(sum, term)

		if term.IsZero() {
			break
		}
		e := term.MantExp(nil)
		if e > peak {
			peak = e
		} else if peak-e > int(p)+8 {
			break
		}
	}
	r.Set(sum)
}

// powInt computes x^n into r for n >= 0 by binary exponentiation.
func powInt(r, x *bigfloat.Float, n int64, p uint) {
	b := newF(p).Set(x)
	r.SetInt64(1)
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			r.Mul(r, b)
		}
		b.Mul(b, b)
	}
}
