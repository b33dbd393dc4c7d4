package mpmath

import (
	"math/big"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

var fourBig = big.NewInt(4)

// trigReduce reduces a finite nonzero x modulo π/2 at a precision high
// enough that the reduced argument keeps w significant bits even when x
// lies close to a multiple of π/2. It returns the reduced argument
// r ∈ (−π/2, π/2) at working precision and the quadrant index k mod 4 with
// x = k·π/2 + r.
func trigReduce(x *bigfloat.Float, w uint) (*bigfloat.Float, int) {
	boost := x.MantExp(nil)
	if boost < 0 {
		boost = 0
	}
	p := w + uint(boost) + 32

	for {
		halfPi := newF(p).SetMantExp(newF(p).Set(piCache.get(p)), -1)
		t := newF(p).Quo(x, halfPi)
		// Round to the nearest quadrant so |r| <= π/4; the zeros of sine
		// and cosine then always fall on the accurately reduced branch.
		half := halfAt(p)
		if t.Signbit() {
			t.Sub(t, half)
		} else {
			t.Add(t, half)
		}
		// The quadrant count can exceed an int64 for large exponents, so
		// it is carried as a big.Int.
		k, _ := t.Int(nil)

		r := newF(p)
		r.Sub(newF(p).Set(x), t.Mul(newF(p).SetInt(k), halfPi))

		// r carries roughly p − cancel significant bits, where cancel
		// is the magnitude drop from x down to r. Retry wider if the
		// cancellation ate into the requested accuracy. π is
		// irrational, so r can never be exactly zero and the loop
		// terminates.
		cancel := uint(boost + max0(-r.MantExp(nil)))
		if !r.IsZero() && p-cancel >= w+16 {
			return r, int(new(big.Int).Mod(k, fourBig).Int64())
		}
		p *= 2
	}
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Sin sets z to the rounded sine of x and returns z. Sin(±0) = ±0;
// Sin(±Inf) and Sin(NaN) are NaN (the infinity raises the NaN flag).
func Sin(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN(), x.IsInf():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		red, q := trigReduce(x, w)
		switch q {
		case 0:
			sinTaylor(r, red, w+16)
		case 1:
			cosTaylor(r, red, w+16)
		case 2:
			sinTaylor(r, red, w+16)
			r.Neg(r)
		default:
			cosTaylor(r, red, w+16)
			r.Neg(r)
		}
	})
}

// Cos sets z to the rounded cosine of x and returns z. Cos(±0) = 1;
// Cos(±Inf) and Cos(NaN) are NaN.
func Cos(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN(), x.IsInf():
		return z.SetNaN()
	case x.IsZero():
		return z.SetInt64(1)
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		red, q := trigReduce(x, w)
		switch q {
		case 0:
			cosTaylor(r, red, w+16)
		case 1:
			sinTaylor(r, red, w+16)
			r.Neg(r)
		case 2:
			cosTaylor(r, red, w+16)
			r.Neg(r)
		default:
			sinTaylor(r, red, w+16)
		}
	})
}

// Tan sets z to the rounded tangent of x and returns z, sharing one
// argument reduction between the sine and cosine.
func Tan(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN(), x.IsInf():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		red, q := trigReduce(x, w)
		s := newF(w + 16)
		c := newF(w + 16)
		sinTaylor(s, red, w+16)
		cosTaylor(c, red, w+16)
		if q == 1 || q == 3 {
			// tan(x + π/2) = −cos/sin
			r.Quo(c, s)
			r.Neg(r)
			return
		}
		r.Quo(s, c)
	})
}

// sinTaylor sums x − x³/3! + x⁵/5! − … for |x| < π/2 at precision p.
func sinTaylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	var (
		x2      = newF(p).Mul(x, x)
		term    = newF(p).Set(x)
		sum     = newF(p).Set(x)
		t       = newF(p)
		n       = int64(1)
		epsilon = epsAt(p + 8)
	)
	for {
		term.Mul(term, x2)
		term.Quo(term, t.SetInt64((n+1)*(n+2)))
		term.Neg(term)
		n += 2
		sum.Add(sum, term)
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
	}
	return z.Set(sum)
}

// cosTaylor sums 1 − x²/2! + x⁴/4! − … for |x| < π/2 at precision p.
func cosTaylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	var (
		x2      = newF(p).Mul(x, x)
		term    = oneAt(p)
		sum     = oneAt(p)
		t       = newF(p)
		n       = int64(0)
		epsilon = epsAt(p + 8)
	)
	for {
		term.Mul(term, x2)
		term.Quo(term, t.SetInt64((n+1)*(n+2)))
		term.Neg(term)
		n += 2
		sum.Add(sum, term)
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
	}
	return z.Set(sum)
}
