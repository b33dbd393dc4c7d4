package mpmath

import (
	"sync/atomic"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// DefaultLogCrossoverBits is the working precision at or below which Log
// uses the atanh series instead of the AGM identity. The exact crossover is
// machine dependent; calibration overrides it.
const DefaultLogCrossoverBits = 4096

var logCrossoverBits atomic.Uint64

func init() {
	logCrossoverBits.Store(DefaultLogCrossoverBits)
}

// LogCrossover returns the current series/AGM crossover precision in bits.
func LogCrossover() uint {
	return uint(logCrossoverBits.Load())
}

// SetLogCrossover sets the series/AGM crossover precision in bits. Working
// precisions at or below the crossover take the series path. Safe for
// concurrent use.
func SetLogCrossover(bits uint) {
	logCrossoverBits.Store(uint64(bits))
}

// Log sets z to the rounded natural logarithm of x and returns z.
//
// Special cases follow MPFR:
//
//	Log(NaN)  = NaN
//	Log(x<0)  = NaN (and the NaN flag is raised)
//	Log(±0)   = -Inf
//	Log(+Inf) = +Inf
//	Log(1)    = +0
func Log(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetInf(true)
	case x.Signbit():
		return z.SetNaN()
	case x.IsInf():
		return z.SetInf(false)
	}
	if x.Cmp(oneAt(8)) == 0 {
		return z.SetZero(false)
	}

	// Arguments near 1 cancel against the scaling term m·log2; widen the
	// working precision by the size of that cancellation up front.
	d := newF(x.Prec() + 8).Sub(x, oneAt(8))
	boost := -d.MantExp(nil)
	if boost < 0 {
		boost = 0
	}

	return zivRound(z, func(w uint, r *bigfloat.Float) {
		logAt(r, x, w+uint(boost))
	})
}

// logAt computes log(x) into r for finite positive x at working precision w.
// It dispatches between the series and AGM paths on the crossover.
func logAt(r, x *bigfloat.Float, w uint) {
	if w <= LogCrossover() {
		logSeriesAt(r, x, w)
		return
	}
	logAGMAt(r, x, w)
}

// logSeriesAt computes log(x) into r with the atanh series: writing
// x = f·2^e with f ∈ [1/2, 1),
//
//	log x = 2·atanh(u) + e·log 2,  u = (f−1)/(f+1)
//
// |u| ≤ 1/3, so each pair of terms gains at least 3 bits. At low precision
// this beats the AGM, whose every iteration pays a full-precision sqrt.
func logSeriesAt(r, x *bigfloat.Float, w uint) {
	p := w + 32

	f := newF(p).Set(x)
	e := f.MantExp(nil)
	f.SetMantExp(f, -e)

	u := newF(p).Quo(
		newF(p).Sub(f, oneAt(p)),
		newF(p).Add(f, oneAt(p)))

	var (
		u2      = newF(p).Mul(u, u)
		pow     = newF(p).Set(u) // u^(2k+1)
		sum     = newF(p).Set(u)
		term    = newF(p)
		t       = newF(p)
		epsilon = epsAt(w + 8)
	)
	for n := int64(3); ; n += 2 {
		pow.Mul(pow, u2)
		term.Quo(pow, t.SetInt64(n))
		sum.Add(sum, term)
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
	}
	sum.Add(sum, sum) // 2·atanh(u)

	if e != 0 {
		t.Mul(newF(p).SetInt64(int64(e)), newF(p).Set(ln2Cache.get(p)))
		sum.Add(sum, t)
	}
	r.Set(sum)
}

// logAGMAt computes log(x) into r for finite positive x at working precision
// w with the Salamin AGM identity: for s = x·2^m large enough,
//
//	log s = π / (2·AGM(1, 4/s)),  log x = log s − m·log 2
//
// The approximation error of the identity is O(s^-2 · log s), which the
// choice of m keeps below the working precision.
func logAGMAt(r, x *bigfloat.Float, w uint) {
	p := w + 32
	m := int(p)/2 + 4 - x.MantExp(nil)

	s := newF(p).SetMantExp(newF(p).Set(x), m)
	a := oneAt(p)
	b := newF(p).Quo(fourAt(p), s)
	t := newF(p)
	agm(t, a, b)

	t.Add(t, t)
	t.Quo(newF(p).Set(piCache.get(p)), t) // log(x·2^m)

	u := newF(p).Mul(newF(p).SetInt64(int64(m)), newF(p).Set(ln2Cache.get(p)))
	r.Sub(t, u)
}

// Log1p sets z to the rounded value of log(1+x) and returns z. For small x
// the series around zero is used directly, which preserves the leading
// digits that forming 1+x would discard.
func Log1p(z, x *bigfloat.Float) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetZero(x.Signbit())
	case x.IsInf():
		if x.Signbit() {
			return z.SetNaN()
		}
		return z.SetInf(false)
	}

	mone := newF(8).SetInt64(-1)
	switch x.Cmp(mone) {
	case 0:
		return z.SetInf(true)
	case -1:
		return z.SetNaN()
	}

	if x.MantExp(nil) <= -1 {
		// |x| <= 1/2: alternating series x − x²/2 + x³/3 − …
		return zivRound(z, func(w uint, r *bigfloat.Float) {
			log1pTaylor(r, x, w)
		})
	}
	return zivRound(z, func(w uint, r *bigfloat.Float) {
		u := newF(w + 16).Add(oneAt(w+16), x)
		logAt(r, u, w)
	})
}

func log1pTaylor(z, x *bigfloat.Float, p uint) *bigfloat.Float {
	var (
		pw      = p + 16
		pow     = newF(pw).Set(x) // x^n
		term    = newF(pw)
		sum     = newF(pw).Set(x)
		t       = newF(pw)
		n       = int64(1)
		epsilon = epsAt(p + 8)
	)
	for {
		n++
		pow.Mul(pow, x)
		term.Quo(pow, t.SetInt64(n))
		if n%2 == 0 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
		if term.CmpAbs(t.Mul(epsilon, sum)) <= 0 {
			break
		}
	}
	return z.Set(sum)
}

// Log2 sets z to the rounded base-2 logarithm of x and returns z.
func Log2(z, x *bigfloat.Float) *bigfloat.Float {
	return logBase(z, x, ln2Cache)
}

// Log10 sets z to the rounded base-10 logarithm of x and returns z.
func Log10(z, x *bigfloat.Float) *bigfloat.Float {
	return logBase(z, x, ln10Cache)
}

var ln10Cache = &constCache{compute: computeLn10}

func computeLn10(prec uint) *bigfloat.Float {
	r := newF(prec)
	logAt(r, newF(16).SetInt64(10), prec)
	return r
}

// LogSeries sets z to log(x) computed with the atanh series regardless of
// the crossover. x must be finite and positive. Calibration times it against
// LogAGM to locate the crossover for the host machine.
func LogSeries(z, x *bigfloat.Float, prec uint) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(prec)
	}
	logSeriesAt(z, x, prec)
	return z
}

// LogAGM sets z to log(x) computed with the AGM identity regardless of the
// crossover. x must be finite and positive.
func LogAGM(z, x *bigfloat.Float, prec uint) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(prec)
	}
	logAGMAt(z, x, prec)
	return z
}

// logBase computes log(x)/log(base) with the shared special-case ladder of
// Log.
func logBase(z, x *bigfloat.Float, base *constCache) *bigfloat.Float {
	if z.Prec() == 0 {
		z.SetPrec(x.Prec())
	}
	switch {
	case x.IsNaN():
		return z.SetNaN()
	case x.IsZero():
		return z.SetInf(true)
	case x.Signbit():
		return z.SetNaN()
	case x.IsInf():
		return z.SetInf(false)
	}
	if x.Cmp(oneAt(8)) == 0 {
		return z.SetZero(false)
	}

	d := newF(x.Prec() + 8).Sub(x, oneAt(8))
	boost := -d.MantExp(nil)
	if boost < 0 {
		boost = 0
	}

	return zivRound(z, func(w uint, r *bigfloat.Float) {
		ww := w + uint(boost)
		logAt(r, x, ww)
		r.Quo(r, newF(ww+32).Set(base.get(ww+32)))
	})
}
