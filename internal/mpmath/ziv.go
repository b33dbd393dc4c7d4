package mpmath

import "github.com/agbru/mpcalc/internal/bigfloat"

// zivGuard is the initial number of guard bits for a function evaluation.
const zivGuard = 32

// zivRound evaluates f at increasing working precisions until two
// successive evaluations round to the same destination value, then stores
// the final rounding in z and returns it. f must fill r with the function
// value computed at working precision w; r carries nearest-even internally,
// and the destination's own mode is applied by the final rounding.
//
// Agreement of two roundings 32+ bits apart is Ziv's stopping criterion:
// a disagreement means the exact value lies within a guard-bit margin of a
// rounding boundary, so the margin is widened and the function re-evaluated.
// The loop is capped; hard-to-round cases beyond the cap are resolved with
// the widest evaluation.
func zivRound(z *bigfloat.Float, f func(w uint, r *bigfloat.Float)) *bigfloat.Float {
	prec := z.Prec()
	if prec == 0 {
		prec = bigfloat.DefaultPrec
		z.SetPrec(prec)
	}

	var (
		r    = new(bigfloat.Float)
		prev = bigfloat.New(prec).SetMode(z.Mode())
		cur  = bigfloat.New(prec).SetMode(z.Mode())
		have = false
	)
	for w, steps := prec+zivGuard, 0; steps < 6; w, steps = w+w/2, steps+1 {
		r.SetPrec(0).SetPrec(w)
		f(w, r)
		cur.Set(r)

		if r.IsNaN() || r.IsInf() || r.IsZero() {
			break
		}
		if have && cur.Cmp(prev) == 0 && cur.Signbit() == prev.Signbit() {
			break
		}
		prev.Set(r)
		have = true
	}
	return z.Set(r)
}
