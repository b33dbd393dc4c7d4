package bigfloat

import "math/big"

// Guard distance, in bits, beyond which the smaller addition operand cannot
// influence anything but the sticky bit of the result.
const stickyGuard = 8

// workPrec initializes z's precision for a binary operation on x and y.
func (z *Float) workPrec(x, y *Float) {
	if z.prec == 0 {
		z.prec = umax32(x.prec, y.prec)
		if z.prec == 0 {
			z.prec = DefaultPrec
		}
	}
}

// Add sets z to the rounded sum x+y and returns z. Rounding is performed
// according to z's precision and rounding mode.
//
// Special cases follow IEEE 754 / MPFR semantics:
//
//	 Inf + -Inf = NaN (and the NaN flag is raised)
//	  +0 +  -0 = +0 (or -0 when rounding toward negative infinity)
func (z *Float) Add(x, y *Float) *Float {
	return z.add2(x, y, y.neg)
}

// Sub sets z to the rounded difference x-y and returns z, with the same
// special-case semantics as Add.
func (z *Float) Sub(x, y *Float) *Float {
	return z.add2(x, y, !y.neg)
}

// add2 implements addition of x and ±y, with y's sign taken as yneg.
func (z *Float) add2(x, y *Float, yneg bool) *Float {
	if debugFloat {
		x.validate()
		y.validate()
	}
	z.workPrec(x, y)

	if x.form == nan || y.form == nan {
		return z.SetNaN()
	}
	if x.form == inf || y.form == inf {
		if x.form == inf && y.form == inf && x.neg != yneg {
			return z.SetNaN()
		}
		if x.form == inf {
			return z.SetInf(x.neg)
		}
		return z.SetInf(yneg)
	}
	if x.form == zero {
		if y.form == zero {
			neg := x.neg && yneg
			if z.mode == ToNegativeInf {
				neg = x.neg || yneg
			}
			return z.SetZero(neg)
		}
		return z.setSigned(y, yneg)
	}
	if y.form == zero {
		return z.setSigned(x, x.neg)
	}

	return z.addRaw(
		&x.mant, int64(x.exp)-int64(x.prec), x.neg,
		&y.mant, int64(y.exp)-int64(y.prec), yneg,
	)
}

// setSigned sets z to x rounded, with the sign forced to neg.
func (z *Float) setSigned(x *Float, neg bool) *Float {
	flip := neg != x.neg
	z.Set(x)
	z.neg = neg
	if flip && z.acc != Exact {
		z.acc = -z.acc
	}
	return z
}

// addRaw sets z to the correctly rounded value of
//
//	(-1)^aneg × a × 2^as + (-1)^bneg × b × 2^bs
//
// where a, b > 0 are integer significands and as, bs are the weights of
// their least significant bits. The computation is exact except when the
// operands are so far apart that the smaller one can only contribute a
// sticky bit, in which case a bounded surrogate is used.
func (z *Float) addRaw(am *big.Int, as int64, aneg bool, bm *big.Int, bs int64, bneg bool) *Float {
	atop := as + int64(am.BitLen())
	btop := bs + int64(bm.BitLen())
	if atop < btop {
		am, bm = bm, am
		as, bs = bs, as
		aneg, bneg = bneg, aneg
		atop, btop = btop, atop
	}

	prec := int64(z.prec)
	if prec == 0 {
		prec = DefaultPrec
	}

	if btop < atop-prec-stickyGuard && btop < as-stickyGuard {
		// b lies below the rounding horizon AND below a's own least
		// significant bit, so it cannot perturb any retained bit of a,
		// only the sticky bit. Both conditions are needed: when the
		// destination is narrower than a, a b overlapping a's low bits
		// would otherwise be collapsed even though adding it can carry
		// into the rounding position. For a same-sign b a plain sticky
		// bit is enough. For an opposite-sign b the exact value lies
		// just below a: nudge a down by one unit placed safely below
		// the round bit, and let the sticky bit carry the rest.
		if aneg == bneg {
			var m big.Int
			return z.setFromMantExp(m.Set(am), as, true, aneg)
		}
		k := int64(stickyGuard)
		if d := prec + stickyGuard - int64(am.BitLen()); d > k {
			k = d
		}
		var m big.Int
		m.Lsh(am, uint(k))
		m.Sub(&m, oneInt)
		return z.setFromMantExp(&m, as-k, true, aneg)
	}

	// Exact path: align both operands to a common scale. The shift size
	// is bounded by the operand precisions plus the sticky guard.
	scale := as
	if bs < scale {
		scale = bs
	}
	var ta, tb, m big.Int
	ta.Lsh(am, uint(as-scale))
	tb.Lsh(bm, uint(bs-scale))

	if aneg == bneg {
		m.Add(&ta, &tb)
		return z.setFromMantExp(&m, scale, false, aneg)
	}

	switch ta.Cmp(&tb) {
	case 0:
		// x − x: exact zero, negative only when rounding down.
		return z.SetZero(z.mode == ToNegativeInf)
	case 1:
		m.Sub(&ta, &tb)
		return z.setFromMantExp(&m, scale, false, aneg)
	default:
		m.Sub(&tb, &ta)
		return z.setFromMantExp(&m, scale, false, bneg)
	}
}

// Mul sets z to the rounded product x×y and returns z.
//
// Special cases: ±0 × ±Inf (in either order) is NaN and raises the NaN
// flag; otherwise infinities and zeros multiply with XORed signs.
func (z *Float) Mul(x, y *Float) *Float {
	if debugFloat {
		x.validate()
		y.validate()
	}
	z.workPrec(x, y)
	neg := x.neg != y.neg

	if x.form == nan || y.form == nan {
		return z.SetNaN()
	}
	if x.form == inf || y.form == inf {
		if x.form == zero || y.form == zero {
			return z.SetNaN()
		}
		return z.SetInf(neg)
	}
	if x.form == zero || y.form == zero {
		return z.SetZero(neg)
	}

	var m big.Int
	mulInt(&m, &x.mant, &y.mant)
	scale := int64(x.exp) - int64(x.prec) + int64(y.exp) - int64(y.prec)
	return z.setFromMantExp(&m, scale, false, neg)
}

// Quo sets z to the rounded quotient x/y and returns z.
//
// Special cases: 0/0 and Inf/Inf are NaN and raise the NaN flag; x/±0 for
// finite nonzero x is ±Inf (no separate divide-by-zero flag is kept).
func (z *Float) Quo(x, y *Float) *Float {
	if debugFloat {
		x.validate()
		y.validate()
	}
	z.workPrec(x, y)
	neg := x.neg != y.neg

	if x.form == nan || y.form == nan {
		return z.SetNaN()
	}
	if x.form == inf {
		if y.form == inf {
			return z.SetNaN()
		}
		return z.SetInf(neg)
	}
	if y.form == inf {
		return z.SetZero(neg)
	}
	if x.form == zero {
		if y.form == zero {
			return z.SetNaN()
		}
		return z.SetZero(neg)
	}
	if y.form == zero {
		return z.SetInf(neg)
	}

	// Produce a quotient with prec+2 significant bits and recover the
	// sticky bit from the remainder.
	k := int64(z.prec) + 2 + int64(y.mant.BitLen()) - int64(x.mant.BitLen())
	if k < 0 {
		k = 0
	}
	var num, q, r big.Int
	num.Lsh(&x.mant, uint(k))
	q.QuoRem(&num, &y.mant, &r)
	scale := int64(x.exp) - int64(x.prec) - (int64(y.exp) - int64(y.prec)) - k
	return z.setFromMantExp(&q, scale, r.Sign() != 0, neg)
}

// FMA sets z to the rounded value of x×y + u, computed with a single
// rounding at the end (fused multiply-add), and returns z.
func (z *Float) FMA(x, y, u *Float) *Float {
	if debugFloat {
		x.validate()
		y.validate()
		u.validate()
	}
	if z.prec == 0 {
		z.prec = umax32(umax32(x.prec, y.prec), u.prec)
		if z.prec == 0 {
			z.prec = DefaultPrec
		}
	}
	if x.form == nan || y.form == nan || u.form == nan {
		return z.SetNaN()
	}

	pneg := x.neg != y.neg
	switch {
	case x.form == inf || y.form == inf:
		if x.form == zero || y.form == zero {
			return z.SetNaN()
		}
		// Infinite product: behaves like Inf + u.
		if u.form == inf && u.neg != pneg {
			return z.SetNaN()
		}
		return z.SetInf(pneg)
	case x.form == zero || y.form == zero:
		// Zero product: behaves like ±0 + u.
		if u.form == zero {
			neg := pneg && u.neg
			if z.mode == ToNegativeInf {
				neg = pneg || u.neg
			}
			return z.SetZero(neg)
		}
		return z.setSigned(u, u.neg)
	}

	// Finite nonzero product, computed exactly.
	var pm big.Int
	mulInt(&pm, &x.mant, &y.mant)
	pscale := int64(x.exp) - int64(x.prec) + int64(y.exp) - int64(y.prec)

	switch u.form {
	case inf:
		return z.SetInf(u.neg)
	case zero:
		return z.setFromMantExp(&pm, pscale, false, pneg)
	}
	return z.addRaw(&pm, pscale, pneg, &u.mant, int64(u.exp)-int64(u.prec), u.neg)
}
