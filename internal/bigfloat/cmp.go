package bigfloat

import "math/big"

// Cmp compares x and y and returns:
//
//	-1 if x <  y
//	 0 if x == y (including -0 == +0, -Inf == -Inf, +Inf == +Inf)
//	+1 if x >  y
//
// If either operand is a NaN the comparison is unordered: Cmp returns 0 and
// raises the ERange flag, following MPFR's erange semantics.
func (x *Float) Cmp(y *Float) int {
	if debugFloat {
		x.validate()
		y.validate()
	}
	if x.form == nan || y.form == nan {
		raise(ERange)
		return 0
	}

	mx, my := x.ord(), y.ord()
	switch {
	case mx < my:
		return -1
	case mx > my:
		return +1
	}
	// mx == my: only -1 (finite negative) and +1 (finite positive) need
	// a significand comparison.
	switch mx {
	case -1:
		return y.ucmp(x)
	case +1:
		return x.ucmp(y)
	}
	return 0
}

// CmpAbs compares |x| and |y|, with the same NaN handling as Cmp.
func (x *Float) CmpAbs(y *Float) int {
	if x.form == nan || y.form == nan {
		raise(ERange)
		return 0
	}
	switch {
	case x.form == inf && y.form == inf:
		return 0
	case x.form == inf:
		return +1
	case y.form == inf:
		return -1
	case x.form == zero && y.form == zero:
		return 0
	case x.form == zero:
		return -1
	case y.form == zero:
		return +1
	}
	return x.ucmp(y)
}

// ord classifies x into a coarse order: -2 (-Inf), -1 (finite < 0),
// 0 (±0), +1 (finite > 0), +2 (+Inf).
func (x *Float) ord() int {
	var m int
	switch x.form {
	case zero:
		return 0
	case finite:
		m = 1
	case inf:
		m = 2
	}
	if x.neg {
		m = -m
	}
	return m
}

// ucmp compares the magnitudes of the finite nonzero values x and y.
func (x *Float) ucmp(y *Float) int {
	switch {
	case x.exp < y.exp:
		return -1
	case x.exp > y.exp:
		return +1
	}
	// Same exponent: align the significands to a common precision.
	if x.prec == y.prec {
		return x.mant.Cmp(&y.mant)
	}
	var t big.Int
	if x.prec < y.prec {
		t.Lsh(&x.mant, uint(y.prec-x.prec))
		return t.Cmp(&y.mant)
	}
	t.Lsh(&y.mant, uint(x.prec-y.prec))
	return x.mant.Cmp(&t)
}
