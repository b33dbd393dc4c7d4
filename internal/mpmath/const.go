// Package mpmath implements correctly rounded elementary and special
// functions on top of the bigfloat engine.
//
// Every function evaluates at a working precision above the destination
// precision and verifies the rounding by re-evaluating with more guard bits
// until two successive roundings agree (Ziv's strategy). The shared
// constants π, ln 2 and e are computed once per precision and grown lazily.
package mpmath

import (
	"sync"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// constCache holds a lazily grown shared constant. The cached value is only
// ever replaced by a higher-precision one, so readers at or below the cached
// precision always get a usable copy.
type constCache struct {
	mu      sync.Mutex
	val     *bigfloat.Float
	compute func(prec uint) *bigfloat.Float
}

// get returns the constant with at least prec bits of precision. The result
// is a shared read-only value; callers must not mutate it.
func (c *constCache) get(prec uint) *bigfloat.Float {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.val == nil || c.val.Prec() < prec {
		// Growing in chunks avoids recomputing on every small increase.
		p := prec + 64
		if c.val != nil && 2*c.val.Prec() > p {
			p = 2 * c.val.Prec()
		}
		c.val = c.compute(p)
	}
	return c.val
}

var (
	piCache  = &constCache{compute: computePi}
	ln2Cache = &constCache{compute: computeLn2}
	eCache   = &constCache{compute: computeE}
)

// Pi sets z to π rounded to z's precision and returns z.
func Pi(z *bigfloat.Float) *bigfloat.Float {
	prec := z.Prec()
	if prec == 0 {
		prec = bigfloat.DefaultPrec
	}
	return z.Set(piCache.get(prec + 16))
}

// Ln2 sets z to log(2) rounded to z's precision and returns z.
func Ln2(z *bigfloat.Float) *bigfloat.Float {
	prec := z.Prec()
	if prec == 0 {
		prec = bigfloat.DefaultPrec
	}
	return z.Set(ln2Cache.get(prec + 16))
}

// E sets z to Euler's number e rounded to z's precision and returns z.
func E(z *bigfloat.Float) *bigfloat.Float {
	prec := z.Prec()
	if prec == 0 {
		prec = bigfloat.DefaultPrec
	}
	return z.Set(eCache.get(prec + 16))
}

// newF returns a fresh Float at the given working precision, rounding to
// nearest-even. All internal evaluation uses nearest-even; the caller's mode
// is applied only by the final rounding into the destination.
func newF(prec uint) *bigfloat.Float {
	return bigfloat.New(prec)
}

// small integer constants used throughout the package
func oneAt(prec uint) *bigfloat.Float  { return newF(prec).SetInt64(1) }
func twoAt(prec uint) *bigfloat.Float  { return newF(prec).SetInt64(2) }
func fourAt(prec uint) *bigfloat.Float { return newF(prec).SetInt64(4) }

func halfAt(prec uint) *bigfloat.Float {
	return newF(prec).SetMantExp(oneAt(prec), -1)
}

// epsAt returns 2^-n, the convergence threshold for fixed-point iterations
// at working precision n.
func epsAt(n uint) *bigfloat.Float {
	return newF(32).SetMantExp(oneAt(32), -int(n))
}

// agm sets z to the arithmetic-geometric mean of a and b and returns z.
// a and b are consumed as iteration state. The iteration converges
// quadratically, so the loop runs O(log prec) times.
func agm(z, a, b *bigfloat.Float) *bigfloat.Float {
	prec := z.Prec()
	var (
		t       = newF(prec)
		half    = halfAt(prec)
		epsilon = epsAt(prec)
	)
	for {
		t.Set(a)
		a.Mul(z.Add(a, b), half)
		b.Sqrt(z.Mul(t, b))
		if z.Sub(a, b).CmpAbs(epsilon) <= 0 {
			break
		}
	}
	return z.Set(a)
}

// computePi computes π to prec bits with the Gauss-Legendre iteration.
func computePi(prec uint) *bigfloat.Float {
	pp := prec + 32

	var (
		a = oneAt(pp)
		b = newF(pp)
		t = newF(pp)
		p = oneAt(pp)
		u = newF(pp)
		z = newF(pp)

		half    = halfAt(pp)
		quarter = newF(pp).SetMantExp(oneAt(pp), -2)
		epsilon = epsAt(pp - 8)
	)
	b.Quo(a, z.Sqrt(twoAt(pp)))
	t.Set(quarter)

	for {
		u.Set(a)                 // a_n
		a.Mul(z.Add(a, b), half) // a_n+1
		b.Sqrt(z.Mul(u, b))      // b_n+1

		// t -= p × (a_n − a_n+1)²
		u.Sub(u, a)
		u.Mul(u, u)
		u.Mul(u, p)
		t.Sub(t, u)

		p.Add(p, p)

		if z.Sub(a, b).CmpAbs(epsilon) <= 0 {
			break
		}
	}
	// π ≈ (a+b)² / (4t)
	z.Add(a, b)
	z.Mul(z, z)
	u.Mul(fourAt(pp), t)
	z.Quo(z, u)
	return newF(prec).Set(z)
}

// computeLn2 computes log(2) to prec bits using the Salamin identity
// log(s) = π / (2·AGM(1, 4/s)) for s = 2^m large enough, so that
// log 2 = log(2^m) / m with the approximation error below the target.
func computeLn2(prec uint) *bigfloat.Float {
	pp := prec + 32
	m := int(pp)/2 + 4

	var (
		a = oneAt(pp)
		b = newF(pp).SetMantExp(oneAt(pp), 2-m) // 4/2^m
		z = newF(pp)
	)
	agm(z, a, b)
	z.Add(z, z)
	z.Quo(newF(pp).Set(piCache.get(pp)), z) // log(2^m)
	z.Quo(z, newF(pp).SetInt64(int64(m)))
	return newF(prec).Set(z)
}

// computeE computes e to prec bits by direct Taylor summation of e^1 with
// halved argument: e = (e^(1/2))², keeping the series short.
func computeE(prec uint) *bigfloat.Float {
	pp := prec + 32
	half := halfAt(pp)
	z := newF(pp)
	expTaylor(z, half, pp)
	z.Mul(z, z)
	return newF(prec).Set(z)
}
