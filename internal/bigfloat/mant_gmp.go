//go:build gmp

// This file provides a GMP-backed significand multiplier, conditionally
// compiled with the "gmp" build tag:
//   - Projects build without GMP by default (pure math/big).
//   - GMP support is opt-in, requiring: go build -tags=gmp
//   - The codebase remains portable across systems without libgmp installed.
//
// System requirements:
//   - Linux: sudo apt-get install libgmp-dev (Debian/Ubuntu)
//   - macOS: brew install gmp

package bigfloat

import (
	"math/big"

	"github.com/ncw/gmp"
)

// gmpMulThresholdBits is the significand size below which the conversion
// overhead to and from GMP outweighs its faster multiplication. Small
// products stay on math/big.
const gmpMulThresholdBits = 1 << 14

// mulInt sets z to x×y, delegating large products to libgmp.
func mulInt(z, x, y *big.Int) *big.Int {
	if x.BitLen() < gmpMulThresholdBits || y.BitLen() < gmpMulThresholdBits {
		return z.Mul(x, y)
	}
	var gx, gy gmp.Int
	gx.SetBytes(x.Bytes())
	gy.SetBytes(y.Bytes())
	gx.Mul(&gx, &gy)
	return z.SetBytes(gx.Bytes())
}
