//go:build !gmp

package bigfloat

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
)

// fftMulThresholdBits is the significand size above which the Schönhage-
// Strassen multiplication in bigfft beats math/big's Karatsuba. Below it the
// FFT setup cost dominates, so small products stay on math/big.
const fftMulThresholdBits = 1 << 14

// mulInt sets z to x×y and returns z. Large products are routed through
// bigfft; build with -tags=gmp to use libgmp instead.
func mulInt(z, x, y *big.Int) *big.Int {
	if x.BitLen() < fftMulThresholdBits || y.BitLen() < fftMulThresholdBits {
		return z.Mul(x, y)
	}
	return z.Set(bigfft.Mul(x, y))
}
