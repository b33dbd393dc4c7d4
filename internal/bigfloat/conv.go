package bigfloat

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// log10of2 scaled by 1e5, used for cheap decimal exponent estimates.
const log10of2e5 = 30103

// SetString sets z to the value of s and returns z and a boolean indicating
// success. s must be a decimal floating-point number ("1.25", "-3e-7",
// ".5e2"), a hexadecimal significand with binary exponent ("0x1.8p-2"), or
// one of the special values "Inf", "+Inf", "-Inf", "NaN" (case-insensitive).
// If z's precision is 0, it is set to DefaultPrec before rounding.
func (z *Float) SetString(s string) (*Float, bool) {
	if z.prec == 0 {
		z.prec = DefaultPrec
	}

	neg := false
	rest := s
	if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
		neg = rest[0] == '-'
		rest = rest[1:]
	}

	switch strings.ToLower(rest) {
	case "inf", "infinity":
		return z.SetInf(neg), true
	case "nan":
		if neg {
			return nil, false
		}
		return z.SetNaN(), true
	}

	if strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X") {
		return z.setHexString(rest[2:], neg)
	}
	return z.setDecString(rest, neg)
}

// setDecString parses an unsigned decimal significand with an optional
// fractional part and decimal exponent, and rounds it into z.
func (z *Float) setDecString(s string, neg bool) (*Float, bool) {
	mant, frac, exp10, ok := splitNumber(s, isDecDigit, 'e')
	if !ok {
		return nil, false
	}
	digits := mant + frac
	exp10 -= int64(len(frac))

	var d big.Int
	if _, ok := d.SetString(digits, 10); !ok {
		return nil, false
	}
	if d.Sign() == 0 {
		return z.SetZero(neg), true
	}

	// Estimated binary exponent of d×10^exp10; used only to short-circuit
	// absurd decimal exponents before they allocate huge integers.
	approx2 := (int64(len(digits))+exp10)*100000/log10of2e5 + 4
	emin, emax := ExpRange()
	if approx2 > int64(emax)+int64(z.prec)+64 {
		return z.overflow(neg), true
	}
	if approx2 < int64(emin)-int64(z.prec)-64 {
		return z.underflow(neg), true
	}

	if exp10 >= 0 {
		var p big.Int
		p.Exp(tenInt, p.SetInt64(exp10), nil)
		d.Mul(&d, &p)
		return z.setFromMantExp(&d, 0, false, neg), true
	}

	// d × 10^exp10 = d / (5^t × 2^t) with t = −exp10. Divide by the power
	// of five with enough quotient bits and fold the power of two into
	// the scale.
	t := -exp10
	var den, num, q, r big.Int
	den.Exp(fiveInt, den.SetInt64(t), nil)
	k := int64(z.prec) + 3 + int64(den.BitLen()) - int64(d.BitLen())
	if k < 0 {
		k = 0
	}
	num.Lsh(&d, uint(k))
	q.QuoRem(&num, &den, &r)
	return z.setFromMantExp(&q, -k-t, r.Sign() != 0, neg), true
}

// setHexString parses an unsigned hexadecimal significand with a mandatory
// binary exponent ("1.8p-2" for the input 0x1.8p-2); the conversion from
// hexadecimal is exact before rounding.
func (z *Float) setHexString(s string, neg bool) (*Float, bool) {
	mant, frac, exp2, ok := splitNumber(s, isHexDigit, 'p')
	if !ok {
		return nil, false
	}
	digits := mant + frac
	exp2 -= 4 * int64(len(frac))

	var d big.Int
	if _, ok := d.SetString(digits, 16); !ok {
		return nil, false
	}
	if d.Sign() == 0 {
		return z.SetZero(neg), true
	}
	return z.setFromMantExp(&d, exp2, false, neg), true
}

// splitNumber splits s into integer digits, fractional digits and the value
// of an optional exponent part introduced by expChar (case-insensitive).
// The exponent digits are always decimal.
func splitNumber(s string, isDigit func(byte) bool, expChar byte) (mant, frac string, exp int64, ok bool) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	mant = s[:i]
	if i < len(s) && s[i] == '.' {
		i++
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		frac = s[i:j]
		i = j
	}
	if mant == "" && frac == "" {
		return "", "", 0, false
	}
	if i == len(s) {
		return mant, frac, 0, true
	}
	if s[i]|0x20 != expChar {
		return "", "", 0, false
	}
	e, err := strconv.ParseInt(s[i+1:], 10, 32)
	if err != nil {
		return "", "", 0, false
	}
	return mant, frac, e, true
}

func isDecDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDecDigit(c) || ('a' <= c|0x20 && c|0x20 <= 'f')
}

var (
	tenInt  = big.NewInt(10)
	fiveInt = big.NewInt(5)
)

// decDigits computes the first n significant decimal digits of the finite
// nonzero value |x|, rounding the last digit to nearest (ties to even). The
// returned decExp places the value as 0.digits × 10^decExp.
func (x *Float) decDigits(n int) (digits string, decExp int) {
	// First-guess decimal exponent from the binary exponent; |x| lies in
	// [2^(exp−1), 2^exp).
	decExp = int(int64(x.exp) * log10of2e5 / 100000)
	for {
		d, _ := x.scaledInt(n - decExp)
		s := d.String()
		switch {
		case len(s) == n:
			return s, decExp
		case len(s) > n:
			decExp++
		default:
			decExp--
		}
	}
}

// scaledInt returns round(|x| × 10^k) using exact integer arithmetic, and
// whether the result is exact.
func (x *Float) scaledInt(k int) (*big.Int, bool) {
	e := int64(x.exp) - int64(x.prec) // weight of the significand LSB

	var num, den big.Int
	num.Set(&x.mant)
	den.SetInt64(1)

	if k >= 0 {
		var p big.Int
		p.Exp(tenInt, p.SetInt64(int64(k)), nil)
		num.Mul(&num, &p)
	} else {
		den.Exp(tenInt, den.SetInt64(int64(-k)), nil)
	}
	if e >= 0 {
		num.Lsh(&num, uint(e))
	} else {
		den.Lsh(&den, uint(-e))
	}

	var q, r big.Int
	q.QuoRem(&num, &den, &r)
	if r.Sign() == 0 {
		return &q, true
	}
	// Round to nearest, ties to even.
	r.Lsh(&r, 1)
	switch r.Cmp(&den) {
	case 1:
		q.Add(&q, oneInt)
	case 0:
		if q.Bit(0) != 0 {
			q.Add(&q, oneInt)
		}
	}
	return &q, false
}

// roundTripDigits returns the number of decimal digits needed so that
// parsing the formatted value at the same precision recovers x exactly.
func (x *Float) roundTripDigits() int {
	return int(int64(x.prec)*log10of2e5/100000) + 2
}

// Text converts x to a string according to the given format and precision.
// The recognized formats are:
//
//	'e'  -d.dddde±dd, prec digits after the decimal point
//	'f'  -ddd.dddd, prec digits after the decimal point
//	'g'  like 'e' for large exponents, like 'f' otherwise, prec
//	     significant digits
//	'p'  -0x.hhhhp±dd, hexadecimal significand, binary exponent
//
// A negative precision selects the smallest number of digits necessary to
// represent x uniquely at its precision.
func (x *Float) Text(format byte, prec int) string {
	return string(x.Append(make([]byte, 0, 32), format, prec))
}

// String formats x like x.Text('g', 10).
func (x *Float) String() string {
	return x.Text('g', 10)
}

// Append appends the string form of x to buf, as generated by x.Text, and
// returns the extended buffer.
func (x *Float) Append(buf []byte, format byte, prec int) []byte {
	if x.neg && x.form != nan {
		buf = append(buf, '-')
	}
	switch x.form {
	case nan:
		return append(buf, "NaN"...)
	case inf:
		return append(buf, "Inf"...)
	}

	if format == 'p' {
		return x.appendHex(buf)
	}

	if prec < 0 {
		if x.form == zero {
			prec = 1
		} else {
			prec = x.roundTripDigits()
		}
		if format != 'g' {
			prec--
		}
	}

	switch format {
	case 'e':
		return x.appendSci(buf, prec)
	case 'f':
		return x.appendFixed(buf, prec)
	case 'g':
		if prec == 0 {
			prec = 1
		}
		return x.appendCompact(buf, prec)
	}
	return append(buf, '%', format)
}

func (x *Float) appendSci(buf []byte, prec int) []byte {
	digits, decExp := "0", 1
	if x.form == finite {
		digits, decExp = x.decDigits(prec + 1)
	} else if prec > 0 {
		digits = "0" + strings.Repeat("0", prec)
	}
	buf = append(buf, digits[0])
	if len(digits) > 1 {
		buf = append(buf, '.')
		buf = append(buf, digits[1:]...)
	}
	buf = append(buf, 'e')
	e := decExp - 1
	if e >= 0 {
		buf = append(buf, '+')
	}
	return strconv.AppendInt(buf, int64(e), 10)
}

func (x *Float) appendFixed(buf []byte, prec int) []byte {
	if x.form == zero {
		buf = append(buf, '0')
		if prec > 0 {
			buf = append(buf, '.')
			buf = append(buf, strings.Repeat("0", prec)...)
		}
		return buf
	}
	// Number of significant digits: all digits left of the point plus
	// prec digits after it.
	d, _ := x.scaledInt(prec)
	s := d.String()
	if d.Sign() == 0 {
		s = strings.Repeat("0", prec+1)
	}
	for len(s) <= prec {
		s = "0" + s
	}
	ip, fp := s[:len(s)-prec], s[len(s)-prec:]
	buf = append(buf, ip...)
	if prec > 0 {
		buf = append(buf, '.')
		buf = append(buf, fp...)
	}
	return buf
}

func (x *Float) appendCompact(buf []byte, prec int) []byte {
	if x.form == zero {
		return append(buf, '0')
	}
	digits, decExp := x.decDigits(prec)
	// Trim trailing zeros; they carry no information in 'g' form.
	digits = strings.TrimRight(digits, "0")
	if digits == "" {
		digits = "0"
	}
	if decExp < -3 || decExp > prec {
		// Scientific form.
		buf = append(buf, digits[0])
		if len(digits) > 1 {
			buf = append(buf, '.')
			buf = append(buf, digits[1:]...)
		}
		buf = append(buf, 'e')
		e := decExp - 1
		if e >= 0 {
			buf = append(buf, '+')
		}
		return strconv.AppendInt(buf, int64(e), 10)
	}
	// Positional form.
	switch {
	case decExp <= 0:
		buf = append(buf, "0."...)
		buf = append(buf, strings.Repeat("0", -decExp)...)
		buf = append(buf, digits...)
	case decExp >= len(digits):
		buf = append(buf, digits...)
		buf = append(buf, strings.Repeat("0", decExp-len(digits))...)
	default:
		buf = append(buf, digits[:decExp]...)
		buf = append(buf, '.')
		buf = append(buf, digits[decExp:]...)
	}
	return buf
}

// appendHex appends the hexadecimal-significand form -0x.hhhp±dd, which is
// exact and independent of the decimal conversion machinery.
func (x *Float) appendHex(buf []byte) []byte {
	if x.form == zero {
		return append(buf, "0x.0p+0"...)
	}
	// Pad the significand to a multiple of four bits so that the hex
	// digits align with the binary point at the top.
	var m big.Int
	pad := (4 - int(x.prec)&3) & 3
	m.Lsh(&x.mant, uint(pad))
	h := strings.TrimRight(m.Text(16), "0")
	if h == "" {
		h = "0"
	}
	buf = append(buf, "0x."...)
	buf = append(buf, h...)
	buf = append(buf, 'p')
	if x.exp >= 0 {
		buf = append(buf, '+')
	}
	return strconv.AppendInt(buf, int64(x.exp), 10)
}

// Format implements fmt.Formatter. It accepts the verbs 'e', 'f', 'g', 'p',
// 'v' and 's', with 'v' and 's' formatted like 'g'.
func (x *Float) Format(s fmt.State, format rune) {
	prec, hasPrec := s.Precision()
	if !hasPrec {
		prec = 6
	}
	switch format {
	case 'e', 'f', 'p':
		s.Write(x.Append(nil, byte(format), prec))
	case 'g':
		if !hasPrec {
			prec = -1
		}
		s.Write(x.Append(nil, 'g', prec))
	case 'v', 's':
		s.Write([]byte(x.String()))
	default:
		fmt.Fprintf(s, "%%!%c(bigfloat.Float=%s)", format, x.String())
	}
}

// MarshalText implements encoding.TextMarshaler, producing a decimal form
// with enough digits to round-trip at x's precision.
func (x *Float) MarshalText() ([]byte, error) {
	return x.Append(nil, 'g', -1), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. If x's precision is 0,
// the precision is inferred from the digit count of the input.
func (z *Float) UnmarshalText(text []byte) error {
	s := string(text)
	if z.prec == 0 {
		// Infer a precision that preserves every digit of the input.
		n := 0
		for _, c := range s {
			if c >= '0' && c <= '9' {
				n++
			}
		}
		p := uint(int64(n)*100000/log10of2e5) + 2
		if p < DefaultPrec {
			p = DefaultPrec
		}
		z.prec = uint32(p)
	}
	if _, ok := z.SetString(s); !ok {
		return fmt.Errorf("bigfloat: cannot unmarshal %q into a Float", s)
	}
	return nil
}

// SetFloat64 sets z to the (possibly rounded) value of x and returns z. If
// z's precision is 0, it is set to 53. SetFloat64 of a NaN sets z to NaN
// without raising the NaN flag; the input already carried the information.
func (z *Float) SetFloat64(x float64) *Float {
	if z.prec == 0 {
		z.prec = 53
	}
	switch {
	case math.IsNaN(x):
		return z.setNaNQuiet()
	case math.IsInf(x, 0):
		return z.SetInf(math.Signbit(x))
	case x == 0:
		return z.SetZero(math.Signbit(x))
	}
	neg := math.Signbit(x)
	frac, e2 := math.Frexp(math.Abs(x))
	// frac ∈ [0.5, 1) is exactly representable in 53 bits.
	m := new(big.Int).SetUint64(uint64(math.Ldexp(frac, 53)))
	return z.setFromMantExp(m, int64(e2)-53, false, neg)
}

// Float64 returns the float64 value nearest to x (rounding to nearest with
// ties to even) and an Accuracy describing the rounding error. Values too
// large for a float64 yield ±Inf and values too small yield ±0; subnormal
// results are rounded at their reduced precision.
func (x *Float) Float64() (float64, Accuracy) {
	switch x.form {
	case nan:
		return math.NaN(), Exact
	case inf:
		if x.neg {
			return math.Inf(-1), Exact
		}
		return math.Inf(+1), Exact
	case zero:
		if x.neg {
			return math.Copysign(0, -1), Exact
		}
		return 0, Exact
	}

	e2 := int64(x.exp)
	bits := 53
	if e2 < -1021 {
		// Subnormal range: fewer significand bits are available.
		bits = 53 - int(-1021-e2)
		if bits <= 0 {
			// Smaller than half the smallest subnormal.
			if x.neg {
				return math.Copysign(0, -1), Above
			}
			return 0, Below
		}
	}

	m, expAdj, acc := roundNearest(&x.mant, bits)
	e2 += int64(expAdj)
	if e2 > 1024 {
		if x.neg {
			return math.Inf(-1), Below
		}
		return math.Inf(+1), Above
	}
	f := math.Ldexp(float64(m), int(e2)-bits)
	if x.neg {
		f = -f
		acc = -acc
	}
	return f, acc
}

// roundNearest rounds the positive integer significand m to at most bits
// bits using round-to-nearest-even, returning the rounded value as a
// uint64, the exponent adjustment caused by a carry, and the accuracy for a
// positive value. bits must be at most 63.
func roundNearest(m *big.Int, bits int) (uint64, int, Accuracy) {
	bl := m.BitLen()
	shift := bl - bits
	if shift <= 0 {
		var t big.Int
		t.Lsh(m, uint(-shift))
		return t.Uint64(), 0, Exact
	}
	var q big.Int
	q.Rsh(m, uint(shift))
	v := q.Uint64()
	rbit := m.Bit(shift-1) != 0
	sticky := m.TrailingZeroBits() < uint(shift-1)
	if !rbit && !sticky {
		return v, 0, Exact
	}
	if rbit && (sticky || v&1 != 0) {
		v++
		if v == 1<<uint(bits) {
			return v >> 1, 1, Above
		}
		return v, 0, Above
	}
	return v, 0, Below
}

// Int64 returns the integer value of x truncated toward zero, and the
// accuracy of the truncation. If x cannot be represented in an int64 the
// nearest bound is returned and the accuracy indicates the direction; for
// NaN the result is 0 and the ERange flag is raised.
func (x *Float) Int64() (int64, Accuracy) {
	switch x.form {
	case nan:
		raise(ERange)
		return 0, Exact
	case zero:
		return 0, Exact
	case inf:
		if x.neg {
			return math.MinInt64, Above
		}
		return math.MaxInt64, Below
	}

	i, acc := x.truncInt()
	if x.neg {
		acc = -acc
		i.Neg(i)
	}
	if !i.IsInt64() {
		if x.neg {
			return math.MinInt64, Above
		}
		return math.MaxInt64, Below
	}
	return i.Int64(), acc
}

// Uint64 returns the integer value of x truncated toward zero, and the
// accuracy of the truncation; negative values saturate at 0.
func (x *Float) Uint64() (uint64, Accuracy) {
	switch x.form {
	case nan:
		raise(ERange)
		return 0, Exact
	case zero:
		return 0, Exact
	case inf:
		if x.neg {
			return 0, Above
		}
		return math.MaxUint64, Below
	}
	if x.neg {
		return 0, Above
	}
	i, acc := x.truncInt()
	if !i.IsUint64() {
		return math.MaxUint64, Below
	}
	return i.Uint64(), acc
}

// Int returns the result of truncating x toward zero as a *big.Int, and the
// accuracy of the truncation. If a non-nil z is provided, the result is
// stored in z. For ±Inf and NaN the result is nil and, for NaN, the ERange
// flag is raised.
func (x *Float) Int(z *big.Int) (*big.Int, Accuracy) {
	if z == nil {
		z = new(big.Int)
	}
	switch x.form {
	case nan:
		raise(ERange)
		return nil, Exact
	case inf:
		return nil, makeAcc(x.neg)
	case zero:
		return z.SetInt64(0), Exact
	}
	i, acc := x.truncInt()
	z.Set(i)
	if x.neg {
		z.Neg(z)
		acc = -acc
	}
	return z, acc
}

// truncInt returns |x| truncated to an integer, with the accuracy of the
// truncation for a positive value.
func (x *Float) truncInt() (*big.Int, Accuracy) {
	i := new(big.Int)
	switch {
	case x.exp <= 0:
		// |x| < 1.
		return i, Below
	case int64(x.exp) >= int64(x.prec):
		i.Lsh(&x.mant, uint(int64(x.exp)-int64(x.prec)))
		return i, Exact
	}
	shift := uint(int64(x.prec) - int64(x.exp))
	i.Rsh(&x.mant, shift)
	if x.mant.TrailingZeroBits() < shift {
		return i, Below
	}
	return i, Exact
}
