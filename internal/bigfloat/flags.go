package bigfloat

import "sync"

// Flags is a bit set of the sticky exception flags maintained by the
// package. A flag, once raised by an operation, stays raised until it is
// cleared explicitly, so a sequence of operations can be checked for
// exceptional conditions after the fact.
type Flags uint8

// The sticky exception flags.
const (
	// Underflow is raised when a rounded result is too small in magnitude
	// for the configured exponent range and was flushed toward zero.
	Underflow Flags = 1 << iota
	// Overflow is raised when a rounded result exceeds the exponent range
	// and was saturated to infinity or the largest finite value.
	Overflow
	// NaNFlag is raised when an operation produces a new NaN.
	NaNFlag
	// Inexact is raised whenever a result had to be rounded.
	Inexact
	// ERange is raised by operations whose result is not meaningful, such
	// as comparing against a NaN or converting a NaN to an integer.
	ERange
)

func (f Flags) String() string {
	names := []struct {
		flag Flags
		name string
	}{
		{Underflow, "underflow"},
		{Overflow, "overflow"},
		{NaNFlag, "nan"},
		{Inexact, "inexact"},
		{ERange, "erange"},
	}
	s := ""
	for _, n := range names {
		if f&n.flag != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Exponent range limits. The working range is kept well inside int32 so
// that intermediate exponent arithmetic in int64 cannot overflow.
const (
	MaxExp = 1 << 30
	MinExp = -(1 << 30)
)

// state holds the process-wide exception flags and exponent range. MPFR
// keeps this state per process as well; guarding it with a mutex makes the
// package safe for concurrent evaluation pipelines.
var state = struct {
	sync.Mutex
	flags Flags
	emin  int32
	emax  int32
}{emin: MinExp, emax: MaxExp}

// raise sets the given flags.
func raise(f Flags) {
	state.Lock()
	state.flags |= f
	state.Unlock()
}

// GetFlags returns the currently raised exception flags.
func GetFlags() Flags {
	state.Lock()
	defer state.Unlock()
	return state.flags
}

// TestFlags reports whether all flags in f are currently raised.
func TestFlags(f Flags) bool {
	return GetFlags()&f == f
}

// ClearFlags lowers all exception flags.
func ClearFlags() {
	state.Lock()
	state.flags = 0
	state.Unlock()
}

// ClearFlag lowers the given flags, leaving the others untouched.
func ClearFlag(f Flags) {
	state.Lock()
	state.flags &^= f
	state.Unlock()
}

// ExpRange returns the configured exponent range [emin, emax]. Finite
// nonzero values x always satisfy emin <= exp(x) <= emax with
// 2^(exp−1) <= |x| < 2^exp.
func ExpRange() (emin, emax int32) {
	state.Lock()
	defer state.Unlock()
	return state.emin, state.emax
}

// SetExpRange configures the exponent range. Results whose exponent would
// fall below emin underflow to zero (no subnormals); results above emax
// overflow to infinity. SetExpRange panics if the range is empty or exceeds
// [MinExp, MaxExp]. Existing Float values are not revalidated.
func SetExpRange(emin, emax int32) {
	if emin > emax || emin < MinExp || emax > MaxExp {
		panic("bigfloat: invalid exponent range")
	}
	state.Lock()
	state.emin = emin
	state.emax = emax
	state.Unlock()
}
