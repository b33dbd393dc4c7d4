package mpmath

import (
	"fmt"
	"sort"
	"sync"

	"github.com/agbru/mpcalc/internal/bigfloat"
)

// Function describes one registered named function: its arity and the
// evaluator that applies it. The evaluator receives exactly Arity arguments
// and writes the rounded result into z at z's precision and mode.
type Function struct {
	Name  string
	Arity int
	Doc   string
	Eval  func(z *bigfloat.Float, args []*bigfloat.Float) *bigfloat.Float
}

// Registry is a thread-safe name → Function table. It backs both the
// expression evaluator's function calls and the server's function listing.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

// NewRegistry creates a Registry with the standard function set
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Function)}

	unary := func(name, doc string, f func(z, x *bigfloat.Float) *bigfloat.Float) {
		_ = r.Register(Function{
			Name:  name,
			Arity: 1,
			Doc:   doc,
			Eval: func(z *bigfloat.Float, args []*bigfloat.Float) *bigfloat.Float {
				return f(z, args[0])
			},
		})
	}
	binary := func(name, doc string, f func(z, x, y *bigfloat.Float) *bigfloat.Float) {
		_ = r.Register(Function{
			Name:  name,
			Arity: 2,
			Doc:   doc,
			Eval: func(z *bigfloat.Float, args []*bigfloat.Float) *bigfloat.Float {
				return f(z, args[0], args[1])
			},
		})
	}

	unary("abs", "absolute value", func(z, x *bigfloat.Float) *bigfloat.Float { return z.Abs(x) })
	unary("sqrt", "square root", func(z, x *bigfloat.Float) *bigfloat.Float { return z.Sqrt(x) })

	unary("exp", "e^x", Exp)
	unary("expm1", "e^x - 1, accurate near zero", Expm1)
	unary("log", "natural logarithm", Log)
	unary("ln", "natural logarithm", Log)
	unary("log1p", "log(1+x), accurate near zero", Log1p)
	unary("log2", "base-2 logarithm", Log2)
	unary("log10", "base-10 logarithm", Log10)
	binary("pow", "x raised to the power y", Pow)

	unary("sin", "sine", Sin)
	unary("cos", "cosine", Cos)
	unary("tan", "tangent", Tan)
	unary("asin", "arc sine", Asin)
	unary("acos", "arc cosine", Acos)
	unary("atan", "arc tangent", Atan)
	binary("atan2", "angle of the point (x, y)", Atan2)

	unary("sinh", "hyperbolic sine", Sinh)
	unary("cosh", "hyperbolic cosine", Cosh)
	unary("tanh", "hyperbolic tangent", Tanh)
	unary("asinh", "inverse hyperbolic sine", Asinh)
	unary("acosh", "inverse hyperbolic cosine", Acosh)
	unary("atanh", "inverse hyperbolic tangent", Atanh)

	unary("gamma", "gamma function", Gamma)
	unary("fact", "factorial, x! = gamma(x+1)", func(z, x *bigfloat.Float) *bigfloat.Float {
		t := bigfloat.New(x.Prec() + 2).Add(x, bigfloat.New(8).SetInt64(1))
		return Gamma(z, t)
	})
	unary("zeta", "Riemann zeta function", Zeta)

	unary("j0", "Bessel function of the first kind, order 0", J0)
	unary("j1", "Bessel function of the first kind, order 1", J1)
	binary("jn", "Bessel function of the first kind of integer order n", func(z, n, x *bigfloat.Float) *bigfloat.Float {
		order, acc := n.Int64()
		if !n.IsInt() || acc != bigfloat.Exact {
			return z.SetNaN()
		}
		return Jn(z, order, x)
	})

	return r
}

// Register adds f to the registry, replacing any function with the same
// name. The name, a positive arity and an evaluator are required.
func (r *Registry) Register(f Function) error {
	if f.Name == "" {
		return fmt.Errorf("registry: function name is empty")
	}
	if f.Arity < 1 {
		return fmt.Errorf("registry: function %q has arity %d", f.Name, f.Arity)
	}
	if f.Eval == nil {
		return fmt.Errorf("registry: function %q has no evaluator", f.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[f.Name] = f
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.funcs[name]
	return f, ok
}

// Has reports whether a function with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns the registered function names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered functions sorted by name.
func (r *Registry) All() []Function {
	r.mu.RLock()
	defer r.mu.RUnlock()
	funcs := make([]Function, 0, len(r.funcs))
	for _, f := range r.funcs {
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name < funcs[j].Name })
	return funcs
}

// globalRegistry is the shared default instance.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the shared registry used by the evaluator and the
// server when no custom instance is supplied.
func DefaultRegistry() *Registry {
	return globalRegistry
}
