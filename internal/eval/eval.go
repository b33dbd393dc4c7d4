// Package eval implements the expression language of the calculator: a
// lexer, a recursive-descent parser and a tree-walking evaluator over
// arbitrary-precision floats. Functions are resolved against the mpmath
// registry and the usual constants (pi, e, ln2, inf, nan) are built in.
package eval

import (
	"fmt"
	"math/big"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/mpmath"
)

// EvalError reports a failure while evaluating a parsed expression, such as
// an unknown function or an arity mismatch, with the byte offset of the
// offending node.
type EvalError struct {
	Pos int
	Msg string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation error at offset %d: %s", e.Pos, e.Msg)
}

// Evaluator evaluates expressions at a fixed precision and rounding mode.
// Every node of the tree is rounded into the target precision, matching
// what a pocket-calculator user expects from a chain of operations.
type Evaluator struct {
	prec uint
	mode bigfloat.RoundingMode
	reg  *mpmath.Registry
}

// NewEvaluator creates an Evaluator. A zero precision selects the default,
// a nil registry selects the shared default registry.
func NewEvaluator(prec uint, mode bigfloat.RoundingMode, reg *mpmath.Registry) *Evaluator {
	if prec == 0 {
		prec = bigfloat.DefaultPrec
	}
	if reg == nil {
		reg = mpmath.DefaultRegistry()
	}
	return &Evaluator{prec: prec, mode: mode, reg: reg}
}

// Prec returns the evaluation precision in bits.
func (e *Evaluator) Prec() uint { return e.prec }

// Mode returns the evaluation rounding mode.
func (e *Evaluator) Mode() bigfloat.RoundingMode { return e.mode }

// Evaluate parses and evaluates src.
func (e *Evaluator) Evaluate(src string) (*bigfloat.Float, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return e.Eval(expr)
}

// Eval evaluates a parsed expression tree.
func (e *Evaluator) Eval(expr Expr) (*bigfloat.Float, error) {
	return e.eval(expr)
}

func (e *Evaluator) newFloat() *bigfloat.Float {
	return bigfloat.New(e.prec).SetMode(e.mode)
}

func (e *Evaluator) eval(n Expr) (*bigfloat.Float, error) {
	switch n := n.(type) {
	case *NumberLit:
		z, ok := e.newFloat().SetString(n.Text)
		if !ok {
			return nil, &EvalError{Pos: n.TokPos, Msg: fmt.Sprintf("invalid number %q", n.Text)}
		}
		return z, nil

	case *Ident:
		z := e.newFloat()
		switch n.Name {
		case "pi":
			return mpmath.Pi(z), nil
		case "e":
			return mpmath.E(z), nil
		case "ln2":
			return mpmath.Ln2(z), nil
		case "inf":
			return z.SetInf(false), nil
		case "nan":
			return z.SetNaN(), nil
		}
		return nil, &EvalError{Pos: n.TokPos, Msg: fmt.Sprintf("unknown constant %q", n.Name)}

	case *Unary:
		x, err := e.eval(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == '-' {
			return x.Neg(x), nil
		}
		return x, nil

	case *Binary:
		l, err := e.eval(n.L)
		if err != nil {
			return nil, err
		}
		r, err := e.eval(n.R)
		if err != nil {
			return nil, err
		}
		z := e.newFloat()
		switch n.Op {
		case '+':
			return z.Add(l, r), nil
		case '-':
			return z.Sub(l, r), nil
		case '*':
			return z.Mul(l, r), nil
		case '/':
			return z.Quo(l, r), nil
		case '^':
			return mpmath.Pow(z, l, r), nil
		case '%':
			return mod(z, l, r), nil
		}
		return nil, &EvalError{Pos: n.TokPos, Msg: fmt.Sprintf("unknown operator %q", n.Op)}

	case *Call:
		f, ok := e.reg.Lookup(n.Name)
		if !ok {
			return nil, &EvalError{Pos: n.TokPos, Msg: fmt.Sprintf("unknown function %q", n.Name)}
		}
		if len(n.Args) != f.Arity {
			return nil, &EvalError{
				Pos: n.TokPos,
				Msg: fmt.Sprintf("%s expects %d argument(s), got %d", n.Name, f.Arity, len(n.Args)),
			}
		}
		args := make([]*bigfloat.Float, len(n.Args))
		for i, a := range n.Args {
			v, err := e.eval(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return f.Eval(e.newFloat(), args), nil
	}
	return nil, &EvalError{Pos: n.Pos(), Msg: "unknown expression node"}
}

// mod sets z to the remainder of x by y with the sign of x, the fmod
// convention. The remainder of two finite floats is exactly representable,
// so it is computed on exact scaled integers and only the final value is
// rounded.
func mod(z, x, y *bigfloat.Float) *bigfloat.Float {
	switch {
	case x.IsNaN() || y.IsNaN():
		return z.SetNaN()
	case x.IsInf() || y.IsZero():
		return z.SetNaN()
	case y.IsInf():
		return z.Set(x)
	case x.IsZero():
		return z.SetZero(x.Signbit())
	}

	// Scale both operands by 2^k so they are integers.
	kx := int(x.MinPrec()) - x.MantExp(nil)
	ky := int(y.MinPrec()) - y.MantExp(nil)
	k := kx
	if ky > k {
		k = ky
	}

	var xi, yi, rem big.Int
	bigfloat.New(x.MinPrec()).SetMantExp(x, k).Int(&xi)
	bigfloat.New(y.MinPrec()).SetMantExp(y, k).Int(&yi)
	rem.Rem(&xi, &yi)

	if rem.Sign() == 0 {
		return z.SetZero(x.Signbit())
	}
	t := bigfloat.New(uint(rem.BitLen())).SetInt(&rem)
	return z.SetMantExp(t, -k)
}
