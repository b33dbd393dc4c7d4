package eval

import "fmt"

// Expr is a parsed expression node.
type Expr interface {
	// Pos returns the byte offset of the node in the source expression.
	Pos() int
}

// NumberLit is a numeric literal, kept as source text and parsed by the
// engine at evaluation precision.
type NumberLit struct {
	TokPos int
	Text   string
}

// Ident is a named constant reference such as pi or inf.
type Ident struct {
	TokPos int
	Name   string
}

// Unary is a prefix + or - applied to an operand.
type Unary struct {
	TokPos int
	Op     byte
	X      Expr
}

// Binary is an infix operation: + - * / % ^.
type Binary struct {
	TokPos int
	Op     byte
	L, R   Expr
}

// Call is a function application resolved against the registry at
// evaluation time.
type Call struct {
	TokPos int
	Name   string
	Args   []Expr
}

func (e *NumberLit) Pos() int { return e.TokPos }
func (e *Ident) Pos() int     { return e.TokPos }
func (e *Unary) Pos() int     { return e.TokPos }
func (e *Binary) Pos() int    { return e.TokPos }
func (e *Call) Pos() int      { return e.TokPos }

// SyntaxError reports a malformed expression together with the byte offset
// of the offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// parser is a recursive-descent parser over the lexer with one token of
// lookahead.
//
// Grammar, loosest binding first:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/" | "%") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | ident | ident "(" expr { "," expr } ")" | "(" expr ")"
//
// "^" is right-associative and binds tighter than unary minus, so -2^2
// is -(2^2) and 2^-3 parses without parentheses.
type parser struct {
	lex lexer
	tok token
}

// Parse parses src into an expression tree.
func Parse(src string) (Expr, error) {
	p := &parser{lex: lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("unexpected %s", p.tok.kind)}
	}
	return e, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.tok.kind != kind {
		return token{}, &SyntaxError{
			Pos: p.tok.pos,
			Msg: fmt.Sprintf("expected %s, found %s", kind, p.tok.kind),
		}
	}
	tok := p.tok
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) parseExpr() (Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := byte('+')
		if p.tok.kind == tokMinus {
			op = '-'
		}
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &Binary{TokPos: pos, Op: op, L: lhs, R: rhs}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op byte
		switch p.tok.kind {
		case tokStar:
			op = '*'
		case tokSlash:
			op = '/'
		case tokPercent:
			op = '%'
		default:
			return lhs, nil
		}
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &Binary{TokPos: pos, Op: op, L: lhs, R: rhs}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	switch p.tok.kind {
	case tokPlus, tokMinus:
		op := byte('+')
		if p.tok.kind == tokMinus {
			op = '-'
		}
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{TokPos: pos, Op: op, X: x}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokCaret {
		return base, nil
	}
	pos := p.tok.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Binary{TokPos: pos, Op: '^', L: base, R: exp}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.tok.kind {
	case tokNumber:
		tok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLit{TokPos: tok.pos, Text: tok.text}, nil

	case tokIdent:
		tok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokLParen {
			return &Ident{TokPos: tok.pos, Name: tok.text}, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var args []Expr
		if p.tok.kind != tokRParen {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return &Call{TokPos: tok.pos, Name: tok.text, Args: args}, nil

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, &SyntaxError{
		Pos: p.tok.pos,
		Msg: fmt.Sprintf("expected an operand, found %s", p.tok.kind),
	}
}
