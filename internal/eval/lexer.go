package eval

import "fmt"

// tokenKind enumerates the lexical classes of the expression grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokStar:
		return "'*'"
	case tokSlash:
		return "'/'"
	case tokPercent:
		return "'%'"
	case tokCaret:
		return "'^'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokComma:
		return "','"
	}
	return "unknown token"
}

// token is one lexical unit with its byte offset in the source.
type token struct {
	kind tokenKind
	pos  int
	text string
}

// lexer splits an expression into tokens. Numbers are passed through as
// literal text; the numeric parsing itself is done by the engine so that
// every decimal and hex-float form the engine accepts works here too.
type lexer struct {
	src string
	pos int
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// next returns the next token, advancing the lexer.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]

	switch c {
	case '+':
		l.pos++
		return token{tokPlus, start, "+"}, nil
	case '-':
		l.pos++
		return token{tokMinus, start, "-"}, nil
	case '*':
		l.pos++
		return token{tokStar, start, "*"}, nil
	case '/':
		l.pos++
		return token{tokSlash, start, "/"}, nil
	case '%':
		l.pos++
		return token{tokPercent, start, "%"}, nil
	case '^':
		l.pos++
		return token{tokCaret, start, "^"}, nil
	case '(':
		l.pos++
		return token{tokLParen, start, "("}, nil
	case ')':
		l.pos++
		return token{tokRParen, start, ")"}, nil
	case ',':
		l.pos++
		return token{tokComma, start, ","}, nil
	}

	if isDigit(c) || c == '.' {
		return l.lexNumber()
	}
	if isAlpha(c) {
		for l.pos < len(l.src) && (isAlpha(l.src[l.pos]) || isDigit(l.src[l.pos])) {
			l.pos++
		}
		return token{tokIdent, start, l.src[start:l.pos]}, nil
	}
	return token{}, l.errorf(start, "unexpected character %q", rune(c))
}

// lexNumber scans a decimal or hexadecimal floating-point literal.
func (l *lexer) lexNumber() (token, error) {
	start := l.pos

	hex := false
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) &&
		(l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		hex = true
		l.pos += 2
	}

	digit := isDigit
	if hex {
		digit = isHexDigit
	}

	seenDigit := false
	for l.pos < len(l.src) && digit(l.src[l.pos]) {
		l.pos++
		seenDigit = true
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && digit(l.src[l.pos]) {
			l.pos++
			seenDigit = true
		}
	}
	if !seenDigit {
		return token{}, l.errorf(start, "malformed number")
	}

	// Exponent part: e±d for decimal, p±d for hex.
	expChar := byte('e')
	if hex {
		expChar = 'p'
	}
	if l.pos < len(l.src) && (l.src[l.pos] == expChar || l.src[l.pos] == expChar-'a'+'A') {
		save := l.pos
		l.pos++
		if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		} else {
			// Not an exponent after all; "2e" lexes as 2 followed by e.
			l.pos = save
		}
	}
	return token{tokNumber, start, l.src[start:l.pos]}, nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}
