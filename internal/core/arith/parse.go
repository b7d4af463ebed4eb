package arith

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// maxDepth bounds parenthesis and unary nesting.
const maxDepth = 256

var (
	// ErrUnsupportedConstruct indicates syntax outside the arithmetic language,
	// such as identifiers, calls, comparisons or fractional literals.
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	// ErrSyntax indicates a malformed expression built from supported tokens.
	ErrSyntax = errors.New("malformed expression")
)

// ParseError reports where and why an expression could not be parsed.
type ParseError struct {
	Input  string
	Offset int
	Reason string
	kind   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}

// Unwrap returns ErrUnsupportedConstruct or ErrSyntax.
func (e *ParseError) Unwrap() error {
	return e.kind
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// Parse parses text into an expression tree.
func Parse(text string) (Node, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{input: text, toks: toks}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.fail(t.pos, ErrSyntax, "unexpected "+describe(t))
	}
	return node, nil
}

func lex(text string) ([]token, error) {
	var toks []token
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(text) && text[i] >= '0' && text[i] <= '9' {
				i++
			}
			toks = append(toks, token{kind: tokInt, text: text[start:i], pos: start})
		case strings.IndexByte("+-*/()", c) >= 0:
			toks = append(toks, token{kind: punctuation(c), text: string(c), pos: i})
			i++
		default:
			return nil, &ParseError{
				Input:  text,
				Offset: i,
				Reason: fmt.Sprintf("unsupported character %q", unsupportedRun(text[i:])),
				kind:   ErrUnsupportedConstruct,
			}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(text)})
	return toks, nil
}

func punctuation(c byte) tokenKind {
	switch c {
	case '+':
		return tokPlus
	case '-':
		return tokMinus
	case '*':
		return tokStar
	case '/':
		return tokSlash
	case '(':
		return tokLParen
	default:
		return tokRParen
	}
}

// unsupportedRun returns the run of unsupported text starting at s.
func unsupportedRun(s string) string {
	end := strings.IndexAny(s, " \t\r\n+-*/()0123456789")
	if end < 0 {
		return s
	}
	return s[:end]
}

type parser struct {
	input string
	toks  []token
	i     int
	depth int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) fail(offset int, kind error, reason string) error {
	return &ParseError{Input: p.input, Offset: offset, Reason: reason, kind: kind}
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > maxDepth {
		return p.fail(pos, ErrSyntax, "expression nested too deeply")
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

// expr := term (("+"|"-") term)*
func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op Op
		switch t.kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, Pos: t.pos}
	}
}

// term := unary (("*"|"/") unary)*
func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		var op Op
		switch t.kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		default:
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right, Pos: t.pos}
	}
}

// unary := ("+"|"-") unary | primary
func (p *parser) unary() (Node, error) {
	t := p.peek()
	if t.kind != tokPlus && t.kind != tokMinus {
		return p.primary()
	}
	p.next()
	if err := p.enter(t.pos); err != nil {
		return nil, err
	}
	defer p.leave()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	op := OpIdentity
	if t.kind == tokMinus {
		op = OpNegate
	}
	return &Unary{Op: op, Operand: operand, Pos: t.pos}, nil
}

// primary := INT | "(" expr ")"
func (p *parser) primary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		value, ok := new(big.Int).SetString(t.text, 10)
		if !ok {
			return nil, p.fail(t.pos, ErrSyntax, "invalid integer "+describe(t))
		}
		return &Literal{Value: value, Pos: t.pos}, nil
	case tokLParen:
		if err := p.enter(t.pos); err != nil {
			return nil, err
		}
		defer p.leave()
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, p.fail(closing.pos, ErrSyntax, "expected \")\", got "+describe(closing))
		}
		return inner, nil
	default:
		return nil, p.fail(t.pos, ErrSyntax, "expected number or \"(\", got "+describe(t))
	}
}
