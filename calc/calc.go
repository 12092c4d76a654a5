// Package calc evaluates basic arithmetic expressions: numeric literals,
// + - * /, unary minus and parentheses. Anything else is rejected, so user
// input never reaches a general-purpose evaluator.
package calc

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrBadExpression  = errors.New("invalid expression")
)

// Eval parses and evaluates the expression with the usual precedence rules.
func Eval(input string) (float64, error) {
	p := &parser{input: input}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}

	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, errors.Wrapf(ErrBadExpression, "unexpected %q", p.input[p.pos:])
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// peek returns the next significant byte, or 0 at end of input.
func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

// expr := term { (+|-) term }
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek() {
		case '+':
			p.pos++
			t, err := p.term()
			if err != nil {
				return 0, err
			}
			v += t
		case '-':
			p.pos++
			t, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= t
		default:
			return v, nil
		}
	}
}

// term := factor { (*|/) factor }
func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}

	for {
		switch p.peek() {
		case '*':
			p.pos++
			f, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= f
		case '/':
			p.pos++
			f, err := p.factor()
			if err != nil {
				return 0, err
			}
			if f == 0 {
				return 0, ErrDivisionByZero
			}
			v /= f
		default:
			return v, nil
		}
	}
}

// factor := number | ( expr ) | - factor
func (p *parser) factor() (float64, error) {
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errors.Wrap(ErrBadExpression, "missing closing parenthesis")
		}
		p.pos++
		return v, nil

	case c == '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		return -v, nil

	case c >= '0' && c <= '9' || c == '.':
		return p.number()

	case c == 0:
		return 0, errors.Wrap(ErrBadExpression, "unexpected end of expression")

	default:
		return 0, errors.Wrapf(ErrBadExpression, "unexpected character %q", c)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	seenDot := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		p.pos++
	}

	token := p.input[start:p.pos]
	if token == "" || token == "." {
		return 0, errors.Wrap(ErrBadExpression, "malformed number")
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadExpression, "malformed number %q", token)
	}
	return v, nil
}
