// SPDX-License-Identifier: MIT

// Package expr evaluates pure arithmetic expressions: digits, grouping commas, `+ - * /`,
// parentheses & whitespace.
//
// The evaluator is a recursive-descent parser over that grammar alone; nothing outside it is ever
// interpreted.
package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

type (
	// Evaluator holds the limits applied while evaluating an expression.
	Evaluator struct {
		maxDepth int
	}

	// Option defines the Evaluator functional option type.
	Option func(*Evaluator)

	parser struct {
		tokens []token
		index  int

		depth    int
		maxDepth int
	}
)

// DefaultMaxDepth is the default limit on nested parentheses & signs.
const DefaultMaxDepth = 64

// Evaluation errors.
var (
	ErrEvaluate = errors.New("failed to evaluate expression")

	ErrNotPure        = errors.New("not a pure expression")
	ErrSyntax         = errors.New("syntax error")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNonFinite      = errors.New("non-finite result")
	ErrTooDeep        = errors.New("expression nested too deeply")

	ErrPanicked = errors.New("recovery from panic")
)

// New instantiates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(e)
	}

	if e.maxDepth < 1 {
		e.maxDepth = DefaultMaxDepth
	}

	return e
}

// WithMaxDepth configures the nesting limit.
func WithMaxDepth(depth int) Option { return func(e *Evaluator) { e.maxDepth = depth } }

// IsPure reports whether text consists solely of digits, commas, `+-*/().` & whitespace.
func IsPure(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !isPureRune(r) {
			return false
		}
	}

	return true
}

// Evaluate text as an arithmetic expression with conventional precedence.
func Evaluate(text string, opts ...Option) (float64, error) { return New(opts...).Evaluate(text) }

// EvaluatePure evaluates text, collapsing every failure to ok == false.
func EvaluatePure(text string, opts ...Option) (value float64, ok bool) {
	value, err := Evaluate(text, opts...)
	if err != nil {
		return 0, false
	}

	return value, true
}

// Evaluate text as an arithmetic expression with conventional precedence.
func (e *Evaluator) Evaluate(text string) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}

		if err != nil {
			value = 0
			err = fmt.Errorf("%w: %w", ErrEvaluate, err)
		}
	}()

	if !IsPure(text) {
		err = ErrNotPure
		return
	}

	tokens, err := tokenize(strip(text))
	if err != nil {
		return
	}

	p := &parser{tokens: tokens, maxDepth: e.maxDepth}
	if value, err = p.expression(); err != nil {
		return
	}

	if tok := p.peek(); tok.tokType != tokenTypeEOF {
		err = fmt.Errorf("%w: unexpected token at %d", ErrSyntax, tok.pos)
		return
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		err = ErrNonFinite
	}

	return
}

// expression := term (('+' | '-') term)*
func (p *parser) expression() (value float64, err error) {
	if value, err = p.term(); err != nil {
		return
	}

	for {
		op := p.peek().tokType
		if op != tokenTypePlus && op != tokenTypeMinus {
			return
		}
		p.advance()

		var rhs float64
		if rhs, err = p.term(); err != nil {
			return
		}

		if op == tokenTypePlus {
			value += rhs
		} else {
			value -= rhs
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *parser) term() (value float64, err error) {
	if value, err = p.unary(); err != nil {
		return
	}

	for {
		op := p.peek().tokType
		if op != tokenTypeAsterisk && op != tokenTypeSlash {
			return
		}
		p.advance()

		var rhs float64
		if rhs, err = p.unary(); err != nil {
			return
		}

		if op == tokenTypeAsterisk {
			value *= rhs
			continue
		}

		if rhs == 0 {
			err = ErrDivisionByZero
			return
		}
		value /= rhs
	}
}

// unary := ('+' | '-') unary | power
//
// A signed operand can't be the base of `**`; `-2**2` is ambiguous & rejected.
func (p *parser) unary() (value float64, err error) {
	op := p.peek().tokType
	if op != tokenTypePlus && op != tokenTypeMinus {
		return p.power()
	}
	p.advance()

	if err = p.enter(); err != nil {
		return
	}
	defer p.leave()

	switch p.peek().tokType {
	case tokenTypePlus, tokenTypeMinus:
		value, err = p.unary()
	default:
		value, err = p.primary()
	}
	if err != nil {
		return
	}

	if tok := p.peek(); tok.tokType == tokenTypePower {
		err = fmt.Errorf("%w: signed base for ** at %d", ErrSyntax, tok.pos)
		return
	}

	if op == tokenTypeMinus {
		value = -value
	}

	return
}

// power := primary ('**' unary)?
func (p *parser) power() (value float64, err error) {
	if value, err = p.primary(); err != nil {
		return
	}

	if p.peek().tokType != tokenTypePower {
		return
	}
	p.advance()

	if err = p.enter(); err != nil {
		return
	}
	defer p.leave()

	exponent, err := p.unary()
	if err != nil {
		return
	}

	value = math.Pow(value, exponent)

	return
}

// primary := number | '(' expression ')'
func (p *parser) primary() (value float64, err error) {
	tok := p.advance()

	switch tok.tokType {
	case tokenTypeNumber:
		value = tok.value
	case tokenTypeLParen:
		if err = p.enter(); err != nil {
			return
		}
		defer p.leave()

		if value, err = p.expression(); err != nil {
			return
		}

		if closing := p.advance(); closing.tokType != tokenTypeRParen {
			err = fmt.Errorf("%w: unbalanced parenthesis at %d", ErrSyntax, tok.pos)
		}
	default:
		err = fmt.Errorf("%w: expected a number at %d", ErrSyntax, tok.pos)
	}

	return
}

func (p *parser) peek() token { return p.tokens[p.index] }

// advance returns the current token, stopping at tokenTypeEOF.
func (p *parser) advance() (tok token) {
	tok = p.tokens[p.index]
	if tok.tokType != tokenTypeEOF {
		p.index++
	}

	return
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrTooDeep, p.maxDepth)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// strip removes whitespace & grouping commas.
func strip(text string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

func isPureRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}

	return strings.ContainsRune(",+-*/().", r)
}
