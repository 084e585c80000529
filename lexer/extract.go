// SPDX-License-Identifier: MIT
package lexer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type (
	// Tokens holds the numbers & operators extracted from some text.
	//
	// Each slice preserves the order of appearance; the interleaving between both is not kept.
	Tokens struct {
		Numbers   []float64
		Operators []Operator
	}
)

// ErrExtract is returned when lexing stops before the end of the text.
var ErrExtract = errors.New("failed to extract tokens")

var operatorPattern = regexp.MustCompile(`\s*([+\-*/])\s*`)

// Normalize surrounds every operator with single spaces.
func Normalize(text string) string { return operatorPattern.ReplaceAllString(text, " $1 ") }

// Extract performs a best-effort scan of text for numbers & operators, ignoring words.
//
// Numbers that don't parse to a finite value are dropped. A context done before the scan completes
// yields an ErrExtract error alongside the Tokens lexed up to that point.
func Extract(ctx context.Context, text string, opts ...Option) (t Tokens, err error) {
	t = Tokens{Numbers: []float64{}, Operators: []Operator{}}

	opts = append(opts, WithSource(strings.NewReader(Normalize(text))))
	l := New(opts...)
	go l.Lex(ctx)

	for {
		item, proceed := l.Item()
		if !proceed {
			break
		}

		switch item.ID {
		case ItemNumber:
			if num, ok := parseNumber(item.Val); ok {
				t.Numbers = append(t.Numbers, num)
			}
		case ItemOperator:
			t.Operators = append(t.Operators, Operator(item.Val[0]))
		case ItemError:
			err = fmt.Errorf("%w at %d: %w", ErrExtract, item.Pos, item.Err)
		}
	}

	if l.Debug {
		l.Logger().Debugf("extracted %d number(s), %d operator(s)", len(t.Numbers), len(t.Operators))
	}

	return
}

// parseNumber converts a comma-stripped number token, rejecting non-finite values.
func parseNumber(val []byte) (num float64, ok bool) {
	num, err := strconv.ParseFloat(strings.TrimSuffix(string(val), "."), 64)
	if err != nil || math.IsNaN(num) || math.IsInf(num, 0) {
		return 0, false
	}

	return num, true
}
