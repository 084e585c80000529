// SPDX-License-Identifier: MIT
package expr

import (
	"fmt"
	"strconv"
)

type (
	tokenType int

	token struct {
		tokType tokenType
		value   float64
		pos     int
	}
)

const (
	tokenTypeEOF tokenType = iota
	tokenTypeNumber
	tokenTypePlus
	tokenTypeMinus
	tokenTypeAsterisk
	tokenTypeSlash
	tokenTypePower
	tokenTypeLParen
	tokenTypeRParen
)

// tokenize splits a stripped expression into tokens.
//
// `++` & `--` are rejected; they are increment/decrement operators elsewhere, not a pair of signs.
func tokenize(src string) (tokens []token, err error) {
	tokens = make([]token, 0, len(src)/2+1)

	for i := 0; i < len(src); {
		ch := src[i]
		tok := token{pos: i}

		switch ch {
		case '+', '-':
			if i+1 < len(src) && src[i+1] == ch {
				return nil, fmt.Errorf("%w: %q at %d", ErrSyntax, src[i:i+2], i)
			}
			tok.tokType = tokenTypePlus
			if ch == '-' {
				tok.tokType = tokenTypeMinus
			}
			i++
		case '*':
			tok.tokType = tokenTypeAsterisk
			i++
			if i < len(src) && src[i] == '*' {
				tok.tokType = tokenTypePower
				i++
			}
		case '/':
			tok.tokType = tokenTypeSlash
			i++
		case '(':
			tok.tokType = tokenTypeLParen
			i++
		case ')':
			tok.tokType = tokenTypeRParen
			i++
		default:
			end := scanNumber(src, i)
			if end == i {
				return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, ch, i)
			}

			if tok.value, err = strconv.ParseFloat(src[i:end], 64); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			tok.tokType = tokenTypeNumber
			i = end
		}

		tokens = append(tokens, tok)
	}

	tokens = append(tokens, token{tokType: tokenTypeEOF, pos: len(src)})

	return
}

// scanNumber returns the end of a `\d+(\.\d*)?` or `\.\d+` literal starting at start.
func scanNumber(src string, start int) (end int) {
	end = start
	digits := 0
	for end < len(src) && isDigit(src[end]) {
		end++
		digits++
	}

	if end < len(src) && src[end] == '.' {
		fraction := end + 1
		for fraction < len(src) && isDigit(src[fraction]) {
			fraction++
			digits++
		}
		if digits > 0 {
			end = fraction
		}
	}

	if digits == 0 {
		return start
	}

	return
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
