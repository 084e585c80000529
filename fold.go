// SPDX-License-Identifier: MIT
package linecalc

import (
	"errors"

	"golang.org/x/exp/constraints"

	"gitlab.com/fisherprime/linecalc/lexer"
)

// Calculation errors.
var (
	ErrPanicked = errors.New("recovery from panic")
)

// sum adds up numbers; a line of numbers without operators is a running total.
func sum[T constraints.Float](numbers []T) (total T) {
	for _, num := range numbers {
		total += num
	}

	return
}

// fold reduces numbers left to right, pairing the i-th operator with the (i+1)-th number.
//
// Operators without a number to pair with are ignored; numbers without an operator are added.
func fold[T constraints.Float](numbers []T, operators []lexer.Operator) (acc T) {
	if len(numbers) < 1 {
		return
	}

	acc = numbers[0]
	index := 1
	for _, op := range operators {
		if index >= len(numbers) {
			break
		}

		acc = apply(acc, op, numbers[index])
		index++
	}

	for ; index < len(numbers); index++ {
		acc += numbers[index]
	}

	return
}

// apply a single operator; division by zero leaves acc unchanged.
func apply[T constraints.Float](acc T, op lexer.Operator, operand T) T {
	switch op {
	case lexer.OpAdd:
		return acc + operand
	case lexer.OpSub:
		return acc - operand
	case lexer.OpMul:
		return acc * operand
	case lexer.OpDiv:
		if operand == 0 {
			return acc
		}
		return acc / operand
	default:
		return acc
	}
}
