// SPDX-License-Identifier: MIT
package lexer

type (
	// ItemID int holding an identifier for the Item tokens
	ItemID int

	// Item type holding token, value & item type of scanned runes
	Item struct {
		Err error
		Val []byte // The value of this Item
		ID  ItemID // The type of this Item
		Pos int    // The starting position, (in runes) of this Item
	}

	// Operator is one of the arithmetic operators recognized by the Lexer.
	Operator rune
)

// iota is used to define an incrementing number sequence for const
// declarations
const (
	_            = iota // Consume 0 to start actual numbering at 1.
	ItemError           // Notify occurrence of an `error`.
	ItemEOF             // End of the input.
	ItemNumber          // A number, grouping commas stripped.
	ItemOperator        // One of `+-*/`.
)

// Recognized operators.
const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
)

var itemNames = map[ItemID]string{
	ItemError:    "error",
	ItemEOF:      "eof",
	ItemNumber:   "number",
	ItemOperator: "operator",
}

func (i ItemID) String() string {
	if name, ok := itemNames[i]; ok {
		return name
	}

	return "unknown"
}

func (o Operator) String() string { return string(o) }

// IsOperator reports whether r is one of `+-*/`.
func IsOperator(r rune) bool {
	switch Operator(r) {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}

	return false
}
