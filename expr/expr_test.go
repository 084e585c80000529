// SPDX-License-Identifier: MIT
package expr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "empty", text: "", want: false},
		{name: "whitespace", text: " \t", want: true},
		{name: "arithmetic", text: "(1,200 + 3.5) * 2 / 4 - 1", want: true},
		{name: "letters", text: "2 + x", want: false},
		{name: "exponent notation", text: "1e5", want: false},
		{name: "modulo", text: "5 % 2", want: false},
		{name: "unicode digits", text: "٣ + 1", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPure(tt.text))
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "addition", text: "2 + 2", want: 4},
		{name: "bare addition", text: "2+2", want: 4},
		{name: "parentheses", text: "(2+3)*4", want: 20},
		{name: "precedence", text: "2 + 3 * 4", want: 14},
		{name: "left to right", text: "20 / 2 / 5", want: 2},
		{name: "subtraction chain", text: "10 - 3 - 2", want: 5},
		{name: "grouping commas", text: "1,200 + 300", want: 1500},
		{name: "whitespace inside numbers", text: "1 000", want: 1000},
		{name: "unary minus", text: "-5 + 2", want: -3},
		{name: "signed operand", text: "2 * -3", want: -6},
		{name: "alternating signs", text: "+-4", want: -4},
		{name: "nested signs", text: "-(-(3))", want: 3},
		{name: "fractions", text: ".5 + 5.", want: 5.5},
		{name: "power", text: "2 ** 10", want: 1024},
		{name: "power is right associative", text: "2 ** 3 ** 2", want: 512},
		{name: "power binds tighter than product", text: "3 * 2 ** 2", want: 12},
		{name: "negative exponent", text: "2 ** -1", want: 0.5},
		{name: "leading zeros", text: "007 + 1", want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		opts    []Option
		wantErr error
	}{
		{name: "not pure", text: "2 + apples", wantErr: ErrNotPure},
		{name: "empty", text: "", wantErr: ErrNotPure},
		{name: "whitespace", text: "   ", wantErr: ErrSyntax},
		{name: "dangling operators", text: "+*", wantErr: ErrSyntax},
		{name: "trailing operator", text: "2 +", wantErr: ErrSyntax},
		{name: "unclosed parenthesis", text: "(2 + 3", wantErr: ErrSyntax},
		{name: "unopened parenthesis", text: "2 + 3)", wantErr: ErrSyntax},
		{name: "empty parentheses", text: "()", wantErr: ErrSyntax},
		{name: "juxtaposed groups", text: "(2)(3)", wantErr: ErrSyntax},
		{name: "double fraction", text: "1.2.3", wantErr: ErrSyntax},
		{name: "lone dot", text: ".", wantErr: ErrSyntax},
		{name: "decrement", text: "5 - -3", wantErr: ErrSyntax},
		{name: "increment", text: "++5", wantErr: ErrSyntax},
		{name: "signed power base", text: "-2 ** 2", wantErr: ErrSyntax},
		{name: "division by zero", text: "10 / 0", wantErr: ErrDivisionByZero},
		{name: "division by computed zero", text: "1 / (2 - 2)", wantErr: ErrDivisionByZero},
		{name: "zero by zero", text: "0 / 0", wantErr: ErrDivisionByZero},
		{name: "overflow", text: strings.Repeat("9", 200) + " ** 9", wantErr: ErrNonFinite},
		{name: "nan", text: "(0 - 8) ** (1 / 3)", wantErr: ErrNonFinite},
		{
			name:    "nesting",
			text:    strings.Repeat("(", 5) + "1" + strings.Repeat(")", 5),
			opts:    []Option{WithMaxDepth(4)},
			wantErr: ErrTooDeep,
		},
		{
			name:    "sign chain",
			text:    strings.Repeat("+-", 40) + "1",
			wantErr: ErrTooDeep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.text, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEvaluate)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, got)
		})
	}
}

func TestEvaluate_DeepNestingWithinLimit(t *testing.T) {
	text := strings.Repeat("(", DefaultMaxDepth) + "7" + strings.Repeat(")", DefaultMaxDepth)

	got, err := Evaluate(text)
	require.NoError(t, err)
	assert.Equal(t, float64(7), got)
}

func TestEvaluatePure(t *testing.T) {
	got, ok := EvaluatePure("(1 + 2) * 3")
	assert.True(t, ok)
	assert.Equal(t, float64(9), got)

	got, ok = EvaluatePure("10 / 0")
	assert.False(t, ok)
	assert.Zero(t, got)
}

func BenchmarkEvaluate(b *testing.B) {
	src := "(1,200 + 340.5 - 25) * 2 / (3 + 1)"
	e := New()

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		_, _ = e.Evaluate(src)
	}
}
