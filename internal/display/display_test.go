// SPDX-License-Identifier: MIT
package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		value  float64
		want   string
	}{
		{name: "grouped", locale: "ko-KR", value: 1234567, want: "1,234,567"},
		{name: "fraction rounded", locale: "ko-KR", value: 1500.12345, want: "1,500.123"},
		{name: "small", locale: "ko-KR", value: 42, want: "42"},
		{name: "english", locale: "en-US", value: 9876.5, want: "9,876.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Format(tt.value))
		})
	}
}

func TestFormatter_Display(t *testing.T) {
	f, err := New("ko-KR")
	require.NoError(t, err)

	text, visible := f.Display(1500, true)
	assert.Equal(t, "1,500", text)
	assert.True(t, visible)

	text, visible = f.Display(0, false)
	assert.Equal(t, Placeholder, text)
	assert.False(t, visible)
}

func TestNew_InvalidLocale(t *testing.T) {
	_, err := New("not a locale!")
	assert.ErrorIs(t, err, ErrInvalidLocale)
}
