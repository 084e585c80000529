// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Config{
		Mode:     ModeLine,
		Locale:   DefaultLocale,
		MaxDepth: DefaultMaxDepth,
		Debounce: DefaultDebounce,
	}, c)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linecalc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: document\nlocale: en-US\nworkers: 3\ndebounce: 25ms\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeDocument, c.Mode)
	assert.Equal(t, "en-US", c.Locale)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, 25*time.Millisecond, c.Debounce)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LINECALC_MODE", "DOCUMENT")
	t.Setenv("LINECALC_MAX_DEPTH", "8")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeDocument, c.Mode)
	assert.Equal(t, 8, c.MaxDepth)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadConfig)

	t.Setenv("LINECALC_MODE", "spreadsheet")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
