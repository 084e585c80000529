// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	// Config holds the linecalc application configuration.
	Config struct {
		// Mode selects per-line results (`line`) or a single result for the whole text (`document`).
		Mode string `mapstructure:"mode"`
		// Locale used to format results.
		Locale string `mapstructure:"locale"`

		Debug    bool          `mapstructure:"debug"`
		MaxDepth int           `mapstructure:"max_depth"`
		Workers  int           `mapstructure:"workers"`
		Debounce time.Duration `mapstructure:"debounce"`
	}
)

// Evaluation modes.
const (
	ModeLine     = "line"
	ModeDocument = "document"
)

// Defaults.
const (
	DefaultLocale   = "ko-KR"
	DefaultMaxDepth = 64
	DefaultDebounce = 10 * time.Millisecond

	envPrefix = "LINECALC"
)

// Configuration errors.
var (
	ErrLoadConfig  = errors.New("failed to load config")
	ErrInvalidMode = errors.New("invalid mode")
)

// Load reads configuration from defaults, an optional file & `LINECALC_` environment variables.
//
// An empty path skips the configuration file.
func Load(path string) (c Config, err error) {
	v := viper.New()

	v.SetDefault("mode", ModeLine)
	v.SetDefault("locale", DefaultLocale)
	v.SetDefault("debug", false)
	v.SetDefault("max_depth", DefaultMaxDepth)
	v.SetDefault("workers", 0)
	v.SetDefault("debounce", DefaultDebounce)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("%w: %v", ErrLoadConfig, err)
			return
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		err = fmt.Errorf("%w: %v", ErrLoadConfig, err)
		return
	}

	err = c.Validate()

	return
}

// Validate checks the Config, populating missing entries with defaults.
func (c *Config) Validate() error {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	switch c.Mode {
	case "":
		c.Mode = ModeLine
	case ModeLine, ModeDocument:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	if c.MaxDepth < 1 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}

	return nil
}
