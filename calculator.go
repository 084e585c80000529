// SPDX-License-Identifier: MIT
package linecalc

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"gitlab.com/fisherprime/linecalc/expr"
	"gitlab.com/fisherprime/linecalc/lexer"
)

type (
	// Calculator evaluates free-form text lines into a number, when one can be derived.
	//
	// A Calculator holds no mutable state; it is safe for concurrent use.
	Calculator struct {
		// cfg contains a pointer to a [Config] that may be shared by several Calculators.
		cfg *Config

		evaluator *expr.Evaluator
	}

	// Config defines configuration options for the [Calculator] & [Sheet]'s operations.
	Config struct {
		// Logger for [Calculator] messages.
		//
		// Preferring a public field to allow for sharing.
		Logger logrus.FieldLogger
		Debug  bool

		// MaxDepth limits the nesting of pure expressions.
		MaxDepth int
	}

	// Option defines the Calculator functional option type.
	Option func(*Calculator)
)

var defCalculator = New()

// DefConfig obtains the package's [Calculator] default options.
func DefConfig() *Config {
	return &Config{
		Logger:   logrus.New(),
		Debug:    false,
		MaxDepth: expr.DefaultMaxDepth,
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.MaxDepth < 1 {
		c.MaxDepth = expr.DefaultMaxDepth
	}
}

// New instantiates a [Calculator].
func New(options ...Option) *Calculator {
	c := &Calculator{cfg: DefConfig()}

	for _, opt := range options {
		opt(c)
	}
	c.cfg.Validate()

	c.evaluator = expr.New(expr.WithMaxDepth(c.cfg.MaxDepth))

	return c
}

// WithConfig configures the [Calculator] [Config].
func WithConfig(cfg *Config) Option { return func(c *Calculator) { c.cfg = cfg } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Calculator) { c.cfg.Logger = logger }
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(c *Calculator) { c.cfg.Debug = debug } }

// WithMaxDepth configures the nesting limit for pure expressions.
func WithMaxDepth(depth int) Option { return func(c *Calculator) { c.cfg.MaxDepth = depth } }

// Config retrieves the [Calculator]'s Config.
func (c *Calculator) Config() *Config { return c.cfg }

// Calculate evaluates line with the package's default [Calculator].
func Calculate(line string) (float64, bool) {
	return defCalculator.Calculate(context.Background(), line)
}

// Calculate evaluates a line of text.
//
// A line made up of digits, commas, operators, parentheses & whitespace is evaluated with
// conventional precedence; division by zero or a non-finite value ends there. Any other line, or a
// malformed pure line, has its numbers & operators extracted & folded left to right. ok is false
// when no finite result exists or ctx is done before extraction completes.
func (c *Calculator) Calculate(ctx context.Context, line string) (result float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.cfg.Logger.Errorf("%v: %v", ErrPanicked, r)
			result, ok = 0, false
		}
	}()

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	if expr.IsPure(trimmed) {
		value, err := c.evaluator.Evaluate(trimmed)
		switch {
		case err == nil:
			if c.cfg.Debug {
				c.cfg.Logger.Debug("pure expression evaluated")
			}

			return value, true
		case errors.Is(err, expr.ErrDivisionByZero), errors.Is(err, expr.ErrNonFinite):
			// A well-formed expression without a finite value has no result.
			return
		}

		if c.cfg.Debug {
			c.cfg.Logger.Debug("pure expression rejected, extracting")
		}
	}

	tokens, err := lexer.Extract(ctx, trimmed, lexer.WithLogger(c.cfg.Logger), lexer.WithDebug(c.cfg.Debug))
	if err != nil {
		if c.cfg.Debug {
			c.cfg.Logger.Debug(err)
		}

		return
	}
	if len(tokens.Numbers) < 1 {
		return
	}

	if len(tokens.Operators) < 1 {
		result = sum(tokens.Numbers)
	} else {
		result = fold(tokens.Numbers, tokens.Operators)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		if c.cfg.Debug {
			c.cfg.Logger.Debugf("discarding non-finite fold of %d number(s)", len(tokens.Numbers))
		}

		return 0, false
	}

	return result, true
}
