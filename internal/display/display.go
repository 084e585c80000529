// SPDX-License-Identifier: MIT
package display

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type (
	// Formatter renders results for display, grouping thousands per its locale.
	Formatter struct {
		printer *message.Printer
		tag     language.Tag
	}
)

const (
	maxFractionDigits = 3

	// Placeholder is shown, hidden, in place of a missing result.
	Placeholder = "0"
)

// Display errors.
var (
	ErrInvalidLocale = errors.New("invalid locale")
)

// New instantiates a Formatter for a BCP 47 locale, e.g. `ko-KR`.
func New(locale string) (f *Formatter, err error) {
	tag, err := language.Parse(locale)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidLocale, err)
		return
	}

	f = &Formatter{printer: message.NewPrinter(tag), tag: tag}

	return
}

// Locale retrieves the Formatter's language tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Format value with grouped thousands & at most three fraction digits.
func (f *Formatter) Format(value float64) string {
	return f.printer.Sprint(number.Decimal(value, number.MaxFractionDigits(maxFractionDigits)))
}

// Display returns the text for a result & whether the result indicator should be visible.
func (f *Formatter) Display(value float64, ok bool) (text string, visible bool) {
	if !ok {
		return Placeholder, false
	}

	return f.Format(value), true
}
