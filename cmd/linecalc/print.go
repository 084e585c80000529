// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"io"
	"sync"

	"gitlab.com/fisherprime/linecalc"
	"gitlab.com/fisherprime/linecalc/internal/display"
)

// printer writes Sheet results; watch callbacks may overlap so writes are serialized.
type printer struct {
	mu sync.Mutex

	w         io.Writer
	formatter *display.Formatter
	document  bool
}

func newPrinter(w io.Writer, formatter *display.Formatter, document bool) *printer {
	return &printer{w: w, formatter: formatter, document: document}
}

// All prints every line, or the document result.
func (p *printer) All(sheet *linecalc.Sheet) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.document {
		return p.printDocument(sheet)
	}

	for _, line := range sheet.Lines() {
		if err = p.printLine(line); err != nil {
			return
		}
	}

	return
}

// Changed prints the lines whose result changed, or the document result.
func (p *printer) Changed(sheet *linecalc.Sheet, changed []int) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.document {
		return p.printDocument(sheet)
	}

	for _, index := range changed {
		line, ok := sheet.Line(index)
		if !ok {
			if _, err = fmt.Fprintf(p.w, "%4d |\n", index+1); err != nil {
				return
			}
			continue
		}

		if err = p.printLine(line); err != nil {
			return
		}
	}

	return
}

func (p *printer) printLine(line linecalc.Line) (err error) {
	text, visible := p.formatter.Display(line.Value, line.OK)
	if !visible {
		_, err = fmt.Fprintf(p.w, "%4d | %s\n", line.Index+1, line.Text)
		return
	}

	_, err = fmt.Fprintf(p.w, "%4d | %s = %s\n", line.Index+1, line.Text, text)

	return
}

func (p *printer) printDocument(sheet *linecalc.Sheet) (err error) {
	text, _ := p.formatter.Display(sheet.Document())
	_, err = fmt.Fprintln(p.w, text)

	return
}
