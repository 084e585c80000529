// SPDX-License-Identifier: MIT
package linecalc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type (
	// Line holds a line of a [Sheet] & its result.
	Line struct {
		Index int
		Text  string
		Value float64
		OK    bool
	}

	// Sheet holds the per-line results of a multi-line text.
	//
	// Lines are created when they appear in the text & removed when they vanish; only lines whose
	// text changed are re-evaluated. A Sheet is safe for concurrent use.
	Sheet struct {
		calc *Calculator
		pool *ants.Pool

		workers int

		mu       sync.RWMutex
		text     string
		lines    []Line
		document Line
	}

	// SheetOption defines the Sheet functional option type.
	SheetOption func(*Sheet)
)

// Sheet errors.
var (
	ErrCreateSheet = errors.New("failed to create sheet")
	ErrUpdateSheet = errors.New("failed to update sheet")
)

// NewSheet instantiates a [Sheet] evaluating its lines on a worker pool.
//
// The Sheet must be closed to release the pool.
func NewSheet(calc *Calculator, options ...SheetOption) (s *Sheet, err error) {
	if calc == nil {
		calc = defCalculator
	}

	s = &Sheet{
		calc:    calc,
		workers: runtime.GOMAXPROCS(0),
		lines:   []Line{},
	}

	for _, opt := range options {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = 1
	}

	logger := calc.cfg.Logger
	s.pool, err = ants.NewPool(s.workers,
		ants.WithLogger(logger),
		ants.WithPanicHandler(func(r interface{}) { logger.Errorf("%v: %v", ErrPanicked, r) }),
	)
	if err != nil {
		s, err = nil, fmt.Errorf("%w: %v", ErrCreateSheet, err)
	}

	return
}

// WithWorkers configures the size of the evaluation pool.
func WithWorkers(workers int) SheetOption { return func(s *Sheet) { s.workers = workers } }

// Close releases the Sheet's worker pool.
func (s *Sheet) Close() { s.pool.Release() }

// Update replaces the Sheet's text, returning the indices of lines whose result changed.
//
// Removed lines are reported as changed, their indices are beyond the new [Sheet.Len]. When ctx is
// done before the update completes, the Sheet keeps its previous text & results.
func (s *Sheet) Update(ctx context.Context, text string) (changed []int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrUpdateSheet, err)
		}
	}()

	if err = ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if text == s.text && len(s.lines) > 0 {
		return
	}

	texts := strings.Split(text, "\n")
	next := make([]Line, len(texts))

	pending := make([]int, 0, len(texts))
	for index, lineText := range texts {
		if index < len(s.lines) && s.lines[index].Text == lineText {
			next[index] = s.lines[index]
			continue
		}

		next[index] = Line{Index: index, Text: lineText}
		pending = append(pending, index)
	}

	// Partial results are discarded on cancellation, so evaluation itself runs to completion.
	evalCtx := context.WithoutCancel(ctx)

	wg := new(sync.WaitGroup)
	for _, index := range pending {
		line := &next[index]

		wg.Add(1)
		if err = s.pool.Submit(func() {
			defer wg.Done()
			line.Value, line.OK = s.calc.Calculate(evalCtx, line.Text)
		}); err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()

	if err != nil {
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}

	for _, index := range pending {
		if index >= len(s.lines) {
			changed = append(changed, index)
			continue
		}

		prev := s.lines[index]
		if prev.OK != next[index].OK || prev.Value != next[index].Value {
			changed = append(changed, index)
		}
	}
	for index := len(next); index < len(s.lines); index++ {
		changed = append(changed, index)
	}

	s.document = Line{Text: text}
	s.document.Value, s.document.OK = s.calc.Calculate(evalCtx, text)

	s.text, s.lines = text, next

	if s.calc.cfg.Debug {
		s.calc.cfg.Logger.Debugf("sheet updated: %d line(s), %d re-evaluated, %d changed",
			len(next), len(pending), len(changed))
	}

	return
}

// Len is the number of lines in the Sheet.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.lines)
}

// Line retrieves a line by its index.
func (s *Sheet) Line(index int) (line Line, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.lines) {
		return
	}

	return s.lines[index], true
}

// Lines retrieves a snapshot of the Sheet's lines.
func (s *Sheet) Lines() (lines []Line) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines = make([]Line, len(s.lines))
	copy(lines, s.lines)

	return
}

// Document retrieves the result of evaluating the whole text as a single line.
func (s *Sheet) Document() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.document.Value, s.document.OK
}
