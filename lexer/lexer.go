// SPDX-License-Identifier: MIT
package lexer

// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go
// REF: https://dave.cheney.net/high-performance-json.html
// REF: []rune to []byte conversion. https://stackoverflow.com/a/29255836

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

type (
	// NextOperation type for the next function to be executed
	NextOperation func(context.Context) NextOperation

	// ValidationFunction type for functions that validate rune identities
	ValidationFunction func(rune) bool

	// Lexer scans free-form text for numbers & arithmetic operators, discarding everything else.
	Lexer struct {
		Debug  bool
		logger logrus.FieldLogger

		// c is a channel for communicating lexed Items.
		c chan Item

		// source is the input source.
		source io.RuneReader

		// buffer is a slice of runes being lexed.
		buffer []rune
		//  bufferIndex is the current buffer position.
		//
		// When this value exceeds the length of buffer, the buffer is populated from the source.
		bufferIndex int

		// start is the position, in runes, of buffer[0] within the source.
		start int

		numberCounter   int
		operatorCounter int
	}

	// Option defines the Lexer functional option type
	Option func(*Lexer)
)

const (
	defBufferSize = 10

	// eof is returned by Next once the source is exhausted.
	eof rune = -1

	groupSize = 3
)

// Lexing errors.
var (
	ErrInvalidPeekLength   = errors.New("invalid peek length")
	ErrInvalidBackupAmount = errors.New("invalid backup amount")
)

// New creates a new scanner, the source defaults to an empty input.
func New(opts ...Option) *Lexer {
	l := &Lexer{
		logger: logrus.New(),

		c: make(chan Item, defBufferSize),

		buffer: make([]rune, 0, defBufferSize),
		source: strings.NewReader(""),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithDebug configures the debug option.
func WithDebug(debug bool) Option { return func(l *Lexer) { l.Debug = debug } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(l *Lexer) { l.logger = logger } }

// WithSource configures the source option.
func WithSource(source io.RuneReader) Option { return func(l *Lexer) { l.source = source } }

// NumberCounter obtains the count of emitted numbers.
func (l *Lexer) NumberCounter() int { return l.numberCounter }

// OperatorCounter obtains the count of emitted operators.
func (l *Lexer) OperatorCounter() int { return l.operatorCounter }

// Logger obtains the logger.
func (l *Lexer) Logger() logrus.FieldLogger { return l.logger }

// Lex lexes the input by executing state functions.
//
// The Item channel is closed once lexing ends.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for stateFunction := l.LexWhitespace; stateFunction != nil; {
		select {
		case <-ctx.Done():
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			l.EmitError(err)
			return
		default:
			stateFunction = stateFunction(ctx)
		}
	}
}

// LexWhitespace discards whitespace & dispatches on the following rune.
func (l *Lexer) LexWhitespace(_ context.Context) NextOperation {
	if err := l.AcceptWhile(isWhitespace); err != nil {
		l.EmitError(err)
		return nil
	}
	// Ignore white spaces, discard instead of emit.
	l.Discard()

	next, err := l.Peek()
	if err != nil {
		l.EmitError(err)
		return nil
	}

	switch {
	case IsOperator(next):
		return l.LexOperator
	case isDigit(next):
		return l.LexNumber
	default:
		return l.LexWord
	}
}

// LexOperator emits a single operator rune.
func (l *Lexer) LexOperator(_ context.Context) NextOperation {
	l.Next()

	l.operatorCounter++
	l.Emit(ItemOperator)

	return l.LexWhitespace
}

// LexNumber emits the longest number token at the current position.
//
// Two forms are recognized: comma grouped digits (`1,234,567.89`) & plain digits with an optional
// fraction (`1234567.89`, `12.`).
func (l *Lexer) LexNumber(_ context.Context) NextOperation {
	if err := l.AcceptWhile(isNumeric); err != nil && !errors.Is(err, io.EOF) {
		l.EmitError(err)
		return nil
	}

	candidate := l.buffer[:l.bufferIndex]
	length := numberLength(candidate)
	if err := l.BackupN(len(candidate) - length); err != nil {
		l.EmitError(err)
		return nil
	}

	l.numberCounter++
	l.EmitFunc(ItemNumber, func(r rune) bool { return r != ',' })

	return l.LexWhitespace
}

// LexWord discards a run of non-space, non-operator runes.
func (l *Lexer) LexWord(_ context.Context) NextOperation {
	if err := l.AcceptWhile(isWord); err != nil && !errors.Is(err, io.EOF) {
		l.EmitError(err)
		return nil
	}

	if l.Debug {
		l.logger.Debugf("lexer discarded word of %d rune(s) at %d", l.bufferIndex, l.start)
	}
	l.Discard()

	return l.LexWhitespace
}

// Next return the Next rune in the input.
func (l *Lexer) Next() (r rune) {
	if l.bufferIndex >= len(l.buffer) {
		// Request data from the source.
		if l.Source(0) < 1 {
			r = eof
			return
		}
	}

	r = l.buffer[l.bufferIndex]
	l.bufferIndex++

	return
}

// Peek return the next rune, without updating the index.
func (l *Lexer) Peek() (r rune, err error) {
	list, err := l.PeekN(1)
	if err != nil {
		return
	}
	r = list[0]

	return
}

// PeekN return the next N runes, without updating the index.
//
// This operation will return a shorter slice if the the end of the source is reached.
func (l *Lexer) PeekN(n int) (list []rune, err error) {
	if n < 1 {
		err = fmt.Errorf("%w: %d", ErrInvalidPeekLength, n)
		return
	}

	limit := l.bufferIndex + n
	if limit > len(l.buffer) {
		// Request data from the source.
		l.Source(limit - len(l.buffer))
	}
	if limit > len(l.buffer) {
		limit = len(l.buffer)
	}
	if limit <= l.bufferIndex {
		err = io.EOF
		return
	}

	list = l.buffer[l.bufferIndex:limit]

	return
}

// Backup step back one rune.
func (l *Lexer) Backup() error { return l.BackupN(1) }

// BackupN step back N runes.
func (l *Lexer) BackupN(n int) (err error) {
	if n < 0 || l.bufferIndex < n {
		err = fmt.Errorf("%w: amount %d index: %d", ErrInvalidBackupAmount, n, l.bufferIndex)
		return
	}
	l.bufferIndex -= n

	return
}

// Discard the buffer content before the current buffer index.
func (l *Lexer) Discard() {
	l.start += l.bufferIndex
	l.buffer = l.buffer[l.bufferIndex:]
	l.bufferIndex = 0
}

// Source runes from the source reader.
func (l *Lexer) Source(amount int) (sourced int) {
	if amount < defBufferSize {
		amount = defBufferSize
	}

	buffer := make([]rune, amount)
	for ; sourced < amount; sourced++ {
		// NOTE: Function cost reduced by swapping the error check's condition.
		if r, _, err := l.source.ReadRune(); err == nil {
			buffer[sourced] = r
			continue
		}

		// Error can only be io.EOF
		break
	}

	l.buffer = append(l.buffer, buffer[:sourced]...)

	return
}

// AcceptWhile consumes runes while condition is true.
//
// Returns io.EOF when the source is exhausted before the condition fails.
func (l *Lexer) AcceptWhile(fn ValidationFunction) (err error) {
	for {
		r := l.Next()
		if r == eof {
			// End of input.
			return io.EOF
		}

		// End of current token type.
		if !fn(r) {
			return l.Backup()
		}
	}
}

// Emit sends an Item over the communication channel.
func (l *Lexer) Emit(t ItemID) { l.EmitFunc(t, nil) }

// EmitFunc sends an Item over the communication channel, keeping the runes accepted by keep.
//
// A nil keep retains every rune.
func (l *Lexer) EmitFunc(t ItemID, keep ValidationFunction) {
	runes := l.buffer[:l.bufferIndex]

	bufSize := 0
	for _, r := range runes {
		if keep == nil || keep(r) {
			bufSize += utf8.RuneLen(r)
		}
	}
	buf := make([]byte, bufSize)

	index := 0
	for _, r := range runes {
		if keep == nil || keep(r) {
			index += utf8.EncodeRune(buf[index:], r)
		}
	}

	if l.Debug {
		// Debug operation makes this operation un-inlinable.
		l.logger.Debugf("lexer Emit: %s at %d", t, l.start)
	}

	l.c <- Item{
		ID:  t,
		Val: buf,
		Pos: l.start,
	}
	l.Discard()
}

// EmitEOF sends an ItemEOF Item over the communication channel.
func (l *Lexer) EmitEOF() {
	l.c <- Item{ID: ItemEOF, Pos: l.start + l.bufferIndex}
}

// EmitError sends an error over the `Lexer`'s channel.
//
// This terminates the scan process with an error or an ItemEOF for io.EOF.
func (l *Lexer) EmitError(err error) {
	if errors.Is(err, io.EOF) {
		l.EmitEOF()
		return
	}

	l.c <- Item{
		ID:  ItemError,
		Err: err,
		Pos: l.start + l.bufferIndex,
	}
}

// Item return a lexed Item from the input.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

// numberLength returns the length of the longest number token prefixing runes.
func numberLength(runes []rune) int {
	return max(groupedLength(runes), plainLength(runes))
}

// groupedLength matches `\d{1,3}(,\d{3})*(\.\d+)?`.
func groupedLength(runes []rune) (n int) {
	for n < len(runes) && n < groupSize && isDigit(runes[n]) {
		n++
	}
	if n == 0 {
		return
	}

	for n+groupSize < len(runes) && runes[n] == ',' &&
		isDigit(runes[n+1]) && isDigit(runes[n+2]) && isDigit(runes[n+3]) {
		n += groupSize + 1
	}

	return n + fractionLength(runes[n:], true)
}

// plainLength matches `\d+\.?\d*`.
func plainLength(runes []rune) (n int) {
	for n < len(runes) && isDigit(runes[n]) {
		n++
	}
	if n == 0 {
		return
	}

	return n + fractionLength(runes[n:], false)
}

// fractionLength matches a `.` followed by digits; wantDigits rejects a bare `.`.
func fractionLength(runes []rune, wantDigits bool) (n int) {
	if len(runes) < 1 || runes[0] != '.' {
		return
	}

	digits := 0
	for 1+digits < len(runes) && isDigit(runes[1+digits]) {
		digits++
	}
	if wantDigits && digits == 0 {
		return
	}

	return 1 + digits
}

// isWhitespace return true for unicode whitespace.
func isWhitespace(r rune) bool { return unicode.IsSpace(r) }

// isDigit return true for an ASCII digit.
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// isNumeric return true for runes that may appear in a number token.
func isNumeric(r rune) bool { return isDigit(r) || r == ',' || r == '.' }

// isWord return true for runes that are neither whitespace nor operators.
func isWord(r rune) bool { return !isWhitespace(r) && !IsOperator(r) }
