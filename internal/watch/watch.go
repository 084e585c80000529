// SPDX-License-Identifier: MIT
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

type (
	// Handler receives the watched file's content after each debounced change.
	Handler func(ctx context.Context, content string)

	// Watcher calls a Handler whenever a file changes, coalescing bursts of writes.
	Watcher struct {
		path    string
		handler Handler

		delay  time.Duration
		logger logrus.FieldLogger
	}

	// Option defines the Watcher functional option type.
	Option func(*Watcher)
)

// DefaultDelay coalesces the writes of a single save or paste.
const DefaultDelay = 10 * time.Millisecond

// Watch errors.
var (
	ErrWatch = errors.New("failed to watch file")
)

// New instantiates a Watcher for path.
func New(path string, handler Handler, opts ...Option) *Watcher {
	w := &Watcher{
		path:    filepath.Clean(path),
		handler: handler,
		delay:   DefaultDelay,
		logger:  logrus.New(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WithDelay configures the debounce delay.
func WithDelay(delay time.Duration) Option { return func(w *Watcher) { w.delay = delay } }

// WithLogger configures the logger option.
func WithLogger(logger logrus.FieldLogger) Option { return func(w *Watcher) { w.logger = logger } }

// Run watches the file until the context is done.
//
// Run returns once any handler call it started has returned.
// The file's directory is watched so that editors replacing the file on save are followed.
func (w *Watcher) Run(ctx context.Context) (err error) {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer

		// inflight counts scheduled & running notifications.
		inflight sync.WaitGroup
	)
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			inflight.Done()
		}
		mu.Unlock()

		inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path ||
				!(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			mu.Lock()
			if timer != nil && timer.Stop() {
				inflight.Done()
			}
			inflight.Add(1)
			timer = time.AfterFunc(w.delay, func() {
				defer inflight.Done()
				w.notify(ctx)
			})
			mu.Unlock()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("watch %s: %v", w.path, werr)
		}
	}
}

func (w *Watcher) notify(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	content, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warnf("read %s: %v", w.path, err)
		return
	}

	w.handler(ctx, string(content))
}
