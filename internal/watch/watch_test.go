// SPDX-License-Identifier: MIT
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("start"), 0o600))

	received := make(chan string, 10)
	w := New(path, func(_ context.Context, content string) { received <- content },
		WithDelay(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	for _, content := range []string{"1 + 1", "1 + 2", "1 + 3"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	// Bursts are coalesced; a slow machine may still observe intermediate content.
	timeout := time.After(5 * time.Second)
	for got := ""; got != "1 + 3"; {
		select {
		case got = <-received:
		case <-timeout:
			t.Fatalf("Watcher.Run() handler did not receive the final content, last: %q", got)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher.Run() did not return after cancellation")
	}
}

func TestWatcher_RunWaitsForHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("start"), 0o600))

	started, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	w := New(path, func(context.Context, string) {
		once.Do(func() { close(started) })
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("1 + 1"), 0o600))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher.Run() handler was not called")
	}

	cancel()
	select {
	case <-done:
		t.Fatal("Watcher.Run() returned while a handler was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watcher.Run() did not return after the handler")
	}
}

func TestWatcher_RunMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "notes.txt"), func(context.Context, string) {})

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrWatch)
}
