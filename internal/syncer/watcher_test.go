package syncer

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFastWatcher(dir string, onChange func(context.Context)) *Watcher {
	w := NewWatcher(dir, 50*time.Millisecond, onChange, quietLogger)
	w.interval = 10 * time.Millisecond

	return w
}

// --- shouldIgnore ---

func TestWatcher_ShouldIgnore(t *testing.T) {
	tests := []struct {
		path   string
		ignore bool
	}{
		{"docs/guide.md", false},
		{"docs/sub", false},
		{".git", true},
		{"docs/.draft.md", true},
		{"guide.md~", true},
		{".guide.md.swp", true},
		{"notes.swp", true},
		{"node_modules", true},
	}

	w := &Watcher{}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignore, w.shouldIgnore(tt.path), "shouldIgnore(%q)", tt.path)
		})
	}
}

func TestIsMarkdownPath(t *testing.T) {
	assert.True(t, isMarkdownPath("a/b.md"))
	assert.True(t, isMarkdownPath("README.MD"))
	assert.False(t, isMarkdownPath("image.png"))
	assert.False(t, isMarkdownPath("dir"))
}

func TestNewWatcher_DefaultDebounce(t *testing.T) {
	w := NewWatcher(t.TempDir(), 0, func(context.Context) {}, quietLogger)

	assert.Equal(t, DefaultWatchDebounce, w.quiet)
	assert.Equal(t, watcherDebounceInterval, w.interval)
}

// --- Watch ---

func TestWatcher_RunsAfterMarkdownChange(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32

	w := newFastWatcher(dir, func(context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte("# Guide\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.md"), []byte("# Setup\n"), 0o644))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	// Both writes land in one batch.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32

	w := newFastWatcher(dir, func(context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())

	cancel()
	<-done
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()

	var runs atomic.Int32

	w := newFastWatcher(dir, func(context.Context) { runs.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.md"), []byte("text"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := newFastWatcher(filepath.Join(t.TempDir(), "missing"), func(context.Context) {})

	err := w.Watch(context.Background())
	assert.Error(t, err)
}
