package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// await returns the first event of path that satisfies cond. Editors and
// os.WriteFile alike may report a file several times per change.
func await(t *testing.T, w *Watcher, path string, cond func(Event) bool) Event {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "events closed")
			if ev.Path == path && cond(ev) {
				return ev
			}
		case <-timeout:
			t.Fatalf("no matching event for %s", path)
		}
	}
}

func hasContent(content string) func(Event) bool {
	return func(ev Event) bool {
		return ev.Unit != nil && string(ev.Unit.Content) == content
	}
}

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	ws := New(afero.NewOsFs(), dir)
	w, err := NewWatcher(ws)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	path := filepath.Join(dir, "a.groovy")
	require.NoError(t, os.WriteFile(path, []byte("break"), 0o644))
	ev := await(t, w, path, hasContent("break"))
	assert.Len(t, ev.Unit.Diagnostics, 1)

	require.NoError(t, os.WriteFile(path, []byte("while (true) { break }"), 0o644))
	ev = await(t, w, path, hasContent("while (true) { break }"))
	assert.Empty(t, ev.Unit.Diagnostics)

	require.NoError(t, os.Remove(path))
	await(t, w, path, Event.Removed)
	assert.Nil(t, ws.Unit(path))

	require.NoError(t, w.Stop())
	for range w.Events() {
		// Drains what was buffered; the loop closed the channel on exit.
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	ws := New(afero.NewOsFs(), dir)
	w, err := NewWatcher(ws)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	defer func() {
		cancel()
		w.Stop()
	}()

	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	// Give the watcher time to add the new directory.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(sub, "b.groovy")
	require.NoError(t, os.WriteFile(path, []byte("class B {}"), 0o644))
	ev := await(t, w, path, hasContent("class B {}"))
	require.NotNil(t, ev.Unit.Result)
	assert.NotNil(t, ev.Unit.Result.Module.Class("B"))
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(New(afero.NewOsFs(), t.TempDir()))
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
