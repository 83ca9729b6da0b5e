package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

// Event reports a unit that was reparsed or removed after a file change.
type Event struct {
	Path string
	// Unit is the new state; it is nil when the file was removed.
	Unit *Unit
}

func (e Event) Removed() bool { return e.Unit == nil }

// Watcher reparses the units of a workspace when their files change. The
// workspace filesystem must be backed by the operating system, since
// change notifications come from it.
type Watcher struct {
	ws  *Workspace
	fsw *fsnotify.Watcher

	events  chan Event
	errors  chan error
	stop    chan struct{}
	done    chan struct{}
	started atomic.Bool
	once    sync.Once
}

// NewWatcher watches the workspace root and every directory below it.
func NewWatcher(ws *Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		ws:     ws,
		fsw:    fsw,
		events: make(chan Event, 64),
		errors: make(chan error, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	if err := w.addTree(ws.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Events() <-chan Event { return w.events }
func (w *Watcher) Errors() <-chan error { return w.errors }

// Start runs the event loop until ctx is done or Stop is called. The
// events channel is closed when the loop exits.
func (w *Watcher) Start(ctx context.Context) {
	if w.started.CompareAndSwap(false, true) {
		go w.run(ctx)
	}
}

// Stop ends the event loop and waits for it to exit.
func (w *Watcher) Stop() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
	})
	if w.started.Load() {
		<-w.done
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)
	defer w.once.Do(func() {
		close(w.stop)
		w.fsw.Close()
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger().Warningf("watch: %s", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	path := ev.Name
	if ev.Has(fsnotify.Create) {
		if info, err := w.ws.Fs().Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				logger().Warningf("watch %s: %s", path, err)
			}
			return
		}
	}
	if !IsSource(path) {
		return
	}

	var out Event
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.ws.Remove(path)
		out = Event{Path: path}
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		u, err := w.ws.ScanFile(ctx, path)
		if err != nil {
			logger().Debugf("rescan %s: %s", path, err)
			return
		}
		out = Event{Path: path, Unit: u}
	default:
		return
	}
	logger().Debugf("%s changed (%s)", path, ev.Op)

	select {
	case w.events <- out:
	case <-ctx.Done():
	case <-w.stop:
	}
}

func (w *Watcher) addTree(root string) error {
	return afero.Walk(w.ws.Fs(), root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && isHidden(info.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}
