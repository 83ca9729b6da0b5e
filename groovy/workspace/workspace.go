// Package workspace keeps the parsed state of a tree of Groovy sources:
// the units read from a filesystem, their latest diagnostics, a watcher
// that reparses units as files change, and a language server on top.
package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/dhamidi/grove/groovy"
	"github.com/dhamidi/grove/groovy/diag"
	"github.com/sasha-s/go-deadlock"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

func logger() commonlog.Logger {
	return commonlog.GetLogger("grove.workspace")
}

const sourceExt = ".groovy"

// IsSource reports whether path names a Groovy source file.
func IsSource(path string) bool {
	return filepath.Ext(path) == sourceExt
}

// Unit is the latest parse of one source file. Result is nil when the
// unit failed; Diagnostics then explains why.
type Unit struct {
	Path        string
	Content     []byte
	Result      *groovy.Result
	Diagnostics []diag.Diagnostic
	Err         error

	seq uint64
}

type Workspace struct {
	fs   afero.Fs
	root string
	opts []groovy.Option

	mu    deadlock.RWMutex
	seq   uint64
	units map[string]*Unit
}

func New(fs afero.Fs, root string, opts ...groovy.Option) *Workspace {
	return &Workspace{
		fs:    fs,
		root:  root,
		opts:  opts,
		units: make(map[string]*Unit),
	}
}

func (w *Workspace) Root() string {
	return w.root
}

func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Sources lists the Groovy files under the root, skipping hidden
// directories.
func (w *Workspace) Sources() ([]string, error) {
	var paths []string
	err := afero.Walk(w.fs, w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.root && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// ScanAll parses every source under the root in parallel. It returns an
// error only if the tree could not be listed; failed units are recorded
// with their diagnostics.
func (w *Workspace) ScanAll(ctx context.Context) error {
	paths, err := w.Sources()
	if err != nil {
		return err
	}
	for _, out := range groovy.ParseAll(ctx, w.fs, paths, w.opts...) {
		content, _ := afero.ReadFile(w.fs, out.Path)
		w.store(newUnit(out.Path, content, out.Result, out.Err), w.next())
	}
	logger().Infof("scanned %d units under %s", len(paths), w.root)
	return nil
}

// ScanFile reads path from the filesystem and reparses it.
func (w *Workspace) ScanFile(ctx context.Context, path string) (*Unit, error) {
	content, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return nil, err
	}
	return w.Update(ctx, path, content), nil
}

// Update reparses path with content, which need not match the file on
// disk, and records the new state. When updates of one path race, the one
// started last wins.
func (w *Workspace) Update(ctx context.Context, path string, content []byte) *Unit {
	seq := w.next()
	res, err := groovy.Parse(ctx, path, content, w.opts...)
	u := newUnit(path, content, res, err)
	return w.store(u, seq)
}

func (w *Workspace) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.units, path)
}

func (w *Workspace) Unit(path string) *Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.units[path]
}

// Units returns every unit sorted by path.
func (w *Workspace) Units() []*Unit {
	w.mu.RLock()
	units := make([]*Unit, 0, len(w.units))
	for _, u := range w.units {
		units = append(units, u)
	}
	w.mu.RUnlock()
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })
	return units
}

// Diagnostics returns the diagnostics of the latest parse of path.
func (w *Workspace) Diagnostics(path string) []diag.Diagnostic {
	if u := w.Unit(path); u != nil {
		return u.Diagnostics
	}
	return nil
}

func (w *Workspace) next() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seq++
	return w.seq
}

func (w *Workspace) store(u *Unit, seq uint64) *Unit {
	u.seq = seq
	w.mu.Lock()
	defer w.mu.Unlock()
	if old := w.units[u.Path]; old != nil && old.seq > seq {
		return old
	}
	w.units[u.Path] = u
	return u
}

func newUnit(path string, content []byte, res *groovy.Result, err error) *Unit {
	u := &Unit{Path: path, Content: content, Result: res, Err: err}
	var failed *diag.CompilationFailed
	if errors.As(err, &failed) {
		u.Diagnostics = failed.Diagnostics
	}
	return u
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
