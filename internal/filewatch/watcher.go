// Package filewatch follows the currently selected image on disk so the
// session can re-read it after an edit or drop it once it disappears.
package filewatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a file event
type Kind int

const (
	// Changed means the file was written or recreated
	Changed Kind = iota
	// Removed means the file was deleted or moved away
	Removed
)

// String returns a short label for logs
func (k Kind) String() string {
	if k == Removed {
		return "removed"
	}
	return "changed"
}

// Event reports a change to the watched file
type Event struct {
	Path string
	Kind Kind
}

// Watcher follows a single file. The parent directory is watched so editors
// that save by rename are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event
	errors chan error
	done   chan struct{}

	mu     sync.Mutex
	target string
	dir    string

	closeOnce sync.Once
}

// New starts a watcher with nothing selected
func New() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		fs:     fs,
		events: make(chan Event, 8),
		errors: make(chan error, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events delivers changes to the watched file
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors delivers watcher failures
func (w *Watcher) Errors() <-chan error { return w.errors }

// Watch replaces the watched file with path
func (w *Watcher) Watch(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("failed to watch file: %w", err)
		}
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		w.dir = dir
	}
	w.target = abs
	return nil
}

// Unwatch stops following the current file
func (w *Watcher) Unwatch() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" {
		_ = w.fs.Remove(w.dir)
	}
	w.dir = ""
	w.target = ""
}

// Target returns the absolute path being watched, if any
func (w *Watcher) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// Close stops the watcher and closes its channels
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.events)
	defer close(w.errors)

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e, ok := w.translate(event); ok {
				select {
				case w.events <- e:
				case <-w.done:
					return
				}
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) translate(event fsnotify.Event) (Event, bool) {
	target := w.Target()
	if target == "" || filepath.Clean(event.Name) != target {
		return Event{}, false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return Event{Path: target, Kind: Removed}, true
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		return Event{Path: target, Kind: Changed}, true
	}
	return Event{}, false
}
