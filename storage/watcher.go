package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the storage tree and flags mutations that did not go
// through this process's write path. A flagged tree means the index may
// have drifted and should be verified or rebuilt.
type Watcher struct {
	fw       *fsnotify.Watcher
	dirty    atomic.Bool
	onChange func(path string)

	closeOnce sync.Once
	done      chan struct{}
}

// Watch starts watching the store's results tree. onChange, if non-nil,
// is invoked with the changed path on every payload mutation.
func (s *FileStore) Watch(onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("storage: create watcher: %w", err)
	}

	w := &Watcher{
		fw:       fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	// fsnotify watches are not recursive; register every directory in
	// the tree and pick up new ones from create events.
	root := filepath.Join(s.root, resultsDir)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("storage: watch %s: %w", root, err)
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors (overflow, removed roots) mean events may
			// have been missed; treat the tree as dirty.
			w.dirty.Store(true)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fw.Add(event.Name)
			return
		}
	}

	// Temp files from our own atomic writes settle via rename; only the
	// final payload name matters.
	if !strings.HasSuffix(event.Name, ".json") {
		return
	}
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		w.dirty.Store(true)
		if w.onChange != nil {
			w.onChange(event.Name)
		}
	}
}

// Dirty reports whether the tree changed since the last Reset.
func (w *Watcher) Dirty() bool {
	return w.dirty.Load()
}

// Reset clears the dirty flag, typically after a verify/rebuild pass.
func (w *Watcher) Reset() {
	w.dirty.Store(false)
}

// Close stops watching. Safe to call multiple times.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fw.Close()
	})
	return err
}
