package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces a burst of filesystem events (editors doing an
// atomic rename-swap save) into a single reload, mirroring gascity's
// cmd/gc/controller.go watchConfigDirs.
var reloadDebounce = 200 * time.Millisecond

// Watcher watches a config file for changes and calls OnReload with the
// freshly decoded Root each time it settles after an edit. A failed decode
// is dropped silently (OnReload is never called with an error) so a
// momentarily-invalid save (editor still writing) doesn't crash the
// controller; the last good Root keeps being used until the next valid save.
type Watcher struct {
	path     string
	fw       *fsnotify.Watcher
	onReload func(*Root)

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher starts watching path's containing directory (not the file
// itself, so editor rename-swap saves are still seen) and invokes onReload
// whenever the file changes and re-decodes successfully.
func NewWatcher(path string, onReload func(*Root)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{path: path, fw: fw, onReload: onReload}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case _, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.scheduleReload()
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		root, err := Load(w.path)
		if err != nil {
			return
		}
		root.ApplyGathererWeights()
		w.onReload(root)
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
