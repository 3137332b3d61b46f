// Package watch reports when a model or the files next to it change on
// disk, so the viewer can reload it.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/assetview/internal/logger"
)

// DefaultDebounce is how long the directory must stay quiet before a
// change is reported. Exporters often write a model in several steps.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches the directory of a model file. Events arrive on
// fsnotify's goroutine; Poll is meant to be called from the render loop.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	pending bool
	last    time.Time
	changed string

	done chan struct{}
	wg   sync.WaitGroup
}

// New starts watching the directory containing path.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:      fsw,
		dir:      dir,
		debounce: debounce,
		log:      logger.Named("watch"),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()

	w.log.Info("watching", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			w.log.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			w.mu.Lock()
			w.pending = true
			w.last = time.Now()
			w.changed = ev.Name
			w.mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// Poll reports a change once the directory has been quiet for the
// debounce interval, returning the last file that changed. It never blocks.
func (w *Watcher) Poll() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || time.Since(w.last) < w.debounce {
		return "", false
	}
	w.pending = false
	return w.changed, true
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
