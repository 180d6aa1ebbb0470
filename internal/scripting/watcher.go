package scripting

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher flags a reload whenever a .lua file in the scripts directory
// changes. It runs on its own goroutine and never touches the VM; the game
// loop polls ReloadPending and calls Engine.Reload itself.
type Watcher struct {
	watcher *fsnotify.Watcher
	pending chan struct{}
	done    chan struct{}
	log     *zap.Logger
}

// NewWatcher starts watching dir.
func NewWatcher(dir string, log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		watcher: fw,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     log,
	}
	go w.run()
	log.Debug("watching scripts", zap.String("dir", dir))
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != ".lua" {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.log.Debug("script changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				w.flag()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("script watcher error", zap.Error(err))
		case <-w.done:
			return
		}
	}
}

// flag marks a reload as pending; bursts of writes collapse into one.
func (w *Watcher) flag() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// ReloadPending reports and clears the pending-reload flag.
func (w *Watcher) ReloadPending() bool {
	select {
	case <-w.pending:
		return true
	default:
		return false
	}
}

func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
