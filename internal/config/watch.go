package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/b-hartley/claude-usage-tui/internal/logger"
)

// Watcher reloads the config file when it changes on disk and reports
// each reload on a channel.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	changes       chan *Config
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// Watch starts watching the config file's directory for changes.
func Watch(path string) (*Watcher, error) {
	if path == "" {
		path = DefaultPath()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	w := &Watcher{
		path:     path,
		watcher:  fsWatcher,
		changes:  make(chan *Config, 1),
		stopChan: make(chan struct{}),
	}

	go w.watchLoop()
	return w, nil
}

// Changes returns the channel of reloaded configs.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, w.handleChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("config watcher error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

// handleChange reloads the config after an external change.
func (w *Watcher) handleChange() {
	cfg, err := loadFrom(w.path)
	if err != nil {
		logger.Error("failed to reload config", "error", err)
		return
	}

	select {
	case w.changes <- cfg:
	default:
		// A pending reload is already queued; drop it for the newer one.
		select {
		case <-w.changes:
		default:
		}
		select {
		case w.changes <- cfg:
		default:
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopChan)
	return w.watcher.Close()
}
