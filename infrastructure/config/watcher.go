package config

import (
	"context"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the configuration when its file changes and notifies
// registered callbacks with the new value. A reload that fails
// validation is logged and discarded; the last good configuration stays
// in effect.
type Watcher struct {
	path    string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu        sync.RWMutex
	current   *Config
	callbacks []func(*Config)
}

// NewWatcher loads the configuration once and prepares a file watcher
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		path:    path,
		logger:  logger,
		watcher: fsWatcher,
		current: cfg,
	}, nil
}

// Current returns the last good configuration
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after every successful reload
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Watch blocks on file events until the context is cancelled. Editors
// that replace the file (rename plus create) are handled by re-adding
// the watch path after each event.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return err
	}
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload()
			// Re-add after atomic replace; failure means the file is
			// gone and the next create will not be seen, log it
			if err := w.watcher.Add(w.path); err != nil {
				w.logger.Warn("failed to re-watch config file",
					zap.String("path", w.path),
					zap.Error(err),
				)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Warn("config reload failed, keeping last good configuration",
			zap.String("path", w.path),
			zap.Error(err),
		)
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Info("configuration reloaded", zap.String("path", w.path))
	for _, callback := range callbacks {
		callback(cfg)
	}
}
