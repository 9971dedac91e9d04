package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the policy file watcher.
type WatcherConfig struct {
	// Path is the policy file to watch.
	Path string

	// DebounceInterval coalesces bursts of write events into one reload.
	// Default: 200ms.
	DebounceInterval time.Duration
}

// Watcher watches a policy file and swaps reloaded documents into an
// Engine. Editors often write files with several rapid events, so reloads
// are debounced. A reload that fails to parse keeps the last good policy.
type Watcher struct {
	engine *Engine
	config WatcherConfig
	logger *slog.Logger
}

// NewWatcher creates a watcher that feeds reloads into the given engine.
func NewWatcher(engine *Engine, config WatcherConfig) *Watcher {
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 200 * time.Millisecond
	}
	return &Watcher{
		engine: engine,
		config: config,
		logger: slog.Default().With("component", "policy.watcher"),
	}
}

// Watch blocks until the context is cancelled, reloading the policy file
// on change. The parent directory is watched rather than the file itself
// so atomic rename-into-place saves are observed.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.config.Path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("policy watcher started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
	)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("policy watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceInterval)
				timerCh = timer.C
			} else {
				timer.Reset(w.config.DebounceInterval)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("policy watcher error", "error", err)
		}
	}
}

// reload loads the policy file and swaps it in. Failures are logged and
// the previous policy stays active.
func (w *Watcher) reload() {
	cfg, err := Load(w.config.Path)
	if err != nil {
		w.logger.Error("policy reload failed, keeping previous policy",
			"path", w.config.Path,
			"error", err,
		)
		return
	}
	w.engine.Swap(cfg)
}
