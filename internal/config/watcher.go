package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Marshal-AM/sillyboy/internal/observability"
)

// TunablesCallback is called with the new tunables when the
// configuration file changes and passes validation.
type TunablesCallback func(Tunables)

// Watcher watches the configuration file and hot-reloads the tunables
// section. Static settings (ports, upstream URLs, auth key) are fixed
// for the process lifetime; a change to them is logged and ignored
// until restart.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	callback      TunablesCallback
	logger        observability.Logger
	debounceDelay time.Duration
	lastTunables  Tunables
	mu            sync.RWMutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a new configuration watcher.
func NewWatcher(path string, callback TunablesCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching the configuration file.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	cfg, err := LoadConfig(w.path)
	if err != nil {
		return err
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastTunables = cfg.Tunables
	w.mu.Unlock()

	// Watch the directory: editors replace files instead of writing
	// in place, which would drop a watch on the file itself.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("started watching configuration file",
		observability.String("path", w.path),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching the configuration file.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// LastTunables returns the last successfully loaded tunables.
func (w *Watcher) LastTunables() Tunables {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastTunables
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", observability.Error(err))
		}
	}
}

// handleFileEvent processes a file system event and returns the
// updated debounce timer.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.path {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("config file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

// reload re-reads the configuration file and publishes the tunables.
func (w *Watcher) reload() {
	cfg, err := LoadConfig(w.path)
	if err != nil {
		w.logger.Error("failed to reload configuration", observability.Error(err))
		return
	}
	if err := ValidateConfig(cfg); err != nil {
		w.logger.Error("reloaded configuration is invalid", observability.Error(err))
		return
	}

	w.mu.Lock()
	changed := cfg.Tunables != w.lastTunables
	w.lastTunables = cfg.Tunables
	w.mu.Unlock()

	if !changed {
		return
	}

	w.logger.Info("tunables reloaded",
		observability.Int("retry_max", cfg.Tunables.Retry.MaxRetries),
		observability.Duration("monitor_interval", cfg.Tunables.Monitor.Interval.Duration()),
		observability.Int("monitor_max_attempts", cfg.Tunables.Monitor.MaxAttempts),
	)

	if w.callback != nil {
		w.callback(cfg.Tunables)
	}
}
