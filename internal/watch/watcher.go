// Package watch re-runs dataset validation when the dataset tree changes.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"kumaydet/internal/dataset"
)

// Watcher monitors the dataset root and its split directories and invokes
// a callback after changes settle. Rapid bursts of filesystem events (a
// copy of hundreds of images) collapse into one callback per quiet period.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	layout   dataset.Layout
	logger   *zap.Logger
	onChange func(ctx context.Context)
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	// Stats for tests and debugging.
	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Triggers  int
	Errors    int
	LastEvent time.Time
	LastPath  string
}

// New creates a Watcher over the given dataset layout. onChange runs on
// the watcher goroutine; it should do its own locking if needed.
func New(l dataset.Layout, logger *zap.Logger, onChange func(ctx context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fsw,
		layout:   l,
		logger:   logger,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the settle period. Only useful before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching. Non-blocking; events are handled on a goroutine
// until Stop is called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := append([]string{w.layout.Root}, w.layout.RequiredDirs()...)
	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			// Missing split dirs are a validation finding, not a watch
			// failure; keep watching whatever exists.
			w.logger.Warn("Cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	go w.loop(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

// Snapshot returns a copy of the watcher activity counters.
func (w *Watcher) Snapshot() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerC <-chan time.Time

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
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.stats.Events++
			w.stats.LastEvent = time.Now()
			w.stats.LastPath = event.Name
			w.mu.Unlock()

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.mu.Lock()
			w.stats.Triggers++
			w.mu.Unlock()
			w.logger.Info("Dataset changed, revalidating")
			w.onChange(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
			w.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}
