package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"trestle/pkg/logging"
)

// FileWatcher watches a single results file for changes and invokes a
// callback once a burst of writes has settled. Editors and CI runners often
// write the file in several bursts, so events are debounced per path.
type FileWatcher struct {
	mu sync.Mutex

	// path is the absolute path of the watched file.
	path string

	// watcher is the fsnotify watcher instance
	watcher *fsnotify.Watcher

	// debounceInterval is how long to wait for additional changes
	debounceInterval time.Duration

	// pending is the debounce timer for the watched file
	pending *time.Timer

	// stopCh signals shutdown
	stopCh chan struct{}

	// running indicates if the watcher is active
	running bool
}

// NewFileWatcher creates a watcher for the given file.
func NewFileWatcher(path string, debounceInterval time.Duration) (*FileWatcher, error) {
	if debounceInterval == 0 {
		debounceInterval = 500 * time.Millisecond
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		path:             abs,
		debounceInterval: debounceInterval,
		stopCh:           make(chan struct{}),
	}, nil
}

// Start begins watching. onChange runs on the watcher goroutine after each
// settled change until the context is cancelled or Stop is called.
func (w *FileWatcher) Start(ctx context.Context, onChange func()) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}

	w.watcher = watcher
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	// Watch the containing directory; watching the file itself breaks on
	// rename-replace writes.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.Stop()
		return err
	}

	go w.processEvents(ctx, onChange)

	logging.Info("Watcher", "Watching %s for changes", w.path)
	return nil
}

// Stop shuts the watcher down and cancels any pending debounce timer.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)

	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	// Closing the watcher ends the event goroutine; the pointer stays set
	// because that goroutine may still be selecting on its channels.
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *FileWatcher) processEvents(ctx context.Context, onChange func()) {
	settled := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case <-w.stopCh:
			return

		case <-settled:
			logging.Debug("Watcher", "Change settled on %s", w.path)
			onChange()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsEvent(event, settled)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

func (w *FileWatcher) handleFsEvent(event fsnotify.Event, settled chan<- struct{}) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounceInterval, func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	})
}
