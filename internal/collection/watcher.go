// Package collection keeps the in-memory collection in sync with an
// exported CSV file on disk.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/deckadvisor/deck-advisor/internal/deck"
	"github.com/deckadvisor/deck-advisor/internal/deckimport"
)

// debounce coalesces bursts of write events from editors and exporters
// that rewrite the file in several steps.
const debounce = 250 * time.Millisecond

// Watcher reloads a collection CSV whenever the file changes and
// notifies a callback with the fresh snapshot.
type Watcher struct {
	path     string
	onReload func(deck.Collection)
	logger   *slog.Logger

	mu      sync.RWMutex
	current deck.Collection
}

// NewWatcher creates a watcher for the CSV at path. onReload is called
// with every successfully parsed snapshot, including the initial load.
func NewWatcher(path string, onReload func(deck.Collection), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		onReload: onReload,
		logger:   logger,
		current:  make(deck.Collection),
	}
}

// Snapshot returns the most recently loaded collection.
func (w *Watcher) Snapshot() deck.Collection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Run loads the file once, then blocks watching for changes until the
// context is canceled. Exporters often replace the file by rename, so
// the parent directory is watched rather than the file itself.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.reload(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-timerC:
			if err := w.reload(); err != nil {
				w.logger.Warn("collection reload failed", "path", w.path, "error", err)
			}
		case err := <-watcher.Errors:
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() error {
	f, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("open collection file: %w", err)
	}
	defer func() { _ = f.Close() }()

	collection, err := deckimport.ParseCollectionCSV(f)
	if err != nil {
		return fmt.Errorf("parse collection file: %w", err)
	}

	w.mu.Lock()
	w.current = collection
	w.mu.Unlock()

	w.logger.Info("collection loaded", "path", w.path, "cards", len(collection))
	if w.onReload != nil {
		w.onReload(collection)
	}
	return nil
}
