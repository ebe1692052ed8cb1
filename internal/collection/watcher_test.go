package collection

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deckadvisor/deck-advisor/internal/deck"
)

func writeCSV(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherInitialLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collection.csv")
	writeCSV(t, path, "Name,Quantity\nShock,4\n")

	loaded := make(chan deck.Collection, 1)
	w := NewWatcher(path, func(c deck.Collection) {
		select {
		case loaded <- c:
		default:
		}
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case c := <-loaded:
		if c.Owned("Shock") != 4 {
			t.Errorf("Owned(Shock) = %d, want 4", c.Owned("Shock"))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("initial load callback never fired")
	}

	if w.Snapshot().Owned("Shock") != 4 {
		t.Error("Snapshot() does not reflect the initial load")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collection.csv")
	writeCSV(t, path, "Name,Quantity\nShock,4\n")

	reloads := make(chan deck.Collection, 4)
	w := NewWatcher(path, func(c deck.Collection) { reloads <- c }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Wait for the initial load before rewriting.
	select {
	case <-reloads:
	case <-time.After(2 * time.Second):
		t.Fatal("initial load never happened")
	}

	writeCSV(t, path, "Name,Quantity\nShock,4\nMountain,12\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloads:
			if c.Owned("Mountain") == 12 {
				return
			}
		case <-deadline:
			t.Fatal("file change never triggered a reload")
		}
	}
}

func TestWatcherMissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing.csv"), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := w.Run(ctx); err == nil {
		t.Error("missing file must fail the initial load")
	}
}
