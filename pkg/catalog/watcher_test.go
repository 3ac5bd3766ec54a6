package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	writeFile(t, path, "fields:\n  - kind: text\n    label: Name\n")

	reloaded := make(chan *Catalog, 4)
	w, err := NewWatcher(path,
		WithDebounce(20*time.Millisecond),
		WithReloadHook(func(c *Catalog) { reloaded <- c }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if w.Current().Len() != 1 {
		t.Fatalf("expected initial catalog with 1 template")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the loop a moment to start receiving events.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "fields:\n  - kind: text\n    label: Name\n  - kind: date\n    label: When\n")

	select {
	case c := <-reloaded:
		if !c.Has(KindDate) {
			t.Fatalf("expected reloaded catalog to include date")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
	if !w.Current().Has(KindDate) {
		t.Fatalf("Current did not return reloaded catalog")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestWatcherKeepsPreviousCatalogOnInvalidReload(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	writeFile(t, path, "fields:\n  - kind: email\n    label: Email\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	writeFile(t, path, "fields:\n  - kind: bogus\n")
	w.reload()

	if !w.Current().Has(KindEmail) {
		t.Fatalf("expected previous catalog to remain active")
	}
}

func TestNewWatcherMissingFile(t *testing.T) {
	if _, err := NewWatcher(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
