package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(`[{"id": "a"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps := make(chan Snapshot, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(s Snapshot) { snaps <- s }, WithDebounce(20*time.Millisecond))
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`[{"id": "a"}, {"id": "b"}]`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case s := <-snaps:
		if got := len(s.Entries); got != 2 {
			t.Fatalf("reloaded snapshot has %d entries, want 2", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Watch did not stop after cancel")
	}
}

func TestWatchReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 4)
	go func() {
		_ = Watch(ctx, path, func(Snapshot) {}, WithDebounce(20*time.Millisecond), WithErrorHandler(func(err error) { errs <- err }))
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case err := <-errs:
		if err == nil {
			t.Fatalf("expected non-nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for error report")
	}
}
