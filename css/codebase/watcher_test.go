package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestFileWatcherIndexesNewFile(t *testing.T) {
	dir := t.TempDir()
	cb := New(dir)
	w := NewFileWatcher(cb)
	w.pollInterval = 10 * time.Millisecond
	w.Start()
	defer w.Stop()

	path := filepath.Join(dir, "a.css")
	if err := os.WriteFile(path, []byte("a { x: 1 }"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, func() bool { return cb.GetFile(path) != nil })
}

func TestFileWatcherReindexesChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.css")
	if err := os.WriteFile(path, []byte("a { x: "), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cb := New(dir)
	w := NewFileWatcher(cb)
	w.pollInterval = 10 * time.Millisecond
	w.Start()
	defer w.Stop()

	waitFor(t, func() bool {
		f := cb.GetFile(path)
		return f != nil && f.ParseErr != nil
	})

	future := time.Now().Add(time.Second)
	if err := os.WriteFile(path, []byte("a { x: 1 }"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	waitFor(t, func() bool {
		f := cb.GetFile(path)
		return f != nil && f.ParseErr == nil
	})
}

func TestFileWatcherRemovesDeletedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.css")
	if err := os.WriteFile(path, []byte("a { x: 1 }"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cb := New(dir)
	w := NewFileWatcher(cb)
	w.pollInterval = 10 * time.Millisecond
	w.Start()
	defer w.Stop()

	waitFor(t, func() bool { return cb.GetFile(path) != nil })

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	waitFor(t, func() bool { return cb.GetFile(path) == nil })
}

func TestFileWatcherStartStop(t *testing.T) {
	dir := t.TempDir()
	cb := New(dir)
	w := NewFileWatcher(cb)
	w.pollInterval = 10 * time.Millisecond
	w.Start()
	w.Stop()
}
