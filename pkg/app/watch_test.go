package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsDataFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data/peds.yaml", true},
		{"data/models/male01.YML", true},
		{"data/anim/man.ifp", true},
		{"data/behaviors/stroll.tengo", true},
		{"data/anim/man.ifp~", false},
		{"data/README.md", false},
		{"data/.peds.yaml.swp", false},
	}
	for _, tt := range tests {
		if got := isDataFile(tt.path); got != tt.want {
			t.Errorf("isDataFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"models", "anim"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "peds.yaml"), []byte("peds: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := watchDirs(root)
	if err != nil {
		t.Fatalf("watchDirs failed: %v", err)
	}
	if len(dirs) != 3 || dirs[0] != root {
		t.Errorf("Expected root plus 2 subdirs, got %v", dirs)
	}

	if _, err := watchDirs(filepath.Join(root, "missing")); err == nil {
		t.Error("Expected error for missing dir")
	}
}

func TestWatcher_ReportsDataFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "peds.yaml")
	if err := os.WriteFile(target, []byte("peds: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Errorf("Expected event for %s, got %s", target, name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for watcher event")
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// run 退出后关闭 Events
	select {
	case _, ok := <-w.Events:
		if ok {
			t.Error("Expected Events to be closed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for Events to close")
	}
}
