package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.ConflictMarker != Default.ConflictMarker {
		t.Errorf("ConflictMarker = %q, want %q", cfg.ConflictMarker, Default.ConflictMarker)
	}
	if cfg.Apply {
		t.Error("Apply should default to false (dry-run)")
	}
	if cfg.IncludeHidden {
		t.Error("IncludeHidden should default to false")
	}
	if cfg.DBPath != filepath.Join(dir, "history.db") {
		t.Errorf("DBPath = %q, want it resolved inside %q", cfg.DBPath, dir)
	}
	if cfg.LogPath != filepath.Join(dir, "stconflict.log") {
		t.Errorf("LogPath = %q, want it resolved inside %q", cfg.LogPath, dir)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("WatchDebounce = %v, want 500ms", cfg.WatchDebounce)
	}
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "conflict_marker: \".conflict-\"\ninclude_hidden: true\nwatch_debounce: 2s\ndb_path: /tmp/other.db\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.ConflictMarker != ".conflict-" {
		t.Errorf("ConflictMarker = %q", cfg.ConflictMarker)
	}
	if !cfg.IncludeHidden {
		t.Error("IncludeHidden should be true")
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("WatchDebounce = %v, want 2s", cfg.WatchDebounce)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("absolute DBPath should be kept, got %q", cfg.DBPath)
	}
}

func TestLoadFrom_EmptyMarker(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("conflict_marker: \"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(dir); err == nil {
		t.Fatal("expected error for empty conflict_marker")
	}
}
