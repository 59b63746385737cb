package fileops

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func forceCopyFallback(t *testing.T) {
	t.Helper()
	orig := rename
	rename = func(string, string) error { return errors.New("cross-device link") }
	t.Cleanup(func() { rename = orig })
}

func TestMove_CreatesDestinationDirs(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "from.txt")
	to := filepath.Join(dir, "a", "b", "to.txt")
	write(t, from, "hello")

	if err := Move(from, to); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	got, err := os.ReadFile(to)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("destination content = %q, want hello", got)
	}
}

func TestMove_CopyFallback(t *testing.T) {
	forceCopyFallback(t)

	dir := t.TempDir()
	from := filepath.Join(dir, "from.txt")
	to := filepath.Join(dir, "sub", "to.txt")
	write(t, from, "payload")
	if err := os.Chmod(from, 0600); err != nil {
		t.Fatal(err)
	}

	if err := Move(from, to); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if _, err := os.Stat(from); !os.IsNotExist(err) {
		t.Error("source should be deleted after a successful copy")
	}
	got, err := os.ReadFile(to)
	if err != nil || string(got) != "payload" {
		t.Errorf("destination = %q, %v", got, err)
	}
	info, err := os.Stat(to)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(to + TempSuffix); !os.IsNotExist(err) {
		t.Error("temp file should not remain")
	}
}

func TestMove_FailedCopyKeepsSource(t *testing.T) {
	forceCopyFallback(t)

	dir := t.TempDir()
	from := filepath.Join(dir, "gone.txt")

	err := Move(from, filepath.Join(dir, "to.txt"))
	if err == nil {
		t.Fatal("expected error moving a missing file")
	}
	if !strings.Contains(err.Error(), "failed to copy") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "to.txt")); !os.IsNotExist(err) {
		t.Error("no destination should be created when the copy fails")
	}
}

func TestMove_DestinationParentIsFile(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "from.txt")
	blocker := filepath.Join(dir, "blocker")
	write(t, from, "keep me")
	write(t, blocker, "")

	if err := Move(from, filepath.Join(blocker, "to.txt")); err == nil {
		t.Fatal("expected error when destination dir cannot be created")
	}

	got, err := os.ReadFile(from)
	if err != nil || string(got) != "keep me" {
		t.Errorf("source must be untouched, got %q, %v", got, err)
	}
}

func TestEnsureDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(p); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	info, err := os.Stat(p)
	if err != nil || !info.IsDir() {
		t.Errorf("expected directory at %s", p)
	}
}

func TestArchiveDirFor(t *testing.T) {
	base := filepath.Join("/data", "x", "file.txt")

	if got, want := ArchiveDirFor(base), filepath.Join("/data", "x", ".stconflict-archive"); got != want {
		t.Errorf("ArchiveDirFor = %q, want %q", got, want)
	}
}

func TestUniqueName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	if got := UniqueName("file.txt", now); got != "file.txt.1700000000123" {
		t.Errorf("UniqueName = %q", got)
	}
	if a, b := UniqueName("f", now), UniqueName("f", now.Add(time.Millisecond)); a == b {
		t.Error("names one millisecond apart should differ")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f")

	if ok, err := FileExists(p); ok || err != nil {
		t.Errorf("FileExists(missing) = %v, %v", ok, err)
	}
	write(t, p, "x")
	if ok, err := FileExists(p); !ok || err != nil {
		t.Errorf("FileExists(present) = %v, %v", ok, err)
	}

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if ok, err := FileExists(sub); ok || !errors.Is(err, ErrIsDir) {
		t.Errorf("FileExists(dir) = %v, %v; want ErrIsDir", ok, err)
	}
}
