// Package fileops holds the only data-mutating primitive of the tool, Move, and the archive
// directory convention built on top of it.
package fileops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ArchiveDirName is created inside the directory of each resolved group.
const ArchiveDirName = ".stconflict-archive"

// TempSuffix marks the partial copy written before the final rename.
const TempSuffix = ".stconflict.tmp"

// rename is swapped in tests to force the copy fallback.
var rename = os.Rename

func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create dir %s: %w", path, err)
	}
	return nil
}

// Move relocates a single file. It tries a rename first and falls back to copy-then-delete,
// deleting the source only once the copy is completely in place.
func Move(from, to string) error {
	if err := EnsureDir(filepath.Dir(to)); err != nil {
		return err
	}

	if err := rename(from, to); err == nil {
		return nil
	}

	if err := copyFile(from, to); err != nil {
		return fmt.Errorf("failed to copy %s -> %s: %w", from, to, err)
	}

	if err := os.Remove(from); err != nil {
		return fmt.Errorf("failed to remove %s after copy: %w", from, err)
	}

	return nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open src: %w", err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(srcFile)

	info, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat src: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", src)
	}

	tmp := dst + TempSuffix
	dstFile, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write: %w", err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = dstFile.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := dstFile.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename: %w", err)
	}

	return nil
}

func ArchiveDirFor(basePath string) string {
	return filepath.Join(filepath.Dir(basePath), ArchiveDirName)
}

// UniqueName suffixes name with the millisecond timestamp of now. Two archives of the same name
// within one millisecond collide; the later one replaces the earlier.
func UniqueName(name string, now time.Time) string {
	return name + "." + strconv.FormatInt(now.UnixMilli(), 10)
}

// ErrIsDir is returned for a directory found where a file candidate was expected.
var ErrIsDir = errors.New("path is a directory")

// FileExists reports whether path is present as a file, without following a final symlink.
// A directory is never a candidate and yields ErrIsDir so callers refuse to move it.
func FileExists(path string) (bool, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	return true, nil
}
