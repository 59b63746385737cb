// Package scan finds conflict variants left by the synchronizer and groups them by the file
// they were forked from.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"stconflict/internal/fileops"
	"stconflict/internal/logger"
	"stconflict/internal/model"
	"strings"

	"go.uber.org/zap"
)

const DefaultMarker = ".sync-conflict-"

type Options struct {
	IncludeHidden bool
	// Marker is the substring separating the base name from the synchronizer's
	// date/time/device token.
	Marker string
	// HashLimit caps the size of files that get a content digest. Zero disables digests.
	HashLimit int64
}

// SplitConflictName returns the base file name of a conflict variant. A name that starts with
// the marker has no base and is not a variant.
func SplitConflictName(name, marker string) (string, bool) {
	idx := strings.Index(name, marker)
	if idx <= 0 {
		return "", false
	}
	return name[:idx], true
}

// Scan walks root and returns one group per base path, ordered by base path.
func Scan(root string, opts Options) ([]model.ConflictGroup, error) {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	byBase := make(map[string][]string)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to walk %s: %w", root, err)
			}

			logger.Log.Warn("skipping unreadable entry",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if Ignored(name, opts.IncludeHidden) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if Ignored(name, opts.IncludeHidden) {
			return nil
		}

		base, ok := SplitConflictName(name, marker)
		if !ok {
			return nil
		}

		basePath := filepath.Join(filepath.Dir(path), base)
		byBase[basePath] = append(byBase[basePath], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	basePaths := make([]string, 0, len(byBase))
	for p := range byBase {
		basePaths = append(basePaths, p)
	}
	sort.Strings(basePaths)

	groups := make([]model.ConflictGroup, 0, len(basePaths))
	for _, basePath := range basePaths {
		conflicts := byBase[basePath]
		sort.Strings(conflicts)

		candidates := make([]model.Candidate, 0, len(conflicts)+1)
		candidates = append(candidates, statCandidate(basePath, true, model.OriginalLabel, opts.HashLimit))
		for i, p := range conflicts {
			candidates = append(candidates, statCandidate(p, false, fmt.Sprintf("Conflict %d", i+1), opts.HashLimit))
		}

		groups = append(groups, model.ConflictGroup{
			BasePath:   basePath,
			Candidates: candidates,
		})
	}

	logger.Log.Debug("scan finished",
		zap.String("root", root),
		zap.Int("groups", len(groups)))

	return groups, nil
}

func statCandidate(path string, isOriginal bool, label string, hashLimit int64) model.Candidate {
	c := model.Candidate{
		Path:       path,
		IsOriginal: isOriginal,
		Label:      label,
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			logger.Log.Debug("stat failed",
				zap.String("path", path),
				zap.Error(err))
		}
		return c
	}

	size := info.Size()
	mod := info.ModTime()
	c.Exists = true
	c.Size = &size
	c.Modified = &mod

	if hashLimit > 0 && size <= hashLimit {
		digest, err := Fingerprint(path)
		if err != nil {
			logger.Log.Debug("fingerprint failed",
				zap.String("path", path),
				zap.Error(err))
		} else {
			c.Digest = digest
		}
	}

	return c
}

// Ignored reports whether an entry below the root is left out, by its base name. The archive
// directory and partial copies are always left out, dot entries unless includeHidden.
func Ignored(name string, includeHidden bool) bool {
	switch {
	case name == fileops.ArchiveDirName, strings.HasSuffix(name, fileops.TempSuffix):
		return true
	case includeHidden:
		return false
	default:
		return strings.HasPrefix(name, ".")
	}
}

// RelPath returns p relative to root for display, or p itself when it is outside root.
func RelPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
