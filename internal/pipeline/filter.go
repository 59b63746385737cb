package pipeline

import (
	"path/filepath"
	"stconflict/internal/model"
	"stconflict/internal/scan"
	"strings"
)

// Filter forwards only the events a scan of root would see: any path component below root that
// the scanner ignores drops the event. Components above root never count, so a root inside a
// hidden directory still reports changes.
func Filter(inCh <-chan model.FileEvent, root string, includeHidden bool) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if visible(root, event.Path, includeHidden) {
				outCh <- event
			}
		}
	}()

	return outCh
}

func visible(root, path string, includeHidden bool) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	if rel == "." {
		return true
	}

	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if scan.Ignored(part, includeHidden) {
			return false
		}
	}
	return true
}
