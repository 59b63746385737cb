package pipeline

import (
	"os"
	"stconflict/internal/logger"
	"stconflict/internal/model"
	"stconflict/internal/scan"
	"sync"

	"go.uber.org/zap"
)

// ChecksumFilter drops write events that leave a file's content unchanged, such as a touch or
// a sync client rewriting identical bytes. Files larger than limit always pass.
type ChecksumFilter struct {
	mu    sync.Mutex
	cache map[string]string
	limit int64
}

func NewChecksumFilter(limit int64) *ChecksumFilter {
	return &ChecksumFilter{
		cache: make(map[string]string),
		limit: limit,
	}
}

func (cf *ChecksumFilter) Run(inCh <-chan model.FileEvent) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if cf.unchanged(event) {
				logger.Log.Debug("content unchanged, skipping",
					zap.String("path", event.Path))
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}

func (cf *ChecksumFilter) unchanged(event model.FileEvent) bool {
	if event.Type == model.EventRemove || event.Type == model.EventRename {
		cf.forget(event.Path)
		return false
	}

	info, err := os.Stat(event.Path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > cf.limit {
		cf.forget(event.Path)
		return false
	}

	sum, err := scan.Fingerprint(event.Path)
	if err != nil {
		logger.Log.Debug("checksum failed",
			zap.String("path", event.Path),
			zap.Error(err))
		cf.forget(event.Path)
		return false
	}

	cf.mu.Lock()
	defer cf.mu.Unlock()

	prev, seen := cf.cache[event.Path]
	cf.cache[event.Path] = sum
	return seen && event.Type == model.EventWrite && prev == sum
}

func (cf *ChecksumFilter) forget(path string) {
	cf.mu.Lock()
	delete(cf.cache, path)
	cf.mu.Unlock()
}
