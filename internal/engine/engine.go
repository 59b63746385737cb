// Package engine performs resolutions on disk. Each group is an independent unit of work:
// a failure stops that group only and is reported with the rest of the batch.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"stconflict/internal/fileops"
	"stconflict/internal/logger"
	"stconflict/internal/model"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrUnresolved    = errors.New("group has no chosen version")
	ErrKeeperMissing = errors.New("chosen file no longer exists")
)

// Recorder persists the outcome of each group applied in apply mode.
type Recorder interface {
	Save(r model.Resolution) error
}

type Engine struct {
	now      func() time.Time
	recorder Recorder
}

// New returns an engine. recorder may be nil.
func New(recorder Recorder) *Engine {
	return &Engine{
		now:      time.Now,
		recorder: recorder,
	}
}

// WithClock replaces the time source used for archive names.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

type GroupFailure struct {
	GroupIndex int
	BasePath   string
	Err        error
}

func (f GroupFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.BasePath, f.Err)
}

func (f GroupFailure) Unwrap() error {
	return f.Err
}

type Result struct {
	DryRun   bool
	Applied  []int
	Failures []GroupFailure
}

func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Apply resolves targets in order. In dry-run mode nothing on disk changes and every resolved
// group counts as applied.
func (e *Engine) Apply(groups []model.ConflictGroup, targets []int, apply bool) Result {
	result := Result{DryRun: !apply}

	for _, gi := range targets {
		if gi < 0 || gi >= len(groups) {
			result.Failures = append(result.Failures, GroupFailure{
				GroupIndex: gi,
				BasePath:   fmt.Sprintf("group #%d", gi),
				Err:        fmt.Errorf("group index out of range"),
			})
			continue
		}

		g := &groups[gi]
		archived, err := e.ApplyGroup(g, apply)
		if apply {
			e.record(g, archived, err)
		}

		if err != nil {
			logger.Log.Error("resolution failed",
				zap.String("base", g.BasePath),
				zap.Bool("apply", apply),
				zap.Error(err))
			result.Failures = append(result.Failures, GroupFailure{
				GroupIndex: gi,
				BasePath:   g.BasePath,
				Err:        err,
			})
			continue
		}

		result.Applied = append(result.Applied, gi)
	}

	return result
}

// ApplyGroup archives every variant except the keeper and then moves the keeper onto the base
// path. Archiving runs first so the base path is free before the keeper arrives. Files archived
// before a failure stay archived. It returns the archive paths written.
func (e *Engine) ApplyGroup(g *model.ConflictGroup, apply bool) ([]string, error) {
	keeper, ok := g.ChosenCandidate()
	if !ok {
		return nil, ErrUnresolved
	}

	base := g.BasePath
	archiveDir := fileops.ArchiveDirFor(base)

	if !apply {
		logger.Log.Debug("dry-run resolution",
			zap.String("base", base),
			zap.String("keep", keeper.Path),
			zap.String("archive_dir", archiveDir))
		return nil, nil
	}

	// Every path is checked before the first move so a directory in the group stops it untouched.
	var others []string
	for _, c := range g.Candidates {
		present, err := fileops.FileExists(c.Path)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve %s: %w", base, err)
		}

		if c.Path == keeper.Path {
			if !present {
				return nil, fmt.Errorf("%w: %s", ErrKeeperMissing, keeper.Path)
			}
			continue
		}

		if !present {
			logger.Log.Debug("candidate vanished, skipping",
				zap.String("path", c.Path))
			continue
		}
		others = append(others, c.Path)
	}

	if err := fileops.EnsureDir(archiveDir); err != nil {
		return nil, err
	}

	var archived []string
	for _, p := range others {
		dest := filepath.Join(archiveDir, fileops.UniqueName(filepath.Base(p), e.now()))
		if err := fileops.Move(p, dest); err != nil {
			return archived, fmt.Errorf("failed to archive %s: %w", p, err)
		}
		archived = append(archived, dest)

		logger.Log.Info("archived",
			zap.String("src", p),
			zap.String("dst", dest))
	}

	if keeper.Path != base {
		if err := fileops.Move(keeper.Path, base); err != nil {
			return archived, fmt.Errorf("failed to set base %s from %s: %w", base, keeper.Path, err)
		}
	}

	logger.Log.Info("resolved",
		zap.String("base", base),
		zap.String("kept", keeper.Path),
		zap.Int("archived", len(archived)))

	return archived, nil
}

func (e *Engine) record(g *model.ConflictGroup, archived []string, applyErr error) {
	if e.recorder == nil {
		return
	}

	kept := ""
	if c, ok := g.ChosenCandidate(); ok {
		kept = c.Path
	}

	r := model.Resolution{
		Status:     model.StatusSuccess,
		BasePath:   g.BasePath,
		KeptPath:   kept,
		ArchiveDir: fileops.ArchiveDirFor(g.BasePath),
		Archived:   strings.Join(archived, "\n"),
		ResolvedAt: e.now(),
	}
	if applyErr != nil {
		r.Status = model.StatusFailed
		r.ErrMsg = applyErr.Error()
	}

	if err := e.recorder.Save(r); err != nil {
		logger.Log.Warn("failed to save history",
			zap.String("base", g.BasePath),
			zap.Error(err))
	}
}
