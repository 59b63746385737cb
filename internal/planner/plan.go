// Package planner turns resolved groups into a reviewable plan without touching the filesystem.
package planner

import (
	"errors"
	"fmt"
	"stconflict/internal/fileops"
	"stconflict/internal/model"
	"stconflict/internal/scan"
)

var (
	// ErrUnresolved indicates a targeted group has no chosen candidate.
	ErrUnresolved = errors.New("group has no chosen version")

	// ErrInvalidTarget indicates a target or chosen index outside the model.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrNoTargets indicates an empty target set.
	ErrNoTargets = errors.New("no groups targeted")
)

// Entry is the resolution of one group.
type Entry struct {
	GroupIndex int
	BasePath   string
	Keep       string
	ArchiveDir string
}

// Plan is the dry-run representation of an apply step.
type Plan struct {
	// Targets are group indices in the order they will be applied.
	Targets []int
	Entries []Entry
	// Lines is the operator-facing rendering of Entries, relative to the scan root.
	Lines []string
}

// Build produces a plan for targets. It returns no plan at all when any target is unresolved.
func Build(groups []model.ConflictGroup, targets []int, root string) (*Plan, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	plan := &Plan{
		Targets: make([]int, 0, len(targets)),
		Entries: make([]Entry, 0, len(targets)),
	}

	for _, gi := range targets {
		if gi < 0 || gi >= len(groups) {
			return nil, fmt.Errorf("%w: group %d", ErrInvalidTarget, gi)
		}

		g := &groups[gi]
		if !g.IsResolved() {
			return nil, fmt.Errorf("%w: %s", ErrUnresolved, scan.RelPath(root, g.BasePath))
		}

		keeper, ok := g.ChosenCandidate()
		if !ok {
			return nil, fmt.Errorf("%w: candidate %d of %s", ErrInvalidTarget, *g.Chosen, scan.RelPath(root, g.BasePath))
		}

		entry := Entry{
			GroupIndex: gi,
			BasePath:   g.BasePath,
			Keep:       keeper.Path,
			ArchiveDir: fileops.ArchiveDirFor(g.BasePath),
		}

		plan.Targets = append(plan.Targets, gi)
		plan.Entries = append(plan.Entries, entry)
		plan.Lines = append(plan.Lines,
			fmt.Sprintf("Group: %s", scan.RelPath(root, entry.BasePath)),
			fmt.Sprintf("  keep -> %s", scan.RelPath(root, entry.Keep)),
			fmt.Sprintf("  archive -> %s", scan.RelPath(root, entry.ArchiveDir)),
		)
	}

	return plan, nil
}
