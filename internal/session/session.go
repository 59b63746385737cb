// Package session owns the mutable state of one resolution session and applies operator events
// to it. The front-end feeds events in and renders the fields; it never mutates them directly.
package session

import (
	"errors"
	"fmt"
	"sort"
	"stconflict/internal/conflict"
	"stconflict/internal/engine"
	"stconflict/internal/logger"
	"stconflict/internal/model"
	"stconflict/internal/planner"
	"stconflict/internal/scan"
	"time"

	"go.uber.org/zap"
)

type Scanner interface {
	Scan() ([]model.ConflictGroup, error)
}

// ScanFunc adapts a function to Scanner.
type ScanFunc func() ([]model.ConflictGroup, error)

func (f ScanFunc) Scan() ([]model.ConflictGroup, error) {
	return f()
}

type Applier interface {
	Apply(groups []model.ConflictGroup, targets []int, apply bool) engine.Result
}

type Session struct {
	Root      string
	ApplyMode bool
	State     State
	Groups    []model.ConflictGroup
	// Cursor is the highlighted group, -1 when there are no groups.
	Cursor     int
	PickCursor int
	Selected   map[int]bool
	Message    string
	Plan       *planner.Plan
	// Log holds the plan lines, or the per-group failures of the last apply.
	Log []string
	// Stale is set when the tree changed on disk after the last scan.
	Stale bool

	scanner  Scanner
	applier  Applier
	now      func() time.Time
	lastScan time.Time

	// quietUntil ends the window in which tree changes are attributed to our own apply.
	quietUntil time.Time
}

// selfChangeGrace covers the watcher events produced by an apply, which can arrive after the
// rescan that follows it.
const selfChangeGrace = 2 * time.Second

func New(root string, groups []model.ConflictGroup, applyMode bool, scanner Scanner, applier Applier) *Session {
	s := &Session{
		Root:      root,
		ApplyMode: applyMode,
		State:     StateList,
		scanner:   scanner,
		applier:   applier,
		now:       time.Now,
	}
	s.replaceGroups(groups)
	return s
}

// Handle applies one event. It never returns an error: every failure ends up in Message or Log.
func (s *Session) Handle(ev Event) {
	act := Dispatch(s.State, ev)
	if act.Kind != ActNone {
		logger.Log.Debug("session action",
			zap.String("state", s.State.String()),
			zap.Int("action", int(act.Kind)))
	}

	switch act.Kind {
	case ActNone:
		return
	case ActQuit:
		s.State = StateDone
	case ActMarkStale:
		if s.externalChange(ev.At) {
			s.Stale = true
		}
	case ActToggleApply:
		s.toggleApply()
	case ActCursorUp:
		s.Cursor = moveUp(s.Cursor, len(s.Groups))
	case ActCursorDown:
		s.Cursor = moveDown(s.Cursor, len(s.Groups))
	case ActToggleSelect:
		s.toggleSelected()
	case ActOpenPick:
		s.openPick(act.Next)
	case ActQuickPick:
		s.quickPick(act.Strategy, act.Scope)
	case ActPlan:
		s.plan(act.Scope, act.Next)
	case ActRescan:
		s.rescanWithMessage()
	case ActPickUp:
		s.PickCursor = moveUp(s.PickCursor, s.currentGroupLen())
	case ActPickDown:
		s.PickCursor = moveDown(s.PickCursor, s.currentGroupLen())
	case ActCommitPick:
		s.commitPick(act.Next)
	case ActShortcutPick:
		s.shortcutPick(act.Strategy, act.Next)
	case ActCancelPick:
		s.State = act.Next
		s.PickCursor = 0
	case ActApply:
		s.apply()
	case ActDecline:
		s.State = act.Next
		s.clearPlan()
		s.Message = "Cancelled"
	}
}

// CurrentGroup is the group under the cursor, or nil.
func (s *Session) CurrentGroup() *model.ConflictGroup {
	if s.Cursor < 0 || s.Cursor >= len(s.Groups) {
		return nil
	}
	return &s.Groups[s.Cursor]
}

// SelectedIndices returns the multi-selection in ascending order.
func (s *Session) SelectedIndices() []int {
	out := make([]int, 0, len(s.Selected))
	for i := range s.Selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (s *Session) ResolvedCount() int {
	n := 0
	for i := range s.Groups {
		if s.Groups[i].IsResolved() {
			n++
		}
	}
	return n
}

func (s *Session) targets(scope Scope) []int {
	if scope == ScopeSelected {
		return s.SelectedIndices()
	}
	if s.CurrentGroup() == nil {
		return nil
	}
	return []int{s.Cursor}
}

func (s *Session) toggleApply() {
	s.ApplyMode = !s.ApplyMode
	if s.ApplyMode {
		s.Message = "Mode: APPLY (will move files)"
	} else {
		s.Message = "Mode: DRY-RUN (no filesystem changes)"
	}
}

func (s *Session) toggleSelected() {
	if s.CurrentGroup() == nil {
		return
	}
	if s.Selected[s.Cursor] {
		delete(s.Selected, s.Cursor)
	} else {
		s.Selected[s.Cursor] = true
	}
}

func (s *Session) openPick(next State) {
	g := s.CurrentGroup()
	if g == nil {
		s.Message = "No group selected"
		return
	}
	s.PickCursor = g.DefaultPickIdx()
	s.State = next
}

func (s *Session) quickPick(strategy conflict.Strategy, scope Scope) {
	targets := s.targets(scope)
	if len(targets) == 0 {
		s.Message = "No groups selected"
		return
	}

	for _, gi := range targets {
		s.Groups[gi].Choose(strategy.TargetOrOriginal(&s.Groups[gi]))
		s.Selected[gi] = true
	}

	if scope == ScopeSelected {
		s.Message = fmt.Sprintf("Picked %s for %d selected", strategy, len(targets))
	} else {
		s.Message = fmt.Sprintf("Picked %s", strategy)
	}
}

func (s *Session) plan(scope Scope, next State) {
	targets := s.targets(scope)
	if len(targets) == 0 {
		s.Message = "No groups selected"
		return
	}

	s.clearPlan()
	p, err := planner.Build(s.Groups, targets, s.Root)
	if err != nil {
		if errors.Is(err, planner.ErrUnresolved) {
			s.Message = "Pick a version first (Enter)"
		} else {
			s.Message = fmt.Sprintf("Cannot plan: %v", err)
		}
		logger.Log.Debug("plan rejected", zap.Error(err))
		return
	}

	s.Plan = p
	s.Log = append([]string(nil), p.Lines...)
	s.Message = fmt.Sprintf("Planned %d group(s)", len(p.Targets))
	s.State = next
}

func (s *Session) commitPick(next State) {
	g := s.CurrentGroup()
	if g == nil || s.PickCursor < 0 || s.PickCursor >= len(g.Candidates) {
		s.Message = "No candidate under the cursor"
		return
	}
	g.Choose(s.PickCursor)
	s.State = next
	s.Message = "Picked"
}

func (s *Session) shortcutPick(strategy conflict.Strategy, next State) {
	g := s.CurrentGroup()
	if g == nil {
		s.Message = "No group selected"
		return
	}

	idx, ok := strategy.Target(g)
	if !ok {
		s.Message = fmt.Sprintf("Cannot pick %s: no modification times available", strategy)
		return
	}

	g.Choose(idx)
	s.State = next
	s.Message = fmt.Sprintf("Picked %s", strategy)
}

func (s *Session) apply() {
	if s.Plan == nil || len(s.Plan.Targets) == 0 {
		s.clearPlan()
		s.State = StateList
		s.Message = "Nothing planned"
		return
	}

	result := s.applier.Apply(s.Groups, s.Plan.Targets, s.ApplyMode)

	if result.OK() {
		if !s.ApplyMode {
			s.State = StateConfirm
			s.Message = "Dry-run complete. Switch to apply mode and confirm again to write changes."
			return
		}

		n := len(result.Applied)
		s.quietUntil = s.now().Add(selfChangeGrace)
		s.clearPlan()
		s.State = StateList
		if err := s.rescan(); err != nil {
			s.Stale = true
			s.Message = fmt.Sprintf("Applied %d group(s), but rescan failed: %v", n, err)
			return
		}
		s.Message = fmt.Sprintf("Applied %d group(s)", n)
		return
	}

	s.clearPlan()
	for _, f := range result.Failures {
		s.Log = append(s.Log, fmt.Sprintf("%s: %v", scan.RelPath(s.Root, f.BasePath), f.Err))
	}
	if s.ApplyMode {
		s.Stale = true
	}
	s.State = StateConfirm
	s.Message = fmt.Sprintf("Some groups failed (%d). See details in the log panel.", len(result.Failures))
}

func (s *Session) rescanWithMessage() {
	if err := s.rescan(); err != nil {
		s.Message = fmt.Sprintf("Rescan failed: %v", err)
		return
	}
	s.Message = fmt.Sprintf("Rescanned: %d group(s)", len(s.Groups))
}

func (s *Session) rescan() error {
	groups, err := s.scanner.Scan()
	if err != nil {
		logger.Log.Error("rescan failed", zap.String("root", s.Root), zap.Error(err))
		return err
	}
	s.replaceGroups(groups)
	return nil
}

func (s *Session) replaceGroups(groups []model.ConflictGroup) {
	s.Groups = groups
	s.Selected = make(map[int]bool)
	s.PickCursor = 0
	s.Cursor = -1
	if len(groups) > 0 {
		s.Cursor = 0
	}
	s.Stale = false
	s.lastScan = s.now()
}

// externalChange reports whether a change observed at is newer than the groups on screen and
// not an echo of our own apply. An unknown time always counts.
func (s *Session) externalChange(at time.Time) bool {
	if at.IsZero() {
		return true
	}
	return at.After(s.lastScan) && !at.Before(s.quietUntil)
}

func (s *Session) clearPlan() {
	s.Plan = nil
	s.Log = nil
}

func (s *Session) currentGroupLen() int {
	if g := s.CurrentGroup(); g != nil {
		return len(g.Candidates)
	}
	return 0
}

func moveDown(cur, n int) int {
	if n == 0 {
		return -1
	}
	if cur < 0 {
		return 0
	}
	return min(cur+1, n-1)
}

func moveUp(cur, n int) int {
	if n == 0 {
		return -1
	}
	if cur < 0 {
		return 0
	}
	return max(cur-1, 0)
}
