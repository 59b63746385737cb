package tui

import (
	"stconflict/internal/conflict"
	"stconflict/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Open        key.Binding
	Original    key.Binding
	Newest      key.Binding
	Oldest      key.Binding
	OriginalAll key.Binding
	NewestAll   key.Binding
	OldestAll   key.Binding
	Plan        key.Binding
	PlanAll     key.Binding
	ToggleApply key.Binding
	Rescan      key.Binding
	Quit        key.Binding

	Choose     key.Binding
	PickOrig   key.Binding
	PickNewest key.Binding
	PickOldest key.Binding
	Back       key.Binding

	Run     key.Binding
	Decline key.Binding

	Interrupt key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick specific"),
		),
		Original: key.NewBinding(
			key.WithKeys("c", "o"),
			key.WithHelp("c/o", "original"),
		),
		Newest: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "newest"),
		),
		Oldest: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "oldest"),
		),
		OriginalAll: key.NewBinding(
			key.WithKeys("C", "O"),
			key.WithHelp("C/O", "original (selected)"),
		),
		NewestAll: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "newest (selected)"),
		),
		OldestAll: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "oldest (selected)"),
		),
		Plan: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "plan"),
		),
		PlanAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "plan selected"),
		),
		ToggleApply: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle apply"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		PickOrig: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "original"),
		),
		PickNewest: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "newest"),
		),
		PickOldest: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "oldest"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Run: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "run"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "cancel"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

// stateHelp narrows the key map to the bindings active in one state.
type stateHelp struct {
	keys  keyMap
	state session.State
}

func (h stateHelp) ShortHelp() []key.Binding {
	k := h.keys
	switch h.state {
	case session.StatePick:
		return []key.Binding{k.Up, k.Down, k.Choose, k.PickOrig, k.PickNewest, k.PickOldest, k.ToggleApply, k.Back}
	case session.StateConfirm:
		return []key.Binding{k.Run, k.ToggleApply, k.Decline, k.Back}
	default:
		return []key.Binding{k.Up, k.Down, k.Open, k.Select, k.Original, k.Newest, k.Oldest, k.Plan, k.PlanAll, k.ToggleApply, k.Rescan, k.Quit}
	}
}

func (h stateHelp) FullHelp() [][]key.Binding {
	if h.state != session.StateList {
		return [][]key.Binding{h.ShortHelp()}
	}
	k := h.keys
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Select},
		{k.Original, k.Newest, k.Oldest, k.OriginalAll, k.NewestAll, k.OldestAll},
		{k.Plan, k.PlanAll, k.ToggleApply, k.Rescan, k.Quit},
	}
}

// eventFor translates a key press into a session event. Keys with no meaning in state map to
// the zero event.
func eventFor(k keyMap, state session.State, msg tea.KeyMsg) session.Event {
	switch {
	case key.Matches(msg, k.Interrupt):
		return session.Interrupt()
	case key.Matches(msg, k.ToggleApply):
		return session.ToggleApply()
	}

	switch state {
	case session.StateList:
		switch {
		case key.Matches(msg, k.Up):
			return session.Up()
		case key.Matches(msg, k.Down):
			return session.Down()
		case key.Matches(msg, k.Select):
			return session.Toggle()
		case key.Matches(msg, k.Open):
			return session.Enter()
		case key.Matches(msg, k.Original):
			return session.QuickPick(conflict.StrategyOriginal, session.ScopeCursor)
		case key.Matches(msg, k.Newest):
			return session.QuickPick(conflict.StrategyNewest, session.ScopeCursor)
		case key.Matches(msg, k.Oldest):
			return session.QuickPick(conflict.StrategyOldest, session.ScopeCursor)
		case key.Matches(msg, k.OriginalAll):
			return session.QuickPick(conflict.StrategyOriginal, session.ScopeSelected)
		case key.Matches(msg, k.NewestAll):
			return session.QuickPick(conflict.StrategyNewest, session.ScopeSelected)
		case key.Matches(msg, k.OldestAll):
			return session.QuickPick(conflict.StrategyOldest, session.ScopeSelected)
		case key.Matches(msg, k.Plan):
			return session.RequestPlan(session.ScopeCursor)
		case key.Matches(msg, k.PlanAll):
			return session.RequestPlan(session.ScopeSelected)
		case key.Matches(msg, k.Rescan):
			return session.Rescan()
		case key.Matches(msg, k.Quit):
			return session.Quit()
		}

	case session.StatePick:
		switch {
		case key.Matches(msg, k.Up):
			return session.Up()
		case key.Matches(msg, k.Down):
			return session.Down()
		case key.Matches(msg, k.Choose):
			return session.Enter()
		case key.Matches(msg, k.PickOrig):
			return session.QuickPick(conflict.StrategyOriginal, session.ScopeCursor)
		case key.Matches(msg, k.PickNewest):
			return session.QuickPick(conflict.StrategyNewest, session.ScopeCursor)
		case key.Matches(msg, k.PickOldest):
			return session.QuickPick(conflict.StrategyOldest, session.ScopeCursor)
		case key.Matches(msg, k.Back):
			return session.Cancel()
		}

	case session.StateConfirm:
		switch {
		case key.Matches(msg, k.Run):
			return session.Confirm()
		case key.Matches(msg, k.Decline):
			return session.Decline()
		case key.Matches(msg, k.Back):
			return session.Cancel()
		}
	}

	return session.Event{}
}
