package session

import (
	"stconflict/internal/conflict"
	"time"
)

type State int

const (
	StateList State = iota
	StatePick
	StateConfirm
	StateDone
)

func (s State) String() string {
	switch s {
	case StateList:
		return "list"
	case StatePick:
		return "pick"
	case StateConfirm:
		return "confirm"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Scope says which groups a list-level operation targets.
type Scope int

const (
	ScopeCursor Scope = iota
	ScopeSelected
)

type EventKind int

const (
	EventNone EventKind = iota
	EventUp
	EventDown
	EventToggle
	EventEnter
	EventQuickPick
	EventPlan
	EventToggleApply
	EventQuit
	EventCancel
	EventConfirm
	EventDecline
	EventInterrupt
	EventRescan
	EventTreeChanged
)

// Event is an operator input, independent of the keys or widgets that produced it.
type Event struct {
	Kind     EventKind
	Strategy conflict.Strategy
	Scope    Scope
	// At is when a tree change was observed; only set for EventTreeChanged.
	At time.Time
}

func Up() Event          { return Event{Kind: EventUp} }
func Down() Event        { return Event{Kind: EventDown} }
func Toggle() Event      { return Event{Kind: EventToggle} }
func Enter() Event       { return Event{Kind: EventEnter} }
func ToggleApply() Event { return Event{Kind: EventToggleApply} }
func Quit() Event        { return Event{Kind: EventQuit} }
func Cancel() Event      { return Event{Kind: EventCancel} }
func Confirm() Event     { return Event{Kind: EventConfirm} }
func Decline() Event     { return Event{Kind: EventDecline} }
func Interrupt() Event   { return Event{Kind: EventInterrupt} }
func Rescan() Event      { return Event{Kind: EventRescan} }

func QuickPick(s conflict.Strategy, scope Scope) Event {
	return Event{Kind: EventQuickPick, Strategy: s, Scope: scope}
}

func RequestPlan(scope Scope) Event {
	return Event{Kind: EventPlan, Scope: scope}
}

func TreeChanged(at time.Time) Event {
	return Event{Kind: EventTreeChanged, At: at}
}

type ActionKind int

const (
	ActNone ActionKind = iota
	ActCursorUp
	ActCursorDown
	ActToggleSelect
	ActOpenPick
	ActQuickPick
	ActPlan
	ActToggleApply
	ActQuit
	ActPickUp
	ActPickDown
	ActCommitPick
	ActShortcutPick
	ActCancelPick
	ActApply
	ActDecline
	ActRescan
	ActMarkStale
)

// Action is the side effect an event asks for. Next is the state entered when the effect
// succeeds; the session stays put when it reports a condition instead.
type Action struct {
	Kind     ActionKind
	Next     State
	Strategy conflict.Strategy
	Scope    Scope
}

// Dispatch maps the current state and an event to an action. Every combination not listed is
// a no-op that keeps the state.
func Dispatch(state State, ev Event) Action {
	if state == StateDone {
		return Action{Kind: ActNone, Next: StateDone}
	}

	switch ev.Kind {
	case EventInterrupt:
		return Action{Kind: ActQuit, Next: StateDone}
	case EventTreeChanged:
		return Action{Kind: ActMarkStale, Next: state}
	case EventToggleApply:
		return Action{Kind: ActToggleApply, Next: state}
	}

	switch state {
	case StateList:
		switch ev.Kind {
		case EventUp:
			return Action{Kind: ActCursorUp, Next: StateList}
		case EventDown:
			return Action{Kind: ActCursorDown, Next: StateList}
		case EventToggle:
			return Action{Kind: ActToggleSelect, Next: StateList}
		case EventEnter:
			return Action{Kind: ActOpenPick, Next: StatePick}
		case EventQuickPick:
			return Action{Kind: ActQuickPick, Next: StateList, Strategy: ev.Strategy, Scope: ev.Scope}
		case EventPlan:
			return Action{Kind: ActPlan, Next: StateConfirm, Scope: ev.Scope}
		case EventQuit:
			return Action{Kind: ActQuit, Next: StateDone}
		case EventRescan:
			return Action{Kind: ActRescan, Next: StateList}
		}

	case StatePick:
		switch ev.Kind {
		case EventUp:
			return Action{Kind: ActPickUp, Next: StatePick}
		case EventDown:
			return Action{Kind: ActPickDown, Next: StatePick}
		case EventEnter:
			return Action{Kind: ActCommitPick, Next: StateList}
		case EventQuickPick:
			return Action{Kind: ActShortcutPick, Next: StateList, Strategy: ev.Strategy}
		case EventCancel:
			return Action{Kind: ActCancelPick, Next: StateList}
		}

	case StateConfirm:
		switch ev.Kind {
		case EventConfirm:
			return Action{Kind: ActApply, Next: StateList}
		case EventDecline, EventCancel:
			return Action{Kind: ActDecline, Next: StateList}
		}
	}

	return Action{Kind: ActNone, Next: state}
}
