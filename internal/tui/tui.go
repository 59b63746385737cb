// Package tui is the terminal front-end: it translates key presses into session events and
// renders the session after each one.
package tui

import (
	"errors"
	"fmt"
	"stconflict/internal/model"
	"stconflict/internal/session"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

type treeChangedMsg struct {
	at time.Time
}

type app struct {
	s       *session.Session
	keys    keyMap
	help    help.Model
	changes <-chan model.FileEvent
	width   int
	height  int
}

func newApp(s *session.Session, changes <-chan model.FileEvent) app {
	return app{
		s:       s,
		keys:    newKeyMap(),
		help:    help.New(),
		changes: changes,
		width:   100,
		height:  30,
	}
}

// Run blocks until the operator quits. changes may be nil when the tree is not watched.
func Run(s *session.Session, changes <-chan model.FileEvent) error {
	p := tea.NewProgram(newApp(s, changes), tea.WithAltScreen())
	_, err := p.Run()
	return runErr(err)
}

// runErr treats an interrupt delivered as a signal like ctrl+c: a normal end of the session.
func runErr(err error) error {
	if err == nil || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return fmt.Errorf("failed to run terminal ui: %w", err)
}

func waitForChange(ch <-chan model.FileEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return treeChangedMsg{at: ev.Timestamp}
	}
}

func (a app) Init() tea.Cmd {
	return waitForChange(a.changes)
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width

	case treeChangedMsg:
		a.s.Handle(session.TreeChanged(msg.at))
		return a, waitForChange(a.changes)

	case tea.KeyMsg:
		ev := eventFor(a.keys, a.s.State, msg)
		if ev.Kind == session.EventNone {
			return a, nil
		}
		a.s.Handle(ev)
		if a.s.State == session.StateDone {
			return a, tea.Quit
		}
	}

	return a, nil
}
