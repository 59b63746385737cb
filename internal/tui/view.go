package tui

import (
	"fmt"
	"stconflict/internal/model"
	"stconflict/internal/scan"
	"stconflict/internal/session"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	applyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dryRunStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	staleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	dangerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	panelStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			Padding(0, 1)
)

const (
	headerLines = 3
	footerLines = 8
)

func (a app) View() string {
	s := a.s
	if s.State == session.StateDone {
		return ""
	}

	var body string
	switch s.State {
	case session.StatePick:
		body = a.pickView()
	case session.StateConfirm:
		body = a.confirmView()
	default:
		body = a.listView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.headerView(),
		body,
		a.footerView(),
		a.help.View(stateHelp{keys: a.keys, state: s.State}),
	)
}

func (a app) headerView() string {
	s := a.s

	mode := dryRunStyle.Render("DRY-RUN")
	if s.ApplyMode {
		mode = applyStyle.Render("APPLY")
	}

	rootMax := max(a.width-26, 20)
	line := fmt.Sprintf("%s  %s  root: %s", titleStyle.Render("stconflict"), mode, shortenMiddle(s.Root, rootMax))

	counts := fmt.Sprintf("groups:%d  picked:%d  selected:%d",
		len(s.Groups), s.ResolvedCount(), len(s.Selected))
	if s.Stale {
		counts += "  " + staleStyle.Render("tree changed on disk, press r to rescan")
	}

	return lipgloss.JoinVertical(lipgloss.Left, line, counts, "")
}

func (a app) bodyHeight() int {
	return max(a.height-headerLines-footerLines-2, 3)
}

func (a app) listView() string {
	s := a.s
	if len(s.Groups) == 0 {
		return panelStyle.Render(mutedStyle.Render("No sync conflicts found"))
	}

	from, to := visibleRange(s.Cursor, len(s.Groups), a.bodyHeight())
	lines := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		line := groupLine(s, i)
		if i == s.Cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func groupLine(s *session.Session, i int) string {
	g := &s.Groups[i]

	sel := "[ ]"
	if s.Selected[i] {
		sel = "[*]"
	}

	orig := "no-orig"
	if g.OriginalExists() {
		orig = "orig"
	}

	picked := "(unpicked)"
	if c, ok := g.ChosenCandidate(); ok {
		picked = fmt.Sprintf("(keep: %s)", c.Label)
	}

	return fmt.Sprintf("%s %s  [%d conflicts, %s] %s",
		sel, scan.RelPath(s.Root, g.BasePath), g.ConflictCount(), orig, picked)
}

func (a app) pickView() string {
	s := a.s
	g := s.CurrentGroup()
	if g == nil {
		return panelStyle.Render("No group selected")
	}

	from, to := visibleRange(s.PickCursor, len(g.Candidates), a.bodyHeight()-1)
	lines := []string{titleStyle.Render(scan.RelPath(s.Root, g.BasePath))}
	for i := from; i < to; i++ {
		line := candidateLine(s.Root, g, i)
		if i == s.PickCursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}

func candidateLine(root string, g *model.ConflictGroup, i int) string {
	c := g.Candidates[i]

	var b strings.Builder
	if !c.Exists {
		b.WriteString("(missing) ")
	}
	b.WriteString(c.Label)
	b.WriteString("  ")
	b.WriteString(scan.RelPath(root, c.Path))

	size := "?"
	if c.Size != nil {
		size = humanize.Bytes(uint64(*c.Size))
	}
	mtime := "?"
	if c.Modified != nil {
		mtime = humanize.Time(*c.Modified)
	}
	fmt.Fprintf(&b, "  size:%s  modified:%s", size, mtime)

	if d := g.DuplicateOf(i); d >= 0 {
		fmt.Fprintf(&b, "  (same as %s)", g.Candidates[d].Label)
	}
	if g.Chosen != nil && *g.Chosen == i {
		b.WriteString("  (picked)")
	}

	return b.String()
}

func (a app) confirmView() string {
	s := a.s

	var lines []string
	if s.ApplyMode {
		lines = append(lines, dangerStyle.Render("CONFIRM APPLY"), dangerStyle.Render("This will move files on disk."))
	} else {
		lines = append(lines, dryRunStyle.Render("CONFIRM DRY-RUN"), dryRunStyle.Render("Dry-run: no filesystem changes."))
	}
	lines = append(lines, "")

	if s.Plan == nil || len(s.Plan.Targets) == 0 {
		lines = append(lines, "No groups planned")
	} else {
		lines = append(lines, fmt.Sprintf("Planned groups: %d", len(s.Plan.Targets)))
	}
	lines = append(lines, "", "y: run   t: toggle apply   n: cancel", "")

	room := max(a.bodyHeight()-len(lines)-2, 1)
	for i, l := range s.Log {
		if i >= room {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("... %d more", len(s.Log)-room)))
			break
		}
		lines = append(lines, l)
	}

	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (a app) footerView() string {
	s := a.s

	msg := s.Message
	if msg == "" {
		msg = mutedStyle.Render("Ready")
	}

	if s.State == session.StateConfirm || len(s.Log) == 0 {
		return panelStyle.Render(msg)
	}

	log := s.Log
	if len(log) > footerLines-3 {
		log = log[:footerLines-3]
	}
	return panelStyle.Render(msg + "\n" + mutedStyle.Render(strings.Join(log, "\n")))
}

// visibleRange returns the window [from, to) of n rows of at most height rows that keeps cursor
// in view.
func visibleRange(cursor, n, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}

	from := max(cursor-height/2, 0)
	to := from + height
	if to > n {
		to = n
		from = n - height
	}
	return from, to
}

// shortenMiddle elides the middle of s so it fits in maxChars runes.
func shortenMiddle(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	if maxChars <= 5 {
		return string(runes[:max(maxChars, 0)])
	}

	keep := (maxChars - 3) / 2
	return string(runes[:keep]) + "..." + string(runes[len(runes)-keep:])
}
