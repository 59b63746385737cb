package pipeline

import (
	"os"
	"path/filepath"
	"stconflict/internal/model"
	"testing"
	"time"
)

func TestVisible(t *testing.T) {
	root := filepath.Join("/", "home", ".sync")

	tests := []struct {
		path          string
		includeHidden bool
		want          bool
	}{
		{filepath.Join(root, "notes.txt"), false, true},
		{filepath.Join(root, ".git", "HEAD"), false, false},
		{filepath.Join(root, ".git", "HEAD"), true, true},
		{filepath.Join(root, "docs", ".hidden"), false, false},
		{filepath.Join(root, "docs", "a.txt.stconflict.tmp"), true, false},
		{filepath.Join(root, "docs", ".stconflict-archive", "a.1"), true, false},
		{filepath.Join("/", "home", "elsewhere.txt"), true, false},
		{root, false, true},
	}

	for _, tt := range tests {
		if got := visible(root, tt.path, tt.includeHidden); got != tt.want {
			t.Errorf("visible(%q, %v) = %v, want %v", tt.path, tt.includeHidden, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	in := make(chan model.FileEvent, 4)
	in <- model.FileEvent{Path: "/r/.stconflict-archive/a.1"}
	in <- model.FileEvent{Path: "/r/a.txt"}
	in <- model.FileEvent{Path: "/r/.cache/x"}
	in <- model.FileEvent{Path: "/r/a.txt.sync-conflict-1-A.stconflict.tmp"}
	close(in)

	var got []string
	for ev := range Filter(in, "/r", false) {
		got = append(got, ev.Path)
	}

	if len(got) != 1 || got[0] != "/r/a.txt" {
		t.Errorf("filtered = %v", got)
	}
}

func TestCoalesce_Burst(t *testing.T) {
	in := make(chan model.FileEvent)
	out := Coalesce(in, 50*time.Millisecond)

	for _, p := range []string{"a", "b", "c"} {
		in <- model.FileEvent{Type: model.EventWrite, Path: p}
	}

	select {
	case ev := <-out:
		if ev.Path != "c" {
			t.Errorf("got %q, want the last event of the burst", ev.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no coalesced event")
	}

	select {
	case ev := <-out:
		t.Errorf("unexpected second event %q", ev.Path)
	case <-time.After(150 * time.Millisecond):
	}

	close(in)
	if _, ok := <-out; ok {
		t.Error("output should close after input")
	}
}

func TestCoalesce_FlushOnClose(t *testing.T) {
	in := make(chan model.FileEvent, 1)
	out := Coalesce(in, time.Hour)

	in <- model.FileEvent{Path: "pending"}
	close(in)

	ev, ok := <-out
	if !ok || ev.Path != "pending" {
		t.Errorf("got %v %v, want the pending event flushed", ev, ok)
	}
}

func TestChecksumFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	write := func(s string) {
		if err := os.WriteFile(path, []byte(s), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cf := NewChecksumFilter(1 << 20)
	write("one")

	steps := []struct {
		content string
		ev      model.EventType
		pass    bool
	}{
		{"one", model.EventCreate, true},
		{"one", model.EventWrite, false},
		{"two", model.EventWrite, true},
		{"two", model.EventRemove, true},
		{"two", model.EventWrite, true},
	}

	for i, st := range steps {
		write(st.content)
		if got := !cf.unchanged(model.FileEvent{Type: st.ev, Path: path}); got != st.pass {
			t.Errorf("step %d: pass = %v, want %v", i, got, st.pass)
		}
	}

	if cf.unchanged(model.FileEvent{Type: model.EventWrite, Path: dir}) {
		t.Error("directory events should always pass")
	}
}
