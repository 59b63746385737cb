package conflict

import (
	"stconflict/internal/model"
	"testing"
	"time"
)

func group(times ...int64) *model.ConflictGroup {
	g := &model.ConflictGroup{BasePath: "base"}
	for i, secs := range times {
		c := model.Candidate{Path: string(rune('a' + i)), IsOriginal: i == 0}
		if secs >= 0 {
			m := time.Unix(secs, 0)
			c.Modified = &m
		}
		g.Candidates = append(g.Candidates, c)
	}
	return g
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"original", StrategyOriginal, false},
		{"current", StrategyOriginal, false},
		{"Newest", StrategyNewest, false},
		{" oldest ", StrategyOldest, false},
		{"biggest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	g := group(10, 5, 99)

	tests := []struct {
		s      Strategy
		want   int
		wantOK bool
	}{
		{StrategyOriginal, 0, true},
		{StrategyNewest, 2, true},
		{StrategyOldest, 1, true},
	}

	for _, tt := range tests {
		got, ok := tt.s.Target(g)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("%s.Target() = %d, %v; want %d, %v", tt.s, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestTarget_NoTimes(t *testing.T) {
	g := group(-1, -1)

	if _, ok := StrategyNewest.Target(g); ok {
		t.Error("newest should have no target without timestamps")
	}
	if got := StrategyOldest.TargetOrOriginal(g); got != 0 {
		t.Errorf("TargetOrOriginal() = %d, want 0", got)
	}
	if got, ok := StrategyOriginal.Target(g); !ok || got != 0 {
		t.Errorf("original Target() = %d, %v", got, ok)
	}
}
