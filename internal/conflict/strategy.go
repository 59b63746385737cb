package conflict

import (
	"fmt"
	"stconflict/internal/model"
	"strings"
)

// Strategy names a rule that picks the surviving candidate of a group.
type Strategy string

const (
	StrategyOriginal Strategy = "ORIGINAL"
	StrategyNewest   Strategy = "NEWEST"
	StrategyOldest   Strategy = "OLDEST"
)

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ORIGINAL", "CURRENT":
		return StrategyOriginal, nil
	case "NEWEST", "NEWER":
		return StrategyNewest, nil
	case "OLDEST", "OLDER":
		return StrategyOldest, nil
	default:
		return "", fmt.Errorf("unknown strategy: %s", s)
	}
}

func (s Strategy) String() string {
	return strings.ToLower(string(s))
}

// Target returns the index the strategy points at. ok is false when the strategy needs
// modification times and the group has none.
func (s Strategy) Target(g *model.ConflictGroup) (int, bool) {
	switch s {
	case StrategyOriginal:
		return 0, len(g.Candidates) > 0
	case StrategyNewest:
		return g.NewestIdx()
	case StrategyOldest:
		return g.OldestIdx()
	default:
		return 0, false
	}
}

// TargetOrOriginal is Target with the original as fallback, used for batch picks where every
// group must end up resolved.
func (s Strategy) TargetOrOriginal(g *model.ConflictGroup) int {
	if i, ok := s.Target(g); ok {
		return i
	}
	return 0
}
