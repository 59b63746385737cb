package model

import "time"

const OriginalLabel = "Original"

// Candidate is one file on disk competing to be the surviving version of a logical file.
type Candidate struct {
	Path       string
	Exists     bool
	IsOriginal bool
	Size       *int64
	Modified   *time.Time
	Label      string
	// Digest is the hex xxhash64 of the content; empty when not computed.
	Digest string
}

// ConflictGroup is one logical file and all of its variants. Candidates[0] is always the
// original, whether or not it exists on disk.
type ConflictGroup struct {
	BasePath   string
	Candidates []Candidate
	Chosen     *int
}

// NewestIdx returns the candidate with the latest modification time. Equal timestamps keep the
// first occurrence.
func (g *ConflictGroup) NewestIdx() (int, bool) {
	return g.pickByTime(func(a, b time.Time) bool { return a.After(b) })
}

// OldestIdx returns the candidate with the earliest modification time. Equal timestamps keep the
// first occurrence.
func (g *ConflictGroup) OldestIdx() (int, bool) {
	return g.pickByTime(func(a, b time.Time) bool { return a.Before(b) })
}

func (g *ConflictGroup) pickByTime(better func(a, b time.Time) bool) (int, bool) {
	best := -1
	var bestTime time.Time

	for i, c := range g.Candidates {
		if c.Modified == nil {
			continue
		}
		if best < 0 || better(*c.Modified, bestTime) {
			best = i
			bestTime = *c.Modified
		}
	}

	return best, best >= 0
}

// DefaultPickIdx is the newest candidate, or the original when no candidate has a timestamp.
func (g *ConflictGroup) DefaultPickIdx() int {
	if i, ok := g.NewestIdx(); ok {
		return i
	}
	return 0
}

func (g *ConflictGroup) Choose(i int) {
	g.Chosen = &i
}

func (g *ConflictGroup) IsResolved() bool {
	return g.Chosen != nil
}

// ChosenCandidate returns the candidate recorded as the resolution, if any.
func (g *ConflictGroup) ChosenCandidate() (Candidate, bool) {
	if g.Chosen == nil || *g.Chosen < 0 || *g.Chosen >= len(g.Candidates) {
		return Candidate{}, false
	}
	return g.Candidates[*g.Chosen], true
}

func (g *ConflictGroup) OriginalExists() bool {
	return len(g.Candidates) > 0 && g.Candidates[0].Exists
}

func (g *ConflictGroup) ConflictCount() int {
	if len(g.Candidates) == 0 {
		return 0
	}
	return len(g.Candidates) - 1
}

// DuplicateOf returns the index of the first earlier candidate with identical content, or -1.
func (g *ConflictGroup) DuplicateOf(i int) int {
	if i <= 0 || i >= len(g.Candidates) || g.Candidates[i].Digest == "" {
		return -1
	}

	for j := 0; j < i; j++ {
		if g.Candidates[j].Digest == g.Candidates[i].Digest {
			return j
		}
	}
	return -1
}
