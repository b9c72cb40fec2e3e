package search

import (
	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/match"
)

// Status classifies an entry group by its candidate count after threshold
// filtering.
type Status string

const (
	StatusMissing  Status = "missing"
	StatusFound    Status = "found"
	StatusMultiple Status = "multiple"
)

// Candidate is one catalog file that scored at or above the threshold for an
// entry. Selected is set by the selector, never by the search engine.
type Candidate struct {
	File     *catalog.File
	Score    int
	Reasons  []string
	Selected bool
}

// Group holds the outcome for one parsed entry. Ordinal is the entry's
// position in the input, which fixes group order regardless of worker
// scheduling.
type Group struct {
	Entry      *match.Entry
	Ordinal    int
	Status     Status
	Candidates []*Candidate
}

// Best returns the top-ranked candidate, or nil for a missing group.
func (g *Group) Best() *Candidate {
	if len(g.Candidates) == 0 {
		return nil
	}
	return g.Candidates[0]
}

// SelectedCandidate returns the candidate the selector picked, if any.
func (g *Group) SelectedCandidate() *Candidate {
	for _, c := range g.Candidates {
		if c.Selected {
			return c
		}
	}
	return nil
}

// LineDiagnostic records a malformed input line that was skipped.
type LineDiagnostic struct {
	Line   int
	Raw    string
	Reason string
}

// Result is the outcome of one search run.
type Result struct {
	RunID       string
	Groups      []*Group
	Diagnostics []LineDiagnostic
}

// Counts tallies groups by status.
func (r *Result) Counts() (missing, found, multiple int) {
	for _, g := range r.Groups {
		switch g.Status {
		case StatusFound:
			found++
		case StatusMultiple:
			multiple++
		default:
			missing++
		}
	}
	return missing, found, multiple
}

func classify(candidates []*Candidate) Status {
	switch len(candidates) {
	case 0:
		return StatusMissing
	case 1:
		return StatusFound
	default:
		return StatusMultiple
	}
}
