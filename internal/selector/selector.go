// Package selector picks the single best candidate per resolved entry using
// a composite of match score, format preference, and bitrate.
package selector

import (
	"log/slog"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
	"github.com/TestProjects-Sigma/music-indexer/internal/search"
)

// Selector applies the configured selection rules to search results.
type Selector struct {
	minScore            int
	tolerance           int
	formatRank          map[catalog.Format]int
	preferHigherBitrate bool
	logger              *slog.Logger
}

// New builds a Selector from the selection config.
func New(cfg config.Selection, logger *slog.Logger) *Selector {
	s := &Selector{
		minScore:            cfg.MinScore,
		tolerance:           cfg.ScoreTolerance,
		formatRank:          make(map[catalog.Format]int, len(cfg.FormatPreference)),
		preferHigherBitrate: cfg.PreferHigherBitrate,
		logger:              logging.WithComponent(logger, "selector"),
	}
	for rank, format := range cfg.FormatPreference {
		if f, ok := catalog.ParseFormat(format); ok {
			s.formatRank[f] = rank
		}
	}
	return s
}

// SelectAll marks the best candidate of every group that has one. Only the
// Selected flag is mutated; candidate order and scores stay untouched.
func (s *Selector) SelectAll(result *search.Result) int {
	selected := 0
	for _, group := range result.Groups {
		if s.Select(group) != nil {
			selected++
		}
	}
	s.logger.Info("selection complete",
		slog.Int("groups", len(result.Groups)),
		slog.Int("selected", selected))
	return selected
}

// Select picks the candidate with the highest composite score, or nil when
// even the best composite falls below the minimum. The bitrate bonus only
// applies to candidates within the score tolerance of the leader, so a
// clearly better match never loses to a nicer container.
func (s *Selector) Select(group *search.Group) *search.Candidate {
	for _, c := range group.Candidates {
		c.Selected = false
	}
	if len(group.Candidates) == 0 {
		return nil
	}

	// Candidates arrive sorted by score descending.
	top := group.Candidates[0].Score

	var (
		best          *search.Candidate
		bestComposite int
	)
	for _, c := range group.Candidates {
		composite := s.composite(c, top-c.Score <= s.tolerance)
		switch {
		case best == nil, composite > bestComposite:
			best, bestComposite = c, composite
		case composite == bestComposite && c.File.Bitrate > best.File.Bitrate:
			best = c
		}
	}
	if bestComposite < s.minScore {
		return nil
	}
	best.Selected = true
	return best
}

// composite layers format and bitrate preference on the match score.
func (s *Selector) composite(c *search.Candidate, inWindow bool) int {
	composite := c.Score

	if rank, ok := s.formatRank[c.File.Format]; ok {
		points := 3 - rank
		if points < 1 {
			points = 1
		}
		composite += points
	}

	if inWindow && s.preferHigherBitrate {
		switch {
		case c.File.Bitrate >= 320:
			composite += 2
		case c.File.Bitrate >= 256:
			composite++
		}
	}

	return composite
}
