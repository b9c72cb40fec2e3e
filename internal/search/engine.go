package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/arunsworld/nursery"
	"github.com/google/uuid"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
	"github.com/TestProjects-Sigma/music-indexer/internal/match"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
)

// Engine runs the prefilter, score, classify pipeline against the catalog.
// Catalogs at or below prefilterMinRows are scored in full instead: the
// keyword pre-filter needs an exact substring hit, so on small collections a
// misspelled query word must not hide a file the matcher would accept.
type Engine struct {
	store            *catalog.Store
	matcher          *match.Matcher
	workers          int
	maxCandidates    int
	prefilterLimit   int
	prefilterMinRows int
	logger           *slog.Logger
}

// NewEngine builds a search engine over the given store.
func NewEngine(store *catalog.Store, matcher *match.Matcher, cfg *config.Config, logger *slog.Logger) *Engine {
	workers := cfg.Index.Workers
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		store:            store,
		matcher:          matcher,
		workers:          workers,
		maxCandidates:    cfg.Matching.MaxCandidates,
		prefilterLimit:   cfg.Matching.PrefilterLimit,
		prefilterMinRows: cfg.Matching.PrefilterMinRows,
		logger:           logging.WithComponent(logger, "search"),
	}
}

// Search resolves every entry against the catalog. Entries are scored
// concurrently; groups come back in input order regardless of scheduling.
// events, when non-nil, receives one progress event per completed entry.
func (e *Engine) Search(ctx context.Context, entries []*match.Entry, events chan<- progress.Event) (*Result, error) {
	result := &Result{
		RunID:  uuid.NewString(),
		Groups: make([]*Group, len(entries)),
	}
	if len(entries) == 0 {
		return result, nil
	}

	corpus, err := e.corpus(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.Info("search starting",
		slog.String(logging.FieldRunID, result.RunID),
		slog.Int("entries", len(entries)),
		slog.Int("workers", e.workers),
		slog.Bool("full_scan", corpus != nil))

	jobs := make(chan int, len(entries))
	for i := range entries {
		jobs <- i
	}
	close(jobs)

	var done atomic.Int64
	err = nursery.RunMultipleCopiesConcurrentlyWithContext(ctx, e.workers,
		func(ctx context.Context, errCh chan error) {
			for ordinal := range jobs {
				if err := ctx.Err(); err != nil {
					errCh <- err
					return
				}
				group, err := e.searchEntry(ctx, entries[ordinal], ordinal, corpus)
				if err != nil {
					errCh <- err
					return
				}
				result.Groups[ordinal] = group
				progress.Emit(events, int(done.Add(1)), len(entries), entries[ordinal].Raw)
			}
		})
	if err != nil {
		return nil, err
	}

	missing, found, multiple := result.Counts()
	e.logger.Info("search complete",
		slog.String(logging.FieldRunID, result.RunID),
		slog.Int("found", found),
		slog.Int("multiple", multiple),
		slog.Int("missing", missing))
	return result, nil
}

// SearchOne runs the pipeline for a single free-text query.
func (e *Engine) SearchOne(ctx context.Context, query string, swapped bool) (*Group, error) {
	entry := match.ParseEntry(query, 1, swapped)
	if entry == nil {
		return nil, fmt.Errorf("empty query")
	}
	result, err := e.Search(ctx, []*match.Entry{entry}, nil)
	if err != nil {
		return nil, err
	}
	return result.Groups[0], nil
}

// corpus loads the whole catalog when it is small enough to score in full.
// A nil result means the catalog is large and entries go through the keyword
// pre-filter instead.
func (e *Engine) corpus(ctx context.Context) ([]*catalog.File, error) {
	count, err := e.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	if count > e.prefilterMinRows {
		return nil, nil
	}
	files, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if files == nil {
		files = []*catalog.File{}
	}
	return files, nil
}

func (e *Engine) searchEntry(ctx context.Context, entry *match.Entry, ordinal int, corpus []*catalog.File) (*Group, error) {
	group := &Group{Entry: entry, Ordinal: ordinal, Status: StatusMissing}

	files := corpus
	if files == nil {
		keywords := match.Keywords(entry.Raw)
		if len(keywords) == 0 {
			return group, nil
		}
		var err error
		files, err = e.store.Prefilter(ctx, keywords, e.prefilterLimit)
		if err != nil {
			return nil, fmt.Errorf("prefilter line %d: %w", entry.Line, err)
		}
	}

	threshold := e.matcher.Threshold()
	for _, file := range files {
		score, reasons := e.matcher.Score(entry, file)
		if score < threshold {
			continue
		}
		group.Candidates = append(group.Candidates, &Candidate{
			File:    file,
			Score:   score,
			Reasons: reasons,
		})
	}

	sortCandidates(group.Candidates)
	if e.maxCandidates > 0 && len(group.Candidates) > e.maxCandidates {
		group.Candidates = group.Candidates[:e.maxCandidates]
	}
	group.Status = classify(group.Candidates)
	return group, nil
}

// sortCandidates orders by score descending, then bitrate descending, then
// path ascending so results are deterministic.
func sortCandidates(candidates []*Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.File.Bitrate != b.File.Bitrate {
			return a.File.Bitrate > b.File.Bitrate
		}
		return a.File.Path < b.File.Path
	})
}
