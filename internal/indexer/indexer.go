// Package indexer drives incremental catalog builds: scan the configured
// roots, detect changed files by fingerprint, extract metadata on a worker
// pool, and persist the results in batched writes.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/arunsworld/nursery"
	"github.com/gofrs/flock"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/extract"
	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
	"github.com/TestProjects-Sigma/music-indexer/internal/scanner"
)

// ErrLocked is returned when another indexing run holds the lock file.
var ErrLocked = errors.New("index lock held by another process")

// Summary reports the outcome of one indexing run.
type Summary struct {
	Scanned     int
	Indexed     int
	Unchanged   int
	Failed      int
	Diagnostics []scanner.Diagnostic
	Duration    time.Duration
}

// Indexer coordinates scanning, extraction, and catalog writes.
type Indexer struct {
	store     *catalog.Store
	extractor *extract.Extractor
	scan      *scanner.Scanner
	lockPath  string
	workers   int
	batchSize int
	logger    *slog.Logger
}

// New builds an Indexer from the scan and index sections of the config.
func New(store *catalog.Store, cfg *config.Config, logger *slog.Logger) *Indexer {
	mode := extract.ModeFast
	if cfg.Index.FullTags {
		mode = extract.ModeFull
	}
	workers := cfg.Index.Workers
	if workers < 1 {
		workers = 1
	}
	batchSize := cfg.Index.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	return &Indexer{
		store:     store,
		extractor: extract.New(mode, cfg.Matching.SwappedFilenameOrder, logger),
		scan:      scanner.New(cfg.Scan.Directories, cfg.Scan.Recursive, logger),
		lockPath:  cfg.LockPath(),
		workers:   workers,
		batchSize: batchSize,
		logger:    logging.WithComponent(logger, "indexer"),
	}
}

// Run performs one incremental indexing pass. Files whose size and
// modification time match the stored fingerprint are skipped, unless they
// were fast-indexed and this run reads full tags. Rows are never deleted
// here; stale rows are removed only by an explicit Prune. events, when
// non-nil, receives one progress event per extracted file.
func (ix *Indexer) Run(ctx context.Context, events chan<- progress.Event) (*Summary, error) {
	lock := flock.New(ix.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire index lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer lock.Unlock()

	start := time.Now()
	scanResult, err := ix.scan.Scan(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Scanned:     len(scanResult.Entries),
		Diagnostics: scanResult.Diagnostics,
	}

	pending, err := ix.pending(ctx, scanResult.Entries)
	if err != nil {
		return nil, err
	}
	summary.Unchanged = len(scanResult.Entries) - len(pending)

	if err := ix.extractAndWrite(ctx, pending, events, summary); err != nil {
		return nil, err
	}

	summary.Duration = time.Since(start)
	ix.logger.Info("index run complete",
		slog.Int("scanned", summary.Scanned),
		slog.Int("indexed", summary.Indexed),
		slog.Int("unchanged", summary.Unchanged),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Duration))
	return summary, nil
}

// pending filters the scan down to files that need (re-)extraction.
func (ix *Indexer) pending(ctx context.Context, entries []scanner.Entry) ([]scanner.Entry, error) {
	full := ix.extractor.Mode() == extract.ModeFull
	var out []scanner.Entry
	for _, entry := range entries {
		fp, err := ix.store.Fingerprint(ctx, entry.Path)
		if err != nil {
			return nil, err
		}
		if fp != nil && fp.Matches(entry.Size, entry.ModTime) && (fp.FullyIndexed || !full) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// extractAndWrite fans extraction out over the worker pool and funnels the
// records into a single writer that upserts them in batches. A failed write
// aborts the run; a failed extraction only skips that file.
func (ix *Indexer) extractAndWrite(ctx context.Context, entries []scanner.Entry, events chan<- progress.Event, summary *Summary) error {
	if len(entries) == 0 {
		return nil
	}

	jobs := make(chan scanner.Entry, len(entries))
	for _, entry := range entries {
		jobs <- entry
	}
	close(jobs)

	files := make(chan *catalog.File, ix.batchSize)
	var done, failed, written atomic.Int64

	err := nursery.RunConcurrentlyWithContext(ctx,
		func(ctx context.Context, errCh chan error) {
			defer close(files)
			err := nursery.RunMultipleCopiesConcurrentlyWithContext(ctx, ix.workers,
				func(ctx context.Context, errCh chan error) {
					for entry := range jobs {
						if err := ctx.Err(); err != nil {
							errCh <- err
							return
						}
						file, err := ix.extractor.Extract(entry)
						if err != nil {
							failed.Add(1)
							ix.logger.Warn("extraction failed",
								slog.String(logging.FieldPath, entry.Path),
								slog.String("error", err.Error()))
						} else {
							files <- file
						}
						progress.Emit(events, int(done.Add(1)), len(entries), entry.Path)
					}
				})
			if err != nil {
				errCh <- err
			}
		},
		func(ctx context.Context, errCh chan error) {
			batch := make([]*catalog.File, 0, ix.batchSize)
			flush := func() error {
				if len(batch) == 0 {
					return nil
				}
				if err := ix.store.UpsertBatch(ctx, batch); err != nil {
					return err
				}
				written.Add(int64(len(batch)))
				batch = batch[:0]
				return nil
			}
			for file := range files {
				batch = append(batch, file)
				if len(batch) >= ix.batchSize {
					if err := flush(); err != nil {
						errCh <- err
						// Unblock the extraction workers.
						for range files {
						}
						return
					}
				}
			}
			if err := flush(); err != nil {
				errCh <- err
			}
		})

	summary.Indexed = int(written.Load())
	summary.Failed = int(failed.Load())
	if err != nil {
		return fmt.Errorf("index run: %w", err)
	}
	return nil
}

// Prune removes catalog rows whose files no longer exist on disk. It is an
// explicit maintenance operation so a misconfigured or unreadable scan root
// can never look like a mass deletion.
func Prune(ctx context.Context, store *catalog.Store, logger *slog.Logger) (int, error) {
	stored, err := store.Paths(ctx)
	if err != nil {
		return 0, err
	}
	var orphans []string
	for _, path := range stored {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			orphans = append(orphans, path)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}
	removed, err := store.Remove(ctx, orphans)
	if err != nil {
		return 0, err
	}
	logging.WithComponent(logger, "indexer").Info("pruned missing files",
		slog.Int("removed", removed))
	return removed, nil
}
