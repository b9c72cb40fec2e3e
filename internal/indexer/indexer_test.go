package indexer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
	"github.com/TestProjects-Sigma/music-indexer/internal/indexer"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
	"github.com/TestProjects-Sigma/music-indexer/internal/testsupport"
)

func setup(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	if err := os.MkdirAll(cfg.Scan.Directories[0], 0o755); err != nil {
		t.Fatalf("create music dir: %v", err)
	}
	store := testsupport.MustOpenCatalog(t, cfg)
	return cfg, store
}

func musicPath(cfg *config.Config, name string) string {
	return filepath.Join(cfg.Scan.Directories[0], name)
}

func TestRunIndexesNewFiles(t *testing.T) {
	cfg, store := setup(t)
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 2048)
	testsupport.WriteFile(t, musicPath(cfg, "Other - Tune.flac"), 4096)

	summary, err := indexer.New(store, cfg, nil).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Scanned != 2 || summary.Indexed != 2 || summary.Unchanged != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	file, err := store.Get(context.Background(), musicPath(cfg, "Artist - Song.mp3"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if file == nil {
		t.Fatal("indexed file missing from catalog")
	}
	if file.Artist != "Artist" || file.Title != "Song" {
		t.Fatalf("parsed fields = %q / %q", file.Artist, file.Title)
	}
	if !file.FullyIndexed {
		t.Fatal("full run should mark files fully indexed")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg, store := setup(t)
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 2048)
	testsupport.WriteFile(t, musicPath(cfg, "Other - Tune.mp3"), 4096)

	ix := indexer.New(store, cfg, nil)
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	summary, err := ix.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Indexed != 0 || summary.Unchanged != 2 {
		t.Fatalf("second run summary = %+v", summary)
	}
}

func TestRunReindexesChangedFile(t *testing.T) {
	cfg, store := setup(t)
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 2048)
	testsupport.WriteFile(t, musicPath(cfg, "Other - Tune.mp3"), 4096)

	ix := indexer.New(store, cfg, nil)
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}

	// A new size invalidates the stored fingerprint.
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 3072)

	summary, err := ix.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Indexed != 1 || summary.Unchanged != 1 {
		t.Fatalf("second run summary = %+v", summary)
	}
}

func TestRunUpgradesFastIndexToFull(t *testing.T) {
	cfg, store := setup(t, func(cfg *config.Config) {
		cfg.Index.FullTags = false
	})
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 2048)

	if _, err := indexer.New(store, cfg, nil).Run(context.Background(), nil); err != nil {
		t.Fatalf("fast run: %v", err)
	}
	file, err := store.Get(context.Background(), musicPath(cfg, "Artist - Song.mp3"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if file.FullyIndexed {
		t.Fatal("fast run should not mark files fully indexed")
	}

	cfg.Index.FullTags = true
	full := indexer.New(store, cfg, nil)
	summary, err := full.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("full run: %v", err)
	}
	if summary.Indexed != 1 {
		t.Fatalf("full run should re-extract fast rows, summary = %+v", summary)
	}

	summary, err = full.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("repeat full run: %v", err)
	}
	if summary.Indexed != 0 || summary.Unchanged != 1 {
		t.Fatalf("repeat full run summary = %+v", summary)
	}
}

func TestPruneRemovesMissingRows(t *testing.T) {
	cfg, store := setup(t)
	keep := musicPath(cfg, "Artist - Song.mp3")
	gone := musicPath(cfg, "Other - Tune.mp3")
	testsupport.WriteFile(t, keep, 2048)
	testsupport.WriteFile(t, gone, 4096)

	ix := indexer.New(store, cfg, nil)
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := os.Remove(gone); err != nil {
		t.Fatalf("remove file: %v", err)
	}

	// A rescan never deletes rows, even for files that are gone.
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	paths, err := store.Paths(context.Background())
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("rescan deleted rows: %v", paths)
	}

	removed, err := indexer.Prune(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	paths, err = store.Paths(context.Background())
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 1 || paths[0] != keep {
		t.Fatalf("remaining paths = %v", paths)
	}
}

func TestRunRefusesHeldLock(t *testing.T) {
	cfg, store := setup(t)

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-acquire lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	if _, err := indexer.New(store, cfg, nil).Run(context.Background(), nil); !errors.Is(err, indexer.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunEmitsProgressEvents(t *testing.T) {
	cfg, store := setup(t)
	testsupport.WriteFile(t, musicPath(cfg, "Artist - Song.mp3"), 2048)
	testsupport.WriteFile(t, musicPath(cfg, "Other - Tune.mp3"), 4096)

	events := make(chan progress.Event, 8)
	if _, err := indexer.New(store, cfg, nil).Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(events)

	var count, maxProcessed int
	for ev := range events {
		count++
		if ev.Total != 2 {
			t.Fatalf("event total = %d", ev.Total)
		}
		if ev.Processed > maxProcessed {
			maxProcessed = ev.Processed
		}
	}
	if count != 2 || maxProcessed != 2 {
		t.Fatalf("events = %d, max processed = %d", count, maxProcessed)
	}
}
