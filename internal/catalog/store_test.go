package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/testsupport"
)

func TestUpsertReplacesExistingRow(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	now := time.Now()
	testsupport.SeedFile(t, store, &catalog.File{
		Path:    "/music/a.mp3",
		Size:    100,
		ModTime: now,
		Artist:  "Artist",
		Title:   "First",
	})
	testsupport.SeedFile(t, store, &catalog.File{
		Path:    "/music/a.mp3",
		Size:    200,
		ModTime: now.Add(time.Minute),
		Artist:  "Artist",
		Title:   "Second",
	})

	files, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 row after upsert, got %d", len(files))
	}
	if files[0].Title != "Second" || files[0].Size != 200 {
		t.Fatalf("row not replaced: %+v", files[0])
	}
}

func TestFingerprintRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	mod := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	testsupport.SeedFile(t, store, &catalog.File{
		Path:         "/music/track.flac",
		Size:         4096,
		ModTime:      mod,
		FullyIndexed: true,
	})

	fp, err := store.Fingerprint(ctx, "/music/track.flac")
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp == nil {
		t.Fatal("expected fingerprint for indexed path")
	}
	if !fp.Matches(4096, mod) {
		t.Fatalf("fingerprint should match stat data: %+v", fp)
	}
	if fp.Matches(4096, mod.Add(time.Nanosecond)) {
		t.Fatal("fingerprint should not match changed mod time")
	}
	if !fp.FullyIndexed {
		t.Fatal("expected fully indexed flag to persist")
	}

	missing, err := store.Fingerprint(ctx, "/music/absent.mp3")
	if err != nil {
		t.Fatalf("Fingerprint missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil fingerprint for unknown path, got %+v", missing)
	}
}

func TestPrefilterMatchesAnyKeyword(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/deadmau5_strobe.mp3", Artist: "Deadmau5", Title: "Strobe"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/other.mp3", Artist: "Someone", Title: "Else"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/untagged_strobe_edit.mp3"})

	files, err := store.Prefilter(ctx, []string{"strobe"}, 0)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 prefilter hits, got %d", len(files))
	}
	// Ordered by path.
	if files[0].Path != "/music/deadmau5_strobe.mp3" || files[1].Path != "/music/untagged_strobe_edit.mp3" {
		t.Fatalf("unexpected prefilter rows: %q, %q", files[0].Path, files[1].Path)
	}
}

func TestPrefilterIsCaseInsensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/a.mp3", Artist: "DEADMAU5", Title: "STROBE"})

	files, err := store.Prefilter(ctx, []string{"Strobe"}, 0)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected case-insensitive hit, got %d rows", len(files))
	}
}

func TestPrefilterEscapesWildcards(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/a.mp3", Title: "100% Pure"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/b.mp3", Title: "100x Pure"})

	files, err := store.Prefilter(ctx, []string{"100%"}, 0)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(files) != 1 || files[0].Title != "100% Pure" {
		t.Fatalf("expected literal %% match only, got %d rows", len(files))
	}
}

func TestPrefilterHonorsLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/a.mp3", Title: "Strobe One"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/b.mp3", Title: "Strobe Two"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/c.mp3", Title: "Strobe Three"})

	files, err := store.Prefilter(ctx, []string{"strobe"}, 2)
	if err != nil {
		t.Fatalf("Prefilter: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected limit to cap results at 2, got %d", len(files))
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/a.mp3"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/b.mp3"})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/c.mp3"})

	removed, err := store.Remove(ctx, []string{"/music/a.mp3", "/music/missing.mp3"})
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	paths, err := store.Paths(ctx)
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 remaining paths, got %v", paths)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	files, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty catalog after clear, got %d rows", len(files))
	}
}

func TestStatsAggregation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	testsupport.SeedFile(t, store, &catalog.File{
		Path: "/music/a.mp3", Bitrate: 320, DurationSeconds: 180, FullyIndexed: true,
	})
	testsupport.SeedFile(t, store, &catalog.File{
		Path: "/music/b.flac", Bitrate: 1000, DurationSeconds: 240, FullyIndexed: true,
	})
	testsupport.SeedFile(t, store, &catalog.File{Path: "/music/c.mp3"})

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Files != 3 {
		t.Fatalf("expected 3 files, got %d", stats.Files)
	}
	if stats.FullyIndexed != 2 {
		t.Fatalf("expected 2 fully indexed, got %d", stats.FullyIndexed)
	}
	if stats.Formats[catalog.FormatMP3] != 2 || stats.Formats[catalog.FormatFLAC] != 1 {
		t.Fatalf("unexpected format counts: %v", stats.Formats)
	}
	if stats.AvgBitrate != 660 {
		t.Fatalf("expected avg bitrate 660 over rows with bitrate, got %v", stats.AvgBitrate)
	}
	if stats.TotalDuration != 420 {
		t.Fatalf("expected total duration 420, got %v", stats.TotalDuration)
	}
}

func TestBatchUpsertIsAtomic(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	batch := []*catalog.File{
		{Path: "/music/a.mp3", Filename: "a.mp3", Format: catalog.FormatMP3, Size: 1, ModTime: time.Now()},
		{Path: "/music/b.mp3", Filename: "b.mp3", Format: catalog.FormatMP3, Size: 1, ModTime: time.Now()},
	}
	if err := store.UpsertBatch(ctx, batch); err != nil {
		t.Fatalf("UpsertBatch: %v", err)
	}

	files, err := store.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(files))
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		ext  string
		want catalog.Format
		ok   bool
	}{
		{".mp3", catalog.FormatMP3, true},
		{"FLAC", catalog.FormatFLAC, true},
		{".M4A", catalog.FormatM4A, true},
		{".ogg", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := catalog.ParseFormat(tc.ext)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q, %v", tc.ext, got, ok, tc.want, tc.ok)
		}
	}
}
