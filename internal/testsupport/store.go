package testsupport

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/config"
)

// MustOpenCatalog opens a catalog.Store for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedFile upserts a catalog row for tests, filling in defaults where the
// caller left fields zero.
func SeedFile(t testing.TB, store *catalog.Store, file *catalog.File) *catalog.File {
	t.Helper()

	if file.Filename == "" {
		file.Filename = filepath.Base(file.Path)
	}
	if file.Format == "" {
		if format, ok := catalog.FormatForPath(file.Path); ok {
			file.Format = format
		} else {
			file.Format = catalog.FormatMP3
		}
	}
	if file.Size == 0 {
		file.Size = 1024
	}
	if file.ModTime.IsZero() {
		file.ModTime = time.Now()
	}
	if err := store.Upsert(context.Background(), file); err != nil {
		t.Fatalf("store.Upsert: %v", err)
	}
	return file
}
