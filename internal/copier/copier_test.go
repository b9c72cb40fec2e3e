package copier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
	"github.com/TestProjects-Sigma/music-indexer/internal/search"
	"github.com/TestProjects-Sigma/music-indexer/internal/testsupport"
)

func TestCopyFilesCopiesAndVerifies(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "out")
	src := filepath.Join(srcDir, "track.mp3")
	testsupport.WriteFile(t, src, 4096)

	summary, err := New(nil).CopyFiles(context.Background(), []string{src}, destDir, nil)
	if err != nil {
		t.Fatalf("CopyFiles: %v", err)
	}
	if summary.Copied != 1 || len(summary.Failed) != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	info, err := os.Stat(filepath.Join(destDir, "track.mp3"))
	if err != nil {
		t.Fatalf("stat copy: %v", err)
	}
	if info.Size() != 4096 {
		t.Fatalf("copied size = %d", info.Size())
	}
}

func TestCopyFilesRenamesOnCollision(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	src := filepath.Join(srcDir, "track.mp3")
	testsupport.WriteFile(t, src, 1024)
	testsupport.WriteFile(t, filepath.Join(destDir, "track.mp3"), 512)
	testsupport.WriteFile(t, filepath.Join(destDir, "track (1).mp3"), 512)

	summary, err := New(nil).CopyFiles(context.Background(), []string{src}, destDir, nil)
	if err != nil {
		t.Fatalf("CopyFiles: %v", err)
	}
	if summary.Copied != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(destDir, "track (2).mp3")); err != nil {
		t.Fatalf("expected collision rename: %v", err)
	}
}

func TestCopyFilesRecordsFailuresAndContinues(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	good := filepath.Join(srcDir, "good.mp3")
	testsupport.WriteFile(t, good, 1024)
	missing := filepath.Join(srcDir, "missing.mp3")

	summary, err := New(nil).CopyFiles(context.Background(), []string{missing, good}, destDir, nil)
	if err != nil {
		t.Fatalf("CopyFiles: %v", err)
	}
	if summary.Copied != 1 || len(summary.Failed) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Failed[0].Path != missing {
		t.Fatalf("failure = %+v", summary.Failed[0])
	}
}

func TestCopyFilesHonorsCancellation(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "track.mp3")
	testsupport.WriteFile(t, src, 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(nil).CopyFiles(ctx, []string{src}, t.TempDir(), nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCopySelectedOnlyCopiesSelectedCandidates(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	selectedPath := filepath.Join(srcDir, "picked.mp3")
	otherPath := filepath.Join(srcDir, "other.mp3")
	testsupport.WriteFile(t, selectedPath, 1024)
	testsupport.WriteFile(t, otherPath, 1024)

	result := &search.Result{Groups: []*search.Group{
		{
			Status: search.StatusMultiple,
			Candidates: []*search.Candidate{
				{File: &catalog.File{Path: selectedPath}, Score: 95, Selected: true},
				{File: &catalog.File{Path: otherPath}, Score: 90},
			},
		},
		{Status: search.StatusMissing},
	}}

	events := make(chan progress.Event, 4)
	summary, err := New(nil).CopySelected(context.Background(), result, destDir, events)
	if err != nil {
		t.Fatalf("CopySelected: %v", err)
	}
	close(events)

	if summary.Copied != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(destDir, "picked.mp3")); err != nil {
		t.Fatalf("selected file not copied: %v", err)
	}
	if _, err := os.Stat(filepath.Join(destDir, "other.mp3")); err == nil {
		t.Fatal("unselected file copied")
	}
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
}
