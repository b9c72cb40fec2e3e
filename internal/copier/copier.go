// Package copier copies selected matches into a destination directory with
// integrity verification and collision-safe naming.
package copier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
	"github.com/TestProjects-Sigma/music-indexer/internal/progress"
	"github.com/TestProjects-Sigma/music-indexer/internal/search"
)

// Failure records one file that could not be copied.
type Failure struct {
	Path string
	Err  error
}

// Summary reports the outcome of one copy run.
type Summary struct {
	Copied   int
	Failed   []Failure
	Duration time.Duration
}

// Copier performs bulk file copies for search results.
type Copier struct {
	logger *slog.Logger
}

// New builds a Copier.
func New(logger *slog.Logger) *Copier {
	return &Copier{logger: logging.WithComponent(logger, "copier")}
}

// CopySelected copies the selected candidate of every group in the result.
func (c *Copier) CopySelected(ctx context.Context, result *search.Result, destDir string, events chan<- progress.Event) (*Summary, error) {
	var paths []string
	for _, group := range result.Groups {
		if sel := group.SelectedCandidate(); sel != nil {
			paths = append(paths, sel.File.Path)
		}
	}
	return c.CopyFiles(ctx, paths, destDir, events)
}

// CopyFiles copies the given files into destDir, creating it if needed.
// Cancellation is honored between files, never mid-file. A failed copy is
// recorded and the run continues; only cancellation and an unusable
// destination abort it. events, when non-nil, receives one event per file.
func (c *Copier) CopyFiles(ctx context.Context, paths []string, destDir string, events chan<- progress.Event) (*Summary, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	start := time.Now()
	summary := &Summary{}
	for i, src := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dst := uniqueDestPath(destDir, filepath.Base(src))
		if err := copyVerified(src, dst); err != nil {
			summary.Failed = append(summary.Failed, Failure{Path: src, Err: err})
			c.logger.Warn("copy failed",
				slog.String(logging.FieldPath, src),
				slog.String("error", err.Error()))
		} else {
			summary.Copied++
		}
		progress.Emit(events, i+1, len(paths), src)
	}
	summary.Duration = time.Since(start)

	c.logger.Info("copy run complete",
		slog.Int("copied", summary.Copied),
		slog.Int("failed", len(summary.Failed)),
		slog.String("destination", destDir),
		slog.Duration("elapsed", summary.Duration))
	return summary, nil
}

// uniqueDestPath appends " (N)" before the extension until the name is free.
func uniqueDestPath(dir, filename string) string {
	dst := filepath.Join(dir, filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(dst); errors.Is(err, fs.ErrNotExist) {
			return dst
		}
		dst = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, counter, ext))
	}
}

// copyVerified streams src to dst with SHA256 and size verification.
// dst is removed on any write or verification failure.
func copyVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, dstHasher), io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("hash mismatch: file corrupted during copy")
	}
	return nil
}
