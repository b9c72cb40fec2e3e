package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
)

// Entry is one discovered audio file with its stat data.
type Entry struct {
	Path    string
	Format  catalog.Format
	Size    int64
	ModTime time.Time
}

// Diagnostic records a path the scanner could not fully process. Scans keep
// going past diagnostics; they surface in the run summary.
type Diagnostic struct {
	Path   string
	Reason string
}

// Result is the outcome of scanning every configured root.
type Result struct {
	Entries     []Entry
	Diagnostics []Diagnostic
	Skipped     int
}

// Scanner discovers audio files under configured roots.
type Scanner struct {
	roots     []string
	recursive bool
	logger    *slog.Logger
}

// New builds a Scanner for the given roots.
func New(roots []string, recursive bool, logger *slog.Logger) *Scanner {
	return &Scanner{
		roots:     roots,
		recursive: recursive,
		logger:    logging.WithComponent(logger, "scanner"),
	}
}

// Scan walks every root and returns discovered audio files ordered by path.
// Paths reachable from more than one root appear once. Unreadable directories
// and broken symlinks become diagnostics rather than failing the scan.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	result := &Result{}
	seen := make(map[string]struct{})
	visitedDirs := make(map[string]struct{})

	for _, root := range s.roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(root)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Path: root, Reason: fmt.Sprintf("stat root: %v", err)})
			continue
		}
		if !info.IsDir() {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Path: root, Reason: "not a directory"})
			continue
		}

		if err := s.walkDir(ctx, root, seen, visitedDirs, result); err != nil {
			return nil, err
		}
	}

	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Path < result.Entries[j].Path
	})

	s.logger.Info("scan complete",
		slog.Int("files", len(result.Entries)),
		slog.Int("skipped", result.Skipped),
		slog.Int("diagnostics", len(result.Diagnostics)))
	return result, nil
}

func (s *Scanner) walkDir(ctx context.Context, dir string, seen, visitedDirs map[string]struct{}, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Resolve symlinks so a link cycle cannot recurse forever.
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{Path: dir, Reason: fmt.Sprintf("resolve: %v", err)})
		return nil
	}
	if _, ok := visitedDirs[canonical]; ok {
		s.logger.Debug("skipping already visited directory", slog.String(logging.FieldPath, dir))
		return nil
	}
	visitedDirs[canonical] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{Path: dir, Reason: fmt.Sprintf("read dir: %v", err)})
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || isSymlinkDir(entry, path) {
			if s.recursive {
				if err := s.walkDir(ctx, path, seen, visitedDirs, result); err != nil {
					return err
				}
			}
			continue
		}

		format, ok := catalog.FormatForPath(path)
		if !ok {
			result.Skipped++
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{Path: path, Reason: fmt.Sprintf("stat: %v", err)})
			continue
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}

		result.Entries = append(result.Entries, Entry{
			Path:    abs,
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return nil
}

func isSymlinkDir(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
