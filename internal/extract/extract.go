package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/logging"
	"github.com/TestProjects-Sigma/music-indexer/internal/scanner"
)

// Mode selects how much metadata Extract captures.
type Mode int

const (
	// ModeFast derives artist/title from the filename only.
	ModeFast Mode = iota
	// ModeFull additionally reads embedded tags and audio properties.
	ModeFull
)

func (m Mode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "fast"
}

// Extractor turns scanned files into catalog rows.
type Extractor struct {
	mode    Mode
	swapped bool
	logger  *slog.Logger
}

// New builds an Extractor. swappedFilenameOrder treats filenames as
// "Title - Artist" instead of the default "Artist - Title".
func New(mode Mode, swappedFilenameOrder bool, logger *slog.Logger) *Extractor {
	return &Extractor{
		mode:    mode,
		swapped: swappedFilenameOrder,
		logger:  logging.WithComponent(logger, "extract"),
	}
}

// Mode returns the extractor's configured mode.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract builds the catalog row for one scanned file. In full mode a tag
// read failure is not fatal: the row falls back to filename-derived fields
// and is still marked fully indexed so the file is not reprobed every run.
func (e *Extractor) Extract(entry scanner.Entry) (*catalog.File, error) {
	file := &catalog.File{
		Path:        entry.Path,
		Filename:    filepath.Base(entry.Path),
		Size:        entry.Size,
		ModTime:     entry.ModTime,
		Format:      entry.Format,
		LastScanned: time.Now(),
	}
	file.Artist, file.Title = ParseFilename(file.Filename, e.swapped)

	if e.mode == ModeFast {
		return file, nil
	}

	if err := e.readTags(file); err != nil {
		e.logger.Debug("tag read failed, keeping filename fields",
			slog.String(logging.FieldPath, entry.Path),
			slog.String("error", err.Error()))
	}
	if err := e.probe(file); err != nil {
		e.logger.Debug("audio probe failed",
			slog.String(logging.FieldPath, entry.Path),
			slog.String("error", err.Error()))
	}
	file.FullyIndexed = true
	return file, nil
}

func (e *Extractor) readTags(file *catalog.File) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}

	if artist := cleanTag(meta.Artist()); artist != "" {
		file.Artist = artist
	}
	if title := cleanTag(meta.Title()); title != "" {
		file.Title = title
	}
	file.Album = cleanTag(meta.Album())
	return nil
}

func (e *Extractor) probe(file *catalog.File) error {
	switch file.Format {
	case catalog.FormatMP3:
		return probeMP3(file)
	case catalog.FormatFLAC:
		return probeFLAC(file)
	case catalog.FormatWAV:
		return probeWAV(file)
	default:
		// No frame-level probe for m4a/aac containers; tags still apply.
		return nil
	}
}

// cleanTag trims a tag value and collapses internal whitespace.
func cleanTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
