package catalog

import (
	"path/filepath"
	"strings"
	"time"
)

// Format identifies a supported audio container.
type Format string

// Supported audio formats.
const (
	FormatMP3  Format = "mp3"
	FormatFLAC Format = "flac"
	FormatM4A  Format = "m4a"
	FormatAAC  Format = "aac"
	FormatWAV  Format = "wav"
)

// Formats lists every supported format in canonical order.
var Formats = []Format{FormatMP3, FormatFLAC, FormatM4A, FormatAAC, FormatWAV}

// ParseFormat maps a file extension (with or without the leading dot) to a
// Format. The second return value reports whether the extension is supported.
func ParseFormat(ext string) (Format, bool) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch Format(ext) {
	case FormatMP3, FormatFLAC, FormatM4A, FormatAAC, FormatWAV:
		return Format(ext), true
	}
	return "", false
}

// FormatForPath derives the format from a file path's extension.
func FormatForPath(path string) (Format, bool) {
	return ParseFormat(filepath.Ext(path))
}

// File is one catalog row: the captured metadata for a single audio file.
// Path uniquely identifies the row; (Size, ModTime) is the staleness
// fingerprint used to decide whether re-extraction is needed.
type File struct {
	ID              int64
	Path            string
	Filename        string
	Size            int64
	ModTime         time.Time
	Format          Format
	Artist          string
	Title           string
	Album           string
	Bitrate         int
	DurationSeconds float64
	SampleRate      int
	FullyIndexed    bool
	LastScanned     time.Time
}

// Fingerprint is the staleness check for one path.
type Fingerprint struct {
	Size         int64
	ModTime      time.Time
	FullyIndexed bool
}

// Matches reports whether the stored fingerprint matches the given stat data.
func (fp Fingerprint) Matches(size int64, modTime time.Time) bool {
	return fp.Size == size && fp.ModTime.Equal(modTime)
}

// Stats aggregates catalog contents for diagnostic output.
type Stats struct {
	Files         int
	FullyIndexed  int
	Formats       map[Format]int
	AvgBitrate    float64
	TotalDuration float64
	SizeOnDisk    int64
}
