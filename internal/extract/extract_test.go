package extract

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
	"github.com/TestProjects-Sigma/music-indexer/internal/scanner"
)

func TestParseFilename(t *testing.T) {
	cases := []struct {
		name    string
		swapped bool
		artist  string
		title   string
	}{
		{"Artist - Title.mp3", false, "Artist", "Title"},
		{"Artist_-_Title.mp3", false, "Artist", "Title"},
		{"Artist_Title.mp3", false, "Artist", "Title"},
		{"01 - Artist - Title.mp3", false, "Artist", "Title"},
		{"12_Artist_-_Title.flac", false, "Artist", "Title"},
		{"A3-Artist_Title.mp3", false, "Artist", "Title"},
		{"Some_Long_Track_Name.mp3", false, "Some", "Long Track Name"},
		{"JustTitle.mp3", false, "", "JustTitle"},
		{"Title - Artist.mp3", true, "Artist", "Title"},
	}
	for _, tc := range cases {
		artist, title := ParseFilename(tc.name, tc.swapped)
		if artist != tc.artist || title != tc.title {
			t.Fatalf("ParseFilename(%q, swapped=%v) = (%q, %q), want (%q, %q)",
				tc.name, tc.swapped, artist, title, tc.artist, tc.title)
		}
	}
}

func TestFastExtractUsesFilenameOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Deadmau5 - Strobe.mp3")
	if err := os.WriteFile(path, []byte("not real audio"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := New(ModeFast, false, nil)
	file, err := e.Extract(scanner.Entry{
		Path:    path,
		Format:  catalog.FormatMP3,
		Size:    14,
		ModTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if file.Artist != "Deadmau5" || file.Title != "Strobe" {
		t.Fatalf("fast extract parsed (%q, %q)", file.Artist, file.Title)
	}
	if file.FullyIndexed {
		t.Fatal("fast extract must not mark file fully indexed")
	}
}

func TestFullExtractFallsBackOnBadTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Artist - Track.mp3")
	if err := os.WriteFile(path, []byte("garbage bytes, no tags here"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := New(ModeFull, false, nil)
	file, err := e.Extract(scanner.Entry{
		Path:    path,
		Format:  catalog.FormatMP3,
		Size:    27,
		ModTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if file.Artist != "Artist" || file.Title != "Track" {
		t.Fatalf("fallback fields = (%q, %q)", file.Artist, file.Title)
	}
	if !file.FullyIndexed {
		t.Fatal("full extract should mark file fully indexed despite tag failure")
	}
}

func TestProbeWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeWAVFixture(t, path, 44100, 2, 16, 44100*4) // one second of stereo 16-bit

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat fixture: %v", err)
	}

	file := &catalog.File{Path: path, Size: info.Size(), Format: catalog.FormatWAV}
	if err := probeWAV(file); err != nil {
		t.Fatalf("probeWAV: %v", err)
	}
	if file.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", file.SampleRate)
	}
	if file.Bitrate != 1411 {
		t.Fatalf("bitrate = %d, want 1411", file.Bitrate)
	}
	if file.DurationSeconds < 0.9 || file.DurationSeconds > 1.1 {
		t.Fatalf("duration = %v, want about 1s", file.DurationSeconds)
	}
}

func TestProbeMP3FrameHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.mp3")

	// MPEG1 Layer3, 128 kbps, 44100 Hz frame header followed by padding.
	data := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 4000)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	file := &catalog.File{Path: path, Size: int64(len(data)), Format: catalog.FormatMP3}
	if err := probeMP3(file); err != nil {
		t.Fatalf("probeMP3: %v", err)
	}
	if file.Bitrate != 128 {
		t.Fatalf("bitrate = %d, want 128", file.Bitrate)
	}
	if file.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", file.SampleRate)
	}
}

func writeWAVFixture(t *testing.T, path string, sampleRate, channels, bitsPerSample int, dataSize int) {
	t.Helper()

	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, 0, 44+dataSize)
	buf = append(buf, []byte("RIFF")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+dataSize))
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(bitsPerSample))
	buf = append(buf, []byte("data")...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dataSize))
	buf = append(buf, make([]byte, dataSize)...)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
}
