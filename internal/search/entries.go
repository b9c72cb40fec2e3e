package search

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/TestProjects-Sigma/music-indexer/internal/match"
)

// LoadEntries parses a plain-text match file: one entry per line, UTF-8,
// blank lines ignored, '#' lines are comments. Lines that parse to an empty
// artist and title are skipped with a diagnostic; the batch keeps going.
func LoadEntries(path string, swapped bool) ([]*match.Entry, []LineDiagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open match file: %w", err)
	}
	defer f.Close()

	var (
		entries     []*match.Entry
		diagnostics []LineDiagnostic
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := scanner.Text()

		entry := match.ParseEntry(raw, lineNum, swapped)
		if entry == nil {
			continue
		}
		if match.Normalize(entry.Artist+" "+entry.Title) == "" {
			diagnostics = append(diagnostics, LineDiagnostic{
				Line:   lineNum,
				Raw:    strings.TrimSpace(raw),
				Reason: "no artist or title",
			})
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read match file: %w", err)
	}

	return entries, diagnostics, nil
}
