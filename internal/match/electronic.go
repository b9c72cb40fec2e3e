package match

import (
	"strings"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
)

// electronicBonus computes the signed adjustment for electronic-music mode.
// Adjustments depend only on the entry and the candidate, never on candidate
// order, so scoring stays deterministic under concurrency.
func (m *Matcher) electronicBonus(entry *Entry, file *catalog.File) (int, []string) {
	bonus := 0
	var reasons []string

	if entry.Artist != "" && file.Artist != "" {
		switch s := m.artistScore(entry, file.Artist); {
		case s >= 95:
			bonus += 8
			reasons = append(reasons, "artist_variation")
		case s >= 90:
			bonus += 5
			reasons = append(reasons, "exact_artist")
		}
	}

	if len(entry.Artists) > 1 && (file.Artist != "" || file.Filename != "") {
		if m.collaboratorsPresent(entry.Artists, file) {
			bonus += 8
			reasons = append(reasons, "multi_artist")
		}
	}

	remixBonus, remixReason := m.remixBonus(entry, file)
	bonus += remixBonus
	if remixReason != "" {
		reasons = append(reasons, remixReason)
	}

	if rank, ok := m.formatRank[file.Format]; ok {
		points := 3 - rank
		if points < 1 {
			points = 1
		}
		bonus += points
		reasons = append(reasons, "format_"+string(file.Format))
	}

	switch {
	case file.Bitrate >= 320:
		bonus += 2
		reasons = append(reasons, "high_bitrate")
	case file.Bitrate >= 256:
		bonus += 1
		reasons = append(reasons, "med_bitrate")
	}

	return bonus, reasons
}

// remixBonus prefers files that match the requested remix, and originals
// when no remix was asked for.
func (m *Matcher) remixBonus(entry *Entry, file *catalog.File) (int, string) {
	fileIsRemix := fileAppearsRemix(file)

	if terms := entry.RemixTerms(); len(terms) > 0 {
		if !fileIsRemix {
			return -10, "original_when_remix_wanted"
		}
		switch coverage := remixTermCoverage(terms, file); {
		case coverage >= 90:
			return 25, "exact_remix"
		case coverage >= 70:
			return 15, "good_remix"
		case coverage >= 50:
			return 8, "partial_remix"
		default:
			return -5, "wrong_remix"
		}
	}

	if fileIsRemix {
		return -10, "remix_penalty"
	}
	return 8, "original_preferred"
}

func fileAppearsRemix(file *catalog.File) bool {
	return containsRemixKeyword(file.Filename) || containsRemixKeyword(file.Title)
}

// remixTermCoverage is the percentage of the entry's remix terms present in
// the file's filename or title.
func remixTermCoverage(terms []string, file *catalog.File) int {
	text := strings.ToLower(file.Filename + " " + file.Title)
	found := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			found++
		}
	}
	return found * 100 / len(terms)
}

func (m *Matcher) collaboratorsPresent(artists []string, file *catalog.File) bool {
	cleanFilename := m.Clean(file.Filename)
	cleanArtist := m.Clean(file.Artist)

	found := 0
	for _, artist := range artists {
		clean := m.Clean(artist)
		if clean == "" {
			continue
		}
		if strings.Contains(cleanFilename, clean) || strings.Contains(cleanArtist, clean) {
			found++
			continue
		}
		for _, word := range strings.Fields(clean) {
			if len(word) > 2 && strings.Contains(cleanFilename, word) {
				found++
				break
			}
		}
	}
	return found >= 2
}
