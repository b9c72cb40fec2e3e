package match

import (
	"strings"

	"github.com/TestProjects-Sigma/music-indexer/internal/catalog"
)

// Options configures a Matcher.
type Options struct {
	// Threshold is the minimum score for a candidate to count as a match.
	Threshold int
	// Electronic enables remix/collaboration-aware score adjustments.
	Electronic bool
	// IgnoredSuffixes are release-group tags stripped from the tail of
	// strings before comparison (e.g. "justify", "sob", "nrg").
	IgnoredSuffixes []string
	// FormatPreference ranks formats for the electronic format bonus,
	// best first.
	FormatPreference []string
}

// Matcher scores parsed entries against catalog rows.
type Matcher struct {
	threshold       int
	electronic      bool
	ignoredSuffixes []string
	formatRank      map[catalog.Format]int
}

// New builds a Matcher from options.
func New(opts Options) *Matcher {
	m := &Matcher{
		threshold:  opts.Threshold,
		electronic: opts.Electronic,
		formatRank: make(map[catalog.Format]int, len(opts.FormatPreference)),
	}
	for _, suffix := range opts.IgnoredSuffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" {
			m.ignoredSuffixes = append(m.ignoredSuffixes, suffix)
		}
	}
	for rank, format := range opts.FormatPreference {
		if f, ok := catalog.ParseFormat(format); ok {
			m.formatRank[f] = rank
		}
	}
	return m
}

// Threshold returns the configured match threshold.
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Clean normalizes s and strips any configured release-group suffix from its
// tail, so "track_title-nrg" compares equal to "track title".
func (m *Matcher) Clean(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	lower = extensionRe.ReplaceAllString(lower, "")
	for _, suffix := range m.ignoredSuffixes {
		for _, sep := range []string{"-", "_", " "} {
			tail := sep + suffix
			if strings.HasSuffix(lower, tail) {
				lower = strings.TrimSpace(lower[:len(lower)-len(tail)])
				break
			}
		}
	}
	return Normalize(lower)
}

// Similarity scores two strings after suffix-aware cleaning.
func (m *Matcher) Similarity(a, b string) int {
	return similarityNormalized(m.Clean(a), m.Clean(b))
}

// Score rates how well the catalog row answers the entry, 0-100. The base
// score combines artist, title, and filename similarity; electronic mode then
// layers signed adjustments on top. The returned reasons name the electronic
// adjustments that fired, for debug output.
func (m *Matcher) Score(entry *Entry, file *catalog.File) (int, []string) {
	if entry == nil || file == nil {
		return 0, nil
	}

	base := m.baseScore(entry, file)
	if base == 0 {
		return 0, nil
	}
	if !m.electronic {
		return clampScore(base), nil
	}

	bonus, reasons := m.electronicBonus(entry, file)
	return clampScore(base + bonus), reasons
}

func (m *Matcher) baseScore(entry *Entry, file *catalog.File) int {
	artistScore := 0
	titleScore := 0

	title := entry.CleanTitle
	if title == "" {
		title = entry.Title
	}

	if entry.Artist != "" {
		artistScore = m.artistScore(entry, file.Artist)
		if artistScore < 70 && file.Filename != "" {
			if s := m.filenameScore(entry.Artist, file.Filename); s > artistScore {
				artistScore = s
			}
		}
	}
	if title != "" {
		titleScore = m.Similarity(title, file.Title)
		// A remix-specific request can beat the clean title against files
		// whose tags carry the remix name.
		if entry.HasRemix() && entry.Title != title {
			if s := m.Similarity(entry.Title, file.Title); s > titleScore {
				titleScore = s
			}
		}
		if titleScore < 70 && file.Filename != "" {
			if s := m.filenameScore(title, file.Filename); s > titleScore {
				titleScore = s
			}
		}
	}

	switch {
	case entry.Artist != "" && title != "":
		floor := m.threshold - 10
		if floor < 65 {
			floor = 65
		}
		switch {
		case artistScore >= floor && titleScore >= floor:
			return int(float64(artistScore)*0.6 + float64(titleScore)*0.4)
		case artistScore >= 85 || titleScore >= 85:
			best := artistScore
			if titleScore > best {
				best = titleScore
			}
			return int(float64(best) * 0.75)
		default:
			if file.Filename != "" {
				full := entry.Artist + " " + title
				if s := m.filenameScore(full, file.Filename); s >= 80 {
					return int(float64(s) * 0.65)
				}
			}
			return 0
		}
	case entry.Artist != "":
		return artistScore
	default:
		return titleScore
	}
}

// artistScore favors exact matches against the entry's artist variations
// before falling back to fuzzy similarity.
func (m *Matcher) artistScore(entry *Entry, fileArtist string) int {
	if fileArtist == "" {
		return 0
	}
	cleanFile := m.Clean(fileArtist)
	if cleanFile == "" {
		return 0
	}
	if m.Clean(entry.Artist) == cleanFile {
		return 100
	}

	best := 0
	for _, variation := range entry.Variations {
		cleanVar := m.Clean(variation)
		if cleanVar == cleanFile {
			if best < 95 {
				best = 95
			}
			continue
		}
		if s := similarityNormalized(cleanVar, cleanFile); s > best {
			best = s
		}
	}
	if best == 0 {
		best = similarityNormalized(m.Clean(entry.Artist), cleanFile)
	}
	return best
}

// filenameScore matches a query against the whole filename and against its
// dash-separated parts, whichever scores best.
func (m *Matcher) filenameScore(query, filename string) int {
	cleanQuery := m.Clean(query)
	cleanName := m.Clean(filename)
	if cleanQuery == "" || cleanName == "" {
		return 0
	}

	best := similarityNormalized(cleanQuery, cleanName)
	if best >= 80 {
		return best
	}
	for _, part := range splitFilenameParts(filename) {
		cleanPart := m.Clean(part)
		if len(cleanPart) < 3 {
			continue
		}
		if s := similarityNormalized(cleanQuery, cleanPart); s > best {
			best = s
		}
	}
	return best
}

func splitFilenameParts(filename string) []string {
	filename = strings.ReplaceAll(filename, "_-_", " - ")
	return strings.Split(filename, " - ")
}
