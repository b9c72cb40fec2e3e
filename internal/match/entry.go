package match

import (
	"regexp"
	"strings"
)

// separators accepted in free-text batch lines, tried in priority order.
// " - " outranks "," so "Artist1, Artist2 - Title" splits on the dash and the
// comma stays inside the artist part.
var separators = []string{" - ", " – ", "_-_", " : ", ": ", ","}

var remixKeywords = []string{"remix", "mix", "edit", "version", "remaster"}

var (
	remixDashTailRe  = regexp.MustCompile(`(?i)\s*-\s*[^-]*(remix|mix|edit|version|remaster)[^-]*$`)
	remixParenTailRe = regexp.MustCompile(`(?i)\s*\([^)]*(remix|mix|edit|version|remaster)[^)]*\)\s*$`)
	remixWordTailRe  = regexp.MustCompile(`(?i)\s+(remix|mix|edit|version|remaster).*$`)
	parenRemixRe     = regexp.MustCompile(`(?i)\(([^)]*(?:remix|mix|edit|version|remaster)[^)]*)\)`)
	nonWordRe        = regexp.MustCompile(`\W`)
)

// artistSplitRe separates collaborating artists inside one artist field.
var artistSplitRe = regexp.MustCompile(`(?i)\s*(?:,|&|\bfeat\.?\s|\bft\.?\s|\bvs\.?\s)\s*`)

// Entry is one parsed free-text track reference. Immutable once parsed.
type Entry struct {
	Raw  string
	Line int

	Artist     string
	Artists    []string
	Variations []string
	Title      string
	CleanTitle string
	RemixInfo  string
}

// ParseEntry parses one line of a match file. It returns nil for blank lines
// and '#' comments. Lines with no recognized separator become title-only
// entries. swapped treats the part before the separator as the title rather
// than the artist.
func ParseEntry(raw string, line int, swapped bool) *Entry {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}

	entry := &Entry{Raw: trimmed, Line: line}

	artistPart, titlePart, remixInfo, ok := splitLine(trimmed)
	if !ok {
		entry.Title = trimmed
		entry.CleanTitle = trimmed
		return entry
	}
	if swapped {
		artistPart, titlePart = titlePart, artistPart
	}

	entry.Title = titlePart
	entry.RemixInfo = remixInfo
	entry.Artists = splitArtists(artistPart)
	if len(entry.Artists) > 0 {
		entry.Artist = entry.Artists[0]
	}
	entry.Variations = artistVariations(entry.Artist)
	entry.CleanTitle = cleanTitle(titlePart, remixInfo)

	if entry.RemixInfo == "" && containsRemixKeyword(titlePart) {
		entry.RemixInfo = titlePart
	}

	return entry
}

// splitLine finds the highest-priority separator and splits around it. The
// " - " separator gets extra treatment: a trailing dash-delimited part that
// names a remix is peeled off as remix info.
func splitLine(line string) (artist, title, remix string, ok bool) {
	for _, sep := range separators {
		if !strings.Contains(line, sep) {
			continue
		}
		if sep == " - " {
			return splitDashed(line)
		}
		parts := strings.SplitN(line, sep, 2)
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), "", true
	}
	return "", "", "", false
}

func splitDashed(line string) (artist, title, remix string, ok bool) {
	parts := strings.Split(line, " - ")
	artist = strings.TrimSpace(parts[0])

	switch {
	case len(parts) == 2:
		title = strings.TrimSpace(parts[1])
		if containsRemixKeyword(title) {
			remix = title
		}
	default:
		last := strings.TrimSpace(parts[len(parts)-1])
		if containsRemixKeyword(last) {
			title = strings.TrimSpace(parts[1])
			remix = last
		} else {
			title = strings.TrimSpace(strings.Join(parts[1:], " - "))
			if containsRemixKeyword(title) {
				remix = title
			}
		}
	}
	return artist, title, remix, true
}

func splitArtists(artistPart string) []string {
	if artistPart == "" {
		return nil
	}
	var artists []string
	for _, part := range artistSplitRe.Split(artistPart, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			artists = append(artists, part)
		}
	}
	return artists
}

// artistVariations yields alternate artist spellings worth an exact-match
// check. Unknown/VA style placeholders map onto each other because promo
// collections label the same artist inconsistently.
func artistVariations(artist string) []string {
	if artist == "" {
		return nil
	}
	variations := []string{artist}
	if lower := strings.ToLower(artist); lower != artist {
		variations = append(variations, lower)
	}
	switch strings.ToLower(artist) {
	case "unknown", "various", "va", "various artists":
		variations = append(variations, "unknown", "promo", "various", "va")
	case "promo":
		variations = append(variations, "unknown", "promo", "various")
	}
	return variations
}

// cleanTitle strips embedded remix qualifiers so the base title can match
// non-remix files too.
func cleanTitle(title, remixInfo string) string {
	if remixInfo != "" && remixInfo != title {
		return title
	}
	if remixInfo == "" {
		return title
	}
	clean := remixDashTailRe.ReplaceAllString(title, "")
	clean = remixParenTailRe.ReplaceAllString(clean, "")
	clean = remixWordTailRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return title
	}
	return clean
}

// HasRemix reports whether the entry asks for a specific remix.
func (e *Entry) HasRemix() bool {
	if e == nil {
		return false
	}
	if strings.TrimSpace(e.RemixInfo) != "" {
		return true
	}
	return containsRemixKeyword(e.Title)
}

// RemixTerms returns the distinct remix-describing tokens of the entry, used
// to check whether a candidate file is the requested remix.
func (e *Entry) RemixTerms() []string {
	if !e.HasRemix() {
		return nil
	}

	var raw []string
	if e.RemixInfo != "" {
		raw = append(raw, strings.Fields(strings.ToLower(e.RemixInfo))...)
	}
	if containsRemixKeyword(e.Title) {
		if m := parenRemixRe.FindStringSubmatch(e.Title); m != nil {
			raw = append(raw, strings.Fields(strings.ToLower(m[1]))...)
		}
		for _, part := range strings.Split(e.Title, " - ") {
			if containsRemixKeyword(part) {
				raw = append(raw, strings.Fields(strings.ToLower(part))...)
			}
		}
	}

	var (
		terms []string
		seen  = map[string]struct{}{}
	)
	for _, term := range raw {
		term = nonWordRe.ReplaceAllString(term, "")
		if len(term) <= 2 {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

func containsRemixKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range remixKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
