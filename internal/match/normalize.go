package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are tokens too common to carry matching signal, tuned for
// electronic music collections where "remix", "dj" and friends appear
// everywhere.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "a": {}, "an": {}, "is": {}, "are": {},
	"vs": {}, "feat": {}, "ft": {}, "dj": {}, "mc": {},
	"original": {}, "mix": {}, "remix": {}, "edit": {},
	"extended": {}, "radio": {}, "club": {}, "dance": {}, "version": {},
	"remaster": {}, "remastered": {},
}

var (
	extensionRe   = regexp.MustCompile(`\.(mp3|flac|m4a|aac|wav|ogg)$`)
	remixParenRe  = regexp.MustCompile(`\s*\([^)]*(remix|mix|edit|remaster|version|original|extended|radio|club)[^)]*\)\s*`)
	// A separator after the digits is required so "24k magic" keeps its
	// leading token; only "01 track"-style prefixes are stripped.
	trackPrefixRe = regexp.MustCompile(`^\s*[a-z]?\d+[\s._-]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize lowercases s, drops a trailing audio extension, strips diacritics
// and punctuation, removes parenthesised remix qualifiers and a leading track
// number, and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = extensionRe.ReplaceAllString(s, "")
	s = stripDiacritics(s)
	s = remixParenRe.ReplaceAllString(s, " ")
	s = replacePunctuation(s)
	s = trackPrefixRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Keywords extracts the significant tokens of s for cache prefiltering:
// normalized words of at least three characters that are not stopwords, not
// bare numbers, and not implausibly long. Order follows first appearance;
// duplicates are dropped.
func Keywords(s string) []string {
	return meaningfulWords(Normalize(s))
}

func meaningfulWords(normalized string) []string {
	if normalized == "" {
		return nil
	}
	var (
		words []string
		seen  = map[string]struct{}{}
	)
	for _, word := range strings.Fields(normalized) {
		if len(word) < 3 || len(word) > 20 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if isAllDigits(word) {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	return words
}

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		return s
	}
	return out
}

func replacePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
