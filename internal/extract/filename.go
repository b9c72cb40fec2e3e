package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// trackPrefixRe matches leading track numbers like "01 - ", "12_", or "A3-".
var trackPrefixRe = regexp.MustCompile(`^[A-Za-z]?\d+[\s._-]+`)

// ParseFilename splits a filename into artist and title. Recognized shapes,
// in priority order: "Artist - Title", "Artist_-_Title", "Artist_Title",
// each optionally behind a numeric track prefix. swapped flips the two parts
// for collections named "Title - Artist". When no separator is found the
// whole name becomes the title.
func ParseFilename(filename string, swapped bool) (artist, title string) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.TrimSpace(name)
	name = trackPrefixRe.ReplaceAllString(name, "")

	var first, second string
	switch {
	case strings.Contains(name, " - "):
		parts := strings.SplitN(name, " - ", 2)
		first, second = parts[0], parts[1]
	case strings.Contains(name, "_-_"):
		parts := strings.SplitN(name, "_-_", 2)
		first, second = parts[0], parts[1]
	case strings.Contains(name, "_"):
		parts := strings.SplitN(name, "_", 2)
		first, second = parts[0], parts[1]
	default:
		return "", cleanPart(name)
	}

	artist, title = cleanPart(first), cleanPart(second)
	if swapped {
		artist, title = title, artist
	}
	return artist, title
}

func cleanPart(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
