package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLen = 50

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a canonical name into a path-safe identifier fragment:
// lower-cased, diacritics stripped, non-alphanumeric runs collapsed to a
// single hyphen, truncated to 50 characters. Total: empty input yields an
// empty string, never an error.
func Slugify(name string) string {
	s := strings.ToLower(name)

	// NFD then drop combining marks, e.g. "ö" -> "o".
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = nonSlugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
		s = strings.TrimRight(s, "-")
	}
	return s
}
